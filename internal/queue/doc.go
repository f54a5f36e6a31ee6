// Package queue implements the durable, multi-process job queue that backs
// hopper's document-processing pipeline.
//
// A job is a pair of co-located files sharing a basename: the primary
// artifact (<uuid>.pdf.job) and its metadata sidecar (<uuid>.metadata.job).
// The pair lives in exactly one of four state directories under the queue
// root: jobs, priority_jobs, complete, error. A claimed pair carries a .lock
// suffix on both files. There is no database and no side index; every
// operation re-reads the filesystem, and rename is the only mutual-exclusion
// primitive, so independent OS processes can share a root safely.
//
// Multi-step operations follow one transition discipline: rename the primary
// first, then the metadata, and roll the primary back if the metadata rename
// fails. Treat this package as the single source of truth for queue
// semantics; higher layers translate its error kinds into exit codes and
// HTTP statuses but never touch the state directories directly.
package queue
