// Package preflight provides readiness checks for the queue root and its
// state directories.
//
// These checks run in two contexts:
//   - The daemon runs them at startup and refuses to serve over a broken root.
//   - The CLI "hopper doctor" command prints each result so operators can
//     diagnose permission and disk-space problems before running workers.
package preflight
