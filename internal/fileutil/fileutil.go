// Package fileutil provides streaming file-copy helpers shared by the queue
// and the CLI.
package fileutil

import (
	"io"
	"os"
	"path/filepath"
)

// copyChunkSize is the fixed buffer size used for streamed copies. Artifacts
// can be large, so copies never load a whole file into memory.
const copyChunkSize = 128 * 1024

// CopyChunked streams src to dst in fixed-size chunks with default
// permissions (0o644), truncating dst if it exists.
func CopyChunked(src, dst string) error {
	return CopyChunkedMode(src, dst, 0o644)
}

// CopyChunkedMode streams src to dst in fixed-size chunks, setting the given
// file mode on dst.
func CopyChunkedMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, copyChunkSize)
	if _, err := io.CopyBuffer(out, in, buf); err != nil {
		return err
	}
	return out.Close()
}

// WriteFileAtomic writes data to path via a temporary sibling followed by a
// rename, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
