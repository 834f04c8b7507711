package upload

import (
	"archive/zip"
	"compress/flate"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Timi16/dehug-go/internal/filex"
)

const (
	// ArchiveName is the fixed name of the container built from multiple
	// loose files.
	ArchiveName = "upload-archive.zip"

	// maxArchiveInput bounds the aggregate input size of one archive build.
	// The build is a single pass over every file, so this is the
	// back-pressure mechanism, not a dynamic one.
	maxArchiveInput = 8 << 30 // 8 GiB

	// Level 6 trades compression ratio for bounded CPU time on large
	// model weights.
	archiveCompressionLevel = 6
)

// BuildPayload turns the validated file selection into the single file that
// goes to storage. One file passes through untouched. Two or more files are
// packed into a zip container written to a staging directory; the returned
// payload's Close removes it.
//
// Failures are *CompressionError: either the aggregate ceiling was exceeded
// (no output is produced) or a single file could not be read, in which case
// the error names it.
func BuildPayload(ctx context.Context, files []File) (*PreparedPayload, error) {
	switch len(files) {
	case 0:
		return nil, errors.New("no files to upload")
	case 1:
		return &PreparedPayload{File: files[0]}, nil
	}

	var total int64
	for _, f := range files {
		total += f.Size
	}
	if total > maxArchiveInput {
		return nil, &CompressionError{
			Err: fmt.Errorf("total file size %s exceeds the safe compression limit of %s", formatSize(total), formatSize(maxArchiveInput)),
		}
	}

	dir, err := filex.TempStagingDir()
	if err != nil {
		return nil, &CompressionError{Err: err}
	}
	cleanup := func() error { return os.RemoveAll(dir) }

	path := filepath.Join(dir, ArchiveName)
	if err := writeArchive(ctx, path, files); err != nil {
		_ = cleanup()
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		_ = cleanup()
		return nil, &CompressionError{Err: err}
	}

	return &PreparedPayload{
		File: File{
			Name: ArchiveName,
			Size: fi.Size(),
			Open: func() (io.ReadCloser, error) { return os.Open(path) },
		},
		Archived: true,
		cleanup:  cleanup,
	}, nil
}

func writeArchive(ctx context.Context, path string, files []File) error {
	out, err := os.Create(path)
	if err != nil {
		return &CompressionError{Err: err}
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, archiveCompressionLevel)
	})

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &CompressionError{Err: err}
		}
		if err := addToArchive(zw, f); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return &CompressionError{Err: err}
	}
	return out.Close()
}

func addToArchive(zw *zip.Writer, f File) error {
	src, err := f.Open()
	if err != nil {
		return &CompressionError{FileName: f.Name, Err: err}
	}
	defer src.Close()

	w, err := zw.Create(f.Name)
	if err != nil {
		return &CompressionError{FileName: f.Name, Err: err}
	}
	if _, err := io.Copy(w, src); err != nil {
		return &CompressionError{FileName: f.Name, Err: err}
	}
	return nil
}
