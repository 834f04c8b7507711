// Package upload implements the upload-and-mint pipeline: file validation,
// archive building, NFT metadata construction and the staged orchestration
// that takes a set of local files to a confirmed on-chain token.
package upload

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Category tells the pipeline whether the payload is a dataset or a model.
// The numeric values match the content-type codes the registry contract
// expects (dataset = 0, model = 1).
type Category uint8

const (
	CategoryDataset Category = 0
	CategoryModel   Category = 1
)

const (
	maxModelFileSize   = 10 << 30 // 10 GiB
	maxDatasetFileSize = 50 << 30 // 50 GiB
)

func (c Category) String() string {
	switch c {
	case CategoryModel:
		return "MODEL"
	case CategoryDataset:
		return "DATASET"
	default:
		return "UNKNOWN"
	}
}

// Code returns the uint8 content-type code used in the contract call.
func (c Category) Code() uint8 { return uint8(c) }

// MaxFileSize is the per-file selection ceiling for the category.
func (c Category) MaxFileSize() int64 {
	if c == CategoryDataset {
		return maxDatasetFileSize
	}
	return maxModelFileSize
}

// ParseCategory accepts "model"/"dataset" in any case.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "model":
		return CategoryModel, nil
	case "dataset":
		return CategoryDataset, nil
	default:
		return 0, fmt.Errorf("unknown category %q (want model or dataset)", s)
	}
}

// File is a candidate upload file. Content is read lazily through Open so
// multi-gigabyte payloads are never held in memory by the pipeline itself.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FileFromPath builds a File backed by a file on disk. The base name is used
// as the archive entry / storage object name.
func FileFromPath(path string) (File, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name: filepath.Base(path),
		Size: fi.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FileFromBytes builds an in-memory File. Used for small payloads and tests.
func FileFromBytes(name string, data []byte) File {
	return File{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// PreparedPayload is the single file that leaves the archive-building stage,
// either the original file untouched or a freshly built archive.
type PreparedPayload struct {
	File     File
	Archived bool

	cleanup func() error
}

// Close removes staging artifacts left behind by archive building. Safe to
// call on pass-through payloads.
func (p *PreparedPayload) Close() error {
	if p == nil || p.cleanup == nil {
		return nil
	}
	return p.cleanup()
}
