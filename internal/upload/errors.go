package upload

import "fmt"

// ValidationError rejects a file selection before any I/O happens. The user
// can always recover by changing the selection.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// CompressionError aborts archive building. FileName identifies the file
// that could not be read; it is empty for aggregate-size failures. The
// message always tells the user how to work around the failure, that
// guidance is part of the contract.
type CompressionError struct {
	FileName string
	Err      error
}

func (e *CompressionError) Error() string {
	if e.FileName != "" {
		return fmt.Sprintf(
			"failed to read %q while building the archive: %v; try uploading files individually or compress them manually before uploading",
			e.FileName, e.Err,
		)
	}
	return fmt.Sprintf("%v; reduce file sizes or upload files individually", e.Err)
}

func (e *CompressionError) Unwrap() error { return e.Err }

// StorageUploadError wraps a failure of the decentralized-storage boundary.
// The pipeline does not retry; the whole run can be resubmitted.
type StorageUploadError struct {
	Message string
	Err     error
}

func (e *StorageUploadError) Error() string { return e.Message }

func (e *StorageUploadError) Unwrap() error { return e.Err }

// MintError wraps a failure of the mint stage. PayloadRef and MetadataRef
// are preserved so a retried mint can reuse the already-stored content
// without uploading again.
type MintError struct {
	PayloadRef  string
	MetadataRef string
	Err         error
}

func (e *MintError) Error() string {
	return fmt.Sprintf("minting failed: %v", e.Err)
}

func (e *MintError) Unwrap() error { return e.Err }

// StageError tags any pipeline failure with the stage that produced it.
// Every error returned by Pipeline.Run is a *StageError.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
