package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/Timi16/dehug-go/internal/logging"
	"github.com/google/uuid"
)

// Storage is the decentralized-storage boundary the pipeline depends on.
// Store is not idempotent: duplicate calls may yield different references.
type Storage interface {
	// Store uploads a named blob and returns its locator (a gateway URL or
	// a bare reference).
	Store(ctx context.Context, name string, r io.Reader, size int64) (string, error)

	// StoreJSON serializes v and uploads it as a JSON document.
	StoreJSON(ctx context.Context, v any) (string, error)

	// RefOf normalizes a locator returned by Store into the canonical
	// content reference.
	RefOf(url string) string
}

// MintParams is the exact argument set of the registry contract's
// content-registration entry point.
type MintParams struct {
	ContentTypeCode uint8
	PayloadRef      string
	MetadataRef     string
	ImageRef        string
	Title           string
	Tags            []string
}

// MintResult reports a confirmed mint. TokenID is a decimal string and may
// be empty with Resolved=false when the transaction confirmed but no read
// strategy could determine the identifier.
type MintResult struct {
	TxHash      string
	TokenID     string
	Resolved    bool
	ExplorerURL string
}

// Minter is the ledger boundary: submit the registration transaction, wait
// for confirmation, resolve the token id.
type Minter interface {
	Mint(ctx context.Context, p MintParams) (*MintResult, error)
}

// Request is one complete upload submission.
type Request struct {
	Files       []File
	Title       string
	Description string
	Category    Category
	Tags        []string
	Uploader    string // wallet address of the uploader
	Extra       *MetadataExtra
}

// Outcome is the terminal result of one pipeline execution.
type Outcome struct {
	Success       bool
	TokenID       string
	TokenResolved bool
	TxHash        string
	ExplorerURL   string
	PayloadRef    string
	PayloadURL    string
	MetadataRef   string
	MetadataURL   string
}

// Pipeline sequences validation, archive building, the two storage uploads
// and the mint into one linear run with side-channel progress reporting.
// It is the sole writer of the progress stream; everything else is handed
// forward by value.
type Pipeline struct {
	storage    Storage
	minter     Minter
	log        logging.Logger
	onProgress ProgressFunc
	now        func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithProgress registers the side-channel progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.onProgress = fn }
}

// WithClock overrides the upload-timestamp source. Tests use it.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func New(storage Storage, minter Minter, log logging.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		storage: storage,
		minter:  minter,
		log:     log,
		now:     time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pipeline) emit(stage Stage, message string) {
	if p.onProgress != nil {
		p.onProgress(Progress{Stage: stage, Percent: stage.Percent(), Message: message})
	}
}

func (p *Pipeline) fail(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// Run executes the pipeline for one request. It returns either a completed
// Outcome or a *StageError tagged with the stage that failed; never both.
// There is no retry-in-place: the caller owns resubmission. The context is
// honored at every stage boundary, so a cancelled run stops before its next
// suspension point.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Outcome, error) {
	runID := uuid.NewString()
	log := p.log.With("run_id", runID)

	p.emit(StageIdle, "")

	if err := p.checkRequest(req); err != nil {
		return nil, p.fail(StageIdle, err)
	}

	// Stage 1: prepare the payload (archive when more than one file).
	if len(req.Files) > 1 {
		p.emit(StageCompressing, "Compressing multiple files into archive...")
	}
	payload, err := BuildPayload(ctx, req.Files)
	if err != nil {
		return nil, p.fail(StageCompressing, err)
	}
	defer payload.Close()
	if payload.Archived {
		log.Info(ctx, "archive built", "name", payload.File.Name, "size", payload.File.Size, "files", len(req.Files))
	}

	// Stage 2: payload to storage.
	if err := ctx.Err(); err != nil {
		return nil, p.fail(StageUploadingPayload, err)
	}
	p.emit(StageUploadingPayload, "Uploading files to decentralized storage...")

	src, err := payload.File.Open()
	if err != nil {
		return nil, p.fail(StageUploadingPayload, &StorageUploadError{
			Message: "failed to read the prepared payload",
			Err:     err,
		})
	}
	payloadURL, err := p.storage.Store(ctx, payload.File.Name, src, payload.File.Size)
	src.Close()
	if err != nil {
		return nil, p.fail(StageUploadingPayload, &StorageUploadError{
			Message: "failed to upload files to decentralized storage; check your connection and try again",
			Err:     err,
		})
	}
	payloadRef := p.storage.RefOf(payloadURL)
	log.Info(ctx, "payload stored", "ref", payloadRef)

	// Stage 3: build the metadata document.
	if err := ctx.Err(); err != nil {
		return nil, p.fail(StageBuildingMetadata, err)
	}
	p.emit(StageBuildingMetadata, "Creating NFT metadata...")
	meta := BuildMetadata(req.Title, req.Description, req.Category, payloadRef, req.Uploader, req.Tags, p.now(), req.Extra)

	// Stage 4: metadata to storage.
	p.emit(StageUploadingMetadata, "Uploading metadata to decentralized storage...")
	metadataURL, err := p.storage.StoreJSON(ctx, meta)
	if err != nil {
		return nil, p.fail(StageUploadingMetadata, &StorageUploadError{
			Message: "failed to create or upload metadata; please try again",
			Err:     err,
		})
	}
	metadataRef := p.storage.RefOf(metadataURL)
	log.Info(ctx, "metadata stored", "ref", metadataRef)

	// Stage 5: mint. From here on payloadRef/metadataRef stay attached to
	// any failure so a retried mint needs no re-upload.
	if err := ctx.Err(); err != nil {
		return nil, p.fail(StageMinting, err)
	}
	p.emit(StageMinting, "Minting NFT on blockchain...")

	minted, err := p.minter.Mint(ctx, MintParams{
		ContentTypeCode: req.Category.Code(),
		PayloadRef:      payloadRef,
		MetadataRef:     metadataRef,
		ImageRef:        DefaultImageRef,
		Title:           req.Title,
		Tags:            req.Tags,
	})
	if err != nil {
		return nil, p.fail(StageMinting, &MintError{
			PayloadRef:  payloadRef,
			MetadataRef: metadataRef,
			Err:         err,
		})
	}

	if !minted.Resolved {
		log.Warn(ctx, "token id unresolved, verify via the ledger explorer", "tx", minted.TxHash)
	} else {
		log.Info(ctx, "mint confirmed", "token_id", minted.TokenID, "tx", minted.TxHash)
	}

	p.emit(StageComplete, "Upload complete!")

	return &Outcome{
		Success:       true,
		TokenID:       minted.TokenID,
		TokenResolved: minted.Resolved,
		TxHash:        minted.TxHash,
		ExplorerURL:   minted.ExplorerURL,
		PayloadRef:    payloadRef,
		PayloadURL:    payloadURL,
		MetadataRef:   metadataRef,
		MetadataURL:   metadataURL,
	}, nil
}

func (p *Pipeline) checkRequest(req Request) error {
	if len(req.Files) == 0 {
		return &ValidationError{Reason: "select at least one file to upload"}
	}
	if strings.TrimSpace(req.Title) == "" {
		return &ValidationError{Reason: "enter a title for your upload"}
	}
	if strings.TrimSpace(req.Description) == "" {
		return &ValidationError{Reason: "enter a description for your upload"}
	}
	if strings.TrimSpace(req.Uploader) == "" {
		return &ValidationError{Reason: "connect your wallet to continue"}
	}
	if req.Extra == nil || strings.TrimSpace(req.Extra.Category) == "" {
		return &ValidationError{Reason: "select a category for your upload"}
	}
	if strings.TrimSpace(req.Extra.License) == "" {
		return &ValidationError{Reason: "select a license for your upload"}
	}
	if err := Validate(req.Files, nil, req.Category); err != nil {
		return err
	}
	return nil
}

// IsUnresolvedToken reports whether a successful outcome needs manual token
// verification on the explorer.
func IsUnresolvedToken(o *Outcome) bool {
	return o != nil && o.Success && !o.TokenResolved
}

// AsValidation extracts a *ValidationError from a pipeline error, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}
