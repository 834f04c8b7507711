package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Timi16/dehug-go/internal/logging"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	stored     []string // object names, in call order
	storedJSON []any
	storeErr   error
	jsonErr    error
	nextRef    int
}

func (f *fakeStorage) Store(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.stored = append(f.stored, name)
	f.nextRef++
	return fmt.Sprintf("https://gateway.pinata.cloud/ipfs/QmRef%d", f.nextRef), nil
}

func (f *fakeStorage) StoreJSON(ctx context.Context, v any) (string, error) {
	if f.jsonErr != nil {
		return "", f.jsonErr
	}
	if _, err := json.Marshal(v); err != nil {
		return "", err
	}
	f.storedJSON = append(f.storedJSON, v)
	f.nextRef++
	return fmt.Sprintf("https://gateway.pinata.cloud/ipfs/QmRef%d", f.nextRef), nil
}

func (f *fakeStorage) RefOf(url string) string {
	return strings.TrimPrefix(url, "https://gateway.pinata.cloud/ipfs/")
}

type fakeMinter struct {
	gotParams *MintParams
	result    *MintResult
	err       error
}

func (f *fakeMinter) Mint(ctx context.Context, p MintParams) (*MintResult, error) {
	f.gotParams = &p
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func okMinter() *fakeMinter {
	return &fakeMinter{result: &MintResult{
		TxHash:      "0xdeadbeef",
		TokenID:     "42",
		Resolved:    true,
		ExplorerURL: "https://sepolia.basescan.org/tx/0xdeadbeef",
	}}
}

func validRequest(files ...File) Request {
	if len(files) == 0 {
		files = []File{FileFromBytes("model.bin", []byte("weights"))}
	}
	return Request{
		Files:       files,
		Title:       "bert-tiny",
		Description: "A small BERT",
		Category:    CategoryModel,
		Tags:        []string{"nlp"},
		Uploader:    "0x0123456789abcdef0123456789abcdef01234567",
		Extra:       &MetadataExtra{Category: "Natural Language Processing", License: "mit"},
	}
}

func newTestPipeline(s Storage, m Minter, opts ...Option) *Pipeline {
	opts = append(opts, WithClock(func() time.Time { return metadataInstant }))
	return New(s, m, logging.NewDiscard(), opts...)
}

func TestPipeline_SingleFileSkipsCompression(t *testing.T) {
	storage := &fakeStorage{}
	minter := okMinter()

	var seen []Progress
	p := newTestPipeline(storage, minter, WithProgress(func(pr Progress) { seen = append(seen, pr) }))

	out, err := p.Run(context.Background(), validRequest())
	require.NoError(t, err)

	require.True(t, out.Success)
	require.Equal(t, "42", out.TokenID)
	require.True(t, out.TokenResolved)
	require.Equal(t, "QmRef1", out.PayloadRef)
	require.Equal(t, "QmRef2", out.MetadataRef)

	// The original file went to storage untouched, no archive stage.
	require.Equal(t, []string{"model.bin"}, storage.stored)
	for _, pr := range seen {
		require.NotEqual(t, StageCompressing, pr.Stage)
	}
}

func TestPipeline_MultiFileArchivesOnceAndUploadsOnce(t *testing.T) {
	storage := &fakeStorage{}
	minter := okMinter()
	p := newTestPipeline(storage, minter)

	req := validRequest(
		FileFromBytes("model.bin", []byte("weights")),
		FileFromBytes("config.json", []byte("{}")),
	)
	out, err := p.Run(context.Background(), req)
	require.NoError(t, err)
	require.True(t, out.Success)

	require.Equal(t, []string{ArchiveName}, storage.stored, "storage called once, with the archive")
	require.Len(t, storage.storedJSON, 1)

	meta := storage.storedJSON[0].(*NFTMetadata)
	require.Equal(t, "QmRef1", meta.Properties.PayloadRef, "metadata embeds the archive reference")

	require.NotNil(t, minter.gotParams)
	require.Equal(t, uint8(1), minter.gotParams.ContentTypeCode)
	require.Equal(t, "QmRef1", minter.gotParams.PayloadRef)
	require.Equal(t, "QmRef2", minter.gotParams.MetadataRef)
	require.Equal(t, DefaultImageRef, minter.gotParams.ImageRef)
}

func TestPipeline_ProgressMonotonicAndEndsAtHundred(t *testing.T) {
	storage := &fakeStorage{}

	var percents []int
	p := newTestPipeline(storage, okMinter(),
		WithProgress(func(pr Progress) { percents = append(percents, pr.Percent) }))

	req := validRequest(
		FileFromBytes("a.bin", []byte("a")),
		FileFromBytes("b.bin", []byte("b")),
	)
	_, err := p.Run(context.Background(), req)
	require.NoError(t, err)

	require.NotEmpty(t, percents)
	for i := 1; i < len(percents); i++ {
		require.GreaterOrEqual(t, percents[i], percents[i-1], "percent must be non-decreasing")
	}
	require.Equal(t, 100, percents[len(percents)-1])
}

func TestPipeline_ValidationFailuresBeforeAnyIO(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
		want   string
	}{
		{"no files", func(r *Request) { r.Files = nil }, "at least one file"},
		{"empty title", func(r *Request) { r.Title = "  " }, "title"},
		{"empty description", func(r *Request) { r.Description = "" }, "description"},
		{"no wallet", func(r *Request) { r.Uploader = "" }, "wallet"},
		{"no category", func(r *Request) { r.Extra = nil }, "category"},
		{"no license", func(r *Request) { r.Extra.License = "" }, "license"},
		{"mixed selection", func(r *Request) {
			r.Files = []File{file("a.zip", 1), file("b.bin", 1)}
		}, "cannot mix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := &fakeStorage{}
			p := newTestPipeline(storage, okMinter())

			req := validRequest()
			tt.mutate(&req)

			_, err := p.Run(context.Background(), req)
			require.Error(t, err)

			var se *StageError
			require.True(t, errors.As(err, &se))
			require.Equal(t, StageIdle, se.Stage)

			v, ok := AsValidation(err)
			require.True(t, ok)
			require.Contains(t, v.Reason, tt.want)
			require.Empty(t, storage.stored, "no I/O before validation passes")
		})
	}
}

func TestPipeline_StorageFailureTaggedWithStage(t *testing.T) {
	storage := &fakeStorage{storeErr: errors.New("gateway timeout")}
	p := newTestPipeline(storage, okMinter())

	_, err := p.Run(context.Background(), validRequest())
	require.Error(t, err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StageUploadingPayload, se.Stage)

	var sue *StorageUploadError
	require.True(t, errors.As(err, &sue))
	require.Contains(t, sue.Message, "check your connection and try again")
}

func TestPipeline_MetadataUploadFailure(t *testing.T) {
	storage := &fakeStorage{jsonErr: errors.New("503")}
	p := newTestPipeline(storage, okMinter())

	_, err := p.Run(context.Background(), validRequest())
	require.Error(t, err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StageUploadingMetadata, se.Stage)
}

func TestPipeline_MintFailureKeepsReferences(t *testing.T) {
	storage := &fakeStorage{}
	minter := &fakeMinter{err: errors.New("transaction was rejected in the wallet")}
	p := newTestPipeline(storage, minter)

	_, err := p.Run(context.Background(), validRequest())
	require.Error(t, err)

	var me *MintError
	require.True(t, errors.As(err, &me))
	require.Equal(t, "QmRef1", me.PayloadRef, "payload reference survives a wallet rejection")
	require.Equal(t, "QmRef2", me.MetadataRef)
	require.Contains(t, me.Error(), "rejected in the wallet")
}

func TestPipeline_UnresolvedTokenIsStillSuccess(t *testing.T) {
	storage := &fakeStorage{}
	minter := &fakeMinter{result: &MintResult{
		TxHash:      "0xbeef",
		Resolved:    false,
		ExplorerURL: "https://sepolia.basescan.org/tx/0xbeef",
	}}
	p := newTestPipeline(storage, minter)

	out, err := p.Run(context.Background(), validRequest())
	require.NoError(t, err, "a confirmed mint is never regressed to failure")

	require.True(t, out.Success)
	require.Empty(t, out.TokenID)
	require.True(t, IsUnresolvedToken(out))
	require.NotEmpty(t, out.ExplorerURL)
}

func TestPipeline_CancelledContextStopsBeforeUpload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	storage := &fakeStorage{}
	p := newTestPipeline(storage, okMinter())

	_, err := p.Run(ctx, validRequest())
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, storage.stored)
}
