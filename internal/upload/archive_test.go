package upload

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPayload_SingleFilePassesThroughUnchanged(t *testing.T) {
	content := []byte("raw model weights")
	in := FileFromBytes("model.bin", content)

	payload, err := BuildPayload(context.Background(), []File{in})
	require.NoError(t, err)
	t.Cleanup(func() { _ = payload.Close() })

	require.False(t, payload.Archived)
	require.Equal(t, "model.bin", payload.File.Name)
	require.Equal(t, int64(len(content)), payload.File.Size)

	rc, err := payload.File.Open()
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, content, got, "no compression round-trip for a single file")
}

func TestBuildPayload_NoFiles(t *testing.T) {
	_, err := BuildPayload(context.Background(), nil)
	require.Error(t, err)
}

func TestBuildPayload_MultiFileArchiveRoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"model.bin":      bytes.Repeat([]byte{0xAB}, 4096),
		"config.json":    []byte(`{"layers": 12}`),
		"tokenizer.json": []byte(`{"vocab_size": 50257}`),
	}

	var files []File
	for name, data := range inputs {
		files = append(files, FileFromBytes(name, data))
	}

	payload, err := BuildPayload(context.Background(), files)
	require.NoError(t, err)
	t.Cleanup(func() { _ = payload.Close() })

	require.True(t, payload.Archived)
	require.Equal(t, ArchiveName, payload.File.Name, "exactly one payload file leaves the stage")

	rc, err := payload.File.Open()
	require.NoError(t, err)
	defer rc.Close()
	blob, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, int64(len(blob)), payload.File.Size)

	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	require.NoError(t, err)
	require.Len(t, zr.File, len(inputs))

	for _, zf := range zr.File {
		want, ok := inputs[zf.Name]
		require.True(t, ok, "unexpected archive entry %q", zf.Name)

		r, err := zf.Open()
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		r.Close()
		require.NoError(t, err)
		require.Equal(t, want, got, "entry %q must be byte-identical after decompression", zf.Name)
	}
}

func TestBuildPayload_AggregateCeilingFailsFast(t *testing.T) {
	// Sizes are declared, not read, so the ceiling check needs no real data.
	big := File{Name: "a.bin", Size: 5 << 30, Open: func() (io.ReadCloser, error) {
		t.Fatal("file must not be opened when the ceiling check fails")
		return nil, nil
	}}
	alsoBig := File{Name: "b.bin", Size: 4 << 30, Open: big.Open}

	_, err := BuildPayload(context.Background(), []File{big, alsoBig})
	require.Error(t, err)

	var ce *CompressionError
	require.True(t, errors.As(err, &ce))
	require.Empty(t, ce.FileName)
	require.Contains(t, ce.Error(), "exceeds the safe compression limit")
}

func TestBuildPayload_UnreadableFileNamesOffender(t *testing.T) {
	boom := errors.New("device not ready")
	files := []File{
		FileFromBytes("good.json", []byte("{}")),
		{Name: "broken.bin", Size: 10, Open: func() (io.ReadCloser, error) { return nil, boom }},
	}

	_, err := BuildPayload(context.Background(), files)
	require.Error(t, err)

	var ce *CompressionError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, "broken.bin", ce.FileName)
	require.ErrorIs(t, err, boom)
	require.Contains(t, ce.Error(), "compress them manually", "workaround guidance is part of the error contract")
}

func TestBuildPayload_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []File{
		FileFromBytes("a.txt", []byte("a")),
		FileFromBytes("b.txt", []byte("b")),
	}
	_, err := BuildPayload(ctx, files)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPreparedPayload_CloseRemovesStaging(t *testing.T) {
	files := []File{
		FileFromBytes("a.txt", []byte("aaa")),
		FileFromBytes("b.txt", []byte("bbb")),
	}
	payload, err := BuildPayload(context.Background(), files)
	require.NoError(t, err)

	rc, err := payload.File.Open()
	require.NoError(t, err)
	path := rc.(*os.File).Name()
	rc.Close()

	require.NoError(t, payload.Close())
	_, err = os.Stat(filepath.Dir(path))
	require.True(t, os.IsNotExist(err), "staging directory should be removed on Close")
}
