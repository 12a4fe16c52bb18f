package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opark001/vertex-gemini-web/internal/aiclient"
)

type fakeImageGen struct {
	last aiclient.ImageRequest
	res  *aiclient.ImageResult
	err  error
}

func (f *fakeImageGen) GenerateText(context.Context, aiclient.TextRequest) (*aiclient.TextResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeImageGen) GenerateImage(_ context.Context, req aiclient.ImageRequest) (*aiclient.ImageResult, error) {
	f.last = req
	return f.res, f.err
}

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestNowStampIsFileSafe(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}-\d{3}Z$`), nowStamp())
}

func TestSaveImageWritesWithExtension(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	p, mime, err := saveImage(aiclient.Image{MimeType: "image/jpeg", Data: "QUJD"}, dir, "carrot", 0, "stamp")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "carrot-stamp.jpg"), p)
	assert.Equal(t, "image/jpeg", mime)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "ABC", string(b))
}

func TestSaveImageResize(t *testing.T) {
	dir := t.TempDir()
	p, mime, err := saveImage(aiclient.Image{MimeType: "image/png", Data: pngBase64(t, 64, 64)}, dir, "x", 16, "s")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	f, err := os.Open(p)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}

func TestRunSendsInputImage(t *testing.T) {
	dir := t.TempDir()
	raw, err := base64.StdEncoding.DecodeString(pngBase64(t, 2, 2))
	require.NoError(t, err)
	input := filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(input, raw, 0o644))

	gen := &fakeImageGen{res: &aiclient.ImageResult{Images: []aiclient.Image{{MimeType: "image/png", Data: pngBase64(t, 4, 4)}}}}
	p, _, err := run(context.Background(), gen, "edit it", &options{outDir: dir, prefix: "edit", input: input})
	require.NoError(t, err)
	assert.FileExists(t, p)
	assert.Equal(t, "edit it", gen.last.Prompt)
	assert.Equal(t, "image/png", gen.last.InputMimeType)
	assert.NotEmpty(t, gen.last.InputBase64)
}

func TestRunPropagatesNoImage(t *testing.T) {
	gen := &fakeImageGen{err: &aiclient.NoImageError{}}
	_, _, err := run(context.Background(), gen, "x", &options{outDir: t.TempDir(), prefix: "p"})
	var noImg *aiclient.NoImageError
	assert.True(t, errors.As(err, &noImg))
}
