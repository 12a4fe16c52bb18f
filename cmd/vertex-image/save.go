package main

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/opark001/vertex-gemini-web/internal/aiclient"
	"github.com/opark001/vertex-gemini-web/internal/constants"
	"github.com/opark001/vertex-gemini-web/internal/imageutil"
)

// nowStamp is an ISO-8601 UTC time with ':' and '.' replaced, safe for file
// names.
func nowStamp() string {
	ts := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	return strings.NewReplacer(":", "-", ".", "-").Replace(ts)
}

// saveImage decodes img, optionally thumbnails it, and writes
// <dir>/<prefix>-<stamp>.<ext>. It returns the path and the written mime type.
func saveImage(img aiclient.Image, dir, prefix string, resize int, stamp string) (string, string, error) {
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return "", "", fmt.Errorf("decode image: %w", err)
	}
	mime := img.MimeType
	if resize > 0 {
		if data, err = imageutil.ThumbnailPNG(data, resize); err != nil {
			return "", "", fmt.Errorf("resize image: %w", err)
		}
		mime = constants.ContentTypePNG
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.%s", prefix, stamp, aiclient.ExtFromMime(mime)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", err
	}
	return path, mime, nil
}

// readInput loads an image file as base64, sniffing its mime type.
func readInput(path string) (string, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read input image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), http.DetectContentType(b), nil
}
