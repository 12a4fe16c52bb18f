// Package aiclient is the boundary to the hosted generative model. It knows
// how to build requests and shape responses; nothing else in the module
// talks to the model directly.
package aiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/opark001/vertex-gemini-web/internal/constants"
)

// Generator produces text or images from a prompt.
type Generator interface {
	GenerateText(ctx context.Context, req TextRequest) (*TextResult, error)
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error)
}

// TextRequest is a single-turn text generation call. Nil tuning fields are
// left to the model's defaults.
type TextRequest struct {
	Prompt            string
	SystemInstruction string
	Model             string
	Temperature       *float64
	TopP              *float64
	MaxOutputTokens   *int
}

type TextResult struct {
	Model string          `json:"model"`
	Text  string          `json:"text"`
	Usage json.RawMessage `json:"usageMetadata"`
}

// ImageRequest generates an image, optionally editing InputBase64 (a data
// URL or bare base64 string).
type ImageRequest struct {
	Prompt        string
	Model         string
	InputBase64   string
	InputMimeType string
	Temperature   *float64
	TopP          *float64
}

type Image struct {
	MimeType string `json:"mimeType"`
	// Data is base64 without the data URL prefix.
	Data string `json:"-"`
}

// DataURL renders the image as a data: URL.
func (i Image) DataURL() string {
	return "data:" + i.MimeType + ";base64," + i.Data
}

type ImageResult struct {
	Model  string          `json:"model"`
	Images []Image         `json:"images"`
	Usage  json.RawMessage `json:"usageMetadata"`
}

var (
	// ErrProjectNotConfigured means no project id was set and none could be
	// discovered from application default credentials.
	ErrProjectNotConfigured = errors.New(constants.ErrProjectNotConfiguredMsg)
	ErrAccessToken          = errors.New(constants.ErrAccessTokenMsg)
	ErrEmptyPrompt          = errors.New(constants.ErrPromptRequired)
)

// APIError is a non-success HTTP status returned by the model endpoint.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("generative API returned %d: %s", e.Status, e.Body)
}

// NoImageError is returned when a response carried no inline image. Raw is
// the decoded response, kept for diagnostics.
type NoImageError struct {
	Raw json.RawMessage
}

func (e *NoImageError) Error() string { return "no image returned from the model" }

// Details returns a value suitable for the "details" field of an error
// response: the upstream body when it is JSON, the message otherwise.
func Details(err error) interface{} {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if json.Valid([]byte(apiErr.Body)) {
			return json.RawMessage(apiErr.Body)
		}
		return apiErr.Body
	}
	if err == nil {
		return nil
	}
	return err.Error()
}

var dataURLPattern = regexp.MustCompile(`(?s)^data:(.+);base64,(.*)$`)
var whitespace = regexp.MustCompile(`\s+`)

// NormalizeBase64 accepts a data URL or raw base64 and returns the bare
// base64 payload (whitespace removed) and its mime type.
func NormalizeBase64(input, mimeFromClient string) (string, string) {
	clean := input
	mime := mimeFromClient
	if mime == "" {
		mime = constants.ContentTypePNG
	}
	if m := dataURLPattern.FindStringSubmatch(input); m != nil {
		if m[1] != "" {
			mime = m[1]
		}
		clean = m[2]
	}
	return whitespace.ReplaceAllString(clean, ""), mime
}

// ExtFromMime maps an image mime type to a file extension.
func ExtFromMime(mime string) string {
	switch strings.ToLower(mime) {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	default:
		return "bin"
	}
}
