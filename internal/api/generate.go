package api

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opark001/vertex-gemini-web/internal/aiclient"
	"github.com/opark001/vertex-gemini-web/internal/constants"
	"github.com/opark001/vertex-gemini-web/internal/imageutil"
	"github.com/opark001/vertex-gemini-web/internal/logging"
)

// Config reports the active backend, location and default models.
func (h *Handler) Config(c *gin.Context) {
	var project interface{}
	if h.info.ProjectID != nil {
		if p := h.info.ProjectID(c.Request.Context()); p != "" {
			project = p
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"projectId":  project,
		"location":   h.info.Location,
		"textModel":  h.info.TextModel,
		"imageModel": h.info.ImageModel,
		"backend":    h.info.Backend,
	})
}

type generateTextBody struct {
	Prompt            interface{} `json:"prompt"`
	SystemInstruction interface{} `json:"systemInstruction"`
	Temperature       interface{} `json:"temperature"`
	TopP              interface{} `json:"topP"`
	MaxOutputTokens   interface{} `json:"maxOutputTokens"`
	ModelID           interface{} `json:"modelId"`
}

// GenerateText forwards a free-form prompt to the text model.
func (h *Handler) GenerateText(c *gin.Context) {
	var body generateTextBody
	if !bindBody(c, &body) {
		return
	}
	p := optString(body.Prompt)
	if p == "" {
		respondError(c, http.StatusBadRequest, constants.ErrPromptRequired, nil)
		return
	}
	res, err := h.gen.GenerateText(c.Request.Context(), aiclient.TextRequest{
		Prompt:            p,
		SystemInstruction: optString(body.SystemInstruction),
		Model:             optString(body.ModelID),
		Temperature:       optNumber(body.Temperature),
		TopP:              optNumber(body.TopP),
		MaxOutputTokens:   optInt(body.MaxOutputTokens),
	})
	if err != nil {
		logging.Error("generate-text failed", err, nil)
		respondError(c, http.StatusInternalServerError, constants.ErrTextGenerationFailed, aiclient.Details(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

type generateImageBody struct {
	Prompt        interface{} `json:"prompt"`
	ImageBase64   interface{} `json:"imageBase64"`
	ImageMimeType interface{} `json:"imageMimeType"`
	ModelID       interface{} `json:"modelId"`
	Temperature   interface{} `json:"temperature"`
	TopP          interface{} `json:"topP"`
	ThumbnailSize interface{} `json:"thumbnailSize"`
}

type imageOut struct {
	MimeType string `json:"mimeType"`
	DataURL  string `json:"dataUrl"`
}

// GenerateImage generates or edits an image. A positive thumbnailSize
// shrinks every returned image to fit that box, re-encoded as PNG.
func (h *Handler) GenerateImage(c *gin.Context) {
	var body generateImageBody
	if !bindBody(c, &body) {
		return
	}
	p := optString(body.Prompt)
	if p == "" {
		respondError(c, http.StatusBadRequest, constants.ErrPromptRequired, nil)
		return
	}
	res, err := h.gen.GenerateImage(c.Request.Context(), aiclient.ImageRequest{
		Prompt:        p,
		Model:         optString(body.ModelID),
		InputBase64:   optString(body.ImageBase64),
		InputMimeType: optString(body.ImageMimeType),
		Temperature:   optNumber(body.Temperature),
		TopP:          optNumber(body.TopP),
	})
	if err != nil {
		var noImg *aiclient.NoImageError
		if errors.As(err, &noImg) {
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{constants.JSONKeyError: constants.ErrNoImageReturned, constants.JSONKeyRaw: noImg.Raw})
			return
		}
		logging.Error("generate-image failed", err, nil)
		respondError(c, http.StatusInternalServerError, constants.ErrImageGenerationFailed, aiclient.Details(err))
		return
	}

	size := 0
	if n := optInt(body.ThumbnailSize); n != nil && *n > 0 {
		size = *n
	}
	images := make([]imageOut, 0, len(res.Images))
	for _, img := range res.Images {
		if size > 0 {
			img = thumbnail(img, size)
		}
		images = append(images, imageOut{MimeType: img.MimeType, DataURL: img.DataURL()})
	}
	c.JSON(http.StatusOK, gin.H{
		"model":         res.Model,
		"images":        images,
		"usageMetadata": res.Usage,
	})
}

// thumbnail returns img shrunk to size, or img unchanged if it cannot be
// decoded.
func thumbnail(img aiclient.Image, size int) aiclient.Image {
	raw, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		logging.Warn("thumbnail skipped: invalid base64", logging.Fields{"error": err.Error()})
		return img
	}
	out, err := imageutil.ThumbnailPNG(raw, size)
	if err != nil {
		logging.Warn("thumbnail skipped", logging.Fields{"error": err.Error(), "mime": img.MimeType})
		return img
	}
	return aiclient.Image{MimeType: constants.ContentTypePNG, Data: base64.StdEncoding.EncodeToString(out)}
}
