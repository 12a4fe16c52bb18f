package aiclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/opark001/vertex-gemini-web/internal/constants"
)

// GenAIConfig selects the SDK backend: with an APIKey the Gemini developer
// API is used, otherwise Vertex AI with ProjectID and Location.
type GenAIConfig struct {
	APIKey     string
	ProjectID  string
	Location   string
	TextModel  string
	ImageModel string

	// BaseURL overrides the SDK endpoint (tests).
	BaseURL string
	// HTTPClient replaces the SDK transport. With the Vertex backend it also
	// skips credential discovery.
	HTTPClient *http.Client
}

// GenAIClient implements Generator on top of the google.golang.org/genai SDK.
type GenAIClient struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

func NewGenAIClient(ctx context.Context, cfg GenAIConfig) (*GenAIClient, error) {
	cc := &genai.ClientConfig{HTTPClient: cfg.HTTPClient}
	cc.HTTPOptions.BaseURL = cfg.BaseURL
	if cfg.APIKey != "" {
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	} else {
		if cfg.ProjectID == "" {
			return nil, ErrProjectNotConfigured
		}
		loc := cfg.Location
		if loc == "" {
			loc = constants.DefaultLocation
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.ProjectID
		cc.Location = loc
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	text := cfg.TextModel
	if text == "" {
		text = constants.DefaultTextModel
	}
	img := cfg.ImageModel
	if img == "" {
		img = constants.DefaultImageModel
	}
	return &GenAIClient{client: client, textModel: text, imageModel: img}, nil
}

func (c *GenAIClient) GenerateText(ctx context.Context, req TextRequest) (*TextResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.textModel
	}
	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.SystemInstruction}}}
	}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.TopP != nil {
		cfg.TopP = genai.Ptr(float32(*req.TopP))
	}
	if req.MaxOutputTokens != nil {
		cfg.MaxOutputTokens = int32(*req.MaxOutputTokens)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.TextTimeout)
	defer cancel()
	resp, err := c.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}, cfg)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, p := range resp.Candidates[0].Content.Parts {
			if p != nil {
				sb.WriteString(p.Text)
			}
		}
	}
	return &TextResult{Model: model, Text: sb.String(), Usage: marshalUsage(resp.UsageMetadata)}, nil
}

func (c *GenAIClient) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.imageModel
	}
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.InputBase64 != "" {
		b64, mime := NormalizeBase64(req.InputBase64, req.InputMimeType)
		data, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("invalid input image: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, mime))
	}
	cfg := &genai.GenerateContentConfig{ResponseModalities: []string{"IMAGE"}}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.TopP != nil {
		cfg.TopP = genai.Ptr(float32(*req.TopP))
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ImageTimeout)
	defer cancel()
	resp, err := c.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, cfg)
	if err != nil {
		return nil, fmt.Errorf("GenAI image generate failed: %w", err)
	}

	var images []Image
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p == nil || p.InlineData == nil || len(p.InlineData.Data) == 0 {
				continue
			}
			mime := p.InlineData.MIMEType
			if mime == "" {
				mime = constants.ContentTypePNG
			}
			images = append(images, Image{MimeType: mime, Data: base64.StdEncoding.EncodeToString(p.InlineData.Data)})
		}
	}
	if len(images) == 0 {
		raw, _ := json.Marshal(resp)
		return nil, &NoImageError{Raw: raw}
	}
	return &ImageResult{Model: model, Images: images, Usage: marshalUsage(resp.UsageMetadata)}, nil
}

func marshalUsage(u any) json.RawMessage {
	b, err := json.Marshal(u)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}
