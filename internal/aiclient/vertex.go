package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/singleflight"

	"github.com/opark001/vertex-gemini-web/internal/constants"
	"github.com/opark001/vertex-gemini-web/internal/logging"
)

// VertexConfig configures the REST client. Empty models and location fall
// back to the package defaults.
type VertexConfig struct {
	ProjectID  string
	Location   string
	TextModel  string
	ImageModel string

	// BaseURL overrides the endpoint host (tests).
	BaseURL string
	// TokenSource overrides application default credentials (tests).
	TokenSource oauth2.TokenSource
	HTTPClient  *http.Client
}

// VertexClient calls the Vertex AI generateContent REST method with a bearer
// token from application default credentials.
type VertexClient struct {
	location   string
	textModel  string
	imageModel string
	baseURL    string
	httpClient *http.Client

	mu      sync.RWMutex
	project string
	ts      oauth2.TokenSource

	adc singleflight.Group
}

func NewVertexClient(cfg VertexConfig) *VertexClient {
	loc := strings.TrimSpace(cfg.Location)
	if loc == "" {
		loc = constants.DefaultLocation
	}
	text := strings.TrimSpace(cfg.TextModel)
	if text == "" {
		text = constants.DefaultTextModel
	}
	img := strings.TrimSpace(cfg.ImageModel)
	if img == "" {
		img = constants.DefaultImageModel
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = APIBase(loc)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &VertexClient{
		location:   loc,
		textModel:  text,
		imageModel: img,
		baseURL:    base,
		httpClient: hc,
		project:    strings.TrimSpace(cfg.ProjectID),
		ts:         cfg.TokenSource,
	}
}

// APIBase returns the regional host for location, or the global host.
func APIBase(location string) string {
	if location == constants.VertexGlobalLocation {
		return constants.VertexGlobalBaseURL
	}
	return fmt.Sprintf(constants.VertexRegionalBaseFmt, location)
}

// Location returns the configured location.
func (c *VertexClient) Location() string { return c.location }

// TextModel returns the default text model id.
func (c *VertexClient) TextModel() string { return c.textModel }

// ImageModel returns the default image model id.
func (c *VertexClient) ImageModel() string { return c.imageModel }

// KnownProjectID returns the project id if it is already known, without
// touching credentials.
func (c *VertexClient) KnownProjectID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.project
}

// Endpoint returns the generateContent URL for modelID.
func (c *VertexClient) Endpoint(project, modelID string) string {
	return c.baseURL + fmt.Sprintf(constants.VertexGeneratePathFmt, project, c.location, modelID)
}

// ProjectID returns the configured project, discovering it from application
// default credentials on first use. Concurrent first calls share one lookup.
func (c *VertexClient) ProjectID(ctx context.Context) (string, error) {
	if p := c.KnownProjectID(); p != "" {
		return p, nil
	}
	if _, err := c.credentials(ctx); err != nil {
		logging.Warn("project discovery via ADC failed", logging.Fields{"error": err.Error()})
	}
	if p := c.KnownProjectID(); p != "" {
		return p, nil
	}
	return "", ErrProjectNotConfigured
}

// credentials lazily loads ADC, filling in the token source and, when not
// configured, the project id.
func (c *VertexClient) credentials(ctx context.Context) (oauth2.TokenSource, error) {
	c.mu.RLock()
	ts := c.ts
	c.mu.RUnlock()
	if ts != nil {
		return ts, nil
	}
	v, err, _ := c.adc.Do("adc", func() (interface{}, error) {
		creds, err := google.FindDefaultCredentials(ctx, constants.CloudPlatformScope)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.ts = oauth2.ReuseTokenSource(nil, creds.TokenSource)
		if c.project == "" && creds.ProjectID != "" {
			c.project = creds.ProjectID
		}
		ts := c.ts
		c.mu.Unlock()
		return ts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(oauth2.TokenSource), nil
}

func (c *VertexClient) accessToken(ctx context.Context) (string, error) {
	ts, err := c.credentials(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAccessToken, err)
	}
	tok, err := ts.Token()
	if err != nil || tok == nil || tok.AccessToken == "" {
		if err == nil {
			err = fmt.Errorf("empty token")
		}
		return "", fmt.Errorf("%w: %v", ErrAccessToken, err)
	}
	return tok.AccessToken, nil
}

// GenerateText sends a single user turn and returns the concatenated text
// parts of the first candidate.
func (c *VertexClient) GenerateText(ctx context.Context, req TextRequest) (*TextResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.textModel
	}

	body := wireRequest{
		Contents: []wireContent{{Role: "user", Parts: []wirePart{{Text: req.Prompt}}}},
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &wireContent{Role: "system", Parts: []wirePart{{Text: req.SystemInstruction}}}
	}
	if req.Temperature != nil || req.TopP != nil || req.MaxOutputTokens != nil {
		body.GenerationConfig = &wireGenerationConfig{
			Temperature:     req.Temperature,
			TopP:            req.TopP,
			MaxOutputTokens: req.MaxOutputTokens,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, constants.TextTimeout)
	defer cancel()
	resp, err := c.post(ctx, model, body)
	if err != nil {
		return nil, err
	}
	return &TextResult{Model: model, Text: resp.firstCandidateText(), Usage: usageOrNull(resp.UsageMetadata)}, nil
}

// GenerateImage requests IMAGE output and returns every inline image part.
func (c *VertexClient) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.imageModel
	}

	parts := []wirePart{{Text: req.Prompt}}
	if req.InputBase64 != "" {
		data, mime := NormalizeBase64(req.InputBase64, req.InputMimeType)
		parts = append(parts, wirePart{InlineData: &wireInlineData{MimeType: mime, Data: data}})
	}
	body := wireRequest{
		Contents: []wireContent{{Role: "user", Parts: parts}},
		// Flash Image rejects responseMimeType; modalities only.
		GenerationConfig: &wireGenerationConfig{
			ResponseModalities: []string{"IMAGE"},
			Temperature:        req.Temperature,
			TopP:               req.TopP,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ImageTimeout)
	defer cancel()
	resp, err := c.post(ctx, model, body)
	if err != nil {
		return nil, err
	}
	images := resp.inlineImages()
	if len(images) == 0 {
		raw, _ := json.Marshal(resp)
		return nil, &NoImageError{Raw: raw}
	}
	return &ImageResult{Model: model, Images: images, Usage: usageOrNull(resp.UsageMetadata)}, nil
}

func (c *VertexClient) post(ctx context.Context, model string, body wireRequest) (*wireResponse, error) {
	project, err := c.ProjectID(ctx)
	if err != nil {
		return nil, err
	}
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(project, model), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderUserProject, project)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &APIError{Status: resp.StatusCode, Body: string(raw)}
	}
	var out wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode generative API response: %w", err)
	}
	return &out, nil
}
