package aiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// clearGenAIEnv keeps ambient SDK variables from changing backend selection.
func clearGenAIEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GOOGLE_API_KEY", "GEMINI_API_KEY", "GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION", "GOOGLE_GENAI_USE_VERTEXAI", "GOOGLE_GEMINI_BASE_URL", "GOOGLE_VERTEX_BASE_URL"} {
		t.Setenv(k, "")
	}
}

func newGenAITestClient(t *testing.T, cfg GenAIConfig, h http.HandlerFunc) *GenAIClient {
	t.Helper()
	clearGenAIEnv(t)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL + "/"
	cfg.HTTPClient = srv.Client()
	c, err := NewGenAIClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewGenAIClient: %v", err)
	}
	return c
}

func TestGenAIRequiresProjectForVertex(t *testing.T) {
	clearGenAIEnv(t)
	if _, err := NewGenAIClient(context.Background(), GenAIConfig{Location: "us-central1"}); !errors.Is(err, ErrProjectNotConfigured) {
		t.Fatalf("expected ErrProjectNotConfigured, got %v", err)
	}
}

func TestGenAIGenerateTextJoinsFirstCandidate(t *testing.T) {
	var got map[string]any
	c := newGenAITestClient(t, GenAIConfig{APIKey: "k"}, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "models/gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "k" {
			t.Errorf("missing api key header")
		}
		b, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(b, &got); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[
			{"content":{"role":"model","parts":[{"text":"승자: "},null,{"text":"팀B"}]}},
			{"content":{"role":"model","parts":[{"text":"ignored"}]}}],
			"usageMetadata":{"totalTokenCount":9}}`))
	})

	res, err := c.GenerateText(context.Background(), TextRequest{Prompt: "hello", SystemInstruction: "rules"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "승자: 팀B" {
		t.Fatalf("text = %q", res.Text)
	}
	if res.Model != "gemini-2.5-flash" {
		t.Fatalf("model = %q", res.Model)
	}
	if !strings.Contains(string(res.Usage), "totalTokenCount") {
		t.Fatalf("usage not passed through: %s", res.Usage)
	}
	si, ok := got["systemInstruction"].(map[string]any)
	if !ok || !strings.Contains(mustJSON(t, si), "rules") {
		t.Fatalf("system instruction not sent: %v", got)
	}
	if !strings.Contains(mustJSON(t, got["contents"]), "hello") {
		t.Fatalf("prompt not sent: %v", got["contents"])
	}
}

func TestGenAIGenerateTextRequiresPrompt(t *testing.T) {
	c := newGenAITestClient(t, GenAIConfig{APIKey: "k"}, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected")
	})
	if _, err := c.GenerateText(context.Background(), TextRequest{Prompt: " "}); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
}

func TestGenAIGenerateImageCollectsInlineData(t *testing.T) {
	var got map[string]any
	c := newGenAITestClient(t, GenAIConfig{APIKey: "k"}, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash-image-preview") {
			t.Errorf("expected image model in path, got %s", r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[
			{"content":{"parts":[{"text":"here"},{"inlineData":{"mimeType":"image/jpeg","data":"QUJD"}}]}},
			{"content":{"parts":[{"inlineData":{"data":"REVG"}}]}}]}`))
	})

	res, err := c.GenerateImage(context.Background(), ImageRequest{Prompt: "a carrot", InputBase64: "data:image/webp;base64,QUJD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(res.Images))
	}
	if res.Images[0].DataURL() != "data:image/jpeg;base64,QUJD" || res.Images[1].MimeType != "image/png" || res.Images[1].Data != "REVG" {
		t.Fatalf("unexpected images: %+v", res.Images)
	}
	body := mustJSON(t, got)
	if !strings.Contains(body, `"IMAGE"`) {
		t.Fatalf("expected IMAGE modality in request: %s", body)
	}
	if !strings.Contains(body, `"image/webp"`) || !strings.Contains(body, `"QUJD"`) {
		t.Fatalf("input image not sent: %s", body)
	}
}

func TestGenAIGenerateImageNoImage(t *testing.T) {
	c := newGenAITestClient(t, GenAIConfig{APIKey: "k"}, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`))
	})
	_, err := c.GenerateImage(context.Background(), ImageRequest{Prompt: "x"})
	var noImg *NoImageError
	if !errors.As(err, &noImg) || !strings.Contains(string(noImg.Raw), "sorry") {
		t.Fatalf("expected NoImageError carrying the response, got %v", err)
	}
}

func TestGenAIVertexBackendPath(t *testing.T) {
	var path string
	c := newGenAITestClient(t, GenAIConfig{ProjectID: "p1", Location: "asia-northeast3"}, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	})
	res, err := c.GenerateText(context.Background(), TextRequest{Prompt: "hi", Model: "gemini-2.0-flash"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "ok" || res.Model != "gemini-2.0-flash" {
		t.Fatalf("unexpected result: %+v", res)
	}
	want := "/projects/p1/locations/asia-northeast3/publishers/google/models/gemini-2.0-flash:generateContent"
	if !strings.HasSuffix(path, want) {
		t.Fatalf("path = %s, want suffix %s", path, want)
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}
