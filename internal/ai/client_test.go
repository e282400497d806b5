package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientGenerate(t *testing.T) {
	var got requestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-test:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "k" {
			t.Errorf("missing api key")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello "},{"text":"there"}]}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "k", 5*time.Second)
	text, err := client.Generate(context.Background(), Request{
		Model: "gemini-test",
		Contents: []Content{{Role: "user", Parts: []Part{
			{Text: "describe"},
			{MIMEType: "image/jpeg", Data: []byte("img")},
		}}},
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "Hello there" {
		t.Fatalf("unexpected text %q", text)
	}
	if len(got.Contents) != 1 || len(got.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected request body: %+v", got)
	}
	if got.Contents[0].Parts[1].InlineData == nil || got.Contents[0].Parts[1].InlineData.Data != "aW1n" {
		t.Fatalf("image should be base64 encoded inline data: %+v", got.Contents[0].Parts[1])
	}
	if got.GenerationConfig == nil || got.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Fatalf("missing generation config: %+v", got.GenerationConfig)
	}
}

func newStaticServer(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestClientErrors(t *testing.T) {
	req := Request{Model: "m", Contents: []Content{{Role: "user", Parts: []Part{{Text: "hi"}}}}}

	failing := newStaticServer(http.StatusBadRequest, `{"error":"bad"}`)
	defer failing.Close()
	_, err := NewClient(failing.URL, "k", 5*time.Second).Generate(context.Background(), req)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected APIError 400, got %v", err)
	}

	empty := newStaticServer(http.StatusOK, `{"candidates":[]}`)
	defer empty.Close()
	if _, err := NewClient(empty.URL, "k", 5*time.Second).Generate(context.Background(), req); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}
