// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

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

// ---------- Helpers ----------

// newTestServer creates an httptest.Server that responds with the given status
// code and body bytes. The server is closed when the test ends.
func newTestServer(t *testing.T, statusCode int, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// openAISuccessBody builds a chat completions response with one choice.
func openAISuccessBody(text string) []byte {
	b, _ := json.Marshal(openAIResponse{
		Choices: []openAIChoice{{Message: openAIMessage{Role: "assistant", Content: text}}},
	})
	return b
}

// claudeSuccessBody builds a Messages API response with one text block.
func claudeSuccessBody(text string) []byte {
	b, _ := json.Marshal(claudeResponse{
		Content: []claudeContentBlock{{Type: "text", Text: text}},
	})
	return b
}

// geminiSuccessBody builds a generateContent response with one candidate.
func geminiSuccessBody(text string) []byte {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	})
	return b
}

// =====================================================================
// OpenAI
// =====================================================================

func TestOpenAIGenerate_Success(t *testing.T) {
	want := `{"sections":[]}`
	srv := newTestServer(t, http.StatusOK, openAISuccessBody(want))

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	got, err := p.Generate(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestOpenAIGenerate_RequestShape(t *testing.T) {
	var captured openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		w.Write(openAISuccessBody("{}"))
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL})
	if _, err := p.Generate(context.Background(), "be brief", "hello"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if captured.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[1].Content != "hello" {
		t.Errorf("messages = %+v", captured.Messages)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", captured.ResponseFormat)
	}
}

func TestOpenAIGenerate_QuotaIsCapacity(t *testing.T) {
	body := []byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`)
	srv := newTestServer(t, http.StatusTooManyRequests, body)

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), "s", "u")

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("got %T (%v), want *StatusError", err, err)
	}
	if se.StatusCode != http.StatusTooManyRequests || se.Code != "insufficient_quota" {
		t.Errorf("StatusError = %+v", se)
	}
	if !IsCapacity(err) {
		t.Error("IsCapacity() = false, want true")
	}
}

func TestOpenAIGenerate_ServerErrorIsNotCapacity(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, []byte(`{"error":{"message":"boom","type":"server_error"}}`))

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("expected error")
	}
	if IsCapacity(err) {
		t.Error("500 should not be classified as capacity")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q should include the response body", err)
	}
}

func TestOpenAIGenerate_EmptyChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"choices":[]}`))

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	if _, err := p.Generate(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestOpenAIGenerate_LengthIsTruncated(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"choices":[{"message":{"role":"assistant","content":"{\"sec"},"finish_reason":"length"}]}`))

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	if _, err := p.Generate(context.Background(), "s", "u"); !errors.Is(err, ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestOpenAIGenerate_CancelledContext(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, openAISuccessBody("x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := p.Generate(ctx, "s", "u")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

// =====================================================================
// Claude
// =====================================================================

func TestClaudeGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "ck" || r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing auth headers: %v", r.Header)
		}
		var req claudeRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.System != "sys" || req.MaxTokens == 0 {
			t.Errorf("request = %+v", req)
		}
		if n := len(req.Messages); n != 2 || req.Messages[n-1].Role != "assistant" || req.Messages[n-1].Content != "{" {
			t.Errorf("assistant turn not prefilled: %+v", req.Messages)
		}
		// The reply continues the prefilled brace.
		w.Write(claudeSuccessBody(`"ok":true}`))
	}))
	defer srv.Close()

	p := newClaude(ProviderConfig{APIKey: "ck", Model: "claude-test", BaseURL: srv.URL})
	got, err := p.Generate(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"ok":true}` {
		t.Errorf("got %q", got)
	}
}

func TestClaudeGenerate_FullObjectNotDoubled(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, claudeSuccessBody(` {"ok":true}`))

	p := newClaude(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	got, err := p.Generate(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"ok":true}` {
		t.Errorf("got %q", got)
	}
}

func TestClaudeGenerate_MaxTokensIsTruncated(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"content":[{"type":"text","text":"\"sections\": ["}],"stop_reason":"max_tokens"}`))

	p := newClaude(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	if _, err := p.Generate(context.Background(), "s", "u"); !errors.Is(err, ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestClaudeGenerate_OverloadedIsCapacity(t *testing.T) {
	srv := newTestServer(t, 529, []byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))

	p := newClaude(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), "s", "u")
	if !IsCapacity(err) {
		t.Errorf("IsCapacity(%v) = false, want true", err)
	}
}

func TestClaudeGenerate_NoTextContent(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"content":[{"type":"tool_use"}]}`))

	p := newClaude(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	if _, err := p.Generate(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error when no text block is returned")
	}
}

// =====================================================================
// Mistral
// =====================================================================

func TestMistralGenerate_UsesChatCompletions(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write(openAISuccessBody("mistral says hi"))
	}))
	defer srv.Close()

	p := newMistral(ProviderConfig{APIKey: "mk", Model: "mistral-small", BaseURL: srv.URL})
	got, err := p.Generate(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "mistral says hi" || path != "/chat/completions" {
		t.Errorf("got %q via %q", got, path)
	}
}

func TestMistralGenerate_ErrorNamesProvider(t *testing.T) {
	srv := newTestServer(t, http.StatusBadRequest, []byte(`{"message":"bad"}`))

	p := newMistral(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), "s", "u")

	var se *StatusError
	if !errors.As(err, &se) || se.Provider != "mistral" {
		t.Errorf("got %v, want mistral StatusError", err)
	}
}

// =====================================================================
// Gemini (genai SDK)
// =====================================================================

func TestGeminiGenerate_Success(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write(geminiSuccessBody(`{"sections":[]}`))
	}))
	defer srv.Close()

	p, err := newGemini(context.Background(), ProviderConfig{APIKey: "gk", Model: "gemini-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("newGemini: %v", err)
	}

	got, err := p.Generate(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"sections":[]}` {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(path, "gemini-test:generateContent") {
		t.Errorf("path = %q", path)
	}
}

func TestGeminiGenerate_ResourceExhaustedIsCapacity(t *testing.T) {
	body := []byte(`{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
	srv := newTestServer(t, http.StatusTooManyRequests, body)

	p, err := newGemini(context.Background(), ProviderConfig{APIKey: "gk", Model: "gemini-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("newGemini: %v", err)
	}

	_, err = p.Generate(context.Background(), "s", "u")
	if !IsCapacity(err) {
		t.Errorf("IsCapacity(%v) = false, want true", err)
	}
}

// =====================================================================
// Moderation
// =====================================================================

func TestOpenAIModerator_Flagged(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"results":[{"flagged":true,"categories":{"hate/threatening":true,"violence":true,"sexual":false}}]}`))

	m := newOpenAIModerator("k", srv.URL)
	res, err := m.CheckSafety(context.Background(), "text")
	if err != nil {
		t.Fatalf("CheckSafety: %v", err)
	}
	if res.Safe {
		t.Fatal("expected unsafe result")
	}
	want := []string{"hate (threatening)", "violence"}
	if strings.Join(res.Categories, ",") != strings.Join(want, ",") {
		t.Errorf("categories = %q, want %q", res.Categories, want)
	}
}

func TestOpenAIModerator_FlagOverridesCategories(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"results":[{"flagged":false,"categories":{"violence":true}}]}`))

	res, err := newOpenAIModerator("k", srv.URL).CheckSafety(context.Background(), "text")
	if err != nil {
		t.Fatalf("CheckSafety: %v", err)
	}
	if !res.Safe || len(res.Categories) != 0 {
		t.Errorf("result = %+v, want safe", res)
	}
}

func TestMistralModerator_RequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/moderations" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer mk" {
			t.Errorf("auth = %q", r.Header.Get("Authorization"))
		}
		var req moderationRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "mistral-moderation-latest" || req.Input != "Opening hours" {
			t.Errorf("request = %+v", req)
		}
		w.Write([]byte(`{"results":[{"categories":{"violence_and_threats":true}}]}`))
	}))
	defer srv.Close()

	res, err := newMistralModerator("mk", srv.URL).CheckSafety(context.Background(), "Opening hours")
	if err != nil {
		t.Fatalf("CheckSafety: %v", err)
	}
	if res.Safe || len(res.Categories) != 1 || res.Categories[0] != "violence and threats" {
		t.Errorf("result = %+v", res)
	}
}

func TestMistralModerator_Safe(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"results":[{"categories":{"hate_and_discrimination":false}}]}`))

	m := newMistralModerator("k", srv.URL)
	res, err := m.CheckSafety(context.Background(), "text")
	if err != nil {
		t.Fatalf("CheckSafety: %v", err)
	}
	if !res.Safe {
		t.Errorf("expected safe result, got %+v", res)
	}
}

func TestFallbackModerator_SwitchesOnAuthError(t *testing.T) {
	primary := newTestServer(t, http.StatusUnauthorized, []byte(`{"error":{"message":"no access"}}`))
	secondary := newTestServer(t, http.StatusOK, []byte(`{"results":[{"categories":{"pii":true}}]}`))

	m := newFallbackModerator(
		newOpenAIModerator("k", primary.URL),
		newMistralModerator("k", secondary.URL),
	)
	res, err := m.CheckSafety(context.Background(), "text")
	if err != nil {
		t.Fatalf("CheckSafety: %v", err)
	}
	if res.Safe || len(res.Categories) != 1 || res.Categories[0] != "pii" {
		t.Errorf("result = %+v", res)
	}
}

func TestFallbackModerator_KeepsOtherErrors(t *testing.T) {
	primary := newTestServer(t, http.StatusInternalServerError, []byte(`oops`))
	secondary := newTestServer(t, http.StatusOK, []byte(`{"results":[]}`))

	m := newFallbackModerator(
		newOpenAIModerator("k", primary.URL),
		newMistralModerator("k", secondary.URL),
	)
	if _, err := m.CheckSafety(context.Background(), "text"); err == nil {
		t.Fatal("expected primary 500 to be returned")
	}
}
