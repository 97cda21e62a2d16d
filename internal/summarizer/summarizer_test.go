package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/nguyentantai21042004/bibliosophia/internal/apperror"
	"github.com/nguyentantai21042004/bibliosophia/internal/logger"
	"github.com/nguyentantai21042004/bibliosophia/internal/models"
	"google.golang.org/genai"
)

var testInfo = models.VideoInfo{Title: "Aprende Go", Channel: "Canal Dev", Duration: 3725}

func TestBuildSystemPrompt(t *testing.T) {
	tmpl := "T={{video_title}} C={{channel}} D={{duration}} X={{transcript}} again {{video_title}}"
	got := BuildSystemPrompt(tmpl, testInfo, "hola")
	want := "T=Aprende Go C=Canal Dev D=1h 02m 05s X=hola again Aprende Go"
	if got != want {
		t.Errorf("BuildSystemPrompt() = %q, want %q", got, want)
	}
}

func TestBuildUserMessage(t *testing.T) {
	got := BuildUserMessage(testInfo, "texto")
	want := "Video: \"Aprende Go\"\nCanal: Canal Dev\nDuración: 1h 02m 05s\n\nTranscripción:\ntexto"
	if got != want {
		t.Errorf("BuildUserMessage() = %q, want %q", got, want)
	}
}

func TestDefaultPromptSections(t *testing.T) {
	for _, section := range []string{"Idea Central", "Puntos Clave", "Ideas Accionables", "Categoría", "{{transcript}}"} {
		if !strings.Contains(DefaultPrompt, section) {
			t.Errorf("DefaultPrompt missing %q", section)
		}
	}
	p, err := LoadPrompt("")
	if err != nil || p != DefaultPrompt {
		t.Errorf("LoadPrompt(\"\") = %q, %v", p, err)
	}
	if _, err := LoadPrompt("/nonexistent/prompt.txt"); err == nil {
		t.Error("LoadPrompt() should fail for a missing file")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(Config{Provider: "openai"}, logger.New("error", "text")); err == nil {
		t.Error("New() should reject unknown providers")
	}
}

func newTestAnthropic(t *testing.T, url string) Summarizer {
	t.Helper()
	s, err := New(Config{
		Provider: ProviderAnthropic,
		Model:    "claude-sonnet-4-6",
		APIKey:   "sk-ant-test",
		BaseURL:  url,
		Prompt:   "Resume {{video_title}}",
	}, logger.New("error", "text"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// anthropicRequest is the subset of the Messages request body the tests check.
type anthropicRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	System    []struct {
		Text string `json:"text"`
	} `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func anthropicMessage(content string) string {
	return `{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-6",` +
		`"content":` + content + `,"stop_reason":"end_turn",` +
		`"usage":{"input_tokens":1000000,"output_tokens":0}}`
}

func TestAnthropicSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "sk-ant-test" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("anthropic-version header missing")
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "claude-sonnet-4-6" || req.MaxTokens != 4096 {
			t.Errorf("request = %+v", req)
		}
		if len(req.System) != 1 || req.System[0].Text != "Resume Aprende Go" {
			t.Errorf("system = %+v", req.System)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" || len(req.Messages[0].Content) != 1 ||
			!strings.HasPrefix(req.Messages[0].Content[0].Text, "Video: \"Aprende Go\"") {
			t.Errorf("messages = %+v", req.Messages)
		}

		writeJSON(w, http.StatusOK, anthropicMessage(`[{"type":"text","text":"## 🎯 Idea Central\nGo"}]`))
	}))
	defer srv.Close()

	res, err := newTestAnthropic(t, srv.URL).Summarize(context.Background(), testInfo, "transcripción")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if res.Summary != "## 🎯 Idea Central\nGo" {
		t.Errorf("Summary = %q", res.Summary)
	}
	if res.InputTokens != 1000000 || res.OutputTokens != 0 || res.TotalTokens != 1000000 {
		t.Errorf("tokens = %+v", res)
	}
	if res.CostUSD != 3.0 {
		t.Errorf("CostUSD = %v, want 3", res.CostUSD)
	}
}

func TestAnthropicErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind apperror.Kind
		wantMsg  []string
	}{
		{"unauthorized", http.StatusUnauthorized,
			`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`,
			apperror.InvalidCredential, []string{"API key de Anthropic inválida"}},
		{"overloaded", 529,
			`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`,
			apperror.RemoteRejected, []string{"Error de Anthropic (529)", "Overloaded"}},
		{"empty content", http.StatusOK, anthropicMessage(`[]`),
			apperror.ParseFailure, []string{"Respuesta inesperada de Anthropic"}},
		{"content without text", http.StatusOK,
			anthropicMessage(`[{"type":"tool_use","id":"t1","name":"x","input":{}}]`),
			apperror.ParseFailure, []string{"Respuesta inesperada de Anthropic"}},
		{"malformed json", http.StatusOK, `{`,
			apperror.ParseFailure, []string{"Error parseando respuesta de Anthropic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				writeJSON(w, tt.status, tt.body)
			}))
			defer srv.Close()

			_, err := newTestAnthropic(t, srv.URL).Summarize(context.Background(), testInfo, "x")
			if got := apperror.KindOf(err); got != tt.wantKind {
				t.Fatalf("KindOf() = %v, want %v (%v)", got, tt.wantKind, err)
			}
			for _, msg := range tt.wantMsg {
				if !strings.Contains(err.Error(), msg) {
					t.Errorf("message = %q, want containing %q", err.Error(), msg)
				}
			}
			if calls != 1 {
				t.Errorf("requests = %d, want 1", calls)
			}
		})
	}
}

func TestAnthropicNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestAnthropic(t, url).Summarize(context.Background(), testInfo, "x")
	if apperror.KindOf(err) != apperror.NetworkFailure {
		t.Errorf("KindOf() = %v, want NetworkFailure", apperror.KindOf(err))
	}
}

func TestClassifyAnthropic(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		resp     *http.Response
		wantKind apperror.Kind
	}{
		{"unauthorized", &anthropic.Error{StatusCode: http.StatusUnauthorized}, nil, apperror.InvalidCredential},
		{"server error", &anthropic.Error{StatusCode: http.StatusInternalServerError}, nil, apperror.RemoteRejected},
		{"bad body", errors.New("unexpected end of JSON input"), &http.Response{StatusCode: http.StatusOK}, apperror.ParseFailure},
		{"no response", errors.New("dial tcp: refused"), nil, apperror.NetworkFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperror.KindOf(classifyAnthropic(tt.err, tt.resp)); got != tt.wantKind {
				t.Errorf("KindOf() = %v, want %v", got, tt.wantKind)
			}
		})
	}
}

func TestClassifyGemini(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind apperror.Kind
	}{
		{"unauthorized", genai.APIError{Code: 401, Message: "bad key"}, apperror.InvalidCredential},
		{"rate limited", genai.APIError{Code: 429, Message: "quota"}, apperror.RemoteRejected},
		{"transport", errors.New("dial tcp: refused"), apperror.NetworkFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperror.KindOf(classifyGemini(tt.err)); got != tt.wantKind {
				t.Errorf("KindOf() = %v, want %v", got, tt.wantKind)
			}
		})
	}
}

func TestGeminiMetadata(t *testing.T) {
	s, err := New(Config{Provider: ProviderGemini}, logger.New("error", "text"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Provider() != ProviderGemini || s.Model() != "gemini-2.5-flash" {
		t.Errorf("Provider/Model = %q/%q", s.Provider(), s.Model())
	}
}
