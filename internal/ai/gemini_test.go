package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go-sitesafety-ws/internal/model"
)

type captured struct {
	mu   sync.Mutex
	path string
	req  generateRequest
}

func geminiServer(t *testing.T, status int, answer string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got.mu.Lock()
		got.path = r.URL.Path + "?" + r.URL.RawQuery
		json.Unmarshal(body, &got.req)
		got.mu.Unlock()

		w.WriteHeader(status)
		resp := map[string]interface{}{
			"candidates": []interface{}{
				map[string]interface{}{"content": map[string]interface{}{"parts": []interface{}{map[string]interface{}{"text": answer}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestParseRisk(t *testing.T) {
	cases := []struct {
		text string
		want model.RiskLevel
	}{
		{"WARNING: worker without harness", model.RiskWarning},
		{"Risk level: normal. Area is tidy.", model.RiskNormal},
		{"Caution, then a possible warning later", model.RiskCaution},
		{"ABNORMAL wiring near the panel, CAUTION advised", model.RiskCaution},
		{"Forewarnings ignored; overall NORMAL", model.RiskNormal},
		{"위험도: WARNING입니다", model.RiskWarning},
		{"I cannot tell", model.RiskCaution},
		{"", model.RiskCaution},
	}
	for _, tt := range cases {
		if got := ParseRisk(tt.text); got != tt.want {
			t.Fatalf("ParseRisk(%q)=%s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestStripDataURL(t *testing.T) {
	cases := []struct {
		in, data, mime string
	}{
		{"data:image/png;base64,AAAA", "AAAA", "image/png"},
		{"data:image/jpg;base64,BBBB", "BBBB", "image/jpeg"},
		{"data:image/webp;base64,CCCC", "CCCC", "image/webp"},
		{"DDDD", "DDDD", "image/jpeg"},
	}
	for _, tt := range cases {
		data, mime := StripDataURL(tt.in)
		if data != tt.data || mime != tt.mime {
			t.Fatalf("StripDataURL(%q)=%q,%q", tt.in, data, mime)
		}
	}
}

func TestSummaryPromptListsFailedItems(t *testing.T) {
	l := model.InspectionLog{
		RiskLevel:     model.RiskWarning,
		SiteName:      "Food hall",
		InspectorName: "Safety Manager",
		Notes:         "no fire watch",
		Checklist:     model.NewChecklist(false, true, true, false),
	}
	p := SummaryPrompt([]model.InspectionLog{l})
	want := "[WARNING] Site: Food hall, Inspector: Safety Manager, Notes: no fire watch, Failed checklist items: ppe, electrical"
	if !strings.Contains(p, want) {
		t.Fatalf("prompt missing line %q:\n%s", want, p)
	}
}

func TestClassifyPhoto(t *testing.T) {
	srv, got := geminiServer(t, http.StatusOK, "WARNING. Scaffolding has no guard rail.")
	g := NewGemini("k", "gemini-test", srv.URL, 5*time.Second)

	c := g.ClassifyPhoto(context.Background(), "data:image/png;base64,QUJD")
	if c.Risk != model.RiskWarning || !strings.Contains(c.Description, "guard rail") {
		t.Fatalf("classification = %+v", c)
	}

	got.mu.Lock()
	defer got.mu.Unlock()
	if got.path != "/models/gemini-test:generateContent?key=k" {
		t.Fatalf("path = %s", got.path)
	}
	parts := got.req.Contents[0].Parts
	if parts[0].InlineData == nil || parts[0].InlineData.Data != "QUJD" || parts[0].InlineData.MimeType != "image/png" {
		t.Fatalf("inline data = %+v", parts[0].InlineData)
	}
}

func TestClassifyPhotoFallbacks(t *testing.T) {
	if c := NewGemini("", "m", "http://127.0.0.1:1", time.Second).ClassifyPhoto(context.Background(), "x"); c != Fallback {
		t.Fatalf("missing key: %+v", c)
	}

	srv, _ := geminiServer(t, http.StatusInternalServerError, "WARNING")
	if c := NewGemini("k", "m", srv.URL, time.Second).ClassifyPhoto(context.Background(), "x"); c != Fallback {
		t.Fatalf("upstream error: %+v", c)
	}
}

func TestSummarize(t *testing.T) {
	logs := []model.InspectionLog{{RiskLevel: model.RiskNormal, SiteName: "a", Checklist: model.NewChecklist(true, true, true, true)}}

	if got := NewGemini("k", "m", "http://127.0.0.1:1", time.Second).Summarize(context.Background(), nil); got != SummaryNoInspection {
		t.Fatalf("no logs: %q", got)
	}
	if got := NewGemini("", "m", "http://127.0.0.1:1", time.Second).Summarize(context.Background(), logs); got != SummaryUnavailable {
		t.Fatalf("no key: %q", got)
	}

	srv, got := geminiServer(t, http.StatusOK, "  Overview: all sites safe.  ")
	if s := NewGemini("k", "m", srv.URL, time.Second).Summarize(context.Background(), logs); s != "Overview: all sites safe." {
		t.Fatalf("summary = %q", s)
	}
	got.mu.Lock()
	if got.req.SystemInstruction == nil {
		t.Fatal("system instruction not sent")
	}
	got.mu.Unlock()

	bad, _ := geminiServer(t, http.StatusBadGateway, "")
	if s := NewGemini("k", "m", bad.URL, time.Second).Summarize(context.Background(), logs); s != SummaryFailed {
		t.Fatalf("upstream error: %q", s)
	}

	empty, _ := geminiServer(t, http.StatusOK, "")
	if s := NewGemini("k", "m", empty.URL, time.Second).Summarize(context.Background(), logs); s != SummaryEmpty {
		t.Fatalf("empty answer: %q", s)
	}
}
