package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go-sitesafety-ws/internal/model"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("go-sitesafety-ws/internal/ai")

var ErrUpstream = errors.New("gemini request failed")

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

// Gemini is the Assistant backed by the generateContent REST endpoint
type Gemini struct {
	apiKey   string
	model    string
	endpoint string
	timeout  time.Duration
}

func NewGemini(apiKey, modelName, endpoint string, timeout time.Duration) *Gemini {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gemini{
		apiKey:   apiKey,
		model:    modelName,
		endpoint: strings.TrimRight(endpoint, "/"),
		timeout:  timeout,
	}
}

// Summarize writes the daily risk report for logs
func (g *Gemini) Summarize(ctx context.Context, logs []model.InspectionLog) string {
	if len(logs) == 0 {
		return SummaryNoInspection
	}
	if g.apiKey == "" {
		log.Println("ai: GEMINI_API_KEY is missing")
		return SummaryUnavailable
	}

	ctx, span := tracer.Start(ctx, "ai.Summarize")
	span.SetAttributes(attribute.Int("logs", len(logs)))
	defer span.End()

	text, err := g.generate(ctx, generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: summaryInstruction}}},
		Contents:          []content{{Parts: []part{{Text: SummaryPrompt(logs)}}}},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Printf("ai: summary failed: %v", err)
		return SummaryFailed
	}
	if text == "" {
		return SummaryEmpty
	}
	return text
}

// ClassifyPhoto suggests a risk level for a base64 image, with or without a data URL prefix
func (g *Gemini) ClassifyPhoto(ctx context.Context, image string) Classification {
	if g.apiKey == "" {
		log.Println("ai: GEMINI_API_KEY is missing")
		return Fallback
	}

	ctx, span := tracer.Start(ctx, "ai.ClassifyPhoto")
	defer span.End()

	data, mimeType := StripDataURL(image)
	text, err := g.generate(ctx, generateRequest{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{MimeType: mimeType, Data: data}},
			{Text: photoPrompt},
		}}},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Printf("ai: photo classification failed: %v", err)
		return Fallback
	}

	c := Classification{Risk: ParseRisk(text), Description: text}
	span.SetAttributes(attribute.String("risk", string(c.Risk)))
	return c
}

func (g *Gemini) generate(ctx context.Context, req generateRequest) (string, error) {
	timeout := g.timeout
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return "", ctx.Err()
		}
		if left < timeout {
			timeout = left
		}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.endpoint, g.model, g.apiKey)
	agent := fiber.Post(url)
	agent.JSON(req)
	agent.Timeout(timeout)
	if err := agent.Parse(); err != nil {
		return "", err
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", errs[0]
	}
	if code != fiber.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, code)
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return resp.text(), nil
}
