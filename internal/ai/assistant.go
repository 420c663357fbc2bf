// Package ai talks to the Gemini generateContent API for daily summaries and
// photo risk suggestions. Every call resolves to a usable value: failures are
// logged and replaced by fallbacks.
package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go-sitesafety-ws/internal/model"
	"go-sitesafety-ws/internal/risk"
)

const (
	SummaryUnavailable  = "AI service is unavailable. Check the API key."
	SummaryFailed       = "Safety analysis could not be performed because of an error."
	SummaryEmpty        = "No analysis report was generated."
	SummaryNoInspection = "No inspections were recorded for this day."
)

// Classification is a suggestion for a new inspection, never an authority
type Classification struct {
	Risk        model.RiskLevel `json:"risk"`
	Description string          `json:"description"`
}

// Fallback is returned whenever classification cannot be performed
var Fallback = Classification{Risk: model.RiskNormal}

type Assistant interface {
	Summarize(ctx context.Context, logs []model.InspectionLog) string
	ClassifyPhoto(ctx context.Context, image string) Classification
}

var dataURLPrefix = regexp.MustCompile(`^data:(image/(?:png|jpg|jpeg|webp));base64,`)

// StripDataURL returns the bare base64 payload and its mime type
func StripDataURL(image string) (data, mimeType string) {
	m := dataURLPrefix.FindStringSubmatch(image)
	if m == nil {
		return image, "image/jpeg"
	}
	mimeType = m[1]
	if mimeType == "image/jpg" {
		mimeType = "image/jpeg"
	}
	return image[len(m[0]):], mimeType
}

var riskWord = regexp.MustCompile(`\b(NORMAL|CAUTION|WARNING)\b`)

// ParseRisk returns the first risk keyword mentioned in text as a whole word,
// CAUTION when none is
func ParseRisk(text string) model.RiskLevel {
	if m := riskWord.FindString(strings.ToUpper(text)); m != "" {
		return model.RiskLevel(m)
	}
	return model.RiskCaution
}

// SummaryPrompt renders one line per log with its failed checklist items
func SummaryPrompt(logs []model.InspectionLog) string {
	var b strings.Builder
	b.WriteString("You are the chief construction safety officer. Using today's site inspection logs below, write a daily risk analysis report.\n\n")
	b.WriteString("Use this structure:\n")
	b.WriteString("1. [Overview] One sentence on the overall safety state of the sites\n")
	b.WriteString("2. [Key risks] The two or three most serious risks found and their causes\n")
	b.WriteString("3. [Actions] Concrete instructions for the site managers\n\n")
	b.WriteString("Log data:\n")
	for _, l := range logs {
		fmt.Fprintf(&b, "[%s] Site: %s, Inspector: %s, Notes: %s, Failed checklist items: %s\n",
			l.RiskLevel, l.SiteName, l.InspectorName, l.Notes, strings.Join(risk.FailedItems(l.Checklist), ", "))
	}
	return b.String()
}

const summaryInstruction = "Use a professional, analytical tone. Focus on WARNING items. Do not use markdown; write plain text with readable line breaks."

const photoPrompt = "Analyze this construction site photo. 1. Rate the main safety risk as exactly one of NORMAL, CAUTION or WARNING. 2. Describe the hazards or the safety state in one sentence."
