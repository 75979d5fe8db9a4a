// Package gemini implements structured pitch deck analysis using Google
// Gemini. The analyzer never fails: credential, network, and parse
// problems degrade into an Analysis carrying diagnostic fields.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gmfreitas/deckparse"
	"google.golang.org/genai"
)

// DefaultModel is the completion model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

const (
	// MaxInputChars bounds the text sent to the model. Longer extractions
	// are truncated with TruncationMarker appended.
	MaxInputChars = 12000

	// TruncationMarker is appended to truncated input text.
	TruncationMarker = "\n\n[TEXTO TRUNCADO]"

	// rawResponseLimit caps the raw response kept on parse failures.
	rawResponseLimit = 500

	maxOutputTokens = 1500
	temperature     = 0.1
)

// Ensure Analyzer implements deckparse.Analyzer at compile time.
var _ deckparse.Analyzer = (*Analyzer)(nil)

// Analyzer implements deckparse.Analyzer using Google Gemini.
//
// A nil client marks the analyzer as unconfigured: Analyze short-circuits
// to a degraded result without attempting a network call.
type Analyzer struct {
	client *genai.Client
	model  string
}

// NewAnalyzer creates a new Analyzer. client may be nil when no API
// credential is available; model defaults to DefaultModel when empty.
func NewAnalyzer(client *genai.Client, model string) *Analyzer {
	if model == "" {
		model = DefaultModel
	}
	return &Analyzer{client: client, model: model}
}

// Analyze extracts a structured startup profile from the extracted text.
// It always returns a well-formed Analysis whose Name equals startupName.
func (a *Analyzer) Analyze(ctx context.Context, text, startupName string) *deckparse.Analysis {
	if a.client == nil {
		return degraded(startupName, deckparse.ErrKindNotConfigured,
			"GEMINI_API_KEY not configured; analysis skipped")
	}

	prompt := BuildPrompt(Truncate(text), startupName)

	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return degraded(startupName, deckparse.ErrKindAPI, err.Error())
	}
	if result == nil {
		return degraded(startupName, deckparse.ErrKindAPI, "gemini returned nil result")
	}

	raw := result.Text()
	if strings.TrimSpace(raw) == "" {
		return degraded(startupName, deckparse.ErrKindAPI, "gemini returned empty response")
	}

	return ParseResponse(raw, startupName)
}

// ParseResponse turns a raw model response into an Analysis. Code fences
// are stripped before parsing; a response that still is not valid JSON
// yields a degraded Analysis carrying the parse error and the truncated
// raw response, never a hard failure.
func ParseResponse(raw, startupName string) *deckparse.Analysis {
	cleaned := StripCodeFence(raw)

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		analysis := degraded(startupName, deckparse.ErrKindParse,
			fmt.Sprintf("model response is not valid JSON: %v", err))
		analysis.RawResponse = truncate(cleaned, rawResponseLimit)
		return analysis
	}

	return sanitize(fields, startupName)
}

// BuildConfig returns the GenerateContentConfig for analysis calls.
// Low temperature keeps field extraction deterministic.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(temperature)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "Você é especialista em análise de pitch decks. Extraia APENAS informações reais do texto.",
			}},
		},
		Temperature:     &temp,
		MaxOutputTokens: maxOutputTokens,
	}
}

// BuildPrompt builds the extraction prompt for the given deck text and
// startup name. The model is instructed to respond with JSON only.
func BuildPrompt(text, startupName string) string {
	var sb strings.Builder
	sb.WriteString("Extraia as principais informações do seguinte texto de pitch deck para criar um registro estruturado de startup:\n\n")
	fmt.Fprintf(&sb, "TEXTO EXTRAÍDO:\n%s\n\n", text)
	fmt.Fprintf(&sb, "NOME DA STARTUP: %s\n\n", startupName)
	sb.WriteString("Retorne APENAS um JSON válido com os seguintes campos (use null para campos não encontrados):\n")
	fmt.Fprintf(&sb, `{
    "name": %q,
    "description": "descrição do negócio",
    "ceo_name": "nome do CEO ou founder",
    "sector": "setor/indústria",
    "business_model": "modelo de negócio",
    "city": "cidade",
    "state": "estado",
    "website": "site da empresa",
    "mrr": numero_mrr,
    "client_count": numero_clientes,
    "problem_solution": "problema que resolve e solução",
    "differentials": "diferenciais competitivos",
    "competitors": "principais concorrentes",
    "market": "mercado alvo"
}`, startupName)
	sb.WriteString("\n\nResponda APENAS com o JSON:")
	return sb.String()
}

// Truncate bounds text to MaxInputChars, appending TruncationMarker when
// truncation happened. Text at or below the limit passes unmodified.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxInputChars {
		return text
	}
	return string(runes[:MaxInputChars]) + TruncationMarker
}

// StripCodeFence removes a surrounding markdown code fence, if any, from
// the model's response. Models often wrap JSON in ```json fences despite
// being told not to.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// sanitize converts the parsed model output into an Analysis. The model's
// name guess is never trusted over the caller-supplied name. String fields
// are trimmed and empties become null; numeric fields accept numbers or
// numeric strings.
func sanitize(fields map[string]any, startupName string) *deckparse.Analysis {
	return &deckparse.Analysis{
		Name:            startupName,
		Description:     stringField(fields, "description"),
		CEOName:         stringField(fields, "ceo_name"),
		Sector:          stringField(fields, "sector"),
		BusinessModel:   stringField(fields, "business_model"),
		City:            stringField(fields, "city"),
		State:           stringField(fields, "state"),
		Website:         stringField(fields, "website"),
		MRR:             floatField(fields, "mrr"),
		ClientCount:     intField(fields, "client_count"),
		ProblemSolution: stringField(fields, "problem_solution"),
		Differentials:   stringField(fields, "differentials"),
		Competitors:     stringField(fields, "competitors"),
		Market:          stringField(fields, "market"),
	}
}

func stringField(fields map[string]any, key string) *string {
	v, ok := fields[key].(string)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}

func floatField(fields map[string]any, key string) *float64 {
	switch v := fields[key].(type) {
	case float64:
		return &v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return &f
		}
	}
	return nil
}

func intField(fields map[string]any, key string) *int {
	switch v := fields[key].(type) {
	case float64:
		n := int(v)
		return &n
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return &n
		}
	}
	return nil
}

// degraded builds the minimal Analysis returned when real analysis could
// not run. It is deterministic and never nil.
func degraded(startupName, kind, message string) *deckparse.Analysis {
	desc := fmt.Sprintf("Startup %s processada - análise automática falhou", startupName)
	return &deckparse.Analysis{
		Name:        startupName,
		Description: &desc,
		Error:       message,
		ErrorKind:   kind,
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
