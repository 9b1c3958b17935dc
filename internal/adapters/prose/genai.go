package prose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"lending_docs/internal/ports"
)

const SourceLLM = "llm"

// contentGenerator is the slice of *genai.Models the generator uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GenAIGenerator struct {
	models contentGenerator
	model  string
	log    *zap.Logger
}

func NewGenAIGenerator(ctx context.Context, apiKey, model string, log *zap.Logger) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGenAIGenerator(client.Models, model, log), nil
}

func newGenAIGenerator(m contentGenerator, model string, log *zap.Logger) *GenAIGenerator {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GenAIGenerator{models: m, model: model, log: log}
}

var proseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"paragraphs": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"heading": {Type: genai.TypeString},
					"body":    {Type: genai.TypeString},
				},
				Required: []string{"heading", "body"},
			},
		},
	},
	Required: []string{"paragraphs"},
}

const systemPrompt = `You write plain-English narrative sections for commercial lending documents.
Use only the facts supplied. Never introduce numbers, rates, dates or parties that are not in the facts.
Do not give legal advice. Keep each paragraph under 120 words.`

func buildPrompt(req ports.ProseRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n", req.Kind)
	if req.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", req.Subject)
	}
	b.WriteString("Facts:\n")
	keys := make([]string, 0, len(req.Facts))
	for k := range req.Facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, req.Facts[k])
	}
	if len(req.Sections) > 0 {
		fmt.Fprintf(&b, "Write one paragraph for each of these headings, in order: %s\n", strings.Join(req.Sections, "; "))
	}
	return b.String()
}

func (g *GenAIGenerator) Generate(ctx context.Context, req ports.ProseRequest) (ports.Prose, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.2),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    proseSchema,
	}
	contents := []*genai.Content{genai.NewContentFromText(buildPrompt(req), genai.RoleUser)}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return ports.Prose{}, fmt.Errorf("GenAI generate failed: %w", err)
	}

	var out ports.Prose
	if err := json.Unmarshal([]byte(resp.Text()), &out); err != nil {
		return ports.Prose{}, fmt.Errorf("GenAI returned malformed JSON: %w", err)
	}
	if len(out.Paragraphs) == 0 {
		return ports.Prose{}, errors.New("GenAI returned no paragraphs")
	}
	out.Source = SourceLLM
	g.log.Debug("[PROSE][LLM] generated", zap.String("kind", req.Kind), zap.Int("paragraphs", len(out.Paragraphs)))
	return out, nil
}
