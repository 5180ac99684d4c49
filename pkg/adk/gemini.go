package adk

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/user/normtree/pkg/logging"
)

const defaultGeminiModel = "gemini-1.5-flash"

const explainInstruction = `You review compliance check trees for an operator.
Only use the failures listed in the prompt. Name the recorded failures that
cause each failing parent and suggest what to fix first. Be brief.`

// GeminiProvider explains snapshots with a Gemini model
type GeminiProvider struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

func NewGeminiProvider(ctx context.Context, apiKey string, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	model := client.GenerativeModel(modelName)
	// explanations should be repeatable for the same tree
	model.SetTemperature(0)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(explainInstruction)}}

	return &GeminiProvider{client: client, model: model, modelName: modelName}, nil
}

// ListModels returns the models that can answer an explain request, that is
// the ones supporting generateContent, sorted by name.
func (g *GeminiProvider) ListModels(ctx context.Context) ([]string, error) {
	it := g.client.ListModels(ctx)
	var names []string
	for {
		m, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		if !supportsGenerate(m.SupportedGenerationMethods) {
			continue
		}
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	sort.Strings(names)
	return names, nil
}

func supportsGenerate(methods []string) bool {
	for _, m := range methods {
		if m == "generateContent" {
			return true
		}
	}
	return false
}

func (g *GeminiProvider) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", g.modelName, err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini %s: no candidates", g.modelName)
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", fmt.Errorf("gemini %s: empty candidate (finish reason %s)", g.modelName, cand.FinishReason)
	}
	logging.Debugf("gemini %s finished: %s", g.modelName, cand.FinishReason)
	text := candidateText(cand.Content)
	if text == "" {
		return "", fmt.Errorf("gemini %s: no text in response", g.modelName)
	}
	return text, nil
}

func candidateText(c *genai.Content) string {
	var sb strings.Builder
	for _, part := range c.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}

func (g *GeminiProvider) Close() {
	g.client.Close()
}
