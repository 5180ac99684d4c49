package adk

import (
	"context"
	"errors"

	"github.com/user/normtree/pkg/engine"
	"github.com/user/normtree/pkg/logging"
)

var ErrNoAPIKey = errors.New("adk: no API key configured")

// LLMProvider is the model backend used to explain a snapshot
type LLMProvider interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// Explainer turns the failing part of a snapshot into a written summary
type Explainer struct {
	llm LLMProvider
}

func NewExplainer(llm LLMProvider) *Explainer {
	return &Explainer{llm: llm}
}

// Explain returns "" without calling the model when nothing fails
func (e *Explainer) Explain(ctx context.Context, snap *engine.Snapshot) (string, error) {
	if snap.Summary().StoredFail == 0 {
		return "", nil
	}
	prompt, err := BuildPrompt(snap)
	if err != nil {
		return "", err
	}
	logging.Debugf("explain prompt:\n%s", prompt)
	return e.llm.GenerateResponse(ctx, prompt)
}
