package adk

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/user/normtree/pkg/engine"
	"github.com/user/normtree/pkg/tree"
)

type fakeProvider struct {
	prompts []string
	reply   string
}

func (f *fakeProvider) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, nil
}

func (f *fakeProvider) ListModels(ctx context.Context) ([]string, error) {
	return []string{"fake"}, nil
}

func sampleSnapshot(failing bool) *engine.Snapshot {
	status := tree.Pass
	if failing {
		status = tree.Fail
	}
	reason := "three admin accounts without MFA"
	mfa := &tree.Node{ID: "4", Name: "MFA enforced", Kind: tree.KindSubCheck, Status: status, Reason: &reason}
	return engine.NewSnapshot(&tree.Node{
		ID: "1", Name: "ISO 27001", Kind: tree.KindRoot, Status: tree.Pass,
		Children: []*tree.Node{
			{ID: "2", Name: "Access control", Kind: tree.KindCheck, Status: tree.Pass, Children: []*tree.Node{mfa}},
		},
	})
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt(sampleSnapshot(true))
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	for _, want := range []string{
		"Assessment: ISO 27001 (id 1)",
		"Overall status: FAIL",
		"3 total, 3 failing, 1 with a recorded FAIL",
		"- ISO 27001 > Access control > MFA enforced",
		"reason: three admin accounts without MFA",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestExplain(t *testing.T) {
	fp := &fakeProvider{reply: "Fix MFA first."}
	e := NewExplainer(fp)

	got, err := e.Explain(context.Background(), sampleSnapshot(true))
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if got != "Fix MFA first." || len(fp.prompts) != 1 {
		t.Errorf("Explain = %q, prompts = %d", got, len(fp.prompts))
	}

	got, err = e.Explain(context.Background(), sampleSnapshot(false))
	if err != nil || got != "" {
		t.Errorf("passing snapshot: %q, %v", got, err)
	}
	if len(fp.prompts) != 1 {
		t.Error("passing snapshot should not call the model")
	}
}

func TestNewProvider_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewProvider(ctx, "gemini", "", ""); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
	if _, err := NewProvider(ctx, "clippy", "key", ""); err == nil {
		t.Error("expected unknown provider error")
	}
}

func TestSupportsGenerate(t *testing.T) {
	if !supportsGenerate([]string{"countTokens", "generateContent"}) {
		t.Error("generateContent model rejected")
	}
	if supportsGenerate([]string{"embedContent"}) || supportsGenerate(nil) {
		t.Error("embedding-only model accepted")
	}
}

func TestCandidateText(t *testing.T) {
	c := &genai.Content{Parts: []genai.Part{genai.Text("  Fix MFA "), genai.Blob{MIMEType: "image/png"}, genai.Text("first.\n")}}
	if got := candidateText(c); got != "Fix MFA first." {
		t.Errorf("candidateText = %q", got)
	}
}
