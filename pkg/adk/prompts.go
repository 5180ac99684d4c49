package adk

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/user/normtree/pkg/engine"
)

//go:embed prompts/explain.tmpl
var explainTemplate string

var explainTmpl = template.Must(template.New("explain").Parse(explainTemplate))

type promptPath struct {
	Path   string
	Reason string
}

type promptData struct {
	RootID        string
	RootName      string
	RootStatus    string
	Nodes         int
	EffectiveFail int
	StoredFail    int
	Paths         []promptPath
}

// BuildPrompt renders the explanation prompt for a snapshot
func BuildPrompt(snap *engine.Snapshot) (string, error) {
	sum := snap.Summary()
	data := promptData{
		RootID:        snap.Root.ID.String(),
		RootName:      snap.Root.Name,
		RootStatus:    string(sum.Root),
		Nodes:         sum.Nodes,
		EffectiveFail: sum.EffectiveFail,
		StoredFail:    sum.StoredFail,
	}
	for _, p := range engine.FailurePaths(snap.Root) {
		data.Paths = append(data.Paths, promptPath{Path: p.String(), Reason: p.Origin().Reason})
	}
	var buf bytes.Buffer
	if err := explainTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render explain prompt: %w", err)
	}
	return buf.String(), nil
}
