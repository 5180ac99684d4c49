package engine

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/normtree/pkg/logging"
	"github.com/user/normtree/pkg/tree"
)

func TestSnapshotOperations(t *testing.T) {
	// baseline: C1 fails through G1, C2 fails on its own
	baseline := NewSnapshot(node("root", tree.Pass,
		node("C1", tree.Pass, leaf("G1", tree.Fail)),
		leaf("C2", tree.Fail),
		leaf("C3", tree.Pass),
	))

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := baseline.SaveSnapshot(path); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if tree.Count(loaded.Root) != 5 {
		t.Errorf("loaded %d nodes, want 5", tree.Count(loaded.Root))
	}

	// current: G1 fixed, C2 still failing, C3 newly failing, new C4 failing
	current := NewSnapshot(node("root", tree.Pass,
		node("C1", tree.Pass, leaf("G1", tree.Pass)),
		leaf("C2", tree.Fail),
		leaf("C3", tree.Fail),
		leaf("C4", tree.Fail),
	))

	diff := current.CompareSnapshot(loaded)
	ids := func(list []StatusChange) string {
		var out []string
		for _, c := range list {
			out = append(out, c.NodeID.String())
		}
		return strings.Join(out, ",")
	}
	if got := ids(diff.New); got != "C3,C4" {
		t.Errorf("New = %s", got)
	}
	if got := ids(diff.Fixed); got != "C1,G1" {
		t.Errorf("Fixed = %s", got)
	}
	if got := ids(diff.Unchanged); got != "root,C2" {
		t.Errorf("Unchanged = %s", got)
	}
}

func TestCompareSnapshot_RemovedFailingNodeIsFixed(t *testing.T) {
	baseline := NewSnapshot(node("root", tree.Pass, leaf("gone", tree.Fail)))
	current := NewSnapshot(node("root", tree.Pass))
	diff := current.CompareSnapshot(baseline)
	if len(diff.Fixed) != 2 {
		t.Fatalf("Fixed = %+v", diff.Fixed)
	}
	last := diff.Fixed[1]
	if last.NodeID != "gone" || last.After != "" {
		t.Errorf("removed node entry = %+v", last)
	}
}

func TestLoadSnapshot_Malformed(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRenderTree(t *testing.T) {
	logging.DisableColor()
	reason := "no MFA"
	g1 := leaf("G1", tree.Fail)
	g1.Reason = &reason
	snap := NewSnapshot(node("root", tree.Pass, node("C1", tree.Pass, g1), leaf("C2", tree.Pass)))

	var buf bytes.Buffer
	RenderTree(&buf, snap)
	want := strings.Join([]string{
		"[FAIL] root (CHECK) #root stored=PASS",
		"├── [FAIL] C1 (CHECK) #C1 stored=PASS",
		"│   └── [FAIL] G1 (SUB_CHECK) #G1: no MFA",
		"└── [PASS] C2 (SUB_CHECK) #C2",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("RenderTree:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestGetReport(t *testing.T) {
	logging.DisableColor()
	snap := NewSnapshot(node("root", tree.Pass, node("C1", tree.Pass, leaf("G1", tree.Fail))))
	report := snap.GetReport()
	if !strings.Contains(report, "Compliance tree root: FAIL") {
		t.Errorf("report header missing:\n%s", report)
	}
	if !strings.Contains(report, "Propagates to: root > C1 > G1") {
		t.Errorf("report missing failure path:\n%s", report)
	}

	ok := NewSnapshot(leaf("x", tree.Pass))
	if !strings.Contains(ok.GetReport(), "No failing checks.") {
		t.Error("passing report should say so")
	}
}

func TestRenderDiff(t *testing.T) {
	var buf bytes.Buffer
	RenderDiff(&buf, SnapshotDiff{
		New:   []StatusChange{{NodeID: "3", Name: "Backups", Before: tree.Pass, After: tree.Fail}},
		Fixed: []StatusChange{{NodeID: "9", Name: "Old", Before: tree.Fail}},
	}, "base.json")
	out := buf.String()
	for _, want := range []string{
		"NEW FAILURES: 1",
		"[+] #3 Backups (PASS -> FAIL)",
		"[-] #9 Old (FAIL -> absent)",
		"STILL FAILING: 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSaveSnapshot_NonCanonicalNumericIDs(t *testing.T) {
	snap := NewSnapshot(node("007", tree.Pass, leaf("+5", tree.Fail), leaf("42", tree.Pass)))
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := snap.SaveSnapshot(path); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	for _, id := range []tree.ID{"007", "+5", "42"} {
		if _, ok := loaded.Node(id); !ok {
			t.Errorf("id %q lost in round trip", id)
		}
	}
	if loaded.Effective.Of("007") != tree.Fail {
		t.Error("root should fail through +5")
	}
}
