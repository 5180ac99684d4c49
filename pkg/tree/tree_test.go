package tree

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const samplePayload = `{
  "id": 1, "name": "Org", "type": "ROOT", "status": "PASS",
  "children": [
    {"id": 2, "name": "Access control", "type": "CHECK", "status": "PASS", "children": [
      {"id": 4, "name": "MFA", "type": "SUB_CHECK", "status": "FAIL", "reason": "2 users without MFA", "children": []}
    ]},
    {"id": 3, "name": "Backups", "type": "CHECK", "status": "PASS", "reason": null, "children": []}
  ]
}`

func TestDecode_Valid(t *testing.T) {
	root, err := DecodeBytes([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if root.ID != "1" || root.Kind != KindRoot || root.Status != Pass {
		t.Errorf("root = %+v", root)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
	if root.Children[0].ID != "2" || root.Children[1].ID != "3" {
		t.Errorf("children order not preserved: %s, %s", root.Children[0].ID, root.Children[1].ID)
	}
	mfa := Find(root, "4")
	if mfa == nil {
		t.Fatal("node 4 not found")
	}
	if mfa.Status != Fail || mfa.ReasonText() != "2 users without MFA" {
		t.Errorf("node 4 = %+v", mfa)
	}
	if Find(root, "3").Reason != nil {
		t.Error("null reason should decode as absent")
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"not json", `{`, ""},
		{"missing id", `{"name":"x","status":"PASS","children":[]}`, "missing id"},
		{"null id", `{"id":null,"status":"PASS","children":[]}`, "missing id"},
		{"missing status", `{"id":1,"children":[]}`, "missing status"},
		{"null status", `{"id":1,"status":null,"children":[]}`, "missing status"},
		{"unknown status", `{"id":1,"status":"PENDING","children":[]}`, "invalid status"},
		{"numeric status", `{"id":1,"status":3,"children":[]}`, ""},
		{"lowercase status", `{"id":1,"status":"pass","children":[]}`, "invalid status"},
		{"padded status", `{"id":1,"status":" Fail ","children":[]}`, "invalid status"},
		{"nested lowercase status", `{"id":1,"status":"PASS","children":[{"id":2,"status":"fail","children":[]}]}`, "node 1/2"},
		{"missing children", `{"id":1,"status":"PASS"}`, "missing children"},
		{"nested missing children", `{"id":1,"status":"PASS","children":[{"id":2,"status":"FAIL"}]}`, "node 1/2: missing children"},
		{"duplicate id", `{"id":1,"status":"PASS","children":[{"id":1,"status":"FAIL","children":[]}]}`, "duplicate id"},
		{"trailing object", `{"id":1,"status":"PASS","children":[]}{"id":2}`, "trailing data"},
		{"trailing garbage", `{"id":1,"status":"PASS","children":[]} x`, "trailing data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(tt.payload))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDecode_StringIDs(t *testing.T) {
	root, err := DecodeBytes([]byte(`{"id":"org","status":"PASS","children":[{"id":"c-1","status":"FAIL","children":[]}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if root.ID != "org" || root.Status != Pass {
		t.Errorf("root = %+v", root)
	}
	if root.Children[0].ID != "c-1" {
		t.Errorf("child id = %q", root.Children[0].ID)
	}
}

func TestIDMarshal(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{"42", `42`},
		{"abc", `"abc"`},
		{"4a", `"4a"`},
		{"-3", `-3`},
		{"0", `0`},
		{"007", `"007"`},
		{"+5", `"+5"`},
		{"-0", `"-0"`},
		{"99999999999999999999", `"99999999999999999999"`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.id)
		if err != nil {
			t.Fatalf("Marshal(%q): %v", tt.id, err)
		}
		if string(got) != tt.want {
			t.Errorf("Marshal(%q) = %s, want %s", tt.id, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("PASS"); err != nil || s != Pass {
		t.Errorf("ParseStatus(PASS) = %q, %v", s, err)
	}
	if s, err := ParseStatus("FAIL"); err != nil || s != Fail {
		t.Errorf("ParseStatus(FAIL) = %q, %v", s, err)
	}
	for _, in := range []string{"", "UNKNOWN", "PASSED", "pass", " Pass ", "Fail"} {
		if _, err := ParseStatus(in); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("ParseStatus(%q): expected ErrInvalidStatus, got %v", in, err)
		}
	}
}

func TestParseOperatorStatus(t *testing.T) {
	for in, want := range map[string]Status{"PASS": Pass, "pass": Pass, " Pass ": Pass, "fail": Fail} {
		if s, err := ParseOperatorStatus(in); err != nil || s != want {
			t.Errorf("ParseOperatorStatus(%q) = %q, %v", in, s, err)
		}
	}
	for _, in := range []string{"", "maybe", "PASSED"} {
		if _, err := ParseOperatorStatus(in); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("ParseOperatorStatus(%q): expected ErrInvalidStatus, got %v", in, err)
		}
	}
}

func TestWalkIndexCountDepth(t *testing.T) {
	root, err := DecodeBytes([]byte(samplePayload))
	if err != nil {
		t.Fatal(err)
	}
	var order []ID
	Walk(root, func(n *Node, _ int) bool {
		order = append(order, n.ID)
		return true
	})
	want := []ID{"1", "2", "4", "3"}
	if len(order) != len(want) {
		t.Fatalf("walk order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("walk order = %v, want %v", order, want)
		}
	}
	if got := len(Index(root)); got != 4 {
		t.Errorf("Index size = %d", got)
	}
	if got := Count(root); got != 4 {
		t.Errorf("Count = %d", got)
	}
	if got := Depth(root); got != 2 {
		t.Errorf("Depth = %d", got)
	}
	if Find(root, "99") != nil {
		t.Error("Find(99) should be nil")
	}
}

func TestClone_IsDeep(t *testing.T) {
	root, err := DecodeBytes([]byte(samplePayload))
	if err != nil {
		t.Fatal(err)
	}
	c := root.Clone()
	c.Children[0].Children[0].Status = Pass
	*c.Children[0].Children[0].Reason = "changed"
	orig := Find(root, "4")
	if orig.Status != Fail || orig.ReasonText() != "2 users without MFA" {
		t.Errorf("clone shares state with original: %+v", orig)
	}
}

func TestValidate(t *testing.T) {
	ok := &Node{ID: "1", Status: Pass, Children: []*Node{{ID: "2", Status: Fail}}}
	if err := Validate(ok); err != nil {
		t.Errorf("Validate(ok): %v", err)
	}
	bad := []*Node{
		nil,
		{Status: Pass},
		{ID: "1", Status: "MAYBE"},
		{ID: "1", Status: Pass, Children: []*Node{{ID: "1", Status: Pass}}},
		{ID: "1", Status: Pass, Children: []*Node{nil}},
	}
	for i, n := range bad {
		if err := Validate(n); !errors.Is(err, ErrMalformed) {
			t.Errorf("case %d: expected ErrMalformed, got %v", i, err)
		}
	}
}
