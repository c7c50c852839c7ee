package types

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"beginner", LevelBeginner, true},
		{"Intermediate", LevelIntermediate, true},
		{"  ADVANCED ", LevelAdvanced, true},
		{"expert", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseLevel(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCandidateHasTopic(t *testing.T) {
	c := Candidate{
		ID:        "v1",
		TopicTags: []string{"Python", "data-science"},
	}

	if !c.HasTopic("python") {
		t.Error("expected case-insensitive tag match for python")
	}
	if !c.HasTopic("DATA-SCIENCE") {
		t.Error("expected case-insensitive tag match for data-science")
	}
	// Substring must not match: "py" is not a tag.
	if c.HasTopic("py") {
		t.Error("substring must not match a tag")
	}
	if c.HasTopic("javascript") {
		t.Error("unrelated topic must not match")
	}
}

func TestNormalizeTag(t *testing.T) {
	if got := NormalizeTag("  Machine-Learning "); got != "machine-learning" {
		t.Errorf("NormalizeTag = %q", got)
	}
}
