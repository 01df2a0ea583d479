package topic

import "testing"

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"buffer.lines.changed", "buffer.lines.changed", true},
		{"buffer.lines.changed", "buffer.*.changed", true},
		{"buffer.lines.changed", "buffer.*", false},
		{"buffer.lines.changed", "buffer.**", true},
		{"buffer", "buffer.**", true},
		{"buffer.lines.changed", "**.changed", true},
		{"cursor.selection.changed", "buffer.**", false},
		{"buffer.lines.changed", "**", true},
		{"buffer.lines", "buffer.lines.changed", false},
		{"a.b.c.d", "a.**.d", true},
		{"a.d", "a.**.d", true},
		{"a.b.c", "a.**.d", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.topic)+"~"+string(tt.pattern), func(t *testing.T) {
			if got := tt.topic.Matches(tt.pattern); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopicIsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		want  bool
	}{
		{"buffer.lines.changed", true},
		{"single", true},
		{"", false},
		{".buffer", false},
		{"buffer.", false},
		{"buffer..lines", false},
	}
	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.want {
			t.Errorf("%q.IsValid() = %v, want %v", tt.topic, got, tt.want)
		}
	}
}

func TestTopicParentAndJoin(t *testing.T) {
	if got := Join("buffer", "lines", "changed").Parent(); got != "buffer.lines" {
		t.Errorf("Parent() = %q, want buffer.lines", got)
	}
	if got := Topic("buffer").Parent(); got != "" {
		t.Errorf("Parent() of root = %q, want empty", got)
	}
	if !Topic("buffer.*").IsWildcard() || Topic("buffer.lines").IsWildcard() {
		t.Error("IsWildcard mismatch")
	}
}
