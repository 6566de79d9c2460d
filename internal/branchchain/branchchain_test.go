package branchchain

import (
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		base    string
		remotes []string
		want    []string
	}{
		{
			name: "up to date with remote",
			lines: []string{
				"HEAD -> my-test-2, origin/my-test-2",
				"",
				"",
				"origin/my-test-1, my-test-1",
				"",
				"origin/my-test-0, my-test-0",
				"origin/main, origin/HEAD, main",
			},
			base:    "main",
			remotes: []string{"origin"},
			want:    []string{"my-test-0", "my-test-1", "my-test-2"},
		},
		{
			name:    "behind remote",
			lines:   []string{"HEAD -> my-test-2", "", "my-test-1", "", "my-test-0"},
			base:    "main",
			remotes: []string{"origin"},
			want:    []string{"my-test-0", "my-test-1", "my-test-2"},
		},
		{
			name:    "only base",
			lines:   []string{"origin/main, origin/HEAD, main"},
			base:    "main",
			remotes: []string{"origin"},
			want:    []string{},
		},
		{
			name:    "empty input",
			lines:   nil,
			base:    "main",
			remotes: []string{"origin"},
			want:    []string{},
		},
		{
			name:    "blank lines only",
			lines:   []string{"", "", ""},
			base:    "main",
			remotes: []string{"origin"},
			want:    []string{},
		},
		{
			name:    "custom base ref",
			lines:   []string{"HEAD -> feature-b", "feature-a", "develop, origin/develop"},
			base:    "develop",
			remotes: []string{"origin"},
			want:    []string{"feature-a", "feature-b"},
		},
		{
			name:    "multiple remotes",
			lines:   []string{"HEAD -> top, upstream/top, fork/top", "bottom, fork/bottom"},
			base:    "main",
			remotes: []string{"upstream", "fork"},
			want:    []string{"bottom", "top"},
		},
		{
			name:    "undeclared remote is kept",
			lines:   []string{"HEAD -> top, other/top"},
			base:    "main",
			remotes: []string{"origin"},
			want:    []string{"other/top", "top"},
		},
		{
			name:    "remote name without slash is a branch",
			lines:   []string{"HEAD -> origin"},
			base:    "main",
			remotes: []string{"origin"},
			want:    []string{"origin"},
		},
		{
			name:    "repeated branch is not collapsed",
			lines:   []string{"HEAD -> a", "a", "b"},
			base:    "main",
			remotes: nil,
			want:    []string{"b", "a", "a"},
		},
		{
			name:    "several branches on one commit keep line order reversed",
			lines:   []string{"HEAD -> x, y"},
			base:    "main",
			remotes: nil,
			want:    []string{"y", "x"},
		},
		{
			name:    "tag decoration treated as ordinary ref",
			lines:   []string{"HEAD -> top, tag: v1.0.0"},
			base:    "main",
			remotes: []string{"origin"},
			want:    []string{"tag: v1.0.0", "top"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.lines, tt.base, tt.remotes)
			if got == nil {
				t.Fatal("Parse returned nil, want empty slice")
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Parse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_BaseNeverInOutput(t *testing.T) {
	lines := []string{"HEAD -> main", "main, feature", "origin/main, main"}
	got := Parse(lines, "main", []string{"origin"})
	if slices.Contains(got, "main") {
		t.Errorf("Parse() = %q, must not contain base ref", got)
	}
	if !slices.Equal(got, []string{"feature"}) {
		t.Errorf("Parse() = %q, want [feature]", got)
	}
}

func TestRefs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"HEAD -> a, origin/a", []string{"a", "origin/a"}},
		{"  b ,c  ", []string{"b", "c"}},
		{"", []string{""}},
		{"x, HEAD -> y", []string{"x", "HEAD -> y"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := Refs(tt.line); !slices.Equal(got, tt.want) {
				t.Errorf("Refs(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	output := "HEAD -> my-test-2\n\nmy-test-1\n\nmy-test-0\n"
	lines := SplitLines(output)
	if len(lines) != 6 {
		t.Fatalf("SplitLines() returned %d lines, want 6: %q", len(lines), lines)
	}

	got := Parse(lines, "main", []string{"origin"})
	want := []string{"my-test-0", "my-test-1", "my-test-2"}
	if !slices.Equal(got, want) {
		t.Errorf("Parse(SplitLines()) = %q, want %q", got, want)
	}
}
