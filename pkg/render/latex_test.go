package render

import (
	"strings"
	"testing"
)

func TestWithMacros(t *testing.T) {
	picture := "\\begin{tikzpicture}\n\\end{tikzpicture}"
	got := WithMacros(picture, "bargain.ef")

	for _, want := range []string{
		"\\usetikzlibrary{shapes}",
		"\\usetikzlibrary{arrows.meta}",
		"\\newcommand\\chancecolor{red}",
		"\\ndiam1.5mm",
		"\\paydown2.5ex",
		"% Game tree content from bargain.ef",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("WithMacros output missing %q", want)
		}
	}

	if !strings.HasSuffix(got, picture) {
		t.Error("picture should come last")
	}
}

func TestDocument(t *testing.T) {
	got := Document("PICTURE")

	if !strings.HasPrefix(got, "\\documentclass[a4paper,12pt]{article}") {
		t.Error("missing documentclass preamble")
	}
	for _, want := range []string{
		"\\usepackage{newpxtext,newpxmath}",
		"\\usepackage{tikz}",
		"\\begin{document}",
		"PICTURE",
		"\\end{document}",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Document output missing %q", want)
		}
	}

	// Content sits between horizontal rules
	before, after, found := strings.Cut(got, "PICTURE")
	if !found || !strings.Contains(before, "\\hrule") || !strings.Contains(after, "\\hrule") {
		t.Error("picture should be framed by \\hrule")
	}
}

func TestLastLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short input unchanged", "a\nb", 5, "a\nb"},
		{"keeps tail", "a\nb\nc\nd", 2, "c\nd"},
		{"single line", "only", 3, "only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastLines(tt.in, tt.n); got != tt.want {
				t.Errorf("lastLines(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
