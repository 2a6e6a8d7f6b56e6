package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gambitproject/draw-tree/pkg/pipeline"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		input  string
		want   string
	}{
		{"", "game.ef", "game"},
		{"", "dir/game.efg", "dir/game"},
		{"out.pdf", "game.ef", "out"},
		{"out.tikz", "game.ef", "out"},
		{"out", "game.ef", "out"},
		{"out.txt", "game.ef", "out.txt"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestParseElongation(t *testing.T) {
	got, err := parseElongation("0.6,0.1")
	if err != nil {
		t.Fatalf("parseElongation error: %v", err)
	}
	if got != [2]float64{0.6, 0.1} {
		t.Errorf("parseElongation = %v, want [0.6 0.1]", got)
	}

	for _, bad := range []string{"", "1", "a,b", "1,"} {
		if _, err := parseElongation(bad); err == nil {
			t.Errorf("parseElongation(%q) should fail", bad)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "game.ef")
	result := &pipeline.Result{
		Artifacts: map[string][]byte{
			pipeline.FormatTikZ: []byte("picture"),
			pipeline.FormatTeX:  []byte("document"),
		},
	}

	written, err := writeArtifacts(result, []string{"tikz", "tex"}, "", input)
	if err != nil {
		t.Fatalf("writeArtifacts error: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("wrote %d files, want 2", len(written))
	}

	data, err := os.ReadFile(filepath.Join(dir, "game.tikz"))
	if err != nil {
		t.Fatalf("reading tikz output: %v", err)
	}
	if string(data) != "picture" {
		t.Errorf("tikz content = %q, want %q", data, "picture")
	}
	if _, err := os.Stat(filepath.Join(dir, "game.tex")); err != nil {
		t.Errorf("missing tex output: %v", err)
	}
}

func TestWriteArtifactsExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "custom.tikz")
	result := &pipeline.Result{
		Artifacts: map[string][]byte{pipeline.FormatTikZ: []byte("picture")},
	}

	written, err := writeArtifacts(result, []string{"tikz"}, out, "game.ef")
	if err != nil {
		t.Fatalf("writeArtifacts error: %v", err)
	}
	if len(written) != 1 || written[0] != out {
		t.Errorf("written = %v, want [%s]", written, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("missing output: %v", err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
