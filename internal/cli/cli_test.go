package cli

import (
	"io"
	"reflect"
	"testing"

	"github.com/gambitproject/draw-tree/pkg/config"
	"github.com/gambitproject/draw-tree/pkg/pipeline"
)

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != "drawtree" {
		t.Errorf("root.Use = %q, want %q", root.Use, "drawtree")
	}

	want := map[string]bool{
		"draw":       false,
		"convert":    false,
		"render":     false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"tikz"}},
		{"pdf", []string{"pdf"}},
		{"tikz,pdf,png", []string{"tikz", "pdf", "png"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestApplyConfig(t *testing.T) {
	cfg := config.Config{Scale: 0.5, DPI: 600, Radius: 0.25}

	// Unset options take config values
	opts := pipeline.Options{}
	applyConfig(&opts, cfg)
	if opts.Scale != 0.5 {
		t.Errorf("Scale = %v, want 0.5", opts.Scale)
	}
	if opts.DPI != 600 {
		t.Errorf("DPI = %d, want 600", opts.DPI)
	}
	if opts.Radius != 0.25 {
		t.Errorf("Radius = %v, want 0.25", opts.Radius)
	}

	// Explicit options win over config
	opts = pipeline.Options{Scale: 2, DPI: 150}
	applyConfig(&opts, cfg)
	if opts.Scale != 2 {
		t.Errorf("explicit Scale overridden: got %v", opts.Scale)
	}
	if opts.DPI != 150 {
		t.Errorf("explicit DPI overridden: got %d", opts.DPI)
	}
}
