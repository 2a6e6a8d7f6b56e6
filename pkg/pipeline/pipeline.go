// Package pipeline provides the conversion pipeline shared by all
// entry points.
//
// The pipeline consists of three stages:
//
//  1. Convert: Translate a Gambit .efg game into the .ef description
//     language (only for .efg inputs)
//  2. Draw: Parse the .ef description into TikZ picture code
//  3. Compile: Wrap the picture in a LaTeX document and run it through
//     pdflatex, optionally rasterizing to PNG
//
// Each stage can be run independently or as part of the complete
// pipeline. Compiled PDF and PNG artifacts are cached by input hash;
// the text stages are cheap and always recomputed.
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Input:   "bargain.ef",
//	    Formats: []string{"pdf"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf := result.Artifacts["pdf"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gambitproject/draw-tree/pkg/cache"
	"github.com/gambitproject/draw-tree/pkg/errors"
	"github.com/gambitproject/draw-tree/pkg/render"
	"github.com/gambitproject/draw-tree/pkg/tikz"
)

// DefaultScale is the default picture scale.
const DefaultScale = 1.0

// Format constants for output formats.
const (
	FormatTikZ = "tikz"
	FormatTeX  = "tex"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatTikZ: true,
	FormatTeX:  true,
	FormatPDF:  true,
	FormatPNG:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: tikz, tex, pdf, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for the conversion pipeline.
type Options struct {
	// Input is the path to the .ef or .efg file.
	Input string `json:"input"`

	// Scale multiplies all picture coordinates.
	Scale float64 `json:"scale,omitempty"`

	// Grid draws the green alignment grid instead of commenting it out.
	Grid bool `json:"grid,omitempty"`

	// Radius is the information set outline radius in picture units.
	Radius float64 `json:"radius,omitempty"`

	// Elongation stretches singleton information set outlines
	// horizontally and vertically.
	Elongation [2]float64 `json:"elongation,omitempty"`

	// Formats lists the outputs to produce (tikz, tex, pdf, png).
	Formats []string `json:"formats,omitempty"`

	// DPI is the raster resolution for PNG output.
	DPI int `json:"dpi,omitempty"`

	// Refresh bypasses the artifact cache and recompiles.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives stage progress. Defaults to a discard logger.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}
	o.SetDefaults()
	if err := errors.ValidateScale(o.Scale); err != nil {
		return err
	}
	if err := errors.ValidateDPI(o.DPI); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills in unset option values.
func (o *Options) SetDefaults() {
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Radius == 0 {
		o.Radius = tikz.DefaultRadius
	}
	if o.Elongation == ([2]float64{}) {
		o.Elongation = [2]float64{tikz.DefaultSingleX, tikz.DefaultSingleY}
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatTikZ}
	}
	if o.DPI == 0 {
		o.DPI = render.DefaultDPI
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// NeedsCompile reports whether any requested format requires pdflatex.
func (o *Options) NeedsCompile() bool {
	for _, f := range o.Formats {
		if f == FormatPDF || f == FormatPNG {
			return true
		}
	}
	return false
}

// ArtifactKey returns the cache key for a compiled artifact of the
// given format.
func (o *Options) ArtifactKey(format string, input []byte) string {
	return cache.ArtifactKey(format, input, o.Scale, o.Grid, o.Radius, o.Elongation, o.DPI)
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// TikZ is the generated picture code.
	TikZ string

	// Artifacts contains the requested outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	DrawTime    time.Duration
	CompileTime time.Duration
}

// CacheInfo tracks cache hits for compiled artifacts.
type CacheInfo struct {
	PDFHit bool
	PNGHit bool
}
