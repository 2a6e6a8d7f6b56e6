package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gambitproject/draw-tree/pkg/cache"
	"github.com/gambitproject/draw-tree/pkg/ef"
	"github.com/gambitproject/draw-tree/pkg/efg"
	"github.com/gambitproject/draw-tree/pkg/errors"
	"github.com/gambitproject/draw-tree/pkg/layout"
	"github.com/gambitproject/draw-tree/pkg/observability"
	"github.com/gambitproject/draw-tree/pkg/render"
)

// Runner executes the pipeline with artifact caching.
//
// The Runner is stateless except for the cache and logger; it does not
// store conversion results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the complete convert → draw → compile pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{Artifacts: make(map[string][]byte)}

	drawStart := time.Now()
	observability.Pipeline().OnDrawStart(ctx, opts.Input)
	lines, err := r.InputLines(opts)
	if err != nil {
		return nil, err
	}
	picture := r.Draw(lines, opts)
	result.TikZ = picture
	result.Stats.DrawTime = time.Since(drawStart)
	observability.Pipeline().OnDrawComplete(ctx, opts.Input, len(picture), result.Stats.DrawTime)

	opts.Logger.Info("generated picture",
		"input", opts.Input,
		"lines", len(lines),
		"duration", result.Stats.DrawTime)

	document := render.Document(render.WithMacros(picture, filepath.Base(opts.Input)))

	for _, format := range opts.Formats {
		switch format {
		case FormatTikZ:
			result.Artifacts[FormatTikZ] = []byte(picture)
		case FormatTeX:
			result.Artifacts[FormatTeX] = []byte(document)
		}
	}

	if !opts.NeedsCompile() {
		return result, nil
	}

	compileStart := time.Now()
	observability.Pipeline().OnCompileStart(ctx, opts.Formats)
	input := []byte(strings.Join(lines, "\n"))

	pdf, pdfHit, err := r.compilePDF(ctx, document, input, opts)
	if err != nil {
		observability.Pipeline().OnCompileComplete(ctx, opts.Formats, time.Since(compileStart), err)
		return nil, err
	}
	result.CacheInfo.PDFHit = pdfHit
	for _, format := range opts.Formats {
		switch format {
		case FormatPDF:
			result.Artifacts[FormatPDF] = pdf
		case FormatPNG:
			png, pngHit, err := r.rasterize(ctx, pdf, input, opts)
			if err != nil {
				return nil, err
			}
			result.Artifacts[FormatPNG] = png
			result.CacheInfo.PNGHit = pngHit
		}
	}
	result.Stats.CompileTime = time.Since(compileStart)
	observability.Pipeline().OnCompileComplete(ctx, opts.Formats, result.Stats.CompileTime, nil)

	opts.Logger.Info("compiled outputs",
		"formats", opts.Formats,
		"cached", pdfHit,
		"duration", result.Stats.CompileTime)

	return result, nil
}

// InputLines reads the input file, converting .efg games to the
// description language first.
func (r *Runner) InputLines(opts Options) ([]string, error) {
	if IsEFG(opts.Input) {
		text, err := r.ConvertEFG(opts.Input)
		if err != nil {
			return nil, err
		}
		return strings.Split(strings.TrimRight(text, "\n"), "\n"), nil
	}
	lines, err := ef.ReadLines(opts.Input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err,
			"cannot read %s", opts.Input)
	}
	return lines, nil
}

// Draw converts description lines into TikZ picture code.
func (r *Runner) Draw(lines []string, opts Options) string {
	opts.SetDefaults()
	cfg := ef.Config{
		Scale:    opts.Scale,
		Grid:     opts.Grid,
		Radius:   opts.Radius,
		SingleX:  opts.Elongation[0],
		SingleY:  opts.Elongation[1],
		Comments: true,
	}
	return ef.New(cfg).Run(lines)
}

// ConvertEFG reads a Gambit .efg file and returns the equivalent
// description language text.
func (r *Runner) ConvertEFG(path string) (string, error) {
	records, players, err := efg.ParseFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err,
			"cannot read %s", path)
	}
	if len(records) == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"no game records found in %s", path)
	}
	lines := layout.New(records, players).Lines()
	return strings.Join(lines, "\n") + "\n", nil
}

// IsEFG reports whether a path names a Gambit extensive form game file.
func IsEFG(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".efg")
}

// compilePDF compiles the document, consulting the artifact cache
// keyed by the input text and drawing options.
func (r *Runner) compilePDF(ctx context.Context, document string, input []byte, opts Options) ([]byte, bool, error) {
	key := opts.ArtifactKey(FormatPDF, input)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, FormatPDF)
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, FormatPDF)
	}

	pdf, err := render.CompilePDF(ctx, document)
	if err != nil {
		return nil, false, err
	}
	_ = r.Cache.Set(ctx, key, pdf, cache.DefaultTTL)
	observability.Cache().OnCacheSet(ctx, FormatPDF, len(pdf))
	return pdf, false, nil
}

// rasterize converts the PDF to PNG, consulting the artifact cache.
func (r *Runner) rasterize(ctx context.Context, pdf, input []byte, opts Options) ([]byte, bool, error) {
	key := opts.ArtifactKey(FormatPNG, input)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, FormatPNG)
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, FormatPNG)
	}

	png, err := render.CompilePNG(ctx, pdf, opts.DPI)
	if err != nil {
		return nil, false, err
	}
	_ = r.Cache.Set(ctx, key, png, cache.DefaultTTL)
	observability.Cache().OnCacheSet(ctx, FormatPNG, len(png))
	return png, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
