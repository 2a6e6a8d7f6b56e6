package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gambitproject/draw-tree/pkg/config"
	"github.com/gambitproject/draw-tree/pkg/pipeline"
)

// drawOpts holds the command-line flags shared by draw and render.
type drawOpts struct {
	output     string // output file path (or base path for multiple formats)
	formats    string // comma-separated output formats
	scale      float64
	grid       bool
	radius     float64
	elongation string // singleton outline stretch as "x,y"
	dpi        int
	noCache    bool
	refresh    bool
}

// drawCommand creates the draw command for generating TikZ pictures.
func (c *CLI) drawCommand() *cobra.Command {
	var opts drawOpts

	cmd := &cobra.Command{
		Use:   "draw [file]",
		Short: "Convert a game tree file into TikZ picture code",
		Long: `Draw converts an extensive form game description (.ef) or a Gambit
game (.efg) into TikZ picture code. With --format pdf or png the
picture is compiled with pdflatex.

When no file is given, an interactive picker lists the game files in
the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := pickInput(args)
			if err != nil {
				return err
			}
			return c.runPipeline(cmd, input, &opts)
		},
	}

	addDrawFlags(cmd, &opts, pipeline.FormatTikZ)
	return cmd
}

// renderCommand creates the render command, which compiles straight to PDF.
func (c *CLI) renderCommand() *cobra.Command {
	var opts drawOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Compile a game tree to PDF or PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := pickInput(args)
			if err != nil {
				return err
			}
			return c.runPipeline(cmd, input, &opts)
		},
	}

	addDrawFlags(cmd, &opts, pipeline.FormatPDF)
	return cmd
}

// addDrawFlags registers the drawing flags shared by draw and render.
func addDrawFlags(cmd *cobra.Command, opts *drawOpts, defaultFormat string) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", defaultFormat, "output format(s): tikz, tex, pdf, png (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "picture scale (default 1)")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "show the alignment grid")
	cmd.Flags().Float64Var(&opts.radius, "radius", 0, "information set outline radius")
	cmd.Flags().StringVar(&opts.elongation, "elongation", "", "singleton outline stretch as x,y")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "PNG resolution (default 300)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompile even when a cached artifact exists")
}

// runPipeline executes the conversion pipeline and writes the
// requested artifacts.
func (c *CLI) runPipeline(cmd *cobra.Command, input string, opts *drawOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	popts := pipeline.Options{
		Input:   input,
		Scale:   opts.scale,
		Grid:    opts.grid,
		Radius:  opts.radius,
		Formats: parseFormats(opts.formats),
		DPI:     opts.dpi,
		Refresh: opts.refresh,
		Logger:  logger,
	}
	if opts.elongation != "" {
		el, err := parseElongation(opts.elongation)
		if err != nil {
			return err
		}
		popts.Elongation = el
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("ignoring invalid config file", "err", err)
	}
	applyConfig(&popts, cfg)
	if !cmd.Flags().Changed("grid") && cfg.Grid {
		popts.Grid = true
	}
	noCache := opts.noCache || cfg.NoCache

	runner := c.newRunner(noCache)
	defer runner.Close()

	result, err := c.execute(ctx, runner, popts)
	if err != nil {
		return err
	}

	written, err := writeArtifacts(result, popts.Formats, opts.output, input)
	if err != nil {
		return err
	}

	printSuccess("Drew %s", filepath.Base(input))
	for _, path := range written {
		printFile(path)
	}
	if popts.NeedsCompile() {
		printCompileStats(result)
	}
	return nil
}

// execute runs the pipeline, showing a spinner while pdflatex works.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	var sp *Spinner
	if opts.NeedsCompile() {
		sp = newSpinnerWithContext(ctx, "Compiling with pdflatex...")
		sp.Start()
	}
	result, err := runner.Execute(ctx, opts)
	if sp != nil {
		sp.Stop()
	}
	return result, err
}

// pickInput resolves the input path, falling back to the interactive
// picker when no argument was given.
func pickInput(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return pickGameFile(".")
}

// parseElongation parses the --elongation flag value "x,y".
func parseElongation(s string) ([2]float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return [2]float64{}, fmt.Errorf("invalid elongation %q (expected x,y)", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("invalid elongation %q: %v", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("invalid elongation %q: %v", s, err)
	}
	return [2]float64{x, y}, nil
}

// formatExt maps output formats to file extensions.
var formatExt = map[string]string{
	pipeline.FormatTikZ: ".tikz",
	pipeline.FormatTeX:  ".tex",
	pipeline.FormatPDF:  ".pdf",
	pipeline.FormatPNG:  ".png",
}

// basePath derives the base output path from the output and input
// paths. A format extension on the output path is stripped so that
// multiple formats land next to each other.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	for _, fe := range formatExt {
		if ext == fe {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// writeArtifacts writes each produced artifact to its own file and
// returns the written paths.
func writeArtifacts(result *pipeline.Result, formats []string, output, input string) ([]string, error) {
	// A single format with an explicit output path keeps that path
	// verbatim.
	if len(formats) == 1 && output != "" {
		data, ok := result.Artifacts[formats[0]]
		if !ok {
			return nil, fmt.Errorf("no %s artifact produced", formats[0])
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return nil, err
		}
		return []string{output}, nil
	}

	base := basePath(output, input)
	var written []string
	for _, format := range formats {
		data, ok := result.Artifacts[format]
		if !ok {
			return nil, fmt.Errorf("no %s artifact produced", format)
		}
		path := base + formatExt[format]
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}

// printCompileStats prints a one-line summary of the compile stage.
func printCompileStats(result *pipeline.Result) {
	cached := result.CacheInfo.PDFHit
	printStats(len(result.TikZ), cached, result.Stats.CompileTime)
}
