package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/gambitproject/draw-tree/pkg/errors"
)

// DPI bounds and default for PNG rasterization.
const (
	MinDPI     = 72
	MaxDPI     = 2400
	DefaultDPI = 300
)

// CompilePDF compiles a LaTeX document to PDF and returns the PDF
// bytes. Compilation runs pdflatex in a scratch directory that is
// removed afterwards.
func CompilePDF(ctx context.Context, document string) ([]byte, error) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		return nil, errors.New(errors.ErrCodeToolMissing,
			"pdflatex not found. Install a LaTeX distribution:\n  macOS:  brew install --cask mactex\n  Linux:  apt install texlive-latex-extra")
	}

	dir := filepath.Join(os.TempDir(), "drawtree-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	texFile := filepath.Join(dir, "output.tex")
	if err := os.WriteFile(texFile, []byte(document), 0644); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, "pdflatex",
		"-interaction=nonstopmode",
		"-output-directory", dir,
		texFile)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompile, err,
			"pdflatex failed: %s", lastLines(out.String(), 20))
	}

	pdf, err := os.ReadFile(filepath.Join(dir, "output.pdf"))
	if err != nil {
		return nil, errors.New(errors.ErrCodeCompile, "pdflatex produced no PDF")
	}
	return pdf, nil
}

// CompilePNG rasterizes a PDF to PNG at the given resolution. It tries
// ImageMagick first, then Ghostscript, then pdftoppm followed by
// convert, and reports an install hint when none is available.
func CompilePNG(ctx context.Context, pdf []byte, dpi int) ([]byte, error) {
	if dpi < MinDPI || dpi > MaxDPI {
		dpi = DefaultDPI
	}

	dir := filepath.Join(os.TempDir(), "drawtree-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	pdfFile := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(pdfFile, pdf, 0644); err != nil {
		return nil, err
	}
	pngFile := filepath.Join(dir, "output.png")

	converters := []func() error{
		func() error {
			return runTool(ctx, "convert",
				"-density", fmt.Sprint(dpi), "-quality", "100", pdfFile, pngFile)
		},
		func() error {
			return runTool(ctx, "gs",
				"-dNOPAUSE", "-dBATCH", "-sDEVICE=png16m",
				fmt.Sprintf("-r%d", dpi),
				"-sOutputFile="+pngFile, pdfFile)
		},
		func() error {
			ppmBase := filepath.Join(dir, "page")
			if err := runTool(ctx, "pdftoppm", "-r", fmt.Sprint(dpi), pdfFile, ppmBase); err != nil {
				return err
			}
			return runTool(ctx, "convert", ppmBase+"-1.ppm", pngFile)
		},
	}
	for _, convertPDF := range converters {
		if err := convertPDF(); err == nil {
			return os.ReadFile(pngFile)
		}
	}
	return nil, errors.New(errors.ErrCodeToolMissing,
		"PNG conversion requires ImageMagick, Ghostscript or Poppler. Install one:\n  macOS:  brew install imagemagick ghostscript poppler\n  Linux:  apt install imagemagick ghostscript poppler-utils")
}

// runTool executes an external converter, treating a missing binary
// the same as a failed run so the caller can fall through to the next
// converter.
func runTool(ctx context.Context, name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %v: %s", name, err, errBuf.String())
	}
	return nil
}

// lastLines returns at most n trailing lines of s, for compact error
// reporting of verbose tool output.
func lastLines(s string, n int) string {
	lines := bytes.Split(bytes.TrimSpace([]byte(s)), []byte("\n"))
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return string(bytes.Join(lines, []byte("\n")))
}
