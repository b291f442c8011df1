// Package pdf exports rendered review plans as PDF files.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

type Orientation string

const (
	Portrait  Orientation = "P"
	Landscape Orientation = "L"
)

type settings struct {
	orientation Orientation
	paper       string
	theme       mdtopdf.Theme
}

type Option func(*settings)

// WithOrientation sets the page orientation. Wide plan tables read better in Landscape.
func WithOrientation(o Orientation) Option {
	return func(s *settings) { s.orientation = o }
}

// WithPaper sets the paper size, such as "A4" or "Letter".
func WithPaper(paper string) Option {
	return func(s *settings) { s.paper = paper }
}

func WithDarkTheme() Option {
	return func(s *settings) { s.theme = mdtopdf.DARK }
}

// WriteMarkdownPDF renders markdown into pdfPath and returns its absolute path.
// The parent directory is created when missing.
func WriteMarkdownPDF(markdown []byte, pdfPath string, opts ...Option) (string, error) {
	if !strings.HasSuffix(pdfPath, ".pdf") {
		return "", fmt.Errorf("output file must have .pdf extension: %s", pdfPath)
	}
	s := settings{orientation: Portrait, paper: "A4", theme: mdtopdf.LIGHT}
	for _, opt := range opts {
		opt(&s)
	}

	if dir := filepath.Dir(pdfPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}

	renderer := mdtopdf.NewPdfRenderer(string(s.orientation), s.paper, pdfPath, "", nil, s.theme)
	if err := renderer.Process(markdown); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}
