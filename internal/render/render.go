// Package render draws the county motor-voter charts as PNG images and,
// optionally, interactive HTML pages.
package render

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/omv.report/internal/fsutil"
	"github.com/banshee-data/omv.report/internal/voter"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when there are no counties to draw.
var ErrNoData = errors.New("no county data to render")

// Output formats.
const (
	FormatPNG  = "png"
	FormatHTML = "html"
)

// Chart base names, without extension.
const (
	ShareChart = "motor_voter_share"
	SizeChart  = "county_size"
)

// Options controls rendering.
type Options struct {
	OutputDir string
	Formats   []string
	// Width and Height are the PNG sizes in inches. Chart A grows with the
	// county count when Height is too small to fit every row.
	Width  float64
	Height float64
	// AssetsHost is where the HTML pages load echarts from. Empty uses the
	// go-echarts default CDN.
	AssetsHost string
	Subtitle   string
}

// Renderer writes charts through a FileSystem.
type Renderer struct {
	fs   fsutil.FileSystem
	opts Options
}

// NewRenderer returns a Renderer. A nil fs writes to disk.
func NewRenderer(fs fsutil.FileSystem, opts Options) *Renderer {
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{FormatPNG}
	}
	if opts.Width <= 0 {
		opts.Width = 8
	}
	if opts.Height <= 0 {
		opts.Height = 6
	}
	return &Renderer{fs: fs, opts: opts}
}

type chartFile struct {
	name string
	data []byte
}

// Render draws both charts in every configured format and returns the paths
// written. All charts are drawn before any file is written, so a drawing
// failure leaves the output directory untouched. If a write fails, the charts
// already written by this call are removed again.
func (r *Renderer) Render(counties []voter.CountySummary, categories []voter.PartyCategory) ([]string, error) {
	if len(counties) == 0 {
		return nil, ErrNoData
	}

	var files []chartFile
	for _, format := range r.opts.Formats {
		switch format {
		case FormatPNG:
			share, err := r.sharePNG(counties, categories)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", ShareChart, err)
			}
			size, err := r.sizePNG(counties)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", SizeChart, err)
			}
			files = append(files,
				chartFile{ShareChart + ".png", share},
				chartFile{SizeChart + ".png", size})
		case FormatHTML:
			share, err := shareHTML(counties, categories, r.opts)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", ShareChart, err)
			}
			size, err := sizeHTML(counties, r.opts)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", SizeChart, err)
			}
			files = append(files,
				chartFile{ShareChart + ".html", share},
				chartFile{SizeChart + ".html", size})
		default:
			return nil, fmt.Errorf("unknown output format %q", format)
		}
	}

	if err := r.fs.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(r.opts.OutputDir, f.name)
		data := f.data
		err := fsutil.WriteAtomic(r.fs, path, func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})
		if err != nil {
			for _, done := range paths {
				r.fs.Remove(done)
			}
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (r *Renderer) sharePNG(counties []voter.CountySummary, categories []voter.PartyCategory) ([]byte, error) {
	p, minHeight, err := sharePlot(counties, categories, r.opts.Subtitle)
	if err != nil {
		return nil, err
	}
	h := vg.Length(r.opts.Height) * vg.Inch
	if h < minHeight {
		h = minHeight
	}
	return encodePNG(p, vg.Length(r.opts.Width)*vg.Inch, h)
}

func (r *Renderer) sizePNG(counties []voter.CountySummary) ([]byte, error) {
	p, err := sizePlot(counties, r.opts.Subtitle)
	if err != nil {
		return nil, err
	}
	return encodePNG(p, vg.Length(r.opts.Width)*vg.Inch, vg.Length(r.opts.Height)*vg.Inch)
}
