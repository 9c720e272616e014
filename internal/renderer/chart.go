// Package renderer draws bar charts from already-computed aggregates.
// It holds no business logic: keys and counts arrive ready to plot.
package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"storescan/internal/errors"
	"storescan/pkg/contracts/domain"
)

const (
	defaultWidth  = 900
	defaultHeight = 480

	marginTop    = 48
	marginBottom = 36
	marginRight  = 24

	// basicfont.Face7x13 is ~7 pixels wide per char
	charWidth  = 7
	lineHeight = 13
)

var (
	backgroundColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
	barColor        = color.RGBA{0x2e, 0x6e, 0x8e, 0xff}
	axisColor       = color.RGBA{0x60, 0x60, 0x60, 0xff}
	textColor       = color.RGBA{0x20, 0x20, 0x20, 0xff}
)

// ChartOptions configures one bar chart.
type ChartOptions struct {
	Title      string
	Horizontal bool
	Width      int
	Height     int
}

// Renderer writes PNG charts into a target directory.
type Renderer struct {
	logger *slog.Logger
	dir    string
}

// NewRenderer creates a new chart renderer
func NewRenderer(logger *slog.Logger, dir string) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger, dir: dir}
}

// BarChart renders the given aggregates as a bar chart PNG and returns the
// written path. An empty stats list is a valid outcome: nothing is drawn
// and the returned path is empty.
func (r *Renderer) BarChart(ctx context.Context, filename string, stats []domain.AggregateStats, opts ChartOptions) (string, error) {
	if len(stats) == 0 {
		r.logger.InfoContext(ctx, "no data to chart, skipping",
			slog.String("filename", filename))
		return "", nil
	}

	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	height := opts.Height
	if height <= 0 {
		height = defaultHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	if opts.Title != "" {
		drawString(img, (width-len(opts.Title)*charWidth)/2, marginTop/2+lineHeight/2, opts.Title, textColor)
	}

	if opts.Horizontal {
		r.drawHorizontalBars(img, stats, width, height)
	} else {
		r.drawVerticalBars(img, stats, width, height)
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", errors.NewRenderError("failed to create charts directory", err).WithContext("directory", r.dir)
	}
	path := filepath.Join(r.dir, filename)
	file, err := os.Create(path)
	if err != nil {
		return "", errors.NewRenderError("failed to create chart file", err).WithContext("path", path)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", errors.NewRenderError("failed to encode chart PNG", err).WithContext("path", path)
	}

	r.logger.InfoContext(ctx, "chart written",
		slog.String("path", path),
		slog.Int("bars", len(stats)))
	return path, nil
}

func (r *Renderer) drawVerticalBars(img *image.RGBA, stats []domain.AggregateStats, width, height int) {
	marginLeft := 40
	plotW := width - marginLeft - marginRight
	plotH := height - marginTop - marginBottom
	maxCount := stats[0].Count
	for _, s := range stats {
		if s.Count > maxCount {
			maxCount = s.Count
		}
	}

	slot := plotW / len(stats)
	barW := slot * 7 / 10
	baseline := height - marginBottom

	fillRect(img, marginLeft, baseline, width-marginRight, baseline+1, axisColor)

	for i, s := range stats {
		barH := s.Count * plotH / maxCount
		x0 := marginLeft + i*slot + (slot-barW)/2
		fillRect(img, x0, baseline-barH, x0+barW, baseline, barColor)

		value := fmt.Sprintf("%d", s.Count)
		drawString(img, x0+(barW-len(value)*charWidth)/2, baseline-barH-4, value, textColor)

		label := truncateLabel(s.Key, slot/charWidth)
		drawString(img, x0+(barW-len(label)*charWidth)/2, baseline+lineHeight+2, label, textColor)
	}
}

func (r *Renderer) drawHorizontalBars(img *image.RGBA, stats []domain.AggregateStats, width, height int) {
	marginLeft := 150
	plotW := width - marginLeft - marginRight - 60
	plotH := height - marginTop - marginBottom
	maxCount := stats[0].Count
	for _, s := range stats {
		if s.Count > maxCount {
			maxCount = s.Count
		}
	}

	slot := plotH / len(stats)
	barH := slot * 7 / 10

	fillRect(img, marginLeft, marginTop, marginLeft+1, height-marginBottom, axisColor)

	for i, s := range stats {
		barW := s.Count * plotW / maxCount
		y0 := marginTop + i*slot + (slot-barH)/2
		fillRect(img, marginLeft, y0, marginLeft+barW, y0+barH, barColor)

		label := truncateLabel(s.Key, (marginLeft-10)/charWidth)
		drawString(img, marginLeft-8-len(label)*charWidth, y0+barH/2+lineHeight/2-2, label, textColor)

		value := fmt.Sprintf("%d", s.Count)
		drawString(img, marginLeft+barW+6, y0+barH/2+lineHeight/2-2, value, textColor)
	}
}

// fillRect fills the rectangle [x0,y0)..(x1,y1) clamped to image bounds.
func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	bounds := img.Bounds()
	if x0 < bounds.Min.X {
		x0 = bounds.Min.X
	}
	if y0 < bounds.Min.Y {
		y0 = bounds.Min.Y
	}
	if x1 > bounds.Max.X {
		x1 = bounds.Max.X
	}
	if y1 > bounds.Max.Y {
		y1 = bounds.Max.Y
	}
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			img.Set(px, py, c)
		}
	}
}

// drawString draws a string on an image at the given baseline position
func drawString(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(x),
			Y: fixed.I(y),
		},
	}
	d.DrawString(text)
}

// truncateLabel shortens a label to maxChars runes, never splitting a
// multi-byte character.
func truncateLabel(s string, maxChars int) string {
	if maxChars < 4 {
		maxChars = 4
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars-3]) + "..."
}
