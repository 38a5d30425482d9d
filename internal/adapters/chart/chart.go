// Package chart draws possession reports as PNG images: a two row timeline
// of held intervals above a proportion bar.
package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/okian/possession/internal/adapters/report"
	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/internal/domain/types"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Title is drawn above every chart.
const Title = "Statistics of possessions of the ball by teams"

// Smallest canvas Draw accepts.
const (
	MinWidth  = 240
	MinHeight = 200
)

const (
	marginLeft   = 70
	marginRight  = 20
	titleHeight  = 40
	axisHeight   = 30
	shareHeight  = 70
	shareBarSize = 18
	tickLength   = 5
)

var (
	colorA      = color.RGBA{R: 0, G: 191, B: 255, A: 255}
	colorB      = color.RGBA{R: 255, G: 0, B: 128, A: 255}
	colorEmpty  = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	colorAxis   = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	colorGrid   = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	colorBorder = color.RGBA{R: 180, G: 180, B: 180, A: 255}
)

// Option configures Render.
type Option func(*options)

type options struct {
	width       int
	height      int
	tickSeconds int
	labels      types.Labels
}

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithTickSeconds sets the spacing of x axis ticks.
func WithTickSeconds(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.tickSeconds = n
		}
	}
}

// WithLabels sets the row and legend labels.
func WithLabels(l types.Labels) Option {
	return func(o *options) {
		o.labels = l
	}
}

// Render draws r and writes it to w as PNG.
func Render(w io.Writer, r model.Report, opts ...Option) error {
	img, err := Draw(r, opts...)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Draw returns the chart of r as an image.
func Draw(r model.Report, opts ...Option) (*image.RGBA, error) {
	o := options{
		width:       1200,
		height:      360,
		tickSeconds: 30,
		labels:      types.DefaultLabels(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.width < MinWidth || o.height < MinHeight {
		return nil, fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrInvalidSize, o.width, o.height, MinWidth, MinHeight)
	}

	img := image.NewRGBA(image.Rect(0, 0, o.width, o.height))
	fill(img, img.Bounds(), color.White)

	c := canvas{img: img, opts: o, seconds: max(len(r.Timeline), 1)}
	c.plot = image.Rect(marginLeft, titleHeight, o.width-marginRight, o.height-shareHeight-axisHeight)

	c.text(centered(Title, o.width/2), 22, colorAxis, Title)
	c.timeline(r)
	c.axis()
	c.shares(report.Shares(r, o.labels))

	return img, nil
}

type canvas struct {
	img     *image.RGBA
	opts    options
	plot    image.Rectangle
	seconds int
}

// x maps a second to a horizontal pixel inside the plot.
func (c canvas) x(second int) int {
	return c.plot.Min.X + second*c.plot.Dx()/c.seconds
}

func (c canvas) row(i int) image.Rectangle {
	h := c.plot.Dy() / 2
	pad := h / 6
	top := c.plot.Min.Y + i*h
	return image.Rect(c.plot.Min.X, top+pad, c.plot.Max.X, top+h-pad)
}

func (c canvas) timeline(r model.Report) {
	rows := []struct {
		summary model.Summary
		label   string
		color   color.Color
	}{
		{r.A, c.opts.labels.A, colorA},
		{r.B, c.opts.labels.B, colorB},
	}

	for s := 0; s <= c.seconds; s += c.opts.tickSeconds {
		fill(c.img, image.Rect(c.x(s), c.plot.Min.Y, c.x(s)+1, c.plot.Max.Y), colorGrid)
	}

	for i, row := range rows {
		band := c.row(i)
		c.text(marginLeft-8-width(row.label), (band.Min.Y+band.Max.Y)/2+4, colorAxis, row.label)
		for _, iv := range row.summary.Intervals {
			// Finish is exclusive; keep one pixel so single seconds stay visible.
			x0, x1 := c.x(iv.Start), c.x(iv.End+1)
			if x1 <= x0 {
				x1 = x0 + 1
			}
			fill(c.img, image.Rect(x0, band.Min.Y, x1, band.Max.Y), row.color)
		}
	}
}

func (c canvas) axis() {
	y := c.plot.Max.Y
	fill(c.img, image.Rect(c.plot.Min.X, y, c.plot.Max.X+1, y+1), colorAxis)
	for s := 0; s <= c.seconds; s += c.opts.tickSeconds {
		x := c.x(s)
		fill(c.img, image.Rect(x, y, x+1, y+tickLength), colorAxis)
		label := fmt.Sprintf("%d", s)
		c.text(centered(label, x), y+tickLength+13, colorAxis, label)
	}
}

func (c canvas) shares(shares []types.Share) {
	top := c.opts.height - shareHeight + 20
	bar := image.Rect(c.plot.Min.X, top, c.plot.Max.X, top+shareBarSize)

	a, b := shares[0], shares[1]
	if a.Seconds+b.Seconds == 0 {
		fill(c.img, bar, colorEmpty)
	} else {
		split := bar.Min.X + int(a.Share*float64(bar.Dx())+0.5)
		fill(c.img, image.Rect(bar.Min.X, bar.Min.Y, split, bar.Max.Y), colorA)
		fill(c.img, image.Rect(split, bar.Min.Y, bar.Max.X, bar.Max.Y), colorB)
	}
	outline(c.img, bar, colorBorder)

	left := fmt.Sprintf("%s %.1f%%", a.Label, a.Share*100)
	right := fmt.Sprintf("%s %.1f%%", b.Label, b.Share*100)
	c.text(bar.Min.X, bar.Max.Y+16, colorA, left)
	c.text(bar.Max.X-width(right), bar.Max.Y+16, colorB, right)
}

func (c canvas) text(x, y int, col color.Color, s string) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func width(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

func centered(s string, x int) int {
	return x - width(s)/2
}

func fill(img draw.Image, r image.Rectangle, col color.Color) {
	draw.Draw(img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func outline(img draw.Image, r image.Rectangle, col color.Color) {
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), col)
	fill(img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), col)
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), col)
	fill(img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), col)
}
