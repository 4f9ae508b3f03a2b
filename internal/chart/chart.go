// Package chart lays out the cost comparison bars for SVG rendering.
package chart

import (
	"math"

	"github.com/artson-scm/scrapdecision/internal/comparison"
)

const (
	DefaultWidth  = 480
	DefaultHeight = 320

	marginTop    = 40
	marginBottom = 40
	marginSide   = 60
	labelOffset  = 6
)

// Rect is one positioned bar.
type Rect struct {
	Label      string
	Annotation string
	Color      string
	X          float64
	Y          float64
	Width      float64
	Height     float64
	LabelX     float64
	LabelY     float64
	ValueY     float64
	Negative   bool
}

// Layout is a fully positioned chart in SVG user units.
type Layout struct {
	Title     string
	YLabel    string
	Width     float64
	Height    float64
	BaselineY float64
	AxisLeft  float64
	AxisRight float64
	Bars      []Rect
}

// Annotator formats a bar value for its label.
type Annotator func(float64) string

// Build positions the bars of c inside a width x height viewport. The zero
// baseline sits between the highest and lowest value so negative totals
// are drawn below the axis.
func Build(c comparison.Chart, width, height float64, annotate Annotator) Layout {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	maxV, minV := 0.0, 0.0
	for _, b := range c.Bars {
		if !finite(b.Value) {
			continue
		}
		maxV = math.Max(maxV, b.Value)
		minV = math.Min(minV, b.Value)
	}
	span := maxV - minV
	plotHeight := height - marginTop - marginBottom
	scale := 0.0
	if span > 0 && finite(span) {
		scale = plotHeight / span
	}
	baseline := marginTop + maxV*scale

	l := Layout{
		Title:     c.Title,
		YLabel:    c.YLabel,
		Width:     width,
		Height:    height,
		BaselineY: baseline,
		AxisLeft:  marginSide,
		AxisRight: width - marginSide,
	}
	if len(c.Bars) == 0 {
		return l
	}

	slot := (width - 2*marginSide) / float64(len(c.Bars))
	barWidth := slot * 0.6
	for i, b := range c.Bars {
		h := 0.0
		if finite(b.Value) {
			h = math.Abs(b.Value) * scale
		}
		x := marginSide + float64(i)*slot + (slot-barWidth)/2
		r := Rect{
			Label:    b.Label,
			Color:    b.Color,
			X:        x,
			Width:    barWidth,
			Height:   h,
			LabelX:   x + barWidth/2,
			LabelY:   height - marginBottom/2,
			Negative: b.Value < 0,
		}
		if r.Negative {
			r.Y = baseline
			r.ValueY = baseline + h + 2*labelOffset
		} else {
			r.Y = baseline - h
			r.ValueY = r.Y - labelOffset
		}
		if annotate != nil {
			r.Annotation = annotate(b.Value)
		}
		l.Bars = append(l.Bars, r)
	}
	return l
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
