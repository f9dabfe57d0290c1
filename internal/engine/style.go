package engine

import (
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/timeglimpse/timeglimpse/internal/document"
)

// Defaults are the renderer-wide style values a series falls back to when
// it leaves an attribute unset.
type Defaults struct {
	Color     drawing.Color
	Thickness float64
	PointSize float64
	// Darken scales the RGB channels of the highlight outline color.
	Darken float64
}

func DefaultStyle() Defaults {
	return Defaults{
		Color:     drawing.ColorWhite,
		Thickness: 1,
		PointSize: 5,
		Darken:    0.8,
	}
}

// ResolvedStyle is a series' style with every attribute filled in.
type ResolvedStyle struct {
	Style         document.Style
	LineColor     drawing.Color
	LineThickness float64
	PointColor    drawing.Color
	PointSize     float64
	Baseline      float64
}

// Resolve merges the series attributes over d. A set attribute always wins;
// an unset one takes the default. Unset style resolves to lines.
func (d Defaults) Resolve(ts *document.Timeseries) ResolvedStyle {
	rs := ResolvedStyle{
		Style:         ts.Style.Effective(),
		LineColor:     d.Color,
		LineThickness: d.Thickness,
		PointColor:    d.Color,
		PointSize:     d.PointSize,
	}
	if ts.LineColor != nil {
		rs.LineColor = ParseColor(*ts.LineColor)
	}
	if ts.LineThickness != nil {
		rs.LineThickness = *ts.LineThickness
	}
	if ts.PointColor != nil {
		rs.PointColor = ParseColor(*ts.PointColor)
	}
	if ts.PointSize != nil {
		rs.PointSize = *ts.PointSize
	}
	if ts.Baseline != nil {
		rs.Baseline = *ts.Baseline
	}
	return rs
}

// HighlightColor is the outline color of the hover marker: the line color
// for bars, the point color otherwise, darkened by factor.
func (rs ResolvedStyle) HighlightColor(factor float64) drawing.Color {
	if rs.Style == document.StyleBars {
		return Darker(rs.LineColor, factor)
	}
	return Darker(rs.PointColor, factor)
}

// ParseColor reads a css hex color (#rgb, #rrggbb, #rrggbbaa).
func ParseColor(s string) drawing.Color {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 8 {
		c := drawing.ColorFromHex(hex[:6])
		var a uint8
		fmt.Sscanf(hex[6:], "%02x", &a)
		c.A = a
		return c
	}
	return drawing.ColorFromHex(hex)
}

// FormatColor writes c as #rrggbbaa.
func FormatColor(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Darker scales the RGB channels of c by factor and keeps alpha.
func Darker(c drawing.Color, factor float64) drawing.Color {
	scale := func(v uint8) uint8 {
		s := float64(v) * factor
		switch {
		case s <= 0:
			return 0
		case s >= 255:
			return 255
		}
		return uint8(s + 0.5)
	}
	return drawing.Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}
