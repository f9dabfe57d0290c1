package engine

import (
	"fmt"

	"github.com/timeglimpse/timeglimpse/internal/document"
)

// BuildHighlight lays out the hover marker for a selected sample as a
// line loop. Bars outline the whole bar cell, which needs a following
// sample; every other style gets a square of the series point size around
// the sample.
func BuildHighlight(buf *Float32Buffer, style ResolvedStyle, f *document.Fragment, sel Selection, timeToX func(float64) float64, vppx, vppy float64) (Geometry, bool) {
	if buf == nil {
		buf = &Float32Buffer{}
	}

	switch style.Style.Effective() {
	case document.StyleBars:
		index := sel.Index
		if index < 0 || index+1 >= f.Len() {
			return Geometry{}, false
		}
		x1 := float32(timeToX(f.Times[index]))
		x2 := float32(timeToX(f.Times[index+1]))
		y := float32(f.Data[index])
		b := float32(style.Baseline)

		xys := buf.Reserve(8)
		xys[0], xys[1] = x1, y
		xys[2], xys[3] = x2, y
		xys[4], xys[5] = x2, b
		xys[6], xys[7] = x1, b
		buf.SetLen(8)

	case document.StyleLines, document.StylePoints, document.StyleLinesAndPoints, document.StyleArea:
		halfX := (style.PointSize / 2) * vppx
		halfY := (style.PointSize / 2) * vppy
		x := timeToX(sel.Time)
		y := sel.Value

		xys := buf.Reserve(8)
		xys[0], xys[1] = float32(x-halfX), float32(y-halfY)
		xys[2], xys[3] = float32(x+halfX), float32(y-halfY)
		xys[4], xys[5] = float32(x+halfX), float32(y+halfY)
		xys[6], xys[7] = float32(x-halfX), float32(y+halfY)
		buf.SetLen(8)

	default:
		panic(fmt.Sprintf("engine: unhandled style %v", style.Style))
	}

	return Geometry{Coords: buf.Floats(), Count: 4, Topology: TopologyLineLoop}, true
}
