package engine

import (
	"fmt"

	"github.com/timeglimpse/timeglimpse/internal/document"
)

// Topology is the primitive assembly used to draw a coordinate buffer.
type Topology int

const (
	TopologyLineStrip Topology = iota
	TopologyPoints
	TopologyTriangles
	TopologyTriangleStrip
	TopologyLineLoop
)

var topologyNames = [...]string{
	TopologyLineStrip:     "line-strip",
	TopologyPoints:        "points",
	TopologyTriangles:     "triangles",
	TopologyTriangleStrip: "triangle-strip",
	TopologyLineLoop:      "line-loop",
}

func (t Topology) String() string {
	if t >= 0 && int(t) < len(topologyNames) {
		return topologyNames[t]
	}
	return fmt.Sprintf("Topology(%d)", int(t))
}

func (t Topology) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Geometry is a flat (x, y) coordinate buffer ready for upload.
type Geometry struct {
	// Coords is the valid prefix of the builder's buffer. It is only valid
	// until the next build into the same buffer.
	Coords   []float32
	Count    int
	Topology Topology
	// PointPass is set when the same coords are drawn a second time as points.
	PointPass bool
}

// BuildGeometry lays out the ordered fragments of one series for its style.
// timeToX maps a sample time to the horizontal axis; values are already in
// axis space. buf is reused across calls; nil allocates a fresh one.
func BuildGeometry(buf *Float32Buffer, style document.Style, frags []*document.Fragment, baseline float64, timeToX func(float64) float64) Geometry {
	if buf == nil {
		buf = &Float32Buffer{}
	}

	total := 0
	for _, f := range frags {
		total += f.Len()
	}

	var g Geometry
	switch style.Effective() {
	case document.StyleLines, document.StyleLinesAndPoints:
		g = buildStrip(buf, frags, total, timeToX)
		g.Topology = TopologyLineStrip
		g.PointPass = style == document.StyleLinesAndPoints
	case document.StylePoints:
		g = buildStrip(buf, frags, total, timeToX)
		g.Topology = TopologyPoints
	case document.StyleBars:
		g = buildBars(buf, frags, baseline, timeToX)
		g.Topology = TopologyTriangles
	case document.StyleArea:
		g = buildArea(buf, frags, total, baseline, timeToX)
		g.Topology = TopologyTriangleStrip
	default:
		panic(fmt.Sprintf("engine: unhandled style %v", style))
	}
	return g
}

// buildStrip emits one (x, y) pair per sample across all fragments. Gaps
// between fragments are not broken: a line strip connects them.
func buildStrip(buf *Float32Buffer, frags []*document.Fragment, total int, timeToX func(float64) float64) Geometry {
	xys := buf.Reserve(2 * total)
	i := 0
	for _, f := range frags {
		for k, t := range f.Times {
			xys[i] = float32(timeToX(t))
			xys[i+1] = float32(f.Data[k])
			i += 2
		}
	}
	buf.SetLen(i)
	return Geometry{Coords: buf.Floats(), Count: i / 2}
}

// buildBars emits two triangles per consecutive sample pair within each
// fragment. The bar height comes from the left sample; the last sample of a
// fragment only marks the right edge of the previous bar.
func buildBars(buf *Float32Buffer, frags []*document.Fragment, baseline float64, timeToX func(float64) float64) Geometry {
	quads := 0
	for _, f := range frags {
		if n := f.Len(); n >= 2 {
			quads += n - 1
		}
	}

	xys := buf.Reserve(12 * quads)
	b := float32(baseline)
	i := 0
	for _, f := range frags {
		for k := 0; k+1 < f.Len(); k++ {
			x1 := float32(timeToX(f.Times[k]))
			x2 := float32(timeToX(f.Times[k+1]))
			y := float32(f.Data[k])
			i = putQuad(xys, i, x1, x2, y, b)
		}
	}
	buf.SetLen(i)
	return Geometry{Coords: buf.Floats(), Count: i / 2}
}

func putQuad(xys []float32, i int, xLeft, xRight, yTop, yBottom float32) int {
	xys[i+0], xys[i+1] = xLeft, yTop
	xys[i+2], xys[i+3] = xRight, yTop
	xys[i+4], xys[i+5] = xLeft, yBottom

	xys[i+6], xys[i+7] = xLeft, yBottom
	xys[i+8], xys[i+9] = xRight, yTop
	xys[i+10], xys[i+11] = xRight, yBottom
	return i + 12
}

// buildArea emits (t, baseline) and (t, value) for each sample, to be drawn
// as a triangle strip. Like lines, the fill continues across fragment gaps.
func buildArea(buf *Float32Buffer, frags []*document.Fragment, total int, baseline float64, timeToX func(float64) float64) Geometry {
	xys := buf.Reserve(4 * total)
	b := float32(baseline)
	i := 0
	for _, f := range frags {
		for k, t := range f.Times {
			x := float32(timeToX(t))
			xys[i+0], xys[i+1] = x, b
			xys[i+2], xys[i+3] = x, float32(f.Data[k])
			i += 4
		}
	}
	buf.SetLen(i)
	return Geometry{Coords: buf.Floats(), Count: i / 2}
}
