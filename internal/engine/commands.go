package engine

import "slices"

// DrawCommand is a single draw call for the render pipeline: a flat (x, y)
// buffer in axis space, how many vertices to draw, and how.
type DrawCommand struct {
	SeriesID  string    `json:"seriesId,omitempty"`  // For hover correlation
	Topology  Topology  `json:"topology"`            // Primitive assembly
	Coords    []float32 `json:"coords"`              // x0, y0, x1, y1, ...
	Count     int       `json:"count"`               // Vertex count
	Color     string    `json:"color"`               // #rrggbbaa
	LineWidth float64   `json:"lineWidth,omitempty"` // Line topologies only
	PointSize float64   `json:"pointSize,omitempty"` // Point topology only
	Highlight bool      `json:"highlight,omitempty"` // Hover marker
}

// Frame is one rendered row: the axis-to-clip transform shared by every
// command, and the commands in draw order.
type Frame struct {
	Transform []float64     `json:"transform"`
	Commands  []DrawCommand `json:"commands"`
}

// Pipeline issues draw calls. Coords passed to Draw alias the engine's
// vertex buffer and are only valid for the duration of the call.
type Pipeline interface {
	Draw(cmd DrawCommand)
}

// Recorder is a Pipeline that keeps a copy of every command, for callers
// that serialize a frame instead of drawing it.
type Recorder struct {
	Commands []DrawCommand
}

func (r *Recorder) Draw(cmd DrawCommand) {
	cmd.Coords = slices.Clone(cmd.Coords)
	r.Commands = append(r.Commands, cmd)
}
