package engine

import (
	"log/slog"
	"slices"

	"github.com/timeglimpse/timeglimpse/internal/document"
)

// Options configure an Engine.
type Options struct {
	Defaults   Defaults
	PickRadius float64 // pixels
}

func DefaultOptions() Options {
	return Options{Defaults: DefaultStyle(), PickRadius: DefaultPickRadius}
}

// Engine draws one timeline row and tracks the sample under the pointer.
// It owns the row's vertex buffer and hover state. Like the model it reads,
// it is driven from a single goroutine.
type Engine struct {
	model *document.Model
	rowID string
	opts  Options

	// Current pixel/axis mapping
	view View

	// Vertex buffer reused across frames
	xys Float32Buffer

	// Hover state (engine owns this)
	selection SelectionState

	// Redraw requests coalesce until the next Render
	redraw        func()
	redrawPending bool

	unsubscribe func()
}

// NewEngine creates an engine for rowID and subscribes it to model changes.
func NewEngine(model *document.Model, rowID string, opts Options) *Engine {
	if opts.PickRadius <= 0 {
		opts.PickRadius = DefaultPickRadius
	}
	e := &Engine{
		model: model,
		rowID: rowID,
		opts:  opts,
	}
	e.unsubscribe = model.Subscribe(e.handleEvent)
	return e
}

// Close detaches the engine from the model.
func (e *Engine) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// --- Commands ---

// SetRedrawFunc sets the callback invoked when visible geometry changes.
func (e *Engine) SetRedrawFunc(fn func()) {
	e.redraw = fn
}

// SetView updates the viewport and axes.
func (e *Engine) SetView(v View) {
	if e.view != v {
		e.view = v
		e.requestRedraw()
	}
}

// PointerMove picks the sample nearest to a pointer at pane pixel (x, y)
// and stores it as the hover selection. A pointer whose time cannot be
// resolved clears the selection.
func (e *Engine) PointerMove(x, y float64) (Selection, bool) {
	row, ok := e.model.Row(e.rowID)
	if !ok {
		e.setSelection(Selection{}, false)
		return Selection{}, false
	}

	q, ok := e.view.PickQuery(x, y, e.opts.PickRadius)
	if !ok {
		e.setSelection(Selection{}, false)
		return Selection{}, false
	}

	sel, found := LocateNearest(e.model, row, q)
	e.setSelection(sel, found)
	return sel, found
}

// PointerExit clears the hover selection.
func (e *Engine) PointerExit() {
	e.setSelection(Selection{}, false)
}

func (e *Engine) setSelection(sel Selection, ok bool) {
	if e.selection.Set(sel, ok) {
		e.requestRedraw()
	}
}

// --- Queries ---

// Selection returns the current hover selection, re-resolved against the
// model.
func (e *Engine) Selection() (Selection, bool) {
	_, sel, ok := e.selection.Resolve(e.model)
	return sel, ok
}

// View returns the current viewport and axes.
func (e *Engine) View() View {
	return e.view
}

// RedrawPending reports whether a redraw was requested since the last Render.
func (e *Engine) RedrawPending() bool {
	return e.redrawPending
}

// Render regenerates every series of the row from current model state and
// issues the draw calls to p, in row order, each series followed by its
// hover marker if it owns the selection.
func (e *Engine) Render(p Pipeline) {
	e.redrawPending = false

	row, ok := e.model.Row(e.rowID)
	if !ok {
		return
	}
	vppx, vppy, scalesOK := e.view.PixelScales()
	timeToX := e.view.Time.VAtTime

	for _, tsID := range row.Timeseries {
		ts, ok := e.model.Timeseries(tsID)
		if !ok {
			slog.Debug("skipping unresolved timeseries", "timeseries", tsID, "row", e.rowID)
			continue
		}
		style := e.opts.Defaults.Resolve(ts)

		frags := OrderFragments(e.model, ts.Fragments)
		geom := BuildGeometry(&e.xys, ts.Style, frags, style.Baseline, timeToX)
		if geom.Count > 0 {
			for _, cmd := range seriesCommands(ts.ID, style, geom) {
				p.Draw(cmd)
			}
		}

		if !scalesOK {
			continue
		}
		f, sel, ok := e.selection.Resolve(e.model)
		if !ok || !ts.HasFragment(sel.FragmentID) {
			continue
		}
		hl, ok := BuildHighlight(&e.xys, style, f, sel, timeToX, vppx, vppy)
		if !ok {
			continue
		}
		p.Draw(DrawCommand{
			SeriesID:  ts.ID,
			Topology:  hl.Topology,
			Coords:    hl.Coords,
			Count:     hl.Count,
			Color:     FormatColor(style.HighlightColor(e.opts.Defaults.Darken)),
			LineWidth: 1,
			Highlight: true,
		})
	}
}

// seriesCommands turns one series' geometry into its draw passes.
func seriesCommands(seriesID string, style ResolvedStyle, g Geometry) []DrawCommand {
	cmd := DrawCommand{
		SeriesID: seriesID,
		Topology: g.Topology,
		Coords:   g.Coords,
		Count:    g.Count,
		Color:    FormatColor(style.LineColor),
	}
	switch g.Topology {
	case TopologyLineStrip:
		cmd.LineWidth = style.LineThickness
	case TopologyPoints:
		cmd.Color = FormatColor(style.PointColor)
		cmd.PointSize = style.PointSize
	}

	cmds := []DrawCommand{cmd}
	if g.PointPass {
		points := cmd
		points.Topology = TopologyPoints
		points.Color = FormatColor(style.PointColor)
		points.LineWidth = 0
		points.PointSize = style.PointSize
		cmds = append(cmds, points)
	}
	return cmds
}

// RenderCommands renders into a Recorder and returns the recorded commands.
func (e *Engine) RenderCommands() []DrawCommand {
	var rec Recorder
	e.Render(&rec)
	return rec.Commands
}

// Frame renders the row together with its axis transform.
func (e *Engine) Frame() Frame {
	cmds := e.RenderCommands()
	if cmds == nil {
		cmds = []DrawCommand{}
	}
	return Frame{Transform: OrthoAxis(e.view).ToSlice(), Commands: cmds}
}

// --- Model notifications ---

func (e *Engine) handleEvent(ev document.Event) {
	if ev.Kind == document.EventRemoved && ev.FragmentID != "" {
		if sel, ok := e.selection.Current(); ok && sel.FragmentID == ev.FragmentID {
			e.selection.Clear()
			e.requestRedraw()
			return
		}
	}
	if e.affects(ev) {
		e.requestRedraw()
	}
}

// affects reports whether ev touches this row or one of its series.
func (e *Engine) affects(ev document.Event) bool {
	if ev.RowID != "" {
		return ev.RowID == e.rowID
	}
	row, ok := e.model.Row(e.rowID)
	if !ok {
		return false
	}
	return slices.Contains(row.Timeseries, ev.TimeseriesID)
}

func (e *Engine) requestRedraw() {
	if e.redrawPending {
		return
	}
	e.redrawPending = true
	if e.redraw != nil {
		e.redraw()
	}
}
