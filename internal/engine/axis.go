package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/timeglimpse/timeglimpse/internal/document"
)

var ErrInvalidView = errors.New("invalid view")

// TimeAxis maps posix-millisecond times onto the horizontal axis. Axis
// values are times relative to Epoch, so they survive narrowing to float32
// for realistic absolute timestamps.
type TimeAxis struct {
	Epoch float64 `json:"epoch"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// VAtTime converts a time to an axis value.
func (a TimeAxis) VAtTime(t float64) float64 {
	return t - a.Epoch
}

// VSize is the visible time span in axis units (milliseconds).
func (a TimeAxis) VSize() float64 {
	return a.Max - a.Min
}

// TimeAtFrac returns the time at a fraction of the visible span. It fails
// for fractions outside [0, 1] and for an empty span.
func (a TimeAxis) TimeAtFrac(frac float64) (float64, bool) {
	if math.IsNaN(frac) || frac < 0 || frac > 1 || !(a.Max > a.Min) {
		return 0, false
	}
	return a.Min + frac*(a.Max-a.Min), true
}

// DataAxis is the vertical value axis of a row.
type DataAxis struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (a DataAxis) VSize() float64 {
	return a.Max - a.Min
}

func (a DataAxis) VAtFrac(frac float64) float64 {
	return a.Min + frac*(a.Max-a.Min)
}

// Viewport is the pixel size of the pane a row is drawn in.
type Viewport struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// View is everything needed to convert between pixel and axis space for
// one row at one moment.
type View struct {
	Viewport Viewport `json:"viewport"`
	Time     TimeAxis `json:"time"`
	Data     DataAxis `json:"data"`
}

// PixelScales returns axis units per pixel in x and y. The scales depend on
// the current viewport size and must be recomputed for every lookup.
func (v View) PixelScales() (vppx, vppy float64, ok bool) {
	if !(v.Viewport.W > 0) || !(v.Viewport.H > 0) {
		return 0, 0, false
	}
	vppx = v.Time.VSize() / v.Viewport.W
	vppy = v.Data.VSize() / v.Viewport.H
	if !(vppx > 0) || !(vppy > 0) {
		return 0, 0, false
	}
	return vppx, vppy, true
}

// PickQuery converts a pointer position in pane pixels (origin top-left)
// into an axis-space query. It fails when the pointer time cannot be
// resolved.
func (v View) PickQuery(x, y, radiusPx float64) (PickQuery, bool) {
	vppx, vppy, ok := v.PixelScales()
	if !ok {
		return PickQuery{}, false
	}
	t, ok := v.Time.TimeAtFrac(x / v.Viewport.W)
	if !ok {
		return PickQuery{}, false
	}
	return PickQuery{
		EventTime:  t,
		EventValue: v.Data.VAtFrac(1 - y/v.Viewport.H),
		VppX:       vppx,
		VppY:       vppy,
		RadiusPx:   radiusPx,
	}, true
}

// Validate rejects views whose numbers cannot be drawn: NaN or infinite
// fields, or an epoch or axis outside the range that survives narrowing to
// float32 after the epoch offset.
func (v View) Validate() error {
	for _, f := range []float64{v.Viewport.W, v.Viewport.H, v.Data.Min, v.Data.Max} {
		if !document.InRange(f, document.MaxValue) {
			return fmt.Errorf("%w: %v", ErrInvalidView, f)
		}
	}
	for _, f := range []float64{v.Time.Epoch, v.Time.Min, v.Time.Max} {
		if !document.InRange(f, document.MaxTime) {
			return fmt.Errorf("%w: time %v", ErrInvalidView, f)
		}
	}
	return nil
}
