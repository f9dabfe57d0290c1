package engine

import (
	"log/slog"
	"math"
	"sort"

	"github.com/timeglimpse/timeglimpse/internal/document"
)

// DefaultPickRadius is the maximum on-screen distance, in pixels, between
// the pointer and a line or point sample for the sample to be picked.
const DefaultPickRadius = 25

// PickQuery is a pointer position in axis space plus the per-axis pixel
// scales current at the time of the event.
type PickQuery struct {
	EventTime  float64
	EventValue float64
	// VppX and VppY are axis units per pixel.
	VppX     float64
	VppY     float64
	RadiusPx float64
}

// LocateNearest scans every series of the row and returns the sample
// closest to the pointer. Bars pick the sample at or before the pointer
// time and accept any distance; other styles pick the nearest sample in
// time and accept it only within the pick radius. On equal distances the
// first candidate scanned wins.
func LocateNearest(res Resolver, row *document.Row, q PickQuery) (Selection, bool) {
	pickTime := q.RadiusPx * q.VppX

	var (
		best      Selection
		bestDist  float64
		bestFound bool
	)
	for _, tsID := range row.Timeseries {
		ts, ok := res.Timeseries(tsID)
		if !ok {
			slog.Debug("skipping unresolved timeseries", "timeseries", tsID)
			continue
		}
		bars := ts.Style == document.StyleBars

		for _, fragID := range ts.Fragments {
			f, ok := res.Fragment(fragID)
			if !ok {
				continue
			}
			if q.EventTime < f.Start-pickTime || q.EventTime > f.End+pickTime {
				continue
			}

			var index int
			if bars {
				index = indexAtOrBefore(f.Times, q.EventTime)
			} else {
				index = indexNearest(f.Times, q.EventTime)
			}
			if index < 0 {
				continue
			}

			t, v := f.Times[index], f.Data[index]
			dx := (t - q.EventTime) / q.VppX
			dy := (v - q.EventValue) / q.VppY
			d := math.Sqrt(dx*dx + dy*dy)

			if !bars && !(d < q.RadiusPx) {
				continue
			}
			if !bestFound || d < bestDist {
				best = Selection{FragmentID: f.ID, Index: index, Time: t, Value: v}
				bestDist = d
				bestFound = true
			}
		}
	}
	return best, bestFound
}

// indexNearest returns the index of the time closest to t, preferring the
// lower index on ties, or -1 for no times.
func indexNearest(times []float64, t float64) int {
	n := len(times)
	if n == 0 {
		return -1
	}
	i := sort.SearchFloat64s(times, t)
	switch {
	case i == 0:
		return 0
	case i == n:
		return n - 1
	case t-times[i-1] <= times[i]-t:
		return i - 1
	default:
		return i
	}
}

// indexAtOrBefore returns the largest index whose time is <= t, or -1 when
// t precedes every time.
func indexAtOrBefore(times []float64, t float64) int {
	return sort.Search(len(times), func(i int) bool { return times[i] > t }) - 1
}
