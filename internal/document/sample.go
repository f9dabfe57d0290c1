package document

import (
	"math"

	"github.com/timeglimpse/timeglimpse/internal/typeid"
)

func ptr[T any](v T) *T { return &v }

// NewSampleModel builds a single row holding one series of every style,
// starting at start (posix millis) and sampled every step millis.
func NewSampleModel(start, step float64) (*Model, string) {
	m := NewModel()
	rowID := typeid.NewRowID()
	m.AddRow(rowID)

	series := []struct {
		style Style
		attrs Attributes
		phase float64
	}{
		{StyleArea, Attributes{LineColor: ptr("#1f3b5c"), Baseline: ptr(0.0)}, 0},
		{StyleBars, Attributes{LineColor: ptr("#4a7a3c"), Baseline: ptr(0.0)}, 1.3},
		{StyleLines, Attributes{LineColor: ptr("#e0e0e0"), LineThickness: ptr(2.0)}, 2.1},
		{StyleLinesAndPoints, Attributes{LineColor: ptr("#d08030"), PointColor: ptr("#ffb060"), PointSize: ptr(6.0)}, 3.7},
	}

	const perFragment = 40
	for _, s := range series {
		tsID := typeid.NewTimeseriesID()
		m.AddTimeseries(tsID, s.style, s.attrs)

		// register the later fragment first: drawing must not depend on
		// insertion order
		for _, frag := range []int{1, 0} {
			f := &Fragment{ID: typeid.NewFragmentID()}
			first := start + float64(frag*perFragment)*step
			for k := 0; k < perFragment; k++ {
				t := first + float64(k)*step
				f.Times = append(f.Times, t)
				f.Data = append(f.Data, 50+40*math.Sin(s.phase+float64(frag*perFragment+k)/7))
			}
			f.Start = f.Times[0]
			f.End = f.Times[len(f.Times)-1]
			m.AddFragment(tsID, f)
		}
		m.AddToRow(rowID, tsID, -1)
	}
	return m, rowID
}
