package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeglimpse/timeglimpse/internal/document"
)

func identity(t float64) float64 { return t }

func newFrag(id string, times, data []float64) *document.Fragment {
	f := &document.Fragment{ID: id, Times: times, Data: data}
	if len(times) > 0 {
		f.Start, f.End = times[0], times[len(times)-1]
	}
	return f
}

func TestSortFragmentsStable(t *testing.T) {
	a := &document.Fragment{ID: "a", Start: 20, End: 30}
	b := &document.Fragment{ID: "b", Start: 0, End: 10}
	c := &document.Fragment{ID: "c", Start: 20, End: 20}
	d := &document.Fragment{ID: "d", Start: 5, End: 5}

	frags := []*document.Fragment{a, b, c, d}
	SortFragments(frags)
	assert.Equal(t, []*document.Fragment{b, d, a, c}, frags)

	// already sorted input is left alone
	again := append([]*document.Fragment(nil), frags...)
	SortFragments(again)
	assert.Equal(t, frags, again)
}

func TestOrderFragmentsSkipsUnresolved(t *testing.T) {
	m := document.NewModel()
	_, err := m.AddTimeseries("ts", document.StyleLines, document.Attributes{})
	require.NoError(t, err)
	require.NoError(t, m.AddFragment("ts", newFrag("late", []float64{20, 30}, []float64{1, 2})))
	require.NoError(t, m.AddFragment("ts", newFrag("early", []float64{0, 10}, []float64{1, 2})))

	frags := OrderFragments(m, []string{"late", "gone", "early"})
	require.Len(t, frags, 2)
	assert.Equal(t, "early", frags[0].ID)
	assert.Equal(t, "late", frags[1].ID)
}

func TestBuildGeometryLines(t *testing.T) {
	frags := []*document.Fragment{
		newFrag("a", []float64{0, 10}, []float64{1, 2}),
		newFrag("b", []float64{20, 30, 40}, []float64{3, 4, 5}),
	}

	for _, style := range []document.Style{document.StyleUnset, document.StyleLines, document.StyleLinesAndPoints, document.StylePoints} {
		t.Run(style.String(), func(t *testing.T) {
			g := BuildGeometry(nil, style, frags, 0, identity)
			assert.Equal(t, 5, g.Count)
			assert.Equal(t, []float32{0, 1, 10, 2, 20, 3, 30, 4, 40, 5}, g.Coords)
		})
	}

	assert.Equal(t, TopologyLineStrip, BuildGeometry(nil, document.StyleUnset, frags, 0, identity).Topology)
	assert.Equal(t, TopologyPoints, BuildGeometry(nil, document.StylePoints, frags, 0, identity).Topology)

	lp := BuildGeometry(nil, document.StyleLinesAndPoints, frags, 0, identity)
	assert.Equal(t, TopologyLineStrip, lp.Topology)
	assert.True(t, lp.PointPass)
}

func TestBuildGeometryOrdersReverseRegisteredFragments(t *testing.T) {
	m := document.NewModel()
	_, err := m.AddTimeseries("ts", document.StyleLines, document.Attributes{})
	require.NoError(t, err)
	require.NoError(t, m.AddFragment("ts", newFrag("second", []float64{20, 25, 30}, []float64{7, 8, 9})))
	require.NoError(t, m.AddFragment("ts", newFrag("first", []float64{0, 5, 10}, []float64{1, 2, 3})))

	ts, _ := m.Timeseries("ts")
	g := BuildGeometry(nil, ts.Style, OrderFragments(m, ts.Fragments), 0, identity)

	var xs []float32
	for i := 0; i < len(g.Coords); i += 2 {
		xs = append(xs, g.Coords[i])
	}
	assert.Equal(t, []float32{0, 5, 10, 20, 25, 30}, xs)
}

func TestBuildGeometryBars(t *testing.T) {
	tests := []struct {
		name      string
		frags     []*document.Fragment
		wantQuads int
	}{
		{"single_sample", []*document.Fragment{newFrag("a", []float64{5}, []float64{1})}, 0},
		{"empty", []*document.Fragment{newFrag("a", nil, nil)}, 0},
		{"three_samples", []*document.Fragment{newFrag("a", []float64{0, 10, 20}, []float64{5, 15, 25})}, 2},
		{"two_fragments", []*document.Fragment{
			newFrag("a", []float64{0, 10, 20}, []float64{5, 15, 25}),
			newFrag("b", []float64{30}, []float64{1}),
			newFrag("c", []float64{40, 50}, []float64{1, 2}),
		}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := BuildGeometry(nil, document.StyleBars, tt.frags, 0, identity)
			assert.Equal(t, TopologyTriangles, g.Topology)
			assert.Len(t, g.Coords, 12*tt.wantQuads)
			assert.Equal(t, 6*tt.wantQuads, g.Count)
		})
	}
}

func TestBuildGeometryBarLayout(t *testing.T) {
	f := newFrag("a", []float64{0, 10, 20}, []float64{5, 15, 25})
	g := BuildGeometry(nil, document.StyleBars, []*document.Fragment{f}, -1, identity)

	require.Len(t, g.Coords, 24)
	// first bar spans [0, 10] at the height of the left sample
	assert.Equal(t, []float32{
		0, 5, 10, 5, 0, -1,
		0, -1, 10, 5, 10, -1,
	}, g.Coords[:12])
	// second bar spans [10, 20] at height 15; sample 25 draws no bar
	assert.Equal(t, []float32{
		10, 15, 20, 15, 10, -1,
		10, -1, 20, 15, 20, -1,
	}, g.Coords[12:])
}

func TestBuildGeometryArea(t *testing.T) {
	frags := []*document.Fragment{
		newFrag("a", []float64{0, 10}, []float64{5, 6}),
		newFrag("b", []float64{20}, []float64{7}),
	}
	g := BuildGeometry(nil, document.StyleArea, frags, 2, identity)

	assert.Equal(t, TopologyTriangleStrip, g.Topology)
	assert.Equal(t, 6, g.Count)
	assert.Equal(t, []float32{
		0, 2, 0, 5,
		10, 2, 10, 6,
		20, 2, 20, 7,
	}, g.Coords)
}

func TestBuildGeometryReusesBuffer(t *testing.T) {
	var buf Float32Buffer
	big := []*document.Fragment{newFrag("a", []float64{0, 1, 2, 3, 4, 5}, []float64{0, 1, 2, 3, 4, 5})}
	small := []*document.Fragment{newFrag("b", []float64{0}, []float64{9})}

	g := BuildGeometry(&buf, document.StyleArea, big, 0, identity)
	assert.Len(t, g.Coords, 24)
	capacity := buf.Cap()

	g = BuildGeometry(&buf, document.StyleLines, small, 0, identity)
	assert.Equal(t, []float32{0, 9}, g.Coords, "only the valid prefix is exposed")
	assert.Equal(t, 1, g.Count)
	assert.Equal(t, capacity, buf.Cap(), "a smaller frame does not reallocate")
}

func TestBuildGeometryTimeOffset(t *testing.T) {
	axis := TimeAxis{Epoch: 1_700_000_000_000}
	f := newFrag("a", []float64{1_700_000_000_001, 1_700_000_000_002}, []float64{1, 2})

	g := BuildGeometry(nil, document.StyleLines, []*document.Fragment{f}, 0, axis.VAtTime)
	assert.Equal(t, []float32{1, 1, 2, 2}, g.Coords)
}

func TestFloat32BufferGrowth(t *testing.T) {
	var b Float32Buffer
	xs := b.Reserve(3)
	assert.Len(t, xs, 3)
	assert.Equal(t, 0, b.Len())

	b.Reserve(4)
	assert.GreaterOrEqual(t, b.Cap(), 6, "growth at least doubles")

	b.SetLen(2)
	assert.Len(t, b.Floats(), 2)
}
