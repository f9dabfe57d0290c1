package document

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frag(id string, times, data []float64) *Fragment {
	f := &Fragment{ID: id, Times: times, Data: data}
	if len(times) > 0 {
		f.Start, f.End = times[0], times[len(times)-1]
	}
	return f
}

func TestFragmentValidate(t *testing.T) {
	tests := []struct {
		name    string
		frag    *Fragment
		wantErr error
	}{
		{"ok", frag("a", []float64{0, 10, 20}, []float64{1, 2, 3}), nil},
		{"empty", &Fragment{ID: "a", Start: 0, End: 5}, nil},
		{"length_mismatch", frag("a", []float64{0, 10}, []float64{1}), ErrLengthMismatch},
		{"not_ascending", frag("a", []float64{0, 10, 10}, []float64{1, 2, 3}), ErrNotAscending},
		{"descending", &Fragment{ID: "a", Start: 0, End: 10, Times: []float64{10, 0}, Data: []float64{1, 2}}, ErrNotAscending},
		{"start_after_end", &Fragment{ID: "a", Start: 5, End: 1}, ErrInvalidBounds},
		{"sample_outside", &Fragment{ID: "a", Start: 0, End: 5, Times: []float64{0, 6}, Data: []float64{1, 2}}, ErrInvalidBounds},
		{"nan_start", &Fragment{ID: "a", Start: math.NaN(), End: 5}, ErrNonFinite},
		{"inf_end", &Fragment{ID: "a", Start: 0, End: math.Inf(1)}, ErrNonFinite},
		{"nan_single_time", &Fragment{ID: "a", Start: 0, End: 5, Times: []float64{math.NaN()}, Data: []float64{1}}, ErrNonFinite},
		{"inf_time", &Fragment{ID: "a", Start: 0, End: 5, Times: []float64{0, math.Inf(1)}, Data: []float64{1, 2}}, ErrNonFinite},
		{"time_beyond_offset_range", frag("a", []float64{0, math.MaxFloat32}, []float64{1, 2}), ErrNonFinite},
		{"nan_value", frag("a", []float64{0, 1}, []float64{math.NaN(), 2}), ErrNonFinite},
		{"inf_value", frag("a", []float64{0, 1}, []float64{1, math.Inf(-1)}), ErrNonFinite},
		{"value_overflows_float32", frag("a", []float64{0, 1}, []float64{1e39, 2}), ErrNonFinite},
		{"largest_float32_value", frag("a", []float64{0, 1}, []float64{math.MaxFloat32, -math.MaxFloat32}), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frag.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAddTimeseriesRequiresBaseline(t *testing.T) {
	m := NewModel()

	_, err := m.AddTimeseries("bars", StyleBars, Attributes{})
	assert.ErrorIs(t, err, ErrMissingBaseline)

	_, err = m.AddTimeseries("area", StyleArea, Attributes{Baseline: ptr(0.0)})
	assert.NoError(t, err)

	_, err = m.AddTimeseries("lines", StyleLines, Attributes{LineColor: ptr("red")})
	assert.ErrorIs(t, err, ErrInvalidColor)

	_, err = m.AddTimeseries("bars", StyleBars, Attributes{Baseline: ptr(math.Inf(1))})
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = m.AddTimeseries("points", StylePoints, Attributes{PointSize: ptr(math.NaN())})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestAddFragmentRejectsOverlap(t *testing.T) {
	m := NewModel()
	_, err := m.AddTimeseries("ts", StyleLines, Attributes{})
	require.NoError(t, err)

	require.NoError(t, m.AddFragment("ts", frag("a", []float64{0, 10}, []float64{1, 2})))
	err = m.AddFragment("ts", frag("b", []float64{10, 20}, []float64{1, 2}))
	assert.ErrorIs(t, err, ErrOverlappingFragments)

	require.NoError(t, m.AddFragment("ts", frag("c", []float64{20, 30}, []float64{1, 2})))
	_, ok := m.Fragment("b")
	assert.False(t, ok)

	ts, _ := m.Timeseries("ts")
	assert.Equal(t, []string{"a", "c"}, ts.Fragments)

	owner, ok := m.OwnerOf("c")
	assert.True(t, ok)
	assert.Equal(t, "ts", owner)
}

func TestModelNotifications(t *testing.T) {
	m := NewModel()
	var events []Event
	unsubscribe := m.Subscribe(func(ev Event) { events = append(events, ev) })

	_, err := m.AddRow("row")
	require.NoError(t, err)
	_, err = m.AddTimeseries("a", StyleLines, Attributes{})
	require.NoError(t, err)
	_, err = m.AddTimeseries("b", StylePoints, Attributes{})
	require.NoError(t, err)

	require.NoError(t, m.AddToRow("row", "a", -1))
	require.NoError(t, m.AddToRow("row", "b", 0))
	require.NoError(t, m.MoveInRow("row", "b", 1))
	require.NoError(t, m.AddFragment("a", frag("f", []float64{0}, []float64{1})))
	require.NoError(t, m.SetAttributes("a", StyleArea, Attributes{Baseline: ptr(1.0)}))
	require.NoError(t, m.RemoveFragment("f"))
	require.NoError(t, m.RemoveFromRow("row", "a"))

	unsubscribe()
	require.NoError(t, m.AddToRow("row", "a", -1))

	assert.Equal(t, []Event{
		{Kind: EventAdded, RowID: "row", TimeseriesID: "a"},
		{Kind: EventAdded, RowID: "row", TimeseriesID: "b"},
		{Kind: EventMoved, RowID: "row", TimeseriesID: "b"},
		{Kind: EventAdded, TimeseriesID: "a", FragmentID: "f"},
		{Kind: EventAttrsChanged, TimeseriesID: "a"},
		{Kind: EventRemoved, TimeseriesID: "a", FragmentID: "f"},
		{Kind: EventRemoved, RowID: "row", TimeseriesID: "a"},
	}, events)

	row, _ := m.Row("row")
	assert.Equal(t, []string{"b", "a"}, row.Timeseries)
}

func TestRemoveTimeseriesDropsFragments(t *testing.T) {
	m := NewModel()
	_, err := m.AddTimeseries("ts", StyleLines, Attributes{})
	require.NoError(t, err)
	require.NoError(t, m.AddFragment("ts", frag("f", []float64{0, 1}, []float64{1, 2})))

	require.NoError(t, m.RemoveTimeseries("ts"))

	_, ok := m.Fragment("f")
	assert.False(t, ok)
	assert.ErrorIs(t, m.RemoveTimeseries("ts"), ErrNotFound)
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in   string
		want Style
	}{
		{"", StyleUnset},
		{"lines", StyleLines},
		{"points", StylePoints},
		{"lines-and-points", StyleLinesAndPoints},
		{"bars", StyleBars},
		{"area", StyleArea},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got, err := ParseStyle(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseStyle("candles")
	assert.ErrorIs(t, err, ErrUnknownStyle)
	assert.Equal(t, StyleLines, StyleUnset.Effective())
}

func TestDecodeModel(t *testing.T) {
	const in = `{
		"rows": {"row_1": {"timeseries": ["ts_b", "ts_a", "ts_missing"]}},
		"timeseries": {
			"ts_a": {"style": "bars", "baseline": 0, "lineColor": "#ff0000", "fragments": ["f2", "f1"]},
			"ts_b": {"fragments": []}
		},
		"fragments": {
			"f1": {"start": 0, "end": 10, "times": [0, 10], "data": [5, 15]},
			"f2": {"start": 20, "end": 30, "times": [20, 30], "data": [1, 2]}
		}
	}`

	m, err := Decode(strings.NewReader(in))
	require.NoError(t, err)

	row, ok := m.Row("row_1")
	require.True(t, ok)
	assert.Equal(t, []string{"ts_b", "ts_a", "ts_missing"}, row.Timeseries)

	ts, ok := m.Timeseries("ts_a")
	require.True(t, ok)
	assert.Equal(t, StyleBars, ts.Style)
	assert.Equal(t, []string{"f2", "f1"}, ts.Fragments)
	require.NotNil(t, ts.Baseline)
	assert.Equal(t, "#ff0000", *ts.LineColor)

	b, _ := m.Timeseries("ts_b")
	assert.Equal(t, StyleUnset, b.Style)

	var buf bytes.Buffer
	require.NoError(t, m.Encode(&buf))
	again, err := Decode(&buf)
	require.NoError(t, err)
	ts2, _ := again.Timeseries("ts_a")
	assert.Equal(t, ts.Fragments, ts2.Fragments)
}

func TestDecodeRejectsMalformedFragment(t *testing.T) {
	const in = `{
		"timeseries": {"ts": {"style": "lines", "fragments": ["f"]}},
		"fragments": {"f": {"start": 0, "end": 10, "times": [0, 10], "data": [5]}}
	}`
	_, err := Decode(strings.NewReader(in))
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Decode(strings.NewReader(`{"timeseries": {"ts": {"style": "spline"}}}`))
	assert.ErrorIs(t, err, ErrUnknownStyle)
}

func TestSampleModel(t *testing.T) {
	m, rowID := NewSampleModel(1_700_000_000_000, 1000)

	row, ok := m.Row(rowID)
	require.True(t, ok)
	require.Len(t, row.Timeseries, 4)

	for _, id := range row.Timeseries {
		ts, ok := m.Timeseries(id)
		require.True(t, ok)
		require.Len(t, ts.Fragments, 2)
		first, _ := m.Fragment(ts.Fragments[0])
		second, _ := m.Fragment(ts.Fragments[1])
		assert.Greater(t, first.Start, second.End, "fragments are registered out of time order")
	}
}
