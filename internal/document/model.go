package document

import (
	"fmt"
	"math"
	"strings"
)

// Fragment is a contiguous, time-ordered run of samples of one timeseries.
// Times are posix milliseconds.
type Fragment struct {
	ID    string    `json:"id"`
	Start float64   `json:"start"`
	End   float64   `json:"end"`
	Times []float64 `json:"times"`
	Data  []float64 `json:"data"`
}

// Drawable limits. Values are narrowed to float32 for drawing; times are
// offset by an axis epoch first, so each side of that subtraction gets half
// the float32 range.
const (
	MaxValue = math.MaxFloat32
	MaxTime  = math.MaxFloat32 / 2
)

// InRange reports whether v is finite and |v| <= limit.
func InRange(v, limit float64) bool {
	return !math.IsNaN(v) && math.Abs(v) <= limit
}

func (f *Fragment) Len() int {
	return len(f.Times)
}

// Validate checks the fragment invariants: parallel times and data, every
// number drawable, strictly ascending times, and every sample inside
// [Start, End].
func (f *Fragment) Validate() error {
	if len(f.Data) != len(f.Times) {
		return fmt.Errorf("fragment %s: %w (data=%d times=%d)", f.ID, ErrLengthMismatch, len(f.Data), len(f.Times))
	}
	if !InRange(f.Start, MaxTime) || !InRange(f.End, MaxTime) {
		return fmt.Errorf("fragment %s: %w (start=%v end=%v)", f.ID, ErrNonFinite, f.Start, f.End)
	}
	for i := range f.Times {
		if !InRange(f.Times[i], MaxTime) {
			return fmt.Errorf("fragment %s: %w (time %d is %v)", f.ID, ErrNonFinite, i, f.Times[i])
		}
		if !InRange(f.Data[i], MaxValue) {
			return fmt.Errorf("fragment %s: %w (value %d is %v)", f.ID, ErrNonFinite, i, f.Data[i])
		}
	}
	if f.Start > f.End {
		return fmt.Errorf("fragment %s: %w (start=%v end=%v)", f.ID, ErrInvalidBounds, f.Start, f.End)
	}
	for i, t := range f.Times {
		if i > 0 && !(t > f.Times[i-1]) {
			return fmt.Errorf("fragment %s: %w at index %d", f.ID, ErrNotAscending, i)
		}
		if t < f.Start || t > f.End {
			return fmt.Errorf("fragment %s: %w (sample %d at %v)", f.ID, ErrInvalidBounds, i, t)
		}
	}
	return nil
}

// Overlaps reports whether the closed intervals of f and other intersect.
func (f *Fragment) Overlaps(other *Fragment) bool {
	return f.Start <= other.End && other.Start <= f.End
}

// Attributes are the optional per-series style overrides. Nil means "use the
// renderer default".
type Attributes struct {
	LineColor     *string  `json:"lineColor,omitempty"`
	LineThickness *float64 `json:"lineThickness,omitempty"`
	PointColor    *string  `json:"pointColor,omitempty"`
	PointSize     *float64 `json:"pointSize,omitempty"`
	Baseline      *float64 `json:"baseline,omitempty"`
}

type Timeseries struct {
	ID    string `json:"id"`
	Style Style  `json:"style,omitempty"`
	Attributes
	Fragments []string `json:"fragments"`
}

// HasFragment reports whether fragmentID belongs to this series.
func (ts *Timeseries) HasFragment(fragmentID string) bool {
	for _, id := range ts.Fragments {
		if id == fragmentID {
			return true
		}
	}
	return false
}

// Validate checks the series style and attribute invariants.
func (ts *Timeseries) Validate() error {
	return validateAttributes(ts.ID, ts.Style, ts.Attributes)
}

func validateAttributes(id string, style Style, attrs Attributes) error {
	if !style.Valid() {
		return fmt.Errorf("timeseries %s: %w", id, ErrUnknownStyle)
	}
	if style.NeedsBaseline() && attrs.Baseline == nil {
		return fmt.Errorf("timeseries %s (%s): %w", id, style, ErrMissingBaseline)
	}
	for _, c := range []*string{attrs.LineColor, attrs.PointColor} {
		if c != nil && !IsHexColor(*c) {
			return fmt.Errorf("timeseries %s: %w %q", id, ErrInvalidColor, *c)
		}
	}
	for _, v := range []*float64{attrs.Baseline, attrs.LineThickness, attrs.PointSize} {
		if v != nil && !InRange(*v, MaxValue) {
			return fmt.Errorf("timeseries %s: %w (%v)", id, ErrNonFinite, *v)
		}
	}
	return nil
}

// Row is an ordered collection of timeseries drawn against one value axis.
type Row struct {
	ID         string   `json:"id"`
	Timeseries []string `json:"timeseries"`
}

// IsHexColor reports whether s is a css hex color: #rgb, #rrggbb or #rrggbbaa.
func IsHexColor(s string) bool {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return false
	}
	switch len(hex) {
	case 3, 6, 8:
	default:
		return false
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
