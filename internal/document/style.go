package document

import "fmt"

// Style is the rendering mode of a timeseries. The set is closed: values
// outside it cannot be decoded.
type Style int

const (
	StyleUnset Style = iota
	StyleLines
	StylePoints
	StyleLinesAndPoints
	StyleBars
	StyleArea
)

var styleNames = map[Style]string{
	StyleUnset:          "",
	StyleLines:          "lines",
	StylePoints:         "points",
	StyleLinesAndPoints: "lines-and-points",
	StyleBars:           "bars",
	StyleArea:           "area",
}

// ParseStyle maps a style tag to a Style. The empty tag is StyleUnset.
func ParseStyle(s string) (Style, error) {
	for style, name := range styleNames {
		if name == s {
			return style, nil
		}
	}
	return StyleUnset, fmt.Errorf("%w: %q", ErrUnknownStyle, s)
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		if name == "" {
			return "unset"
		}
		return name
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// Effective returns the style actually drawn: unset behaves as lines.
func (s Style) Effective() Style {
	if s == StyleUnset {
		return StyleLines
	}
	return s
}

// NeedsBaseline reports whether the style fills against a baseline.
func (s Style) NeedsBaseline() bool {
	return s == StyleBars || s == StyleArea
}

func (s Style) Valid() bool {
	_, ok := styleNames[s]
	return ok
}

func (s Style) MarshalText() ([]byte, error) {
	name, ok := styleNames[s]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStyle, int(s))
	}
	return []byte(name), nil
}

func (s *Style) UnmarshalText(text []byte) error {
	style, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = style
	return nil
}
