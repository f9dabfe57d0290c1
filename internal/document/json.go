package document

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// modelJSON is the wire form of a Model. Maps are keyed by id; order lives
// in the id lists.
type modelJSON struct {
	RowOrder   []string              `json:"rowOrder,omitempty"`
	Rows       map[string]Row        `json:"rows"`
	Timeseries map[string]Timeseries `json:"timeseries"`
	Fragments  map[string]Fragment   `json:"fragments"`
}

// Decode reads a model from JSON, running every entity through the same
// validation as the mutation methods.
func Decode(r io.Reader) (*Model, error) {
	var in modelJSON
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return in.build()
}

func (in *modelJSON) build() (*Model, error) {
	m := NewModel()

	tsIDs := make([]string, 0, len(in.Timeseries))
	for id := range in.Timeseries {
		tsIDs = append(tsIDs, id)
	}
	slices.Sort(tsIDs)

	for _, key := range tsIDs {
		ts := in.Timeseries[key]
		id := ts.ID
		if id == "" {
			id = key
		}
		if _, err := m.AddTimeseries(id, ts.Style, ts.Attributes); err != nil {
			return nil, err
		}
		for _, fid := range ts.Fragments {
			f, ok := in.Fragments[fid]
			if !ok {
				return nil, fmt.Errorf("timeseries %s references fragment %s: %w", id, fid, ErrNotFound)
			}
			if f.ID == "" {
				f.ID = fid
			}
			if err := m.AddFragment(id, &f); err != nil {
				return nil, err
			}
		}
	}

	order := in.RowOrder
	if len(order) == 0 {
		for id := range in.Rows {
			order = append(order, id)
		}
		slices.Sort(order)
	}
	for _, key := range order {
		row, ok := in.Rows[key]
		if !ok {
			return nil, fmt.Errorf("row order references row %s: %w", key, ErrNotFound)
		}
		id := row.ID
		if id == "" {
			id = key
		}
		if _, err := m.AddRow(id); err != nil {
			return nil, err
		}
		for _, tsID := range row.Timeseries {
			if err := m.AddToRow(id, tsID, -1); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Encode writes the model as JSON.
func (m *Model) Encode(w io.Writer) error {
	out := modelJSON{
		RowOrder:   m.RowIDs(),
		Rows:       make(map[string]Row, len(m.rows)),
		Timeseries: make(map[string]Timeseries, len(m.timeseries)),
		Fragments:  make(map[string]Fragment, len(m.fragments)),
	}
	for id, r := range m.rows {
		out.Rows[id] = *r
	}
	for id, ts := range m.timeseries {
		out.Timeseries[id] = *ts
	}
	for id, f := range m.fragments {
		out.Fragments[id] = *f
	}
	return json.NewEncoder(w).Encode(out)
}
