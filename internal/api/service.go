package api

import (
	"errors"
	"fmt"
	"sync"

	"github.com/timeglimpse/timeglimpse/internal/document"
	"github.com/timeglimpse/timeglimpse/internal/engine"
)

var ErrRowNotFound = errors.New("row not found")

// Service serializes access to a shared model. The model and the engines
// reading it are not safe for concurrent use, so every caller goes through
// Do.
type Service struct {
	mu    sync.Mutex
	model *document.Model
	opts  engine.Options
}

func NewService(model *document.Model, opts engine.Options) *Service {
	return &Service{model: model, opts: opts}
}

// Do runs fn with exclusive access to the model.
func (s *Service) Do(fn func(m *document.Model)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.model)
}

func (s *Service) Options() engine.Options {
	return s.opts
}

type SeriesSummary struct {
	ID        string         `json:"id"`
	Style     document.Style `json:"style"`
	Fragments int            `json:"fragments"`
	Samples   int            `json:"samples"`
}

type RowSummary struct {
	ID         string          `json:"id"`
	Timeseries []SeriesSummary `json:"timeseries"`
}

// Rows lists every row with the series it resolves to.
func (s *Service) Rows() []RowSummary {
	var out []RowSummary
	s.Do(func(m *document.Model) {
		out = make([]RowSummary, 0, len(m.RowIDs()))
		for _, rowID := range m.RowIDs() {
			row, _ := m.Row(rowID)
			summary := RowSummary{ID: rowID, Timeseries: []SeriesSummary{}}
			for _, tsID := range row.Timeseries {
				ts, ok := m.Timeseries(tsID)
				if !ok {
					continue
				}
				ss := SeriesSummary{ID: ts.ID, Style: ts.Style.Effective(), Fragments: len(ts.Fragments)}
				for _, fid := range ts.Fragments {
					if f, ok := m.Fragment(fid); ok {
						ss.Samples += f.Len()
					}
				}
				summary.Timeseries = append(summary.Timeseries, ss)
			}
			out = append(out, summary)
		}
	})
	return out
}

// Render draws a row under view v.
func (s *Service) Render(rowID string, v engine.View) (engine.Frame, error) {
	var (
		frame engine.Frame
		err   error
	)
	if err := v.Validate(); err != nil {
		return engine.Frame{}, err
	}
	s.Do(func(m *document.Model) {
		if _, ok := m.Row(rowID); !ok {
			err = fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
			return
		}
		eng := engine.NewEngine(m, rowID, s.opts)
		defer eng.Close()
		eng.SetView(v)
		frame = eng.Frame()
	})
	return frame, err
}

// Pick finds the sample nearest to pane pixel (x, y) of a row under view v.
// A nil selection means nothing lies within reach.
func (s *Service) Pick(rowID string, v engine.View, x, y float64) (*engine.Selection, error) {
	var (
		sel *engine.Selection
		err error
	)
	if err := v.Validate(); err != nil {
		return nil, err
	}
	s.Do(func(m *document.Model) {
		row, ok := m.Row(rowID)
		if !ok {
			err = fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
			return
		}
		q, ok := v.PickQuery(x, y, s.opts.PickRadius)
		if !ok {
			return
		}
		if found, ok := engine.LocateNearest(m, row, q); ok {
			sel = &found
		}
	})
	return sel, err
}
