package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/timeglimpse/timeglimpse/internal/document"
)

// Snapshot is the full content of the database at one read.
type Snapshot struct {
	Timeseries []TimeseriesRecord
	Fragments  []FragmentRecord
	Rows       []RowRecord
	Members    []RowMemberRecord
}

// LoadModel reads every table and assembles a model.
func LoadModel(ctx context.Context, db DBTX) (*document.Model, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Timeseries, err = ListTimeseries(ctx, db); err != nil {
		return nil, fmt.Errorf("list timeseries: %w", err)
	}
	if snap.Fragments, err = ListFragments(ctx, db); err != nil {
		return nil, fmt.Errorf("list fragments: %w", err)
	}
	if snap.Rows, err = ListRows(ctx, db); err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	if snap.Members, err = ListRowMembers(ctx, db); err != nil {
		return nil, fmt.Errorf("list row members: %w", err)
	}
	return Assemble(snap)
}

// Assemble builds a model from records, validating them the same way the
// JSON decoder does. Row members that name no stored timeseries are kept;
// the renderer skips them.
func Assemble(snap Snapshot) (*document.Model, error) {
	m := document.NewModel()

	for _, rec := range snap.Timeseries {
		style, err := document.ParseStyle(rec.Style)
		if err != nil {
			return nil, fmt.Errorf("timeseries %s: %w", rec.ID, err)
		}
		attrs := document.Attributes{
			LineColor:     rec.LineColor,
			LineThickness: rec.LineThickness,
			PointColor:    rec.PointColor,
			PointSize:     rec.PointSize,
			Baseline:      rec.Baseline,
		}
		if _, err := m.AddTimeseries(rec.ID, style, attrs); err != nil {
			return nil, fmt.Errorf("timeseries %s: %w", rec.ID, err)
		}
	}

	for _, rec := range snap.Fragments {
		f := &document.Fragment{
			ID:    rec.ID,
			Start: rec.Start,
			End:   rec.End,
			Times: rec.Times,
			Data:  rec.Data,
		}
		if err := m.AddFragment(rec.TimeseriesID, f); err != nil {
			return nil, fmt.Errorf("fragment %s: %w", rec.ID, err)
		}
	}

	for _, rec := range snap.Rows {
		if _, err := m.AddRow(rec.ID); err != nil {
			return nil, fmt.Errorf("row %s: %w", rec.ID, err)
		}
	}

	for _, rec := range snap.Members {
		if _, ok := m.Timeseries(rec.TimeseriesID); !ok {
			slog.Warn("row references unknown timeseries", "row", rec.RowID, "timeseries", rec.TimeseriesID)
		}
		if err := m.AddToRow(rec.RowID, rec.TimeseriesID, -1); err != nil {
			return nil, fmt.Errorf("row %s member %s: %w", rec.RowID, rec.TimeseriesID, err)
		}
	}

	return m, nil
}
