package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type TimeseriesRecord struct {
	ID            string   `db:"id"`
	Style         string   `db:"style"`
	LineColor     *string  `db:"line_color"`
	LineThickness *float64 `db:"line_thickness"`
	PointColor    *string  `db:"point_color"`
	PointSize     *float64 `db:"point_size"`
	Baseline      *float64 `db:"baseline"`
}

type FragmentRecord struct {
	ID           string    `db:"id"`
	TimeseriesID string    `db:"timeseries_id"`
	Start        float64   `db:"start_ms"`
	End          float64   `db:"end_ms"`
	Times        []float64 `db:"times"`
	Data         []float64 `db:"data"`
}

type RowRecord struct {
	ID string `db:"id"`
}

type RowMemberRecord struct {
	RowID        string `db:"row_id"`
	TimeseriesID string `db:"timeseries_id"`
}

const listTimeseries = `SELECT id, style, line_color, line_thickness, point_color, point_size, baseline
FROM timeseries ORDER BY id`

const listFragments = `SELECT id, timeseries_id, start_ms, end_ms, times, data
FROM fragments ORDER BY timeseries_id, id`

const listRows = `SELECT id FROM rows ORDER BY position, id`

const listRowMembers = `SELECT row_id, timeseries_id
FROM row_timeseries ORDER BY row_id, position`

func ListTimeseries(ctx context.Context, db DBTX) ([]TimeseriesRecord, error) {
	return collect[TimeseriesRecord](ctx, db, listTimeseries)
}

func ListFragments(ctx context.Context, db DBTX) ([]FragmentRecord, error) {
	return collect[FragmentRecord](ctx, db, listFragments)
}

func ListRows(ctx context.Context, db DBTX) ([]RowRecord, error) {
	return collect[RowRecord](ctx, db, listRows)
}

func ListRowMembers(ctx context.Context, db DBTX) ([]RowMemberRecord, error) {
	return collect[RowMemberRecord](ctx, db, listRowMembers)
}

func collect[T any](ctx context.Context, db DBTX, sql string) ([]T, error) {
	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}
	return out, nil
}
