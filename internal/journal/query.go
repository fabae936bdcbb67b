package journal

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

type ObjectRow struct {
	Seq        int64
	Name       string
	IsWindow   bool
	Parent     string
	Properties string
	Buttons    string
}

type PropertyRow struct {
	Seq      int64
	Object   string
	Property string
	Value    string
}

type FileRow struct {
	Seq     int64
	Op      string
	Path    string
	Text    string
	Find    string
	Replace string
	NewPath string
}

// Run holds every row journaled under one run id, each table in seq order.
type Run struct {
	ID         string
	Objects    []ObjectRow
	Properties []PropertyRow
	Files      []FileRow
}

// Read loads the rows of a run.
func (j *Journal) Read(ctx context.Context, runID string) (*Run, error) {
	run := &Run{ID: runID}

	err := j.query(ctx,
		"SELECT seq, name, is_window, parent, properties, buttons FROM caml_objects WHERE run_id = ? ORDER BY seq",
		runID,
		func(rows *sql.Rows) error {
			var r ObjectRow
			if err := rows.Scan(&r.Seq, &r.Name, &r.IsWindow, &r.Parent, &r.Properties, &r.Buttons); err != nil {
				return err
			}
			run.Objects = append(run.Objects, r)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = j.query(ctx,
		"SELECT seq, object_name, prop_name, value FROM caml_property_events WHERE run_id = ? ORDER BY seq",
		runID,
		func(rows *sql.Rows) error {
			var r PropertyRow
			if err := rows.Scan(&r.Seq, &r.Object, &r.Property, &r.Value); err != nil {
				return err
			}
			run.Properties = append(run.Properties, r)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = j.query(ctx,
		"SELECT seq, op, path, text, find_text, replace_text, new_path FROM caml_file_effects WHERE run_id = ? ORDER BY seq",
		runID,
		func(rows *sql.Rows) error {
			var r FileRow
			if err := rows.Scan(&r.Seq, &r.Op, &r.Path, &r.Text, &r.Find, &r.Replace, &r.NewPath); err != nil {
				return err
			}
			run.Files = append(run.Files, r)
			return nil
		})
	if err != nil {
		return nil, err
	}

	return run, nil
}

func (j *Journal) query(ctx context.Context, query string, runID string, scan func(*sql.Rows) error) error {
	rows, err := j.db.QueryContext(ctx, j.bind(query), runID)
	if err != nil {
		return errors.Wrap(err, "journal query failed")
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return errors.Wrap(err, "failed to scan journal row")
		}
	}
	return errors.Wrap(rows.Err(), "journal query failed")
}
