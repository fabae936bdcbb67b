// Package journal records the external effects of a run (object declarations,
// property writes and file operations) into a SQL database.
package journal

import (
	"caml/internal/evaluator"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS caml_objects (
		run_id     VARCHAR(64)  NOT NULL,
		seq        BIGINT       NOT NULL,
		name       VARCHAR(255) NOT NULL,
		is_window  BOOLEAN      NOT NULL,
		parent     VARCHAR(255) NOT NULL,
		properties TEXT         NOT NULL,
		buttons    TEXT         NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS caml_property_events (
		run_id      VARCHAR(64)  NOT NULL,
		seq         BIGINT       NOT NULL,
		object_name VARCHAR(255) NOT NULL,
		prop_name   VARCHAR(255) NOT NULL,
		value       TEXT         NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS caml_file_effects (
		run_id       VARCHAR(64) NOT NULL,
		seq          BIGINT      NOT NULL,
		op           VARCHAR(32) NOT NULL,
		path         TEXT        NOT NULL,
		text         TEXT        NOT NULL,
		find_text    TEXT        NOT NULL,
		replace_text TEXT        NOT NULL,
		new_path     TEXT        NOT NULL
	)`,
}

// Journal is a Bindings sink that writes one row per event. Rows of a run share a
// run id and are ordered by seq.
type Journal struct {
	db     *sql.DB
	driver string
	runID  string
	seq    int64
	ctx    context.Context
}

// ParseDSN splits a journal location into a database/sql driver name and the
// driver's own connection string. Supported schemes are sqlite3://, mysql:// and
// postgres:// (or postgresql://).
func ParseDSN(dsn string) (driver, conn string, err error) {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return "", "", errors.Errorf("journal dsn %q has no scheme", dsn)
	}
	switch strings.ToLower(scheme) {
	case "sqlite", "sqlite3":
		return "sqlite3", rest, nil
	case "mysql":
		if _, err := mysql.ParseDSN(rest); err != nil {
			return "", "", errors.Wrap(err, "invalid mysql dsn")
		}
		return "mysql", rest, nil
	case "postgres", "postgresql":
		return "postgres", dsn, nil
	}
	return "", "", errors.Errorf("unsupported journal scheme %q", scheme)
}

// Open connects, creates the tables when missing and starts a new run.
func Open(ctx context.Context, dsn string) (*Journal, error) {
	driver, conn, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, conn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s journal", driver)
	}
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to reach %s journal", driver)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "failed to create journal schema")
		}
	}

	j := &Journal{
		db:     db,
		driver: driver,
		runID:  strconv.FormatInt(time.Now().UnixNano(), 36),
		ctx:    ctx,
	}
	slog.Info("journal opened", slog.String("driver", driver), slog.String("run", j.runID))
	return j, nil
}

func (j *Journal) RunID() string { return j.runID }

func (j *Journal) Close() error {
	return j.db.Close()
}

// bind rewrites ? placeholders for drivers that number their parameters.
func (j *Journal) bind(query string) string {
	if j.driver != "postgres" {
		return query
	}
	var out strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			out.WriteString("$" + strconv.Itoa(n))
			continue
		}
		out.WriteRune(ch)
	}
	return out.String()
}

func (j *Journal) insert(table string, columns []string, values ...any) error {
	j.seq++
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)+2), ", ")
	query := fmt.Sprintf("INSERT INTO %s (run_id, seq, %s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders)

	args := append([]any{j.runID, j.seq}, values...)
	if _, err := j.db.ExecContext(j.ctx, j.bind(query), args...); err != nil {
		return errors.Wrapf(err, "failed to write %s", table)
	}
	return nil
}

func (j *Journal) DeclareObject(rec evaluator.ObjectRecord) error {
	props, err := toJSON(rec.Properties)
	if err != nil {
		return err
	}
	buttons, err := marshal(append([]string{}, rec.Buttons...))
	if err != nil {
		return err
	}
	return j.insert("caml_objects",
		[]string{"name", "is_window", "parent", "properties", "buttons"},
		rec.Name, rec.IsWindow, rec.Parent, props, buttons)
}

func (j *Journal) PropertyChanged(ev evaluator.PropertyEvent) error {
	value, err := toJSON(ev.Value)
	if err != nil {
		return err
	}
	return j.insert("caml_property_events",
		[]string{"object_name", "prop_name", "value"},
		ev.Object, ev.Property, value)
}

func (j *Journal) fileEffect(op, path, text, find, replace, newPath string) error {
	return j.insert("caml_file_effects",
		[]string{"op", "path", "text", "find_text", "replace_text", "new_path"},
		op, path, text, find, replace, newPath)
}
