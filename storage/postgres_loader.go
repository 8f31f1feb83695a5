package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"datamart-etl/models"
	"datamart-etl/utils"
)

// PostgresLoader persists transformed tables to the destination
// database. Destination tables are created on first write with TEXT
// columns matching the table header; missing cells are stored as NULL.
type PostgresLoader struct {
	db *sql.DB
}

// NewPostgresLoader opens a connection to the destination PostgreSQL,
// verifies it with a retried ping, and prepares the run bookkeeping
// table.
func NewPostgresLoader(dsn string, retry *utils.RetryConfig) (*PostgresLoader, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres loader: open: %w", err)
	}
	if err := retry.Do("load-db-ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres loader: %w", err)
	}

	l := &PostgresLoader{db: db}
	if err := l.migrate(); err != nil {
		return nil, fmt.Errorf("postgres loader: migrate: %w", err)
	}
	return l, nil
}

func (l *PostgresLoader) migrate() error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS pipeline_runs (
			id            UUID PRIMARY KEY,
			started_at    TIMESTAMPTZ NOT NULL,
			finished_at   TIMESTAMPTZ NOT NULL,
			status        VARCHAR(20) NOT NULL,
			steps_run     INT NOT NULL DEFAULT 0,
			steps_skipped INT NOT NULL DEFAULT 0,
			steps_failed  INT NOT NULL DEFAULT 0
		)
	`)
	return err
}

// Append inserts all rows of tbl into the named destination table,
// keeping whatever is already there.
func (l *PostgresLoader) Append(table string, tbl models.Table) error {
	if err := l.ensureTable(table, tbl.Columns); err != nil {
		return err
	}
	return l.insertAll(table, tbl)
}

// Replace drops and recreates the named destination table before
// inserting, so the table ends up holding exactly the rows of tbl.
func (l *PostgresLoader) Replace(table string, tbl models.Table) error {
	if _, err := l.db.Exec("DROP TABLE IF EXISTS " + pq.QuoteIdentifier(table)); err != nil {
		return fmt.Errorf("postgres loader: drop %s: %w", table, err)
	}
	return l.Append(table, tbl)
}

// RecordRun stores one pipeline run's metadata for bookkeeping.
func (l *PostgresLoader) RecordRun(run models.PipelineRun) error {
	_, err := l.db.Exec(`
		INSERT INTO pipeline_runs (id, started_at, finished_at, status, steps_run, steps_skipped, steps_failed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.ID, run.StartedAt, run.FinishedAt, run.Status, run.StepsRun, run.StepsSkipped, run.StepsFailed)
	if err != nil {
		return fmt.Errorf("postgres loader: record run: %w", err)
	}
	return nil
}

func (l *PostgresLoader) Close() error {
	return l.db.Close()
}

func (l *PostgresLoader) ensureTable(table string, columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("postgres loader: table %s has no columns", table)
	}

	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pq.QuoteIdentifier(c) + " TEXT"
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pq.QuoteIdentifier(table), strings.Join(defs, ", "))

	if _, err := l.db.Exec(ddl); err != nil {
		return fmt.Errorf("postgres loader: create %s: %w", table, err)
	}
	return nil
}

func (l *PostgresLoader) insertAll(table string, tbl models.Table) error {
	const batchSize = 50
	for i := 0; i < len(tbl.Rows); i += batchSize {
		end := i + batchSize
		if end > len(tbl.Rows) {
			end = len(tbl.Rows)
		}
		if err := l.insertBatch(table, tbl.Columns, tbl.Rows[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (l *PostgresLoader) insertBatch(table string, columns []string, batch [][]string) error {
	if len(batch) == 0 {
		return nil
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pq.QuoteIdentifier(c)
	}

	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*len(columns))

	for idx, row := range batch {
		placeholders := make([]string, len(columns))
		for j := range columns {
			placeholders[j] = fmt.Sprintf("$%d", idx*len(columns)+j+1)

			// Missing cells load as NULL, matching the CSV rendering
			// where they are empty fields.
			if row[j] == "" {
				valueArgs = append(valueArgs, nil)
			} else {
				valueArgs = append(valueArgs, row[j])
			}
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		pq.QuoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(valueStrings, ","))

	if _, err := l.db.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres loader: insert into %s: %w", table, err)
	}
	return nil
}
