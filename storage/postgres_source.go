package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"datamart-etl/models"
	"datamart-etl/utils"
)

// PostgresSource reads raw tabular records out of the source database.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource opens a connection to the source PostgreSQL and
// verifies it with a retried ping.
func NewPostgresSource(dsn string, retry *utils.RetryConfig) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres source: open: %w", err)
	}
	if err := retry.Do("source-db-ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres source: %w", err)
	}
	return &PostgresSource{db: db}, nil
}

// FetchTable executes a read-only query and returns every row as a
// record. NULLs become missing cells. Any failure is returned to the
// caller, which treats it as fatal for the pipeline run.
func (s *PostgresSource) FetchTable(query string) (models.Table, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return models.Table{}, fmt.Errorf("postgres source: query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return models.Table{}, fmt.Errorf("postgres source: columns: %w", err)
	}

	tbl := models.NewTable(columns...)
	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return models.Table{}, fmt.Errorf("postgres source: scan row: %w", err)
		}
		row := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			}
		}
		tbl.AppendRow(row)
	}
	if err := rows.Err(); err != nil {
		return models.Table{}, fmt.Errorf("postgres source: rows: %w", err)
	}
	return tbl, nil
}

func (s *PostgresSource) Close() error {
	return s.db.Close()
}
