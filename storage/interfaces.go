package storage

import "datamart-etl/models"

// TableSource is the interface for reading raw records out of a
// relational source.
type TableSource interface {
	FetchTable(query string) (models.Table, error)
	Close() error
}

// TableLoader is the interface any destination backend must satisfy.
// Append keeps existing rows; Replace rewrites the table from scratch.
type TableLoader interface {
	Append(table string, tbl models.Table) error
	Replace(table string, tbl models.Table) error
	RecordRun(run models.PipelineRun) error
	Close() error
}
