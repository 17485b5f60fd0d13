package domain

import "context"

// DefaultTables are the tables owned by the persistence layer.
var DefaultTables = []string{"stocks", "watchlists", "watchlist_stocks"}

// TableAccessStatus is the outcome of probing a single table. It is produced
// by the health probe and never persisted.
type TableAccessStatus struct {
	TableName      string `json:"table_name"`
	Accessible     bool   `json:"accessible"`
	SampleRowCount *int   `json:"sample_row_count,omitempty"`
	Error          string `json:"error,omitempty"`
}

type DatabaseProbe interface {
	Configured() bool
	CheckConnection(ctx context.Context) bool
	CheckTablesAccess(ctx context.Context, tableNames ...string) []TableAccessStatus
}

func AllAccessible(statuses []TableAccessStatus) bool {
	for _, s := range statuses {
		if !s.Accessible {
			return false
		}
	}
	return true
}

func FailedTables(statuses []TableAccessStatus) []string {
	var failed []string
	for _, s := range statuses {
		if !s.Accessible {
			failed = append(failed, s.TableName)
		}
	}
	return failed
}
