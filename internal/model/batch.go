package model

// ItemError reports the failure of one item inside a bulk operation.
type ItemError struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkDeleteResult reports the outcome of a bulk delete. Items are attempted
// independently; a failure for one ID never rolls back the others. Summary is
// computed after every sub-operation has finished.
type BulkDeleteResult struct {
	Deleted []string    `json:"deleted"`
	Failed  []ItemError `json:"failed"`
	Summary Summary     `json:"summary"`
}

// RowError reports the failure of one data row inside a CSV import.
// Row is 1-based over data rows; the header row is not counted.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult reports the outcome of a CSV import. Valid rows are persisted
// even when other rows in the same file fail. Summary reflects the ledger
// after the whole batch.
type ImportResult struct {
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Total    int        `json:"total"`
	Errors   []RowError `json:"errors,omitempty"`
	Summary  Summary    `json:"summary"`
}
