package models

// NumberRow is one candidate row of a bulk ingestion request
type NumberRow struct {
	Number   string `json:"number"`
	AreaCode string `json:"areaCode"`
	Name     string `json:"name,omitempty"`
	Address  string `json:"address,omitempty"`
}

// InvalidRow pairs a rejected input with the reason it was rejected
type InvalidRow struct {
	Number string `json:"number"`
	Reason string `json:"reason"`
}

// BatchResult reports one processed chunk of a bulk ingestion run
type BatchResult struct {
	Chunk            int            `json:"chunk"`
	Created          int            `json:"created"`
	Duplicates       int            `json:"duplicates"`
	Invalid          int            `json:"invalid"`
	Errors           int            `json:"errors"`
	ElapsedMs        int64          `json:"elapsedMs"`
	CreatedNumbers   []*PhoneNumber `json:"createdNumbers"`
	DuplicateNumbers []string       `json:"duplicateNumbers"`
	InvalidRows      []InvalidRow   `json:"invalidRows"`
}

// BulkSummary aggregates every chunk of a run
type BulkSummary struct {
	TotalRows  int `json:"totalRows"`
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
	Errors     int `json:"errors"`
}

// BulkCreateResult is the overall response of a bulk ingestion run
type BulkCreateResult struct {
	Summary   BulkSummary   `json:"summary"`
	Batches   []BatchResult `json:"batches"`
	ReportURL string        `json:"reportUrl,omitempty"`
}

// Bulk delete outcomes
const (
	BulkDeleteFull    = "full"
	BulkDeletePartial = "partial"
	BulkDeleteFailed  = "failed"
)

// SkippedNumber pairs a number that was not deleted with the reason
type SkippedNumber struct {
	Number string `json:"number"`
	Reason string `json:"reason"`
}

// BulkDeleteResult reports a guard-checked bulk deletion over one area code
type BulkDeleteResult struct {
	AreaCode     string          `json:"areaCode"`
	Outcome      string          `json:"outcome"`
	DeletedCount int             `json:"deletedCount"`
	SkippedCount int             `json:"skippedCount"`
	ErrorCount   int             `json:"errorCount"`
	Deleted      []string        `json:"deleted"`
	Skipped      []SkippedNumber `json:"skipped"`
	Errors       []SkippedNumber `json:"errors"`
}
