package models

// AssignRequest asks for a cohort of numbers for one caller
type AssignRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Count    int    `json:"count" binding:"required"`
	AreaCode string `json:"areaCode"`
}

// AssignResult reports the outcome of one allocation call. All numbers in
// the cohort share one batch id for the audit trail.
type AssignResult struct {
	AssignedNumbers []string `json:"assignedNumbers"`
	BatchID         string   `json:"batchId"`
	RequestedCount  int      `json:"requestedCount"`
	ActualCount     int      `json:"actualCount"`
	Note            string   `json:"note,omitempty"`
}
