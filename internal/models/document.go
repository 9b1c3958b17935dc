package models

import "time"

const (
	DocumentLoanEstimate     = "loan_estimate"
	DocumentComplianceReport = "compliance_report"
	DocumentTermSheet        = "term_sheet"
)

type DocumentRecord struct {
	ID          string    `json:"id" bson:"_id"`
	Type        string    `json:"type" bson:"type"`
	DealID      string    `json:"deal_id,omitempty" bson:"deal_id,omitempty"`
	ProgramID   string    `json:"program_id" bson:"program_id"`
	Bucket      string    `json:"bucket,omitempty" bson:"bucket,omitempty"`
	Key         string    `json:"key,omitempty" bson:"key,omitempty"`
	Path        string    `json:"path,omitempty" bson:"path,omitempty"`
	SizeBytes   int64     `json:"size_bytes" bson:"size_bytes"`
	ProseSource string    `json:"prose_source" bson:"prose_source"`
	CreatedBy   string    `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
