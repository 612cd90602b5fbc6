package model

import "time"

const (
	RecordTypeIncome  = "income"
	RecordTypeExpense = "expense"
)

const (
	RecordCategoryProjectPayment  = "project-payment"
	RecordCategoryWriterPayment   = "writer-payment"
	RecordCategoryReferralPayment = "referral-payment"
	RecordCategoryRefund          = "refund"
	RecordCategoryCommission      = "commission"
	RecordCategoryMarketing       = "marketing"
	RecordCategorySoftware        = "software"
	RecordCategoryOffice          = "office"
	RecordCategoryOther           = "other"
)

const (
	RecordStatusPending   = "pending"
	RecordStatusCompleted = "completed"
	RecordStatusFailed    = "failed"
	RecordStatusCancelled = "cancelled"
)

type FinancialRecord struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`

	// ProjectID and UserID are optional references.
	ProjectID *int64 `json:"project_id,omitempty"`
	UserID    *int64 `json:"user_id,omitempty"`

	Status          string    `json:"status"`
	TransactionDate time.Time `json:"transaction_date"`
	Notes           string    `json:"notes,omitempty"`

	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
