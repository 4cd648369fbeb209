package domain

import "time"

// User is the locally persisted projection of an identity-provider user.
// Authentication itself happens upstream; rows here exist so transactions,
// accounts and budgets have an owner to join against and reports have an
// address to deliver to. Rows are created lazily on first authenticated
// request.
type User struct {
	UserID string `json:"userID"` // Identity-provider subject, used as primary key
	Email  string `json:"email"`
	Name   string `json:"name"`

	// LastReportSent records when a monthly report dispatch was last
	// attempted for the user. Nil until the first report. Suppresses a
	// second report within the same calendar month across worker restarts.
	LastReportSent *time.Time `json:"lastReportSent,omitempty"`

	AuditFields
}
