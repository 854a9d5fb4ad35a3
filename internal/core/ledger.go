package core

import "time"

// LedgerAction names an expense lifecycle change.
type LedgerAction string

const (
	ActionCreated LedgerAction = "created"
	ActionUpdated LedgerAction = "updated"
	ActionDeleted LedgerAction = "deleted"
)

// Valid reports whether a is a known action.
func (a LedgerAction) Valid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted:
		return true
	}
	return false
}

// LedgerEntry is one audit row mirrored out of the service.
type LedgerEntry struct {
	RecordedAt  time.Time
	Action      LedgerAction
	ExpenseID   string
	UserID      string
	Amount      float64
	Description string
	Category    string
	Date        time.Time
}
