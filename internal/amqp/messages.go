package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"budgetly/internal/core"
)

var ErrMalformedEvent = errors.New("malformed expense event")

// ExpenseEvent describes one expense lifecycle change. It carries a full
// snapshot so consumers never read back from the database.
type ExpenseEvent struct {
	Action      core.LedgerAction `json:"action"`
	ExpenseID   string            `json:"expenseId"`
	UserID      string            `json:"userId"`
	Amount      float64           `json:"amount"`
	Description string            `json:"description"`
	Category    string            `json:"category,omitempty"`
	Date        time.Time         `json:"date"`
	Timestamp   time.Time         `json:"timestamp"`
}

// NewExpenseEvent snapshots e for action.
func NewExpenseEvent(action core.LedgerAction, e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{
		Action:      action,
		ExpenseID:   e.ID,
		UserID:      e.UserID,
		Amount:      e.Amount,
		Description: e.Description,
		Category:    e.CategoryName(),
		Date:        e.Date,
		Timestamp:   time.Now(),
	}
}

// LedgerEntry converts the event into the row written by ledger sinks.
func (m *ExpenseEvent) LedgerEntry() core.LedgerEntry {
	return core.LedgerEntry{
		RecordedAt:  m.Timestamp,
		Action:      m.Action,
		ExpenseID:   m.ExpenseID,
		UserID:      m.UserID,
		Amount:      m.Amount,
		Description: m.Description,
		Category:    m.Category,
		Date:        m.Date,
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON decodes and sanity-checks an event body.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if !msg.Action.Valid() {
		return nil, fmt.Errorf("%w: unknown action %q", ErrMalformedEvent, msg.Action)
	}
	if msg.ExpenseID == "" || msg.UserID == "" {
		return nil, fmt.Errorf("%w: missing expense or user id", ErrMalformedEvent)
	}
	return &msg, nil
}
