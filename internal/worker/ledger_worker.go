package worker

import (
	"context"
	"fmt"

	"budgetly/internal/amqp"
	"budgetly/internal/log"
	"budgetly/internal/sheets"
)

// LedgerWorker mirrors expense events into a ledger, one row per event.
type LedgerWorker struct {
	ledger sheets.LedgerWriter
	logger *log.Logger
}

func NewLedgerWorker(ledger sheets.LedgerWriter, logger *log.Logger) *LedgerWorker {
	return &LedgerWorker{
		ledger: ledger,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent appends event to the ledger. A returned error asks the
// broker to redeliver it.
func (w *LedgerWorker) HandleEvent(ctx context.Context, event *amqp.ExpenseEvent) error {
	ref, err := w.ledger.Append(ctx, event.LedgerEntry())
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}

	w.logger.InfoContext(ctx, "Mirrored expense event",
		log.FieldAction, event.Action,
		log.FieldExpenseID, event.ExpenseID,
		log.FieldUserID, event.UserID,
		log.FieldLedgerRef, ref)

	return nil
}
