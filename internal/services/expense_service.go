package services

import (
	"context"
	"fmt"

	"budgetly/internal/amqp"
	"budgetly/internal/core"
	"budgetly/internal/log"
	"budgetly/internal/storage"
)

// EventPublisher delivers expense lifecycle events. *amqp.Client satisfies it.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, event *amqp.ExpenseEvent) error
}

// ExpenseService runs expense writes against the store and announces each
// successful one. Publishing is best effort: a failure is logged and the
// write still counts.
type ExpenseService struct {
	store     storage.ExpenseStore
	publisher EventPublisher
	logger    *log.Logger
}

// NewExpenseService builds the service. A nil publisher disables events.
func NewExpenseService(store storage.ExpenseStore, publisher EventPublisher, logger *log.Logger) *ExpenseService {
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentExpense),
	}
}

func (s *ExpenseService) List(ctx context.Context, userID string) ([]core.Expense, error) {
	return s.store.ListExpensesByUser(ctx, userID)
}

func (s *ExpenseService) ListPage(ctx context.Context, userID string, q storage.ExpenseQuery) ([]core.Expense, error) {
	return s.store.ListExpensesPage(ctx, userID, q)
}

func (s *ExpenseService) Get(ctx context.Context, id, ownerID string) (core.Expense, error) {
	return s.store.GetExpense(ctx, id, ownerID)
}

// Create stores a new expense. The category, if any, must already be
// known to be visible to the owner.
func (s *ExpenseService) Create(ctx context.Context, e storage.NewExpense) (core.Expense, error) {
	created, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	s.publish(ctx, core.ActionCreated, created)
	return created, nil
}

func (s *ExpenseService) Update(ctx context.Context, id, ownerID string, patch storage.ExpensePatch) (core.Expense, error) {
	updated, err := s.store.UpdateExpense(ctx, id, ownerID, patch)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	s.publish(ctx, core.ActionUpdated, updated)
	return updated, nil
}

// Delete removes e, which the caller fetched under the owner's scope.
// The fetched row is the snapshot carried by the deleted event.
func (s *ExpenseService) Delete(ctx context.Context, e core.Expense) error {
	if err := s.store.DeleteExpense(ctx, e.ID, e.UserID); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.publish(ctx, core.ActionDeleted, e)
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, action core.LedgerAction, e core.Expense) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, amqp.NewExpenseEvent(action, e)); err != nil {
		s.logger.LogError(ctx, "Failed to publish expense event", err, log.OpPublish,
			log.NewFields().
				WithErrorType(log.ErrorTypeNetwork).
				WithUser(e.UserID).
				With(log.FieldExpenseID, e.ID).
				With(log.FieldAction, action))
	}
}
