package recurring

import (
	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/404Simon/splitify-backend/internal/types"
	"github.com/google/uuid"
)

// Store is the persistence contract the recurrence engine depends on.
type Store interface {
	// DueTemplates returns all templates eligible for generation as of the
	// given day: active, next occurrence arrived, not ended. Member
	// snapshots are loaded.
	DueTemplates(asOf types.Date) ([]models.RecurringTemplate, error)

	// Template returns a single template with its member snapshot loaded.
	Template(id uuid.UUID) (models.RecurringTemplate, error)

	// InTransaction runs fn inside a single database transaction,
	// committing on nil and rolling back on any error.
	InTransaction(fn func(tx Tx) error) error
}

// Tx is the transactional handle the engine uses for the atomic
// create-and-advance pair. Both writes commit together or not at all.
type Tx interface {
	// Template re-reads a template inside the transaction. Together with
	// SQLite's single-writer transactions this serializes the
	// check-due-then-write sequence against concurrent sweeps.
	Template(id uuid.UUID) (models.RecurringTemplate, error)

	// CreateSharedExpense inserts a generated expense including its
	// participant rows. The id is set on the passed expense.
	CreateSharedExpense(expense *models.SharedExpense) error

	// AdvanceTemplate moves a template's next occurrence date forward.
	AdvanceTemplate(id uuid.UUID, next types.Date) error
}
