package ledger

import (
	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/google/uuid"
)

// Store is the persistence contract the ledger depends on. It is read-only:
// balances are derived on every request, never cached.
type Store interface {
	// IsMember reports whether the user is a member of the group.
	IsMember(groupID, userID uuid.UUID) (bool, error)

	// Members returns all members of the group, ordered by username.
	Members(groupID uuid.UUID) ([]models.User, error)

	// SharedExpenses returns all shared expenses of the group with their
	// participants loaded.
	SharedExpenses(groupID uuid.UUID) ([]models.SharedExpense, error)

	// Transactions returns all settlement transactions of the group.
	Transactions(groupID uuid.UUID) ([]models.Transaction, error)
}
