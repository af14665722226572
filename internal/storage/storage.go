// Package storage implements the ledger and recurring store contracts on
// top of gorm.
package storage

import (
	"time"

	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/404Simon/splitify-backend/internal/recurring"
	"github.com/404Simon/splitify-backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Storage bundles all database access behind the service contracts.
type Storage struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

// IsMember reports whether the user is a member of the group.
func (s *Storage) IsMember(groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.
		Table("group_members").
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).
		Error

	return count > 0, err
}

// Members returns all members of the group, ordered by username.
func (s *Storage) Members(groupID uuid.UUID) ([]models.User, error) {
	var members []models.User
	err := s.db.
		Joins("JOIN group_members ON group_members.user_id = users.id").
		Where("group_members.group_id = ?", groupID).
		Order("users.username").
		Find(&members).
		Error

	return members, err
}

// SharedExpenses returns all shared expenses of the group with their
// participants loaded.
func (s *Storage) SharedExpenses(groupID uuid.UUID) ([]models.SharedExpense, error) {
	var expenses []models.SharedExpense
	err := s.db.
		Preload("Participants").
		Where(&models.SharedExpense{GroupID: groupID}).
		Order("datetime(shared_expenses.created_at) DESC").
		Find(&expenses).
		Error

	return expenses, err
}

// Transactions returns all settlement transactions of the group.
func (s *Storage) Transactions(groupID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.
		Where(&models.Transaction{GroupID: groupID}).
		Order("datetime(transactions.created_at) DESC").
		Find(&transactions).
		Error

	return transactions, err
}

// DueTemplates returns all templates eligible for generation as of the
// given day.
func (s *Storage) DueTemplates(asOf types.Date) ([]models.RecurringTemplate, error) {
	var templates []models.RecurringTemplate
	err := s.db.
		Preload("Members").
		Where("is_active = ?", true).
		// Exclusive upper bound with the next day: the column holds a
		// timestamp, date(?) a plain date, and the two do not compare
		// equal as strings
		Where("next_occurrence_date < date(?)", asOf.AddDays(1)).
		Where("end_date IS NULL OR end_date >= date(?)", asOf).
		Find(&templates).
		Error

	return templates, err
}

// Template returns a single template with its member snapshot loaded.
func (s *Storage) Template(id uuid.UUID) (models.RecurringTemplate, error) {
	var template models.RecurringTemplate
	err := s.db.Preload("Members").First(&template, "id = ?", id).Error
	return template, err
}

// InTransaction runs fn inside a single database transaction, committing
// on nil and rolling back on any error.
func (s *Storage) InTransaction(fn func(tx recurring.Tx) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&storageTx{db: tx})
	})
}

// storageTx is the transactional handle passed to the recurrence engine.
type storageTx struct {
	db *gorm.DB
}

func (t *storageTx) Template(id uuid.UUID) (models.RecurringTemplate, error) {
	var template models.RecurringTemplate
	err := t.db.Preload("Members").First(&template, "id = ?", id).Error
	return template, err
}

// CreateSharedExpense inserts a generated expense and its participant
// rows. The participant users already exist, only the join rows are
// written.
func (t *storageTx) CreateSharedExpense(expense *models.SharedExpense) error {
	return t.db.Omit("Participants.*").Create(expense).Error
}

// AdvanceTemplate moves the schedule forward. UpdateColumns skips the
// model hooks, the validation ran when the template was saved.
func (t *storageTx) AdvanceTemplate(id uuid.UUID, next types.Date) error {
	return t.db.
		Model(&models.RecurringTemplate{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"next_occurrence_date": next,
			"updated_at":           time.Now().In(time.UTC),
		}).
		Error
}
