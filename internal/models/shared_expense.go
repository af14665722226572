package models

import (
	"strings"

	"github.com/404Simon/splitify-backend/internal/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SharedExpense is a one-off cost split equally among its participants,
// owed to its creator.
//
// Expenses are created by users or generated by the recurrence engine. A
// generated expense keeps a reference to its template; when the template is
// deleted the reference is set to NULL so that history survives.
type SharedExpense struct {
	DefaultModel
	GroupID             uuid.UUID          `json:"groupId"`
	Group               Group              `json:"-"`
	CreatedBy           uuid.UUID          `json:"createdBy"`
	Creator             User               `json:"-" gorm:"foreignKey:CreatedBy"`
	Name                string             `json:"name"`
	Amount              decimal.Decimal    `json:"amount" gorm:"type:DECIMAL(20,8)"`
	RecurringTemplateID *uuid.UUID         `json:"recurringTemplateId"`
	RecurringTemplate   *RecurringTemplate `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Participants        []User             `json:"-" gorm:"many2many:shared_expense_participants"`
}

// BeforeSave validates the expense and rounds the amount to the two decimal
// places used for persisted amounts.
func (e *SharedExpense) BeforeSave(_ *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return ErrNameEmpty
	}

	if len(e.Name) > 255 {
		return ErrNameTooLong
	}

	if !e.Amount.IsPositive() {
		return money.ErrAmountNotPositive
	}

	e.Amount = money.Round(e.Amount)
	return nil
}

// ParticipantIDs returns the ids of all participants.
func (e SharedExpense) ParticipantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e.Participants))
	for _, p := range e.Participants {
		ids = append(ids, p.ID)
	}

	return ids
}
