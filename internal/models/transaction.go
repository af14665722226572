package models

import (
	"strings"

	"github.com/404Simon/splitify-backend/internal/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a direct settlement payment from one group member to
// another. It nets against existing debt; paying more than is owed is
// allowed and turns the payer into a net creditor.
type Transaction struct {
	DefaultModel
	GroupID     uuid.UUID       `json:"groupId"`
	Group       Group           `json:"-"`
	PayerID     uuid.UUID       `json:"payerId" gorm:"check:payer_recipient_different,payer_id != recipient_id"`
	Payer       User            `json:"-" gorm:"foreignKey:PayerID"`
	RecipientID uuid.UUID       `json:"recipientId"`
	Recipient   User            `json:"-" gorm:"foreignKey:RecipientID"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	Description string          `json:"description"`
}

// BeforeSave validates the transaction and rounds the amount to the two
// decimal places used for persisted amounts.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Description = strings.TrimSpace(t.Description)

	if t.PayerID == t.RecipientID {
		return ErrSelfTransaction
	}

	if !t.Amount.IsPositive() {
		return money.ErrAmountNotPositive
	}

	t.Amount = money.Round(t.Amount)
	return nil
}
