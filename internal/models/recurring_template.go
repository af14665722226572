package models

import (
	"strings"

	"github.com/404Simon/splitify-backend/internal/money"
	"github.com/404Simon/splitify-backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Display status of a recurring template. Computed, never persisted.
const (
	StatusActive  = "Active"
	StatusPaused  = "Paused"
	StatusExpired = "Expired"
)

// RecurringTemplate is a rule that periodically materializes new shared
// expenses for a group.
//
// NextOccurrenceDate is advanced only by the recurrence engine, never by a
// user edit. StartDate is immutable after creation.
type RecurringTemplate struct {
	DefaultModel
	GroupID            uuid.UUID       `json:"groupId"`
	Group              Group           `json:"-"`
	CreatedBy          uuid.UUID       `json:"createdBy"`
	Creator            User            `json:"-" gorm:"foreignKey:CreatedBy"`
	Name               string          `json:"name"`
	Amount             decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	Frequency          types.Frequency `json:"frequency"`
	StartDate          types.Date      `json:"startDate"`
	EndDate            *types.Date     `json:"endDate"`
	NextOccurrenceDate types.Date      `json:"nextOccurrenceDate"`
	IsActive           bool            `json:"isActive" gorm:"default:true"`
	Members            []User          `json:"-" gorm:"many2many:recurring_template_members"`
}

// BeforeSave validates the template and rounds the amount to the two
// decimal places used for persisted amounts.
func (t *RecurringTemplate) BeforeSave(_ *gorm.DB) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return ErrNameEmpty
	}

	if len(t.Name) > 255 {
		return ErrNameTooLong
	}

	if !t.Amount.IsPositive() {
		return money.ErrAmountNotPositive
	}

	if !t.Frequency.Valid() {
		return ErrFrequencyInvalid
	}

	if t.EndDate != nil && !t.EndDate.After(t.StartDate) {
		return ErrEndBeforeStart
	}

	t.Amount = money.Round(t.Amount)
	return nil
}

// BeforeCreate initializes the schedule: the first occurrence is the
// start date.
func (t *RecurringTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.NextOccurrenceDate.IsZero() {
		t.NextOccurrenceDate = t.StartDate
	}

	return t.DefaultModel.BeforeCreate(tx)
}

// DueOn reports whether the template is eligible for generation on the
// given day: active, the next occurrence has arrived, and the template has
// not ended.
func (t RecurringTemplate) DueOn(day types.Date) bool {
	if !t.IsActive {
		return false
	}

	if t.EndDate != nil && day.After(*t.EndDate) {
		return false
	}

	return !day.Before(t.NextOccurrenceDate)
}

// Status returns the display status as of the given day. An expired
// template keeps IsActive untouched, the status is derived on read.
func (t RecurringTemplate) Status(today types.Date) string {
	if !t.IsActive {
		return StatusPaused
	}

	if t.EndDate != nil && today.After(*t.EndDate) {
		return StatusExpired
	}

	return StatusActive
}

// MemberIDs returns the ids of the template's member snapshot.
func (t RecurringTemplate) MemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.Members))
	for _, m := range t.Members {
		ids = append(ids, m.ID)
	}

	return ids
}
