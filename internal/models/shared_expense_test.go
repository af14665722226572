package models_test

import (
	"strings"
	"testing"

	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/404Simon/splitify-backend/internal/money"
	"github.com/404Simon/splitify-backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestSharedExpenseValidation() {
	alice := suite.createTestUser("alice")
	group := suite.createTestGroup(alice)

	tests := []struct {
		name     string
		expense  models.SharedExpense
		expected error
	}{
		{
			"empty name",
			models.SharedExpense{Name: "  ", Amount: decimal.NewFromInt(10)},
			models.ErrNameEmpty,
		},
		{
			"name too long",
			models.SharedExpense{Name: strings.Repeat("a", 256), Amount: decimal.NewFromInt(10)},
			models.ErrNameTooLong,
		},
		{
			"zero amount",
			models.SharedExpense{Name: "Groceries", Amount: decimal.Zero},
			money.ErrAmountNotPositive,
		},
		{
			"negative amount",
			models.SharedExpense{Name: "Groceries", Amount: decimal.NewFromInt(-5)},
			money.ErrAmountNotPositive,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			expense := tt.expense
			expense.GroupID = group.ID
			expense.CreatedBy = alice.ID

			err := models.DB.Create(&expense).Error
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func (suite *TestSuiteStandard) TestSharedExpenseRoundsAmount() {
	alice := suite.createTestUser("alice")
	group := suite.createTestGroup(alice)

	expense := models.SharedExpense{
		GroupID:   group.ID,
		CreatedBy: alice.ID,
		Name:      "Fuel",
		Amount:    decimal.RequireFromString("33.333333"),
	}
	suite.Require().Nil(models.DB.Create(&expense).Error)

	assert.True(suite.T(), expense.Amount.Equal(decimal.RequireFromString("33.33")))
}

func (suite *TestSuiteStandard) TestSharedExpenseParticipantIDs() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	group := suite.createTestGroup(alice, bob)

	expense := models.SharedExpense{
		GroupID:      group.ID,
		CreatedBy:    alice.ID,
		Name:         "Dinner",
		Amount:       decimal.NewFromInt(40),
		Participants: []models.User{alice, bob},
	}
	suite.Require().Nil(models.DB.Omit("Participants.*").Create(&expense).Error)

	assert.ElementsMatch(suite.T(), []uuid.UUID{alice.ID, bob.ID}, expense.ParticipantIDs())
}

// Deleting a template must not delete its generated expenses, only the
// back reference.
func (suite *TestSuiteStandard) TestSharedExpenseKeepsHistoryOnTemplateDelete() {
	alice := suite.createTestUser("alice")
	group := suite.createTestGroup(alice)

	template := models.RecurringTemplate{
		GroupID:   group.ID,
		CreatedBy: alice.ID,
		Name:      "Rent",
		Amount:    decimal.NewFromInt(1200),
		Frequency: types.FrequencyMonthly,
		StartDate: types.NewDate(2026, 1, 1),
		IsActive:  true,
	}
	suite.Require().Nil(models.DB.Create(&template).Error)

	expense := models.SharedExpense{
		GroupID:             group.ID,
		CreatedBy:           alice.ID,
		Name:                "Rent",
		Amount:              decimal.NewFromInt(1200),
		RecurringTemplateID: &template.ID,
	}
	suite.Require().Nil(models.DB.Create(&expense).Error)

	suite.Require().Nil(models.DB.Delete(&template).Error)

	var reloaded models.SharedExpense
	suite.Require().Nil(models.DB.First(&reloaded, "id = ?", expense.ID).Error)
	assert.Nil(suite.T(), reloaded.RecurringTemplateID)
}
