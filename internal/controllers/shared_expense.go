package controllers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/404Simon/splitify-backend/internal/httperrors"
	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/404Simon/splitify-backend/internal/money"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// RegisterSharedExpenseRoutes registers the group-scoped shared expense
// routes.
func (co Controller) RegisterSharedExpenseRoutes(r *gin.RouterGroup) {
	r.GET("", co.GetSharedExpenses)
	r.POST("", co.CreateSharedExpense)
}

// RegisterSharedExpenseDetailRoutes registers the routes for a single
// shared expense.
func (co Controller) RegisterSharedExpenseDetailRoutes(r *gin.RouterGroup) {
	r.GET("/:id", co.GetSharedExpense)
	r.PATCH("/:id", co.UpdateSharedExpense)
	r.DELETE("/:id", co.DeleteSharedExpense)
	r.GET("/:id/shares", co.GetSharedExpenseShares)
}

type SharedExpenseCreate struct {
	Name           string      `json:"name" binding:"required"`
	Amount         string      `json:"amount" binding:"required"`
	ParticipantIDs []uuid.UUID `json:"participantIds" binding:"required,min=1"`
}

// SharedExpenseResponse is a shared expense with the details needed for
// display.
type SharedExpenseResponse struct {
	models.SharedExpense
	CreatorUsername string      `json:"creatorUsername"`
	IsCreator       bool        `json:"isCreator"`
	ParticipantIDs  []uuid.UUID `json:"participantIds"`
}

// UserShare is one participant's equal share of a shared expense.
//
// Shares are amount / n rounded for display; they are not
// remainder-corrected, so they may not sum exactly to the expense amount.
type UserShare struct {
	UserID      uuid.UUID       `json:"userId"`
	Username    string          `json:"username"`
	ShareAmount decimal.Decimal `json:"shareAmount"`
}

func newSharedExpenseResponse(expense models.SharedExpense, actingUserID uuid.UUID) SharedExpenseResponse {
	return SharedExpenseResponse{
		SharedExpense:   expense,
		CreatorUsername: expense.Creator.Username,
		IsCreator:       expense.CreatedBy == actingUserID,
		ParticipantIDs:  expense.ParticipantIDs(),
	}
}

// expenseForUser loads an expense and verifies that the acting user can
// see it. Not-found and no-access are collapsed into a single response on
// purpose.
func (co Controller) expenseForUser(c *gin.Context, id, actingUserID uuid.UUID) (models.SharedExpense, bool) {
	var expense models.SharedExpense
	err := co.DB.Preload("Participants").Preload("Creator").First(&expense, "id = ?", id).Error
	if err != nil {
		httperrors.Handler(c, err)
		return expense, false
	}

	member, err := co.Store.IsMember(expense.GroupID, actingUserID)
	if err != nil {
		httperrors.Handler(c, err)
		return expense, false
	}

	if !member {
		httperrors.New(c, http.StatusNotFound, "There is no shared expense matching your query")
		return expense, false
	}

	return expense, true
}

// GetSharedExpenses returns all shared expenses of a group, newest first.
func (co Controller) GetSharedExpenses(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	groupID, ok := parseID(c, "groupId")
	if !ok {
		return
	}

	if !co.requireMember(c, groupID, user) {
		return
	}

	var expenses []models.SharedExpense
	err := co.DB.
		Preload("Participants").
		Preload("Creator").
		Where(&models.SharedExpense{GroupID: groupID}).
		Order("datetime(shared_expenses.created_at) DESC").
		Find(&expenses).
		Error
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	data := make([]SharedExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		data = append(data, newSharedExpenseResponse(expense, user))
	}

	c.JSON(http.StatusOK, data)
}

// CreateSharedExpense creates a shared expense split equally among the
// given participants, owed to the acting user.
func (co Controller) CreateSharedExpense(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	groupID, ok := parseID(c, "groupId")
	if !ok {
		return
	}

	if !co.requireMember(c, groupID, user) {
		return
	}

	var data SharedExpenseCreate
	if !bindData(c, &data) {
		return
	}

	amount, err := money.Parse(data.Amount)
	if err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	participants, err := co.groupUsers(groupID, data.ParticipantIDs)
	if err != nil {
		if errors.Is(err, models.ErrGroupMemberMissing) {
			httperrors.New(c, http.StatusBadRequest, err.Error())
			return
		}

		httperrors.Handler(c, err)
		return
	}

	expense := models.SharedExpense{
		GroupID:      groupID,
		CreatedBy:    user,
		Name:         data.Name,
		Amount:       amount,
		Participants: participants,
	}

	if err := co.DB.Omit("Participants.*").Create(&expense).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	expense.Creator = models.User{}
	_ = co.DB.First(&expense.Creator, "id = ?", user).Error

	c.JSON(http.StatusCreated, newSharedExpenseResponse(expense, user))
}

// GetSharedExpense returns a single shared expense.
func (co Controller) GetSharedExpense(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	expense, ok := co.expenseForUser(c, id, user)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newSharedExpenseResponse(expense, user))
}

// UpdateSharedExpense replaces name, amount and the full participant set
// of an expense. Only the creator may edit.
func (co Controller) UpdateSharedExpense(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	expense, ok := co.expenseForUser(c, id, user)
	if !ok {
		return
	}

	if expense.CreatedBy != user {
		httperrors.New(c, http.StatusForbidden, "Only the creator can edit this shared expense")
		return
	}

	var data SharedExpenseCreate
	if !bindData(c, &data) {
		return
	}

	amount, err := money.Parse(data.Amount)
	if err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	participants, err := co.groupUsers(expense.GroupID, data.ParticipantIDs)
	if err != nil {
		if errors.Is(err, models.ErrGroupMemberMissing) {
			httperrors.New(c, http.StatusBadRequest, err.Error())
			return
		}

		httperrors.Handler(c, err)
		return
	}

	expense.Name = data.Name
	expense.Amount = amount

	if err := co.DB.Omit("Participants").Save(&expense).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	// Full replace of the participant set, not an incremental edit
	if err := co.DB.Model(&expense).Association("Participants").Replace(participants); err != nil {
		httperrors.Handler(c, err)
		return
	}

	expense.Participants = participants
	c.JSON(http.StatusOK, newSharedExpenseResponse(expense, user))
}

// DeleteSharedExpense hard-deletes an expense and its participant rows.
// Only the creator may delete.
func (co Controller) DeleteSharedExpense(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	expense, ok := co.expenseForUser(c, id, user)
	if !ok {
		return
	}

	if expense.CreatedBy != user {
		httperrors.New(c, http.StatusForbidden, "Only the creator can delete this shared expense")
		return
	}

	if err := co.DB.Select(clause.Associations).Delete(&expense).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSharedExpenseShares returns the equal split of an expense, one share
// per participant, ordered by username.
func (co Controller) GetSharedExpenseShares(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	expense, ok := co.expenseForUser(c, id, user)
	if !ok {
		return
	}

	participants := expense.Participants
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].Username < participants[j].Username
	})

	shares := make([]UserShare, 0, len(participants))
	for _, participant := range participants {
		shares = append(shares, UserShare{
			UserID:      participant.ID,
			Username:    participant.Username,
			ShareAmount: money.Round(money.Share(expense.Amount, len(participants))),
		})
	}

	c.JSON(http.StatusOK, shares)
}
