package controllers

import (
	"errors"
	"net/http"

	"github.com/404Simon/splitify-backend/internal/httperrors"
	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/404Simon/splitify-backend/internal/money"
	"github.com/404Simon/splitify-backend/internal/recurring"
	"github.com/404Simon/splitify-backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// RegisterRecurringTemplateRoutes registers the group-scoped template
// routes.
func (co Controller) RegisterRecurringTemplateRoutes(r *gin.RouterGroup) {
	r.GET("", co.GetRecurringTemplates)
	r.POST("", co.CreateRecurringTemplate)
}

// RegisterRecurringTemplateDetailRoutes registers the routes for a single
// recurring template.
func (co Controller) RegisterRecurringTemplateDetailRoutes(r *gin.RouterGroup) {
	r.GET("/:id", co.GetRecurringTemplate)
	r.PATCH("/:id", co.UpdateRecurringTemplate)
	r.DELETE("/:id", co.DeleteRecurringTemplate)
	r.POST("/:id/toggle", co.ToggleRecurringTemplate)
	r.POST("/:id/generate", co.GenerateFromTemplate)
	r.GET("/:id/instances", co.GetRecurringTemplateInstances)
}

type RecurringTemplateCreate struct {
	Name      string      `json:"name" binding:"required"`
	Amount    string      `json:"amount" binding:"required"`
	Frequency string      `json:"frequency" binding:"required"`
	StartDate types.Date  `json:"startDate" binding:"required"`
	EndDate   *types.Date `json:"endDate"`
	MemberIDs []uuid.UUID `json:"memberIds" binding:"required,min=1"`
}

// RecurringTemplateUpdate edits everything except the schedule anchor.
// StartDate and NextOccurrenceDate are immutable after creation.
type RecurringTemplateUpdate struct {
	Name      string      `json:"name" binding:"required"`
	Amount    string      `json:"amount" binding:"required"`
	Frequency string      `json:"frequency" binding:"required"`
	EndDate   *types.Date `json:"endDate"`
	MemberIDs []uuid.UUID `json:"memberIds" binding:"required,min=1"`
}

type RecurringTemplateResponse struct {
	models.RecurringTemplate
	CreatorUsername string      `json:"creatorUsername"`
	IsCreator       bool        `json:"isCreator"`
	MemberIDs       []uuid.UUID `json:"memberIds"`
	Status          string      `json:"status"`
}

func newRecurringTemplateResponse(template models.RecurringTemplate, actingUserID uuid.UUID) RecurringTemplateResponse {
	return RecurringTemplateResponse{
		RecurringTemplate: template,
		CreatorUsername:   template.Creator.Username,
		IsCreator:         template.CreatedBy == actingUserID,
		MemberIDs:         template.MemberIDs(),
		Status:            template.Status(types.Today()),
	}
}

// templateForUser loads a template and verifies that the acting user can
// see it. Not-found and no-access are collapsed into a single response on
// purpose.
func (co Controller) templateForUser(c *gin.Context, id, actingUserID uuid.UUID) (models.RecurringTemplate, bool) {
	var template models.RecurringTemplate
	err := co.DB.Preload("Members").Preload("Creator").First(&template, "id = ?", id).Error
	if err != nil {
		httperrors.Handler(c, err)
		return template, false
	}

	member, err := co.Store.IsMember(template.GroupID, actingUserID)
	if err != nil {
		httperrors.Handler(c, err)
		return template, false
	}

	if !member {
		httperrors.New(c, http.StatusNotFound, "There is no recurring template matching your query")
		return template, false
	}

	return template, true
}

// GetRecurringTemplates returns all recurring templates of a group, newest
// first.
func (co Controller) GetRecurringTemplates(c *gin.Context) {
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

	var templates []models.RecurringTemplate
	err := co.DB.
		Preload("Members").
		Preload("Creator").
		Where(&models.RecurringTemplate{GroupID: groupID}).
		Order("datetime(recurring_templates.created_at) DESC").
		Find(&templates).
		Error
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	data := make([]RecurringTemplateResponse, 0, len(templates))
	for _, template := range templates {
		data = append(data, newRecurringTemplateResponse(template, user))
	}

	c.JSON(http.StatusOK, data)
}

// CreateRecurringTemplate creates a recurring template. The member list is
// a snapshot: later group membership changes do not alter it.
func (co Controller) CreateRecurringTemplate(c *gin.Context) {
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

	var data RecurringTemplateCreate
	if !bindData(c, &data) {
		return
	}

	amount, err := money.Parse(data.Amount)
	if err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	frequency, err := types.ParseFrequency(data.Frequency)
	if err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	if data.StartDate.Before(types.Today()) {
		httperrors.New(c, http.StatusBadRequest, "The start date must not be in the past")
		return
	}

	members, err := co.groupUsers(groupID, data.MemberIDs)
	if err != nil {
		if errors.Is(err, models.ErrGroupMemberMissing) {
			httperrors.New(c, http.StatusBadRequest, err.Error())
			return
		}

		httperrors.Handler(c, err)
		return
	}

	template := models.RecurringTemplate{
		GroupID:   groupID,
		CreatedBy: user,
		Name:      data.Name,
		Amount:    amount,
		Frequency: frequency,
		StartDate: data.StartDate,
		EndDate:   data.EndDate,
		IsActive:  true,
		Members:   members,
	}

	if err := co.DB.Omit("Members.*").Create(&template).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	template.Creator = models.User{}
	_ = co.DB.First(&template.Creator, "id = ?", user).Error

	c.JSON(http.StatusCreated, newRecurringTemplateResponse(template, user))
}

// GetRecurringTemplate returns a single recurring template.
func (co Controller) GetRecurringTemplate(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	template, ok := co.templateForUser(c, id, user)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newRecurringTemplateResponse(template, user))
}

// UpdateRecurringTemplate edits a template. Only the creator may edit, and
// the schedule anchor stays put: editing never rewinds or advances the
// next occurrence.
func (co Controller) UpdateRecurringTemplate(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	template, ok := co.templateForUser(c, id, user)
	if !ok {
		return
	}

	if template.CreatedBy != user {
		httperrors.New(c, http.StatusForbidden, "Only the creator can edit this recurring template")
		return
	}

	var data RecurringTemplateUpdate
	if !bindData(c, &data) {
		return
	}

	amount, err := money.Parse(data.Amount)
	if err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	frequency, err := types.ParseFrequency(data.Frequency)
	if err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	members, err := co.groupUsers(template.GroupID, data.MemberIDs)
	if err != nil {
		if errors.Is(err, models.ErrGroupMemberMissing) {
			httperrors.New(c, http.StatusBadRequest, err.Error())
			return
		}

		httperrors.Handler(c, err)
		return
	}

	template.Name = data.Name
	template.Amount = amount
	template.Frequency = frequency
	template.EndDate = data.EndDate

	if err := co.DB.Omit("Members").Save(&template).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	if err := co.DB.Model(&template).Association("Members").Replace(members); err != nil {
		httperrors.Handler(c, err)
		return
	}

	template.Members = members
	c.JSON(http.StatusOK, newRecurringTemplateResponse(template, user))
}

// DeleteRecurringTemplate hard-deletes a template. Only the creator may
// delete. Generated expenses survive, their template reference is set to
// NULL by the schema.
func (co Controller) DeleteRecurringTemplate(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	template, ok := co.templateForUser(c, id, user)
	if !ok {
		return
	}

	if template.CreatedBy != user {
		httperrors.New(c, http.StatusForbidden, "Only the creator can delete this recurring template")
		return
	}

	if err := co.DB.Select(clause.Associations).Delete(&template).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleRecurringTemplate flips a template between active and paused. Only
// the creator may toggle.
func (co Controller) ToggleRecurringTemplate(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	template, ok := co.templateForUser(c, id, user)
	if !ok {
		return
	}

	if template.CreatedBy != user {
		httperrors.New(c, http.StatusForbidden, "Only the creator can pause or resume this recurring template")
		return
	}

	template.IsActive = !template.IsActive

	if err := co.DB.Omit("Members").Save(&template).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, newRecurringTemplateResponse(template, user))
}

// GenerateFromTemplate materializes a shared expense from the template
// right now, independent of the schedule.
func (co Controller) GenerateFromTemplate(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	// Visibility check first so that non-members cannot probe template ids
	if _, ok := co.templateForUser(c, id, user); !ok {
		return
	}

	expenseID, err := co.Recurring.GenerateNow(id, user)
	if err != nil {
		switch {
		case errors.Is(err, recurring.ErrNotCreator):
			httperrors.New(c, http.StatusForbidden, err.Error())
		case errors.Is(err, recurring.ErrTemplateInactive):
			httperrors.New(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, recurring.ErrNoMembers):
			httperrors.New(c, http.StatusBadRequest, err.Error())
		default:
			httperrors.Handler(c, err)
		}
		return
	}

	var expense models.SharedExpense
	err = co.DB.Preload("Participants").Preload("Creator").First(&expense, "id = ?", expenseID).Error
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, newSharedExpenseResponse(expense, user))
}

// GetRecurringTemplateInstances returns the shared expenses generated from
// the template, newest first.
func (co Controller) GetRecurringTemplateInstances(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	template, ok := co.templateForUser(c, id, user)
	if !ok {
		return
	}

	var expenses []models.SharedExpense
	err := co.DB.
		Preload("Participants").
		Preload("Creator").
		Where("recurring_template_id = ?", template.ID).
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
