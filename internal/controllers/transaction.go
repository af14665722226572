package controllers

import (
	"net/http"

	"github.com/404Simon/splitify-backend/internal/httperrors"
	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/404Simon/splitify-backend/internal/money"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterTransactionRoutes registers the group-scoped settlement routes.
func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	r.GET("", co.GetTransactions)
	r.POST("", co.CreateTransaction)
}

// RegisterTransactionDetailRoutes registers the routes for a single
// settlement transaction.
func (co Controller) RegisterTransactionDetailRoutes(r *gin.RouterGroup) {
	r.GET("/:id", co.GetTransaction)
	r.PATCH("/:id", co.UpdateTransaction)
	r.DELETE("/:id", co.DeleteTransaction)
}

type TransactionCreate struct {
	RecipientID uuid.UUID `json:"recipientId" binding:"required"`
	Amount      string    `json:"amount" binding:"required"`
	Description string    `json:"description"`
}

// TransactionUpdate edits amount and description. Payer and recipient are
// fixed once the transaction is recorded.
type TransactionUpdate struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
}

type TransactionResponse struct {
	models.Transaction
	PayerUsername     string `json:"payerUsername"`
	RecipientUsername string `json:"recipientUsername"`
	IsPayer           bool   `json:"isPayer"`
}

func newTransactionResponse(transaction models.Transaction, actingUserID uuid.UUID) TransactionResponse {
	return TransactionResponse{
		Transaction:       transaction,
		PayerUsername:     transaction.Payer.Username,
		RecipientUsername: transaction.Recipient.Username,
		IsPayer:           transaction.PayerID == actingUserID,
	}
}

// transactionForUser loads a transaction and verifies that the acting user
// can see it. Not-found and no-access are collapsed into a single response
// on purpose.
func (co Controller) transactionForUser(c *gin.Context, id, actingUserID uuid.UUID) (models.Transaction, bool) {
	var transaction models.Transaction
	err := co.DB.Preload("Payer").Preload("Recipient").First(&transaction, "id = ?", id).Error
	if err != nil {
		httperrors.Handler(c, err)
		return transaction, false
	}

	member, err := co.Store.IsMember(transaction.GroupID, actingUserID)
	if err != nil {
		httperrors.Handler(c, err)
		return transaction, false
	}

	if !member {
		httperrors.New(c, http.StatusNotFound, "There is no transaction matching your query")
		return transaction, false
	}

	return transaction, true
}

// GetTransactions returns all settlement transactions of a group, newest
// first.
func (co Controller) GetTransactions(c *gin.Context) {
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

	var transactions []models.Transaction
	err := co.DB.
		Preload("Payer").
		Preload("Recipient").
		Where(&models.Transaction{GroupID: groupID}).
		Order("datetime(transactions.created_at) DESC").
		Find(&transactions).
		Error
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	data := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		data = append(data, newTransactionResponse(transaction, user))
	}

	c.JSON(http.StatusOK, data)
}

// CreateTransaction records a settlement payment from the acting user to
// another group member. The amount is not capped at the outstanding debt.
func (co Controller) CreateTransaction(c *gin.Context) {
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

	var data TransactionCreate
	if !bindData(c, &data) {
		return
	}

	if data.RecipientID == user {
		httperrors.New(c, http.StatusBadRequest, models.ErrSelfTransaction.Error())
		return
	}

	amount, err := money.Parse(data.Amount)
	if err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	recipientIsMember, err := co.Store.IsMember(groupID, data.RecipientID)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	if !recipientIsMember {
		httperrors.New(c, http.StatusBadRequest, models.ErrGroupMemberMissing.Error())
		return
	}

	transaction := models.Transaction{
		GroupID:     groupID,
		PayerID:     user,
		RecipientID: data.RecipientID,
		Amount:      amount,
		Description: data.Description,
	}

	if err := co.DB.Create(&transaction).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	_ = co.DB.First(&transaction.Payer, "id = ?", transaction.PayerID).Error
	_ = co.DB.First(&transaction.Recipient, "id = ?", transaction.RecipientID).Error

	c.JSON(http.StatusCreated, newTransactionResponse(transaction, user))
}

// GetTransaction returns a single settlement transaction.
func (co Controller) GetTransaction(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	transaction, ok := co.transactionForUser(c, id, user)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newTransactionResponse(transaction, user))
}

// UpdateTransaction edits amount and description of a settlement. Only
// the payer may edit.
func (co Controller) UpdateTransaction(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	transaction, ok := co.transactionForUser(c, id, user)
	if !ok {
		return
	}

	if transaction.PayerID != user {
		httperrors.New(c, http.StatusForbidden, "Only the payer can edit this transaction")
		return
	}

	var data TransactionUpdate
	if !bindData(c, &data) {
		return
	}

	amount, err := money.Parse(data.Amount)
	if err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	transaction.Amount = amount
	transaction.Description = data.Description

	if err := co.DB.Save(&transaction).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, newTransactionResponse(transaction, user))
}

// DeleteTransaction hard-deletes a settlement. Only the payer may delete.
func (co Controller) DeleteTransaction(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	transaction, ok := co.transactionForUser(c, id, user)
	if !ok {
		return
	}

	if transaction.PayerID != user {
		httperrors.New(c, http.StatusForbidden, "Only the payer can delete this transaction")
		return
	}

	if err := co.DB.Delete(&transaction).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
