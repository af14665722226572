package controllers_test

import (
	"fmt"
	"net/http"

	"github.com/404Simon/splitify-backend/internal/controllers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCreateTransaction() {
	recorder := suite.request(suite.bob.ID, http.MethodPost, fmt.Sprintf("/v1/groups/%s/transactions", suite.group.ID), controllers.TransactionCreate{
		RecipientID: suite.alice.ID,
		Amount:      "30.00",
		Description: "rent share",
	})
	suite.Require().Equal(http.StatusCreated, recorder.Code, recorder.Body.String())

	var transaction controllers.TransactionResponse
	suite.decode(recorder, &transaction)

	assert.Equal(suite.T(), "bob", transaction.PayerUsername)
	assert.Equal(suite.T(), "alice", transaction.RecipientUsername)
	assert.True(suite.T(), transaction.IsPayer)
	assert.True(suite.T(), transaction.Amount.Equal(decimal.RequireFromString("30")))
}

func (suite *TestSuiteStandard) TestCreateTransactionToSelf() {
	recorder := suite.request(suite.bob.ID, http.MethodPost, fmt.Sprintf("/v1/groups/%s/transactions", suite.group.ID), controllers.TransactionCreate{
		RecipientID: suite.bob.ID,
		Amount:      "30.00",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, recorder.Code)
}

func (suite *TestSuiteStandard) TestCreateTransactionToNonMember() {
	recorder := suite.request(suite.bob.ID, http.MethodPost, fmt.Sprintf("/v1/groups/%s/transactions", suite.group.ID), controllers.TransactionCreate{
		RecipientID: suite.carol.ID,
		Amount:      "30.00",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, recorder.Code)
}

func (suite *TestSuiteStandard) TestCreateTransactionByNonMember() {
	recorder := suite.request(suite.carol.ID, http.MethodPost, fmt.Sprintf("/v1/groups/%s/transactions", suite.group.ID), controllers.TransactionCreate{
		RecipientID: suite.alice.ID,
		Amount:      "30.00",
	})
	assert.Equal(suite.T(), http.StatusForbidden, recorder.Code)
}

func (suite *TestSuiteStandard) TestUpdateTransactionOnlyPayer() {
	recorder := suite.request(suite.bob.ID, http.MethodPost, fmt.Sprintf("/v1/groups/%s/transactions", suite.group.ID), controllers.TransactionCreate{
		RecipientID: suite.alice.ID,
		Amount:      "30.00",
	})
	suite.Require().Equal(http.StatusCreated, recorder.Code)

	var transaction controllers.TransactionResponse
	suite.decode(recorder, &transaction)

	// The recipient cannot edit
	recorder = suite.request(suite.alice.ID, http.MethodPatch, fmt.Sprintf("/v1/transactions/%s", transaction.ID), controllers.TransactionUpdate{
		Amount: "10.00",
	})
	assert.Equal(suite.T(), http.StatusForbidden, recorder.Code)

	// The payer can
	recorder = suite.request(suite.bob.ID, http.MethodPatch, fmt.Sprintf("/v1/transactions/%s", transaction.ID), controllers.TransactionUpdate{
		Amount:      "10.00",
		Description: "corrected",
	})
	suite.Require().Equal(http.StatusOK, recorder.Code, recorder.Body.String())

	var updated controllers.TransactionResponse
	suite.decode(recorder, &updated)
	assert.True(suite.T(), updated.Amount.Equal(decimal.RequireFromString("10")))
	assert.Equal(suite.T(), "corrected", updated.Description)
}

func (suite *TestSuiteStandard) TestDeleteTransactionOnlyPayer() {
	recorder := suite.request(suite.bob.ID, http.MethodPost, fmt.Sprintf("/v1/groups/%s/transactions", suite.group.ID), controllers.TransactionCreate{
		RecipientID: suite.alice.ID,
		Amount:      "30.00",
	})
	suite.Require().Equal(http.StatusCreated, recorder.Code)

	var transaction controllers.TransactionResponse
	suite.decode(recorder, &transaction)

	recorder = suite.request(suite.alice.ID, http.MethodDelete, fmt.Sprintf("/v1/transactions/%s", transaction.ID), nil)
	assert.Equal(suite.T(), http.StatusForbidden, recorder.Code)

	recorder = suite.request(suite.bob.ID, http.MethodDelete, fmt.Sprintf("/v1/transactions/%s", transaction.ID), nil)
	suite.Require().Equal(http.StatusNoContent, recorder.Code)

	recorder = suite.request(suite.bob.ID, http.MethodGet, fmt.Sprintf("/v1/transactions/%s", transaction.ID), nil)
	assert.Equal(suite.T(), http.StatusNotFound, recorder.Code)
}
