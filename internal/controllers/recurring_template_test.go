package controllers_test

import (
	"fmt"
	"net/http"

	"github.com/404Simon/splitify-backend/internal/controllers"
	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/404Simon/splitify-backend/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCreateRecurringTemplate() {
	endDate := types.Today().AddDays(365)

	recorder := suite.request(suite.alice.ID, http.MethodPost, fmt.Sprintf("/v1/groups/%s/templates", suite.group.ID), controllers.RecurringTemplateCreate{
		Name:      "Rent",
		Amount:    "1200.00",
		Frequency: "monthly",
		StartDate: types.Today(),
		EndDate:   &endDate,
		MemberIDs: []uuid.UUID{suite.alice.ID, suite.bob.ID},
	})
	suite.Require().Equal(http.StatusCreated, recorder.Code, recorder.Body.String())

	var template controllers.RecurringTemplateResponse
	suite.decode(recorder, &template)

	assert.Equal(suite.T(), "Rent", template.Name)
	assert.Equal(suite.T(), models.StatusActive, template.Status)
	assert.True(suite.T(), template.NextOccurrenceDate.Equal(template.StartDate), "the first occurrence is the start date")
	assert.ElementsMatch(suite.T(), []uuid.UUID{suite.alice.ID, suite.bob.ID}, template.MemberIDs)
}

func (suite *TestSuiteStandard) TestCreateRecurringTemplateStartInPast() {
	recorder := suite.request(suite.alice.ID, http.MethodPost, fmt.Sprintf("/v1/groups/%s/templates", suite.group.ID), controllers.RecurringTemplateCreate{
		Name:      "Rent",
		Amount:    "1200.00",
		Frequency: "monthly",
		StartDate: types.Today().AddDays(-1),
		MemberIDs: []uuid.UUID{suite.alice.ID},
	})
	assert.Equal(suite.T(), http.StatusBadRequest, recorder.Code)
}

func (suite *TestSuiteStandard) TestCreateRecurringTemplateInvalidFrequency() {
	recorder := suite.request(suite.alice.ID, http.MethodPost, fmt.Sprintf("/v1/groups/%s/templates", suite.group.ID), controllers.RecurringTemplateCreate{
		Name:      "Rent",
		Amount:    "1200.00",
		Frequency: "fortnightly",
		StartDate: types.Today(),
		MemberIDs: []uuid.UUID{suite.alice.ID},
	})
	assert.Equal(suite.T(), http.StatusBadRequest, recorder.Code)
}

func (suite *TestSuiteStandard) TestUpdateRecurringTemplateKeepsSchedule() {
	template := suite.createTestTemplate(suite.alice, suite.alice, suite.bob)

	recorder := suite.request(suite.alice.ID, http.MethodPatch, fmt.Sprintf("/v1/templates/%s", template.ID), controllers.RecurringTemplateUpdate{
		Name:      "Rent and utilities",
		Amount:    "1400.00",
		Frequency: "monthly",
		MemberIDs: []uuid.UUID{suite.alice.ID},
	})
	suite.Require().Equal(http.StatusOK, recorder.Code, recorder.Body.String())

	var updated controllers.RecurringTemplateResponse
	suite.decode(recorder, &updated)

	assert.Equal(suite.T(), "Rent and utilities", updated.Name)
	assert.True(suite.T(), updated.NextOccurrenceDate.Equal(template.NextOccurrenceDate), "editing must not move the schedule")
	assert.ElementsMatch(suite.T(), []uuid.UUID{suite.alice.ID}, updated.MemberIDs)
}

func (suite *TestSuiteStandard) TestUpdateRecurringTemplateNotCreator() {
	template := suite.createTestTemplate(suite.alice, suite.alice, suite.bob)

	recorder := suite.request(suite.bob.ID, http.MethodPatch, fmt.Sprintf("/v1/templates/%s", template.ID), controllers.RecurringTemplateUpdate{
		Name:      "Hijacked",
		Amount:    "1.00",
		Frequency: "monthly",
		MemberIDs: []uuid.UUID{suite.bob.ID},
	})
	assert.Equal(suite.T(), http.StatusForbidden, recorder.Code)
}

func (suite *TestSuiteStandard) TestToggleRecurringTemplate() {
	template := suite.createTestTemplate(suite.alice, suite.alice, suite.bob)

	recorder := suite.request(suite.alice.ID, http.MethodPost, fmt.Sprintf("/v1/templates/%s/toggle", template.ID), nil)
	suite.Require().Equal(http.StatusOK, recorder.Code, recorder.Body.String())

	var toggled controllers.RecurringTemplateResponse
	suite.decode(recorder, &toggled)
	assert.False(suite.T(), toggled.IsActive)
	assert.Equal(suite.T(), models.StatusPaused, toggled.Status)

	recorder = suite.request(suite.alice.ID, http.MethodPost, fmt.Sprintf("/v1/templates/%s/toggle", template.ID), nil)
	suite.Require().Equal(http.StatusOK, recorder.Code)

	suite.decode(recorder, &toggled)
	assert.True(suite.T(), toggled.IsActive)
	assert.Equal(suite.T(), models.StatusActive, toggled.Status)
}

func (suite *TestSuiteStandard) TestToggleRecurringTemplateNotCreator() {
	template := suite.createTestTemplate(suite.alice, suite.alice, suite.bob)

	recorder := suite.request(suite.bob.ID, http.MethodPost, fmt.Sprintf("/v1/templates/%s/toggle", template.ID), nil)
	assert.Equal(suite.T(), http.StatusForbidden, recorder.Code)
}

func (suite *TestSuiteStandard) TestGenerateFromTemplate() {
	template := suite.createTestTemplate(suite.alice, suite.alice, suite.bob)

	recorder := suite.request(suite.alice.ID, http.MethodPost, fmt.Sprintf("/v1/templates/%s/generate", template.ID), nil)
	suite.Require().Equal(http.StatusCreated, recorder.Code, recorder.Body.String())

	var expense controllers.SharedExpenseResponse
	suite.decode(recorder, &expense)
	assert.Equal(suite.T(), "Rent", expense.Name)
	suite.Require().NotNil(expense.RecurringTemplateID)
	assert.Equal(suite.T(), template.ID, *expense.RecurringTemplateID)
}

func (suite *TestSuiteStandard) TestGenerateFromTemplateNotCreator() {
	template := suite.createTestTemplate(suite.alice, suite.alice, suite.bob)

	recorder := suite.request(suite.bob.ID, http.MethodPost, fmt.Sprintf("/v1/templates/%s/generate", template.ID), nil)
	assert.Equal(suite.T(), http.StatusForbidden, recorder.Code)
}

func (suite *TestSuiteStandard) TestGenerateFromTemplatePaused() {
	template := suite.createTestTemplate(suite.alice, suite.alice, suite.bob)
	suite.Require().Nil(models.DB.Model(&template).UpdateColumn("is_active", false).Error)

	recorder := suite.request(suite.alice.ID, http.MethodPost, fmt.Sprintf("/v1/templates/%s/generate", template.ID), nil)
	assert.Equal(suite.T(), http.StatusBadRequest, recorder.Code)
}

func (suite *TestSuiteStandard) TestGetRecurringTemplateInstances() {
	template := suite.createTestTemplate(suite.alice, suite.alice, suite.bob)

	recorder := suite.request(suite.alice.ID, http.MethodPost, fmt.Sprintf("/v1/templates/%s/generate", template.ID), nil)
	suite.Require().Equal(http.StatusCreated, recorder.Code)

	recorder = suite.request(suite.bob.ID, http.MethodGet, fmt.Sprintf("/v1/templates/%s/instances", template.ID), nil)
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var instances []controllers.SharedExpenseResponse
	suite.decode(recorder, &instances)
	assert.Len(suite.T(), instances, 1)
}

func (suite *TestSuiteStandard) TestDeleteRecurringTemplateKeepsInstances() {
	template := suite.createTestTemplate(suite.alice, suite.alice, suite.bob)

	recorder := suite.request(suite.alice.ID, http.MethodPost, fmt.Sprintf("/v1/templates/%s/generate", template.ID), nil)
	suite.Require().Equal(http.StatusCreated, recorder.Code)

	var expense controllers.SharedExpenseResponse
	suite.decode(recorder, &expense)

	recorder = suite.request(suite.alice.ID, http.MethodDelete, fmt.Sprintf("/v1/templates/%s", template.ID), nil)
	suite.Require().Equal(http.StatusNoContent, recorder.Code)

	recorder = suite.request(suite.alice.ID, http.MethodGet, fmt.Sprintf("/v1/expenses/%s", expense.ID), nil)
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var reloaded controllers.SharedExpenseResponse
	suite.decode(recorder, &reloaded)
	assert.Nil(suite.T(), reloaded.RecurringTemplateID, "the template reference is cleared, the expense survives")
}

func (suite *TestSuiteStandard) TestGetRecurringTemplateNonMember() {
	template := suite.createTestTemplate(suite.alice, suite.alice, suite.bob)

	recorder := suite.request(suite.carol.ID, http.MethodGet, fmt.Sprintf("/v1/templates/%s", template.ID), nil)
	assert.Equal(suite.T(), http.StatusNotFound, recorder.Code)
}
