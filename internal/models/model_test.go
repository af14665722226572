package models_test

import (
	"time"

	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestModelTimeUTC() {
	tz, _ := time.LoadLocation("Europe/Berlin")

	model := models.DefaultModel{
		CreatedAt: time.Date(2000, 1, 2, 3, 4, 5, 6, tz),
		UpdatedAt: time.Date(2001, 2, 3, 4, 5, 6, 7, tz),
	}

	err := model.AfterFind(models.DB)
	if err != nil {
		assert.Fail(suite.T(), "model.AfterFind failed")
	}

	assert.Equal(suite.T(), time.UTC, model.CreatedAt.Location(), "Timezone for model is not UTC")
	assert.Equal(suite.T(), time.UTC, model.UpdatedAt.Location(), "Timezone for model is not UTC")
}

func (suite *TestSuiteStandard) TestModelGeneratesID() {
	user := suite.createTestUser("alice")
	assert.NotEqual(suite.T(), uuid.Nil, user.ID)
}

func (suite *TestSuiteStandard) TestModelKeepsSetID() {
	id := uuid.New()

	user := models.User{DefaultModel: models.DefaultModel{ID: id}, Username: "alice"}
	suite.Require().Nil(models.DB.Create(&user).Error)

	assert.Equal(suite.T(), id, user.ID)
}
