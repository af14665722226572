package models_test

import (
	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestUserTrimUsername() {
	user := models.User{Username: "  alice "}
	suite.Require().Nil(models.DB.Create(&user).Error)

	assert.Equal(suite.T(), "alice", user.Username)
}

func (suite *TestSuiteStandard) TestUserUsernameEmpty() {
	err := models.DB.Create(&models.User{Username: "   "}).Error
	assert.ErrorIs(suite.T(), err, models.ErrNameEmpty)
}

func (suite *TestSuiteStandard) TestUserUsernameUnique() {
	suite.createTestUser("alice")

	err := models.DB.Create(&models.User{Username: "alice"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrUsernameNotUnique)
}
