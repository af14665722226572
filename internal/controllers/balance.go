package controllers

import (
	"errors"
	"net/http"

	"github.com/404Simon/splitify-backend/internal/httperrors"
	"github.com/404Simon/splitify-backend/internal/ledger"
	"github.com/gin-gonic/gin"
)

// RegisterBalanceRoutes registers the balance routes with the group-scoped
// RouterGroup that is passed.
func (co Controller) RegisterBalanceRoutes(r *gin.RouterGroup) {
	r.GET("/balances", co.GetBalances)
}

// GetBalances returns the derived balance sheet for every member of the
// group: pairwise debt relationships, totals and the net position.
func (co Controller) GetBalances(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	groupID, ok := parseID(c, "groupId")
	if !ok {
		return
	}

	balances, err := co.Ledger.Balances(groupID, user)
	if err != nil {
		if errors.Is(err, ledger.ErrNotGroupMember) {
			httperrors.New(c, http.StatusForbidden, err.Error())
			return
		}

		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, balances)
}
