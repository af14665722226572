// Package controllers implements the HTTP handlers. Handlers are thin:
// bind, authorize, call into the services, shape the response.
package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/404Simon/splitify-backend/internal/httperrors"
	"github.com/404Simon/splitify-backend/internal/ledger"
	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/404Simon/splitify-backend/internal/recurring"
	"github.com/404Simon/splitify-backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"gorm.io/gorm"
)

// Controller bundles the dependencies of all handlers. Everything is
// injected, there is no ambient state.
type Controller struct {
	DB        *gorm.DB
	Store     *storage.Storage
	Ledger    *ledger.Service
	Recurring *recurring.Engine
}

func NewController(db *gorm.DB, store *storage.Storage, ledgerService *ledger.Service, engine *recurring.Engine) Controller {
	return Controller{
		DB:        db,
		Store:     store,
		Ledger:    ledgerService,
		Recurring: engine,
	}
}

// userID returns the id of the acting user.
//
// Authentication happens outside of this backend; the fronting proxy
// injects the authenticated user's id into the X-User-ID header.
func userID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetHeader("X-User-ID"))
	if err != nil {
		httperrors.New(c, http.StatusUnauthorized, "The X-User-ID header must contain the id of the authenticated user")
		return uuid.Nil, false
	}

	return id, true
}

// parseID parses a uuid from the named URI parameter.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperrors.InvalidUUID(c)
		return uuid.Nil, false
	}

	return id, true
}

// bindData binds the request body to data and writes the error response
// when binding fails. Validation errors from the binding tags are
// flattened into a readable message.
func bindData(c *gin.Context, data any) bool {
	err := c.ShouldBindJSON(data)
	if err == nil {
		return true
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields = append(fields, fmt.Sprintf("'%s' failed on the '%s' rule", fieldErr.Field(), fieldErr.Tag()))
		}

		httperrors.New(c, http.StatusBadRequest, "Request body is invalid: %s", strings.Join(fields, ", "))
		return false
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		httperrors.New(c, http.StatusBadRequest, "The request body is not valid JSON: %s", err.Error())
		return false
	}

	httperrors.Handler(c, err)
	return false
}

// requireMember verifies that the user is a member of the group and
// writes the error response if they are not.
func (co Controller) requireMember(c *gin.Context, groupID, userID uuid.UUID) bool {
	member, err := co.Store.IsMember(groupID, userID)
	if err != nil {
		httperrors.Handler(c, err)
		return false
	}

	if !member {
		httperrors.New(c, http.StatusForbidden, ledger.ErrNotGroupMember.Error())
		return false
	}

	return true
}

// groupUsers loads the users with the given ids and verifies that every
// one of them is a member of the group. Duplicate ids are collapsed.
func (co Controller) groupUsers(groupID uuid.UUID, ids []uuid.UUID) ([]models.User, error) {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	ids = maps.Keys(set)

	var users []models.User
	err := co.DB.
		Joins("JOIN group_members ON group_members.user_id = users.id").
		Where("group_members.group_id = ?", groupID).
		Where("users.id IN ?", ids).
		Find(&users).
		Error
	if err != nil {
		return nil, err
	}

	if len(users) != len(ids) {
		return nil, models.ErrGroupMemberMissing
	}

	return users, nil
}
