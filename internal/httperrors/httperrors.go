// Package httperrors maps errors to HTTP responses.
package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/go-sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type HTTPError struct {
	Error string `json:"error" example:"There is no recurring template matching your query"`
}

// New writes an HTTP error response on the fly.
func New(c *gin.Context, status int, msgAndArgs ...any) {
	msg := ""
	if len(msgAndArgs) == 1 {
		if msgAsStr, ok := msgAndArgs[0].(string); ok {
			msg = msgAsStr
		}
		msg = fmt.Sprintf("%+v", msg)
	}

	if len(msgAndArgs) > 1 {
		msg = fmt.Sprintf(msgAndArgs[0].(string), msgAndArgs[1:]...)
	}

	c.JSON(status, HTTPError{
		Error: msg,
	})
}

// InvalidUUID writes the response for an unparseable resource id.
func InvalidUUID(c *gin.Context) {
	New(c, http.StatusBadRequest, "The specified resource ID is not a valid UUID")
}

// DBErrorMessage returns an error message and status code appropriate to
// the database error that has occurred.
func DBErrorMessage(err error) (int, string) {
	// Payer and recipient of a transaction need to be different
	if strings.Contains(err.Error(), "CHECK constraint failed: payer_recipient_different") {
		return http.StatusBadRequest, models.ErrSelfTransaction.Error()

		// Usernames are globally unique
	} else if strings.Contains(err.Error(), "UNIQUE constraint failed: users.username") {
		return http.StatusBadRequest, models.ErrUsernameNotUnique.Error()

		// General message when a field references a non-existing resource
	} else if strings.Contains(err.Error(), "constraint failed: FOREIGN KEY constraint failed") {
		return http.StatusBadRequest, "There is no resource for the ID you specified in the reference to another resource"

		// A general error we do not know more about
	} else {
		log.Error().Msgf("%T: %v", err, err.Error())
		return http.StatusInternalServerError, "A database error occurred during your request"
	}
}

// Handler writes the response for an error raised while handling a
// request.
func Handler(c *gin.Context, err error) {
	// No record found => 404
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, models.ErrResourceNotFound) {
		New(c, http.StatusNotFound, err.Error())

		// Database error
	} else if reflect.TypeOf(err) == reflect.TypeOf(&sqlite.Error{}) {
		code, msg := DBErrorMessage(err)
		New(c, code, msg)

		// End of file reached when reading the request body
	} else if errors.Is(io.EOF, err) {
		New(c, http.StatusBadRequest, "The request body must not be empty")

		// Time could not be parsed. The error string describes the
		// problem well enough
	} else if reflect.TypeOf(err) == reflect.TypeOf(&time.ParseError{}) {
		New(c, http.StatusBadRequest, err.Error())

		// All other errors
	} else {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		New(c, http.StatusInternalServerError, fmt.Sprintf("%s. The request id is '%v', send this to your server administrator to help them find the problem", models.ErrGeneral.Error(), requestid.Get(c)))
	}
}
