package models

import "errors"

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	ErrNameEmpty          = errors.New("the name must not be empty")
	ErrNameTooLong        = errors.New("the name must be 255 characters or less")
	ErrFrequencyInvalid   = errors.New("the frequency must be one of: daily, weekly, monthly, yearly")
	ErrEndBeforeStart     = errors.New("the end date must be after the start date")
	ErrSelfTransaction    = errors.New("the payer and the recipient of a transaction must be different users")
	ErrUsernameNotUnique  = errors.New("the username is already in use")
	ErrGroupMemberMissing = errors.New("all participants must be members of the group")
)
