package request

import "errors"

var (
	ErrRequestNotFound         = errors.New("request not found")
	ErrRequestAlreadyProcessed = errors.New("request has already been approved or rejected")
	ErrInvalidRequestType      = errors.New("invalid request type")
)
