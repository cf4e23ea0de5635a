package domain

import "errors"

var (
	ErrMissingConfig           = errors.New("missing required configuration value")
	ErrProcessedColumnNotFound = errors.New("processed column not found in source table")
	ErrHeaderMismatch          = errors.New("worksheet header does not match canonical schema")
	ErrEmptyPayload            = errors.New("dispatch payload contains no fields")
	ErrNoRecipients            = errors.New("no email recipients provided")
)
