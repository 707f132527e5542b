package constants

import "errors"

// Configuration errors.
var (
	ErrNoAPIKeyConfigured = errors.New("no API key configured, use 'stripe configure' or set STRIPEKIT_API_KEY")
	ErrEmptyAPIKey        = errors.New("API key cannot be empty")
	ErrInvalidOutput      = errors.New("invalid output format, use table, json or yaml")
)

// Validation errors.
var (
	ErrInvalidKeyValue   = errors.New("expected key=value")
	ErrInvalidCurrency   = errors.New("currency must be a three-letter code")
	ErrInvalidAmount     = errors.New("amount must be a positive integer")
	ErrInvalidGender     = errors.New("gender must be female or male")
	ErrInvalidSourceType = errors.New("unknown source type")
	ErrInvalidUsage      = errors.New("usage must be reusable or single_use")
	ErrInvalidFlow       = errors.New("unknown source flow")
	ErrInvalidDOB        = errors.New("date of birth must be YYYY-MM-DD")
)

// Required field errors.
var (
	ErrAmountRequired      = errors.New("--amount flag is required")
	ErrCurrencyRequired    = errors.New("--currency flag is required")
	ErrDisplayNameRequired = errors.New("--display-name flag is required")
	ErrAccountRequired     = errors.New("--account flag is required")
	ErrTypeRequired        = errors.New("--type flag is required")
	ErrCustomerRequired    = errors.New("--customer flag is required")
)

// Batch errors.
var (
	ErrSomeOperationsFailed = errors.New("one or more operations failed")
)
