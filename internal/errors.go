package internal

import "github.com/pkg/errors"

var (
	ErrNoRecords          = errors.New("no records")
	ErrOrderAlreadyExists = errors.New("order already exists")

	ErrInvalidOrder      = errors.New("invalid order")
	ErrEmptyFiscalID     = errors.New("fiscal id is empty")
	ErrInvalidTransition = errors.New("status transition is not allowed")

	ErrInvalidConfig = errors.New("invalid config")
)
