package service

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrConflict        = errors.New("project code already exists")
	ErrProjectNotExist = errors.New("referenced project does not exist")
	ErrPersistence     = errors.New("failed to persist changes")
	ErrInvalidBatch    = errors.New("invalid batch request")
)

const (
	MsgProjectIDsRequired  = "projectIds must be a non-empty array"
	MsgProgressIDsRequired = "progressIds must be a non-empty array"
)

// ValidationError carries every violated rule of one input.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

// BatchError rejects a batch request before anything is loaded.
type BatchError struct {
	Reason string
}

func (e *BatchError) Error() string { return e.Reason }

func (e *BatchError) Is(target error) bool { return target == ErrInvalidBatch }
