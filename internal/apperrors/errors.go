package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientStock indicates a stock movement would drive a counter below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInvalidTransition indicates an illegal transaction status transition.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrEmptyItemSet indicates a transaction was requested without any line items.
var ErrEmptyItemSet = errors.New("transaction requires at least one item")

// ErrInvalidQuantity indicates a line item quantity that is zero or negative.
var ErrInvalidQuantity = errors.New("item quantity must be positive")

// ErrConflict indicates concurrent contention (lock timeout); the caller may retry.
var ErrConflict = errors.New("conflicting concurrent operation")

// ErrForbidden indicates the acting user is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
