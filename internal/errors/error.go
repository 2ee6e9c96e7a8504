// Package errors provides the sentinel errors shared by the store, the ledgers and the transport.
package errors

import "errors"

var ErrInvalidInput = errors.New("invalid input")
var ErrInsufficientStock = errors.New("insufficient stock")

var ErrProductNotFound = errors.New("product not found")
var ErrCustomerNotFound = errors.New("customer not found")

var ErrNoData = errors.New("no data to export")
var ErrUnknownReport = errors.New("unknown report type")

var ErrUnknownCollection = errors.New("unknown collection")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")
