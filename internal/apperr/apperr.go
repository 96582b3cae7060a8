// Package apperr memberi setiap pelanggaran aturan bisnis sebuah kode
// machine-readable plus konteks nilai batasnya, supaya handler bisa
// membalas 422 yang menyebut invariant yang dilanggar, bukan error generik.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeOverpayment       Code = "OVERPAYMENT"
	CodeBackdatedPayment  Code = "BACKDATED_PAYMENT"
	CodeMissingAsset      Code = "MISSING_ASSET"
	CodeIncompleteCount   Code = "INCOMPLETE_COUNT"
	CodeInvalidTransition Code = "INVALID_STATE_TRANSITION"
	CodeInternal          Code = "INTERNAL"
)

// Error adalah business-rule violation dengan kode dan pesan spesifik.
type Error struct {
	Code    Code     `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"` // untuk validation error per field
}

func (e *Error) Error() string { return e.Message }

// CodeOf mengembalikan kode dari err, atau CodeInternal bila err bukan
// *Error (kegagalan tak terduga: datastore down, constraint violation).
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func Validation(fields ...string) *Error {
	msg := "validation failed"
	if len(fields) > 0 {
		msg = "validation failed: " + fields[0]
	}
	return &Error{Code: CodeValidation, Message: msg, Fields: fields}
}

func NotFound(entity string) *Error {
	return &Error{Code: CodeNotFound, Message: entity + " not found"}
}

func InsufficientStock(available int) *Error {
	return &Error{Code: CodeInsufficientStock, Message: fmt.Sprintf("insufficient stock (available: %d)", available)}
}

func Overpayment(remaining int64) *Error {
	return &Error{Code: CodeOverpayment, Message: fmt.Sprintf("payment exceeds remaining balance (remaining: %d)", remaining)}
}

func BackdatedPayment(earliest time.Time) *Error {
	return &Error{Code: CodeBackdatedPayment, Message: fmt.Sprintf("payment date precedes earliest allowed date %s", earliest.Format("2006-01-02"))}
}

func MissingAsset(msg string) *Error {
	return &Error{Code: CodeMissingAsset, Message: msg}
}

func IncompleteCount(msg string) *Error {
	return &Error{Code: CodeIncompleteCount, Message: msg}
}

func InvalidTransition(msg string) *Error {
	return &Error{Code: CodeInvalidTransition, Message: msg}
}
