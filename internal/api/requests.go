package api

import (
	"github.com/go-playground/validator/v10"
)

var fieldValidator = validator.New(validator.WithRequiredStructEnabled())

// OrderRequest places a quick order for a book. CustomerID is optional; the
// server falls back to the requesting user.
type OrderRequest struct {
	BookID     int64  `json:"book_id" validate:"required,min=1"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
	CustomerID *int64 `json:"customer_id" validate:"omitempty,min=1"`
}

// Validate reports whether the request is well formed. The server remains
// the authority on stock and permissions.
func (r OrderRequest) Validate() error {
	return fieldValidator.Struct(r)
}

// ReturnRequest returns items from an order line. Quantity is checked only
// for being a positive integer: the max-quantity bound shown in the UI is
// advisory and the server re-validates it.
type ReturnRequest struct {
	OrderItemID int64  `json:"order_item_id" validate:"required,min=1"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
	Reason      string `json:"reason"`
}

// Validate reports whether the request is well formed.
func (r ReturnRequest) Validate() error {
	return fieldValidator.Struct(r)
}

// Outcome is the reconciled result of a mutating call. OK mirrors the
// server's success flag; Message carries the success text, Reason the
// server-provided error text verbatim.
type Outcome struct {
	OK       bool
	Message  string
	Reason   string
	OrderID  int64
	NewStock *int
}

// envelope is the wire shape of every mutating response.
type envelope struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Error    string `json:"error"`
	OrderID  int64  `json:"order_id"`
	NewStock *int   `json:"new_stock"`
}
