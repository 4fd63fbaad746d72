package payment

import (
	"errors"
	"fmt"
)

// ErrUnknownTransaction is returned when a callback references a session
// this system never opened. No phantom order or booking is ever created.
var ErrUnknownTransaction = errors.New("unknown transaction reference")

// MismatchError reports a callback whose amount or currency disagrees with
// the recorded session. The target stays PENDING and an operator is alerted.
type MismatchError struct {
	TxRef            string
	ExpectedAmount   float64
	ReportedAmount   float64
	ExpectedCurrency string
	ReportedCurrency string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("payment mismatch for %s: expected %.2f %s, gateway reported %.2f %s",
		e.TxRef, e.ExpectedAmount, e.ExpectedCurrency, e.ReportedAmount, e.ReportedCurrency)
}

// UpstreamError wraps a gateway transport failure.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
