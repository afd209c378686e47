package symbols

import (
	"errors"
	"fmt"
)

// ErrInvalidState is wrapped by every contract violation: a set-once slot
// assigned twice or a dependency query reaching an unbound symbol. Such
// errors mean the caller ran phases out of order and must not be retried.
var ErrInvalidState = errors.New("invalid symbol state")

// ContractError describes which operation was misused and on what symbol.
type ContractError struct {
	Op     string
	Symbol string
	Reason string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Symbol, e.Reason)
}

func (e *ContractError) Unwrap() error { return ErrInvalidState }

func contractErr(op string, s *Symbol, reason string) error {
	return &ContractError{Op: op, Symbol: s.String(), Reason: reason}
}
