// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package common

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNot200Status  = errors.New("not 200 status code")
	ErrUnexpectedMsg = errors.New("unexpected message format")
)

// EventWrapper is used to return errors from the websocket alongside the data
type EventWrapper[T any] struct {
	Data  T
	Error error
}

// RevertError is returned when the ledger rejected a call with a named error.
type RevertError struct {
	StatusCode int
	Name       string
	Selector   string
}

func (e *RevertError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Name)
	}
	return fmt.Sprintf("status %d: reverted with %s (%s)", e.StatusCode, e.Name, e.Selector)
}

// Is makes a RevertError match ErrNot200Status.
func (e *RevertError) Is(target error) bool {
	return target == ErrNot200Status
}
