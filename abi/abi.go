// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"
	"errors"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/vechain/cstake/cstake"
)

// ABI holds information about methods, events and errors of contract.
type ABI struct {
	nameToMethod map[string]*Method
	nameToEvent  map[string]*Event
	nameToError  map[string]*Error
	methods      map[MethodID]*Method
	events       map[cstake.Bytes32]*Event
	errors       map[MethodID]*Error
	fallback     bool
}

// New create an ABI instance.
func New(data []byte) (*ABI, error) {
	parsed, err := ethabi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	abi := &ABI{
		nameToMethod: make(map[string]*Method),
		nameToEvent:  make(map[string]*Event),
		nameToError:  make(map[string]*Error),
		methods:      make(map[MethodID]*Method),
		events:       make(map[cstake.Bytes32]*Event),
		errors:       make(map[MethodID]*Error),
		fallback:     parsed.HasFallback() || parsed.HasReceive(),
	}

	for name := range parsed.Methods {
		m := parsed.Methods[name]
		var id MethodID
		copy(id[:], m.ID)
		method := &Method{id, &m}
		abi.methods[id] = method
		abi.nameToMethod[name] = method
	}
	for name := range parsed.Events {
		e := parsed.Events[name]
		event := newEvent(&e)
		abi.events[event.ID()] = event
		abi.nameToEvent[name] = event
	}
	for name := range parsed.Errors {
		e := parsed.Errors[name]
		var id MethodID
		copy(id[:], e.ID[:4])
		abiErr := &Error{id, &e}
		abi.errors[id] = abiErr
		abi.nameToError[name] = abiErr
	}
	return abi, nil
}

// MethodByInput find the method for given input.
// If the input shorter than MethodID, or method not found, an error returned.
func (a *ABI) MethodByInput(input []byte) (*Method, error) {
	id, err := ExtractMethodID(input)
	if err != nil {
		return nil, err
	}
	m, found := a.methods[id]
	if !found {
		return nil, errors.New("method not found")
	}
	return m, nil
}

// MethodByName find method for the given method name.
func (a *ABI) MethodByName(name string) (*Method, bool) {
	m, found := a.nameToMethod[name]
	return m, found
}

// MethodByID returns method for given method id.
func (a *ABI) MethodByID(id MethodID) (*Method, bool) {
	m, found := a.methods[id]
	return m, found
}

// Methods returns all methods.
func (a *ABI) Methods() []*Method {
	methods := make([]*Method, 0, len(a.methods))
	for _, m := range a.methods {
		methods = append(methods, m)
	}
	return methods
}

// EventByName find event for the given event name.
func (a *ABI) EventByName(name string) (*Event, bool) {
	e, found := a.nameToEvent[name]
	return e, found
}

// EventByID returns the event for the given event id.
func (a *ABI) EventByID(id cstake.Bytes32) (*Event, bool) {
	e, found := a.events[id]
	return e, found
}

// ErrorByName find custom error for the given name.
func (a *ABI) ErrorByName(name string) (*Error, bool) {
	e, found := a.nameToError[name]
	return e, found
}

// ErrorByID returns the custom error for the given selector.
func (a *ABI) ErrorByID(id MethodID) (*Error, bool) {
	e, found := a.errors[id]
	return e, found
}

// HasFallback returns whether the contract declares a fallback or receive function.
func (a *ABI) HasFallback() bool {
	return a.fallback
}

// unpack decodes data into v, a pointer to a single value or to a struct
// whose fields are named after the arguments.
func unpack(args ethabi.Arguments, v any, data []byte) error {
	values, err := args.Unpack(data)
	if err != nil {
		return err
	}
	return args.Copy(v, values)
}
