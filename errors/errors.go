// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrCapabilityAlreadySet is returned when an actor tries to set its capability
	// descriptor a second time. The first descriptor is kept.
	ErrCapabilityAlreadySet = errors.New("capability already set")

	// ErrTypeAlreadyRegistered is returned when a type name is registered twice.
	// The first registration is kept.
	ErrTypeAlreadyRegistered = errors.New("actor type already registered")

	// ErrTypeNotRegistered is returned when a lookup targets an unknown type name.
	ErrTypeNotRegistered = errors.New("actor type not registered")

	// ErrRegistryDisposed is returned by any registry operation after Dispose.
	ErrRegistryDisposed = errors.New("registry disposed")

	// ErrInvalidFormat is returned when an api value format code is not one of i, f, s or b.
	ErrInvalidFormat = errors.New("invalid api value format")

	// ErrUnsupportedFormat is returned for the declared but unsupported binary format.
	ErrUnsupportedFormat = errors.New("unsupported api value format")

	// ErrInvalidValue is returned when an api value cannot be parsed with its format.
	ErrInvalidValue = errors.New("invalid api value")

	// ErrSelfConnect is returned when an actor is asked to subscribe to its own endpoint.
	ErrSelfConnect = errors.New("cannot connect an actor to itself")

	// ErrEndpointAlreadyBound is returned when a second publisher binds an endpoint.
	ErrEndpointAlreadyBound = errors.New("endpoint already bound")

	// ErrNotConnected is returned when disconnecting from an endpoint that is not connected.
	ErrNotConnected = errors.New("endpoint not connected")

	// ErrConnectFailed is returned when the actor rejected a connect request.
	ErrConnectFailed = errors.New("connect failed")

	// ErrDisconnectFailed is returned when the actor rejected a disconnect request.
	ErrDisconnectFailed = errors.New("disconnect failed")

	// ErrActorTerminated is returned when a request targets an actor that has been destroyed.
	ErrActorTerminated = errors.New("actor is terminated")

	// ErrUnknownCommand is returned by a behavior that does not understand a forwarded api command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidTimeout is returned when a timeout is neither -1 nor a non-negative number of milliseconds.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidUUID is returned when a supplied actor UUID cannot be parsed.
	ErrInvalidUUID = errors.New("invalid actor uuid")

	// ErrSourceNotFound is returned when a custom poll source id is unknown to the actor.
	ErrSourceNotFound = errors.New("poll source not found")

	// ErrActorNotFound is returned when a stage lookup misses.
	ErrActorNotFound = errors.New("actor not found")

	// ErrActorAlreadyExists is returned when a stage already holds an actor with the same uuid.
	ErrActorAlreadyExists = errors.New("actor already exists")

	// ErrInvalidConnection is returned when a stage connection entry is malformed.
	ErrInvalidConnection = errors.New("invalid connection")

	// ErrInitFailure is returned when an actor could not be started.
	ErrInitFailure = errors.New("failed to initialize")
)

// NewErrTypeNotRegistered formats an ErrTypeNotRegistered with the given type name.
func NewErrTypeNotRegistered(typeName string) error {
	return fmt.Errorf("type=(%s) %w", typeName, ErrTypeNotRegistered)
}

// NewErrTypeAlreadyRegistered formats an ErrTypeAlreadyRegistered with the given type name.
func NewErrTypeAlreadyRegistered(typeName string) error {
	return fmt.Errorf("type=(%s) %w", typeName, ErrTypeAlreadyRegistered)
}

// NewErrConnectFailed formats an ErrConnectFailed for the given destination.
func NewErrConnectFailed(destination string) error {
	return fmt.Errorf("destination=(%s) %w", destination, ErrConnectFailed)
}

// NewErrDisconnectFailed formats an ErrDisconnectFailed for the given destination.
func NewErrDisconnectFailed(destination string) error {
	return fmt.Errorf("destination=(%s) %w", destination, ErrDisconnectFailed)
}

// NewErrActorNotFound formats an ErrActorNotFound with the given uuid.
func NewErrActorNotFound(uuid string) error {
	return fmt.Errorf("(actor=%s) %w", uuid, ErrActorNotFound)
}

// NewErrInvalidConnection formats an ErrInvalidConnection with the offending entry.
func NewErrInvalidConnection(entry string) error {
	return fmt.Errorf("connection=(%s) %w", entry, ErrInvalidConnection)
}

// NewErrInitFailure wraps a base error with ErrInitFailure to indicate a startup failure.
func NewErrInitFailure(err error) error {
	return errors.Join(ErrInitFailure, err)
}

// ResultCode maps an error onto the numeric result code carried by control
// replies: 0 on success, -1 otherwise.
func ResultCode(err error) int {
	if err == nil {
		return 0
	}
	return -1
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}
