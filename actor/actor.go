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

package actor

import (
	"errors"
	"reflect"

	"github.com/tochemey/sphactor/capability"
	gerrors "github.com/tochemey/sphactor/errors"
	"github.com/tochemey/sphactor/log"
	"github.com/tochemey/sphactor/message"
)

// UUID returns the actor identifier as 32 upper case hex characters.
func (a *Actor) UUID() string {
	return a.uuid
}

// Name returns the actor name.
func (a *Actor) Name() string {
	return a.name
}

// Type returns the actor type name. It is empty for actors not created
// from a registry.
func (a *Actor) Type() string {
	return a.typeName
}

// Endpoint returns the endpoint other actors connect to.
func (a *Actor) Endpoint() string {
	return a.endpoint
}

// Timeout returns the timeout in milliseconds, -1 when TIME events are disabled.
func (a *Actor) Timeout() int64 {
	return a.timeout
}

// SetTimeout sets the timeout in milliseconds and rearms the deadline from now.
// A negative timeout disables TIME events.
func (a *Actor) SetTimeout(timeout int64) {
	a.timeout = normalizeTimeout(timeout)
	a.armDeadline()
}

// Capability returns the capability of the actor or nil. The descriptor must
// not be modified.
func (a *Actor) Capability() *capability.Descriptor {
	return a.capability
}

// SetCapability installs the capability. Only the first call succeeds.
// Every bound parameter immediately sends its command with the parameter
// default; runtime commands such as SET TIMEOUT apply right away, the others
// reach the behavior as API events once the current event returns.
func (a *Actor) SetCapability(descriptor *capability.Descriptor) error {
	if descriptor == nil {
		return gerrors.ErrInvalidValue
	}
	if a.capability != nil {
		return gerrors.ErrCapabilityAlreadySet
	}
	a.capability = descriptor.Dup()
	a.applyBindings(a.capability)
	return nil
}

// SetCustomReport sets the payload attached to every following report.
// A nil message clears it.
func (a *Actor) SetCustomReport(msg *message.Message) {
	a.custom = msg
}

// Publish sends msg to every subscriber.
func (a *Actor) Publish(msg *message.Message) {
	if msg == nil {
		return
	}
	a.publish(msg)
}

// Connect subscribes the actor to the output of the actor bound at dest.
func (a *Actor) Connect(dest string) error {
	if dest == "" {
		return gerrors.NewErrConnectFailed(dest)
	}
	if dest == a.endpoint {
		return gerrors.ErrSelfConnect
	}
	if err := a.bus.Connect(a.sub, dest); err != nil {
		return errors.Join(gerrors.NewErrConnectFailed(dest), err)
	}
	return nil
}

// Disconnect unsubscribes the actor from dest.
func (a *Actor) Disconnect(dest string) error {
	if err := a.bus.Disconnect(a.sub, dest); err != nil {
		return errors.Join(gerrors.NewErrDisconnectFailed(dest), err)
	}
	return nil
}

// Connections returns the endpoints the actor is subscribed to.
func (a *Actor) Connections() []string {
	return a.sub.Endpoints()
}

// Filters returns the inbound filters, nil when every message is accepted.
func (a *Actor) Filters() []string {
	filters := a.sub.Filters()
	if len(filters) == 0 {
		return nil
	}
	return filters
}

// AddFilter only lets inbound messages whose first frame starts with prefix
// through. A message passes when at least one filter matches.
func (a *Actor) AddFilter(prefix string) {
	a.sub.AddFilter(prefix)
}

// RemoveFilter removes a filter. Without filters every message is accepted.
func (a *Actor) RemoveFilter(prefix string) {
	a.sub.RemoveFilter(prefix)
}

// AddSource adds a custom source to the set the loop waits on.
func (a *Actor) AddSource(source Source) SourceID {
	a.nextSource++
	id := a.nextSource
	a.sources = append(a.sources, sourceEntry{id: id, source: source})
	a.cases = append(a.cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(source.Ready())})
	return id
}

// RemoveSource stops waiting on the given source.
func (a *Actor) RemoveSource(id SourceID) error {
	for i, entry := range a.sources {
		if entry.id == id {
			a.dropSource(i)
			return nil
		}
	}
	return gerrors.ErrSourceNotFound
}

// dropSource removes the i-th source together with its select case
func (a *Actor) dropSource(i int) {
	id := a.sources[i].id
	a.sources = append(a.sources[:i], a.sources[i+1:]...)
	a.cases = append(a.cases[:sourcesCase+i], a.cases[sourcesCase+i+1:]...)
	if a.pending != nil && a.pending.kind == pollSource && a.pending.source == id {
		a.pending = nil
	}
}

// Source resolves the identifier carried by an FDSOCK event.
func (a *Actor) Source(id SourceID) (Source, bool) {
	for _, entry := range a.sources {
		if entry.id == id {
			return entry.source, true
		}
	}
	return nil, false
}

// Report takes the pending report, nil when none was produced since the
// last read.
func (a *Actor) Report() *Report {
	return a.cell.consume()
}

// Logger returns the actor logger.
func (a *Actor) Logger() log.Logger {
	return a.logger
}

// Verbose tells whether verbose logging is on.
func (a *Actor) Verbose() bool {
	return a.verbose
}

// Status returns the current status.
func (a *Actor) Status() Status {
	return a.status
}

// Iterations returns the number of completed loop iterations.
func (a *Actor) Iterations() int64 {
	return a.iterations.Load()
}
