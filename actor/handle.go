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
	"context"
	"errors"
	"maps"
	"slices"
	"strconv"
	"sync"

	"go.uber.org/atomic"

	"github.com/tochemey/sphactor/capability"
	gerrors "github.com/tochemey/sphactor/errors"
	"github.com/tochemey/sphactor/log"
	"github.com/tochemey/sphactor/message"
)

// Handle is the supervisor side of a running actor. Requests are sent one at
// a time over the actor control channel. A Handle is meant to be owned by a
// single supervising goroutine; concurrent use is serialized.
type Handle struct {
	mu sync.Mutex

	uuid        string
	name        string
	typeName    string
	endpoint    string
	capability  *capability.Descriptor
	connections []string
	values      map[string]string
	x, y        float64

	instance   InstanceID
	cell       *reportCell
	lastReport *Report

	control    chan<- *request
	done       <-chan struct{}
	terminated *atomic.Bool
	destroy    sync.Once
	logger     log.Logger
}

// New starts an actor running behavior on its own goroutine and returns its
// handle once the actor is live. The INIT event may still be running when
// New returns.
func New(behavior Behavior, opts ...Option) (*Handle, error) {
	if behavior == nil {
		return nil, gerrors.ErrInvalidValue
	}

	cfg := newConfig(opts...)
	a, err := newActor(behavior, cfg)
	if err != nil {
		return nil, err
	}

	started := make(chan struct{})
	go a.run(started)
	<-started

	return &Handle{
		uuid:       a.uuid,
		name:       a.name,
		typeName:   a.typeName,
		endpoint:   a.endpoint,
		values:     make(map[string]string),
		control:    a.control,
		done:       a.done,
		terminated: atomic.NewBool(false),
		logger:     cfg.logger.With("uuid", a.uuid),
	}, nil
}

// UUID returns the actor identifier.
func (h *Handle) UUID() string {
	return h.uuid
}

// Endpoint returns the endpoint other actors connect to.
func (h *Handle) Endpoint() string {
	return h.endpoint
}

// Name returns the actor name.
func (h *Handle) Name() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.name
}

// SetName renames the actor.
func (h *Handle) SetName(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.send(newRequest(CmdSetName, name)); err != nil {
		return err
	}
	h.name = name
	return nil
}

// Type returns the actor type name. It is asked to the actor when not known yet.
func (h *Handle) Type() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.typeName == "" {
		if resp, err := h.call(newRequest(CmdType)); err == nil {
			h.typeName, _ = resp.value.(string)
		}
	}
	return h.typeName
}

// SetType sets the actor type name.
func (h *Handle) SetType(typeName string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.send(newRequest(CmdSetType, typeName)); err != nil {
		return err
	}
	h.typeName = typeName
	return nil
}

// Timeout returns the actor timeout in milliseconds, -1 meaning never.
func (h *Handle) Timeout() (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	resp, err := h.call(newRequest(CmdTimeout))
	if err != nil {
		return 0, err
	}
	timeout, _ := resp.value.(int64)
	return timeout, nil
}

// SetTimeout sets the actor timeout in milliseconds. A negative value
// disables TIME events.
func (h *Handle) SetTimeout(timeout int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.send(newRequest(CmdSetTimeout, strconv.FormatInt(timeout, 10)))
}

// SetVerbose toggles verbose logging of control commands.
func (h *Handle) SetVerbose(verbose bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.send(newRequest(CmdSetVerbose, boolArg(verbose)))
}

// SetReporting toggles report production. While disabled Report returns nil.
func (h *Handle) SetReporting(enabled bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.send(newRequest(CmdSetReporting, boolArg(enabled)))
}

// Capability returns a copy of the actor capability, nil when none was set.
func (h *Handle) Capability() (*capability.Descriptor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fetchCapability()
}

// Filters returns the inbound filters of the actor.
func (h *Handle) Filters() ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	resp, err := h.call(newRequest(CmdFilters))
	if err != nil {
		return nil, err
	}
	filters, _ := resp.value.([]string)
	return filters, nil
}

// AddFilter adds an inbound filter.
func (h *Handle) AddFilter(prefix string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.send(newRequest(CmdFilterAdd, prefix))
}

// RemoveFilter removes an inbound filter.
func (h *Handle) RemoveFilter(prefix string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.send(newRequest(CmdFilterRemove, prefix))
}

// Instance returns the reference of the running actor.
func (h *Handle) Instance() (InstanceID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.resolve(); err != nil {
		return 0, err
	}
	return h.instance, nil
}

// Connect subscribes the actor to the output of the actor bound at dest.
// Connecting twice to the same destination is a no-op.
func (h *Handle) Connect(dest string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if slices.Contains(h.connections, dest) {
		h.logger.Warnf("already connected to %s", dest)
		return nil
	}

	resp, err := h.call(newRequest(CmdConnect, dest))
	if err != nil {
		return err
	}
	if resp.code != 0 {
		if resp.err != nil {
			return resp.err
		}
		return gerrors.NewErrConnectFailed(dest)
	}

	h.connections = append(h.connections, dest)
	return nil
}

// Disconnect unsubscribes the actor from dest. Disconnecting from a
// destination the actor is not connected to is a no-op.
func (h *Handle) Disconnect(dest string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	index := slices.Index(h.connections, dest)
	if index < 0 {
		h.logger.Warnf("not connected to %s", dest)
		return nil
	}

	resp, err := h.call(newRequest(CmdDisconnect, dest))
	if err != nil {
		return err
	}
	if resp.code != 0 {
		if resp.err != nil {
			return resp.err
		}
		return gerrors.NewErrDisconnectFailed(dest)
	}

	h.connections = slices.Delete(h.connections, index, index+1)
	return nil
}

// Connections returns the destinations the actor is connected to.
func (h *Handle) Connections() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.connections)
}

// Send makes the actor publish the given frames. Without frames the actor
// publishes its name as a heartbeat.
func (h *Handle) Send(frames ...string) error {
	return h.SendMessage(message.NewString(frames...))
}

// SendMessage makes the actor publish msg.
func (h *Handle) SendMessage(msg *message.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if msg == nil {
		msg = message.New()
	}
	return h.send(&request{cmd: CmdSend, args: msg.Dup()})
}

// Trigger runs the behavior once as if a message without payload was
// received and publishes the result.
func (h *Handle) Trigger() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.send(newRequest(CmdTrigger))
}

// AskAPI sends a typed value to the behavior. format is one of the
// capability format codes: "i", "f" or "s". On success the value is
// remembered under call, see Values.
func (h *Handle) AskAPI(call, format, value string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := capability.ParseFormat(format)
	if err != nil {
		h.logger.Errorf("AskAPI %q: %v", call, err)
		return err
	}

	v, err := capability.ParseValue(f, value)
	if err != nil {
		h.logger.Errorf("AskAPI %q: %v", call, err)
		return err
	}

	req := &request{cmd: Command(call), args: message.NewString(value), value: v}
	if err := h.send(req); err != nil {
		return err
	}

	h.values[call] = value
	return nil
}

// Request sends cmd with the given arguments to the behavior and waits for
// its reply. The reply is nil when the behavior returned nothing.
func (h *Handle) Request(cmd string, args ...string) (*message.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	resp, err := h.call(newRequest(Command(cmd), args...))
	if err != nil {
		return nil, err
	}
	return resp.msg, resp.err
}

// Values returns a copy of the values sent with AskAPI keyed by call name.
func (h *Handle) Values() map[string]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return maps.Clone(h.values)
}

// SetPosition records the actor position on a canvas.
func (h *Handle) SetPosition(x, y float64) {
	h.mu.Lock()
	h.x, h.y = x, y
	h.mu.Unlock()
}

// Position returns the recorded canvas position.
func (h *Handle) Position() (float64, float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.x, h.y
}

// Report returns the latest report of the actor. When the actor produced
// nothing new since the last call the previous report is returned again.
// It is nil while reporting is disabled.
func (h *Handle) Report() *Report {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.terminated.Load() {
		return h.lastReport
	}

	if err := h.resolve(); err != nil {
		return h.lastReport
	}

	if !h.cell.isEnabled() {
		return nil
	}

	if report := h.cell.consume(); report != nil {
		h.lastReport = report
	}
	return h.lastReport
}

// Descriptor returns the persisted form of the actor.
func (h *Handle) Descriptor() Descriptor {
	h.mu.Lock()
	defer h.mu.Unlock()

	descriptor := Descriptor{
		UUID:     h.uuid,
		Type:     h.typeName,
		Name:     h.name,
		Endpoint: h.endpoint,
		X:        h.x,
		Y:        h.y,
	}

	capa, err := h.fetchCapability()
	if err != nil || capa == nil {
		return descriptor
	}

	for _, param := range capa.Bound() {
		if value, ok := h.values[param.APICall]; ok {
			if descriptor.Values == nil {
				descriptor.Values = make(map[string]string)
			}
			descriptor.Values[param.Name] = value
		}
	}
	return descriptor
}

// Done is closed once the actor goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Destroy stops the actor and waits until its goroutine has exited or ctx is
// done. The STOP and DESTROY events run before it returns. Calling Destroy
// again is a no-op.
func (h *Handle) Destroy(ctx context.Context) error {
	var err error
	h.destroy.Do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if err = h.send(newRequest(CmdTerm)); err != nil {
			// the actor is already gone
			err = nil
		}
		h.terminated.Store(true)

		select {
		case <-h.done:
		case <-ctx.Done():
			err = ctx.Err()
		}

		h.cell = nil
		h.lastReport = nil
	})
	return err
}

// fetchCapability asks the actor for its capability. A non nil capability
// is cached since it is set once.
func (h *Handle) fetchCapability() (*capability.Descriptor, error) {
	if h.capability != nil {
		return h.capability.Dup(), nil
	}
	resp, err := h.call(newRequest(CmdCapability))
	if err != nil {
		return nil, err
	}
	h.capability, _ = resp.value.(*capability.Descriptor)
	return h.capability.Dup(), nil
}

// resolve looks up the report cell of the actor through INSTANCE
func (h *Handle) resolve() error {
	if h.cell != nil {
		return nil
	}
	resp, err := h.call(newRequest(CmdInstance))
	if err != nil {
		return err
	}
	id, _ := resp.value.(InstanceID)
	cell, ok := resolveInstance(id)
	if !ok {
		return gerrors.ErrActorTerminated
	}
	h.instance = id
	h.cell = cell
	return nil
}

// send posts a fire-and-forget request
func (h *Handle) send(req *request) error {
	if h.terminated.Load() {
		return gerrors.ErrActorTerminated
	}
	select {
	case h.control <- req:
		return nil
	case <-h.done:
		return gerrors.ErrActorTerminated
	}
}

// call posts a request and waits for its reply
func (h *Handle) call(req *request) (*response, error) {
	if err := h.send(req.expectReply()); err != nil {
		return nil, err
	}

	var resp *response
	select {
	case resp = <-req.reply:
	case <-h.done:
		// the reply may have been posted right before the actor exited
		select {
		case resp = <-req.reply:
		default:
			return nil, gerrors.ErrActorTerminated
		}
	}

	if errors.Is(resp.err, gerrors.ErrActorTerminated) {
		return nil, resp.err
	}
	return resp, nil
}
