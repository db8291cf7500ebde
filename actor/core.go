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
	"fmt"
	"io"
	"reflect"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	"github.com/tochemey/sphactor/capability"
	gerrors "github.com/tochemey/sphactor/errors"
	"github.com/tochemey/sphactor/internal/bus"
	"github.com/tochemey/sphactor/internal/chain"
	"github.com/tochemey/sphactor/internal/metric"
	"github.com/tochemey/sphactor/log"
	"github.com/tochemey/sphactor/message"
)

// controlCapacity is the number of queued control requests a handle can
// send before blocking.
const controlCapacity = 64

// positions of the fixed select cases
const (
	controlCase = iota
	inboundCase
	timerCase
	sourcesCase
)

type pollKind int

const (
	pollNone pollKind = iota
	pollControl
	pollInbound
	pollSource
)

// pollResult is what a single wait returned.
type pollResult struct {
	kind   pollKind
	req    *request
	source SourceID
}

type sourceEntry struct {
	id     SourceID
	source Source
}

// Actor is the running side of an actor. It owns the event loop and every
// piece of state the loop touches. Its methods are only valid on the actor's
// own goroutine, that is from within Behavior.OnEvent through Event.Actor().
type Actor struct {
	uuid     string
	name     string
	typeName string
	endpoint string

	behavior Behavior
	bus      *bus.Bus
	pub      *bus.Publisher
	sub      *bus.Subscriber

	sources    []sourceEntry
	nextSource SourceID
	cases      []reflect.SelectCase
	timer      *time.Timer

	control chan *request
	done    chan struct{}

	// timeout in milliseconds, negative means never
	timeout    int64
	deadline   time.Time
	iterations *atomic.Int64
	sendTime   time.Time
	recvTime   time.Time
	status     Status
	capability *capability.Descriptor
	preset     *capability.Descriptor
	custom     *message.Message
	verbose    bool
	terminated bool

	// pending holds a ready item observed on a skipped tick
	pending *pollResult
	// deferred holds capability bindings the behavior itself must handle
	deferred []*request

	cell     *reportCell
	instance InstanceID

	logger       log.Logger
	baseLogger   log.Logger
	metrics      *metric.CoreMetric
	registration otelmetric.Registration
}

// newActor prepares an actor. It binds the publisher on the caller's
// goroutine so that a bind failure is reported to the creator.
func newActor(behavior Behavior, cfg *config) (*Actor, error) {
	id := cfg.uuid
	if id == "" {
		id = newUUID()
	} else {
		var err error
		if id, err = NormalizeUUID(id); err != nil {
			return nil, err
		}
	}

	name := cfg.name
	if name == "" {
		name = shortName(id)
	}

	a := &Actor{
		uuid:       id,
		name:       name,
		typeName:   cfg.typeName,
		endpoint:   endpointOf(id),
		behavior:   behavior,
		bus:        cfg.bus,
		sub:        bus.NewSubscriber(cfg.inboundCapacity),
		control:    make(chan *request, controlCapacity),
		done:       make(chan struct{}),
		timeout:    normalizeTimeout(cfg.timeout),
		iterations: atomic.NewInt64(0),
		status:     StatusInit,
		preset:     cfg.capability,
		verbose:    cfg.verbose,
		cell:       newReportCell(),
		baseLogger: cfg.logger,
	}
	a.setLogger()

	pub, err := a.bus.Bind(a.endpoint)
	if err != nil {
		return nil, err
	}
	a.pub = pub

	if err := a.registerMetrics(cfg.meterProvider); err != nil {
		a.pub.Close()
		return nil, err
	}

	a.timer = time.NewTimer(time.Hour)
	a.timer.Stop()
	a.cases = []reflect.SelectCase{
		controlCase: {Dir: reflect.SelectRecv, Chan: reflect.ValueOf(a.control)},
		inboundCase: {Dir: reflect.SelectRecv, Chan: reflect.ValueOf(a.sub.Ready())},
		timerCase:   {Dir: reflect.SelectRecv},
	}

	a.cell.setEnabled(cfg.reporting)
	a.instance = registerInstance(a.cell)
	a.produceReport()
	return a, nil
}

// registerMetrics creates the core instruments and the callback observing
// the loop counters
func (a *Actor) registerMetrics(provider otelmetric.MeterProvider) error {
	meter := metric.New(metric.WithMeterProvider(provider)).Meter()
	metrics, err := metric.NewCoreMetric(meter)
	if err != nil {
		return err
	}

	observeOptions := []otelmetric.ObserveOption{
		otelmetric.WithAttributes(attribute.String("actor.uuid", a.uuid)),
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, observer otelmetric.Observer) error {
		observer.ObserveInt64(metrics.IterationCount(), a.iterations.Load(), observeOptions...)
		observer.ObserveInt64(metrics.DroppedCount(), int64(a.sub.Dropped()), observeOptions...)
		return nil
	}, metrics.IterationCount(),
		metrics.DroppedCount(),
	)
	if err != nil {
		return err
	}

	a.metrics = metrics
	a.registration = registration
	return nil
}

// run is the body of the actor goroutine
func (a *Actor) run(started chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(a.done)

	close(started)
	a.start()
	for !a.terminated {
		a.runOnce()
	}

	if err := a.shutdown(); err != nil {
		a.logger.Errorf("shutdown of actor %s completed with errors: %v", a.name, err)
	}
}

// start installs the preset capability, delivers INIT and arms the deadline.
func (a *Actor) start() {
	if a.preset != nil {
		if err := a.SetCapability(a.preset); err != nil {
			a.logger.Warnf("failed to install capability: %v", err)
		}
		a.preset = nil
	}

	if _, err := a.invoke(EventInit, nil, 0, capability.Value{}); err != nil {
		a.logger.Errorf("INIT failed: %v", err)
	}

	a.armDeadline()
	a.drainDeferred()
}

// runOnce runs a single loop iteration
func (a *Actor) runOnce() {
	wait := time.Duration(-1)
	now := time.Now()
	switch {
	case a.timeout >= 0 && now.After(a.deadline):
		if a.timeout > 0 {
			a.logger.Warnf("actor %s is falling behind, consider increasing its timeout if this happens often", a.name)
			a.metrics.FallingBehindCount().Add(context.Background(), 1, a.attributes(EventTime))
		}
		wait = 0
	default:
		if a.timeout >= 0 {
			wait = a.deadline.Sub(now)
		}
		a.status = StatusIdle
		a.produceReport()
	}

	result := a.pending
	a.pending = nil
	if result == nil {
		result = a.poll(wait)
	}

	now = time.Now()
	skipped := a.timeout > 0 && !a.deadline.After(now)
	if a.timeout > 0 && skipped {
		interval := time.Duration(a.timeout) * time.Millisecond
		behind := now.Sub(a.deadline)
		a.deadline = a.deadline.Add((behind/interval + 1) * interval)
	}

	switch {
	case result.kind == pollNone || skipped:
		if result.kind != pollNone {
			a.pending = result
		}
		a.dispatch(EventTime, nil, 0)
	case result.kind == pollControl:
		a.handleRequest(result.req)
	case result.kind == pollInbound:
		// a spurious wake up finds the queue drained meanwhile
		if msg, ok := a.sub.Recv(); ok {
			a.recvTime = now
			a.dispatch(EventSock, msg, 0)
		}
	case result.kind == pollSource:
		a.dispatch(EventFDSock, nil, result.source)
	}

	a.drainDeferred()
	a.iterations.Inc()
}

// poll waits for the next ready item. A negative wait blocks until something
// is ready, a zero wait never blocks.
func (a *Actor) poll(wait time.Duration) *pollResult {
	timerArmed := false
	switch {
	case wait < 0:
		a.cases[timerCase] = reflect.SelectCase{Dir: reflect.SelectRecv}
	case wait == 0:
		a.cases[timerCase] = reflect.SelectCase{Dir: reflect.SelectDefault}
	default:
		a.timer.Reset(wait)
		timerArmed = true
		a.cases[timerCase] = reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(a.timer.C)}
	}

	chosen, recv, ok := reflect.Select(a.cases)
	if timerArmed && chosen != timerCase {
		a.timer.Stop()
	}

	switch {
	case chosen == controlCase:
		if !ok {
			a.terminated = true
			return &pollResult{kind: pollNone}
		}
		return &pollResult{kind: pollControl, req: recv.Interface().(*request)}
	case chosen == inboundCase:
		return &pollResult{kind: pollInbound}
	case chosen == timerCase:
		return &pollResult{kind: pollNone}
	case !ok:
		// a closed source is done and will never be ready again
		index := chosen - sourcesCase
		a.logger.Warnf("source %d of actor %s was closed, removing it", a.sources[index].id, a.name)
		a.dropSource(index)
		if wait > 0 {
			wait = max(time.Until(a.deadline), 0)
		}
		return a.poll(wait)
	default:
		return &pollResult{kind: pollSource, source: a.sources[chosen-sourcesCase].id}
	}
}

// dispatch sets the status matching the event, reports it, invokes the
// behavior and publishes what it returns
func (a *Actor) dispatch(kind EventKind, msg *message.Message, source SourceID) {
	a.status = kind.status()
	a.produceReport()

	out, err := a.invoke(kind, msg, source, capability.Value{})
	if err != nil {
		a.logger.Errorf("%s handler failed: %v", kind, err)
	}
	if out != nil {
		a.publish(out)
	}
}

// invoke runs the behavior for a single event. Panics are recovered and
// returned as errors.
func (a *Actor) invoke(kind EventKind, msg *message.Message, source SourceID, value capability.Value) (out *message.Message, err error) {
	ev := &Event{
		Kind:   kind,
		Msg:    msg,
		Name:   a.name,
		UUID:   a.uuid,
		Source: source,
		value:  value,
		actor:  a,
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = nil
			pc, fn, line, _ := runtime.Caller(2)
			if e, ok := r.(error); ok {
				err = gerrors.NewPanicError(fmt.Errorf("%w at %s[%s:%d]", e, runtime.FuncForPC(pc).Name(), fn, line))
			} else {
				err = gerrors.NewPanicError(fmt.Errorf("%#v at %s[%s:%d]", r, runtime.FuncForPC(pc).Name(), fn, line))
			}
		}
		a.record(kind, start, err)
	}()

	return a.behavior.OnEvent(ev)
}

func (a *Actor) record(kind EventKind, start time.Time, err error) {
	ctx := context.Background()
	attrs := a.attributes(kind)
	a.metrics.EventCount().Add(ctx, 1, attrs)
	a.metrics.HandlerDuration().Record(ctx, time.Since(start).Microseconds(), attrs)
	if err != nil && !errors.Is(err, gerrors.ErrUnknownCommand) {
		a.metrics.FailureCount().Add(ctx, 1, attrs)
	}
}

func (a *Actor) attributes(kind EventKind) otelmetric.MeasurementOption {
	return otelmetric.WithAttributes(
		attribute.String("actor.uuid", a.uuid),
		attribute.String("event.kind", kind.String()),
	)
}

// publish sends msg to every connected subscriber. Without any peer ever
// connected the message is dropped.
func (a *Actor) publish(msg *message.Message) {
	if !a.pub.Publish(msg) {
		a.logger.Debugf("actor %s has no peer, dropping message", a.name)
	}
	a.sendTime = time.Now()
}

// produceReport builds a report for the current state and hands it to the
// report cell
func (a *Actor) produceReport() {
	if !a.cell.isEnabled() {
		return
	}
	a.cell.produce(newReport(a.status, a.iterations.Load(), a.recvTime, a.sendTime, a.custom))
}

func (a *Actor) armDeadline() {
	if a.timeout >= 0 {
		a.deadline = time.Now().Add(time.Duration(a.timeout) * time.Millisecond)
	}
}

// drainDeferred hands queued capability bindings to the behavior
func (a *Actor) drainDeferred() {
	for len(a.deferred) > 0 {
		req := a.deferred[0]
		a.deferred = a.deferred[1:]
		a.forward(req)
	}
	a.deferred = nil
}

// shutdown runs STOP, DESTROY and the release of every resource. Each step
// runs even when a previous one failed.
func (a *Actor) shutdown() error {
	closer, closable := a.behavior.(io.Closer)
	return chain.New(chain.WithRecovery()).
		Then("stop", a.stop).
		Then("destroy", a.destroy).
		Then("release", a.release).
		ThenIf(closable, "close", func() error { return closer.Close() }).
		ThenIf(a.registration != nil, "metrics", func() error { return a.registration.Unregister() }).
		Run()
}

func (a *Actor) stop() error {
	a.status = StatusStop
	a.produceReport()
	_, err := a.invoke(EventStop, nil, 0, capability.Value{})
	return err
}

func (a *Actor) destroy() error {
	a.status = StatusDestroy
	a.produceReport()
	_, err := a.invoke(EventDestroy, nil, 0, capability.Value{})
	return err
}

// release frees the sockets, the sources, the report and the instance entry
func (a *Actor) release() error {
	a.timer.Stop()
	a.pub.Close()
	a.sub.Close(a.bus)
	a.sources = nil
	a.cases = a.cases[:sourcesCase]
	a.rejectQueued()

	releaseInstance(a.instance)
	a.cell.consume()
	a.custom = nil
	return nil
}

// rejectQueued answers every request that will never be handled
func (a *Actor) rejectQueued() {
	if a.pending != nil && a.pending.req != nil {
		a.pending.req.respond(&response{code: -1, err: gerrors.ErrActorTerminated})
	}
	a.pending = nil
	for {
		select {
		case req := <-a.control:
			req.respond(&response{code: -1, err: gerrors.ErrActorTerminated})
		default:
			return
		}
	}
}

func (a *Actor) setLogger() {
	a.logger = a.baseLogger.With("actor", a.name, "uuid", a.uuid)
}

func normalizeTimeout(timeout int64) int64 {
	if timeout < 0 {
		return NeverTimeout
	}
	return timeout
}
