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
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/sphactor/message"
)

// Report is an immutable snapshot of an actor's state.
type Report struct {
	status     Status
	iterations int64
	sendTime   time.Time
	recvTime   time.Time
	custom     *message.Message
}

func newReport(status Status, iterations int64, recvTime, sendTime time.Time, custom *message.Message) *Report {
	return &Report{
		status:     status,
		iterations: iterations,
		sendTime:   sendTime,
		recvTime:   recvTime,
		custom:     custom.Dup(),
	}
}

// Status returns the lifecycle status at the time of the snapshot.
func (r *Report) Status() Status { return r.status }

// Iterations returns the number of completed loop iterations.
func (r *Report) Iterations() int64 { return r.iterations }

// SendTime returns the time of the last publish. It is zero when the actor never published.
func (r *Report) SendTime() time.Time { return r.sendTime }

// RecvTime returns the time of the last received message. It is zero when nothing was received.
func (r *Report) RecvTime() time.Time { return r.recvTime }

// Custom returns a copy of the custom payload set by the behavior, or nil.
func (r *Report) Custom() *message.Message { return r.custom.Dup() }

// reportCell is a single slot exchanging reports between an actor and its
// handle. The producer swaps in a new report and drops whatever was there;
// the consumer swaps in nil and owns what it got. The latest report wins.
type reportCell struct {
	slot    *atomic.Pointer[Report]
	enabled *atomic.Bool
}

func newReportCell() *reportCell {
	return &reportCell{
		slot:    atomic.NewPointer[Report](nil),
		enabled: atomic.NewBool(true),
	}
}

// produce publishes r. An unread previous report is discarded.
func (c *reportCell) produce(r *Report) {
	if !c.enabled.Load() {
		return
	}
	c.slot.Swap(r)
}

// consume takes the pending report. It returns nil when there is no new report.
func (c *reportCell) consume() *Report {
	return c.slot.Swap(nil)
}

func (c *reportCell) setEnabled(on bool) {
	c.enabled.Store(on)
}

func (c *reportCell) isEnabled() bool {
	return c.enabled.Load()
}
