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

package stock

import (
	"github.com/tochemey/sphactor/actor"
	"github.com/tochemey/sphactor/message"
)

// Pulse publishes a pulse every time its timeout elapses. The interval is
// the "timeout" capability parameter, one second by default.
type Pulse struct{}

var _ actor.Behavior = (*Pulse)(nil)

// NewPulse creates a Pulse behavior
func NewPulse() *Pulse {
	return &Pulse{}
}

// OnEvent implements actor.Behavior
func (p *Pulse) OnEvent(ev *actor.Event) (*message.Message, error) {
	switch ev.Kind {
	case actor.EventInit:
		return nil, ensureCapability(ev.Actor(), pulseCapability)
	case actor.EventTime:
		return message.NewString("/pulse", "PULSE"), nil
	default:
		return nil, nil
	}
}
