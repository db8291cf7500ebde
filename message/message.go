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

// Package message defines the multi-frame message exchanged over the bus
// and the control channel. Frames are opaque byte slices.
package message

import (
	"bytes"
	"strings"
)

// Message is an ordered list of frames.
// A Message is not safe for concurrent use. Anything that crosses a goroutine
// boundary is duplicated first.
type Message struct {
	frames [][]byte
}

// New creates a message from the given frames. The frames are copied.
func New(frames ...[]byte) *Message {
	m := &Message{frames: make([][]byte, 0, len(frames))}
	for _, f := range frames {
		m.AddFrame(f)
	}
	return m
}

// NewString creates a message with one frame per string.
func NewString(parts ...string) *Message {
	m := &Message{frames: make([][]byte, 0, len(parts))}
	for _, p := range parts {
		m.AddString(p)
	}
	return m
}

// AddFrame appends a copy of frame.
func (m *Message) AddFrame(frame []byte) *Message {
	m.frames = append(m.frames, bytes.Clone(orEmpty(frame)))
	return m
}

// AddString appends a frame holding s.
func (m *Message) AddString(s string) *Message {
	m.frames = append(m.frames, []byte(s))
	return m
}

// PushFrame prepends a copy of frame.
func (m *Message) PushFrame(frame []byte) *Message {
	m.frames = append([][]byte{bytes.Clone(orEmpty(frame))}, m.frames...)
	return m
}

// PushString prepends a frame holding s.
func (m *Message) PushString(s string) *Message {
	return m.PushFrame([]byte(s))
}

// PopFrame removes and returns the first frame.
func (m *Message) PopFrame() ([]byte, bool) {
	if m == nil || len(m.frames) == 0 {
		return nil, false
	}
	f := m.frames[0]
	m.frames[0] = nil
	m.frames = m.frames[1:]
	return f, true
}

// PopString removes the first frame and returns it as a string.
// It returns an empty string when the message has no frames.
func (m *Message) PopString() (string, bool) {
	f, ok := m.PopFrame()
	return string(f), ok
}

// Frame returns the frame at index i or nil when out of range.
func (m *Message) Frame(i int) []byte {
	if m == nil || i < 0 || i >= len(m.frames) {
		return nil
	}
	return m.frames[i]
}

// Frames returns the frames of the message. The slice must not be modified.
func (m *Message) Frames() [][]byte {
	if m == nil {
		return nil
	}
	return m.frames
}

// Strings returns every frame as a string.
func (m *Message) Strings() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.frames))
	for i, f := range m.frames {
		out[i] = string(f)
	}
	return out
}

// Size returns the number of frames.
func (m *Message) Size() int {
	if m == nil {
		return 0
	}
	return len(m.frames)
}

// Len returns the total number of payload bytes.
func (m *Message) Len() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, f := range m.frames {
		n += len(f)
	}
	return n
}

// Dup returns a deep copy. Frames are never shared between the copies.
// Dup of a nil message is nil.
func (m *Message) Dup() *Message {
	if m == nil {
		return nil
	}
	return New(m.frames...)
}

// HasPrefix reports whether the first frame starts with prefix.
func (m *Message) HasPrefix(prefix []byte) bool {
	if m.Size() == 0 {
		return len(prefix) == 0
	}
	return bytes.HasPrefix(m.frames[0], prefix)
}

// String renders the message as space separated frames, for logging.
func (m *Message) String() string {
	return strings.Join(m.Strings(), " ")
}

func orEmpty(frame []byte) []byte {
	if frame == nil {
		return []byte{}
	}
	return frame
}
