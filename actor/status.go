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

// Status is the lifecycle state reported by an actor.
// The numbering is stable and part of the persisted report format.
type Status int

const (
	StatusInit    Status = 0
	StatusIdle    Status = 1
	StatusStop    Status = 2
	StatusDestroy Status = 3
	StatusSock    Status = 4
	StatusTime    Status = 5
	StatusFDSock  Status = 6
	StatusAPI     Status = 7
)

// String returns the upper case name of the status.
func (s Status) String() string {
	switch s {
	case StatusInit:
		return "INIT"
	case StatusIdle:
		return "IDLE"
	case StatusStop:
		return "STOP"
	case StatusDestroy:
		return "DESTROY"
	case StatusSock:
		return "SOCK"
	case StatusTime:
		return "TIME"
	case StatusFDSock:
		return "FDSOCK"
	case StatusAPI:
		return "API"
	default:
		return "UNKNOWN"
	}
}
