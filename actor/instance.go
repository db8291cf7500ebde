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
	"go.uber.org/atomic"

	"github.com/tochemey/sphactor/internal/xsync"
)

// InstanceID is the opaque reference to a running actor handed out by the
// INSTANCE command. It resolves to the actor's report cell while the actor
// is alive.
type InstanceID uint64

var (
	instanceSeq = atomic.NewUint64(0)
	instances   = xsync.NewMap[InstanceID, *reportCell]()
)

func registerInstance(cell *reportCell) InstanceID {
	id := InstanceID(instanceSeq.Inc())
	instances.Set(id, cell)
	return id
}

func resolveInstance(id InstanceID) (*reportCell, bool) {
	return instances.Get(id)
}

func releaseInstance(id InstanceID) {
	instances.Delete(id)
}
