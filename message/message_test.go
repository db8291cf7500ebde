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

package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	t.Run("With push and pop", func(t *testing.T) {
		msg := NewString("CONNECTED", "inproc://ABC")
		msg.PushString("API")
		require.Equal(t, 3, msg.Size())

		cmd, ok := msg.PopString()
		require.True(t, ok)
		assert.Equal(t, "API", cmd)
		assert.Equal(t, []string{"CONNECTED", "inproc://ABC"}, msg.Strings())

		_, _ = msg.PopString()
		_, _ = msg.PopString()
		_, ok = msg.PopString()
		assert.False(t, ok)
		assert.Zero(t, msg.Size())
	})
	t.Run("With Dup not sharing frames", func(t *testing.T) {
		raw := []byte("hello")
		msg := New(raw)
		raw[0] = 'j'
		assert.Equal(t, "hello", string(msg.Frame(0)))

		dup := msg.Dup()
		dup.Frames()[0][0] = 'y'
		assert.Equal(t, "hello", string(msg.Frame(0)))
		assert.Equal(t, "yello", string(dup.Frame(0)))
	})
	t.Run("With nil message", func(t *testing.T) {
		var msg *Message
		assert.Nil(t, msg.Dup())
		assert.Zero(t, msg.Size())
		assert.Zero(t, msg.Len())
		assert.Nil(t, msg.Frame(0))
		_, ok := msg.PopFrame()
		assert.False(t, ok)
	})
	t.Run("With prefix matching on the first frame", func(t *testing.T) {
		msg := NewString("/pulse", "PULSE")
		assert.True(t, msg.HasPrefix([]byte("/pu")))
		assert.False(t, msg.HasPrefix([]byte("PULSE")))
		assert.True(t, NewString().HasPrefix(nil))
		assert.Equal(t, 11, msg.Len())
		assert.Equal(t, "/pulse PULSE", msg.String())
	})
	t.Run("With empty frames", func(t *testing.T) {
		msg := New(nil).AddFrame(nil)
		require.Equal(t, 2, msg.Size())
		assert.NotNil(t, msg.Frame(0))
		assert.Empty(t, msg.Frame(0))
	})
}
