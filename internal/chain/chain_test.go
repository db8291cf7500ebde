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

package chain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	gerrors "github.com/tochemey/sphactor/errors"
)

func TestChain(t *testing.T) {
	t.Run("With every step run in order", func(t *testing.T) {
		var order []string
		record := func(name string, err error) func() error {
			return func() error {
				order = append(order, name)
				return err
			}
		}

		err := New().
			Then("stop", record("stop", errors.New("stop failed"))).
			Then("destroy", record("destroy", errors.New("destroy failed"))).
			Then("release", record("release", nil)).
			Run()

		assert.Equal(t, []string{"stop", "destroy", "release"}, order)
		require.Error(t, err)
		assert.Len(t, multierr.Errors(err), 2)
		assert.EqualError(t, err, "stop: stop failed; destroy: destroy failed")
	})
	t.Run("With fail fast", func(t *testing.T) {
		var released bool
		cause := errors.New("stop failed")

		err := New(WithFailFast()).
			Then("stop", func() error { return cause }).
			Then("release", func() error { released = true; return nil }).
			Run()

		assert.ErrorIs(t, err, cause)
		assert.False(t, released)
	})
	t.Run("With lazy execution", func(t *testing.T) {
		var called bool
		c := New().Then("stop", func() error { called = true; return nil })
		assert.False(t, called)
		require.NoError(t, c.Run())
		assert.True(t, called)
	})
	t.Run("With ThenIf", func(t *testing.T) {
		var called bool
		err := New().
			ThenIf(false, "skipped", func() error { called = true; return errors.New("skipped") }).
			Run()
		require.NoError(t, err)
		assert.False(t, called)
	})
	t.Run("With recovery the following steps still execute", func(t *testing.T) {
		var destroyed bool

		err := New(WithRecovery()).
			Then("stop", func() error { panic("stop handler failed") }).
			Then("destroy", func() error { destroyed = true; return nil }).
			Run()

		require.Error(t, err)
		assert.True(t, destroyed)

		var panicErr *gerrors.PanicError
		assert.ErrorAs(t, err, &panicErr)
		assert.Contains(t, err.Error(), "stop handler failed")
	})
	t.Run("With recovery of an error value", func(t *testing.T) {
		cause := errors.New("boom")
		err := New(WithRecovery()).Then("stop", func() error { panic(cause) }).Run()
		assert.ErrorIs(t, err, cause)
	})
}
