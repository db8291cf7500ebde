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
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"github.com/tochemey/sphactor/errors"
)

const (
	endpointScheme = "inproc://"
	shortNameLen   = 6
)

// newUUID returns a random identifier as 32 upper case hex characters.
func newUUID() string {
	id := uuid.New()
	return strings.ToUpper(hex.EncodeToString(id[:]))
}

// NormalizeUUID accepts the canonical dashed form as well as the compact
// 32 hex characters form and returns the compact upper case form actors are
// identified by.
func NormalizeUUID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", errors.ErrInvalidUUID
	}
	return strings.ToUpper(hex.EncodeToString(id[:])), nil
}

// endpointOf returns the endpoint an actor with the given identifier binds to.
func endpointOf(id string) string {
	return endpointScheme + id
}

func shortName(id string) string {
	if len(id) < shortNameLen {
		return id
	}
	return id[:shortNameLen]
}
