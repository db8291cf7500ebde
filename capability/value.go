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

package capability

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tochemey/sphactor/errors"
)

// Format is the single character type code of an api value.
type Format byte

const (
	// FormatNone marks a parameter without an api binding.
	FormatNone Format = 0
	// FormatInt is a signed integer value.
	FormatInt Format = 'i'
	// FormatFloat is a floating point value.
	FormatFloat Format = 'f'
	// FormatString is a text value.
	FormatString Format = 's'
	// FormatBinary is declared for completeness and rejected by ParseValue.
	FormatBinary Format = 'b'
)

// ParseFormat converts a format code into a Format.
func ParseFormat(code string) (Format, error) {
	if len(code) != 1 {
		return FormatNone, fmt.Errorf("format=(%q) %w", code, errors.ErrInvalidFormat)
	}
	switch f := Format(code[0]); f {
	case FormatInt, FormatFloat, FormatString, FormatBinary:
		return f, nil
	default:
		return FormatNone, fmt.Errorf("format=(%q) %w", code, errors.ErrInvalidFormat)
	}
}

// String returns the format code.
func (f Format) String() string {
	if f == FormatNone {
		return ""
	}
	return string(rune(f))
}

// MarshalYAML implements yaml.Marshaler
func (f Format) MarshalYAML() (any, error) {
	return f.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (f *Format) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "" {
		*f = FormatNone
		return nil
	}
	parsed, err := ParseFormat(node.Value)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Value is a typed api value. Exactly one of the accessors is meaningful,
// depending on Format.
type Value struct {
	format Format
	i      int64
	f      float64
	s      string
}

// IntValue creates an integer value.
func IntValue(v int64) Value { return Value{format: FormatInt, i: v} }

// FloatValue creates a float value.
func FloatValue(v float64) Value { return Value{format: FormatFloat, f: v} }

// StringValue creates a text value.
func StringValue(v string) Value { return Value{format: FormatString, s: v} }

// ParseValue parses raw according to format.
func ParseValue(format Format, raw string) (Value, error) {
	switch format {
	case FormatInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("value=(%q) %w: %w", raw, errors.ErrInvalidValue, err)
		}
		return IntValue(v), nil
	case FormatFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, fmt.Errorf("value=(%q) %w: %w", raw, errors.ErrInvalidValue, err)
		}
		return FloatValue(v), nil
	case FormatString:
		return StringValue(raw), nil
	case FormatBinary:
		return Value{}, fmt.Errorf("format=(b) %w", errors.ErrUnsupportedFormat)
	default:
		return Value{}, fmt.Errorf("format=(%q) %w", format.String(), errors.ErrInvalidFormat)
	}
}

// Format returns the value's format.
func (v Value) Format() Format { return v.format }

// Int returns the integer value.
func (v Value) Int() int64 { return v.i }

// Float returns the float value.
func (v Value) Float() float64 { return v.f }

// Str returns the text value.
func (v Value) Str() string { return v.s }

// IsZero reports whether the value was never set.
func (v Value) IsZero() bool { return v.format == FormatNone }

// String renders the value the way it is sent on the control channel
// and cached by the handle.
func (v Value) String() string {
	switch v.format {
	case FormatInt:
		return strconv.FormatInt(v.i, 10)
	case FormatFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case FormatString:
		return v.s
	default:
		return ""
	}
}
