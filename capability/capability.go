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

// Package capability describes the configurable parameters of an actor.
//
// A descriptor is declared by a behavior during INIT. Parameters that carry
// an api binding are applied by the actor as soon as the descriptor is
// accepted, so the actor state matches the declared defaults. Tooling uses
// the same bindings to drive any actor generically.
package capability

import (
	"bytes"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Param is a named, typed parameter.
type Param struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type,omitempty"`
	Value    string `yaml:"value,omitempty"`
	Min      string `yaml:"min,omitempty"`
	Max      string `yaml:"max,omitempty"`
	Step     string `yaml:"step,omitempty"`
	APICall  string `yaml:"api_call,omitempty"`
	APIValue Format `yaml:"api_value,omitempty"`
}

// Bound reports whether the parameter is bound to a control command.
func (p Param) Bound() bool {
	return p.APICall != ""
}

// Default parses the parameter's value with its api format.
func (p Param) Default() (Value, error) {
	format := p.APIValue
	if format == FormatNone {
		format = FormatString
	}
	return ParseValue(format, p.Value)
}

// Port declares an input or output of an actor.
type Port struct {
	Type string `yaml:"type"`
}

// Descriptor is the capability schema of an actor.
type Descriptor struct {
	Params  []Param `yaml:"capabilities,omitempty"`
	Inputs  []Port  `yaml:"inputs,omitempty"`
	Outputs []Port  `yaml:"outputs,omitempty"`
}

// Parse reads a descriptor from its YAML form.
func Parse(data []byte) (*Descriptor, error) {
	d := new(Descriptor)
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(d); err != nil {
		return nil, fmt.Errorf("failed to parse capability: %w", err)
	}
	for _, p := range d.Params {
		if p.Bound() && p.APIValue == FormatNone {
			return nil, fmt.Errorf("capability %q binds %q without api_value", p.Name, p.APICall)
		}
	}
	return d, nil
}

// MustParse is like Parse but panics on error.
// It is meant for descriptors declared as package level templates.
func MustParse(data string) *Descriptor {
	d, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return d
}

// Marshal renders the descriptor as YAML.
func (d *Descriptor) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Dup returns a deep copy of the descriptor. Dup of nil is nil.
func (d *Descriptor) Dup() *Descriptor {
	if d == nil {
		return nil
	}
	return &Descriptor{
		Params:  slices.Clone(d.Params),
		Inputs:  slices.Clone(d.Inputs),
		Outputs: slices.Clone(d.Outputs),
	}
}

// Param returns the parameter with the given name.
func (d *Descriptor) Param(name string) (Param, bool) {
	if d == nil {
		return Param{}, false
	}
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// ParamByCall returns the parameter bound to the given control command.
func (d *Descriptor) ParamByCall(call string) (Param, bool) {
	if d == nil {
		return Param{}, false
	}
	for _, p := range d.Params {
		if p.APICall == call {
			return p, true
		}
	}
	return Param{}, false
}

// Bound returns the parameters that carry an api binding, in declaration order.
func (d *Descriptor) Bound() []Param {
	if d == nil {
		return nil
	}
	out := make([]Param, 0, len(d.Params))
	for _, p := range d.Params {
		if p.Bound() {
			out = append(out, p)
		}
	}
	return out
}
