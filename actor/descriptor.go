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

// Descriptor is the persisted form of an actor: its identity, its position
// on a canvas and the values of its bound capability parameters keyed by
// parameter name.
type Descriptor struct {
	UUID     string            `mapstructure:"uuid" yaml:"uuid"`
	Type     string            `mapstructure:"type" yaml:"type"`
	Name     string            `mapstructure:"name" yaml:"name"`
	Endpoint string            `mapstructure:"endpoint" yaml:"endpoint"`
	X        float64           `mapstructure:"xpos" yaml:"xpos"`
	Y        float64           `mapstructure:"ypos" yaml:"ypos"`
	Values   map[string]string `mapstructure:"values" yaml:"values,omitempty"`
}
