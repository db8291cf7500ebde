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

package stage

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tochemey/sphactor/actor"
	gerrors "github.com/tochemey/sphactor/errors"
)

// connectionKind is the only connection kind written to stage files
const connectionKind = "OSC"

// Config is the persisted topology of a stage
type Config struct {
	Name        string             `mapstructure:"name"`
	Actors      []actor.Descriptor `mapstructure:"actors"`
	Connections []string           `mapstructure:"connections"`
}

// Connection links the publisher at Output to the subscriber at Input
type Connection struct {
	Output string
	Input  string
	Kind   string
}

// String returns the stage file form of the connection
func (c Connection) String() string {
	return fmt.Sprintf("%s,%s,%s", c.Output, c.Input, c.Kind)
}

// ParseConnection reads a "<output>,<input>,<kind>" entry
func ParseConnection(entry string) (Connection, error) {
	parts := strings.Split(entry, ",")
	if len(parts) != 3 {
		return Connection{}, gerrors.NewErrInvalidConnection(entry)
	}

	conn := Connection{
		Output: strings.TrimSpace(parts[0]),
		Input:  strings.TrimSpace(parts[1]),
		Kind:   strings.TrimSpace(parts[2]),
	}
	if conn.Output == "" || conn.Input == "" {
		return Connection{}, gerrors.NewErrInvalidConnection(entry)
	}
	return conn, nil
}

// ReadConfig reads a YAML stage file
func ReadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read stage %s: %w", path, err)
	}

	config := new(Config)
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stage %s: %w", path, err)
	}
	return config, nil
}

// WriteConfig writes config to path as YAML
func WriteConfig(path string, config *Config) error {
	v := viper.New()
	v.SetConfigType("yaml")

	actors := make([]any, 0, len(config.Actors))
	for _, descriptor := range config.Actors {
		actors = append(actors, toMap(descriptor))
	}

	if config.Name != "" {
		v.Set("name", config.Name)
	}
	v.Set("actors", actors)
	v.Set("connections", config.Connections)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write stage %s: %w", path, err)
	}
	return nil
}

func toMap(descriptor actor.Descriptor) map[string]any {
	entry := map[string]any{
		"uuid":     descriptor.UUID,
		"type":     descriptor.Type,
		"name":     descriptor.Name,
		"endpoint": descriptor.Endpoint,
		"xpos":     descriptor.X,
		"ypos":     descriptor.Y,
	}
	if len(descriptor.Values) > 0 {
		values := make(map[string]any, len(descriptor.Values))
		for name, value := range descriptor.Values {
			values[name] = value
		}
		entry["values"] = values
	}
	return entry
}
