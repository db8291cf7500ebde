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
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/sphactor/actor"
	"github.com/tochemey/sphactor/capability"
	gerrors "github.com/tochemey/sphactor/errors"
	"github.com/tochemey/sphactor/internal/chain"
	"github.com/tochemey/sphactor/log"
)

// Stage is a named collection of actors together with the file its
// topology was loaded from or saved to.
type Stage struct {
	mu sync.RWMutex

	name      string
	path      string
	registry  *actor.Registry
	actors    map[string]*actor.Handle
	order     []string
	logger    log.Logger
	actorOpts []actor.Option
}

// New creates an empty stage. registry is used to create the actors of a
// loaded topology.
func New(name string, registry *actor.Registry, opts ...Option) *Stage {
	stage := &Stage{
		name:     name,
		registry: registry,
		actors:   make(map[string]*actor.Handle),
		logger:   log.DefaultLogger,
	}
	for _, opt := range opts {
		opt.Apply(stage)
	}
	stage.logger = stage.logger.With("stage", name)
	return stage
}

// Name returns the stage name
func (s *Stage) Name() string {
	return s.name
}

// Path returns the file the stage was last loaded from or saved to
func (s *Stage) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Add puts an actor on the stage
func (s *Stage) Add(handle *actor.Handle) error {
	if handle == nil {
		return gerrors.ErrInvalidValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	uuid := handle.UUID()
	if _, ok := s.actors[uuid]; ok {
		return fmt.Errorf("(actor=%s) %w", uuid, gerrors.ErrActorAlreadyExists)
	}
	s.actors[uuid] = handle
	s.order = append(s.order, uuid)
	return nil
}

// Find returns the actor with the given uuid
func (s *Stage) Find(uuid string) (*actor.Handle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	handle, ok := s.actors[stageKey(uuid)]
	if !ok {
		return nil, gerrors.NewErrActorNotFound(uuid)
	}
	return handle, nil
}

// Remove destroys the actor with the given uuid and takes it off the stage
func (s *Stage) Remove(ctx context.Context, uuid string) error {
	s.mu.Lock()
	uuid = stageKey(uuid)
	handle, ok := s.actors[uuid]
	if !ok {
		s.mu.Unlock()
		return gerrors.NewErrActorNotFound(uuid)
	}
	delete(s.actors, uuid)
	s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == uuid })
	s.mu.Unlock()

	return handle.Destroy(ctx)
}

// Actors returns the actors in the order they were added
func (s *Stage) Actors() []*actor.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	handles := make([]*actor.Handle, 0, len(s.order))
	for _, uuid := range s.order {
		handles = append(handles, s.actors[uuid])
	}
	return handles
}

// Len returns the number of actors on the stage
func (s *Stage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.actors)
}

// Load reads the stage file at path and creates its actors and connections.
// It returns the number of actors on the stage.
func (s *Stage) Load(ctx context.Context, path string) (int, error) {
	config, err := ReadConfig(path)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.path = path
	s.mu.Unlock()

	return s.LoadConfig(ctx, config)
}

// LoadConfig creates the actors and connections of config. Actors keep
// their uuid, position and bound parameter values.
func (s *Stage) LoadConfig(ctx context.Context, config *Config) (int, error) {
	for _, descriptor := range config.Actors {
		if err := s.spawn(ctx, descriptor); err != nil {
			return s.Len(), err
		}
	}

	for _, entry := range config.Connections {
		if err := s.connect(entry); err != nil {
			return s.Len(), err
		}
	}

	s.logger.Infof("stage loaded with %d actors and %d connections", s.Len(), len(config.Connections))
	return s.Len(), nil
}

// Save writes the stage to the file it was loaded from
func (s *Stage) Save() error {
	path := s.Path()
	if path == "" {
		return fmt.Errorf("stage %s has no file: %w", s.name, gerrors.ErrInvalidValue)
	}
	return s.SaveAs(path)
}

// SaveAs writes the stage to path, which becomes the stage file
func (s *Stage) SaveAs(path string) error {
	if err := WriteConfig(path, s.Config()); err != nil {
		return err
	}

	s.mu.Lock()
	s.path = path
	s.mu.Unlock()
	return nil
}

// Config returns the persisted form of the stage. Every subscription of an
// actor is written as "<publisher endpoint>,<actor endpoint>,OSC".
func (s *Stage) Config() *Config {
	config := &Config{Name: s.name}
	for _, handle := range s.Actors() {
		config.Actors = append(config.Actors, handle.Descriptor())
		for _, dest := range handle.Connections() {
			conn := Connection{Output: dest, Input: handle.Endpoint(), Kind: connectionKind}
			config.Connections = append(config.Connections, conn.String())
		}
	}
	return config
}

// Clear destroys every actor concurrently and empties the stage
func (s *Stage) Clear(ctx context.Context) error {
	s.mu.Lock()
	handles := make([]*actor.Handle, 0, len(s.order))
	for _, uuid := range s.order {
		handles = append(handles, s.actors[uuid])
	}
	s.actors = make(map[string]*actor.Handle)
	s.order = nil
	s.mu.Unlock()

	eg := new(errgroup.Group)
	for _, handle := range handles {
		eg.Go(func() error {
			if err := handle.Destroy(ctx); err != nil {
				return fmt.Errorf("failed to destroy actor %s: %w", handle.UUID(), err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// spawn creates the actor of a descriptor and puts it on the stage
func (s *Stage) spawn(ctx context.Context, descriptor actor.Descriptor) error {
	opts := slices.Clone(s.actorOpts)
	opts = append(opts, actor.WithUUID(descriptor.UUID))
	if descriptor.Name != "" {
		opts = append(opts, actor.WithName(descriptor.Name))
	}

	handle, err := s.registry.NewByType(ctx, descriptor.Type, opts...)
	if err != nil {
		return err
	}

	if err := s.Add(handle); err != nil {
		return discard(ctx, handle, err)
	}

	handle.SetPosition(descriptor.X, descriptor.Y)
	if len(descriptor.Values) == 0 {
		return nil
	}

	schema, err := handle.Capability()
	if err != nil {
		return err
	}

	restore := chain.New(chain.WithFailFast())
	for name, value := range descriptor.Values {
		param, ok := lookupParam(schema, name)
		if !ok {
			s.logger.Warnf("actor %s has no bound parameter %s", handle.UUID(), name)
			continue
		}
		restore.Then(name, func() error {
			return handle.AskAPI(param.APICall, param.APIValue.String(), value)
		})
	}
	if err := restore.Run(); err != nil {
		return fmt.Errorf("failed to restore the values of actor %s: %w", handle.UUID(), err)
	}
	return nil
}

// connect restores one connection entry. The actor bound at the input
// endpoint subscribes to the output endpoint.
func (s *Stage) connect(entry string) error {
	conn, err := ParseConnection(entry)
	if err != nil {
		return err
	}

	for _, handle := range s.Actors() {
		if handle.Endpoint() == conn.Input {
			return handle.Connect(conn.Output)
		}
	}

	s.logger.Warnf("no actor on the stage is bound at %s", conn.Input)
	return nil
}

// stageKey maps any accepted uuid spelling to the form actors are keyed by
func stageKey(uuid string) string {
	if key, err := actor.NormalizeUUID(uuid); err == nil {
		return key
	}
	return strings.ToUpper(uuid)
}

// lookupParam finds a bound capability parameter by name. Stage files may
// have their keys lower cased.
func lookupParam(descriptor *capability.Descriptor, name string) (capability.Param, bool) {
	if descriptor == nil {
		return capability.Param{}, false
	}
	for _, param := range descriptor.Bound() {
		if strings.EqualFold(param.Name, name) {
			return param, true
		}
	}
	return capability.Param{}, false
}

// discard destroys an actor that could not be staged
func discard(ctx context.Context, handle *actor.Handle, cause error) error {
	return multierr.Append(cause, handle.Destroy(ctx))
}
