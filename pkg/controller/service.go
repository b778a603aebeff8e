package controller

import (
	"io"

	herrors "github.com/vango-dev/hydra/internal/errors"
)

// ServiceType describes a process-wide singleton.
type ServiceType struct {
	Name string

	// Requires lists the services this one is built from.
	Requires []*ServiceType

	// New builds the service from its resolved dependencies.
	New func(deps Deps) (any, error)
}

// String returns the service name.
func (t *ServiceType) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// Deps holds the resolved dependencies of a service under construction.
type Deps struct {
	m map[*ServiceType]any
}

// Get returns the resolved dependency t, or nil if it was not declared.
func (d Deps) Get(t *ServiceType) any {
	return d.m[t]
}

// Dep returns the resolved dependency t as T.
func Dep[T any](d Deps, t *ServiceType) T {
	v, _ := d.m[t].(T)
	return v
}

// Services is the registry of process-wide services.
//
// Services are created lazily on first resolution (or all at once by
// Start) and live until Close, which tears them down in reverse creation
// order. Dependencies between services must be acyclic.
type Services struct {
	registered map[*ServiceType]bool
	instances  map[*ServiceType]any
	resolving  map[*ServiceType]bool
	order      []*ServiceType
	closed     bool
}

// NewServices creates a registry holding the given service types.
func NewServices(types ...*ServiceType) *Services {
	s := &Services{
		registered: make(map[*ServiceType]bool),
		instances:  make(map[*ServiceType]any),
		resolving:  make(map[*ServiceType]bool),
	}
	s.Register(types...)
	return s
}

// Register adds service types to the registry.
func (s *Services) Register(types ...*ServiceType) {
	for _, t := range types {
		s.registered[t] = true
	}
}

// Provide registers t with an already built instance.
func (s *Services) Provide(t *ServiceType, v any) {
	s.registered[t] = true
	if _, ok := s.instances[t]; !ok {
		s.order = append(s.order, t)
	}
	s.instances[t] = v
}

// Registered reports whether t is known to the registry.
func (s *Services) Registered(t *ServiceType) bool {
	return s.registered[t]
}

// Resolve returns the singleton for t, building it and its dependencies on
// first use.
func (s *Services) Resolve(t *ServiceType) (any, error) {
	if v, ok := s.instances[t]; ok {
		return v, nil
	}
	if s.closed {
		return nil, herrors.New("E111").WithDetailf("service %q requested after Close", t.Name)
	}
	if !s.registered[t] {
		return nil, herrors.New("E111").WithDetailf("service %q is not registered", t.Name)
	}
	if s.resolving[t] {
		return nil, herrors.New("E112").WithDetailf("service %q depends on itself", t.Name)
	}
	if t.New == nil {
		return nil, herrors.New("E111").WithDetailf("service %q has no constructor", t.Name)
	}

	s.resolving[t] = true
	defer delete(s.resolving, t)

	deps := Deps{m: make(map[*ServiceType]any, len(t.Requires))}
	for _, dep := range t.Requires {
		v, err := s.Resolve(dep)
		if err != nil {
			if herrors.HasCode(err, "E112") {
				return nil, herrors.New("E112").WithDetailf("%s -> %s", t.Name, dep.Name).Wrap(err)
			}
			return nil, err
		}
		deps.m[dep] = v
	}

	v, err := t.New(deps)
	if err != nil {
		return nil, herrors.New("E115").WithDetailf("service %q", t.Name).Wrap(err)
	}
	s.instances[t] = v
	s.order = append(s.order, t)
	return v, nil
}

// Start resolves every registered service.
func (s *Services) Start() error {
	for t := range s.registered {
		if _, err := s.Resolve(t); err != nil {
			return err
		}
	}
	return nil
}

// Close tears services down in reverse creation order. Instances that
// implement io.Closer or Disposer are closed. The first close error is
// returned after all services were visited.
func (s *Services) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var first error
	for i := len(s.order) - 1; i >= 0; i-- {
		switch v := s.instances[s.order[i]].(type) {
		case io.Closer:
			if err := v.Close(); err != nil && first == nil {
				first = err
			}
		case Disposer:
			v.Dispose()
		}
	}
	s.instances = make(map[*ServiceType]any)
	s.order = nil
	return first
}
