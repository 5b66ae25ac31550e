package legacy

import (
	"github.com/go-logr/logr"
)

// Option configures an application.
type Option func(*Application)

// WithLogger sets the logger of the application.
func WithLogger(log logr.Logger) Option {
	return func(a *Application) {
		if log.GetSink() != nil {
			a.log = log
		}
	}
}

// Application runs its initializers against a namespace when booted.
type Application struct {
	namespace    *Namespace
	initializers []Initializer
	booted       bool
	log          logr.Logger
}

// NewApplication creates an application over a namespace; a nil namespace means Computed.
func NewApplication(ns *Namespace, opts ...Option) *Application {
	if ns == nil {
		ns = Computed
	}
	a := &Application{namespace: ns, log: logr.Discard()}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.WithName("application")
	return a
}

// Namespace returns the namespace the application initializes.
func (a *Application) Namespace() *Namespace { return a.namespace }

// Register adds an initializer. Initializers must be registered before Boot.
func (a *Application) Register(init Initializer) error {
	if a.booted {
		return ErrAlreadyBooted
	}
	a.initializers = append(a.initializers, init)
	return nil
}

// Boot runs the initializers in registration order. An application boots once.
func (a *Application) Boot() error {
	if a.booted {
		return ErrAlreadyBooted
	}
	a.booted = true

	for _, init := range a.initializers {
		a.log.V(2).Info("running initializer", "name", init.Name)
		if err := init.Initialize(a); err != nil {
			return NewInitializerError(init.Name, err)
		}
	}

	return nil
}

// Booted reports whether Boot was called.
func (a *Application) Booted() bool { return a.booted }
