package legacy

import (
	"github.com/go-logr/logr"

	"github.com/l7mp/computed-sortby/pkg/computed"
	"github.com/l7mp/computed-sortby/pkg/observe"
)

const (
	// SortByMacro is the name sortBy is registered under.
	SortByMacro = "sortBy"
	// DeprecationID identifies the deprecation notice of the global import.
	DeprecationID = "computed-sortby.global-import"
	// DeprecationUntil is the version the global import is removed in.
	DeprecationUntil = "1.0.0"
	// DeprecationMessage is the text of the deprecation notice.
	DeprecationMessage = "Using computed.sortBy from the global namespace is deprecated, " +
		"use package computed directly instead"
)

// Initializer is a named hook run once when an application boots.
type Initializer struct {
	Name       string
	Initialize func(app *Application) error
}

// SortByInitializer attaches a deprecated sortBy macro to the namespace of the application.
// Each call of the macro logs a deprecation notice and forwards the arguments unchanged to
// computed.SortByArgs.
func SortByInitializer() Initializer {
	return Initializer{
		Name: SortByMacro,
		Initialize: func(app *Application) error {
			log := app.log.WithName("deprecation")
			return app.Namespace().Register(SortByMacro, func(sourceKey string, args ...any) (observe.Property, error) {
				Deprecate(log)
				v, err := computed.SortByArgs(sourceKey, args...)
				if err != nil {
					return nil, err
				}
				return v, nil
			})
		},
	}
}

// Deprecate logs the deprecation notice of the global import.
func Deprecate(log logr.Logger) {
	log.Info(DeprecationMessage, "id", DeprecationID, "until", DeprecationUntil)
}
