package report

import (
	"github.com/brianraines/nightowl/pkg/logger"
)

// Option configures the renderer.
type Option func(*Renderer)

// WithLogger sets the logger used by the renderer.
func WithLogger(l logger.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}
