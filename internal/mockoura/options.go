package mockoura

import (
	"github.com/brianraines/nightowl/pkg/logger"
)

// Option configures the server.
type Option func(*Server)

// WithToken requires clients to present this bearer token.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// WithPageSize caps how many records one response carries before a
// continuation token is issued.
func WithPageSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithLogger sets the logger used by the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
