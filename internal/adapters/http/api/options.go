package api

import "github.com/okian/cricscore/pkg/logger"

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxBodyBytes caps the size of scorecard request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithLogger sets a custom logger for the handlers.
func WithLogger(logger logger.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}
