package kpi

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Option customizes preference stores.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	namespaces Namespaces
	origin     string
}

// WithLogger sets the logger used for storage and reconciliation warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithNamespaces overrides the storage key prefixes.
func WithNamespaces(ns Namespaces) Option {
	return func(o *options) {
		o.namespaces = ns
	}
}

// WithOrigin labels the instance so change events it causes can be told
// apart from changes made elsewhere.
func WithOrigin(origin string) Option {
	return func(o *options) {
		o.origin = origin
	}
}

func buildOptions(opts []Option) options {
	o := options{namespaces: DefaultNamespaces()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	o.namespaces = o.namespaces.normalize()
	if o.origin == "" {
		o.origin = uuid.NewString()
	}
	return o
}
