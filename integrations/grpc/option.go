package grpc

import (
	"errors"

	"github.com/cloudapi/identity/core"
	"github.com/cloudapi/identity/validator"
)

// Option configures the interceptor.
type Option func(*Interceptor) error

// WithValidator sets the token validator (REQUIRED).
func WithValidator(v core.Validator[*validator.Claims]) Option {
	return func(i *Interceptor) error {
		if v == nil {
			return errors.New("validator cannot be nil")
		}
		i.validator = v
		return nil
	}
}

// WithLogger sets an optional logger for the interceptor and its core.
// A *slog.Logger satisfies core.Logger.
func WithLogger(logger core.Logger) Option {
	return func(i *Interceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.logger = logger
		return nil
	}
}

// WithTokenExtractor sets a custom token extractor function.
// Default is MetadataTokenExtractor.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *Interceptor) error {
		if extractor == nil {
			return errors.New("token extractor cannot be nil")
		}
		i.tokenExtractor = extractor
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *Interceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods excludes methods from evaluation.
// Methods should be provided in the format: "/package.Service/Method"
func WithExcludedMethods(methods ...string) Option {
	return func(i *Interceptor) error {
		if i.excludedMethods == nil {
			i.excludedMethods = make(map[string]bool)
		}
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}
