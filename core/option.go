package core

import "errors"

// Option is a function that configures the Core.
// Options return errors to enable validation during construction.
type Option[C any] func(*Core[C]) error

// New creates a new Core instance with the provided options.
//
// The Core must be configured with a Validator using WithValidator:
//
//	c, err := core.New(
//	    core.WithValidator[*validator.Claims](v),
//	    core.WithLogger[*validator.Claims](logger),
//	)
func New[C any](opts ...Option[C]) (*Core[C], error) {
	c := &Core[C]{}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// validate ensures all required fields are set.
func (c *Core[C]) validate() error {
	if c.validator == nil {
		return NewValidationError(
			ErrorCodeValidatorNotSet,
			"validator is required but not set (use WithValidator option)",
			nil,
		)
	}
	return nil
}

// WithValidator sets the validator for the Core. Required.
func WithValidator[C any](validator Validator[C]) Option[C] {
	return func(c *Core[C]) error {
		if validator == nil {
			return errors.New("validator cannot be nil")
		}
		c.validator = validator
		return nil
	}
}

// WithLogger sets a logger. Failures are logged at their severity.
func WithLogger[C any](logger Logger) Option[C] {
	return func(c *Core[C]) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}
