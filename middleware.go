package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudapi/identity/core"
	"github.com/cloudapi/identity/validator"
)

// Outcome is the result of evaluating one request.
type Outcome = core.Outcome[*validator.Claims]

// TokenValidator verifies a raw token. It is satisfied by *validator.Validator.
type TokenValidator = core.Validator[*validator.Claims]

// ExclusionURLHandler reports whether a request skips evaluation.
type ExclusionURLHandler func(r *http.Request) bool

// Middleware attaches an identity to every request it lets through. A request
// without a credential continues as anonymous; a request whose credential
// fails is answered by the error handler and never reaches the next handler.
type Middleware struct {
	core                *core.Core[*validator.Claims]
	validator           TokenValidator
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	validateOnOptions   bool
	exclusionURLHandler ExclusionURLHandler
	logger              Logger
	metrics             Metrics
	tracer              Tracer
}

// New constructs a Middleware. WithValidator is required.
//
//	m, err := identity.New(
//	    identity.WithValidator(v),
//	    identity.WithLogger(identity.NewZapLogger(log)),
//	)
func New(opts ...Option) (*Middleware, error) {
	m := &Middleware{
		validateOnOptions: true,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if m.validator == nil {
		return nil, fmt.Errorf("invalid middleware configuration: %w", ErrValidatorNil)
	}

	m.applyDefaults()

	coreOpts := []core.Option[*validator.Claims]{
		core.WithValidator[*validator.Claims](m.validator),
	}
	if m.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger[*validator.Claims](m.logger))
	}

	c, err := core.New(coreOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}
	m.core = c

	return m, nil
}

func (m *Middleware) applyDefaults() {
	if m.errorHandler == nil {
		m.errorHandler = DefaultErrorHandler
	}
	if m.tokenExtractor == nil {
		m.tokenExtractor = DefaultTokenExtractor
	}
	if m.metrics == nil {
		m.metrics = &NoopMetrics{}
	}
	if m.tracer == nil {
		m.tracer = &NoopTracer{}
	}
}

// Evaluate extracts and verifies the request's credential. It does not
// consult exclusions and does not write a response.
func (m *Middleware) Evaluate(r *http.Request) Outcome {
	ctx, span := m.tracer.StartSpan(r.Context(), "identity.evaluate")
	defer span.Finish()

	start := time.Now()
	outcome := m.evaluate(ctx, r)
	m.observe(span, outcome, time.Since(start))

	return outcome
}

func (m *Middleware) evaluate(ctx context.Context, r *http.Request) Outcome {
	cred, err := m.tokenExtractor(r)
	if err != nil {
		return m.core.RejectCredential(err)
	}
	if cred.Source != SourceNone {
		m.debug("credential found", "source", cred.Source.String())
		if cred.Token == "" {
			return m.core.Reject(core.NewValidationError(core.ErrorCodeTokenMalformed, "token is empty", ErrEmptyToken))
		}
	}
	return m.core.CheckToken(ctx, cred.Token)
}

func (m *Middleware) observe(span Span, outcome Outcome, duration time.Duration) {
	kind := outcome.Kind().String()
	span.SetTag("identity.outcome", kind)

	code, severity := "", ""
	if failure := outcome.Failure(); failure != nil {
		code, severity = failure.Code, failure.Severity().String()
		span.SetTag("identity.failure_code", code)
		span.SetError(failure)
	}

	m.metrics.ObserveVerification(kind, code, severity, duration)
}

// Authenticate evaluates r and returns a copy carrying the identity. Excluded
// requests and unvalidated OPTIONS requests are returned unchanged. The
// error is non-nil, and matches ErrJWTInvalid, only for rejected requests.
func (m *Middleware) Authenticate(r *http.Request) (*http.Request, error) {
	if m.skip(r) {
		return r, nil
	}

	outcome := m.Evaluate(r)
	identity, ok := outcome.Identity()
	if !ok {
		return r, outcome.Err()
	}

	return r.Clone(core.SetIdentity(r.Context(), identity)), nil
}

func (m *Middleware) skip(r *http.Request) bool {
	if m.exclusionURLHandler != nil && m.exclusionURLHandler(r) {
		m.debug("skipping evaluation for excluded URL", "method", r.Method, "path", r.URL.Path)
		return true
	}
	if !m.validateOnOptions && r.Method == http.MethodOptions {
		m.debug("skipping evaluation for OPTIONS request")
		return true
	}
	return false
}

// Handler wraps next. Rejected requests are answered by the error handler and
// next is not called.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authed, err := m.Authenticate(r)
		if err != nil {
			m.Reject(w, r, err)
			return
		}
		next.ServeHTTP(w, authed)
	})
}

// Reject renders err through the configured error handler.
func (m *Middleware) Reject(w http.ResponseWriter, r *http.Request, err error) {
	m.errorHandler(w, r, err)
}

func (m *Middleware) debug(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}
