package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"

	"github.com/cloudapi/identity/core"
	"github.com/cloudapi/identity/validator"
)

// Interceptor resolves the caller's identity for gRPC servers.
type Interceptor struct {
	core            *core.Core[*validator.Claims]
	validator       core.Validator[*validator.Claims]
	tokenExtractor  TokenExtractor
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
	logger          core.Logger
}

// New creates a new interceptor with the provided options.
// WithValidator option is required.
func New(opts ...Option) (*Interceptor, error) {
	interceptor := &Interceptor{
		tokenExtractor:  MetadataTokenExtractor,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, err
		}
	}

	if interceptor.validator == nil {
		return nil, errors.New("validator is required, use WithValidator option")
	}

	coreOpts := []core.Option[*validator.Claims]{
		core.WithValidator[*validator.Claims](interceptor.validator),
	}
	if interceptor.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger[*validator.Claims](interceptor.logger))
	}

	c, err := core.New(coreOpts...)
	if err != nil {
		return nil, err
	}
	interceptor.core = c

	return interceptor, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that attaches
// the caller's identity to the handler context.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if i.excludedMethods[info.FullMethod] {
			i.debug("skipping evaluation for excluded method", "method", info.FullMethod)
			return handler(ctx, req)
		}

		authedCtx, err := i.authenticate(ctx)
		if err != nil {
			return nil, err
		}

		return handler(authedCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that
// attaches the caller's identity to the stream context.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excludedMethods[info.FullMethod] {
			i.debug("skipping evaluation for excluded method", "method", info.FullMethod)
			return handler(srv, ss)
		}

		authedCtx, err := i.authenticate(ss.Context())
		if err != nil {
			return err
		}

		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: authedCtx})
	}
}

// Evaluate extracts and verifies the call's credential.
func (i *Interceptor) Evaluate(ctx context.Context) core.Outcome[*validator.Claims] {
	token, err := i.tokenExtractor(ctx)
	if errors.Is(err, ErrEmptyToken) {
		return i.core.Reject(core.NewValidationError(core.ErrorCodeTokenMalformed, "token is empty", err))
	}
	if err != nil {
		return i.core.RejectCredential(err)
	}
	return i.core.CheckToken(ctx, token)
}

func (i *Interceptor) authenticate(ctx context.Context) (context.Context, error) {
	outcome := i.Evaluate(ctx)
	identity, ok := outcome.Identity()
	if !ok {
		return ctx, i.errorHandler(outcome.Err())
	}
	return core.SetIdentity(ctx, identity), nil
}

func (i *Interceptor) debug(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Debug(msg, args...)
	}
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context carrying the identity.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
