// Package grpc provides gRPC server interceptors that resolve the caller's
// identity from request metadata.
//
// The token is read from the "authorization" metadata entry ("Bearer
// <token>"). When that entry is absent the "access_token" entry is used. A
// call without either continues as anonymous; a call whose credential fails
// is answered with codes.Unauthenticated and the handler is not invoked.
//
//	interceptor, err := grpc.New(
//	    grpc.WithValidator(v),
//	    grpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	server := googlegrpc.NewServer(
//	    googlegrpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	    googlegrpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	)
//
// Handlers read the caller with Actor:
//
//	func (s *server) WhoAmI(ctx context.Context, _ *pb.Empty) (*pb.User, error) {
//	    claims, ok := grpc.Actor(ctx)
//	    if !ok {
//	        return nil, status.Error(codes.PermissionDenied, "anonymous")
//	    }
//	    return &pb.User{Id: claims.Subject}, nil
//	}
package grpc
