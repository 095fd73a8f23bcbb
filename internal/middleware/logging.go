package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, user ID, duration, and any error codes/messages.
// Client mistakes (invalid argument, not found, unauthenticated) log at WARN,
// everything else that fails at ERROR. A nil logger means slog.Default().
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			log := logger
			if log == nil {
				log = slog.Default()
			}
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			// user_id is empty unless the auth interceptor ran first.
			attrs := []any{
				"procedure", procedure,
				"user_id", GetUserID(ctx),
				"peer", req.Peer().Addr,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err == nil {
				log.Info("RPC ok", attrs...)
				return resp, nil
			}

			var connectErr *connect.Error
			if errors.As(err, &connectErr) {
				attrs = append(attrs, "code", connectErr.Code(), "error", connectErr.Message())
				if isClientError(connectErr.Code()) {
					log.Warn("RPC error", attrs...)
				} else {
					log.Error("RPC error", attrs...)
				}
			} else {
				log.Error("RPC error", append(attrs, "error", err)...)
			}
			return resp, err
		}
	}
}

func isClientError(code connect.Code) bool {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeUnauthenticated,
		connect.CodePermissionDenied, connect.CodeFailedPrecondition:
		return true
	}
	return false
}
