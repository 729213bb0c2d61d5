package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor writes one line per RPC. Failures carry the Connect code
// and are logged at the level levelFor picks. Register it after
// SessionInterceptor so lines carry the session ID.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.Duration("elapsed", time.Since(start)),
			}
			if id := GetSessionID(ctx); id != "" {
				attrs = append(attrs, slog.String("session_id", id))
			}

			if err == nil {
				slog.LogAttrs(ctx, slog.LevelInfo, "RPC ok", attrs...)
				return resp, nil
			}
			code := connect.CodeOf(err)
			attrs = append(attrs, slog.String("code", code.String()), slog.Any("error", err))
			slog.LogAttrs(ctx, levelFor(code), "RPC failed", attrs...)
			return resp, err
		}
	}
}

// levelFor keeps errors caused by the request itself out of the error log.
func levelFor(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInvalidArgument,
		connect.CodeNotFound,
		connect.CodeFailedPrecondition,
		connect.CodeAlreadyExists,
		connect.CodeOutOfRange,
		connect.CodeUnimplemented,
		connect.CodeCanceled:
		return slog.LevelWarn
	}
	return slog.LevelError
}
