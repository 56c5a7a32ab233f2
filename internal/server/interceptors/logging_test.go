package interceptors

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoggingUnary(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel zapcore.Level
		wantCode  string
	}{
		{"ok", nil, zapcore.InfoLevel, "OK"},
		{"client error", status.Error(codes.PermissionDenied, "admin or owner required"), zapcore.InfoLevel, "PermissionDenied"},
		{"conflict", status.Error(codes.Aborted, "hostname taken"), zapcore.InfoLevel, "Aborted"},
		{"server error", status.Error(codes.Internal, "internal error"), zapcore.ErrorLevel, "Internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			interceptor := LoggingUnary(zap.New(core), nil)
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return "resp", tt.err
			}

			_, err := interceptor(context.Background(), "req", &grpc.UnaryServerInfo{FullMethod: "/test.Service/Method"}, handler)
			if err != tt.err {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if logs.Len() != 1 {
				t.Fatalf("log entries = %d, want 1", logs.Len())
			}
			entry := logs.All()[0]
			if entry.Level != tt.wantLevel {
				t.Errorf("level = %v, want %v", entry.Level, tt.wantLevel)
			}
			fields := entry.ContextMap()
			if fields["method"] != "/test.Service/Method" || fields["code"] != tt.wantCode {
				t.Errorf("fields = %v", fields)
			}
			if _, ok := fields["error"]; ok != (tt.err != nil) {
				t.Errorf("error field present = %v", ok)
			}
		})
	}
}

func TestLoggingUnary_SkipMethod(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	interceptor := LoggingUnary(zap.New(core), map[string]bool{"/grpc.health.v1.Health/Check": true})
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "resp", nil
	}

	if _, err := interceptor(context.Background(), "req", &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler); err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("log entries = %d, want 0", logs.Len())
	}
}
