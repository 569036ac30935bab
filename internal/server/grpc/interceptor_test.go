package grpc

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/phoneauth/internal/logging"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type recordingLogger struct {
	nopLogger
	mu   sync.Mutex
	args [][]any
}

func (l *recordingLogger) Debug(_ context.Context, _ string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.args = append(l.args, args)
}

func (l *recordingLogger) With(...any) logging.Logger { return l }

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	log := &recordingLogger{}
	s := &HealthServer{logger: log}

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, h)
	assert.NoError(t, err)
	assert.Equal(t, "ok", resp)

	if assert.Len(t, log.args, 1) {
		assert.Equal(t, "/grpc.health.v1.Health/Check", log.args[0][1])
		assert.Equal(t, "OK", log.args[0][3])
	}
}

func TestLoggingInterceptor_KeepsError(t *testing.T) {
	log := &recordingLogger{}
	s := &HealthServer{logger: log}

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "unknown service")
	}

	_, err := s.loggingInterceptor(context.Background(), nil, info, h)
	assert.Equal(t, codes.NotFound, status.Code(err))

	if assert.Len(t, log.args, 1) {
		assert.Equal(t, "NotFound", log.args[0][3])
	}
}
