package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/dto"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/service"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/config"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/port/outbound"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNATSConfig() config.NATSConfig {
	return config.NATSConfig{
		URL:            "nats://127.0.0.1:1",
		Subject:        "glstring.canonicalize",
		QueueGroup:     "gl-smartsort",
		ConnectRetries: 1,
		MaxReconnects:  0,
		ReconnectWait:  10 * time.Millisecond,
	}
}

// failingService fails every canonicalization request.
type failingService struct{}

func (failingService) Canonicalize(context.Context, []string) ([]dto.CanonicalResult, error) {
	return nil, errors.New("worker pool exhausted")
}

func (failingService) Stream(context.Context, io.Reader, outbound.ResultWriter) (dto.StreamStats, error) {
	return dto.StreamStats{}, errors.New("not supported")
}

func newTestResponder(t *testing.T) *Responder {
	t.Helper()

	svc := service.NewBatchCanonicalizer(config.BatchConfig{Workers: 2, ChunkSize: 16})
	r, err := NewResponder(testNATSConfig(), svc)
	require.NoError(t, err)
	return r
}

func TestNewResponder_Validation(t *testing.T) {
	svc := service.NewBatchCanonicalizer(config.BatchConfig{Workers: 1, ChunkSize: 1})

	tests := []struct {
		name    string
		mutate  func(c *config.NATSConfig)
		service *service.BatchCanonicalizer
		wantErr string
	}{
		{name: "valid", mutate: func(*config.NATSConfig) {}, service: svc},
		{name: "empty subject", mutate: func(c *config.NATSConfig) { c.Subject = "" }, service: svc, wantErr: "subject"},
		{name: "empty url", mutate: func(c *config.NATSConfig) { c.URL = " " }, service: svc, wantErr: "NATS URL"},
		{name: "nil service", mutate: func(*config.NATSConfig) {}, wantErr: "service"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testNATSConfig()
			tt.mutate(&cfg)

			var r *Responder
			var err error
			if tt.service != nil {
				r, err = NewResponder(cfg, tt.service)
			} else {
				r, err = NewResponder(cfg, nil)
			}

			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, defaultDrainTimeout, r.config.DrainTimeout)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, r)
		})
	}
}

func TestResponder_HandleMessage(t *testing.T) {
	r := newTestResponder(t)

	tests := []struct {
		name     string
		payload  string
		expected string
	}{
		{name: "single GL string", payload: "A*01:103+A*01:11", expected: "A*01:11+A*01:103"},
		{name: "several lines", payload: "B*07:02^A*02:01\nA*11/A*9", expected: "A*02:01^B*07:02\nA*9/A*11"},
		{name: "blank line kept", payload: "A*11/A*9\n\nA*2/A*1", expected: "A*9/A*11\n\nA*1/A*2"},
		{name: "empty payload", payload: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := r.HandleMessage(context.Background(), []byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(reply))
		})
	}
}

func TestResponder_BuildReply(t *testing.T) {
	r := newTestResponder(t)

	reply := r.buildReply(context.Background(), &nats.Msg{
		Subject: "glstring.canonicalize",
		Reply:   "_INBOX.abc",
		Data:    []byte("A*02:01+A*01:01"),
	})

	assert.Equal(t, "_INBOX.abc", reply.Subject)
	assert.Equal(t, "A*01:01+A*02:01", string(reply.Data))
	assert.Empty(t, reply.Header.Get(ErrorHeader))
}

func TestResponder_BuildReplyReportsFailure(t *testing.T) {
	r, err := NewResponder(testNATSConfig(), failingService{})
	require.NoError(t, err)

	reply := r.buildReply(context.Background(), &nats.Msg{Reply: "_INBOX.def", Data: []byte("A")})

	assert.Empty(t, reply.Data)
	assert.Contains(t, reply.Header.Get(ErrorHeader), "worker pool exhausted")
}

func TestResponder_OnMessageWithoutConnection(t *testing.T) {
	r := newTestResponder(t)

	assert.NotPanics(t, func() {
		r.onMessage(&nats.Msg{Subject: "glstring.canonicalize", Data: []byte("A")})
		r.onMessage(&nats.Msg{Subject: "glstring.canonicalize", Reply: "_INBOX.x", Data: []byte("A")})
	})
}

func TestResponder_StartFailsWithoutServer(t *testing.T) {
	r := newTestResponder(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := r.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to NATS")
	assert.ErrorIs(t, err, nats.ErrNoServers)
}

func TestIsTransientConnectError(t *testing.T) {
	assert.True(t, isTransientConnectError(nats.ErrNoServers))
	assert.True(t, isTransientConnectError(fmt.Errorf("dial: %w", nats.ErrTimeout)))
	assert.False(t, isTransientConnectError(nats.ErrAuthorization))
	assert.False(t, isTransientConnectError(errors.New("bad url")))
}
