// Package messaging exposes GL string canonicalization as a NATS
// request/reply service.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/common/logging"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/common/retry"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/common/slogger"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/config"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/port/inbound"

	"github.com/nats-io/nats.go"
)

// ErrorHeader carries the failure reason on an error reply.
const ErrorHeader = "Gl-Smartsort-Error"

const (
	clientName          = "gl-smartsort"
	defaultDrainTimeout = 5 * time.Second
	requestTimeout      = 30 * time.Second
)

// Responder answers NATS requests with the canonical form of their payload.
// A payload holding several newline-separated GL strings is answered line
// by line, joined with newlines.
type Responder struct {
	config  config.NATSConfig
	service inbound.CanonicalizationService
	logger  logging.ApplicationLogger

	mu   sync.Mutex
	conn *nats.Conn
}

// NewResponder creates a responder for the configured subject.
func NewResponder(cfg config.NATSConfig, service inbound.CanonicalizationService) (*Responder, error) {
	if strings.TrimSpace(cfg.Subject) == "" {
		return nil, errors.New("subject cannot be empty")
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("NATS URL cannot be empty")
	}
	if service == nil {
		return nil, errors.New("canonicalization service cannot be nil")
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = defaultDrainTimeout
	}

	return &Responder{
		config:  cfg,
		service: service,
		logger:  slogger.WithComponent("nats-responder"),
	}, nil
}

// HandleMessage canonicalizes every line of data and returns the joined result.
func (r *Responder) HandleMessage(ctx context.Context, data []byte) ([]byte, error) {
	lines := strings.Split(string(data), "\n")

	results, err := r.service.Canonicalize(ctx, lines)
	if err != nil {
		return nil, fmt.Errorf("canonicalize request: %w", err)
	}

	canonical := make([]string, len(results))
	for i, result := range results {
		canonical[i] = result.Canonical
	}
	return []byte(strings.Join(canonical, "\n")), nil
}

// buildReply builds the reply to a request. Failures are reported through
// ErrorHeader with an empty body.
func (r *Responder) buildReply(ctx context.Context, request *nats.Msg) *nats.Msg {
	reply := nats.NewMsg(request.Reply)

	data, err := r.HandleMessage(ctx, request.Data)
	if err != nil {
		reply.Header.Set(ErrorHeader, err.Error())
		return reply
	}
	reply.Data = data
	return reply
}

func (r *Responder) onMessage(request *nats.Msg) {
	ctx, cancel := context.WithTimeout(logging.NewCorrelationID(context.Background()), requestTimeout)
	defer cancel()

	if request.Reply == "" {
		r.logger.Warn(ctx, "Dropping request without reply subject", logging.Fields{
			"subject": request.Subject,
			"bytes":   len(request.Data),
		})
		return
	}

	reply := r.buildReply(ctx, request)
	if errMsg := reply.Header.Get(ErrorHeader); errMsg != "" {
		r.logger.Warn(ctx, "Canonicalization request failed", logging.Fields{"error": errMsg})
	}

	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()
	if conn == nil {
		return
	}
	if err := conn.PublishMsg(reply); err != nil {
		r.logger.ErrorWithError(ctx, err, "Failed to publish reply", logging.Fields{"reply": request.Reply})
		return
	}

	r.logger.Debug(ctx, "Answered canonicalization request", logging.Fields{
		"subject": request.Subject,
		"bytes":   len(reply.Data),
	})
}

// connectOptions returns the NATS options derived from the configuration.
func (r *Responder) connectOptions(closed chan<- struct{}) []nats.Option {
	ctx := context.Background()
	return []nats.Option{
		nats.Name(clientName),
		nats.MaxReconnects(r.config.MaxReconnects),
		nats.ReconnectWait(r.config.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				r.logger.ErrorWithError(ctx, err, "Disconnected from NATS", nil)
			}
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			r.logger.Info(ctx, "Reconnected to NATS", logging.Fields{"url": conn.ConnectedUrl()})
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			close(closed)
		}),
	}
}

// connect dials NATS, retrying with backoff while no server is reachable.
func (r *Responder) connect(ctx context.Context, closed chan<- struct{}) (*nats.Conn, error) {
	backoff := retry.DefaultConfig()
	backoff.MaxRetries = r.config.ConnectRetries
	backoff.InitialDelay = r.config.ReconnectWait

	var conn *nats.Conn
	err := retry.NewExecutor(backoff, isTransientConnectError).Execute(ctx, func(context.Context) error {
		var err error
		conn, err = nats.Connect(r.config.URL, r.connectOptions(closed)...)
		return err
	})
	return conn, err
}

func isTransientConnectError(err error) bool {
	return errors.Is(err, nats.ErrNoServers) || errors.Is(err, nats.ErrTimeout)
}

// Start connects, subscribes and serves requests until ctx is done, then
// drains the connection so in-flight requests are answered.
func (r *Responder) Start(ctx context.Context) error {
	closed := make(chan struct{})

	conn, err := r.connect(ctx, closed)
	if err != nil {
		return fmt.Errorf("connect to NATS at %s: %w", r.config.URL, err)
	}

	var sub *nats.Subscription
	if r.config.QueueGroup != "" {
		sub, err = conn.QueueSubscribe(r.config.Subject, r.config.QueueGroup, r.onMessage)
	} else {
		sub, err = conn.Subscribe(r.config.Subject, r.onMessage)
	}
	if err != nil {
		conn.Close()
		return fmt.Errorf("subscribe to %s: %w", r.config.Subject, err)
	}

	r.mu.Lock()
	r.conn = conn
	r.mu.Unlock()

	r.logger.Info(ctx, "Serving canonicalization requests", logging.Fields{
		"url":         conn.ConnectedUrl(),
		"subject":     r.config.Subject,
		"queue_group": r.config.QueueGroup,
	})

	<-ctx.Done()
	r.logger.Info(context.Background(), "Stopping canonicalization responder", logging.Fields{
		"subject":   sub.Subject,
		"delivered": deliveredCount(sub),
	})
	return r.drain(conn, closed)
}

func deliveredCount(sub *nats.Subscription) int64 {
	delivered, err := sub.Delivered()
	if err != nil {
		return -1
	}
	return delivered
}

func (r *Responder) drain(conn *nats.Conn, closed <-chan struct{}) error {
	if err := conn.Drain(); err != nil {
		conn.Close()
		return fmt.Errorf("drain NATS connection: %w", err)
	}

	select {
	case <-closed:
		r.logger.Info(context.Background(), "NATS responder stopped", nil)
		return nil
	case <-time.After(r.config.DrainTimeout):
		conn.Close()
		return fmt.Errorf("drain NATS connection: timed out after %s", r.config.DrainTimeout)
	}
}
