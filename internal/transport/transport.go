package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/safar/artprint/internal/config"
	"github.com/safar/artprint/internal/errs"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const RequestIDHeader = "X-Request-Id"

// Request holds the parameters of one outgoing call.
type Request struct {
	Method  string
	URL     string
	Body    io.Reader
	Headers map[string]string
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Transport struct {
	doer    Doer
	breaker *gobreaker.CircuitBreaker[*Response]
	logger  zerolog.Logger
}

type Option func(*Transport)

func WithDoer(d Doer) Option {
	return func(t *Transport) { t.doer = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(t *Transport) { t.logger = l }
}

// New builds a Transport. The underlying client has no timeout of its own.
func New(cfg config.APIConfig, opts ...Option) *Transport {
	t := &Transport{
		doer:   &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.breaker = newBreaker("artprint-api", cfg, t.logger)
	return t
}

func newBreaker(name string, cfg config.APIConfig, logger zerolog.Logger) *gobreaker.CircuitBreaker[*Response] {
	var st gobreaker.Settings
	st.Name = name
	st.Timeout = cfg.BreakerOpenTimeout
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= cfg.BreakerMinRequests && failureRatio >= cfg.BreakerFailureRatio
	}
	st.IsSuccessful = func(err error) bool {
		return !errs.CountsAsFailure(err)
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
	}

	return gobreaker.NewCircuitBreaker[*Response](st)
}

// Send performs req. A response is returned for every status code; err is
// non-nil only when no response could be read, and is then an *errs.Error of
// kind transport.
func (t *Transport) Send(ctx context.Context, req Request) (*Response, error) {
	requestID := uuid.NewString()
	logger := t.logger.With().Str("request_id", requestID).Logger()
	start := time.Now()

	var resp *Response
	_, err := t.breaker.Execute(func() (*Response, error) {
		r, err := t.do(ctx, req, requestID)
		if err != nil {
			return nil, err
		}
		resp = r
		if r.StatusCode >= http.StatusInternalServerError {
			// counted against the breaker, still handed to the caller
			return r, errs.Server(r.StatusCode, errs.StatusMessage(r.StatusCode), nil)
		}
		return r, nil
	})

	latency := time.Since(start).Milliseconds()

	if resp != nil {
		logger.Info().
			Str("method", req.Method).
			Str("endpoint", req.URL).
			Int("status", resp.StatusCode).
			Int64("latency", latency).
			Msg("Request processed")
		return resp, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("service unavailable: %w", err)
	}
	logger.Error().Err(err).Str("method", req.Method).Str("endpoint", req.URL).Int64("latency", latency).Msg("Request failed")

	var typed *errs.Error
	if errors.As(err, &typed) {
		return nil, typed
	}
	return nil, errs.Transport(err)
}

func (t *Transport) do(ctx context.Context, req Request, requestID string) (*Response, error) {
	request, err := http.NewRequestWithContext(ctx, req.Method, req.URL, req.Body)
	if err != nil {
		return nil, errs.Transport(fmt.Errorf("create request: %w", err))
	}

	for key, value := range req.Headers {
		request.Header.Set(key, value)
	}
	request.Header.Set(RequestIDHeader, requestID)

	response, err := t.doer.Do(request)
	if err != nil {
		return nil, errs.Transport(err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errs.Transport(fmt.Errorf("read response body: %w", err))
	}

	return &Response{
		StatusCode: response.StatusCode,
		Header:     response.Header,
		Body:       body,
	}, nil
}
