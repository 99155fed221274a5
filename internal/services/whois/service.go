// Package whois looks up single items against the KISA WHOIS OpenAPI.
package whois

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/tbckr/krwhois/internal/apperr"
	"github.com/tbckr/krwhois/internal/config"
	"github.com/tbckr/krwhois/internal/metrics"
	"github.com/tbckr/krwhois/internal/record"
	"github.com/tbckr/krwhois/internal/validate"
	"github.com/tbckr/krwhois/internal/whoisxml"
)

const (
	// DomainPath is appended to the API URL for domain lookups.
	DomainPath = "/domain_name"
	// IPPath is appended to the API URL for IP lookups.
	IPPath = "/ip_address"
)

// Transport failure categories.
const (
	CategoryTimeout    = "timeout"
	CategoryDNS        = "dns"
	CategoryConnection = "connection"
	CategoryCanceled   = "canceled"
	CategoryTransport  = "transport"
)

// Service performs single registry lookups. It is safe for concurrent use.
type Service struct {
	client     *req.Client
	apiURL     string
	serviceKey string
	timeout    time.Duration
	logger     *slog.Logger
	metrics    *metrics.Recorder
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records every lookup on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTimeout bounds each lookup. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClock replaces the clock used to timestamp outcomes.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service against apiURL using serviceKey by default.
// An empty apiURL means config.DefaultAPIURL.
func NewService(client *req.Client, apiURL, serviceKey string, logger *slog.Logger, opts ...Option) *Service {
	if apiURL == "" {
		apiURL = config.DefaultAPIURL
	}
	s := &Service{
		client:     client,
		apiURL:     strings.TrimRight(apiURL, "/"),
		serviceKey: serviceKey,
		timeout:    config.DefaultTimeout,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup looks up item with the configured service key.
func (s *Service) Lookup(ctx context.Context, item string) Outcome {
	return s.LookupWithKey(ctx, item, s.serviceKey)
}

// LookupWithKey looks up item with serviceKey. It never returns an error:
// every failure is reported as a Failure outcome.
func (s *Service) LookupWithKey(ctx context.Context, item, serviceKey string) Outcome {
	start := time.Now()
	kind := validate.Classify(item)

	rec, err := s.lookup(ctx, item, kind, serviceKey)

	elapsed := time.Since(start)
	s.metrics.ObserveLookup(kind.String(), err, elapsed)

	if err != nil {
		s.logger.Debug("whois lookup failed", "query", item, "kind", kind, "elapsed", elapsed, "error", err)
		return Failure(item, kind, err, s.now())
	}
	s.logger.Debug("whois lookup", "query", item, "kind", kind, "elapsed", elapsed, "fields", rec.Len())
	return Success(item, kind, rec, s.now())
}

func (s *Service) lookup(ctx context.Context, item string, kind validate.Kind, serviceKey string) (*record.Record, error) {
	if !config.UsableServiceKey(serviceKey) {
		return nil, fmt.Errorf("%w: set service_key in the config file or WHOIS_SERVICE_KEY", apperr.ErrCredentialMissing)
	}

	body, err := s.fetch(ctx, s.endpoint(kind), item, serviceKey)
	if err != nil {
		return nil, err
	}

	if kind == validate.KindIP {
		return whoisxml.ParseIP(body, item)
	}
	return whoisxml.ParseDomain(body, item)
}

func (s *Service) endpoint(kind validate.Kind) string {
	if kind == validate.KindIP {
		return s.apiURL + IPPath
	}
	return s.apiURL + DomainPath
}

// fetch performs the GET and returns the raw body of a 200 response.
func (s *Service) fetch(ctx context.Context, endpoint, item, serviceKey string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"serviceKey": decodeServiceKey(serviceKey),
			"query":      item,
			"answer":     "xml",
		}).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", apperr.ErrTransport, Category(err), unwrapURLError(err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", apperr.ErrUpstreamStatus, resp.StatusCode)
	}
	return resp.Bytes(), nil
}

// Category classifies a transport error.
func Category(err error) string {
	var dnsErr *net.DNSError
	var opErr *net.OpError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return CategoryTimeout
	case errors.Is(err, context.Canceled):
		return CategoryCanceled
	case errors.As(err, &dnsErr):
		return CategoryDNS
	case errors.As(err, &netErr) && netErr.Timeout():
		return CategoryTimeout
	case errors.As(err, &opErr):
		return CategoryConnection
	default:
		return CategoryTransport
	}
}

// unwrapURLError drops the *url.Error prefix, which repeats the request URL
// including the service key.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// decodeServiceKey undoes the percent-encoding of keys copied from the
// data.go.kr portal, which would otherwise be encoded twice.
func decodeServiceKey(key string) string {
	key = strings.TrimSpace(key)
	if !strings.Contains(key, "%") {
		return key
	}
	decoded, err := url.PathUnescape(key)
	if err != nil {
		return key
	}
	return decoded
}
