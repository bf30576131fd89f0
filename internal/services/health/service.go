package health

import (
	"context"
	"time"
)

const defaultCheckTimeout = 2 * time.Second

// Pinger is anything whose reachability the health endpoint reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check is the outcome of one named dependency probe.
type Check struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Report is the aggregate health payload.
type Report struct {
	OK     bool    `json:"ok"`
	Store  string  `json:"store"`
	Checks []Check `json:"checks,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	StoreName string
	Store     Pinger
	Timeout   time.Duration
}

// NewService constructs a new health service.
func NewService(storeName string, store Pinger) *Service {
	return &Service{StoreName: storeName, Store: store, Timeout: defaultCheckTimeout}
}

// Status probes the backing store and reports whether the service can serve traffic.
func (s *Service) Status(ctx context.Context) Report {
	report := Report{OK: true, Store: s.StoreName}
	if s.Store == nil {
		return report
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	check := Check{Name: "store", OK: true}
	if err := s.Store.Ping(ctx); err != nil {
		check.OK = false
		check.Error = err.Error()
		report.OK = false
	}
	report.Checks = append(report.Checks, check)
	return report
}
