// Package health reports whether the backend and the state store are usable.
package health

import (
	"context"
	"errors"
	"time"

	"github.com/wanderlust/travel-portal/internal/apiclient"
	"github.com/wanderlust/travel-portal/internal/core/ports"
)

const (
	StatusOK        = "ok"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"

	defaultTimeout = 3 * time.Second
)

type DependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report is the readiness summary. Status is degraded when any dependency
// is unhealthy.
type Report struct {
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// Healthy reports whether every dependency is ok.
func (r Report) Healthy() bool {
	return r.Status == StatusOK
}

type Checker struct {
	api     *apiclient.Client
	store   ports.KeyValueStore
	timeout time.Duration
}

func NewChecker(api *apiclient.Client, store ports.KeyValueStore) *Checker {
	return &Checker{api: api, store: store, timeout: defaultTimeout}
}

// Check probes both dependencies within a bounded time. The backend counts as
// reachable when it answers with any HTTP status.
func (c *Checker) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	deps := make(map[string]DependencyStatus)
	healthy := true

	// --- Backend ---
	res := c.api.GetCategories(ctx)
	if res.StatusCode == 0 {
		deps["api"] = DependencyStatus{Status: StatusUnhealthy, Error: res.Error}
		healthy = false
	} else {
		deps["api"] = DependencyStatus{Status: StatusOK}
	}

	// --- State store ---
	if err := c.probeStore(ctx); err != nil {
		deps["storage"] = DependencyStatus{Status: StatusUnhealthy, Error: err.Error()}
		healthy = false
	} else {
		deps["storage"] = DependencyStatus{Status: StatusOK}
	}

	status := StatusOK
	if !healthy {
		status = StatusDegraded
	}
	return Report{Status: status, Dependencies: deps}
}

func (c *Checker) probeStore(ctx context.Context) error {
	if c.store == nil {
		return errors.New("no state store configured")
	}
	if p, ok := c.store.(ports.Pinger); ok {
		return p.Ping(ctx)
	}
	_, _, err := c.store.Get(ctx, apiclient.TokenKey)
	return err
}
