package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/watchlist/internal/domain"
	"github.com/pscheid92/watchlist/internal/metrics"
	"github.com/pscheid92/watchlist/internal/platform/version"
)

const (
	readinessProbeTimeout = 5 * time.Second
	tablesProbeTimeout    = 10 * time.Second
)

type poolStatsRecorder interface {
	RecordPoolStats()
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	// Each call queries every requested table.
	s.echo.GET("/health/tables", s.handleTables, newRateLimiter(s.config.HealthRateLimit, s.config.HealthRateBurst))
	s.echo.GET("/version", s.handleVersion)
}

func (s *Server) handleLiveness(c echo.Context) error {
	uptime := s.clock.Since(s.startTime).Seconds()

	response := map[string]any{
		"status": "ok",
		"uptime": uptime,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write liveness response: %w", err)
	}

	return nil
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessProbeTimeout)
	defer cancel()

	if rec, ok := s.probe.(poolStatsRecorder); ok {
		rec.RecordPoolStats()
	}

	status, database := http.StatusOK, "ok"
	switch {
	case !s.probe.Configured():
		status, database = http.StatusServiceUnavailable, "not_configured"
	case !s.probe.CheckConnection(ctx):
		status, database = http.StatusServiceUnavailable, "unreachable"
	}

	result := "ok"
	body := map[string]string{"status": "ready", "database": database}
	if status != http.StatusOK {
		result = "fail"
		body["status"] = "unhealthy"
	}
	metrics.HealthChecksTotal.WithLabelValues("ready", result).Inc()

	if err := c.JSON(status, body); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type tablesResponse struct {
	Status string                     `json:"status"`
	Error  string                     `json:"error,omitempty"`
	Tables []domain.TableAccessStatus `json:"tables"`
}

func (s *Server) handleTables(c echo.Context) error {
	tables := c.QueryParams()["table"]
	if len(tables) == 0 {
		tables = domain.DefaultTables
	}

	// Concurrent probes of the same table set share one round of queries.
	v, _, _ := s.tables.Do(tablesKey(tables), func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), tablesProbeTimeout)
		defer cancel()
		return s.probe.CheckTablesAccess(ctx, tables...), nil
	})
	statuses := v.([]domain.TableAccessStatus)

	for _, st := range statuses {
		if slices.Contains(domain.DefaultTables, st.TableName) {
			accessible := 0.0
			if st.Accessible {
				accessible = 1
			}
			metrics.TableAccessible.WithLabelValues(st.TableName).Set(accessible)
		}
	}

	status := http.StatusOK
	resp := tablesResponse{Status: "ok", Tables: statuses}
	if !domain.AllAccessible(statuses) {
		status = http.StatusServiceUnavailable
		resp.Status = "unhealthy"
		resp.Error = "Tables not accessible: " + strings.Join(domain.FailedTables(statuses), ", ")
		metrics.HealthChecksTotal.WithLabelValues("tables", "fail").Inc()
	} else {
		metrics.HealthChecksTotal.WithLabelValues("tables", "ok").Inc()
	}

	if err := c.JSON(status, resp); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// tablesKey joins with NUL, which no query value or table identifier holds,
// so ?table=a,b and ?table=a&table=b never share a probe round.
func tablesKey(tables []string) string {
	return strings.Join(tables, "\x00")
}

func (s *Server) handleVersion(c echo.Context) error {
	if err := c.JSON(http.StatusOK, version.Get()); err != nil {
		return fmt.Errorf("failed to write version response: %w", err)
	}
	return nil
}
