package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pscheid92/watchlist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProber struct {
	configured    bool
	connectAfter  int
	connectCalls  int
	failingTables map[string]string
}

func (p *stubProber) Configured() bool { return p.configured }

func (p *stubProber) CheckConnection(context.Context) bool {
	p.connectCalls++
	return p.connectCalls > p.connectAfter
}

func (p *stubProber) CheckTablesAccess(_ context.Context, names ...string) []domain.TableAccessStatus {
	if len(names) == 0 {
		names = domain.DefaultTables
	}
	out := make([]domain.TableAccessStatus, 0, len(names))
	for _, n := range names {
		if msg, ok := p.failingTables[n]; ok {
			out = append(out, domain.TableAccessStatus{TableName: n, Error: msg})
			continue
		}
		count := 0
		out = append(out, domain.TableAccessStatus{TableName: n, Accessible: true, SampleRowCount: &count})
	}
	return out
}

func TestRun_AllAccessible(t *testing.T) {
	var out bytes.Buffer
	code := run(context.Background(), &stubProber{configured: true}, &out, options{})

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "ok    stocks")
	assert.Contains(t, out.String(), "ok    watchlist_stocks")
}

func TestRun_FailedTableExitsNonZero(t *testing.T) {
	var out bytes.Buffer
	probe := &stubProber{configured: true, failingTables: map[string]string{"ghost": "relation \"ghost\" does not exist"}}

	code := run(context.Background(), probe, &out, options{tables: []string{"stocks", "ghost"}})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "FAIL  ghost")
}

func TestRun_NotConfigured(t *testing.T) {
	var out bytes.Buffer
	code := run(context.Background(), &stubProber{}, &out, options{})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "not configured")
}

func TestRun_JSONOutput(t *testing.T) {
	var out bytes.Buffer
	code := run(context.Background(), &stubProber{configured: true}, &out, options{tables: []string{"stocks"}, json: true})
	require.Equal(t, 0, code)

	var statuses []domain.TableAccessStatus
	require.NoError(t, json.Unmarshal(out.Bytes(), &statuses))
	require.Len(t, statuses, 1)
	assert.Equal(t, "stocks", statuses[0].TableName)
	assert.True(t, statuses[0].Accessible)
}

func TestRun_WaitsForConnection(t *testing.T) {
	var out bytes.Buffer
	probe := &stubProber{configured: true, connectAfter: 1}

	code := run(context.Background(), probe, &out, options{wait: 5 * time.Second, attempts: 3})

	assert.Equal(t, 0, code)
	assert.Equal(t, 2, probe.connectCalls)
}

func TestRun_GivesUpWhenUnreachable(t *testing.T) {
	var out bytes.Buffer
	probe := &stubProber{configured: true, connectAfter: 100}

	code := run(context.Background(), probe, &out, options{wait: 5 * time.Second, attempts: 2})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "database unreachable")
	assert.Equal(t, 2, probe.connectCalls)
}
