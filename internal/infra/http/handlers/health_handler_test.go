package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name     string
		handler  *HealthHandler
		status   int
		overall  string
		database string
		rabbitmq string
		redis    string
	}{
		{
			name:     "all healthy",
			handler:  NewHealthHandler(ok, brokerState(true), CachePinger(ok)),
			status:   http.StatusOK,
			overall:  "healthy",
			database: "healthy",
			rabbitmq: "healthy",
			redis:    "healthy",
		},
		{
			name:     "optional deps disabled",
			handler:  NewHealthHandler(ok, nil, nil),
			status:   http.StatusOK,
			overall:  "healthy",
			database: "healthy",
			rabbitmq: "not configured",
			redis:    "not configured",
		},
		{
			name:     "database down",
			handler:  NewHealthHandler(down, brokerState(true), nil),
			status:   http.StatusServiceUnavailable,
			overall:  "degraded",
			database: "unhealthy: connection refused",
			rabbitmq: "healthy",
			redis:    "not configured",
		},
		{
			name:     "broker closed",
			handler:  NewHealthHandler(ok, brokerState(false), CachePinger(ok)),
			status:   http.StatusServiceUnavailable,
			overall:  "degraded",
			database: "healthy",
			rabbitmq: "unhealthy: connection closed",
			redis:    "healthy",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.overall, body["status"])
			deps := body["dependencies"].(map[string]any)
			assert.Equal(t, tt.database, deps["database"])
			assert.Equal(t, tt.rabbitmq, deps["rabbitmq"])
			assert.Equal(t, tt.redis, deps["redis"])
		})
	}
}

func TestHealth_ServedWithoutAuth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
