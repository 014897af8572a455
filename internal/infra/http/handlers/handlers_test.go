package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type converterFunc func(ctx context.Context, in usecase.ConvertLeadInput) (*usecase.ConvertLeadOutput, error)

func (f converterFunc) Execute(ctx context.Context, in usecase.ConvertLeadInput) (*usecase.ConvertLeadOutput, error) {
	return f(ctx, in)
}

type applierFunc func(ctx context.Context, in usecase.ApplyTemplateInput) (*usecase.ApplyTemplateOutput, error)

func (f applierFunc) Execute(ctx context.Context, in usecase.ApplyTemplateInput) (*usecase.ApplyTemplateOutput, error) {
	return f(ctx, in)
}

type mockQueries struct{ mock.Mock }

func (m *mockQueries) ListLeads(ctx context.Context, f entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, f)
	leads, _ := args.Get(0).([]*entity.Lead)
	return leads, args.Error(1)
}

func (m *mockQueries) LeadSummary(ctx context.Context) (usecase.LeadSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(usecase.LeadSummary), args.Error(1)
}

func (m *mockQueries) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	lead, _ := args.Get(0).(*entity.Lead)
	return lead, args.Error(1)
}

func (m *mockQueries) ExportLeads(ctx context.Context, w io.Writer, f entity.LeadFilter) error {
	args := m.Called(ctx, w, f)
	return args.Error(0)
}

func (m *mockQueries) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.Client)
	return c, args.Error(1)
}

func (m *mockQueries) ListTasks(ctx context.Context, f entity.TaskFilter) (usecase.TaskBuckets, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(usecase.TaskBuckets), args.Error(1)
}

func (m *mockQueries) ListActivities(ctx context.Context, leadID string, limit int) ([]*entity.Activity, error) {
	args := m.Called(ctx, leadID, limit)
	a, _ := args.Get(0).([]*entity.Activity)
	return a, args.Error(1)
}

func (m *mockQueries) ListTemplates(ctx context.Context) ([]*entity.Template, error) {
	args := m.Called(ctx)
	t, _ := args.Get(0).([]*entity.Template)
	return t, args.Error(1)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type brokerState bool

func (b brokerState) IsHealthy() bool { return bool(b) }

type fixture struct {
	router   http.Handler
	verifier *middleware.TokenVerifier
	queries  *mockQueries
	convert  converterFunc
	apply    applierFunc
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		verifier: middleware.NewTokenVerifier(testSecret),
		queries:  &mockQueries{},
	}
	logger, _ := test.NewNullLogger()
	f.router = NewRouter(RouterDeps{
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
		},
		Verifier: f.verifier,
		Logger:   logger,
		Conversion: NewConversionHandler(converterFunc(func(ctx context.Context, in usecase.ConvertLeadInput) (*usecase.ConvertLeadOutput, error) {
			return f.convert(ctx, in)
		})),
		Onboarding: NewOnboardingHandler(applierFunc(func(ctx context.Context, in usecase.ApplyTemplateInput) (*usecase.ApplyTemplateOutput, error) {
			return f.apply(ctx, in)
		})),
		Queries: NewQueryHandler(f.queries),
		Health:  NewHealthHandler(nil, nil, nil),
	})
	t.Cleanup(func() { f.queries.AssertExpectations(t) })
	return f
}

func (f *fixture) token(t *testing.T, userID string, role entity.Role) string {
	t.Helper()
	tok, err := f.verifier.Sign(userID, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func (f *fixture) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func init() {
	log.SetOutput(io.Discard)
}
