package handlers

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/salesbridge/salesbridge/pkg/activities"
	"github.com/salesbridge/salesbridge/pkg/apper"
	"github.com/salesbridge/salesbridge/pkg/apper/appertest"
	"github.com/salesbridge/salesbridge/pkg/cache"
	"github.com/salesbridge/salesbridge/pkg/companies"
	"github.com/salesbridge/salesbridge/pkg/contacts"
	"github.com/salesbridge/salesbridge/pkg/deals"
	"github.com/salesbridge/salesbridge/pkg/export"
	"github.com/salesbridge/salesbridge/pkg/logger"
	"github.com/salesbridge/salesbridge/pkg/quotes"
)

// testEnv wires every service against an in-memory record store and redis
type testEnv struct {
	srv        *appertest.Server
	contacts   *contacts.Service
	companies  *companies.Service
	deals      *deals.Service
	activities *activities.Service
	quotes     *quotes.Service
	export     *export.Service
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	srv := appertest.NewServer()
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	cacheClient, err := cache.NewClient("redis://" + mr.Addr())
	require.NoError(t, err)

	store := apper.NewClient(apper.Config{BaseURL: srv.URL()})
	log := logger.Default()
	ttl := time.Minute

	env := &testEnv{
		srv:        srv,
		contacts:   contacts.NewService(store, cacheClient, log, ttl),
		companies:  companies.NewService(store, cacheClient, log, ttl),
		deals:      deals.NewService(store, cacheClient, log, ttl),
		activities: activities.NewService(store, cacheClient, log, ttl),
		quotes:     quotes.NewService(store, cacheClient, log, ttl),
	}
	env.export = export.NewService(env.contacts, env.companies, env.deals, env.activities, env.quotes)
	return env
}

// newContext builds an echo context for a JSON request. Handlers are invoked
// directly, so path params are set with SetParamNames by the caller.
func newContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	httpReq := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(httpReq, rec), rec
}

// seededID extracts a seeded record's Id as a path param value
func seededID(rec map[string]any) string {
	return strconv.Itoa(int(rec["Id"].(float64)))
}
