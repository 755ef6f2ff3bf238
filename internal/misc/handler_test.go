package misc_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/gympro/internal/misc"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *mux.Router {
	r := mux.NewRouter()
	misc.NewHandler("abc123", "memory").SetupRoutes(r)
	return r
}

func TestHandler_Root(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "I'm OK, thanks ;)", rr.Body.String())
}

func TestHandler_Version(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest("GET", "/version", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "abc123", rr.Body.String())
}

func TestHandler_Health(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp misc.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, misc.HealthResponse{Status: "ok", StoreBackend: "memory", Version: "abc123"}, resp)
}
