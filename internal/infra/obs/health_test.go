package obs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func readyzRecorder(t *testing.T, h HealthHandlers) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/readyz", h.Readyz)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	return rec
}

func TestReadyzWithoutChecks(t *testing.T) {
	rec := readyzRecorder(t, HealthHandlers{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestReadyzNamesFailingCheck(t *testing.T) {
	rec := readyzRecorder(t, HealthHandlers{Checks: map[string]ReadyCheck{
		"mongo": func(context.Context) error { return errors.New("no reachable servers") },
		"redis": func(context.Context) error { return nil },
	}})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if _, ok := body.Checks["mongo"]; !ok {
		t.Fatalf("response must name the failing check, got %+v", body)
	}
	if _, ok := body.Checks["redis"]; ok {
		t.Fatal("healthy check must not be reported as failed")
	}
}
