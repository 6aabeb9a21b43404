package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/llmsgen/internal/discovery"
	"github.com/jonesrussell/llmsgen/internal/enrich"
	"github.com/jonesrussell/llmsgen/internal/handler"
	"github.com/jonesrussell/llmsgen/internal/logger"
	"github.com/jonesrussell/llmsgen/internal/payment"
	"github.com/jonesrussell/llmsgen/internal/storage"
)

func generateRouter(store *storage.RunStore, paymentCfg payment.Config) *gin.Engine {
	disc := discovery.NewService(nil, false, logger.NewNop())
	enricher := enrich.NewService(nil, 0, logger.NewNop())

	h := handler.NewGenerateHandler(disc, enricher, store, paymentCfg, logger.NewNop())

	router := gin.New()
	router.POST("/api/generate", h.Generate)
	return router
}

func validSurveyBody() []byte {
	body, _ := json.Marshal(map[string]any{
		"siteName":      "Atlas",
		"siteUrl":       "https://atlas.example.com",
		"summary":       "Developer documentation for the Atlas platform and APIs.",
		"categories":    "Docs, Guides",
		"siteType":      "docs",
		"priorityPages": "/docs, /guides/intro, /api",
		"questions":     "How do I authenticate?",
	})
	return body
}

func TestGenerate(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	router := generateRouter(store, payment.Config{})

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader(validSurveyBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		RunID         string `json:"runId"`
		Preview       string `json:"preview"`
		LockedPreview string `json:"lockedPreview"`
		Mode          string `json:"mode"`
		Payment       struct {
			Configured bool `json:"configured"`
		} `json:"payment"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.RunID == "" {
		t.Fatal("response missing runId")
	}
	if resp.Mode != discovery.ModeStub {
		t.Fatalf("mode = %q, want stub", resp.Mode)
	}
	if !strings.Contains(resp.Preview, "# Atlas") {
		t.Fatalf("preview missing title:\n%s", resp.Preview)
	}
	if strings.Contains(resp.LockedPreview, "atlas.example.com") {
		t.Fatal("locked preview leaked unmasked content")
	}
	if resp.LockedPreview == "" {
		t.Fatal("locked preview is empty")
	}
	if resp.Payment.Configured {
		t.Fatal("payment reported configured without credentials")
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestGeneratePaymentConfigured(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	router := generateRouter(store, payment.Config{SecretKey: "sk", PriceID: "price"})

	mock.ExpectExec("INSERT INTO runs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader(validSurveyBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"configured":true`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestGenerateInvalidBody(t *testing.T) {
	store, _, cleanup := newMockStore(t)
	defer cleanup()

	router := generateRouter(store, payment.Config{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGenerateValidationFailure(t *testing.T) {
	store, _, cleanup := newMockStore(t)
	defer cleanup()

	router := generateRouter(store, payment.Config{})

	body, _ := json.Marshal(map[string]any{
		"siteUrl":       "not-a-url",
		"summary":       "short",
		"priorityPages": "/one",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "Validation failed" {
		t.Fatalf("error = %q", resp.Error)
	}
	for _, field := range []string{"siteUrl", "summary", "priorityPages"} {
		if _, ok := resp.Fields[field]; !ok {
			t.Fatalf("fields = %v, want %q present", resp.Fields, field)
		}
	}
}

func TestGeneratePersistFailure(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	router := generateRouter(store, payment.Config{})

	mock.ExpectExec("INSERT INTO runs").
		WillReturnError(sqlmock.ErrCancelled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader(validSurveyBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}
