package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/llmsgen/internal/handler"
	"github.com/jonesrussell/llmsgen/internal/logger"
	"github.com/jonesrussell/llmsgen/internal/payment"
	"github.com/jonesrussell/llmsgen/internal/storage"
)

const testPublicURL = "https://llmsgen.example.com"

func checkoutRouter(store *storage.RunStore, cfg payment.Config) *gin.Engine {
	h := handler.NewCheckoutHandler(store, payment.NewCheckoutClient(cfg), cfg, testPublicURL, logger.NewNop())

	router := gin.New()
	router.POST("/api/checkout", h.Checkout)
	return router
}

func postCheckout(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCheckout(t *testing.T) {
	var gotSuccess, gotCancel string
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotSuccess = r.PostForm.Get("success_url")
		gotCancel = r.PostForm.Get("cancel_url")
		_, _ = w.Write([]byte(`{"url": "https://pay.example.com/cs_1"}`))
	}))
	defer provider.Close()

	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	cfg := payment.Config{SecretKey: "sk", PriceID: "price", BaseURL: provider.URL}
	router := checkoutRouter(store, cfg)

	expectGetRun(mock, "run-1", "# Atlas\n", nil)

	w := postCheckout(router, `{"runId": "run-1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "https://pay.example.com/cs_1") {
		t.Fatalf("body = %s", w.Body.String())
	}
	if gotSuccess != testPublicURL+"/success?runId=run-1" {
		t.Fatalf("success_url = %q", gotSuccess)
	}
	if gotCancel != testPublicURL+"/?checkout=cancelled" {
		t.Fatalf("cancel_url = %q", gotCancel)
	}
}

func TestCheckoutMissingRunID(t *testing.T) {
	store, _, cleanup := newMockStore(t)
	defer cleanup()

	router := checkoutRouter(store, payment.Config{SecretKey: "sk", PriceID: "price"})

	w := postCheckout(router, `{}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCheckoutNotConfigured(t *testing.T) {
	store, _, cleanup := newMockStore(t)
	defer cleanup()

	router := checkoutRouter(store, payment.Config{})

	w := postCheckout(router, `{"runId": "run-1"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestCheckoutRunNotFound(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	router := checkoutRouter(store, payment.Config{SecretKey: "sk", PriceID: "price"})

	expectGetMissing(mock, "ghost")

	w := postCheckout(router, `{"runId": "ghost"}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestCheckoutAlreadyPaid(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("provider called for an already-paid run")
	}))
	defer provider.Close()

	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	cfg := payment.Config{SecretKey: "sk", PriceID: "price", BaseURL: provider.URL}
	router := checkoutRouter(store, cfg)

	paidAt := time.Now().UTC()
	expectGetRun(mock, "run-1", "# Atlas\n", &paidAt)

	w := postCheckout(router, `{"runId": "run-1"}`)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestCheckoutProviderError(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "No such price"}}`))
	}))
	defer provider.Close()

	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	cfg := payment.Config{SecretKey: "sk", PriceID: "price", BaseURL: provider.URL}
	router := checkoutRouter(store, cfg)

	expectGetRun(mock, "run-1", "# Atlas\n", nil)

	w := postCheckout(router, `{"runId": "run-1"}`)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No such price") {
		t.Fatalf("body = %s", w.Body.String())
	}
}
