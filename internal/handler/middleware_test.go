package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get("X-Request-ID")
	})

	rr := httptest.NewRecorder()
	RequestIDMiddleware(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a generated request ID")
	}
}

func TestRequestIDMiddleware_KeepsCallerID(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	rr := httptest.NewRecorder()

	RequestIDMiddleware(inner).ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != "caller-id" {
		t.Fatalf("expected caller ID to be kept, got %q", got)
	}
}

func TestLoggingMiddleware_RecordsStatus(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	LoggingMiddleware(NewMockHandlerLogger())(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusTeapot {
		t.Fatalf("middleware altered status: %d", rr.Code)
	}
}
