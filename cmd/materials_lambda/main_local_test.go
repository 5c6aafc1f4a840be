//go:build !lambda

package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func TestFunctionHandler(t *testing.T) {
	var gotBody string
	h := functionHandler(func(_ context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
		gotBody = req.Body
		return events.LambdaFunctionURLResponse{
			StatusCode: http.StatusNotFound,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"Character not found"}`,
		}, nil
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"character":"nobody"}`)))
	if gotBody != `{"character":"nobody"}` {
		t.Fatalf("unexpected request body %q", gotBody)
	}
	if w.Code != http.StatusNotFound || w.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected response %d %v", w.Code, w.Header())
	}
	if w.Body.String() != `{"error":"Character not found"}` {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestFunctionHandler_Error(t *testing.T) {
	h := functionHandler(func(context.Context, events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
		return events.LambdaFunctionURLResponse{StatusCode: http.StatusOK}, errors.New("boom")
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
