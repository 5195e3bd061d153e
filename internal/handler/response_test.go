package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/relic-eclipse/internal/auth"
	"github.com/freeeve/relic-eclipse/internal/logger"
	"github.com/freeeve/relic-eclipse/internal/service"
	"github.com/freeeve/relic-eclipse/pkg/eclipse"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"phase": "action"})

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type=application/json, got %s", ct)
	}
	var result map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result["phase"] != "action" {
		t.Errorf("unexpected body: %v", result)
	}
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{"rule rejection", &eclipse.ValidationError{Reason: eclipse.ReasonInsufficient, Message: "explore needs 2 grain"}, http.StatusUnprocessableEntity, "insufficient_resources"},
		{"wrapped rejection", fmt.Errorf("act: %w", &eclipse.ValidationError{Reason: eclipse.ReasonNotYourTurn, Message: "seat 2 is acting"}), http.StatusUnprocessableEntity, "not_your_turn"},
		{"not found", service.ErrGameNotFound, http.StatusNotFound, ""},
		{"not human seat", service.ErrNotHumanSeat, http.StatusForbidden, ""},
		{"token for other game", auth.ErrSeatMismatch, http.StatusForbidden, ""},
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized, ""},
		{"game over", service.ErrGameOver, http.StatusConflict, ""},
		{"invalid input", fmt.Errorf("%w: unknown role", service.ErrInvalidInput), http.StatusBadRequest, ""},
		{"infrastructure", errors.New("redis down"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodPost, "/", nil), tt.err)
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["reason"] != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, body["reason"])
			}
			if body["error"] == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestWriteServiceErrorHidesInternals(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/games/g-1/pass", nil)
	ctx := logger.WithGameID(logger.WithRequestID(req.Context(), "req00042"), "g-1")
	rec := httptest.NewRecorder()
	writeServiceError(rec, req.WithContext(ctx), errors.New("dial tcp 10.0.0.3:6379: refused"))
	if strings.Contains(rec.Body.String(), "10.0.0.3") {
		t.Errorf("internal error leaked: %s", rec.Body.String())
	}

	out := buf.String()
	if !strings.Contains(out, `"requestId":"req00042"`) || !strings.Contains(out, `"gameId":"g-1"`) {
		t.Errorf("server log should carry request and game ids, got %s", out)
	}
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"kind":"explore","target":"0,1","declared":"goldmine"}`))

	var in service.ActionInput
	if err := decodeJSON(req, &in); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.Kind != "explore" || in.Target != "0,1" || in.Declared != "goldmine" {
		t.Errorf("unexpected input %+v", in)
	}
}

func TestDecodeJSONInvalidBody(t *testing.T) {
	for _, body := range []string{"not json", ""} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var data struct{}
		if err := decodeJSON(req, &data); err == nil {
			t.Errorf("expected error for body %q", body)
		}
	}
}
