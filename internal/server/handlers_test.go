package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/liftplan/internal/coach"
	"github.com/claude/liftplan/internal/storage"
)

// TestHandleMe verifies /api/v1/me echoes whichever identity the middleware
// placed in the context.
func TestHandleMe(t *testing.T) {
	for _, want := range []UserInfo{devUser, {Login: "alice@example.com", DisplayName: "Alice"}} {
		s := &Server{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req = req.WithContext(context.WithValue(req.Context(), userInfoKey, want))
		rec := httptest.NewRecorder()

		s.handleMe(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var got UserInfo
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if got != want {
			t.Errorf("me = %+v, want %+v", got, want)
		}
	}
}

// TestWriteError verifies service errors map to statuses through wrapping.
func TestWriteError(t *testing.T) {
	s := &Server{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("muscle: %w", coach.ErrInvalid), http.StatusBadRequest},
		{fmt.Errorf("loading plan: %w", storage.ErrNotFound), http.StatusNotFound},
		{coach.ErrUnavailable, http.StatusServiceUnavailable},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		s.writeError(rec, tt.err)
		if rec.Code != tt.want {
			t.Errorf("writeError(%v) status = %d, want %d", tt.err, rec.Code, tt.want)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["error"] == "" {
			t.Errorf("writeError(%v) body = %v, %v", tt.err, body, err)
		}
	}
}

// TestParseTimeRange verifies date-only and RFC 3339 bounds, the seven day
// default and rejection of garbage.
func TestParseTimeRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?start=2026-03-01&end=2026-03-08T12:00:00Z", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatal(err)
	}
	if start.Format("2006-01-02") != "2026-03-01" || end.Hour() != 12 {
		t.Errorf("range = %v .. %v", start, end)
	}

	start, end, err = parseTimeRange(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if d := end.Sub(start).Hours(); d < 7*24-1 || d > 7*24+1 {
		t.Errorf("default range = %v hours, want ~168", d)
	}

	if _, _, err := parseTimeRange(httptest.NewRequest(http.MethodGet, "/?start=last-week", nil)); err == nil {
		t.Error("expected error for unparseable start")
	}
}
