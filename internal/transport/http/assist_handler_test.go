package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinicbook/backend/internal/assist"
)

type fakeResponder struct {
	respondFn func(ctx context.Context, query string) (string, error)
}

func (f *fakeResponder) Respond(ctx context.Context, query string) (string, error) {
	if f.respondFn == nil {
		panic("Respond not configured")
	}
	return f.respondFn(ctx, query)
}

func newAssistRouter(r responder) http.Handler {
	return NewRouter(RouterDeps{
		Booking: NewBookingHandler(&fakeBookingService{}, nil),
		Sweep:   NewSweepHandler(stubSweeper{}, nil),
		Assist:  NewAssistHandler(r, nil),
	})
}

func TestAssist_OK(t *testing.T) {
	var gotQuery string
	h := newAssistRouter(&fakeResponder{
		respondFn: func(ctx context.Context, query string) (string, error) {
			gotQuery = query
			return "Our clinic opens at 9am.", nil
		},
	})

	rec := doRequest(t, h, http.MethodPost, "/api/ai-response", `{"query":"  when do you open?  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if gotQuery != "when do you open?" {
		t.Fatalf("query = %q, want trimmed", gotQuery)
	}

	var resp assistResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Our clinic opens at 9am." {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestAssist_EmptyQuery(t *testing.T) {
	h := newAssistRouter(&fakeResponder{})

	for _, body := range []string{`{"query":""}`, `{"query":"   "}`, `{}`} {
		rec := doRequest(t, h, http.MethodPost, "/api/ai-response", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
		if kind := decodeErrorKind(t, rec); kind != kindValidation {
			t.Fatalf("kind = %q, want %q", kind, kindValidation)
		}
	}
}

func TestAssist_UpstreamFailureIsBadGateway(t *testing.T) {
	h := newAssistRouter(&fakeResponder{
		respondFn: func(ctx context.Context, query string) (string, error) {
			return "", assist.ErrUpstream
		},
	})

	rec := doRequest(t, h, http.MethodPost, "/api/ai-response", `{"query":"hours?"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
	if kind := decodeErrorKind(t, rec); kind != kindUpstream {
		t.Fatalf("kind = %q, want %q", kind, kindUpstream)
	}
}

func TestAssist_OtherFailureIsInternal(t *testing.T) {
	h := newAssistRouter(&fakeResponder{
		respondFn: func(ctx context.Context, query string) (string, error) {
			return "", errors.New("cache exploded")
		},
	})

	rec := doRequest(t, h, http.MethodPost, "/api/ai-response", `{"query":"hours?"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestAssist_NotMountedWithoutResponder(t *testing.T) {
	h := NewRouter(RouterDeps{
		Booking: NewBookingHandler(&fakeBookingService{}, nil),
		Sweep:   NewSweepHandler(stubSweeper{}, nil),
	})

	rec := doRequest(t, h, http.MethodPost, "/api/ai-response", `{"query":"hours?"}`)
	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 404 or 405", rec.Code)
	}
}

func TestClientKey(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"remote addr", "10.0.0.5:54321", "", "10.0.0.5"},
		{"forwarded single", "10.0.0.5:54321", "203.0.113.9", "203.0.113.9"},
		{"forwarded chain", "10.0.0.5:54321", "203.0.113.9, 10.0.0.1", "203.0.113.9"},
		{"no port", "10.0.0.5", "", "10.0.0.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", strings.NewReader(""))
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if got := clientKey(req); got != tc.want {
				t.Fatalf("clientKey = %q, want %q", got, tc.want)
			}
		})
	}
}
