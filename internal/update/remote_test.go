package update

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newVersionServer(t *testing.T, handler http.HandlerFunc) HTTPSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return HTTPSource{URL: server.URL, Timeout: 5 * time.Second, Client: server.Client()}
}

func TestLatest(t *testing.T) {
	src := newVersionServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != UserAgent {
			t.Errorf("expected user agent %q, got %q", UserAgent, got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":"1.4.0","notes":"x"}`))
	})

	got, err := src.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if got != "1.4.0" {
		t.Fatalf("expected 1.4.0, got %s", got)
	}
}

func TestLatestTrimsVersion(t *testing.T) {
	src := newVersionServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"version":" 2.0.0\n"}`))
	})

	got, err := src.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if got != "2.0.0" {
		t.Fatalf("expected 2.0.0, got %q", got)
	}
}

func TestLatestFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"malformed json": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("{"))
		},
		"not an object": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`["1.0.0"]`))
		},
		"missing version": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"name":"tpl"}`))
		},
		"empty version": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"version":""}`))
		},
		"numeric version": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"version":1.2}`))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			src := newVersionServer(t, handler)
			if _, err := src.Latest(context.Background()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLatestTimeout(t *testing.T) {
	release := make(chan struct{})
	src := newVersionServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })
	src.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := src.Latest(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("timeout not applied, took %s", elapsed)
	}
}

func TestLatestDoError(t *testing.T) {
	src := HTTPSource{
		URL: "https://example.com/LAST_VERSION.json",
		Client: &http.Client{
			Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
				return nil, errors.New("boom")
			}),
		},
	}
	_, err := src.Latest(context.Background())
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestLatestRequestError(t *testing.T) {
	src := HTTPSource{URL: "http://[::1", Client: http.DefaultClient}
	if _, err := src.Latest(context.Background()); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestLatestRequiresURL(t *testing.T) {
	if _, err := (HTTPSource{}).Latest(context.Background()); err == nil {
		t.Fatal("expected error for empty URL")
	}
}
