package provider_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeAPI is a recording stand-in for a provider endpoint.
type fakeAPI struct {
	mu     sync.Mutex
	calls  int
	bodies []string
	paths  []string
	ctypes []string
}

func (f *fakeAPI) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAPI) LastBody() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.bodies) == 0 {
		return ""
	}
	return f.bodies[len(f.bodies)-1]
}

func (f *fakeAPI) LastPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.paths) == 0 {
		return ""
	}
	return f.paths[len(f.paths)-1]
}

func (f *fakeAPI) LastContentType() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ctypes) == 0 {
		return ""
	}
	return f.ctypes[len(f.ctypes)-1]
}

// serve starts a test server answering every request with status and a JSON body.
func serve(t *testing.T, status int, body string) (*httptest.Server, *fakeAPI) {
	t.Helper()
	return serveAs(t, status, "application/json", body)
}

// serveText answers like an endpoint asked for plain text output.
func serveText(t *testing.T, status int, body string) (*httptest.Server, *fakeAPI) {
	t.Helper()
	return serveAs(t, status, "text/plain; charset=utf-8", body)
}

func serveAs(t *testing.T, status int, contentType, body string) (*httptest.Server, *fakeAPI) {
	t.Helper()

	api := &fakeAPI{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)

		api.mu.Lock()
		api.calls++
		api.bodies = append(api.bodies, string(data))
		api.paths = append(api.paths, r.URL.Path)
		api.ctypes = append(api.ctypes, r.Header.Get("Content-Type"))
		api.mu.Unlock()

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv, api
}
