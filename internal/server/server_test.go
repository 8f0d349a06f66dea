package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/reachmap/reachmap/pkg/pipeline"
	"github.com/reachmap/reachmap/pkg/store"
)

const chainMatrix = "3\n0 1 0\n0 0 1\n0 0 0\n"

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	srv := httptest.NewServer(New(store.NewMemoryStore(), runner, log.New(io.Discard)).Router())
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createGraph(t *testing.T, srv *httptest.Server, body string) createResponse {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/graphs?name=cities1.txt", "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/graphs: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("POST /v1/graphs status = %d: %s", resp.StatusCode, raw)
	}
	var created createResponse
	decode(t, resp, &created)
	return created
}

func TestHealthz(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestCreateGraph(t *testing.T) {
	srv := testServer(t)
	created := createGraph(t, srv, chainMatrix)

	if created.ID == "" {
		t.Error("response ID is empty")
	}
	if created.N != 3 {
		t.Errorf("n = %d, want 3", created.N)
	}
	if created.BasePairs != 2 || created.ClosurePairs != 3 {
		t.Errorf("pairs = (%d, %d), want (2, 3)", created.BasePairs, created.ClosurePairs)
	}
	if created.Cached {
		t.Error("cached = true with the null cache")
	}
}

func TestCreateGraph_InvalidMatrix(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/v1/graphs", "text/plain", strings.NewReader("2\n0 7\n0 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var body errorResponse
	decode(t, resp, &body)
	if body.Code != "INVALID_MATRIX" {
		t.Errorf("error code = %q, want INVALID_MATRIX", body.Code)
	}
}

func TestGetGraph(t *testing.T) {
	srv := testServer(t)
	created := createGraph(t, srv, chainMatrix)

	resp, err := http.Get(srv.URL + "/v1/graphs/" + created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var rec store.Record
	decode(t, resp, &rec)
	if rec.ID != created.ID {
		t.Errorf("record ID = %q, want %q", rec.ID, created.ID)
	}
	if rec.Name != "cities1.txt" {
		t.Errorf("record name = %q", rec.Name)
	}
	if rec.Graph.N != 3 || len(rec.Graph.Edges) != 3 {
		t.Errorf("graph shape = n:%d edges:%d, want n:3 edges:3", rec.Graph.N, len(rec.Graph.Edges))
	}
}

func TestGetGraph_NotFound(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/v1/graphs/no-such-id")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var body errorResponse
	decode(t, resp, &body)
	if body.Code != "GRAPH_NOT_FOUND" {
		t.Errorf("error code = %q, want GRAPH_NOT_FOUND", body.Code)
	}
}

func TestRoute(t *testing.T) {
	srv := testServer(t)
	created := createGraph(t, srv, chainMatrix)

	resp, err := http.Get(srv.URL + "/v1/graphs/" + created.ID + "/route?from=0&to=2")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body routeResponse
	decode(t, resp, &body)
	if body.Rendered != "0 => 1 => 2" {
		t.Errorf("rendered = %q, want %q", body.Rendered, "0 => 1 => 2")
	}
	if len(body.Path) != 3 || body.Path[0] != 0 || body.Path[2] != 2 {
		t.Errorf("path = %v", body.Path)
	}
}

func TestRoute_NoRoute(t *testing.T) {
	srv := testServer(t)
	created := createGraph(t, srv, chainMatrix)

	resp, err := http.Get(srv.URL + "/v1/graphs/" + created.ID + "/route?from=2&to=0")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var body errorResponse
	decode(t, resp, &body)
	if body.Code != "NOT_FOUND" {
		t.Errorf("error code = %q, want NOT_FOUND", body.Code)
	}
}

func TestRoute_BadQuery(t *testing.T) {
	srv := testServer(t)
	created := createGraph(t, srv, chainMatrix)

	tests := []struct {
		name  string
		query string
	}{
		{"MissingParams", ""},
		{"NonInteger", "?from=a&to=2"},
		{"OutOfRange", "?from=0&to=9"},
		{"Negative", "?from=-1&to=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/v1/graphs/" + created.ID + "/route" + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			var body errorResponse
			decode(t, resp, &body)
			if body.Code != "INVALID_ROUTE" {
				t.Errorf("error code = %q, want INVALID_ROUTE", body.Code)
			}
		})
	}
}

func TestCreateGraph_BodyTooLarge(t *testing.T) {
	srv := testServer(t)

	huge := strings.Repeat("0 ", maxMatrixBody)
	resp, err := http.Post(srv.URL+"/v1/graphs", "text/plain", strings.NewReader("2\n"+huge))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}
