package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/san-kum/mathviz/internal/metrics"
	"github.com/san-kum/mathviz/internal/project"
	"github.com/san-kum/mathviz/internal/storage"
)

func newTestServer(t *testing.T, store storage.Store) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	srv, err := NewServer(Options{
		Registry: project.NewRegistry(),
		Store:    store,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestServer_Index(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{"/projects/random-walk", "/projects/random-walk-1d", "2D Random Walk"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestServer_ProjectPage(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, body := get(t, ts.URL+"/projects/random-walk?max_steps=20&sample_size=5&seed=3")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}
	if strings.Count(body, "<svg") != 2 {
		t.Errorf("expected paths and chart svg")
	}
	if !strings.Contains(body, `value="20"`) || !strings.Contains(body, `value="5"`) {
		t.Error("form does not echo parameters")
	}
	if strings.Contains(body, "&lt;svg") {
		t.Error("svg was escaped")
	}
}

func TestServer_NotFound(t *testing.T) {
	ts := newTestServer(t, nil)
	tests := []struct {
		path string
		want string
	}{
		{"/projects/unknown", `no project with id "unknown"`},
		{"/nowhere", "project not found"},
	}
	for _, tt := range tests {
		resp, body := get(t, ts.URL+tt.path)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", tt.path, resp.StatusCode)
		}
		if !strings.Contains(body, tt.want) {
			t.Errorf("%s: body missing %q", tt.path, tt.want)
		}
	}
}

func TestServer_RunAPI(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, body := get(t, ts.URL+"/api/projects/random-walk-1d/run?max_steps=30&sample_size=10&seed=7")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var got runResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatal(err)
	}
	if got.Summary.Steps != 30 || len(got.History) != 31 {
		t.Errorf("steps=%d history=%d", got.Summary.Steps, len(got.History))
	}
	if got.History[30].Theoretical != 30 {
		t.Errorf("theoretical at 30 = %v", got.History[30].Theoretical)
	}

	_, again := get(t, ts.URL+"/api/projects/random-walk-1d/run?max_steps=30&sample_size=10&seed=7")
	var second runResponse
	json.Unmarshal([]byte(again), &second)
	if second.Summary.Observed != got.Summary.Observed {
		t.Error("same seed produced different runs")
	}
}

func TestServer_RunAPIBadRequest(t *testing.T) {
	ts := newTestServer(t, nil)
	for _, q := range []string{
		"max_steps=0", "sample_size=-1", "max_steps=abc", "seed=x",
		"max_steps=100000&sample_size=100000",
		"max_steps=2000001&sample_size=1",
		"max_steps=1000&sample_size=2001",
		"max_steps=4611686018427387904&sample_size=4",
		"max_steps=9223372036854775807&sample_size=9223372036854775807",
	} {
		resp, _ := get(t, ts.URL+"/api/projects/random-walk/run?"+q)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, resp.StatusCode)
		}
	}
	resp, _ := get(t, ts.URL+"/api/projects/nope/run")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown project status = %d", resp.StatusCode)
	}
}

func TestServer_RunAPIAtWorkCap(t *testing.T) {
	ts := newTestServer(t, nil)
	for _, q := range []string{
		"max_steps=100000&sample_size=20",
		"max_steps=20000&sample_size=100",
	} {
		start := time.Now()
		resp, body := get(t, ts.URL+"/api/projects/random-walk-1d/run?seed=3&"+q)
		elapsed := time.Since(start)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status = %d, want 200", q, resp.StatusCode)
		}
		var run runResponse
		if err := json.Unmarshal([]byte(body), &run); err != nil {
			t.Fatalf("%s: decode: %v", q, err)
		}
		if run.Params.MaxSteps*run.Params.SampleSize != maxWork {
			t.Errorf("%s: params = %+v", q, run.Params)
		}
		if len(run.History) != run.Params.MaxSteps+1 {
			t.Errorf("%s: history length = %d", q, len(run.History))
		}
		if elapsed > 20*time.Second {
			t.Errorf("%s: served in %v", q, elapsed)
		}
	}
}

func TestServer_SaveAndLoadRuns(t *testing.T) {
	store, err := storage.Open("file", t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ts := newTestServer(t, store)

	_, body := get(t, ts.URL+"/api/projects/random-walk/run?max_steps=10&sample_size=4&seed=1&save=true")
	var run runResponse
	if err := json.Unmarshal([]byte(body), &run); err != nil {
		t.Fatal(err)
	}
	if run.RunID == "" {
		t.Fatal("expected run id")
	}

	_, list := get(t, ts.URL+"/api/runs")
	var runs []storage.Report
	if err := json.Unmarshal([]byte(list), &runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != run.RunID {
		t.Fatalf("unexpected runs %+v", runs)
	}

	resp, one := get(t, ts.URL+"/api/runs/"+run.RunID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("load status = %d", resp.StatusCode)
	}
	var rep storage.Report
	json.Unmarshal([]byte(one), &rep)
	if len(rep.History) != 11 {
		t.Errorf("loaded history has %d samples", len(rep.History))
	}

	resp, _ = get(t, ts.URL+"/api/runs/missing_1")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing run status = %d", resp.StatusCode)
	}
}

func TestServer_NoStore(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, _ := get(t, ts.URL+"/api/runs")
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", resp.StatusCode)
	}
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t, nil)
	get(t, ts.URL+"/api/projects/random-walk/run?max_steps=10&sample_size=2")
	_, body := get(t, ts.URL+"/metrics")
	for _, want := range []string{`mathviz_steps_total{project="random-walk"} 10`, "mathviz_runs_completed_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestServer_ListenAndServeShutdown(t *testing.T) {
	srv, err := NewServer(Options{Registry: project.NewRegistry()})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx, "localhost:0") }()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Addr() == "" && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if srv.Addr() == "" {
		t.Fatal("server did not start")
	}
	resp, err := http.Get("http://" + srv.Addr() + "/api/projects")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("ListenAndServe = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
