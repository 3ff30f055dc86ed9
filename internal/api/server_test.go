//go:build !cuda

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/devrand/internal/kernels"
	"github.com/samcharles93/devrand/pkg/rng"
)

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	store := NewGeneratorStore(kernels.Host, 64)
	t.Cleanup(func() { store.Close() })
	server := NewServer(store)
	e := echo.New()
	server.Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSampleIntegers(t *testing.T) {
	e := newTestEcho(t)
	rec := doJSON(t, e, http.MethodPost, "/v1/sample",
		`{"algorithm":"philox","seed":[7],"distribution":"integers","n":20,"low":0,"high":10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp SampleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(resp.ID, "sample-") {
		t.Fatalf("id %q missing prefix", resp.ID)
	}
	if len(resp.Ints) != 20 {
		t.Fatalf("got %d ints", len(resp.Ints))
	}
	for i, v := range resp.Ints {
		if v < 0 || v >= 10 {
			t.Fatalf("value %d at %d outside [0, 10)", v, i)
		}
	}
}

func TestSampleBetaAndExponential(t *testing.T) {
	e := newTestEcho(t)

	rec := doJSON(t, e, http.MethodPost, "/v1/sample",
		`{"algorithm":"xorwow","seed":[1],"distribution":"beta","n":10,"alpha":2,"beta":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("beta status %d: %s", rec.Code, rec.Body.String())
	}
	var resp SampleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Floats) != 10 {
		t.Fatalf("got %d floats", len(resp.Floats))
	}
	for i, v := range resp.Floats {
		if v < 0 || v > 1 {
			t.Fatalf("beta value %v at %d outside [0,1]", v, i)
		}
	}

	rec = doJSON(t, e, http.MethodPost, "/v1/sample",
		`{"algorithm":"mrg","seed":[1],"distribution":"standard_exponential","n":10,"dtype":"float32"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("exponential status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSampleDeterministicAcrossServers(t *testing.T) {
	body := `{"algorithm":"xorwow","seed":[42],"distribution":"integers","n":15,"low":-3,"high":100}`
	recA := doJSON(t, newTestEcho(t), http.MethodPost, "/v1/sample", body)
	recB := doJSON(t, newTestEcho(t), http.MethodPost, "/v1/sample", body)
	var a, b SampleResponse
	if err := json.Unmarshal(recA.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal(recB.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(a.Ints) != len(b.Ints) {
		t.Fatalf("lengths differ: %d vs %d", len(a.Ints), len(b.Ints))
	}
	for i := range a.Ints {
		if a.Ints[i] != b.Ints[i] {
			t.Fatalf("same seed diverges at %d: %d != %d", i, a.Ints[i], b.Ints[i])
		}
	}
}

func TestSampleBadRequests(t *testing.T) {
	e := newTestEcho(t)
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown algorithm", body: `{"algorithm":"mt19937","distribution":"integers","n":5,"high":10}`},
		{name: "unknown distribution", body: `{"distribution":"normal","n":5}`},
		{name: "ziggurat", body: `{"distribution":"standard_exponential","n":5,"method":"ziggurat"}`},
		{name: "bad dtype", body: `{"distribution":"beta","n":5,"alpha":1,"beta":1,"dtype":"int8"}`},
		{name: "negative n", body: `{"distribution":"integers","n":-1,"high":10}`},
		{name: "unknown field", body: `{"distribution":"integers","n":5,"high":10,"shape":[2,3]}`},
	}
	for _, tt := range tests {
		rec := doJSON(t, e, http.MethodPost, "/v1/sample", tt.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d: %s", tt.name, rec.Code, rec.Body.String())
		}
	}
}

func TestInfo(t *testing.T) {
	e := newTestEcho(t)
	rec := doJSON(t, e, http.MethodGet, "/v1/info", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var info InfoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(info.Algorithms) != 3 {
		t.Fatalf("%d algorithms listed", len(info.Algorithms))
	}
	for _, a := range info.Algorithms {
		if a.StateBytes <= 0 {
			t.Fatalf("algorithm %s reports state size %d", a.Name, a.StateBytes)
		}
	}
	if info.Devices < 1 {
		t.Fatalf("devices=%d", info.Devices)
	}
}

func TestGeneratorStoreReuse(t *testing.T) {
	store := NewGeneratorStore(kernels.Host, 32)
	defer store.Close()

	a, err := store.Acquire(rng.XORWOW, []uint64{1}, 32)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	b, err := store.Acquire(rng.XORWOW, []uint64{1}, 32)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if a != b {
		t.Fatalf("same parameters produced distinct generators")
	}
	if _, err := store.Acquire(rng.XORWOW, []uint64{2}, 32); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("store holds %d generators, want 2", store.Len())
	}
}
