package restserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/neobones/melimep/internal/document"
	"github.com/neobones/melimep/internal/mep"
	"github.com/neobones/melimep/pkg/config"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	ctrl, err := NewController(context.Background(), &sync.WaitGroup{},
		config.RESTServerData{ListenAddr: "127.0.0.1", Port: 8080},
		"test-project", document.New(), mep.DefaultCatalog(), nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return ctrl
}

func doJSON(t *testing.T, router http.Handler, method, path string, body string, wantStatus int) map[string]any {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("%s %s: status %d, want %d (body %s)", method, path, rec.Code, wantStatus, rec.Body.String())
	}
	if rec.Body.Len() == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: decoding response: %v", method, path, err)
	}
	return out
}

func TestPipeLifecycle(t *testing.T) {
	ctrl := newTestController(t)
	router := ctrl.newRouter()

	created := doJSON(t, router, http.MethodPost, "/api/pipes",
		`{"name":"cold riser","flow_rate_lpm":10,"diameter_mm":15,"length_mm":1000}`,
		http.StatusCreated)

	if created["material"] != "Copper" {
		t.Errorf("default material = %v, want Copper", created["material"])
	}
	velocity := created["velocity_ms"].(float64)
	if velocity < 0.93 || velocity > 0.96 {
		t.Errorf("velocity = %v, want about 0.943", velocity)
	}
	loss := created["pressure_loss_bar"].(float64)
	if loss < 0.030 || loss > 0.032 {
		t.Errorf("pressure loss = %v, want about 0.0308", loss)
	}

	id := created["id"].(string)
	got := doJSON(t, router, http.MethodGet, "/api/pipes/"+id, "", http.StatusOK)
	if got["name"] != "cold riser" {
		t.Errorf("fetched pipe name = %v", got["name"])
	}

	// doubling the flow doubles the velocity, recomputed before the
	// response is written
	updated := doJSON(t, router, http.MethodPatch, "/api/objects/"+id,
		`{"property":"FlowRate","value":20}`, http.StatusOK)
	newVelocity := updated["velocity_ms"].(float64)
	if newVelocity < 1.8*velocity || newVelocity > 2.2*velocity {
		t.Errorf("velocity after doubling flow = %v, was %v", newVelocity, velocity)
	}

	doJSON(t, router, http.MethodDelete, "/api/objects/"+id, "", http.StatusNoContent)
	doJSON(t, router, http.MethodGet, "/api/pipes/"+id, "", http.StatusNotFound)
}

func TestCreatePipeRejectsBadInput(t *testing.T) {
	ctrl := newTestController(t)
	router := ctrl.newRouter()

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"flow_rate_lpm":10}`},
		{"unknown material", `{"name":"p1","material":"Lead"}`},
		{"negative diameter", `{"name":"p1","diameter_mm":-5}`},
		{"malformed json", `{"name":`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doJSON(t, router, http.MethodPost, "/api/pipes", tc.body, http.StatusBadRequest)
		})
	}

	// a rejected create must not leave a half-built pipe behind
	if ctrl.Document().Len() != 0 {
		t.Errorf("document holds %d objects after rejected creates, want 0", ctrl.Document().Len())
	}
}

func TestFixtureTypeDefaults(t *testing.T) {
	ctrl := newTestController(t)
	router := ctrl.newRouter()

	created := doJSON(t, router, http.MethodPost, "/api/fixtures",
		`{"name":"wc-1","fixture_type":"Toilet Pan"}`, http.StatusCreated)

	if created["fixture_units"].(float64) != 4 {
		t.Errorf("fixture units = %v, want 4", created["fixture_units"])
	}
	if created["flow_rate_lpm"].(float64) != 0 {
		t.Errorf("flow rate = %v, want 0 (cistern-fed)", created["flow_rate_lpm"])
	}
	if created["installation_height_mm"].(float64) != 400 {
		t.Errorf("installation height = %v, want 400", created["installation_height_mm"])
	}
}

func TestNetworkCalculation(t *testing.T) {
	ctrl := newTestController(t)
	router := ctrl.newRouter()

	var members []string
	p1 := doJSON(t, router, http.MethodPost, "/api/pipes",
		`{"name":"riser","flow_rate_lpm":10,"diameter_mm":15,"length_mm":1000}`, http.StatusCreated)
	p2 := doJSON(t, router, http.MethodPost, "/api/pipes",
		`{"name":"branch","flow_rate_lpm":20,"diameter_mm":22,"length_mm":2500}`, http.StatusCreated)
	f1 := doJSON(t, router, http.MethodPost, "/api/fixtures",
		`{"name":"wc","fixture_type":"Toilet Pan"}`, http.StatusCreated)
	f2 := doJSON(t, router, http.MethodPost, "/api/fixtures",
		`{"name":"basin","fixture_type":"Sink"}`, http.StatusCreated)
	v1 := doJSON(t, router, http.MethodPost, "/api/valves",
		`{"name":"stop","valve_type":"Stop Cock"}`, http.StatusCreated)
	for _, obj := range []map[string]any{p1, p2, f1, f2, v1} {
		members = append(members, obj["id"].(string))
	}

	body, _ := json.Marshal(map[string]any{"name": "ground floor", "members": members})
	net := doJSON(t, router, http.MethodPost, "/api/networks", string(body), http.StatusCreated)
	if len(net["pipes"].([]any)) != 2 || len(net["fixtures"].([]any)) != 2 || len(net["valves"].([]any)) != 1 {
		t.Fatalf("network classification wrong: %v", net)
	}

	netID := net["id"].(string)
	summary := doJSON(t, router, http.MethodPost, "/api/networks/"+netID+"/calculate", "", http.StatusOK)
	if summary["pipes_calculated"].(float64) != 2 {
		t.Errorf("pipes_calculated = %v, want 2", summary["pipes_calculated"])
	}
	if summary["total_flow_lpm"].(float64) != 30 {
		t.Errorf("total_flow_lpm = %v, want 30", summary["total_flow_lpm"])
	}
	if summary["total_fixture_units"].(float64) != 5.5 {
		t.Errorf("total_fixture_units = %v, want 5.5", summary["total_fixture_units"])
	}
	if summary["probable_demand_lpm"].(float64) <= 0 {
		t.Errorf("probable_demand_lpm = %v, want > 0", summary["probable_demand_lpm"])
	}

	// PDF report for the same network
	req := httptest.NewRequest(http.MethodGet, "/api/networks/"+netID+"/report", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("report: status %d", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Errorf("report body does not start with %%PDF")
	}
}

func TestMaterialsAndEnums(t *testing.T) {
	ctrl := newTestController(t)
	router := ctrl.newRouter()

	materials := doJSON(t, router, http.MethodGet, "/api/materials", "", http.StatusOK)
	if materials["Copper"].(float64) != 0.0015 {
		t.Errorf("Copper roughness = %v, want 0.0015", materials["Copper"])
	}
	if materials["Steel"].(float64) != 0.045 {
		t.Errorf("Steel roughness = %v, want 0.045", materials["Steel"])
	}

	enums := doJSON(t, router, http.MethodGet, "/api/enums", "", http.StatusOK)
	for _, key := range []string{"system_types", "pipe_materials", "fixture_types", "valve_types", "control_signals"} {
		if _, ok := enums[key]; !ok {
			t.Errorf("enums response missing %q", key)
		}
	}
}

func TestMsgpackResponseFormat(t *testing.T) {
	ctrl := newTestController(t)
	router := ctrl.newRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health?format=msgpack", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "msgpack") {
		t.Errorf("Content-Type = %q, want msgpack", ct)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctrl := newTestController(t)
	router := ctrl.newRouter()

	doJSON(t, router, http.MethodPost, "/api/pipes",
		`{"name":"riser","flow_rate_lpm":10,"diameter_mm":15,"length_mm":1000}`, http.StatusCreated)
	doJSON(t, router, http.MethodPost, "/api/fixtures",
		`{"name":"wc","fixture_type":"Toilet Pan"}`, http.StatusCreated)

	req := httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot download: status %d", rec.Code)
	}
	blob := rec.Body.Bytes()

	// restore into a fresh controller
	other := newTestController(t)
	otherRouter := other.newRouter()
	restoreReq := httptest.NewRequest(http.MethodPut, "/api/snapshot", bytes.NewReader(blob))
	restoreRec := httptest.NewRecorder()
	otherRouter.ServeHTTP(restoreRec, restoreReq)
	if restoreRec.Code != http.StatusOK {
		t.Fatalf("snapshot restore: status %d (body %s)", restoreRec.Code, restoreRec.Body.String())
	}
	if other.Document().Len() != 2 {
		t.Errorf("restored document holds %d objects, want 2", other.Document().Len())
	}

	pipes := other.Document().Objects()
	var restored *mep.WaterPipe
	for _, obj := range pipes {
		if p, ok := obj.(*mep.WaterPipe); ok {
			restored = p
		}
	}
	if restored == nil {
		t.Fatal("restored document has no pipe")
	}
	if fmt.Sprintf("%.3f", restored.VelocityMS) != "0.943" {
		t.Errorf("restored pipe velocity = %v", restored.VelocityMS)
	}
}

func TestCalculationRunHistoryNeedsStorage(t *testing.T) {
	ctrl := newTestController(t)
	router := ctrl.newRouter()

	doJSON(t, router, http.MethodGet,
		"/api/networks/00000000-0000-0000-0000-000000000000/runs", "", http.StatusNotFound)
}

// Exercises simultaneous property edits, network calculations, listings and
// snapshot restores. Meaningful under the race detector; correctness here is
// "every request completes with a sane status".
func TestConcurrentEditCalculateRestore(t *testing.T) {
	ctrl := newTestController(t)
	router := ctrl.newRouter()

	pipe := doJSON(t, router, http.MethodPost, "/api/pipes",
		`{"name":"riser","flow_rate_lpm":10,"diameter_mm":15,"length_mm":1000}`, http.StatusCreated)
	pipeID := pipe["id"].(string)

	body, _ := json.Marshal(map[string]any{"name": "loop", "members": []string{pipeID}})
	net := doJSON(t, router, http.MethodPost, "/api/networks", string(body), http.StatusCreated)
	netID := net["id"].(string)

	snapReq := httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
	snapRec := httptest.NewRecorder()
	router.ServeHTTP(snapRec, snapReq)
	if snapRec.Code != http.StatusOK {
		t.Fatalf("snapshot download: status %d", snapRec.Code)
	}
	blob := snapRec.Body.Bytes()

	serve := func(method, path string, body []byte) int {
		req := httptest.NewRequest(method, path, bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	var wg sync.WaitGroup
	fail := make(chan string, 64)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			patch := fmt.Sprintf(`{"property":"FlowRate","value":%d}`, 5+i%20)
			// The edited object survives restores (snapshots keep ids),
			// so only success is acceptable.
			if code := serve(http.MethodPatch, "/api/objects/"+pipeID, []byte(patch)); code != http.StatusOK {
				fail <- fmt.Sprintf("PATCH status %d", code)
				return
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			// A restore in between drops network registrations, so 404
			// is a legal outcome.
			code := serve(http.MethodPost, "/api/networks/"+netID+"/calculate", nil)
			if code != http.StatusOK && code != http.StatusNotFound {
				fail <- fmt.Sprintf("calculate status %d", code)
				return
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			if code := serve(http.MethodPut, "/api/snapshot", blob); code != http.StatusOK {
				fail <- fmt.Sprintf("restore status %d", code)
				return
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if code := serve(http.MethodGet, "/api/pipes", nil); code != http.StatusOK {
				fail <- fmt.Sprintf("list status %d", code)
				return
			}
		}
	}()

	wg.Wait()
	close(fail)
	for msg := range fail {
		t.Error(msg)
	}
}
