package restserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/neobones/melimep/internal/document"
	"github.com/neobones/melimep/internal/mep"
	"github.com/neobones/melimep/internal/network"
	"github.com/neobones/melimep/internal/report"
	"github.com/neobones/melimep/pkg/responseformat"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": fmt.Sprintf(format, args...)})
}

func (h *Handlers) objectID(req *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(req)["id"])
}

func (h *Handlers) abort(doc *document.Document) {
	if err := doc.AbortTransaction(); err != nil {
		h.controller.logger.Errorf("aborting transaction: %v", err)
	}
}

// cloneObject takes a shallow copy of an entity so it can be serialized and
// persisted after the document lock is released.
func cloneObject(obj document.Object) document.Object {
	switch o := obj.(type) {
	case *mep.WaterPipe:
		cp := *o
		return &cp
	case *mep.SanitaryFixture:
		cp := *o
		return &cp
	case *mep.Valve:
		cp := *o
		return &cp
	}
	return obj
}

// Health reports service liveness
func (h *Handlers) Health(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteResponse(w, req, map[string]any{
		"status":  "ok",
		"project": h.controller.ProjectName,
		"objects": h.controller.Document().Len(),
	})
}

type createPipeRequest struct {
	Name        string  `json:"name"`
	SystemType  string  `json:"system_type,omitempty"`
	Material    string  `json:"material,omitempty"`
	DiameterMM  float64 `json:"diameter_mm,omitempty"`
	LengthMM    float64 `json:"length_mm,omitempty"`
	FlowRateLPM float64 `json:"flow_rate_lpm,omitempty"`
}

type pipeResponse struct {
	*mep.WaterPipe
	Color mep.RGB `json:"color"`
}

// CreatePipe creates a water pipe and applies any supplied property values
// inside a single transaction.
func (h *Handlers) CreatePipe(w http.ResponseWriter, req *http.Request) {
	var in createPipeRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if in.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	doc := h.controller.Document()
	pipe := mep.NewWaterPipe(in.Name, h.controller.Catalog)

	if err := doc.OpenTransaction("create water pipe"); err != nil {
		h.writeError(w, http.StatusConflict, "%v", err)
		return
	}
	if err := doc.AddObject(pipe); err != nil {
		h.abort(doc)
		h.writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}

	edits := map[string]any{}
	if in.SystemType != "" {
		edits["SystemType"] = in.SystemType
	}
	if in.Material != "" {
		edits["PipeMaterial"] = in.Material
	}
	if in.DiameterMM != 0 {
		edits["Diameter"] = in.DiameterMM
	}
	if in.LengthMM != 0 {
		edits["Length"] = in.LengthMM
	}
	if in.FlowRateLPM != 0 {
		edits["FlowRate"] = in.FlowRateLPM
	}
	for prop, value := range edits {
		if err := doc.SetProperty(pipe.ID(), prop, value); err != nil {
			h.abort(doc)
			h.writeError(w, http.StatusBadRequest, "setting %s: %v", prop, err)
			return
		}
	}
	if err := doc.CommitTransaction(); err != nil {
		h.writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}

	created := h.snapshotPipe(doc, pipe.ID())
	if created == nil {
		h.writeError(w, http.StatusInternalServerError, "pipe vanished after commit")
		return
	}
	h.persistObject(created.WaterPipe)

	w.WriteHeader(http.StatusCreated)
	h.formatter.WriteResponse(w, req, created)
}

// snapshotPipe copies a pipe's state under the document lock.
func (h *Handlers) snapshotPipe(doc *document.Document, id uuid.UUID) *pipeResponse {
	var resp *pipeResponse
	_ = doc.View(id, func(obj document.Object) error {
		if p, ok := obj.(*mep.WaterPipe); ok {
			cp := *p
			resp = &pipeResponse{WaterPipe: &cp, Color: mep.SystemColor(cp.SystemType)}
		}
		return nil
	})
	return resp
}

// ListPipes returns all water pipes in the document
func (h *Handlers) ListPipes(w http.ResponseWriter, req *http.Request) {
	pipes := []pipeResponse{}
	h.controller.Document().ForEach(func(obj document.Object) error {
		if p, ok := obj.(*mep.WaterPipe); ok {
			cp := *p
			pipes = append(pipes, pipeResponse{WaterPipe: &cp, Color: mep.SystemColor(cp.SystemType)})
		}
		return nil
	})
	h.formatter.WriteResponse(w, req, pipes)
}

// GetPipe returns one water pipe by id
func (h *Handlers) GetPipe(w http.ResponseWriter, req *http.Request) {
	id, err := h.objectID(req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid object id")
		return
	}
	resp := h.snapshotPipe(h.controller.Document(), id)
	if resp == nil {
		h.writeError(w, http.StatusNotFound, "no water pipe %s", id)
		return
	}
	h.formatter.WriteResponse(w, req, resp)
}

type createFixtureRequest struct {
	Name        string `json:"name"`
	FixtureType string `json:"fixture_type,omitempty"`
}

// CreateFixture creates a sanitary fixture. Supplying a fixture type applies
// that type's default flow rate, fixture units and installation height.
func (h *Handlers) CreateFixture(w http.ResponseWriter, req *http.Request) {
	var in createFixtureRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if in.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	doc := h.controller.Document()
	fixture := mep.NewSanitaryFixture(in.Name)
	if err := doc.AddObject(fixture); err != nil {
		h.writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}
	if in.FixtureType != "" {
		if err := doc.SetProperty(fixture.ID(), "FixtureType", in.FixtureType); err != nil {
			doc.Remove(fixture.ID())
			h.writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
	}

	created := h.snapshotObject(doc, fixture.ID())
	h.persistObject(created)

	w.WriteHeader(http.StatusCreated)
	h.formatter.WriteResponse(w, req, created)
}

// ListFixtures returns all sanitary fixtures in the document
func (h *Handlers) ListFixtures(w http.ResponseWriter, req *http.Request) {
	fixtures := []*mep.SanitaryFixture{}
	h.controller.Document().ForEach(func(obj document.Object) error {
		if f, ok := obj.(*mep.SanitaryFixture); ok {
			cp := *f
			fixtures = append(fixtures, &cp)
		}
		return nil
	})
	h.formatter.WriteResponse(w, req, fixtures)
}

type createValveRequest struct {
	Name      string `json:"name"`
	ValveType string `json:"valve_type,omitempty"`
}

// CreateValve creates a valve
func (h *Handlers) CreateValve(w http.ResponseWriter, req *http.Request) {
	var in createValveRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if in.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	doc := h.controller.Document()
	valve := mep.NewValve(in.Name)
	if err := doc.AddObject(valve); err != nil {
		h.writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}
	if in.ValveType != "" {
		if err := doc.SetProperty(valve.ID(), "ValveType", in.ValveType); err != nil {
			doc.Remove(valve.ID())
			h.writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
	}

	created := h.snapshotObject(doc, valve.ID())
	h.persistObject(created)

	w.WriteHeader(http.StatusCreated)
	h.formatter.WriteResponse(w, req, created)
}

// ListValves returns all valves in the document
func (h *Handlers) ListValves(w http.ResponseWriter, req *http.Request) {
	valves := []*mep.Valve{}
	h.controller.Document().ForEach(func(obj document.Object) error {
		if v, ok := obj.(*mep.Valve); ok {
			cp := *v
			valves = append(valves, &cp)
		}
		return nil
	})
	h.formatter.WriteResponse(w, req, valves)
}

type updatePropertyRequest struct {
	Property string `json:"property"`
	Value    any    `json:"value"`
}

// UpdateProperty edits one property on any document object. The edit runs
// the object's recompute hook synchronously, so derived values in the
// response are already current.
func (h *Handlers) UpdateProperty(w http.ResponseWriter, req *http.Request) {
	id, err := h.objectID(req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid object id")
		return
	}
	var in updatePropertyRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if in.Property == "" {
		h.writeError(w, http.StatusBadRequest, "property is required")
		return
	}

	doc := h.controller.Document()
	if err := doc.SetProperty(id, in.Property, in.Value); err != nil {
		h.writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	updated := h.snapshotObject(doc, id)
	h.persistObject(updated)
	h.formatter.WriteResponse(w, req, updated)
}

// snapshotObject copies any entity's state under the document lock.
func (h *Handlers) snapshotObject(doc *document.Document, id uuid.UUID) document.Object {
	var copied document.Object
	_ = doc.View(id, func(obj document.Object) error {
		copied = cloneObject(obj)
		return nil
	})
	return copied
}

// DeleteObject removes an object from the document
func (h *Handlers) DeleteObject(w http.ResponseWriter, req *http.Request) {
	id, err := h.objectID(req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid object id")
		return
	}
	if !h.controller.Document().Remove(id) {
		h.writeError(w, http.StatusNotFound, "no object %s", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) persistObject(obj document.Object) {
	if !h.controller.DBEnabled || obj == nil {
		return
	}
	var err error
	switch o := obj.(type) {
	case *mep.WaterPipe:
		err = h.controller.DB.SavePipe(o)
	case *mep.SanitaryFixture:
		err = h.controller.DB.SaveFixture(o)
	case *mep.Valve:
		err = h.controller.DB.SaveValve(o)
	}
	if err != nil {
		h.controller.logger.Errorf("persisting %s: %v", obj.Label(), err)
	}
}

// ListMaterials returns the resolved roughness catalog
func (h *Handlers) ListMaterials(w http.ResponseWriter, req *http.Request) {
	materials := map[string]float64{}
	for _, m := range mep.AllPipeMaterials {
		materials[string(m)] = h.controller.Catalog.RoughnessFor(m)
	}
	h.formatter.WriteResponse(w, req, materials)
}

// ListEnums returns all classification enumerations and their allowed values
func (h *Handlers) ListEnums(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteResponse(w, req, map[string]any{
		"system_types":    mep.AllSystemTypes,
		"pipe_materials":  mep.AllPipeMaterials,
		"fixture_types":   mep.AllFixtureTypes,
		"valve_types":     mep.AllValveTypes,
		"control_signals": mep.AllControlSignals,
	})
}

type createNetworkRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// CreateNetwork groups selected objects into a named MEP network
func (h *Handlers) CreateNetwork(w http.ResponseWriter, req *http.Request) {
	var in createNetworkRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if in.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	doc := h.controller.Document()
	var objs []document.Object
	for _, member := range in.Members {
		id, err := uuid.Parse(member)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid member id %q", member)
			return
		}
		obj, ok := doc.Object(id)
		if !ok {
			h.writeError(w, http.StatusNotFound, "no object %s", id)
			return
		}
		objs = append(objs, obj)
	}

	n, err := network.New(in.Name, objs)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	h.controller.RegisterNetwork(n)

	w.WriteHeader(http.StatusCreated)
	h.formatter.WriteResponse(w, req, n)
}

// ListNetworks returns all registered networks
func (h *Handlers) ListNetworks(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteResponse(w, req, h.controller.Networks())
}

// CalculateNetwork runs the hydraulic calculation across a network
func (h *Handlers) CalculateNetwork(w http.ResponseWriter, req *http.Request) {
	id, err := h.objectID(req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid network id")
		return
	}
	n, ok := h.controller.Network(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "no network %s", id)
		return
	}

	summary, err := n.RunHydraulics(h.controller.Document())
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}
	h.controller.logger.Infof("hydraulic calculation completed for %d pipes, total flow %.2f L/min, total loss %.4f bar",
		summary.PipesCalculated, summary.TotalFlowLPM, summary.TotalPressureLossBar)

	if h.controller.DBEnabled {
		if err := h.controller.DB.SaveCalculationRun(n.ID, n.Name, summary); err != nil {
			h.controller.logger.Errorf("persisting calculation run: %v", err)
		}
	}

	h.formatter.WriteResponse(w, req, summary)
}

// ListCalculationRuns returns the stored history of calculations for a
// network, most recent first.
func (h *Handlers) ListCalculationRuns(w http.ResponseWriter, req *http.Request) {
	id, err := h.objectID(req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid network id")
		return
	}
	if !h.controller.DBEnabled {
		h.writeError(w, http.StatusNotFound, "no storage backend configured")
		return
	}

	limit := 20
	if raw := req.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "invalid limit %q", raw)
			return
		}
		limit = parsed
	}

	runs, err := h.controller.DB.GetCalculationRuns(id, limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}
	h.formatter.WriteResponse(w, req, runs)
}

// NetworkReport streams a PDF or XLSX calculation report for a network
func (h *Handlers) NetworkReport(w http.ResponseWriter, req *http.Request) {
	id, err := h.objectID(req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid network id")
		return
	}
	n, ok := h.controller.Network(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "no network %s", id)
		return
	}

	doc := h.controller.Document()
	summary, err := n.RunHydraulics(doc)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}

	var pipes []*mep.WaterPipe
	for _, pid := range n.Pipes {
		if resp := h.snapshotPipe(doc, pid); resp != nil {
			pipes = append(pipes, resp.WaterPipe)
		}
	}

	in := report.Input{
		ProjectName: h.controller.ProjectName,
		NetworkName: n.Name,
		Pipes:       pipes,
		Summary:     summary,
	}

	switch req.URL.Query().Get("format") {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="hydraulics.xlsx"`)
		if err := report.WriteXLSX(w, in); err != nil {
			h.controller.logger.Errorf("report generation error: %v", err)
		}
	default:
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="hydraulics.pdf"`)
		if err := report.WritePDF(w, in); err != nil {
			h.controller.logger.Errorf("report generation error: %v", err)
		}
	}
}

// GetSnapshot streams the whole document as a msgpack snapshot
func (h *Handlers) GetSnapshot(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/x-msgpack")
	w.Header().Set("Content-Disposition", `attachment; filename="document.snapshot"`)
	if err := h.controller.Document().Save(w); err != nil {
		h.controller.logger.Errorf("snapshot error: %v", err)
	}
}

// RestoreSnapshot replaces the document with an uploaded msgpack snapshot
func (h *Handlers) RestoreSnapshot(w http.ResponseWriter, req *http.Request) {
	doc, err := document.Load(req.Body, h.controller.Catalog)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	h.controller.ReplaceDocument(doc)

	h.formatter.WriteResponse(w, req, map[string]any{
		"restored_objects": doc.Len(),
	})
}
