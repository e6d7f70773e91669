// Package restserver exposes the MEP document over HTTP: entity CRUD,
// property edits with synchronous recompute, network commands and
// calculation reports.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/neobones/melimep/internal/database"
	"github.com/neobones/melimep/internal/document"
	"github.com/neobones/melimep/internal/mep"
	"github.com/neobones/melimep/internal/network"
	"github.com/neobones/melimep/pkg/config"
)

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server

	ProjectName string
	Catalog     *mep.Catalog
	DB          *database.Client
	DBEnabled   bool

	// doc is guarded by mu: snapshot restore swaps the pointer while other
	// handlers are serving requests. Access it through Document.
	doc *document.Document

	mu       sync.Mutex
	networks map[uuid.UUID]*network.Network

	logger   *zap.SugaredLogger
	handlers *Handlers
}

// NewController creates a new REST server controller serving the given
// document. The database client may be nil when no storage is configured.
func NewController(ctx context.Context, wg *sync.WaitGroup, rc config.RESTServerData,
	projectName string, doc *document.Document, catalog *mep.Catalog,
	db *database.Client, logger *zap.SugaredLogger) (*Controller, error) {

	if doc == nil {
		return nil, fmt.Errorf("restserver: a document is required")
	}

	// If a listen address was not provided, listen on all interfaces
	if rc.ListenAddr == "" {
		logger.Info("rest.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		rc.ListenAddr = "0.0.0.0"
	}
	if rc.Port == 0 {
		logger.Info("rest.port not provided; defaulting to 8080")
		rc.Port = 8080
	}

	ctrl := &Controller{
		ctx:         ctx,
		wg:          wg,
		restConfig:  rc,
		ProjectName: projectName,
		doc:         doc,
		Catalog:     catalog,
		DB:          db,
		DBEnabled:   db != nil,
		networks:    make(map[uuid.UUID]*network.Network),
		logger:      logger,
	}
	ctrl.handlers = NewHandlers(ctrl)

	return ctrl, nil
}

// StartController starts the HTTP listener and shuts it down when the
// controller context is cancelled.
func (c *Controller) StartController() error {
	router := c.newRouter()

	c.Server.Addr = fmt.Sprintf("%s:%d", c.restConfig.ListenAddr, c.restConfig.Port)
	c.Server.Handler = router

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.logger.Infof("REST server listening on %s", c.Server.Addr)
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			c.logger.Errorf("REST server shutdown error: %v", err)
		}
	}()

	return nil
}

func (c *Controller) newRouter() *mux.Router {
	router := mux.NewRouter()
	h := c.handlers

	router.HandleFunc("/api/health", h.Health).Methods(http.MethodGet)

	router.HandleFunc("/api/pipes", h.CreatePipe).Methods(http.MethodPost)
	router.HandleFunc("/api/pipes", h.ListPipes).Methods(http.MethodGet)
	router.HandleFunc("/api/pipes/{id}", h.GetPipe).Methods(http.MethodGet)

	router.HandleFunc("/api/fixtures", h.CreateFixture).Methods(http.MethodPost)
	router.HandleFunc("/api/fixtures", h.ListFixtures).Methods(http.MethodGet)

	router.HandleFunc("/api/valves", h.CreateValve).Methods(http.MethodPost)
	router.HandleFunc("/api/valves", h.ListValves).Methods(http.MethodGet)

	router.HandleFunc("/api/objects/{id}", h.UpdateProperty).Methods(http.MethodPatch)
	router.HandleFunc("/api/objects/{id}", h.DeleteObject).Methods(http.MethodDelete)

	router.HandleFunc("/api/materials", h.ListMaterials).Methods(http.MethodGet)
	router.HandleFunc("/api/enums", h.ListEnums).Methods(http.MethodGet)

	router.HandleFunc("/api/networks", h.CreateNetwork).Methods(http.MethodPost)
	router.HandleFunc("/api/networks", h.ListNetworks).Methods(http.MethodGet)
	router.HandleFunc("/api/networks/{id}/calculate", h.CalculateNetwork).Methods(http.MethodPost)
	router.HandleFunc("/api/networks/{id}/report", h.NetworkReport).Methods(http.MethodGet)
	router.HandleFunc("/api/networks/{id}/runs", h.ListCalculationRuns).Methods(http.MethodGet)

	router.HandleFunc("/api/snapshot", h.GetSnapshot).Methods(http.MethodGet)
	router.HandleFunc("/api/snapshot", h.RestoreSnapshot).Methods(http.MethodPut)

	if c.restConfig.EnableCORS {
		router.Use(corsMiddleware)
	}

	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, req)
	})
}

// Document returns the active project document.
func (c *Controller) Document() *document.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc
}

// ReplaceDocument swaps in a restored document and drops network
// registrations, which refer to objects of the old one.
func (c *Controller) ReplaceDocument(doc *document.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc = doc
	c.networks = make(map[uuid.UUID]*network.Network)
}

// Network returns a registered network by id.
func (c *Controller) Network(id uuid.UUID) (*network.Network, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.networks[id]
	return n, ok
}

// RegisterNetwork stores a network for later commands.
func (c *Controller) RegisterNetwork(n *network.Network) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.networks[n.ID] = n
}

// Networks returns all registered networks.
func (c *Controller) Networks() []*network.Network {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*network.Network, 0, len(c.networks))
	for _, n := range c.networks {
		out = append(out, n)
	}
	return out
}
