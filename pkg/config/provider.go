// Package config loads project configuration from YAML files or SQLite
// databases behind a common provider interface.
package config

// Provider defines the interface for configuration data sources
type Provider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetMaterials() ([]MaterialData, error)
	GetStorageConfig() (*StorageData, error)
	GetControllers() ([]ControllerData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Project     ProjectData      `json:"project"`
	Fluid       FluidData        `json:"fluid,omitempty"`
	Materials   []MaterialData   `json:"materials,omitempty"`
	Storage     StorageData      `json:"storage,omitempty"`
	Controllers []ControllerData `json:"controllers,omitempty"`
}

// ProjectData holds project-wide settings
type ProjectData struct {
	Name string `json:"name"`

	// RoughnessInMillimeters selects the corrected unit handling for
	// material roughness in the friction-factor formula. Off by default
	// to preserve the historical calculation results.
	RoughnessInMillimeters bool `json:"roughness_in_millimeters,omitempty"`
}

// FluidData overrides the working-fluid properties used in hydraulic
// calculations. Zero values select water at 20°C.
type FluidData struct {
	DensityKgM3        float64 `json:"density_kg_m3,omitempty"`
	KinematicViscosity float64 `json:"kinematic_viscosity,omitempty"`
	TemperatureC       float64 `json:"temperature_c,omitempty"`
}

// MaterialData overrides the roughness coefficient for one pipe material
type MaterialData struct {
	Name      string  `json:"name"`
	Roughness float64 `json:"roughness"`
}

// StorageData holds the configuration for persistence backends
type StorageData struct {
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty"`
}

type TimescaleDBData struct {
	ConnectionString string `json:"connection_string"`
}

// ControllerData holds the configuration for controller backends
type ControllerData struct {
	Type       string          `json:"type,omitempty"`
	RESTServer *RESTServerData `json:"rest,omitempty"`
}

type RESTServerData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
	EnableCORS bool   `json:"enable_cors,omitempty"`
}
