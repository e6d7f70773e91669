package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements Provider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Project     ProjectYAML      `yaml:"project"`
		Fluid       FluidYAML        `yaml:"fluid,omitempty"`
		Materials   []MaterialYAML   `yaml:"materials,omitempty"`
		Storage     StorageYAML      `yaml:"storage,omitempty"`
		Controllers []ControllerYAML `yaml:"controllers,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Project: ProjectData{
			Name:                   yamlConfig.Project.Name,
			RoughnessInMillimeters: yamlConfig.Project.RoughnessInMillimeters,
		},
		Fluid: FluidData{
			DensityKgM3:        yamlConfig.Fluid.DensityKgM3,
			KinematicViscosity: yamlConfig.Fluid.KinematicViscosity,
			TemperatureC:       yamlConfig.Fluid.TemperatureC,
		},
		Materials:   make([]MaterialData, len(yamlConfig.Materials)),
		Controllers: make([]ControllerData, len(yamlConfig.Controllers)),
	}

	for i, material := range yamlConfig.Materials {
		config.Materials[i] = MaterialData{
			Name:      material.Name,
			Roughness: material.Roughness,
		}
	}

	config.Storage = StorageData{}
	if yamlConfig.Storage.TimescaleDB != nil {
		config.Storage.TimescaleDB = &TimescaleDBData{
			ConnectionString: yamlConfig.Storage.TimescaleDB.ConnectionString,
		}
	}

	for i, controller := range yamlConfig.Controllers {
		config.Controllers[i] = ControllerData{
			Type: controller.Type,
		}
		if controller.RESTServer != nil {
			config.Controllers[i].RESTServer = &RESTServerData{
				ListenAddr: controller.RESTServer.ListenAddr,
				Port:       controller.RESTServer.Port,
				EnableCORS: controller.RESTServer.EnableCORS,
			}
		}
	}

	y.config = config
	return config, nil
}

// GetMaterials returns material roughness overrides
func (y *YAMLProvider) GetMaterials() ([]MaterialData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Materials, nil
}

// GetStorageConfig returns storage configuration
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Storage, nil
}

// GetControllers returns controller configurations
func (y *YAMLProvider) GetControllers() ([]ControllerData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Controllers, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags
type ProjectYAML struct {
	Name                   string `yaml:"name"`
	RoughnessInMillimeters bool   `yaml:"roughness-in-millimeters,omitempty"`
}

type FluidYAML struct {
	DensityKgM3        float64 `yaml:"density,omitempty"`
	KinematicViscosity float64 `yaml:"kinematic-viscosity,omitempty"`
	TemperatureC       float64 `yaml:"temperature,omitempty"`
}

type MaterialYAML struct {
	Name      string  `yaml:"name"`
	Roughness float64 `yaml:"roughness"`
}

type StorageYAML struct {
	TimescaleDB *TimescaleDBYAML `yaml:"timescaledb,omitempty"`
}

type TimescaleDBYAML struct {
	ConnectionString string `yaml:"connection-string"`
}

type ControllerYAML struct {
	Type       string          `yaml:"type,omitempty"`
	RESTServer *RESTServerYAML `yaml:"rest,omitempty"`
}

type RESTServerYAML struct {
	ListenAddr string `yaml:"listen-addr,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	EnableCORS bool   `yaml:"enable-cors,omitempty"`
}
