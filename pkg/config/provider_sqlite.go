package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements Provider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	project, fluid, err := s.getProject()
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	config.Project = *project
	config.Fluid = *fluid

	materials, err := s.GetMaterials()
	if err != nil {
		return nil, fmt.Errorf("failed to load materials: %w", err)
	}
	config.Materials = materials

	storage, err := s.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}
	config.Storage = *storage

	controllers, err := s.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("failed to load controllers: %w", err)
	}
	config.Controllers = controllers

	return config, nil
}

func (s *SQLiteProvider) getProject() (*ProjectData, *FluidData, error) {
	query := `
		SELECT name, roughness_in_millimeters,
		       fluid_density, fluid_kinematic_viscosity, fluid_temperature
		FROM projects
		WHERE name = (SELECT value FROM settings WHERE key = 'active_project')
		   OR id = (SELECT MIN(id) FROM projects)
		LIMIT 1
	`

	var project ProjectData
	var fluid FluidData
	var roughnessMM sql.NullBool
	var density, viscosity, temperature sql.NullFloat64

	err := s.db.QueryRow(query).Scan(
		&project.Name, &roughnessMM, &density, &viscosity, &temperature,
	)
	if err == sql.ErrNoRows {
		return &ProjectData{Name: "default"}, &FluidData{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query project: %w", err)
	}

	if roughnessMM.Valid {
		project.RoughnessInMillimeters = roughnessMM.Bool
	}
	if density.Valid {
		fluid.DensityKgM3 = density.Float64
	}
	if viscosity.Valid {
		fluid.KinematicViscosity = viscosity.Float64
	}
	if temperature.Valid {
		fluid.TemperatureC = temperature.Float64
	}

	return &project, &fluid, nil
}

// GetMaterials returns material roughness overrides from the database
func (s *SQLiteProvider) GetMaterials() ([]MaterialData, error) {
	query := `
		SELECT name, roughness
		FROM materials
		WHERE project_id = (SELECT MIN(id) FROM projects)
		ORDER BY name
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	var materials []MaterialData
	for rows.Next() {
		var material MaterialData
		if err := rows.Scan(&material.Name, &material.Roughness); err != nil {
			return nil, fmt.Errorf("failed to scan material row: %w", err)
		}
		materials = append(materials, material)
	}

	return materials, rows.Err()
}

// GetStorageConfig returns storage configuration from the database
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	query := `
		SELECT connection_string
		FROM storage_backends
		WHERE project_id = (SELECT MIN(id) FROM projects)
		  AND backend_type = 'timescaledb'
		LIMIT 1
	`

	storage := &StorageData{}

	var connectionString sql.NullString
	err := s.db.QueryRow(query).Scan(&connectionString)
	if err == sql.ErrNoRows {
		return storage, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query storage backends: %w", err)
	}

	if connectionString.Valid && connectionString.String != "" {
		storage.TimescaleDB = &TimescaleDBData{ConnectionString: connectionString.String}
	}

	return storage, nil
}

// GetControllers returns controller configurations from the database
func (s *SQLiteProvider) GetControllers() ([]ControllerData, error) {
	query := `
		SELECT type, listen_addr, port, enable_cors
		FROM controllers
		WHERE project_id = (SELECT MIN(id) FROM projects)
		ORDER BY type
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query controllers: %w", err)
	}
	defer rows.Close()

	var controllers []ControllerData
	for rows.Next() {
		var controller ControllerData
		var listenAddr sql.NullString
		var port sql.NullInt64
		var enableCORS sql.NullBool

		if err := rows.Scan(&controller.Type, &listenAddr, &port, &enableCORS); err != nil {
			return nil, fmt.Errorf("failed to scan controller row: %w", err)
		}

		if controller.Type == "rest" {
			rest := &RESTServerData{}
			if listenAddr.Valid {
				rest.ListenAddr = listenAddr.String
			}
			if port.Valid {
				rest.Port = int(port.Int64)
			}
			if enableCORS.Valid {
				rest.EnableCORS = enableCORS.Bool
			}
			controller.RESTServer = rest
		}

		controllers = append(controllers, controller)
	}

	return controllers, rows.Err()
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the underlying database handle
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
