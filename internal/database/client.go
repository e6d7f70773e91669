// Package database persists MEP entities and calculation runs in
// TimescaleDB/PostgreSQL through GORM.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/google/uuid"
	"github.com/neobones/melimep/internal/log"
	"github.com/neobones/melimep/internal/mep"
	"github.com/neobones/melimep/internal/network"
	"go.uber.org/zap"
)

// Client holds the connection to the project database
type Client struct {
	connectionString string
	DB               *gorm.DB // Exported so it can be accessed from other packages
	logger           *zap.SugaredLogger
}

// NewClient creates a new database client
func NewClient(connectionString string, logger *zap.SugaredLogger) *Client {
	return &Client{
		connectionString: connectionString,
		logger:           logger,
	}
}

// Connect connects to the database and migrates the schema
func (c *Client) Connect() error {
	var err error

	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	log.Info("connecting to project database...")
	c.DB, err = gorm.Open(postgres.Open(c.connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		log.Warn("warning: unable to create a database connection:", err)
		return err
	}
	log.Info("project database connection successful")

	return c.DB.AutoMigrate(&PipeRecord{}, &FixtureRecord{}, &ValveRecord{}, &CalculationRun{})
}

// SavePipe upserts a water pipe
func (c *Client) SavePipe(p *mep.WaterPipe) error {
	record := PipeRecord{
		ID:                    p.ID().String(),
		Name:                  p.Label(),
		SystemType:            string(p.SystemType),
		Material:              string(p.Material),
		DiameterMM:            p.DiameterMM,
		LengthMM:              p.LengthMM,
		FlowRateLPM:           p.FlowRateLPM,
		PressureBar:           p.PressureBar,
		PressureLossBar:       p.PressureLossBar,
		VelocityMS:            p.VelocityMS,
		RoughnessCoeff:        p.RoughnessCoeff,
		InsulationThicknessMM: p.InsulationThicknessMM,
		UpdatedAt:             time.Now(),
	}
	if err := c.DB.Save(&record).Error; err != nil {
		return fmt.Errorf("error saving pipe %s: %w", p.Label(), err)
	}
	return nil
}

// SaveFixture upserts a sanitary fixture
func (c *Client) SaveFixture(f *mep.SanitaryFixture) error {
	record := FixtureRecord{
		ID:                   f.ID().String(),
		Name:                 f.Label(),
		FixtureType:          string(f.FixtureType),
		FixtureUnits:         f.FixtureUnits,
		FlowRateLPM:          f.FlowRateLPM,
		WallMounted:          f.WallMounted,
		InstallationHeightMM: f.InstallationHeightMM,
		UpdatedAt:            time.Now(),
	}
	if err := c.DB.Save(&record).Error; err != nil {
		return fmt.Errorf("error saving fixture %s: %w", f.Label(), err)
	}
	return nil
}

// SaveValve upserts a valve
func (c *Client) SaveValve(v *mep.Valve) error {
	record := ValveRecord{
		ID:                 v.ID().String(),
		Name:               v.Label(),
		ValveType:          string(v.ValveType),
		NominalDiameterMM:  v.NominalDiameterMM,
		WorkingPressureBar: v.WorkingPressureBar,
		FlowCoefficientKv:  v.FlowCoefficientKv,
		IsMotorized:        v.IsMotorized,
		ControlSignal:      string(v.ControlSignal),
		UpdatedAt:          time.Now(),
	}
	if err := c.DB.Save(&record).Error; err != nil {
		return fmt.Errorf("error saving valve %s: %w", v.Label(), err)
	}
	return nil
}

// SaveCalculationRun records the summary of a network-wide calculation
func (c *Client) SaveCalculationRun(networkID uuid.UUID, networkName string, s *network.Summary) error {
	run := CalculationRun{
		NetworkID:            networkID.String(),
		NetworkName:          networkName,
		PipesCalculated:      s.PipesCalculated,
		TotalFlowLPM:         s.TotalFlowLPM,
		TotalPressureLossBar: s.TotalPressureLossBar,
		TotalFixtureUnits:    s.TotalFixtureUnits,
		ProbableDemandLPM:    s.ProbableDemandLPM,
		RunAt:                time.Now(),
	}
	if err := c.DB.Create(&run).Error; err != nil {
		return fmt.Errorf("error saving calculation run: %w", err)
	}
	return nil
}

// GetCalculationRuns returns the most recent calculation runs for a network
func (c *Client) GetCalculationRuns(networkID uuid.UUID, limit int) ([]CalculationRun, error) {
	var runs []CalculationRun
	err := c.DB.Where("network_id = ?", networkID.String()).
		Order("run_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("error querying calculation runs: %w", err)
	}
	return runs, nil
}
