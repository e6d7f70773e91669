package database

import (
	"time"
)

// PipeRecord is the persisted form of a water pipe and its last computed
// hydraulic results.
type PipeRecord struct {
	ID                    string    `gorm:"primaryKey;column:id"`
	Name                  string    `gorm:"column:name;not null"`
	SystemType            string    `gorm:"column:system_type;not null"`
	Material              string    `gorm:"column:material;not null"`
	DiameterMM            float64   `gorm:"column:diameter_mm"`
	LengthMM              float64   `gorm:"column:length_mm"`
	FlowRateLPM           float64   `gorm:"column:flow_rate_lpm"`
	PressureBar           float64   `gorm:"column:pressure_bar"`
	PressureLossBar       float64   `gorm:"column:pressure_loss_bar"`
	VelocityMS            float64   `gorm:"column:velocity_ms"`
	RoughnessCoeff        float64   `gorm:"column:roughness_coeff"`
	InsulationThicknessMM float64   `gorm:"column:insulation_thickness_mm"`
	UpdatedAt             time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for PipeRecord
func (PipeRecord) TableName() string {
	return "pipes"
}

// FixtureRecord is the persisted form of a sanitary fixture
type FixtureRecord struct {
	ID                   string    `gorm:"primaryKey;column:id"`
	Name                 string    `gorm:"column:name;not null"`
	FixtureType          string    `gorm:"column:fixture_type;not null"`
	FixtureUnits         float64   `gorm:"column:fixture_units"`
	FlowRateLPM          float64   `gorm:"column:flow_rate_lpm"`
	WallMounted          bool      `gorm:"column:wall_mounted;default:true"`
	InstallationHeightMM float64   `gorm:"column:installation_height_mm"`
	UpdatedAt            time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for FixtureRecord
func (FixtureRecord) TableName() string {
	return "fixtures"
}

// ValveRecord is the persisted form of a valve
type ValveRecord struct {
	ID                 string    `gorm:"primaryKey;column:id"`
	Name               string    `gorm:"column:name;not null"`
	ValveType          string    `gorm:"column:valve_type;not null"`
	NominalDiameterMM  float64   `gorm:"column:nominal_diameter_mm"`
	WorkingPressureBar float64   `gorm:"column:working_pressure_bar"`
	FlowCoefficientKv  float64   `gorm:"column:flow_coefficient_kv"`
	IsMotorized        bool      `gorm:"column:is_motorized;default:false"`
	ControlSignal      string    `gorm:"column:control_signal"`
	UpdatedAt          time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for ValveRecord
func (ValveRecord) TableName() string {
	return "valves"
}

// CalculationRun records one network-wide hydraulic calculation
type CalculationRun struct {
	ID                   int       `gorm:"primaryKey;autoIncrement;column:id"`
	NetworkID            string    `gorm:"column:network_id;not null"`
	NetworkName          string    `gorm:"column:network_name"`
	PipesCalculated      int       `gorm:"column:pipes_calculated"`
	TotalFlowLPM         float64   `gorm:"column:total_flow_lpm"`
	TotalPressureLossBar float64   `gorm:"column:total_pressure_loss_bar"`
	TotalFixtureUnits    float64   `gorm:"column:total_fixture_units"`
	ProbableDemandLPM    float64   `gorm:"column:probable_demand_lpm"`
	RunAt                time.Time `gorm:"column:run_at;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for CalculationRun
func (CalculationRun) TableName() string {
	return "calculation_runs"
}
