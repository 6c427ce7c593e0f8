package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FarmEntity is anything measurements are recorded against: an animal,
// a cattle lot, or a cultivated plot.
type FarmEntity struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	OwnerID uint   `gorm:"not null;index" json:"owner_id"`
	Name    string `gorm:"size:255" json:"name"`
	Kind    string `gorm:"size:50" json:"kind"` // animal, cattle_lot or plot
	Status  string `gorm:"size:50;default:'active'" json:"status"`

	Measurements []Measurement `gorm:"foreignKey:FarmEntityID;constraint:OnDelete:CASCADE" json:"measurements,omitempty"`
}

// TableName specifies the table name for FarmEntity
func (FarmEntity) TableName() string {
	return "farm_entities"
}

// Measurement is one raw observation: a weight reading, a day's milk
// volume, a financial entry. The reporting core never mutates these.
type Measurement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Composite indexes cover the two dominant report filters:
	// per-entity series and owner-wide windows.
	FarmEntityID uint      `gorm:"not null;index:idx_entity_occurred,priority:1" json:"entity_id"`
	OwnerID      uint      `gorm:"not null;index:idx_owner_occurred,priority:1" json:"owner_id"`
	OccurredOn   time.Time `gorm:"not null;index:idx_entity_occurred,priority:2;index:idx_owner_occurred,priority:2" json:"occurred_on"`

	Value    float64           `gorm:"type:decimal(12,3);not null" json:"value"`
	Unit     string            `gorm:"size:20" json:"unit"`
	Metadata datatypes.JSONMap `json:"metadata,omitempty"`

	Entity FarmEntity `gorm:"foreignKey:FarmEntityID" json:"entity,omitempty"`
}

// TableName specifies the table name for Measurement
func (Measurement) TableName() string {
	return "measurements"
}

// PriceRecord stores the pricing applied during one calendar month.
// The unique index on Period guarantees at most one row per period,
// including under concurrent writers. DerivedValue is recomputed from
// its inputs on every write and never stored independently of them.
type PriceRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Period        string    `gorm:"size:7;not null;uniqueIndex" json:"period"` // YYYY-MM
	EffectiveFrom time.Time `gorm:"not null" json:"effective_from"`
	BaseValue     float64   `gorm:"type:decimal(10,4);not null" json:"base_value"`
	AdjustmentPct float64   `gorm:"type:decimal(5,4);not null" json:"adjustment_pct"`
	DerivedValue  float64   `gorm:"type:decimal(10,4);not null" json:"derived_value"`
}

// TableName specifies the table name for PriceRecord
func (PriceRecord) TableName() string {
	return "price_records"
}

// AutoMigrate creates or updates the schema for all reporting tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&FarmEntity{}, &Measurement{}, &PriceRecord{})
}
