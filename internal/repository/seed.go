package repository

import (
	"fmt"
	"math/rand"
	"time"

	"farm-analytics/internal/model"

	"gorm.io/gorm"
)

// SeedRepository handles database seeding operations
type SeedRepository struct {
	db *gorm.DB
}

// NewSeedRepository creates a new seed repository
func NewSeedRepository(db *gorm.DB) *SeedRepository {
	return &SeedRepository{db: db}
}

// SeedDatabase seeds the database with farm entities, three years of
// measurements and a price history, so every report has data to chew on.
func (s *SeedRepository) SeedDatabase() error {
	if err := s.clearExistingData(); err != nil {
		return fmt.Errorf("failed to clear existing data: %w", err)
	}

	entities, err := s.createEntities()
	if err != nil {
		return fmt.Errorf("failed to create farm entities: %w", err)
	}

	totalRecords, err := s.createMeasurements(entities)
	if err != nil {
		return fmt.Errorf("failed to create measurements: %w", err)
	}

	prices, err := s.createPriceHistory()
	if err != nil {
		return fmt.Errorf("failed to create price history: %w", err)
	}

	fmt.Printf("✓ Seeded database successfully:\n")
	fmt.Printf("  - Farm entities: %d\n", len(entities))
	fmt.Printf("  - Measurements: %d\n", totalRecords)
	fmt.Printf("  - Price records: %d\n", prices)

	return nil
}

// clearExistingData removes existing data
func (s *SeedRepository) clearExistingData() error {
	if err := s.db.Exec("TRUNCATE TABLE measurements CASCADE").Error; err != nil {
		return err
	}
	if err := s.db.Exec("TRUNCATE TABLE farm_entities CASCADE").Error; err != nil {
		return err
	}
	if err := s.db.Exec("TRUNCATE TABLE price_records CASCADE").Error; err != nil {
		return err
	}
	return nil
}

// createEntities creates cattle and plot entities for two owners
func (s *SeedRepository) createEntities() ([]model.FarmEntity, error) {
	entities := []model.FarmEntity{}

	for owner := uint(1); owner <= 2; owner++ {
		for i := 1; i <= 5; i++ {
			entities = append(entities, model.FarmEntity{
				OwnerID: owner,
				Name:    fmt.Sprintf("Steer %d-%d", owner, i),
				Kind:    "animal",
				Status:  "active",
			})
		}
		entities = append(entities, model.FarmEntity{
			OwnerID: owner,
			Name:    fmt.Sprintf("Dairy lot %d", owner),
			Kind:    "cattle_lot",
			Status:  "active",
		})
		entities = append(entities, model.FarmEntity{
			OwnerID: owner,
			Name:    fmt.Sprintf("Flower plot %d", owner),
			Kind:    "plot",
			Status:  "active",
		})
	}

	if err := s.db.Create(&entities).Error; err != nil {
		return nil, err
	}

	return entities, nil
}

// createMeasurements generates three years of data: monthly weighings
// for animals, daily milk volumes for dairy lots, weekly harvest counts
// for plots.
func (s *SeedRepository) createMeasurements(entities []model.FarmEntity) (int, error) {
	startDate := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	totalRecords := 0
	batchSize := 100
	batch := []model.Measurement{}

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.db.Create(&batch).Error; err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for _, entity := range entities {
		switch entity.Kind {
		case "animal":
			// Start weight 300-400 kg, gain roughly 0.5-1.1 kg/day.
			weight := 300.0 + rng.Float64()*100.0
			gainPerDay := 0.5 + rng.Float64()*0.6
			for day := startDate; !day.After(endDate); day = day.AddDate(0, 1, 0) {
				weight += gainPerDay * 30.0 * (0.8 + rng.Float64()*0.4)
				batch = append(batch, model.Measurement{
					FarmEntityID: entity.ID,
					OwnerID:      entity.OwnerID,
					OccurredOn:   day,
					Value:        weight,
					Unit:         "kg",
				})
				totalRecords++
			}
		case "cattle_lot":
			for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
				volume := 4500.0 + rng.Float64()*1500.0
				batch = append(batch, model.Measurement{
					FarmEntityID: entity.ID,
					OwnerID:      entity.OwnerID,
					OccurredOn:   day,
					Value:        volume,
					Unit:         "l",
				})
				totalRecords++
			}
		case "plot":
			for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 7) {
				batch = append(batch, model.Measurement{
					FarmEntityID: entity.ID,
					OwnerID:      entity.OwnerID,
					OccurredOn:   day,
					Value:        float64(rng.Intn(400) + 100),
					Unit:         "stems",
				})
				totalRecords++
			}
		}

		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return 0, fmt.Errorf("failed to create measurement batch: %w", err)
			}
		}
	}

	if err := flush(); err != nil {
		return 0, fmt.Errorf("failed to create final measurement batch: %w", err)
	}

	return totalRecords, nil
}

// createPriceHistory creates one price record per month for the last six
// periods.
func (s *SeedRepository) createPriceHistory() (int, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()

	records := []model.PriceRecord{}
	for i := 5; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		base := 2.30 + rng.Float64()*0.50
		pct := 0.10 + rng.Float64()*0.10
		records = append(records, model.PriceRecord{
			Period:        month.Format("2006-01"),
			EffectiveFrom: month,
			BaseValue:     base,
			AdjustmentPct: pct,
			DerivedValue:  base * (1 - pct),
		})
	}

	if err := s.db.Create(&records).Error; err != nil {
		return 0, err
	}

	return len(records), nil
}
