package models

import (
	"context"
	"strings"
	"time"

	"github.com/granjadata/avicola_backend/config"
)

// BreederBatch carries a caller-supplied text id (e.g. "REP-001").
type BreederBatch struct {
	ID            string    `gorm:"size:64;primaryKey" json:"id"`
	FarmID        string    `gorm:"type:char(36);not null" json:"farm_id"`
	GeneticLineID string    `gorm:"type:char(36);not null" json:"genetic_line_id"`
	BirthDate     string    `gorm:"size:10;not null" json:"birth_date"`
	InitialCount  int       `gorm:"not null" json:"initial_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	GeneticLine *GeneticLine `gorm:"foreignKey:GeneticLineID" json:"genetic_line,omitempty"`
}

func CreateBreederBatch(ctx context.Context, batch *BreederBatch) (*BreederBatch, error) {
	db := config.GetDB()
	if err := db.WithContext(ctx).Omit("GeneticLine").Create(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

// ListBreederBatches returns batches ordered by id ascending. q filters by
// partial id match; farmId and geneticLineId scope the listing. All optional.
func ListBreederBatches(ctx context.Context, q string, farmId string, geneticLineId string) ([]BreederBatch, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("GeneticLine").Order("id ASC")
	if farmId != "" {
		dbCtx = dbCtx.Where("farm_id = ?", farmId)
	}
	if geneticLineId != "" {
		dbCtx = dbCtx.Where("genetic_line_id = ?", geneticLineId)
	}
	if s := strings.TrimSpace(q); s != "" {
		dbCtx = dbCtx.Where("LOWER(id) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	var batches []BreederBatch
	if err := dbCtx.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}
