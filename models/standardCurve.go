package models

import (
	"context"
	"errors"

	"github.com/granjadata/avicola_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StandardCurvePoint is read-only reference data keyed by (genetic line, age).
type StandardCurvePoint struct {
	GeneticLineID        string           `gorm:"type:char(36);primaryKey" json:"genetic_line_id"`
	AgeInDays            int              `gorm:"primaryKey;autoIncrement:false" json:"age_in_days"`
	ExpectedWeightG      *decimal.Decimal `gorm:"type:decimal(10,2)" json:"expected_weight_g,omitempty"`
	ExpectedMortalityPct *decimal.Decimal `gorm:"type:decimal(5,2)" json:"expected_mortality_pct,omitempty"`
}

// GetStandardCurvePoint returns nil without error when no row exists; the
// caller decides how to present an empty curve.
func GetStandardCurvePoint(ctx context.Context, geneticLineId string, ageInDays int) (*StandardCurvePoint, error) {
	db := config.GetDB()
	var point StandardCurvePoint
	err := db.WithContext(ctx).
		Where("genetic_line_id = ? AND age_in_days = ?", geneticLineId, ageInDays).
		First(&point).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &point, nil
}
