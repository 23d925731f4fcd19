package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/granjadata/avicola_backend/config"
	"github.com/granjadata/avicola_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WeeklyFollowUp is one week of observations for a broiler batch. Uniqueness
// per (batch, week) is a convention the callers keep, not a constraint here.
type WeeklyFollowUp struct {
	ID              string           `gorm:"type:char(36);primaryKey" json:"id"`
	BroilerBatchID  string           `gorm:"type:char(36);not null;index" json:"broiler_batch_id"`
	WeekNumber      int              `gorm:"not null" json:"week_number"`
	AvgWeightG      *decimal.Decimal `gorm:"type:decimal(10,2)" json:"avg_weight_g,omitempty"`
	WeeklyMortality *int             `json:"weekly_mortality,omitempty"`
	WeeklyFeedKg    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"weekly_feed_kg,omitempty"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (w *WeeklyFollowUp) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

func InsertWeeklyFollowUp(ctx context.Context, row *WeeklyFollowUp) (*WeeklyFollowUp, error) {
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func UpdateWeeklyFollowUp(ctx context.Context, id string, patch map[string]interface{}) (*WeeklyFollowUp, error) {
	db := config.GetDB()
	row, err := utils.FetchByID[WeeklyFollowUp](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(row).Updates(patch).Error; err != nil {
		return nil, err
	}
	return utils.FetchByID[WeeklyFollowUp](ctx, id)
}

func DeleteWeeklyFollowUp(ctx context.Context, id string) (*WeeklyFollowUp, error) {
	db := config.GetDB()
	row, err := utils.FetchByID[WeeklyFollowUp](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListFollowUpsByBatch returns a batch's weekly rows ordered by week ascending.
func ListFollowUpsByBatch(ctx context.Context, broilerBatchId string) ([]WeeklyFollowUp, error) {
	db := config.GetDB()
	var rows []WeeklyFollowUp
	if err := db.WithContext(ctx).
		Where("broiler_batch_id = ?", broilerBatchId).
		Order("week_number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
