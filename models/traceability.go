package models

import (
	"context"
	"time"

	"github.com/granjadata/avicola_backend/config"
	"github.com/granjadata/avicola_backend/utils"
)

// BroilerTraceabilityLink ties a broiler batch to one of its breeder batches.
type BroilerTraceabilityLink struct {
	BroilerBatchID string    `gorm:"type:char(36);primaryKey" json:"broiler_batch_id"`
	BreederBatchID string    `gorm:"size:64;primaryKey" json:"breeder_batch_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	BreederBatch *BreederBatch `gorm:"foreignKey:BreederBatchID" json:"breeder_batch,omitempty"`
}

func LinkTraceability(ctx context.Context, link *BroilerTraceabilityLink) (*BroilerTraceabilityLink, error) {
	db := config.GetDB()
	if err := db.WithContext(ctx).Omit("BreederBatch").Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

func UnlinkTraceability(ctx context.Context, broilerBatchId string, breederBatchId string) (*BroilerTraceabilityLink, error) {
	db := config.GetDB()
	var link BroilerTraceabilityLink
	if err := db.WithContext(ctx).
		Where("broiler_batch_id = ? AND breeder_batch_id = ?", broilerBatchId, breederBatchId).
		First(&link).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := db.WithContext(ctx).
		Where("broiler_batch_id = ? AND breeder_batch_id = ?", broilerBatchId, breederBatchId).
		Delete(&BroilerTraceabilityLink{}).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func ListTraceabilityByBatch(ctx context.Context, broilerBatchId string) ([]BroilerTraceabilityLink, error) {
	db := config.GetDB()
	var links []BroilerTraceabilityLink
	if err := db.WithContext(ctx).
		Preload("BreederBatch").
		Preload("BreederBatch.GeneticLine").
		Where("broiler_batch_id = ?", broilerBatchId).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
