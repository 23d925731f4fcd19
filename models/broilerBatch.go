package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/granjadata/avicola_backend/config"
	"github.com/granjadata/avicola_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type BroilerBatch struct {
	ID              string           `gorm:"type:char(36);primaryKey" json:"id"`
	ShedID          string           `gorm:"type:char(36);not null" json:"shed_id"`
	StartDate       string           `gorm:"size:10;not null" json:"start_date"`
	IncomingCount   int              `gorm:"not null" json:"incoming_count"`
	State           BatchState       `gorm:"size:20;not null;default:active" json:"state"`
	SlaughterDate   *string          `gorm:"size:10" json:"slaughter_date,omitempty"`
	EfficiencyIndex *decimal.Decimal `gorm:"type:decimal(10,2)" json:"efficiency_index,omitempty"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	Shed *Shed `gorm:"foreignKey:ShedID" json:"shed,omitempty"`
}

func (b *BroilerBatch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.State == "" {
		b.State = BatchStateActive
	}
	return nil
}

func CreateBroilerBatch(ctx context.Context, batch *BroilerBatch) (*BroilerBatch, error) {
	db := config.GetDB()
	if err := db.WithContext(ctx).Omit("Shed").Create(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

// UpdateBroilerBatch applies a partial patch by id. A finished batch never goes
// back to active; that transition is unsupported.
func UpdateBroilerBatch(ctx context.Context, id string, patch map[string]interface{}) (*BroilerBatch, error) {
	db := config.GetDB()
	batch, err := utils.FetchByID[BroilerBatch](ctx, id)
	if err != nil {
		return nil, err
	}
	if next, ok := patch["state"]; ok && batch.State == BatchStateFinished {
		if s, isStr := next.(string); isStr && BatchState(s) == BatchStateActive {
			return nil, errors.New("broiler batch is already finished and cannot go back to active")
		}
	}
	if err := db.WithContext(ctx).Model(batch).Omit("Shed").Updates(patch).Error; err != nil {
		return nil, err
	}
	return utils.FetchByID[BroilerBatch](ctx, id)
}

// FinalizeBroilerBatch marks a batch finished and records the slaughter date.
// It is by contract equivalent to UpdateBroilerBatch with those two fields.
// A best-effort redis lock serializes concurrent finalizations of one batch;
// the database remains the source of truth if the lock is unavailable.
func FinalizeBroilerBatch(ctx context.Context, id string, slaughterDate string) (*BroilerBatch, error) {
	logger := config.GetLogger()

	if redisLock := config.GetRedisLock(); redisLock != nil {
		lock, err := redisLock.Obtain(ctx, "lock:broiler_batch:"+id, 10*time.Second, nil)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"field":            "FinalizeBroilerBatch",
				"broiler_batch_id": id,
			}).Warn("could not obtain redis lock; proceeding without redis lock")
		} else {
			defer func() {
				if releaseErr := lock.Release(ctx); releaseErr != nil {
					logger.WithFields(logrus.Fields{
						"field":            "FinalizeBroilerBatch",
						"broiler_batch_id": id,
					}).Warn("failed to release redis lock: " + releaseErr.Error())
				}
			}()
		}
	}

	batch, err := utils.FetchByID[BroilerBatch](ctx, id)
	if err != nil {
		return nil, err
	}
	if batch.State == BatchStateFinished {
		return nil, errors.New("broiler batch is already finished")
	}
	return UpdateBroilerBatch(ctx, id, FinalizePatch(slaughterDate))
}

// FinalizePatch is the exact patch finalization applies. Exposed so the
// finalize-equals-update contract is a single definition, not a convention.
func FinalizePatch(slaughterDate string) map[string]interface{} {
	return map[string]interface{}{
		"state":          string(BatchStateFinished),
		"slaughter_date": slaughterDate,
	}
}

// ListBroilerBatches returns batches ordered by start date descending.
// shedId, state and farmId filters are optional.
func ListBroilerBatches(ctx context.Context, shedId string, state string, farmId string) ([]BroilerBatch, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Shed").Preload("Shed.Farm").Order("start_date DESC")
	if shedId != "" {
		dbCtx = dbCtx.Where("shed_id = ?", shedId)
	}
	if state != "" {
		dbCtx = dbCtx.Where("state = ?", state)
	}
	if farmId != "" {
		dbCtx = dbCtx.Where("shed_id IN (?)",
			db.WithContext(ctx).Model(&Shed{}).Select("id").Where("farm_id = ?", farmId))
	}
	var batches []BroilerBatch
	if err := dbCtx.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func GetBroilerBatch(ctx context.Context, id string) (*BroilerBatch, error) {
	return utils.FetchByID[BroilerBatch](ctx, id)
}

func DeleteBroilerBatch(ctx context.Context, id string) (*BroilerBatch, error) {
	db := config.GetDB()
	batch, err := utils.FetchByID[BroilerBatch](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}
