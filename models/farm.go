package models

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/granjadata/avicola_backend/config"
	"github.com/granjadata/avicola_backend/utils"
	"gorm.io/gorm"
)

type Farm struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null;uniqueIndex" json:"name"`
	Location  *string   `gorm:"size:255" json:"location,omitempty"`
	Type      *FarmType `gorm:"size:20" json:"type,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (f *Farm) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

func CreateFarm(ctx context.Context, farm *Farm) (*Farm, error) {
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(farm).Error; err != nil {
		return nil, err
	}
	return farm, nil
}

func UpdateFarm(ctx context.Context, id string, patch map[string]interface{}) (*Farm, error) {
	db := config.GetDB()
	farm, err := utils.FetchByID[Farm](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(farm).Updates(patch).Error; err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(farmNameCacheKey(id))
	return utils.FetchByID[Farm](ctx, id)
}

// ListFarms returns farms ordered by name ascending, optionally filtered by a
// case-insensitive partial name match.
func ListFarms(ctx context.Context, q string) ([]Farm, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Order("name ASC")
	if s := strings.TrimSpace(q); s != "" {
		dbCtx = dbCtx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	var farms []Farm
	if err := dbCtx.Find(&farms).Error; err != nil {
		return nil, err
	}
	return farms, nil
}

func GetFarm(ctx context.Context, id string) (*Farm, error) {
	return utils.FetchByID[Farm](ctx, id)
}

const farmNameCacheTTL = 10 * time.Minute

func farmNameCacheKey(id string) string {
	return "farm_name:" + id
}

// GetFarmName is a best-effort display lookup used by the describe flow. Names
// are cached in redis since describe may hit the same farm repeatedly.
func GetFarmName(ctx context.Context, id string) (string, bool) {
	var cached string
	if hit, err := config.GetRedisObject(farmNameCacheKey(id), &cached); err == nil && hit {
		return cached, true
	}
	if config.GetDB() == nil {
		return "", false
	}
	farm, err := GetFarm(ctx, id)
	if err != nil {
		return "", false
	}
	_ = config.SetRedisObject(farmNameCacheKey(id), farm.Name, farmNameCacheTTL)
	return farm.Name, true
}

func DeleteFarm(ctx context.Context, id string) (*Farm, error) {
	db := config.GetDB()
	farm, err := utils.FetchByID[Farm](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(farm).Error; err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(farmNameCacheKey(id))
	return farm, nil
}
