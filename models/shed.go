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

type Shed struct {
	ID        string     `gorm:"type:char(36);primaryKey" json:"id"`
	FarmID    string     `gorm:"type:char(36);not null;uniqueIndex:idx_sheds_farm_code" json:"farm_id"`
	Code      string     `gorm:"size:50;not null;uniqueIndex:idx_sheds_farm_code" json:"code"`
	Capacity  *int       `json:"capacity,omitempty"`
	State     *ShedState `gorm:"size:20" json:"state,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Farm *Farm `gorm:"foreignKey:FarmID" json:"farm,omitempty"`
}

func (s *Shed) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func CreateShed(ctx context.Context, shed *Shed) (*Shed, error) {
	db := config.GetDB()
	if err := db.WithContext(ctx).Omit("Farm").Create(shed).Error; err != nil {
		return nil, err
	}
	return shed, nil
}

func UpdateShed(ctx context.Context, id string, patch map[string]interface{}) (*Shed, error) {
	db := config.GetDB()
	shed, err := GetShed(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(shed).Omit("Farm").Updates(patch).Error; err != nil {
		return nil, err
	}
	return GetShed(ctx, id)
}

// ListSheds returns sheds ordered by code ascending. q filters by partial code
// match; farmId scopes to one farm. Both are optional.
func ListSheds(ctx context.Context, q string, farmId string) ([]Shed, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Farm").Order("code ASC")
	if farmId != "" {
		dbCtx = dbCtx.Where("farm_id = ?", farmId)
	}
	if s := strings.TrimSpace(q); s != "" {
		dbCtx = dbCtx.Where("LOWER(code) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	var sheds []Shed
	if err := dbCtx.Find(&sheds).Error; err != nil {
		return nil, err
	}
	return sheds, nil
}

func GetShed(ctx context.Context, id string) (*Shed, error) {
	return utils.FetchByID[Shed](ctx, id)
}

func DeleteShed(ctx context.Context, id string) (*Shed, error) {
	db := config.GetDB()
	shed, err := GetShed(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(shed).Error; err != nil {
		return nil, err
	}
	return shed, nil
}
