package models

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/granjadata/avicola_backend/config"
	"gorm.io/gorm"
)

// GeneticLine is reference data (Ross, Cobb, ...). The pipeline only ever
// creates and lists these; there is no update or delete path.
type GeneticLine struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (g *GeneticLine) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

func CreateGeneticLine(ctx context.Context, line *GeneticLine) (*GeneticLine, error) {
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// ListGeneticLines returns lines ordered by name ascending, optionally filtered
// by a case-insensitive partial name match.
func ListGeneticLines(ctx context.Context, q string) ([]GeneticLine, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Order("name ASC")
	if s := strings.TrimSpace(q); s != "" {
		dbCtx = dbCtx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	var lines []GeneticLine
	if err := dbCtx.Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
