package utils

import (
	"context"

	"github.com/granjadata/avicola_backend/config"
)

/* DB fetching */

// fetch model from db by primary key
// (may return RecordNotFound)
func FetchByID[T any](ctx context.Context, id any) (*T, error) {

	db := config.GetDB()
	var result T
	err := db.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}
