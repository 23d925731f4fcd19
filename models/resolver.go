package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/granjadata/avicola_backend/config"
)

// ReferenceNotFoundError reports a by-name lookup that matched zero rows.
// Its message is user-facing and names the missing entity.
type ReferenceNotFoundError struct {
	Kind  string
	Query string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("no %s found matching %q", e.Kind, e.Query)
}

// NameRef is a minimal (id, name) projection used by the by-name lookups.
type NameRef struct {
	ID   string
	Name string
}

// PickFirstByName is the resolver's tie-break: when several records match a
// query, the winner is the first in ascending name order, comparing
// case-insensitively and falling back to byte order on equal folds. This is a
// documented policy, not a relevance ranking.
func PickFirstByName(refs []NameRef) (NameRef, bool) {
	if len(refs) == 0 {
		return NameRef{}, false
	}
	first := refs[0]
	for _, r := range refs[1:] {
		a, b := strings.ToLower(r.Name), strings.ToLower(first.Name)
		if a < b || (a == b && r.Name < first.Name) {
			first = r
		}
	}
	return first, true
}

// ResolveFarmIDByName resolves a farm by case-insensitive partial name match.
func ResolveFarmIDByName(ctx context.Context, name string) (string, error) {
	db := config.GetDB()
	var refs []NameRef
	if err := db.WithContext(ctx).Model(&Farm{}).
		Select("id", "name").
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("name ASC").
		Limit(config.SearchLimit).
		Find(&refs).Error; err != nil {
		return "", err
	}
	ref, ok := PickFirstByName(refs)
	if !ok {
		return "", &ReferenceNotFoundError{Kind: "farm", Query: name}
	}
	return ref.ID, nil
}

// ResolveGeneticLineIDByName resolves a genetic line by case-insensitive
// partial name match.
func ResolveGeneticLineIDByName(ctx context.Context, name string) (string, error) {
	db := config.GetDB()
	var refs []NameRef
	if err := db.WithContext(ctx).Model(&GeneticLine{}).
		Select("id", "name").
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("name ASC").
		Limit(config.SearchLimit).
		Find(&refs).Error; err != nil {
		return "", err
	}
	ref, ok := PickFirstByName(refs)
	if !ok {
		return "", &ReferenceNotFoundError{Kind: "genetic line", Query: name}
	}
	return ref.ID, nil
}

// ResolveShedID resolves a shed by exact code within one farm.
func ResolveShedID(ctx context.Context, farmId string, code string) (string, error) {
	db := config.GetDB()
	var refs []NameRef
	if err := db.WithContext(ctx).Model(&Shed{}).
		Select("id", "code AS name").
		Where("farm_id = ? AND code = ?", farmId, code).
		Order("code ASC").
		Limit(config.SearchLimit).
		Find(&refs).Error; err != nil {
		return "", err
	}
	ref, ok := PickFirstByName(refs)
	if !ok {
		return "", &ReferenceNotFoundError{Kind: "shed", Query: code}
	}
	return ref.ID, nil
}
