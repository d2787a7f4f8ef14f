package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// versionedUpdate writes every column of entity, guarded by the row
// version the entity was loaded with. rowVersion must point at the
// entity's RowVersion field; it is bumped before the write so the new
// value lands in the row, and restored when the write does not stick.
// A guard miss means another writer got there first and surfaces as
// ErrVersionConflict.
func versionedUpdate(db *gorm.DB, model interface{}, id uuid.UUID, rowVersion *int, entity interface{}) error {
	prev := *rowVersion
	*rowVersion = prev + 1

	res := db.Model(model).
		Where("id = ? AND row_version = ?", id, prev).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(entity)
	if res.Error != nil {
		*rowVersion = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		*rowVersion = prev
		return ErrVersionConflict
	}
	return nil
}
