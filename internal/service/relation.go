package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The Favorite, ShoppingCart and Subscription relations share one behavior:
// create-if-absent on POST, delete-if-present on DELETE. It is implemented
// once here, parameterized over the join model and its target column, so the
// three relations cannot drift apart.

// joinRow is implemented by join models that encode a (user, target) pair.
type joinRow interface {
	SetPair(owner, target uuid.UUID)
}

// createRelation inserts a (owner, target) join row if none exists. An
// existing row is a conflict with no side effect; the composite unique index
// backstops concurrent duplicates the pre-check does not see.
func createRelation[T any, PT interface {
	*T
	joinRow
}](ctx context.Context, db *gorm.DB, targetCol, conflictMsg string, owner, target uuid.UUID) error {
	var count int64
	err := db.WithContext(ctx).Model(new(T)).
		Where("user_id = ? AND "+targetCol+" = ?", owner, target).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return &ConflictError{Message: conflictMsg}
	}

	row := PT(new(T))
	row.SetPair(owner, target)
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		// A concurrent duplicate that slipped past the pre-check surfaces as a
		// unique violation here; it is the same conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ConflictError{Message: conflictMsg}
		}
		return err
	}
	return nil
}

// deleteRelation removes a (owner, target) join row. Deleting an absent
// relation never succeeds silently.
func deleteRelation[T any](ctx context.Context, db *gorm.DB, targetCol, missingMsg string, owner, target uuid.UUID) error {
	res := db.WithContext(ctx).
		Where("user_id = ? AND "+targetCol+" = ?", owner, target).
		Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Message: missingMsg, Relation: true}
	}
	return nil
}
