package repository

import (
	"context"

	"github.com/fadilmartias/resume-parser/internal/model"
	"gorm.io/gorm"
)

// transition applies updates to the row identified by id only while its
// status is one of from. It reports whether the row moved.
func transition(ctx context.Context, db *gorm.DB, table any, id any, from []model.JobStatus, updates map[string]any) (bool, error) {
	res := db.WithContext(ctx).
		Model(table).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func failUnfinished(ctx context.Context, db *gorm.DB, table any, message string) (int64, error) {
	res := db.WithContext(ctx).
		Model(table).
		Where("status IN ?", []model.JobStatus{model.StatusPending, model.StatusProcessing}).
		Updates(map[string]any{
			"status":        model.StatusError,
			"progress":      0,
			"error_message": message,
		})
	return res.RowsAffected, res.Error
}
