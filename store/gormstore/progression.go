package gormstore

import (
	"context"
	"time"

	"github.com/HoneyBadgered/alchemy-sub004/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type progressionRepo struct {
	db *gorm.DB
}

func (r progressionRepo) GetPlayerState(ctx context.Context, userID uint) (*models.PlayerState, error) {
	var state models.PlayerState
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&state).Error; err != nil {
		return nil, translate(err)
	}
	return &state, nil
}

func (r progressionRepo) GetOrCreatePlayerState(ctx context.Context, userID uint) (*models.PlayerState, error) {
	// DoNothing on the user_id conflict so two first-touch requests cannot
	// race the insert; the re-read returns whichever row won.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&models.PlayerState{UserID: userID, Level: 1}).Error
	if err != nil {
		return nil, err
	}
	return r.GetPlayerState(ctx, userID)
}

func (r progressionRepo) AddXP(ctx context.Context, userID uint, xp int) (*models.PlayerState, error) {
	err := r.db.WithContext(ctx).Model(&models.PlayerState{}).
		Where("user_id = ?", userID).
		Update("total_xp", gorm.Expr("total_xp + ?", xp)).Error
	if err != nil {
		return nil, err
	}
	return r.GetPlayerState(ctx, userID)
}

func (r progressionRepo) SetLevel(ctx context.Context, userID uint, level, xpIntoLevel int) error {
	return r.db.WithContext(ctx).Model(&models.PlayerState{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"level": level, "xp": xpIntoLevel}).Error
}

func (r progressionRepo) SetLastLogin(ctx context.Context, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.PlayerState{}).
		Where("user_id = ?", userID).
		Update("last_login_at", at).Error
}

func (r progressionRepo) TouchDailyReward(ctx context.Context, userID uint, streak, longest int, at, dayStart time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.PlayerState{}).
		Where("user_id = ? AND (last_daily_reward_at IS NULL OR last_daily_reward_at < ?)", userID, dayStart).
		Updates(map[string]interface{}{
			"current_streak":       streak,
			"longest_streak":       longest,
			"last_daily_reward_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r progressionRepo) TopByTotalXP(ctx context.Context, limit int) ([]models.PlayerState, error) {
	var states []models.PlayerState
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("total_xp DESC").
		Limit(limit).
		Find(&states).Error
	return states, err
}
