package gormstore

import (
	"context"
	"time"

	"github.com/HoneyBadgered/alchemy-sub004/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type pointsRepo struct {
	db *gorm.DB
}

func (r pointsRepo) GetPoints(ctx context.Context, userID uint) (*models.RewardPoints, error) {
	var points models.RewardPoints
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&points).Error; err != nil {
		return nil, translate(err)
	}
	return &points, nil
}

func (r pointsRepo) GetOrCreatePoints(ctx context.Context, userID uint) (*models.RewardPoints, error) {
	// DoNothing on the user_id conflict so two first-touch requests cannot
	// race the insert; the re-read returns whichever row won.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&models.RewardPoints{
			UserID:        userID,
			Tier:          "Novice",
			TierUpdatedAt: time.Now().UTC(),
		}).Error
	if err != nil {
		return nil, err
	}
	return r.GetPoints(ctx, userID)
}

func (r pointsRepo) AddPoints(ctx context.Context, userID uint, points int) (*models.RewardPoints, error) {
	err := r.db.WithContext(ctx).Model(&models.RewardPoints{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":         gorm.Expr("balance + ?", points),
			"lifetime_earned": gorm.Expr("lifetime_earned + ?", points),
		}).Error
	if err != nil {
		return nil, err
	}
	return r.GetPoints(ctx, userID)
}

func (r pointsRepo) DeductPoints(ctx context.Context, userID uint, points int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.RewardPoints{}).
		Where("user_id = ? AND balance >= ?", userID, points).
		Update("balance", gorm.Expr("balance - ?", points))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r pointsRepo) SetTier(ctx context.Context, userID uint, tier string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.RewardPoints{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"tier": tier, "tier_updated_at": at}).Error
}

func (r pointsRepo) AppendHistory(ctx context.Context, entry *models.RewardHistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r pointsRepo) History(ctx context.Context, userID uint, offset, limit int) ([]models.RewardHistoryEntry, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.RewardHistoryEntry{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var entries []models.RewardHistoryEntry
	err = r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	return entries, total, err
}

type catalogRepo struct {
	db *gorm.DB
}

func (r catalogRepo) ListActiveRewards(ctx context.Context) ([]models.Reward, error) {
	var rewards []models.Reward
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("points_cost ASC, id ASC").
		Find(&rewards).Error
	return rewards, err
}

func (r catalogRepo) GetReward(ctx context.Context, rewardID uint) (*models.Reward, error) {
	var reward models.Reward
	if err := r.db.WithContext(ctx).First(&reward, rewardID).Error; err != nil {
		return nil, translate(err)
	}
	return &reward, nil
}

func (r catalogRepo) DecrementStock(ctx context.Context, rewardID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Reward{}).
		Where("id = ? AND stock IS NOT NULL AND stock > 0", rewardID).
		Update("stock", gorm.Expr("stock - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
