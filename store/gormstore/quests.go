package gormstore

import (
	"context"
	"time"

	"github.com/HoneyBadgered/alchemy-sub004/models"

	"gorm.io/gorm"
)

type questRepo struct {
	db *gorm.DB
}

func (r questRepo) ListActiveQuests(ctx context.Context) ([]models.Quest, error) {
	var quests []models.Quest
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Preload("IngredientRewards").
		Preload("CosmeticRewards").
		Order("id ASC").
		Find(&quests).Error
	return quests, err
}

func (r questRepo) GetQuest(ctx context.Context, questID uint) (*models.Quest, error) {
	var quest models.Quest
	err := r.db.WithContext(ctx).
		Preload("IngredientRewards").
		Preload("CosmeticRewards").
		First(&quest, questID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &quest, nil
}

func (r questRepo) ListQuestsByEvent(ctx context.Context, eventType string) ([]models.Quest, error) {
	var quests []models.Quest
	err := r.db.WithContext(ctx).
		Where("event_type = ? AND is_active = ?", eventType, true).
		Preload("IngredientRewards").
		Preload("CosmeticRewards").
		Order("id ASC").
		Find(&quests).Error
	return quests, err
}

func (r questRepo) ListPlayerQuests(ctx context.Context, userID uint) ([]models.PlayerQuest, error) {
	var pqs []models.PlayerQuest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Quest").
		Preload("Quest.IngredientRewards").
		Preload("Quest.CosmeticRewards").
		Order("quest_id ASC").
		Find(&pqs).Error
	return pqs, err
}

func (r questRepo) GetPlayerQuest(ctx context.Context, userID, questID uint) (*models.PlayerQuest, error) {
	var pq models.PlayerQuest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		First(&pq).Error
	if err != nil {
		return nil, translate(err)
	}
	return &pq, nil
}

func (r questRepo) CreatePlayerQuest(ctx context.Context, pq *models.PlayerQuest) error {
	return r.db.WithContext(ctx).Create(pq).Error
}

func (r questRepo) SavePlayerQuest(ctx context.Context, pq *models.PlayerQuest) error {
	return r.db.WithContext(ctx).Save(pq).Error
}

func (r questRepo) MarkClaimed(ctx context.Context, playerQuestID uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.PlayerQuest{}).
		Where("id = ? AND status = ? AND claimed_at IS NULL", playerQuestID, models.QuestStatusCompleted).
		Updates(map[string]interface{}{
			"status":     models.QuestStatusClaimed,
			"claimed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
