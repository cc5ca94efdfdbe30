// services/rewards_service.go - Loyalty points ledger and catalog redemption.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/HoneyBadgered/alchemy-sub004/apperr"
	"github.com/HoneyBadgered/alchemy-sub004/models"
	"github.com/HoneyBadgered/alchemy-sub004/store"
)

type RewardsService struct {
	store    store.Store
	notifier Notifier
	now      func() time.Time
}

func NewRewardsService(st store.Store, notifier Notifier) *RewardsService {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &RewardsService{
		store:    st,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type PointsView struct {
	Balance        int `json:"balance"`
	LifetimeEarned int `json:"lifetime_earned"`
	TierInfo
}

type AddPointsResult struct {
	PointsAdded int    `json:"points_added"`
	TierUpdated bool   `json:"tier_updated"`
	Tier        string `json:"tier"`
	Balance     int    `json:"balance"`
}

type DeductPointsResult struct {
	PointsDeducted int `json:"points_deducted"`
	Balance        int `json:"balance"`
}

type AvailableReward struct {
	models.Reward
	CanRedeem bool `json:"can_redeem"`
}

type RedemptionResult struct {
	Success     bool           `json:"success"`
	PointsSpent int            `json:"points_spent"`
	Reward      *models.Reward `json:"reward"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type HistoryPage struct {
	History    []models.RewardHistoryEntry `json:"history"`
	Pagination Pagination                  `json:"pagination"`
}

// GetRewardPoints lazily creates a zero-state ledger and reports it along
// with tier ladder placement.
func (s *RewardsService) GetRewardPoints(ctx context.Context, userID uint) (*PointsView, error) {
	points, err := s.store.Points().GetOrCreatePoints(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &PointsView{
		Balance:        points.Balance,
		LifetimeEarned: points.LifetimeEarned,
		TierInfo:       GetTierInfo(points.LifetimeEarned),
	}, nil
}

func (s *RewardsService) GetRewardHistory(ctx context.Context, userID uint, page, perPage int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	entries, total, err := s.store.Points().History(ctx, userID, (page-1)*perPage, perPage)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &HistoryPage{
		History: entries,
		Pagination: Pagination{
			Page:       page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// AddPoints credits the ledger, recomputes the tier, and appends an audit
// entry in one atomic unit.
func (s *RewardsService) AddPoints(ctx context.Context, userID uint, points int, description string, orderID *string) (*AddPointsResult, error) {
	if points <= 0 {
		return nil, apperr.Validation("points must be positive")
	}

	var result AddPointsResult
	err := s.store.Atomically(ctx, func(uow store.UnitOfWork) error {
		outcome, err := earnPoints(ctx, uow, userID, points, description, orderID, s.now())
		if err != nil {
			return err
		}
		result = AddPointsResult{
			PointsAdded: points,
			TierUpdated: outcome.TierUpdated,
			Tier:        outcome.Tier,
			Balance:     outcome.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.TierUpdated {
		s.notifier.Publish(ProgressionEvent{Type: EventTierUp, UserID: userID, Tier: result.Tier})
	}
	return &result, nil
}

// DeductPoints spends from the balance. Lifetime earned is untouched:
// spending is not un-earning, so the tier never moves here.
func (s *RewardsService) DeductPoints(ctx context.Context, userID uint, points int, description string) (*DeductPointsResult, error) {
	if points <= 0 {
		return nil, apperr.Validation("points must be positive")
	}

	var result DeductPointsResult
	err := s.store.Atomically(ctx, func(uow store.UnitOfWork) error {
		if _, err := uow.Points().GetOrCreatePoints(ctx, userID); err != nil {
			return apperr.Internal(err)
		}

		ok, err := uow.Points().DeductPoints(ctx, userID, points)
		if err != nil {
			return apperr.Internal(err)
		}
		if !ok {
			return apperr.InsufficientBalance("insufficient points balance")
		}

		entry := &models.RewardHistoryEntry{
			UserID:      userID,
			Type:        models.RewardHistoryRedeemed,
			Points:      -points,
			Description: description,
			CreatedAt:   s.now(),
		}
		if err := uow.Points().AppendHistory(ctx, entry); err != nil {
			return apperr.Internal(err)
		}

		after, err := uow.Points().GetPoints(ctx, userID)
		if err != nil {
			return apperr.Internal(err)
		}
		result = DeductPointsResult{PointsDeducted: points, Balance: after.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAvailableRewards is read-only: every active catalog entry plus whether
// this player can redeem it right now.
func (s *RewardsService) GetAvailableRewards(ctx context.Context, userID uint) ([]AvailableReward, error) {
	points, err := s.store.Points().GetOrCreatePoints(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	rewards, err := s.store.Catalog().ListActiveRewards(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	out := make([]AvailableReward, 0, len(rewards))
	for _, reward := range rewards {
		// An unrecognized minimum tier gates everyone out rather than
		// nobody; rank -1 must never read as "below every player".
		minRank := TierRank(reward.MinimumTier)
		canRedeem := minRank >= 0 &&
			points.Balance >= reward.PointsCost &&
			TierRank(points.Tier) >= minRank
		out = append(out, AvailableReward{Reward: reward, CanRedeem: canRedeem})
	}
	return out, nil
}

// RedeemReward deducts the cost, takes one unit of stock, and writes the
// audit entry as one atomic unit. The stock and balance guards run inside
// the same unit, so two racing redemptions of the last unit cannot both win.
func (s *RewardsService) RedeemReward(ctx context.Context, userID uint, rewardID uint) (*RedemptionResult, error) {
	var result RedemptionResult
	err := s.store.Atomically(ctx, func(uow store.UnitOfWork) error {
		reward, err := uow.Catalog().GetReward(ctx, rewardID)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("reward not found")
		}
		if err != nil {
			return apperr.Internal(err)
		}
		if !reward.IsActive {
			return apperr.NotFound("reward not found")
		}

		if reward.Stock != nil && *reward.Stock <= 0 {
			return apperr.OutOfStock("reward is out of stock")
		}

		points, err := uow.Points().GetOrCreatePoints(ctx, userID)
		if err != nil {
			return apperr.Internal(err)
		}
		if points.Balance < reward.PointsCost {
			return apperr.InsufficientBalance("insufficient points balance")
		}
		minRank := TierRank(reward.MinimumTier)
		if minRank < 0 || TierRank(points.Tier) < minRank {
			return apperr.TierTooLow("requires %s tier", reward.MinimumTier)
		}

		ok, err := uow.Points().DeductPoints(ctx, userID, reward.PointsCost)
		if err != nil {
			return apperr.Internal(err)
		}
		if !ok {
			return apperr.InsufficientBalance("insufficient points balance")
		}

		if reward.Stock != nil {
			ok, err := uow.Catalog().DecrementStock(ctx, rewardID)
			if err != nil {
				return apperr.Internal(err)
			}
			if !ok {
				return apperr.OutOfStock("reward is out of stock")
			}
			remaining := *reward.Stock - 1
			reward.Stock = &remaining
		}

		entry := &models.RewardHistoryEntry{
			UserID:      userID,
			Type:        models.RewardHistoryRedeemed,
			Points:      -reward.PointsCost,
			Description: "Redeemed: " + reward.Name,
			CreatedAt:   s.now(),
		}
		if err := uow.Points().AppendHistory(ctx, entry); err != nil {
			return apperr.Internal(err)
		}

		result = RedemptionResult{Success: true, PointsSpent: reward.PointsCost, Reward: reward}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type earnOutcome struct {
	Balance        int
	LifetimeEarned int
	Tier           string
	TierUpdated    bool
}

// earnPoints credits the ledger inside an already-open unit of work and
// recomputes the tier from the post-increment lifetime total. Shared by
// AddPoints and the daily check-in.
func earnPoints(ctx context.Context, uow store.UnitOfWork, userID uint, points int, description string, orderID *string, now time.Time) (*earnOutcome, error) {
	before, err := uow.Points().GetOrCreatePoints(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	after, err := uow.Points().AddPoints(ctx, userID, points)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	newTier := TierForPoints(after.LifetimeEarned)
	tierUpdated := newTier != before.Tier
	if tierUpdated {
		if err := uow.Points().SetTier(ctx, userID, newTier, now); err != nil {
			return nil, apperr.Internal(err)
		}
	}

	entry := &models.RewardHistoryEntry{
		UserID:      userID,
		Type:        models.RewardHistoryEarned,
		Points:      points,
		Description: description,
		OrderID:     orderID,
		CreatedAt:   now,
	}
	if err := uow.Points().AppendHistory(ctx, entry); err != nil {
		return nil, apperr.Internal(err)
	}

	return &earnOutcome{
		Balance:        after.Balance,
		LifetimeEarned: after.LifetimeEarned,
		Tier:           newTier,
		TierUpdated:    tierUpdated,
	}, nil
}
