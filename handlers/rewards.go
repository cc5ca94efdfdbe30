// handlers/rewards.go - Loyalty points and catalog redemption endpoints.
package handlers

import (
	"github.com/HoneyBadgered/alchemy-sub004/middleware"
	"github.com/HoneyBadgered/alchemy-sub004/services"

	"github.com/gofiber/fiber/v2"
)

type RewardsHandler struct {
	rewards *services.RewardsService
}

func NewRewardsHandler(rewards *services.RewardsService) *RewardsHandler {
	return &RewardsHandler{rewards: rewards}
}

func (h *RewardsHandler) GetPoints(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	points, err := h.rewards.GetRewardPoints(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "points": points})
}

func (h *RewardsHandler) GetHistory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", 20)

	history, err := h.rewards.GetRewardHistory(c.Context(), userID, page, perPage)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"history":    history.History,
		"pagination": history.Pagination,
	})
}

type AddPointsRequest struct {
	Points      int     `json:"points"`
	Description string  `json:"description"`
	OrderID     *string `json:"order_id,omitempty"`
}

func (h *RewardsHandler) AddPoints(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req AddPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	result, err := h.rewards.AddPoints(c.Context(), userID, req.Points, req.Description, req.OrderID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"points_added": result.PointsAdded,
		"tier_updated": result.TierUpdated,
		"tier":         result.Tier,
		"balance":      result.Balance,
	})
}

type DeductPointsRequest struct {
	Points      int    `json:"points"`
	Description string `json:"description"`
}

func (h *RewardsHandler) DeductPoints(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req DeductPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	result, err := h.rewards.DeductPoints(c.Context(), userID, req.Points, req.Description)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":         true,
		"points_deducted": result.PointsDeducted,
		"balance":         result.Balance,
	})
}

func (h *RewardsHandler) GetAvailableRewards(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	rewards, err := h.rewards.GetAvailableRewards(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "rewards": rewards})
}

func (h *RewardsHandler) RedeemReward(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	rewardID, err := c.ParamsInt("id")
	if err != nil || rewardID < 1 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid reward id"})
	}

	result, err := h.rewards.RedeemReward(c.Context(), userID, uint(rewardID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"points_spent": result.PointsSpent,
		"reward":       result.Reward,
	})
}
