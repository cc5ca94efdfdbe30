// handlers/progression.go - Player progression, quests and inventory.
package handlers

import (
	"github.com/HoneyBadgered/alchemy-sub004/middleware"
	"github.com/HoneyBadgered/alchemy-sub004/services"

	"github.com/gofiber/fiber/v2"
)

type ProgressionHandler struct {
	quests *services.QuestService
}

func NewProgressionHandler(quests *services.QuestService) *ProgressionHandler {
	return &ProgressionHandler{quests: quests}
}

func (h *ProgressionHandler) GetProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	progress, err := h.quests.GetProgress(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "progress": progress})
}

func (h *ProgressionHandler) GetQuests(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	quests, err := h.quests.GetQuests(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "quests": quests, "total": len(quests)})
}

func (h *ProgressionHandler) ClaimQuest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	questID, err := c.ParamsInt("id")
	if err != nil || questID < 1 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid quest id"})
	}

	result, err := h.quests.ClaimQuest(c.Context(), userID, uint(questID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"xp_gained":  result.XPGained,
		"level":      result.Level,
		"leveled_up": result.LeveledUp,
	})
}

type TrackProgressRequest struct {
	EventType string `json:"event_type"`
	Amount    int    `json:"amount"`
}

func (h *ProgressionHandler) TrackProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req TrackProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.EventType == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "event_type is required"})
	}
	if req.Amount == 0 {
		req.Amount = 1
	}

	updated, err := h.quests.TrackQuestProgress(c.Context(), userID, req.EventType, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "updated": updated})
}

func (h *ProgressionHandler) DailyCheckIn(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.quests.DailyCheckIn(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "daily": result})
}

func (h *ProgressionHandler) GetInventory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	items, err := h.quests.GetInventory(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "inventory": items})
}

func (h *ProgressionHandler) GetCosmetics(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	themes, err := h.quests.GetCosmetics(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "unlocked_themes": themes})
}

func (h *ProgressionHandler) GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 25)

	entries, err := h.quests.GetLeaderboard(c.Context(), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "leaderboard": entries})
}
