// handlers/public_routes.go
package handlers

import (
	"errors"
	"strconv"

	"ze-club-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupPublicRoutes registers the marketing site endpoints. No user context
// required, but requests still pass Gateway auth.
func SetupPublicRoutes(app *fiber.App, events *services.EventService, content *services.ContentService, leaderboard *services.LeaderboardService) {
	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{"status": "ok"}
		if err := leaderboard.Ping(c.Context()); err != nil {
			status["redis"] = "unreachable"
		}
		return c.JSON(status)
	})

	app.Get("/events", func(c *fiber.Ctx) error {
		items, err := events.ListPublished()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list events",
				"cause": err.Error(),
			})
		}
		return c.JSON(items)
	})

	app.Get("/events/:slug", func(c *fiber.Ctx) error {
		event, err := events.GetBySlug(c.Params("slug"))
		if err != nil {
			if errors.Is(err, services.ErrEventNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch event",
				"cause": err.Error(),
			})
		}
		return c.JSON(event)
	})

	app.Get("/announcements", func(c *fiber.Ctx) error {
		items, err := content.ListAnnouncements()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list announcements",
				"cause": err.Error(),
			})
		}
		return c.JSON(items)
	})

	app.Get("/hero", func(c *fiber.Ctx) error {
		items, err := content.ListHeroMedia()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list hero media",
				"cause": err.Error(),
			})
		}
		return c.JSON(items)
	})

	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		offset, _ := strconv.Atoi(c.Query("offset", "0"))
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		entries, total, err := leaderboard.Top(c.Context(), offset, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch leaderboard",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"entries": entries,
			"total":   total,
		})
	})
}
