// handlers/club_routes.go
package handlers

import (
	"errors"

	"ze-club-system/middleware"
	"ze-club-system/models"
	"ze-club-system/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func memberFrom(c *fiber.Ctx) *models.User {
	return c.Locals("member").(*models.User)
}

// SetupClubRoutes registers the member-only club area under /s/club.
func SetupClubRoutes(app *fiber.App, users *services.UserService, submissions *services.SubmissionService, redemptions *services.RedemptionService) {
	club := app.Group("/s/club", middleware.UserContextMiddleware())

	// Resolve the gateway identity to a member record once per request.
	club.Use(func(c *fiber.Ctx) error {
		discordID := c.Locals("user_id").(string)
		username, _ := c.Locals("username").(string)
		user, err := users.EnsureUser(discordID, username)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load member",
				"cause": err.Error(),
			})
		}
		c.Locals("member", user)
		return c.Next()
	})

	club.Get("/dashboard", func(c *fiber.Ctx) error {
		member := memberFrom(c)
		dash, err := users.GetDashboard(member.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to build dashboard",
				"cause": err.Error(),
			})
		}
		return c.JSON(dash)
	})

	club.Get("/missions", func(c *fiber.Ctx) error {
		views, err := submissions.ListForUser(memberFrom(c).ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list missions",
				"cause": err.Error(),
			})
		}
		return c.JSON(views)
	})

	club.Post("/missions/:id/submissions", func(c *fiber.Ctx) error {
		type Req struct {
			ProofURL string `json:"proof_url" validate:"required,url"`
			Note     string `json:"note" validate:"max=500"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "validation failed",
				"cause": err.Error(),
			})
		}

		sub, err := submissions.Submit(memberFrom(c).ID, c.Params("id"), req.ProofURL, req.Note)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissionNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrMissionUnavailable):
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrDuplicateSubmission):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to submit",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(sub)
	})

	club.Get("/submissions", func(c *fiber.Ctx) error {
		subs, err := submissions.ListSubmissionsForUser(memberFrom(c).ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list submissions",
				"cause": err.Error(),
			})
		}
		return c.JSON(subs)
	})

	club.Get("/rewards", func(c *fiber.Ctx) error {
		views, err := redemptions.ListForUser(c.Context(), memberFrom(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list rewards",
				"cause": err.Error(),
			})
		}
		return c.JSON(views)
	})

	club.Post("/rewards/:id/redeem", func(c *fiber.Ctx) error {
		request, err := redemptions.Redeem(c.Context(), memberFrom(c).ID, c.Params("id"))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrRewardNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrRewardInactive),
				errors.Is(err, services.ErrRankTooLow),
				errors.Is(err, services.ErrNotTopThree):
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrOutOfStock),
				errors.Is(err, services.ErrInsufficientCoins):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to redeem",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(request)
	})

	club.Get("/redemptions", func(c *fiber.Ctx) error {
		requests, err := redemptions.ListRequestsForUser(memberFrom(c).ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list redemptions",
				"cause": err.Error(),
			})
		}
		return c.JSON(requests)
	})
}
