// handlers/admin_routes.go
package handlers

import (
	"errors"
	"strconv"

	"ze-club-system/middleware"
	"ze-club-system/models"
	"ze-club-system/services"
	"ze-club-system/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminDeps bundles everything the back-office surface needs.
type AdminDeps struct {
	Users       *services.UserService
	Missions    *services.MissionService
	Submissions *services.SubmissionService
	Ledger      *services.LedgerService
	Rewards     *services.RewardService
	Redemptions *services.RedemptionService
	Events      *services.EventService
	Content     *services.ContentService
}

// SetupAdminRoutes registers the back-office under /s/admin. Every route
// requires gateway user context plus the admin role.
func SetupAdminRoutes(app *fiber.App, deps AdminDeps) {
	admin := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	// Resolve the acting admin to a member record so audit columns reference
	// a real user id.
	admin.Use(func(c *fiber.Ctx) error {
		discordID := c.Locals("user_id").(string)
		username, _ := c.Locals("username").(string)
		user, err := deps.Users.EnsureUser(discordID, username)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load admin record",
				"cause": err.Error(),
			})
		}
		c.Locals("member", user)
		return c.Next()
	})

	setupMissionAdmin(admin, deps)
	setupSubmissionAdmin(admin, deps)
	setupRewardAdmin(admin, deps)
	setupEventAdmin(admin, deps)
	setupContentAdmin(admin, deps)
	setupUserAdmin(admin, deps)
}

func setupMissionAdmin(admin fiber.Router, deps AdminDeps) {
	admin.Get("/missions", func(c *fiber.Ctx) error {
		missions, err := deps.Missions.ListAll()
		if err != nil {
			return internalError(c, "failed to list missions", err)
		}
		return c.JSON(missions)
	})

	admin.Post("/missions", func(c *fiber.Ctx) error {
		var in services.MissionInput
		if err := parseAndValidate(c, &in); err != nil {
			return err
		}
		mission, err := deps.Missions.Create(in)
		if err != nil {
			return internalError(c, "failed to create mission", err)
		}
		return c.Status(fiber.StatusCreated).JSON(mission)
	})

	admin.Patch("/missions/:id", func(c *fiber.Ctx) error {
		var in services.MissionInput
		if err := c.BodyParser(&in); err != nil {
			return badJSON(c, err)
		}
		mission, err := deps.Missions.Update(c.Params("id"), in)
		if err != nil {
			if errors.Is(err, services.ErrMissionNotFound) {
				return notFound(c, err)
			}
			return internalError(c, "failed to update mission", err)
		}
		return c.JSON(mission)
	})

	admin.Delete("/missions/:id", func(c *fiber.Ctx) error {
		mission, err := deps.Missions.Deactivate(c.Params("id"), memberFrom(c).ID)
		if err != nil {
			if errors.Is(err, services.ErrMissionNotFound) {
				return notFound(c, err)
			}
			return internalError(c, "failed to deactivate mission", err)
		}
		return c.JSON(mission)
	})
}

func setupSubmissionAdmin(admin fiber.Router, deps AdminDeps) {
	admin.Get("/submissions", func(c *fiber.Ctx) error {
		status := models.SubmissionStatus(c.Query("status", string(models.SubmissionPending)))
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))

		subs, total, err := deps.Submissions.ListByStatus(status, page, size)
		if err != nil {
			return internalError(c, "failed to list submissions", err)
		}
		return c.JSON(fiber.Map{
			"submissions": subs,
			"total":       total,
			"page":        page,
		})
	})

	admin.Patch("/submissions/:id/verify", func(c *fiber.Ctx) error {
		type Req struct {
			Status string `json:"status" validate:"required,oneof=approved rejected"`
		}
		var req Req
		if err := parseAndValidate(c, &req); err != nil {
			return err
		}

		adminID := memberFrom(c).ID
		var sub *models.MissionSubmission
		var err error
		if req.Status == string(models.SubmissionApproved) {
			sub, err = deps.Ledger.ApproveSubmission(c.Params("id"), adminID)
		} else {
			sub, err = deps.Ledger.RejectSubmission(c.Params("id"), adminID)
		}
		if err != nil {
			switch {
			case errors.Is(err, services.ErrSubmissionNotFound):
				return notFound(c, err)
			case errors.Is(err, services.ErrAlreadyProcessed):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrMissionUnavailable):
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
			}
			return internalError(c, "failed to verify submission", err)
		}
		return c.JSON(sub)
	})

	admin.Post("/submissions/:id/revert", func(c *fiber.Ctx) error {
		type Req struct {
			RevertReason string `json:"revert_reason" validate:"required,max=500"`
		}
		var req Req
		if err := parseAndValidate(c, &req); err != nil {
			return err
		}

		details, err := deps.Ledger.RevertSubmission(c.Params("id"), memberFrom(c).ID, req.RevertReason)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrSubmissionNotFound):
				return notFound(c, err)
			case errors.Is(err, services.ErrAlreadyReverted),
				errors.Is(err, services.ErrNotApproved):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			}
			return internalError(c, "failed to revert submission", err)
		}
		return c.JSON(fiber.Map{
			"message": "submission reverted",
			"details": details,
		})
	})
}

func setupRewardAdmin(admin fiber.Router, deps AdminDeps) {
	admin.Get("/rewards", func(c *fiber.Ctx) error {
		rewards, err := deps.Rewards.ListAll()
		if err != nil {
			return internalError(c, "failed to list rewards", err)
		}
		return c.JSON(rewards)
	})

	admin.Post("/rewards", func(c *fiber.Ctx) error {
		var in services.RewardInput
		if err := parseAndValidate(c, &in); err != nil {
			return err
		}
		reward, err := deps.Rewards.Create(in)
		if err != nil {
			return internalError(c, "failed to create reward", err)
		}
		return c.Status(fiber.StatusCreated).JSON(reward)
	})

	admin.Patch("/rewards/:id", func(c *fiber.Ctx) error {
		var in services.RewardInput
		if err := c.BodyParser(&in); err != nil {
			return badJSON(c, err)
		}
		reward, err := deps.Rewards.Update(c.Params("id"), in)
		if err != nil {
			if errors.Is(err, services.ErrRewardNotFound) {
				return notFound(c, err)
			}
			return internalError(c, "failed to update reward", err)
		}
		return c.JSON(reward)
	})

	admin.Delete("/rewards/:id", func(c *fiber.Ctx) error {
		if err := deps.Rewards.Deactivate(c.Params("id")); err != nil {
			if errors.Is(err, services.ErrRewardNotFound) {
				return notFound(c, err)
			}
			return internalError(c, "failed to deactivate reward", err)
		}
		return c.JSON(fiber.Map{"message": "reward deactivated"})
	})

	admin.Get("/redemptions", func(c *fiber.Ctx) error {
		status := models.RedemptionStatus(c.Query("status"))
		requests, err := deps.Redemptions.ListRequests(status)
		if err != nil {
			return internalError(c, "failed to list redemptions", err)
		}
		return c.JSON(requests)
	})

	resolveRedemption := func(c *fiber.Ctx, fulfill bool) error {
		type Req struct {
			Notes *string `json:"notes"`
		}
		var req Req
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return badJSON(c, err)
			}
		}

		adminID := memberFrom(c).ID
		var out *models.RedemptionRequest
		var err error
		if fulfill {
			out, err = deps.Redemptions.Fulfill(c.Params("id"), adminID, req.Notes)
		} else {
			out, err = deps.Redemptions.Reject(c.Params("id"), adminID, req.Notes)
		}
		if err != nil {
			switch {
			case errors.Is(err, services.ErrRedemptionNotFound):
				return notFound(c, err)
			case errors.Is(err, services.ErrRedemptionProcessed):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			}
			return internalError(c, "failed to resolve redemption", err)
		}
		return c.JSON(out)
	}

	admin.Post("/redemptions/:id/fulfill", func(c *fiber.Ctx) error {
		return resolveRedemption(c, true)
	})
	admin.Post("/redemptions/:id/reject", func(c *fiber.Ctx) error {
		return resolveRedemption(c, false)
	})
}

func setupEventAdmin(admin fiber.Router, deps AdminDeps) {
	admin.Get("/events", func(c *fiber.Ctx) error {
		events, err := deps.Events.ListAll()
		if err != nil {
			return internalError(c, "failed to list events", err)
		}
		return c.JSON(events)
	})

	admin.Post("/events", func(c *fiber.Ctx) error {
		var in services.EventInput
		if err := parseAndValidate(c, &in); err != nil {
			return err
		}
		event, err := deps.Events.Create(in, memberFrom(c).ID)
		if err != nil {
			return internalError(c, "failed to create event", err)
		}
		return c.Status(fiber.StatusCreated).JSON(event)
	})

	admin.Patch("/events/:id", func(c *fiber.Ctx) error {
		var in services.EventInput
		if err := c.BodyParser(&in); err != nil {
			return badJSON(c, err)
		}
		event, err := deps.Events.Update(c.Params("id"), in)
		if err != nil {
			if errors.Is(err, services.ErrEventNotFound) {
				return notFound(c, err)
			}
			return internalError(c, "failed to update event", err)
		}
		return c.JSON(event)
	})

	admin.Post("/events/:id/cover", func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing file upload",
				"cause": err.Error(),
			})
		}
		url, err := utils.StoreMedia(fileHeader, utils.MediaKey("events", fileHeader.Filename))
		if err != nil {
			return internalError(c, "failed to store cover image", err)
		}
		event, err := deps.Events.SetCoverImage(c.Params("id"), url)
		if err != nil {
			if errors.Is(err, services.ErrEventNotFound) {
				return notFound(c, err)
			}
			return internalError(c, "failed to set cover image", err)
		}
		return c.JSON(event)
	})

	admin.Delete("/events/:id", func(c *fiber.Ctx) error {
		if err := deps.Events.Archive(c.Params("id")); err != nil {
			if errors.Is(err, services.ErrEventNotFound) {
				return notFound(c, err)
			}
			return internalError(c, "failed to archive event", err)
		}
		return c.JSON(fiber.Map{"message": "event archived"})
	})
}

func setupContentAdmin(admin fiber.Router, deps AdminDeps) {
	admin.Get("/announcements", func(c *fiber.Ctx) error {
		items, err := deps.Content.ListAllAnnouncements()
		if err != nil {
			return internalError(c, "failed to list announcements", err)
		}
		return c.JSON(items)
	})

	admin.Post("/announcements", func(c *fiber.Ctx) error {
		var in services.AnnouncementInput
		if err := parseAndValidate(c, &in); err != nil {
			return err
		}
		item, err := deps.Content.CreateAnnouncement(in, memberFrom(c).ID)
		if err != nil {
			return internalError(c, "failed to create announcement", err)
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})

	admin.Patch("/announcements/:id", func(c *fiber.Ctx) error {
		var in services.AnnouncementInput
		if err := c.BodyParser(&in); err != nil {
			return badJSON(c, err)
		}
		item, err := deps.Content.UpdateAnnouncement(c.Params("id"), in)
		if err != nil {
			if errors.Is(err, services.ErrAnnouncementNotFound) {
				return notFound(c, err)
			}
			return internalError(c, "failed to update announcement", err)
		}
		return c.JSON(item)
	})

	admin.Delete("/announcements/:id", func(c *fiber.Ctx) error {
		if err := deps.Content.DeleteAnnouncement(c.Params("id")); err != nil {
			if errors.Is(err, services.ErrAnnouncementNotFound) {
				return notFound(c, err)
			}
			return internalError(c, "failed to delete announcement", err)
		}
		return c.JSON(fiber.Map{"message": "announcement deleted"})
	})

	admin.Post("/hero", func(c *fiber.Ctx) error {
		var in services.HeroMediaInput
		in.Kind = c.FormValue("kind", "image")
		in.Headline = c.FormValue("headline")
		if err := validate.Struct(in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "validation failed",
				"cause": err.Error(),
			})
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing file upload",
				"cause": err.Error(),
			})
		}
		url, err := utils.StoreMedia(fileHeader, utils.MediaKey("hero", fileHeader.Filename))
		if err != nil {
			return internalError(c, "failed to store hero media", err)
		}

		item, err := deps.Content.CreateHeroMedia(in, url, memberFrom(c).ID)
		if err != nil {
			return internalError(c, "failed to create hero media", err)
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})

	admin.Patch("/hero/:id", func(c *fiber.Ctx) error {
		var in services.HeroMediaInput
		if err := c.BodyParser(&in); err != nil {
			return badJSON(c, err)
		}
		item, err := deps.Content.UpdateHeroMedia(c.Params("id"), in)
		if err != nil {
			if errors.Is(err, services.ErrHeroMediaNotFound) {
				return notFound(c, err)
			}
			return internalError(c, "failed to update hero media", err)
		}
		return c.JSON(item)
	})

	admin.Delete("/hero/:id", func(c *fiber.Ctx) error {
		if err := deps.Content.DeleteHeroMedia(c.Params("id")); err != nil {
			if errors.Is(err, services.ErrHeroMediaNotFound) {
				return notFound(c, err)
			}
			return internalError(c, "failed to delete hero media", err)
		}
		return c.JSON(fiber.Map{"message": "hero media deleted"})
	})
}

func setupUserAdmin(admin fiber.Router, deps AdminDeps) {
	admin.Get("/users", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))
		users, total, err := deps.Users.List(page, size)
		if err != nil {
			return internalError(c, "failed to list users", err)
		}
		return c.JSON(fiber.Map{
			"users": users,
			"total": total,
			"page":  page,
		})
	})

	admin.Patch("/users/:id/role", func(c *fiber.Ctx) error {
		type Req struct {
			Role string `json:"role" validate:"required,oneof=member admin"`
		}
		var req Req
		if err := parseAndValidate(c, &req); err != nil {
			return err
		}
		user, err := deps.Users.SetRole(c.Params("id"), models.UserRole(req.Role))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				return notFound(c, err)
			case errors.Is(err, services.ErrInvalidRole):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return internalError(c, "failed to set role", err)
		}
		return c.JSON(user)
	})
}

// parseAndValidate returns a non-nil *fiber.Error on bad input so callers can
// bail with `return err`; the app error handler renders it as JSON.
func parseAndValidate(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON: "+err.Error())
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "validation failed: "+err.Error())
	}
	return nil
}

func badJSON(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid JSON",
		"cause": err.Error(),
	})
}

func notFound(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
}

func internalError(c *fiber.Ctx, msg string, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": msg,
		"cause": err.Error(),
	})
}
