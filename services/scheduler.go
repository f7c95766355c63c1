// services/scheduler.go
package services

import (
	"log"
	"time"

	"ze-club-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartScheduler runs the background jobs: auto-publishing scheduled events
// and retiring missions whose availability window has closed. Returns the
// scheduler so main can shut it down.
func StartScheduler(events *EventService, missions *MissionService) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	sched.Start()

	// Every minute: publish scheduled events whose publish time has passed
	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var due []models.Event
			now := time.Now().UTC()
			if err := events.DB.
				Where("status = ? AND publish_at <= ?", models.EventStatusScheduled, now).
				Find(&due).Error; err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, e := range due {
				e.Status = models.EventStatusPublished
				e.PublishAt = nil
				if err := events.DB.Save(&e).Error; err != nil {
					log.Printf("[Scheduler] Failed to publish event %s: %v", e.ID, err)
				} else {
					log.Printf("Auto-published event: %s", e.Title)
				}
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	// Every five minutes: deactivate time-limited missions past their window
	_, err = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			var open []models.Mission
			if err := missions.DB.
				Where("active = ? AND is_time_limited = ?", true, true).
				Find(&open).Error; err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			now := time.Now().UTC()
			for _, m := range open {
				end := m.WindowEnd()
				if end == nil || now.Before(*end) {
					continue
				}
				m.Active = false
				m.DeactivatedAt = &now
				if err := missions.DB.Save(&m).Error; err != nil {
					log.Printf("[Scheduler] Failed to deactivate mission %s: %v", m.ID, err)
				} else {
					log.Printf("Auto-deactivated expired mission: %s", m.Title)
				}
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	return sched, nil
}
