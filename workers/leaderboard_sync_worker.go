package workers

import (
	"context"
	"log"
	"time"

	"ze-club-system/services"
)

// SyncLeaderboard keeps the Redis leaderboard mirror in step with the
// database. It does one full rebuild immediately, then one per tick until
// the context is cancelled.
func SyncLeaderboard(ctx context.Context, leaderboard *services.LeaderboardService, pollInterval time.Duration) {
	log.Println("Starting leaderboard sync worker...")

	if count, err := leaderboard.SyncFromDB(ctx); err != nil {
		log.Printf("Initial leaderboard sync failed: %v", err)
	} else {
		log.Printf("Initial leaderboard sync done (%d members).", count)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Leaderboard sync worker stopped.")
			return
		case <-ticker.C:
			count, err := leaderboard.SyncFromDB(ctx)
			if err != nil {
				log.Printf("Leaderboard sync failed: %v", err)
				continue
			}
			log.Printf("Leaderboard synced (%d members).", count)
		}
	}
}
