package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ze-club-system/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const (
	// leaderboardKey is the Redis sorted set keyed by composite score.
	leaderboardKey = "zeclub:leaderboard:experience"

	// memberKey is the Redis hash mapping user id -> display name.
	memberKey = "zeclub:leaderboard:members"

	// experienceKey is the Redis hash mapping user id -> base experience.
	experienceKey = "zeclub:leaderboard:xp"

	// timestampDivisor keeps the tie-break component far below one
	// experience point so it never reorders distinct scores.
	timestampDivisor = 10_000_000_000
)

// LeaderboardService mirrors member experience into a Redis sorted set for
// cheap ranked reads. Postgres stays the source of truth; the sync worker
// rebuilds the mirror periodically.
type LeaderboardService struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{DB: db, Redis: rdb}
}

// Entry is a single leaderboard row.
type Entry struct {
	Rank       int    `json:"rank"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Experience int    `json:"experience"`
}

// compositeScore folds the update timestamp into the score so that, among
// members with equal experience, the one who got there first sorts higher.
func compositeScore(experience int, timestamp int64) float64 {
	return float64(experience) + (1.0 - float64(timestamp)/timestampDivisor)
}

// UpdateMember writes one member's experience into the mirror.
func (s *LeaderboardService) UpdateMember(ctx context.Context, userID, username string, experience int) error {
	timestamp := time.Now().Unix()

	pipe := s.Redis.Pipeline()
	pipe.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  compositeScore(experience, timestamp),
		Member: userID,
	})
	pipe.HSet(ctx, memberKey, userID, norm.NFC.String(username))
	pipe.HSet(ctx, experienceKey, userID, experience)
	_, err := pipe.Exec(ctx)
	return err
}

// SyncFromDB rebuilds the whole mirror from Postgres in one pipeline.
func (s *LeaderboardService) SyncFromDB(ctx context.Context) (int, error) {
	var users []models.User
	if err := s.DB.WithContext(ctx).
		Select("id", "username", "experience").
		Find(&users).Error; err != nil {
		return 0, fmt.Errorf("failed to load users: %w", err)
	}
	if len(users) == 0 {
		return 0, nil
	}

	timestamp := time.Now().Unix()
	pipe := s.Redis.Pipeline()
	for _, u := range users {
		pipe.ZAdd(ctx, leaderboardKey, redis.Z{
			Score:  compositeScore(u.Experience, timestamp),
			Member: u.ID,
		})
		pipe.HSet(ctx, memberKey, u.ID, norm.NFC.String(u.Username))
		pipe.HSet(ctx, experienceKey, u.ID, u.Experience)
		timestamp++
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to sync leaderboard: %w", err)
	}
	return len(users), nil
}

// Top returns a leaderboard page with tie-aware (1224) ranking: members with
// equal experience share a rank and the next rank skips accordingly.
func (s *LeaderboardService) Top(ctx context.Context, offset, limit int) ([]Entry, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.Redis.ZRevRangeWithScores(ctx, leaderboardKey,
		int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, err
	}

	total, err := s.Redis.ZCard(ctx, leaderboardKey).Result()
	if err != nil {
		return nil, 0, err
	}

	entries := make([]Entry, 0, len(rows))
	if len(rows) == 0 {
		return entries, total, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.Member.(string)
	}
	names, err := s.Redis.HMGet(ctx, memberKey, ids...).Result()
	if err != nil {
		return nil, 0, err
	}
	xps, err := s.Redis.HMGet(ctx, experienceKey, ids...).Result()
	if err != nil {
		return nil, 0, err
	}

	for i, row := range rows {
		username := ""
		if v, ok := names[i].(string); ok {
			username = v
		}
		experience := int(row.Score)
		if v, ok := xps[i].(string); ok {
			if parsed, err := strconv.Atoi(v); err == nil {
				experience = parsed
			}
		}
		entries = append(entries, Entry{
			UserID:     ids[i],
			Username:   username,
			Experience: experience,
		})
	}

	// For a later page the first row may sit inside a tie block that started
	// before the page, so its shared rank has to come from the set itself:
	// one plus the number of members with strictly higher experience.
	firstRank := 1
	if offset > 0 {
		greater, err := s.Redis.ZCount(ctx, leaderboardKey,
			strconv.Itoa(entries[0].Experience+1), "+inf").Result()
		if err != nil {
			return nil, 0, err
		}
		firstRank = int(greater) + 1
	}
	assignRanks(entries, offset, firstRank)
	return entries, total, nil
}

// assignRanks applies tie-aware ranking in place: members with equal
// experience share a rank and the next distinct experience skips past the
// whole tie block. firstRank is the absolute rank of entries[0]; with a
// non-zero offset it can be smaller than offset+1 when the first row's tie
// block reaches back into the previous page.
func assignRanks(entries []Entry, offset, firstRank int) {
	if len(entries) == 0 {
		return
	}

	currentRank := firstRank
	previousXP := entries[0].Experience
	// Rows of the first tie block already consumed, the first page row
	// included.
	sameRankCount := offset + 2 - firstRank
	entries[0].Rank = currentRank

	for i := 1; i < len(entries); i++ {
		if entries[i].Experience == previousXP {
			sameRankCount++
		} else {
			currentRank += sameRankCount
			previousXP = entries[i].Experience
			sameRankCount = 1
		}
		entries[i].Rank = currentRank
	}
}

// IsTopThree reports whether the member currently holds one of the first
// three positions. Backs the exclusiveToTop3 reward gate.
func (s *LeaderboardService) IsTopThree(ctx context.Context, userID string) (bool, error) {
	top, err := s.Redis.ZRevRange(ctx, leaderboardKey, 0, 2).Result()
	if err != nil {
		return false, err
	}
	for _, id := range top {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

// Ping checks the Redis mirror is reachable.
func (s *LeaderboardService) Ping(ctx context.Context) error {
	return s.Redis.Ping(ctx).Err()
}
