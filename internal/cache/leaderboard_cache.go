package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache mirrors leaderboard standings into Redis ZSETs so the
// top-N reads never hit MongoDB. The global board is keyed by cumulative
// totalScore, the per-quiz boards by the latest recorded play score.
type LeaderboardCache interface {
	SetGlobalScore(ctx context.Context, userID string, totalScore int) error
	GetGlobalTop(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	SetQuizScore(ctx context.Context, quizID, userID string, score int) error
	GetQuizTop(ctx context.Context, quizID string, limit int) ([]LeaderboardEntry, error)
	GetGlobalRank(ctx context.Context, userID string) (int64, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	Rank        int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) globalKey() string {
	return "lb:global"
}

func (c *leaderboardCache) quizKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:lb", quizID)
}

func (c *leaderboardCache) SetGlobalScore(ctx context.Context, userID string, totalScore int) error {
	return c.client.ZAdd(ctx, c.globalKey(), redis.Z{
		Score:  float64(totalScore),
		Member: userID,
	}).Err()
}

func (c *leaderboardCache) GetGlobalTop(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	return c.top(ctx, c.globalKey(), limit)
}

func (c *leaderboardCache) SetQuizScore(ctx context.Context, quizID, userID string, score int) error {
	return c.client.ZAdd(ctx, c.quizKey(quizID), redis.Z{
		Score:  float64(score),
		Member: userID,
	}).Err()
}

func (c *leaderboardCache) GetQuizTop(ctx context.Context, quizID string, limit int) ([]LeaderboardEntry, error) {
	return c.top(ctx, c.quizKey(quizID), limit)
}

func (c *leaderboardCache) GetGlobalRank(ctx context.Context, userID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.globalKey(), userID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}

func (c *leaderboardCache) top(ctx context.Context, key string, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			UserID: z.Member.(string),
			Score:  int(z.Score),
			Rank:   i + 1,
		}
	}
	return entries, nil
}
