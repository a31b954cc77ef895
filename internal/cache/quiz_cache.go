package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quizarena/internal/model"

	"github.com/redis/go-redis/v9"
)

// QuizCache keeps quiz documents in Redis. Shared-quiz links hit the
// same handful of documents repeatedly, and quiz documents are immutable,
// so a plain TTL cache in front of MongoDB is enough.
type QuizCache interface {
	Set(ctx context.Context, quiz *model.Quiz) error
	Get(ctx context.Context, quizID string) (*model.Quiz, error)
}

type quizCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQuizCache creates a new quiz cache
func NewQuizCache(client *redis.Client) QuizCache {
	return &quizCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *quizCache) key(quizID string) string {
	return fmt.Sprintf("quiz:%s:doc", quizID)
}

func (c *quizCache) Set(ctx context.Context, quiz *model.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(quiz.ID), data, c.ttl).Err()
}

func (c *quizCache) Get(ctx context.Context, quizID string) (*model.Quiz, error) {
	data, err := c.client.Get(ctx, c.key(quizID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var quiz model.Quiz
	if err := json.Unmarshal([]byte(data), &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}
