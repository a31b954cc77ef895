package service

import (
	"context"
	"errors"
	"log"
	"time"

	"quizarena/internal/cache"
	"quizarena/internal/model"
	"quizarena/internal/repository"
)

// ErrInvalidScore is returned for scores outside the 0..5 range.
var ErrInvalidScore = errors.New("score out of range")

// ScoreService records quiz results. The cumulative total only ever
// moves up (delta accounting); the per-quiz play record is last-write-wins.
// The two are deliberately decoupled: a worse replay overwrites the
// visible per-quiz score without touching the global total.
type ScoreService struct {
	userRepo    repository.UserRepo
	playRepo    repository.PlayRepo
	leaderboard cache.LeaderboardCache
	broadcaster Broadcaster
	now         func() time.Time
}

// NewScoreService creates a new score service
func NewScoreService(userRepo repository.UserRepo, playRepo repository.PlayRepo, leaderboard cache.LeaderboardCache) *ScoreService {
	return &ScoreService{
		userRepo:    userRepo,
		playRepo:    playRepo,
		leaderboard: leaderboard,
		now:         time.Now,
	}
}

// SetBroadcaster injects the WebSocket hub for live leaderboard pushes
func (s *ScoreService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// RecordScore applies a submitted score for (quizID, userID).
func (s *ScoreService) RecordScore(ctx context.Context, quizID, userID string, rawScore int, displayName string) error {
	if rawScore < 0 || rawScore > model.QuestionCount {
		return ErrInvalidScore
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		user = &model.User{
			ID:          userID,
			DisplayName: displayName,
			CreatedAt:   s.now(),
		}
	}
	if user.DisplayName == "" {
		user.DisplayName = displayName
	}

	previous, err := s.playRepo.Get(ctx, quizID, userID)
	if err != nil {
		return err
	}

	delta := rawScore
	if previous != nil {
		delta = rawScore - previous.Score
	}

	if delta > 0 {
		user.TotalScore += delta
		if !user.HasPlayed(quizID) {
			user.PlayedQuizIDs = append(user.PlayedQuizIDs, quizID)
		}
		if err := s.userRepo.Upsert(ctx, user); err != nil {
			return err
		}
	}

	play := &model.Play{
		QuizID:    quizID,
		UserID:    userID,
		Score:     rawScore,
		Timestamp: s.now(),
	}
	if err := s.playRepo.Upsert(ctx, play); err != nil {
		return err
	}

	s.mirrorLeaderboards(ctx, quizID, user, rawScore)
	return nil
}

// mirrorLeaderboards pushes the new standings into Redis and over the
// WebSocket hub. Mirror failures are logged, never surfaced: MongoDB is
// the source of truth and the save already succeeded.
func (s *ScoreService) mirrorLeaderboards(ctx context.Context, quizID string, user *model.User, rawScore int) {
	if err := s.leaderboard.SetGlobalScore(ctx, user.ID, user.TotalScore); err != nil {
		log.Printf("global leaderboard mirror failed for %s: %v", user.ID, err)
	}
	if err := s.leaderboard.SetQuizScore(ctx, quizID, user.ID, rawScore); err != nil {
		log.Printf("quiz leaderboard mirror failed for %s/%s: %v", quizID, user.ID, err)
	}

	if s.broadcaster != nil {
		payload := map[string]interface{}{
			"userId":     user.ID,
			"quizId":     quizID,
			"score":      rawScore,
			"totalScore": user.TotalScore,
		}
		s.broadcaster.BroadcastToQuiz(quizID, "leaderboard_update", payload)
		s.broadcaster.BroadcastGlobal("leaderboard_update", payload)
	}
}
