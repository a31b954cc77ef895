package service

import (
	"context"
	"errors"
	"log"

	"quizarena/internal/cache"
	"quizarena/internal/model"
	"quizarena/internal/repository"
)

// ErrUserNotFound is returned when a profile document does not exist.
var ErrUserNotFound = errors.New("user not found")

const (
	leaderboardSize = 10
	historySize     = 20
)

// UserService serves profile stats, play history, and leaderboards.
type UserService struct {
	userRepo    repository.UserRepo
	playRepo    repository.PlayRepo
	quizRepo    repository.QuizRepo
	leaderboard cache.LeaderboardCache
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepo, playRepo repository.PlayRepo, quizRepo repository.QuizRepo, leaderboard cache.LeaderboardCache) *UserService {
	return &UserService{
		userRepo:    userRepo,
		playRepo:    playRepo,
		quizRepo:    quizRepo,
		leaderboard: leaderboard,
	}
}

// GetProfile returns the stats shown on the profile page.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.ProfileStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return &model.ProfileStats{
		DisplayName:   user.DisplayName,
		TotalScore:    user.TotalScore,
		QuizzesPlayed: len(user.PlayedQuizIDs),
	}, nil
}

// GetHistory returns the user's recent plays, newest first, with each
// entry's question count pulled from the quiz document.
func (s *UserService) GetHistory(ctx context.Context, userID string) ([]model.HistoryEntry, error) {
	plays, err := s.playRepo.ListByUser(ctx, userID, historySize)
	if err != nil {
		return nil, err
	}

	entries := make([]model.HistoryEntry, 0, len(plays))
	for _, play := range plays {
		total := model.QuestionCount
		if quiz, err := s.quizRepo.GetByID(ctx, play.QuizID); err == nil && quiz != nil {
			total = len(quiz.Questions)
		}
		entries = append(entries, model.HistoryEntry{
			QuizID:    play.QuizID,
			Score:     play.Score,
			Total:     total,
			Timestamp: play.Timestamp,
		})
	}
	return entries, nil
}

// GlobalLeaderboard returns the top players by cumulative score. Reads go
// to the Redis mirror first; a cold mirror is rebuilt from MongoDB.
func (s *UserService) GlobalLeaderboard(ctx context.Context) ([]cache.LeaderboardEntry, error) {
	entries, err := s.leaderboard.GetGlobalTop(ctx, leaderboardSize)
	if err != nil {
		log.Printf("global leaderboard cache read failed: %v", err)
	}
	if len(entries) == 0 {
		return s.rebuildGlobal(ctx)
	}
	return s.enrich(ctx, entries), nil
}

// QuizLeaderboard returns the top scores for one quiz.
func (s *UserService) QuizLeaderboard(ctx context.Context, quizID string) ([]cache.LeaderboardEntry, error) {
	entries, err := s.leaderboard.GetQuizTop(ctx, quizID, leaderboardSize)
	if err != nil {
		log.Printf("quiz leaderboard cache read failed for %s: %v", quizID, err)
	}
	if len(entries) == 0 {
		return s.rebuildQuiz(ctx, quizID)
	}
	return s.enrich(ctx, entries), nil
}

func (s *UserService) rebuildGlobal(ctx context.Context) ([]cache.LeaderboardEntry, error) {
	users, err := s.userRepo.TopByTotalScore(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}

	entries := make([]cache.LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, cache.LeaderboardEntry{
			UserID:      user.ID,
			DisplayName: user.DisplayName,
			Score:       user.TotalScore,
			Rank:        i + 1,
		})
		if err := s.leaderboard.SetGlobalScore(ctx, user.ID, user.TotalScore); err != nil {
			log.Printf("global leaderboard warm failed for %s: %v", user.ID, err)
		}
	}
	return entries, nil
}

func (s *UserService) rebuildQuiz(ctx context.Context, quizID string) ([]cache.LeaderboardEntry, error) {
	plays, err := s.playRepo.TopByQuiz(ctx, quizID, leaderboardSize)
	if err != nil {
		return nil, err
	}

	entries := make([]cache.LeaderboardEntry, 0, len(plays))
	for i, play := range plays {
		entries = append(entries, cache.LeaderboardEntry{
			UserID: play.UserID,
			Score:  play.Score,
			Rank:   i + 1,
		})
		if err := s.leaderboard.SetQuizScore(ctx, quizID, play.UserID, play.Score); err != nil {
			log.Printf("quiz leaderboard warm failed for %s/%s: %v", quizID, play.UserID, err)
		}
	}
	return s.enrich(ctx, entries), nil
}

// enrich fills in display names from the profile store; ZSET members
// only carry user IDs.
func (s *UserService) enrich(ctx context.Context, entries []cache.LeaderboardEntry) []cache.LeaderboardEntry {
	for i := range entries {
		if entries[i].DisplayName != "" {
			continue
		}
		user, err := s.userRepo.GetByID(ctx, entries[i].UserID)
		if err != nil || user == nil {
			entries[i].DisplayName = "Anonymous"
			continue
		}
		entries[i].DisplayName = user.DisplayName
	}
	return entries
}
