package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizarena/internal/model"
)

func TestGetProfile(t *testing.T) {
	userRepo := newMemUserRepo()
	userRepo.Create(context.Background(), &model.User{
		ID:            "user-1",
		DisplayName:   "Tony",
		TotalScore:    12,
		PlayedQuizIDs: []string{"q1", "q2", "q3"},
	})

	svc := NewUserService(userRepo, newMemPlayRepo(), &memQuizRepo{}, newMemLeaderboard())

	stats, err := svc.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if stats.DisplayName != "Tony" || stats.TotalScore != 12 || stats.QuizzesPlayed != 3 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestGetProfile_Unknown(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), newMemPlayRepo(), &memQuizRepo{}, newMemLeaderboard())

	_, err := svc.GetProfile(context.Background(), "nobody")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetHistory_NewestFirstWithTotals(t *testing.T) {
	ctx := context.Background()
	base := time.Now()

	quizRepo := &memQuizRepo{}
	quizRepo.Create(ctx, &model.Quiz{ID: "q1", Questions: validQuestions("one"), CreatedAt: base})

	playRepo := newMemPlayRepo()
	playRepo.Upsert(ctx, &model.Play{QuizID: "q1", UserID: "user-1", Score: 3, Timestamp: base})
	playRepo.Upsert(ctx, &model.Play{QuizID: "q2", UserID: "user-1", Score: 5, Timestamp: base.Add(time.Hour)})
	playRepo.Upsert(ctx, &model.Play{QuizID: "q3", UserID: "other", Score: 1, Timestamp: base})

	svc := NewUserService(newMemUserRepo(), playRepo, quizRepo, newMemLeaderboard())

	entries, err := svc.GetHistory(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].QuizID != "q2" {
		t.Fatalf("entries not newest-first: %+v", entries)
	}
	// q1 exists in the store, q2 does not; both should report 5 questions.
	if entries[0].Total != model.QuestionCount || entries[1].Total != model.QuestionCount {
		t.Fatalf("entry totals = %d/%d", entries[0].Total, entries[1].Total)
	}
}

func TestGlobalLeaderboard_ColdCacheRebuildsFromStore(t *testing.T) {
	ctx := context.Background()

	userRepo := newMemUserRepo()
	userRepo.Create(ctx, &model.User{ID: "alice", DisplayName: "Alice", TotalScore: 10})
	userRepo.Create(ctx, &model.User{ID: "bob", DisplayName: "Bob", TotalScore: 25})

	lb := newMemLeaderboard()
	svc := NewUserService(userRepo, newMemPlayRepo(), &memQuizRepo{}, lb)

	entries, err := svc.GlobalLeaderboard(ctx)
	if err != nil {
		t.Fatalf("GlobalLeaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].UserID != "bob" || entries[0].DisplayName != "Bob" || entries[0].Rank != 1 {
		t.Fatalf("top entry = %+v", entries[0])
	}

	// The rebuild must warm the mirror.
	if lb.global["bob"] != 25 || lb.global["alice"] != 10 {
		t.Fatalf("mirror not warmed: %+v", lb.global)
	}
}

func TestGlobalLeaderboard_WarmCacheEnrichesNames(t *testing.T) {
	ctx := context.Background()

	userRepo := newMemUserRepo()
	userRepo.Create(ctx, &model.User{ID: "alice", DisplayName: "Alice", TotalScore: 10})

	lb := newMemLeaderboard()
	lb.SetGlobalScore(ctx, "alice", 10)
	lb.SetGlobalScore(ctx, "ghost", 4)

	svc := NewUserService(userRepo, newMemPlayRepo(), &memQuizRepo{}, lb)

	entries, err := svc.GlobalLeaderboard(ctx)
	if err != nil {
		t.Fatalf("GlobalLeaderboard: %v", err)
	}
	byID := map[string]string{}
	for _, e := range entries {
		byID[e.UserID] = e.DisplayName
	}
	if byID["alice"] != "Alice" {
		t.Fatalf("alice displayName = %q", byID["alice"])
	}
	if byID["ghost"] != "Anonymous" {
		t.Fatalf("missing profile should fall back to Anonymous, got %q", byID["ghost"])
	}
}

func TestQuizLeaderboard_ColdCacheRebuildsFromPlays(t *testing.T) {
	ctx := context.Background()

	userRepo := newMemUserRepo()
	userRepo.Create(ctx, &model.User{ID: "alice", DisplayName: "Alice"})

	playRepo := newMemPlayRepo()
	playRepo.Upsert(ctx, &model.Play{QuizID: "q1", UserID: "alice", Score: 4, Timestamp: time.Now()})
	playRepo.Upsert(ctx, &model.Play{QuizID: "q2", UserID: "alice", Score: 5, Timestamp: time.Now()})

	svc := NewUserService(userRepo, playRepo, &memQuizRepo{}, newMemLeaderboard())

	entries, err := svc.QuizLeaderboard(ctx, "q1")
	if err != nil {
		t.Fatalf("QuizLeaderboard: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].UserID != "alice" || entries[0].Score != 4 || entries[0].DisplayName != "Alice" {
		t.Fatalf("entry = %+v", entries[0])
	}
}
