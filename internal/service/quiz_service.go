package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"quizarena/internal/cache"
	"quizarena/internal/model"
	"quizarena/internal/repository"
)

var (
	// ErrGenerationFailed is returned when no unplayed quiz exists and a
	// fresh one could not be generated within the attempt budget.
	ErrGenerationFailed = errors.New("failed to generate a new quiz")

	// ErrQuizNotFound is returned for unknown quiz IDs (shared links).
	ErrQuizNotFound = errors.New("quiz not found")
)

const (
	// maxGenerateAttempts bounds the retry loop around the generator.
	maxGenerateAttempts = 3

	// maxExclusionSample caps how many historical question texts are sent
	// to the generator, to bound prompt size.
	maxExclusionSample = 50
)

// QuizService serves each user an unplayed quiz, generating a fresh one
// only when the user has exhausted the stored pool.
type QuizService struct {
	quizRepo  repository.QuizRepo
	userRepo  repository.UserRepo
	generator QuizGenerator
	quizCache cache.QuizCache
	now       func() time.Time
}

// NewQuizService creates a new quiz service
func NewQuizService(quizRepo repository.QuizRepo, userRepo repository.UserRepo, generator QuizGenerator, quizCache cache.QuizCache) *QuizService {
	return &QuizService{
		quizRepo:  quizRepo,
		userRepo:  userRepo,
		generator: generator,
		quizCache: quizCache,
		now:       time.Now,
	}
}

// GetQuizForUser returns an unplayed quiz for the user, reusing the
// stored pool oldest-first before paying for a generation call.
func (s *QuizService) GetQuizForUser(ctx context.Context, userID string) (*model.Quiz, bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	played := map[string]bool{}
	if user != nil {
		for _, id := range user.PlayedQuizIDs {
			played[id] = true
		}
	}

	// Brand-new users all get the oldest quiz; this keeps the shared pool
	// warm before any generation cost is paid.
	if len(played) == 0 {
		oldest, err := s.quizRepo.Oldest(ctx)
		if err != nil {
			return nil, false, err
		}
		if oldest != nil {
			return oldest, true, nil
		}
		// Empty store: fall through to generation.
	}

	quizzes, err := s.quizRepo.ListByCreatedAsc(ctx)
	if err != nil {
		return nil, false, err
	}

	for _, quiz := range quizzes {
		if !played[quiz.ID] {
			return quiz, true, nil
		}
	}

	quiz, err := s.generateUnique(ctx, quizzes)
	if err != nil {
		return nil, false, err
	}
	return quiz, false, nil
}

// GetQuiz loads a quiz by ID for shared-link play, via the Redis cache.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (*model.Quiz, error) {
	if cached, err := s.quizCache.Get(ctx, quizID); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("quiz cache read failed for %s: %v", quizID, err)
	}

	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}

	if err := s.quizCache.Set(ctx, quiz); err != nil {
		log.Printf("quiz cache write failed for %s: %v", quizID, err)
	}
	return quiz, nil
}

// generateUnique calls the generator until it produces a set with no
// question already seen in the store, then persists it. The dedup filter
// runs here because the generator cannot be trusted to honor the
// exclusion list exactly.
func (s *QuizService) generateUnique(ctx context.Context, existing []*model.Quiz) (*model.Quiz, error) {
	seen := map[string]bool{}
	var sample []string
	for _, quiz := range existing {
		for _, q := range quiz.Questions {
			norm := normalizeQuestion(q.Text)
			if !seen[norm] {
				seen[norm] = true
				if len(sample) < maxExclusionSample {
					sample = append(sample, q.Text)
				}
			}
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		questions, err := s.generator.GenerateQuestions(ctx, sample)
		if err != nil {
			lastErr = err
			log.Printf("quiz generation attempt %d/%d failed: %v", attempt, maxGenerateAttempts, err)
			continue
		}

		if dup := firstDuplicate(questions, seen); dup != "" {
			lastErr = fmt.Errorf("duplicate question returned: %q", dup)
			log.Printf("quiz generation attempt %d/%d rejected: %v", attempt, maxGenerateAttempts, lastErr)
			continue
		}

		quiz := &model.Quiz{
			ID:        strconv.FormatInt(s.now().UnixMilli(), 10),
			Questions: questions,
			CreatedAt: s.now(),
		}
		if err := s.quizRepo.Create(ctx, quiz); err != nil {
			return nil, err
		}
		return quiz, nil
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrGenerationFailed, maxGenerateAttempts, lastErr)
}

func firstDuplicate(questions []model.Question, seen map[string]bool) string {
	for _, q := range questions {
		if seen[normalizeQuestion(q.Text)] {
			return q.Text
		}
	}
	return ""
}

func normalizeQuestion(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
