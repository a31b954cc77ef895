package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"quizarena/internal/cache"
	"quizarena/internal/model"
)

// In-memory repository and cache implementations shared by the service
// tests. They mirror the Mongo repos' nil-on-missing convention.

type memQuizRepo struct {
	mu      sync.Mutex
	quizzes []*model.Quiz
}

func (r *memQuizRepo) Create(ctx context.Context, quiz *model.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizzes = append(r.quizzes, quiz)
	return nil
}

func (r *memQuizRepo) GetByID(ctx context.Context, id string) (*model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.quizzes {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, nil
}

func (r *memQuizRepo) ListByCreatedAsc(ctx context.Context) ([]*model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]*model.Quiz{}, r.quizzes...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memQuizRepo) Oldest(ctx context.Context) (*model.Quiz, error) {
	all, _ := r.ListByCreatedAsc(ctx)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Upsert(ctx context.Context, user *model.User) error {
	return r.Create(ctx, user)
}

func (r *memUserRepo) TopByTotalScore(ctx context.Context, limit int) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalScore > out[j].TotalScore })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type playKey struct {
	quizID string
	userID string
}

type memPlayRepo struct {
	mu    sync.Mutex
	plays map[playKey]*model.Play
}

func newMemPlayRepo() *memPlayRepo {
	return &memPlayRepo{plays: map[playKey]*model.Play{}}
}

func (r *memPlayRepo) Get(ctx context.Context, quizID, userID string) (*model.Play, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.plays[playKey{quizID, userID}]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *memPlayRepo) Upsert(ctx context.Context, play *model.Play) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *play
	r.plays[playKey{play.QuizID, play.UserID}] = &cp
	return nil
}

func (r *memPlayRepo) TopByQuiz(ctx context.Context, quizID string, limit int) ([]*model.Play, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Play
	for k, p := range r.plays {
		if k.quizID == quizID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memPlayRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Play, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Play
	for k, p := range r.plays {
		if k.userID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// scriptedGenerator returns each response in order, then repeats the last.
type scriptedGenerator struct {
	responses []generatorResponse
	calls     int
	excludes  [][]string
}

type generatorResponse struct {
	questions []model.Question
	err       error
}

func (g *scriptedGenerator) GenerateQuestions(ctx context.Context, exclude []string) ([]model.Question, error) {
	g.excludes = append(g.excludes, exclude)
	g.calls++
	if len(g.responses) == 0 {
		return nil, errors.New("unexpected generator call")
	}
	i := g.calls - 1
	if i >= len(g.responses) {
		i = len(g.responses) - 1
	}
	resp := g.responses[i]
	return resp.questions, resp.err
}

// nopQuizCache always misses; writes are dropped.
type nopQuizCache struct{}

func (nopQuizCache) Set(ctx context.Context, quiz *model.Quiz) error { return nil }

func (nopQuizCache) Get(ctx context.Context, id string) (*model.Quiz, error) { return nil, nil }

// memLeaderboard records scores in maps so tests can assert on mirrors.
type memLeaderboard struct {
	mu     sync.Mutex
	global map[string]int
	quiz   map[string]map[string]int
}

func newMemLeaderboard() *memLeaderboard {
	return &memLeaderboard{global: map[string]int{}, quiz: map[string]map[string]int{}}
}

func (l *memLeaderboard) SetGlobalScore(ctx context.Context, userID string, totalScore int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.global[userID] = totalScore
	return nil
}

func (l *memLeaderboard) GetGlobalTop(ctx context.Context, limit int) ([]cache.LeaderboardEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var entries []cache.LeaderboardEntry
	for id, score := range l.global {
		entries = append(entries, cache.LeaderboardEntry{UserID: id, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (l *memLeaderboard) SetQuizScore(ctx context.Context, quizID, userID string, score int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.quiz[quizID] == nil {
		l.quiz[quizID] = map[string]int{}
	}
	l.quiz[quizID][userID] = score
	return nil
}

func (l *memLeaderboard) GetQuizTop(ctx context.Context, quizID string, limit int) ([]cache.LeaderboardEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var entries []cache.LeaderboardEntry
	for id, score := range l.quiz[quizID] {
		entries = append(entries, cache.LeaderboardEntry{UserID: id, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (l *memLeaderboard) GetGlobalRank(ctx context.Context, userID string) (int64, error) {
	top, _ := l.GetGlobalTop(ctx, 1<<30)
	for _, e := range top {
		if e.UserID == userID {
			return int64(e.Rank), nil
		}
	}
	return -1, nil
}

// countingBroadcaster records broadcast calls.
type countingBroadcaster struct {
	mu       sync.Mutex
	global   int
	perQuiz  map[string]int
	lastType string
}

func newCountingBroadcaster() *countingBroadcaster {
	return &countingBroadcaster{perQuiz: map[string]int{}}
}

func (b *countingBroadcaster) BroadcastGlobal(msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.global++
	b.lastType = msgType
}

func (b *countingBroadcaster) BroadcastToQuiz(quizID string, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.perQuiz[quizID]++
	b.lastType = msgType
}

// validQuestions builds a distinct well-formed question set.
func validQuestions(prefix string) []model.Question {
	qs := make([]model.Question, model.QuestionCount)
	for i := range qs {
		qs[i] = model.Question{
			Text:         prefix + " question " + string(rune('A'+i)),
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: i % model.OptionCount,
		}
	}
	return qs
}
