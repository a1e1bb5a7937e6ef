package survey

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/kailas-cloud/pairwise/internal/domain"
	"github.com/kailas-cloud/pairwise/internal/domain/judgment"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	"github.com/kailas-cloud/pairwise/internal/domain/sample"
	"github.com/kailas-cloud/pairwise/internal/domain/user"
)

// --- Mocks ---

type mockSamples struct {
	sets map[string]sample.Set
	err  error
}

func (m *mockSamples) ListByTask(_ context.Context, task string) (sample.Set, error) {
	if m.err != nil {
		return sample.Set{}, m.err
	}
	if s, ok := m.sets[task]; ok {
		return s, nil
	}
	return sample.NewSetFromIDs(task, nil)
}

type mockUsers struct {
	users   []user.User
	listErr error
}

func (m *mockUsers) Get(_ context.Context, token string) (user.User, error) {
	for _, u := range m.users {
		if u.Token() == token {
			return u, nil
		}
	}
	return user.User{}, domain.ErrNotFound
}

func (m *mockUsers) ListByTask(_ context.Context, task string) ([]user.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []user.User
	for _, u := range m.users {
		if u.Task() == task {
			out = append(out, u)
		}
	}
	return out, nil
}

// memJudgments mirrors the canonical store: one entry per unordered pair
// per (token, metric).
type memJudgments struct {
	mu        sync.Mutex
	stored    map[string]map[string]judgment.Judgment
	createErr error
	listErr   error
}

func newMemJudgments() *memJudgments {
	return &memJudgments{stored: map[string]map[string]judgment.Judgment{}}
}

func (m *memJudgments) Create(_ context.Context, j judgment.Judgment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	k := j.Token() + ":" + j.Metric().String()
	h := m.stored[k]
	if h == nil {
		h = map[string]judgment.Judgment{}
		m.stored[k] = h
	}
	if _, ok := h[j.Pair().Key()]; ok {
		return domain.NewDuplicateJudgment(j.A(), j.B(), j.Metric().String())
	}
	h[j.Pair().Key()] = j
	return nil
}

func (m *memJudgments) ListByUser(_ context.Context, token string, mm metric.Metric) ([]judgment.Judgment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []judgment.Judgment
	for _, j := range m.stored[token+":"+mm.String()] {
		out = append(out, j)
	}
	return out, nil
}

func (m *memJudgments) ListByUserMetrics(
	ctx context.Context, token string, metrics []metric.Metric,
) (map[metric.Metric][]judgment.Judgment, error) {
	out := make(map[metric.Metric][]judgment.Judgment, len(metrics))
	for _, mm := range metrics {
		js, err := m.ListByUser(ctx, token, mm)
		if err != nil {
			return nil, err
		}
		out[mm] = js
	}
	return out, nil
}

// --- Fixtures ---

func newUser(t *testing.T, token, task string, registeredAt int64) user.User {
	t.Helper()
	p := user.Profile{Age: 25, Gender: user.GenderOther, Task: task, Source: user.SourceURL}
	return user.Reconstruct(token, "pub-"+token, p, registeredAt)
}

func newSet(t *testing.T, task string, ids ...string) sample.Set {
	t.Helper()
	s, err := sample.NewSetFromIDs(task, ids)
	if err != nil {
		t.Fatalf("NewSetFromIDs: %v", err)
	}
	return s
}

type fixture struct {
	svc       *Service
	samples   *mockSamples
	users     *mockUsers
	judgments *memJudgments
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		samples: &mockSamples{sets: map[string]sample.Set{
			"abc":  newSet(t, "abc", "A", "B", "C"),
			"quad": newSet(t, "quad", "p", "q", "r", "s"),
		}},
		users: &mockUsers{users: []user.User{
			newUser(t, "tok", "abc", 100),
			newUser(t, "tok4", "quad", 200),
		}},
		judgments: newMemJudgments(),
	}
	f.svc = New(f.samples, f.users, f.judgments, nil).
		WithOptions(opts).
		WithRandSource(func() *rand.Rand { return rand.New(rand.NewSource(1)) })
	return f
}

func (f *fixture) submit(t *testing.T, token string, m metric.Metric, a, b string, ratio float64) {
	t.Helper()
	_, err := f.svc.Submit(context.Background(), SubmitInput{Token: token, Metric: m, A: a, B: b, Ratio: ratio})
	if err != nil {
		t.Fatalf("Submit(%s, %s, %s, %v): %v", token, a, b, ratio, err)
	}
}
