package survey

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/pairwise/internal/db"
	"github.com/kailas-cloud/pairwise/internal/domain"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	"github.com/kailas-cloud/pairwise/internal/domain/pair"
	"github.com/kailas-cloud/pairwise/internal/metrics"
)

func ptr(m metric.Metric) *metric.Metric { return &m }

// --- Pairs ---

func TestPairs_AllPendingForNewUser(t *testing.T) {
	f := newFixture(t, Options{})

	res, err := f.svc.Pairs(context.Background(), "quad", "tok4", ptr(metric.Realistic))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 6 || res.Remaining != 6 || len(res.Pairs) != 6 {
		t.Fatalf("expected 6/6 pairs, got total=%d remaining=%d len=%d", res.Total, res.Remaining, len(res.Pairs))
	}

	seen := map[pair.Pair]bool{}
	for _, l := range res.Pairs {
		p, err := pair.New(l.A, l.B)
		if err != nil {
			t.Fatalf("invalid labeled pair %+v: %v", l, err)
		}
		if seen[p] {
			t.Errorf("pair %v listed twice", p)
		}
		seen[p] = true
		if len(l.Metrics) != 1 || l.Metrics[0] != metric.Realistic {
			t.Errorf("unexpected metrics %v", l.Metrics)
		}
	}
}

func TestPairs_ExcludesJudgedEitherDirection(t *testing.T) {
	f := newFixture(t, Options{})
	f.submit(t, "tok", metric.Realistic, "B", "A", 2) // reverse of canonical (A, B)
	f.submit(t, "tok", metric.Realistic, "A", "C", 3)

	res, err := f.svc.Pairs(context.Background(), "abc", "tok", ptr(metric.Realistic))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 3 || res.Remaining != 1 {
		t.Fatalf("expected 1 of 3 remaining, got %d of %d", res.Remaining, res.Total)
	}
	p, _ := pair.New(res.Pairs[0].A, res.Pairs[0].B)
	if p.Lo() != "B" || p.Hi() != "C" {
		t.Errorf("expected (B, C) pending, got %v", p)
	}

	// other metric untouched
	res, err = f.svc.Pairs(context.Background(), "abc", "tok", ptr(metric.Pleasing))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Remaining != 3 {
		t.Errorf("expected 3 pending for pleasing, got %d", res.Remaining)
	}
}

func TestPairs_AnyMetric(t *testing.T) {
	f := newFixture(t, Options{})
	f.submit(t, "tok", metric.Realistic, "A", "B", 2)
	f.submit(t, "tok", metric.Pleasing, "A", "B", 2)
	f.submit(t, "tok", metric.Realistic, "A", "C", 2)

	res, err := f.svc.Pairs(context.Background(), "abc", "tok", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Remaining != 2 {
		t.Fatalf("expected 2 pending pairs, got %d", res.Remaining)
	}
	for _, l := range res.Pairs {
		p, _ := pair.New(l.A, l.B)
		switch p.Key() {
		case "A|C":
			if len(l.Metrics) != 1 || l.Metrics[0] != metric.Pleasing {
				t.Errorf("A|C: expected only pleasing missing, got %v", l.Metrics)
			}
		case "B|C":
			if len(l.Metrics) != 2 {
				t.Errorf("B|C: expected both metrics missing, got %v", l.Metrics)
			}
		default:
			t.Errorf("unexpected pending pair %s", p.Key())
		}
	}
}

func TestPairs_UnknownTaskIsEmpty(t *testing.T) {
	f := newFixture(t, Options{})
	f.users.users = append(f.users.users, newUser(t, "tok0", "nope", 300))
	res, err := f.svc.Pairs(context.Background(), "nope", "tok0", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Pairs) != 0 {
		t.Errorf("expected no pairs, got %+v", res)
	}
}

func TestPairs_Errors(t *testing.T) {
	f := newFixture(t, Options{})

	if _, err := f.svc.Pairs(context.Background(), "abc", "ghost", nil); !errors.Is(err, domain.ErrUnregisteredUser) {
		t.Errorf("expected ErrUnregisteredUser, got %v", err)
	}
	if _, err := f.svc.Pairs(context.Background(), "abc", "tok", ptr("loud")); !errors.Is(err, domain.ErrInvalidMetric) {
		t.Errorf("expected ErrInvalidMetric, got %v", err)
	}

	storeErr := &db.Error{Op: db.OpHGetAll, Err: errors.New("down")}
	f.judgments.listErr = storeErr
	if _, err := f.svc.Pairs(context.Background(), "abc", "tok", nil); !errors.Is(err, storeErr) {
		t.Errorf("expected storage error, got %v", err)
	}
}

func TestPairs_ForeignTask(t *testing.T) {
	f := newFixture(t, Options{})
	m := metric.Realistic

	// tok is registered for abc; quad has samples of its own.
	_, err := f.svc.Pairs(context.Background(), "quad", "tok", &m)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Pairs(context.Background(), "quad", "tok", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound without metric, got %v", err)
	}
}

func TestPairs_SeededSourceIsDeterministic(t *testing.T) {
	a := newFixture(t, Options{})
	b := newFixture(t, Options{})

	ra, err := a.svc.Pairs(context.Background(), "quad", "tok4", ptr(metric.Realistic))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rb, err := b.svc.Pairs(context.Background(), "quad", "tok4", ptr(metric.Realistic))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range ra.Pairs {
		if ra.Pairs[i].A != rb.Pairs[i].A || ra.Pairs[i].B != rb.Pairs[i].B {
			t.Fatalf("position %d differs: %+v vs %+v", i, ra.Pairs[i], rb.Pairs[i])
		}
	}
}

// --- Submit ---

func TestSubmit_InvalidRatio(t *testing.T) {
	f := newFixture(t, Options{})
	for _, r := range []float64{0, -2, math.NaN()} {
		_, err := f.svc.Submit(context.Background(), SubmitInput{Token: "tok", Metric: metric.Realistic, A: "A", B: "B", Ratio: r})
		if !errors.Is(err, domain.ErrInvalidRatio) {
			t.Errorf("ratio %v: expected ErrInvalidRatio, got %v", r, err)
		}
	}
}

func TestSubmit_MaxRatio(t *testing.T) {
	f := newFixture(t, Options{MaxRatio: 9})
	_, err := f.svc.Submit(context.Background(), SubmitInput{Token: "tok", Metric: metric.Realistic, A: "A", B: "B", Ratio: 10})
	if !errors.Is(err, domain.ErrInvalidRatio) {
		t.Errorf("expected ErrInvalidRatio, got %v", err)
	}
}

func TestSubmit_Rejections(t *testing.T) {
	f := newFixture(t, Options{Metrics: []metric.Metric{metric.Realistic}})

	tests := []struct {
		name string
		in   SubmitInput
		want error
	}{
		{"unregistered", SubmitInput{Token: "ghost", Metric: metric.Realistic, A: "A", B: "B", Ratio: 1}, domain.ErrUnregisteredUser},
		{"unknown sample", SubmitInput{Token: "tok", Metric: metric.Realistic, A: "A", B: "Z", Ratio: 1}, domain.ErrUnknownSample},
		{"other task sample", SubmitInput{Token: "tok", Metric: metric.Realistic, A: "p", B: "q", Ratio: 1}, domain.ErrUnknownSample},
		{"disabled metric", SubmitInput{Token: "tok", Metric: metric.Pleasing, A: "A", B: "B", Ratio: 1}, domain.ErrInvalidMetric},
		{"same sample", SubmitInput{Token: "tok", Metric: metric.Realistic, A: "A", B: "A", Ratio: 1}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Submit(context.Background(), tt.in); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSubmit_DuplicateReverseDirection(t *testing.T) {
	f := newFixture(t, Options{})
	f.submit(t, "tok", metric.Realistic, "A", "B", 2)

	before := testutil.ToFloat64(metrics.JudgmentsTotal.WithLabelValues("realistic", "duplicate"))
	_, err := f.svc.Submit(context.Background(), SubmitInput{Token: "tok", Metric: metric.Realistic, A: "B", B: "A", Ratio: 0.5})
	if !errors.Is(err, domain.ErrDuplicateJudgment) {
		t.Fatalf("expected ErrDuplicateJudgment, got %v", err)
	}
	after := testutil.ToFloat64(metrics.JudgmentsTotal.WithLabelValues("realistic", "duplicate"))
	if after != before+1 {
		t.Errorf("expected duplicate counter to grow by 1, got %v -> %v", before, after)
	}
}

func TestSubmit_StorageFailureIsNotDomainError(t *testing.T) {
	f := newFixture(t, Options{})
	storeErr := &db.Error{Op: db.OpHSetNX, Err: errors.New("down")}
	f.judgments.createErr = storeErr

	_, err := f.svc.Submit(context.Background(), SubmitInput{Token: "tok", Metric: metric.Realistic, A: "A", B: "B", Ratio: 2})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if errors.Is(err, domain.ErrDuplicateJudgment) {
		t.Error("storage failure must not be reported as duplicate")
	}
}

// --- Ranking ---

func TestRanking_ThreeSamples(t *testing.T) {
	f := newFixture(t, Options{})
	f.submit(t, "tok", metric.Realistic, "A", "B", 2)
	f.submit(t, "tok", metric.Realistic, "C", "A", 1.0/3) // A over C = 3, submitted reversed
	f.submit(t, "tok", metric.Realistic, "B", "C", 1.5)

	ranking, err := f.svc.Ranking(context.Background(), "abc", "tok", metric.Realistic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []struct {
		id     string
		weight float64
	}{{"A", 0.545}, {"B", 0.273}, {"C", 0.182}}
	for i, w := range want {
		if ranking[i].SampleID != w.id || math.Abs(ranking[i].Weight-w.weight) > 1e-3 {
			t.Errorf("position %d: expected %s≈%v, got %s=%v", i, w.id, w.weight, ranking[i].SampleID, ranking[i].Weight)
		}
	}
}

func TestRanking_Incomplete(t *testing.T) {
	f := newFixture(t, Options{})
	f.submit(t, "tok", metric.Realistic, "A", "B", 2)
	f.submit(t, "tok", metric.Realistic, "A", "C", 3)

	_, err := f.svc.Ranking(context.Background(), "abc", "tok", metric.Realistic)
	if !errors.Is(err, domain.ErrMissingJudgment) {
		t.Fatalf("expected ErrMissingJudgment, got %v", err)
	}
	var missing *domain.MissingJudgmentError
	if !errors.As(err, &missing) || missing.SampleA != "B" || missing.SampleB != "C" {
		t.Errorf("expected missing pair (B, C), got %+v", missing)
	}
}

func TestRanking_Unregistered(t *testing.T) {
	f := newFixture(t, Options{})
	if _, err := f.svc.Ranking(context.Background(), "abc", "ghost", metric.Realistic); !errors.Is(err, domain.ErrUnregisteredUser) {
		t.Errorf("expected ErrUnregisteredUser, got %v", err)
	}
}

func TestRanking_ForeignTask(t *testing.T) {
	f := newFixture(t, Options{})
	f.submit(t, "tok", metric.Realistic, "A", "B", 2)
	f.submit(t, "tok", metric.Realistic, "A", "C", 3)
	f.submit(t, "tok", metric.Realistic, "B", "C", 1.5)

	_, err := f.svc.Ranking(context.Background(), "quad", "tok", metric.Realistic)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, domain.ErrMissingJudgment) {
		t.Error("foreign task must not report a missing judgment")
	}
}

func TestBreakdown_KeepsStages(t *testing.T) {
	f := newFixture(t, Options{})
	f.submit(t, "tok", metric.Pleasing, "A", "B", 1)
	f.submit(t, "tok", metric.Pleasing, "A", "C", 1)
	f.submit(t, "tok", metric.Pleasing, "B", "C", 1)

	b, err := f.svc.Breakdown(context.Background(), "abc", "tok", metric.Pleasing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Matrix.N() != 3 || b.Normalized.N() != 3 || len(b.Vector) != 3 {
		t.Fatalf("unexpected breakdown dimensions")
	}
	for i, w := range b.Vector {
		if math.Abs(w-1.0/3) > 1e-9 {
			t.Errorf("weight %d: expected 1/3, got %v", i, w)
		}
	}
}
