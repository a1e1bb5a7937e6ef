package pairwise

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pairwise/internal/db"
	dbRedis "github.com/kailas-cloud/pairwise/internal/db/redis"
	"github.com/kailas-cloud/pairwise/internal/domain/comparison"
	"github.com/kailas-cloud/pairwise/internal/domain/judgment"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	"github.com/kailas-cloud/pairwise/internal/domain/sample"
	"github.com/kailas-cloud/pairwise/internal/domain/user"
	judgmentrepo "github.com/kailas-cloud/pairwise/internal/repository/judgment"
	samplerepo "github.com/kailas-cloud/pairwise/internal/repository/sample"
	"github.com/kailas-cloud/pairwise/internal/repository/samplecache"
	userrepo "github.com/kailas-cloud/pairwise/internal/repository/user"
	cataloguc "github.com/kailas-cloud/pairwise/internal/usecase/catalog"
	participantuc "github.com/kailas-cloud/pairwise/internal/usecase/participant"
	surveyuc "github.com/kailas-cloud/pairwise/internal/usecase/survey"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for substitution in tests.
type surveyUseCase interface {
	Pairs(ctx context.Context, task, token string, m *metric.Metric) (surveyuc.PairsResult, error)
	Submit(ctx context.Context, in surveyuc.SubmitInput) (judgment.Judgment, error)
	Ranking(ctx context.Context, task, token string, m metric.Metric) ([]comparison.Weight, error)
	Export(ctx context.Context, task string, m metric.Metric) (surveyuc.Export, error)
}

type participantUseCase interface {
	Register(ctx context.Context, p user.Profile) (user.User, error)
	Get(ctx context.Context, token string) (user.User, error)
}

type catalogUseCase interface {
	Scan(ctx context.Context) ([]cataloguc.TaskScan, error)
	Tasks(ctx context.Context) ([]cataloguc.TaskSummary, error)
	Samples(ctx context.Context, task string) (sample.Set, error)
}

// Client is the pairwise SDK entry point.
type Client struct {
	store        db.Store
	survey       surveyUseCase
	participants participantUseCase
	catalog      catalogUseCase
	obs          *observer
}

// New creates a pairwise Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: "pairwise:", tasks: os.DirFS("tasks")}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("pairwise: database address required (use WithValkey or WithRedis)")
	}
	svcOpts, err := cfg.surveyOptions()
	if err != nil {
		return nil, err
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("pairwise: database not ready: %w", err)
	}

	return wireClient(store, cfg, svcOpts, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.addrs,
			Password:   cfg.password,
			ClientName: "pairwise-sdk",
		})
		if err != nil {
			return nil, fmt.Errorf("pairwise: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("pairwise: unknown driver %q", cfg.driver)
	}
}

func (cfg *clientConfig) surveyOptions() (surveyuc.Options, error) {
	var o surveyuc.Options
	if len(cfg.metrics) > 0 {
		ms, err := metric.ParseList(cfg.metrics)
		if err != nil {
			return o, fmt.Errorf("pairwise: %w", err)
		}
		o.Metrics = ms
	}
	policy, err := surveyuc.ParseExportPolicy(cfg.exportPolicy)
	if err != nil {
		return o, fmt.Errorf("pairwise: %w", err)
	}
	o.ExportPolicy = policy
	if cfg.maxRatio != 0 && cfg.maxRatio < 1 {
		return o, fmt.Errorf("pairwise: max ratio must be at least 1, got %g", cfg.maxRatio)
	}
	o.MaxRatio = cfg.maxRatio
	return o, nil
}

func wireClient(store db.Store, cfg *clientConfig, o surveyuc.Options, obs *observer) *Client {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	samples := samplerepo.New(store).WithPrefix(cfg.keyPrefix)
	users := userrepo.New(store).WithPrefix(cfg.keyPrefix)
	judgments := judgmentrepo.New(store).WithPrefix(cfg.keyPrefix)
	// No cache: other processes may rescan the same store.
	resolver := samplecache.New(samples, 0, nil, logger)

	return &Client{
		store:        store,
		survey:       surveyuc.New(resolver, users, judgments, logger).WithOptions(o),
		participants: participantuc.New(users, resolver, logger),
		catalog:      cataloguc.New(samples, resolver, resolver, cfg.tasks, logger),
		obs:          obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Scan reads the tasks directory and stores its samples.
func (c *Client) Scan(ctx context.Context) (_ []ScanResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("scan", start, err) }()

	scans, err := c.catalog.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	out := make([]ScanResult, len(scans))
	for i, sc := range scans {
		out[i] = ScanResult{Task: sc.Task, Samples: sc.Samples, WithoutData: sc.WithoutData}
	}
	return out, nil
}

// Tasks lists the stored tasks with their sample counts.
func (c *Client) Tasks(ctx context.Context) (_ []Task, err error) {
	start := time.Now()
	defer func() { c.obs.observe("tasks", start, err) }()

	tasks, err := c.catalog.Tasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("tasks: %w", err)
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = Task{Name: t.Name, Samples: t.Samples}
	}
	return out, nil
}

// Samples lists the samples of a task in canonical order.
func (c *Client) Samples(ctx context.Context, task string) (_ []Sample, err error) {
	start := time.Now()
	defer func() { c.obs.observe("samples", start, err) }()

	set, err := c.catalog.Samples(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("samples: %w", err)
	}
	out := make([]Sample, set.Len())
	for i := range out {
		out[i] = Sample{ID: set.At(i), Name: set.NameAt(i)}
	}
	return out, nil
}

// Register registers a participant and issues its tokens.
func (c *Client) Register(ctx context.Context, p Profile) (_ Participant, err error) {
	start := time.Now()
	defer func() { c.obs.observe("register", start, err) }()

	u, err := c.participants.Register(ctx, user.Profile{
		Age:        p.Age,
		Gender:     user.Gender(p.Gender),
		Education:  p.Education,
		Occupation: p.Occupation,
		From:       p.From,
		Source:     p.Source,
		Task:       p.Task,
	})
	if err != nil {
		return Participant{}, fmt.Errorf("register: %w", err)
	}
	return participantFromUser(u), nil
}

// Participant looks up a participant by private token.
func (c *Client) Participant(ctx context.Context, token string) (_ Participant, err error) {
	start := time.Now()
	defer func() { c.obs.observe("participant", start, err) }()

	u, err := c.participants.Get(ctx, token)
	if err != nil {
		return Participant{}, fmt.Errorf("participant: %w", err)
	}
	return participantFromUser(u), nil
}

// Pairs returns the pairs a participant still has to judge, in a fresh
// random presentation order. An empty metric means every enabled metric.
func (c *Client) Pairs(ctx context.Context, task, token, metricName string) (_ Pairs, err error) {
	start := time.Now()
	defer func() { c.obs.observe("pairs", start, err) }()

	var m *metric.Metric
	if metricName != "" {
		mm := parseMetric(metricName)
		m = &mm
	}
	res, err := c.survey.Pairs(ctx, task, token, m)
	if err != nil {
		return Pairs{}, fmt.Errorf("pairs: %w", err)
	}
	out := Pairs{Total: res.Total, Remaining: res.Remaining, Pairs: make([]Pair, len(res.Pairs))}
	for i, l := range res.Pairs {
		ms := make([]string, len(l.Metrics))
		for j, lm := range l.Metrics {
			ms[j] = lm.String()
		}
		out.Pairs[i] = Pair{A: l.A, B: l.B, Metrics: ms}
	}
	return out, nil
}

// Submit records one judgment.
func (c *Client) Submit(ctx context.Context, j Judgment) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("submit", start, err) }()

	_, err = c.survey.Submit(ctx, surveyuc.SubmitInput{
		Token:  j.Token,
		Metric: parseMetric(j.Metric),
		A:      j.A,
		B:      j.B,
		Ratio:  j.Ratio,
		Options: judgment.Options{
			Fullscreen: j.Fullscreen,
			VideoSize:  j.VideoSize,
		},
	})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}

// Ranking ranks the task's samples from one participant's judgments.
func (c *Client) Ranking(ctx context.Context, task, token, metricName string) (_ []Weight, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ranking", start, err) }()

	ws, err := c.survey.Ranking(ctx, task, token, parseMetric(metricName))
	if err != nil {
		return nil, fmt.Errorf("ranking: %w", err)
	}
	return weightsFromDomain(ws), nil
}

// Export ranks every registered participant of a task.
func (c *Client) Export(ctx context.Context, task, metricName string) (_ Export, err error) {
	start := time.Now()
	defer func() { c.obs.observe("export", start, err) }()

	e, err := c.survey.Export(ctx, task, parseMetric(metricName))
	if err != nil {
		return Export{}, fmt.Errorf("export: %w", err)
	}
	out := Export{
		Task:     e.Task,
		Metric:   e.Metric.String(),
		Samples:  e.Samples,
		Rankings: make([]UserRanking, len(e.Rankings)),
		Skipped:  make([]Skipped, len(e.Skipped)),
	}
	for i, r := range e.Rankings {
		out.Rankings[i] = UserRanking{Token: r.User.Token(), Public: r.User.Public(), Ranking: weightsFromDomain(r.Ranking)}
	}
	for i, s := range e.Skipped {
		out.Skipped[i] = Skipped{Token: s.Token, Remaining: s.Remaining}
	}
	return out, nil
}

func parseMetric(s string) metric.Metric {
	return metric.Metric(strings.ToLower(strings.TrimSpace(s)))
}

func participantFromUser(u user.User) Participant {
	return Participant{Token: u.Token(), Public: u.Public(), Task: u.Task(), RegisteredAt: u.RegisteredAt()}
}

func weightsFromDomain(ws []comparison.Weight) []Weight {
	out := make([]Weight, len(ws))
	for i, w := range ws {
		out[i] = Weight{SampleID: w.SampleID, Name: w.Name, Weight: w.Weight}
	}
	return out
}
