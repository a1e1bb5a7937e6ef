package chi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/pairwise/internal/domain/comparison"
	"github.com/kailas-cloud/pairwise/internal/domain/pair"
	"github.com/kailas-cloud/pairwise/internal/domain/sample"
	"github.com/kailas-cloud/pairwise/internal/domain/user"
	cataloguc "github.com/kailas-cloud/pairwise/internal/usecase/catalog"
	surveyuc "github.com/kailas-cloud/pairwise/internal/usecase/survey"
)

var validate = validator.New()

// RegisterRequest is the body of POST /users.
type RegisterRequest struct {
	Age        int    `json:"age" validate:"required,min=1,max=150"`
	Gender     string `json:"gender" validate:"required,oneof=male female other"`
	Education  string `json:"education" validate:"required,max=128"`
	Occupation string `json:"occupation" validate:"required,max=128"`
	From       string `json:"from,omitempty" validate:"omitempty,max=64"`
	Source     string `json:"source,omitempty" validate:"omitempty,max=128"`
	Task       string `json:"task" validate:"required"`
}

// RegisterResponse carries the issued tokens.
type RegisterResponse struct {
	Token  string `json:"token"`
	Public string `json:"public"`
}

// UserResponse describes a participant without its private token.
type UserResponse struct {
	Public       string `json:"public"`
	Task         string `json:"task"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	Education    string `json:"education"`
	Occupation   string `json:"occupation"`
	From         string `json:"from,omitempty"`
	Source       string `json:"source,omitempty"`
	RegisteredAt int64  `json:"registered_at"`
}

// TaskResponse is one task with its sample count.
type TaskResponse struct {
	Name    string `json:"name"`
	Samples int    `json:"samples"`
}

// SampleResponse is one sample of a task.
type SampleResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PairResponse is one pair to show, in presentation order.
type PairResponse struct {
	A       string   `json:"a"`
	B       string   `json:"b"`
	Metrics []string `json:"metrics"`
}

// PairsResponse is the body of GET .../pairs.
type PairsResponse struct {
	Total     int            `json:"total"`
	Remaining int            `json:"remaining"`
	Pairs     []PairResponse `json:"pairs"`
}

// JudgmentRequest is the body of POST /judgments.
// Weight is how strongly a is preferred over b.
type JudgmentRequest struct {
	Token      string   `json:"token" validate:"required"`
	Metric     string   `json:"metric" validate:"required"`
	A          string   `json:"a" validate:"required"`
	B          string   `json:"b" validate:"required"`
	Weight     *float64 `json:"weight" validate:"required"`
	Fullscreen bool     `json:"fullscreen"`
	VideoSize  uint16   `json:"video_size"`
}

// JudgmentResponse echoes an accepted judgment.
type JudgmentResponse struct {
	A         string  `json:"a"`
	B         string  `json:"b"`
	Metric    string  `json:"metric"`
	Weight    float64 `json:"weight"`
	CreatedAt int64   `json:"created_at"`
}

// WeightResponse is one ranked sample.
type WeightResponse struct {
	SampleID string  `json:"sample_id"`
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
}

// ScanResponse is the outcome of scanning one task directory.
type ScanResponse struct {
	Task        string   `json:"task"`
	Samples     int      `json:"samples"`
	WithoutData []string `json:"without_data,omitempty"`
}

// UserRankingResponse is one participant's ranking in an export.
type UserRankingResponse struct {
	Token   string           `json:"token"`
	Public  string           `json:"public"`
	Ranking []WeightResponse `json:"ranking"`
}

// SkippedResponse is a participant left out of an export.
type SkippedResponse struct {
	Token     string `json:"token"`
	Remaining int    `json:"remaining"`
}

// ExportResponse is the body of GET /admin/tasks/{task}/rankings.
type ExportResponse struct {
	Task     string                `json:"task"`
	Metric   string                `json:"metric"`
	Samples  int                   `json:"samples"`
	Rankings []UserRankingResponse `json:"rankings"`
	Skipped  []SkippedResponse     `json:"skipped"`
}

// IndexResponse is the body of GET /.
type IndexResponse struct {
	Service string   `json:"service"`
	Version string   `json:"version"`
	Metrics []string `json:"metrics"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// formatValidationErrors turns validator errors into one client message.
func formatValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}

func (r RegisterRequest) profile() user.Profile {
	return user.Profile{
		Age:        r.Age,
		Gender:     user.Gender(r.Gender),
		Education:  r.Education,
		Occupation: r.Occupation,
		From:       r.From,
		Source:     r.Source,
		Task:       r.Task,
	}
}

func userToResponse(u user.User) UserResponse {
	p := u.Profile()
	return UserResponse{
		Public:       u.Public(),
		Task:         p.Task,
		Age:          p.Age,
		Gender:       string(p.Gender),
		Education:    p.Education,
		Occupation:   p.Occupation,
		From:         p.From,
		Source:       p.Source,
		RegisteredAt: u.RegisteredAt(),
	}
}

func samplesToResponse(set sample.Set) []SampleResponse {
	out := make([]SampleResponse, set.Len())
	for i := range out {
		out[i] = SampleResponse{ID: set.At(i), Name: set.NameAt(i)}
	}
	return out
}

func pairsToResponse(r surveyuc.PairsResult) PairsResponse {
	return PairsResponse{Total: r.Total, Remaining: r.Remaining, Pairs: labeledToResponse(r.Pairs)}
}

func labeledToResponse(ls []pair.Labeled) []PairResponse {
	out := make([]PairResponse, len(ls))
	for i, l := range ls {
		ms := make([]string, len(l.Metrics))
		for j, m := range l.Metrics {
			ms[j] = m.String()
		}
		out[i] = PairResponse{A: l.A, B: l.B, Metrics: ms}
	}
	return out
}

func rankingToResponse(ws []comparison.Weight) []WeightResponse {
	out := make([]WeightResponse, len(ws))
	for i, w := range ws {
		out[i] = WeightResponse{SampleID: w.SampleID, Name: w.Name, Weight: w.Weight}
	}
	return out
}

func scansToResponse(scans []cataloguc.TaskScan) []ScanResponse {
	out := make([]ScanResponse, len(scans))
	for i, sc := range scans {
		out[i] = ScanResponse{Task: sc.Task, Samples: sc.Samples, WithoutData: sc.WithoutData}
	}
	return out
}

// NewExportResponse converts an export into its JSON form.
func NewExportResponse(e surveyuc.Export) ExportResponse {
	resp := ExportResponse{
		Task:     e.Task,
		Metric:   e.Metric.String(),
		Samples:  e.Samples,
		Rankings: make([]UserRankingResponse, len(e.Rankings)),
		Skipped:  make([]SkippedResponse, len(e.Skipped)),
	}
	for i, r := range e.Rankings {
		resp.Rankings[i] = UserRankingResponse{
			Token:   r.User.Token(),
			Public:  r.User.Public(),
			Ranking: rankingToResponse(r.Ranking),
		}
	}
	for i, s := range e.Skipped {
		resp.Skipped[i] = SkippedResponse{Token: s.Token, Remaining: s.Remaining}
	}
	return resp
}
