package judgment

import (
	"encoding/json"
	"fmt"

	domjudgment "github.com/kailas-cloud/pairwise/internal/domain/judgment"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	"github.com/kailas-cloud/pairwise/internal/domain/pair"
)

// judgmentRow is the JSON value stored under a pair field. Ratio is always
// the preference of the pair's Lo over its Hi; Canonical records whether the
// participant saw Lo labeled "a".
type judgmentRow struct {
	Ratio      float64 `json:"ratio"`
	Canonical  bool    `json:"canonical"`
	Fullscreen bool    `json:"fullscreen,omitempty"`
	VideoSize  uint16  `json:"video_size,omitempty"`
	CreatedAt  int64   `json:"created_at"`
}

func judgmentToValue(j domjudgment.Judgment) (string, error) {
	data, err := json.Marshal(judgmentRow{
		Ratio:      j.CanonicalRatio(),
		Canonical:  j.Canonical(),
		Fullscreen: j.Fullscreen(),
		VideoSize:  j.VideoSize(),
		CreatedAt:  j.CreatedAt(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal judgment: %w", err)
	}
	return string(data), nil
}

func judgmentFromValue(token string, m metric.Metric, p pair.Pair, value string) (domjudgment.Judgment, error) {
	var row judgmentRow
	if err := json.Unmarshal([]byte(value), &row); err != nil {
		return domjudgment.Judgment{}, fmt.Errorf("unmarshal judgment: %w", err)
	}
	opts := domjudgment.Options{Fullscreen: row.Fullscreen, VideoSize: row.VideoSize}
	return domjudgment.FromCanonical(token, m, p, row.Ratio, row.Canonical, opts, row.CreatedAt), nil
}
