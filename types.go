package pairwise

// Profile holds the demographic answers of a registering participant.
type Profile struct {
	Age        int
	Gender     string // male, female or other
	Education  string
	Occupation string
	From       string // public token of the referring participant, optional
	Source     string
	Task       string
}

// Participant is a registered participant.
type Participant struct {
	Token        string // private, authorizes judgments
	Public       string // shareable
	Task         string
	RegisteredAt int64 // unix millis
}

// Sample is one media sample of a task.
type Sample struct {
	ID   string
	Name string
}

// Task is a task with its sample count.
type Task struct {
	Name    string
	Samples int
}

// ScanResult is the outcome of scanning one task directory.
type ScanResult struct {
	Task        string
	Samples     int
	WithoutData []string
}

// Pair is one pair to present, in presentation order.
type Pair struct {
	A       string
	B       string
	Metrics []string // metrics still missing a judgment for this pair
}

// Pairs is the progress of a participant plus the pairs left to judge.
type Pairs struct {
	Total     int
	Remaining int
	Pairs     []Pair
}

// Judgment is one pairwise preference: Ratio is how strongly A is
// preferred over B.
type Judgment struct {
	Token      string
	Metric     string
	A          string
	B          string
	Ratio      float64
	Fullscreen bool
	VideoSize  uint16
}

// Weight is one ranked sample.
type Weight struct {
	SampleID string
	Name     string
	Weight   float64
}

// UserRanking is one participant's ranking in an export.
type UserRanking struct {
	Token   string
	Public  string
	Ranking []Weight
}

// Skipped is a participant left out of an export with its remaining pair count.
type Skipped struct {
	Token     string
	Remaining int
}

// Export holds the rankings of every participant of a task.
type Export struct {
	Task     string
	Metric   string
	Samples  int
	Rankings []UserRanking
	Skipped  []Skipped
}
