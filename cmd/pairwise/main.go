// Command pairwise serves the pairwise comparison survey and runs its
// maintenance tasks (sample scanning, ranking export, matrix inspection).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kailas-cloud/pairwise/internal/domain"
)

// Exit codes for different failure modes.
const (
	ExitError           = 1 // configuration or runtime error
	ExitRankingNotReady = 3 // a ranking was requested before every pair was judged
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, domain.ErrMissingJudgment) {
			os.Exit(ExitRankingNotReady)
		}
		os.Exit(ExitError)
	}
}
