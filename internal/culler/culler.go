package culler

import (
	"errors"
	"sync"

	"github.com/warrenZY/folderpad/internal/broker"
	"github.com/warrenZY/folderpad/internal/model"
)

// Status represents the health of a persisted bookmark token.
type Status int

const (
	Healthy Status = iota // token resolves to a reachable folder
	Revoked               // the broker holds the grant but its folder is gone
	Lost                  // the broker holds no grant for the token
)

// Result holds the probe result for a single token.
type Result struct {
	Token  string
	Path   string // folder path when the probe resolved
	Status Status
	Error  string // reason for unhealthy tokens
}

// ProgressFunc is called after each token is probed.
// completed is the number of tokens probed so far, total is the total count.
type ProgressFunc func(completed, total int)

// ProbeTokens resolves every token concurrently and classifies the outcome.
// Probing is read-only against the bookmark set; pruning is the caller's
// decision.
func ProbeTokens(b broker.Broker, tokens []string, concurrency int, onProgress ProgressFunc) []Result {
	if len(tokens) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(tokens))
	jobs := make(chan int, len(tokens))
	var wg sync.WaitGroup

	// Progress tracking
	var progressMu sync.Mutex
	completed := 0

	// Start workers
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = probeToken(b, tokens[idx])

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(tokens))
					progressMu.Unlock()
				}
			}
		}()
	}

	// Send jobs
	for i := range tokens {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// probeToken resolves a single token and returns the result.
func probeToken(b broker.Broker, token string) Result {
	result := Result{Token: token}

	folder, err := b.ResolveToken(token)
	if err != nil {
		switch {
		case errors.Is(err, broker.ErrNotFound):
			result.Status = Lost
			result.Error = "no grant held for this token"
		case errors.Is(err, broker.ErrRevoked):
			result.Status = Revoked
			result.Error = "folder is no longer reachable"
		default:
			result.Status = Revoked
			result.Error = err.Error()
		}
		return result
	}

	result.Status = Healthy
	result.Path = folder.Path()
	return result
}

// Orphans returns registry grants whose token the bookmark set no longer
// references. These accumulate when a bookmark file edit drops a token
// without releasing the grant.
func Orphans(grants []model.Grant, tokens model.TokenSet) []model.Grant {
	var orphans []model.Grant
	for _, g := range grants {
		if !tokens.Contains(g.Token) {
			orphans = append(orphans, g)
		}
	}
	return orphans
}
