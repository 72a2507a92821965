package ingest

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is what one source hands the pipeline: marked-up source texts,
// each of which goes through extraction independently.
type Result struct {
	Source string
	Texts  []string
}

// Source is anywhere announcement text can come from (operator paste, a
// watched mailbox).
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Result, error)
}

// Gather runs all sources with a shared per-source timeout. Best-effort: a
// failing source is logged and doesn't cancel its siblings.
func Gather(parent context.Context, sources []Source, timeout time.Duration) []Result {
	var g errgroup.Group
	results := make(chan Result, len(sources))

	for _, s := range sources {
		s := s
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(parent, timeout)
			defer cancel()

			log.Printf("[%s] fetching...", s.Name())
			res, err := s.Fetch(fctx)
			if err != nil {
				log.Printf("[ingest:%s] error: %v", s.Name(), err)
				return nil
			}
			results <- res
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	var out []Result
	for res := range results {
		out = append(out, res)
	}
	return out
}
