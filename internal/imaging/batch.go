package imaging

import (
	"context"
	"sync"

	"github.com/alitto/pond/v2"
)

// Job is one thumbnail to render.
type Job struct {
	ID   string
	URL  string
	Size Size
}

// Result carries the rendered text or the error for one Job.
type Result struct {
	ID     string
	Output string
	Err    error
}

// RenderFunc renders a single image; Renderer.Render satisfies it.
type RenderFunc func(ctx context.Context, imageURL string, size Size) (string, error)

// RenderBatch renders jobs on a bounded worker pool and returns one result
// per job in input order. Jobs not started before ctx is cancelled report
// ctx.Err().
func RenderBatch(ctx context.Context, jobs []Job, workers int, render RenderFunc) []Result {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	pool := pond.NewPool(workers, pond.WithContext(ctx))
	var mu sync.Mutex
	for i, job := range jobs {
		results[i] = Result{ID: job.ID, Err: context.Canceled}
		pool.Submit(func() {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				results[i].Err = err
				mu.Unlock()
				return
			}
			out, err := render(ctx, job.URL, job.Size)
			mu.Lock()
			results[i] = Result{ID: job.ID, Output: out, Err: err}
			mu.Unlock()
		})
	}
	pool.StopAndWait()
	return results
}
