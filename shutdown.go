package wyvern

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ShutdownJob is a cleanup task run during a graceful App.Shutdown, e.g.
// closing a database pool or flushing a metrics sink.
type ShutdownJob func(ctx context.Context) error

// shutdownJobs holds the registered ShutdownJobs of an App, run
// concurrently via errgroup on Shutdown.
type shutdownJobs struct {
	mu   sync.Mutex
	jobs map[string]ShutdownJob
}

func newShutdownJobs() *shutdownJobs {
	return &shutdownJobs{jobs: map[string]ShutdownJob{}}
}

// Add registers job under name, replacing any existing job with that name.
func (s *shutdownJobs) Add(name string, job ShutdownJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[name] = job
}

// Remove deregisters the job under name, if any.
func (s *shutdownJobs) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, name)
}

// RunAll runs every registered job concurrently, returning the first error
// encountered (if any) once all jobs have completed.
func (s *shutdownJobs) RunAll(ctx context.Context) error {
	s.mu.Lock()
	jobs := make([]ShutdownJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	s.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			return job(ctx)
		})
	}
	return g.Wait()
}
