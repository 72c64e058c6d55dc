package cron

import "context"

// Job is a periodic housekeeping task. Run reports how many carts it removed.
type Job interface {
	Name() string
	Run(ctx context.Context) (int64, error)
}

// Registry holds the jobs executed on every cycle, in registration order.
type Registry struct {
	jobs []Job
}

func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{}
	for _, job := range jobs {
		registry.Register(job)
	}
	return registry
}

// Register appends a job; nil jobs are ignored so optional jobs can be passed unconditionally.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	r.jobs = append(r.jobs, job)
}

func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}

func (r *Registry) Len() int {
	return len(r.jobs)
}
