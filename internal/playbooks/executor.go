package playbooks

import (
	"fmt"
	"maps"

	"github.com/kaholo/kansible/internal/ansible"
	"github.com/kaholo/kansible/internal/api"
)

// Overrides are command-line values applied on top of a job.
type Overrides struct {
	Vars                []string
	Limit               []string
	Docker              *bool
	Image               string
	AdditionalArguments []string
}

// JobExecutor converts a Job to a RunPlaybookRequest
type JobExecutor struct{}

// NewJobExecutor creates a new JobExecutor
func NewJobExecutor() *JobExecutor {
	return &JobExecutor{}
}

// ToRunPlaybookRequest converts a Job to a RunPlaybookRequest.
// Override vars win over job vars with the same key, override limits replace
// the job's limits and override arguments are appended.
func (e *JobExecutor) ToRunPlaybookRequest(job *api.Job, o Overrides) (*api.RunPlaybookRequest, error) {
	req := job.RunPlaybookRequest

	if len(o.Vars) > 0 {
		base, err := ansible.ParseVars(job.Vars)
		if err != nil {
			return nil, fmt.Errorf("job vars: %w", err)
		}
		extra, err := ansible.ParseVars(api.PairVars(o.Vars...))
		if err != nil {
			return nil, err
		}
		merged := make(map[string]string, len(base)+len(extra))
		maps.Copy(merged, base)
		maps.Copy(merged, extra)
		req.Vars = api.MappingVars(merged)
	}

	if len(o.Limit) > 0 {
		req.Limit = api.StringList(o.Limit)
	}
	if o.Docker != nil {
		docker := *o.Docker
		req.Docker = &docker
	}
	if o.Image != "" {
		req.Image = o.Image
	}

	args := make(api.Arguments, 0, len(job.AdditionalArguments)+len(o.AdditionalArguments))
	args = append(args, job.AdditionalArguments...)
	args = append(args, o.AdditionalArguments...)
	req.AdditionalArguments = args

	return &req, nil
}
