package playbooks

import (
	"testing"

	"github.com/kaholo/kansible/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobExecutor_ToRunPlaybookRequest(t *testing.T) {
	falseValue := false
	job := &api.Job{
		Description: "deploy",
		RunPlaybookRequest: api.RunPlaybookRequest{
			PlaybookPath:        "site.yml",
			Limit:               api.StringList{"web"},
			Vars:                api.TextVars("release=1\nenv=prod"),
			AdditionalArguments: api.Arguments{"--diff"},
			Image:               "job/image",
		},
	}

	t.Run("no overrides keeps the job", func(t *testing.T) {
		req, err := NewJobExecutor().ToRunPlaybookRequest(job, Overrides{})
		require.NoError(t, err)
		assert.Equal(t, job.Vars, req.Vars)
		assert.Equal(t, job.Limit, req.Limit)
		assert.Equal(t, api.Arguments{"--diff"}, req.AdditionalArguments)
		assert.Nil(t, req.Docker)
	})

	t.Run("overrides win", func(t *testing.T) {
		req, err := NewJobExecutor().ToRunPlaybookRequest(job, Overrides{
			Vars:                []string{"release=2", "extra=a=b"},
			Limit:               []string{"db"},
			Docker:              &falseValue,
			Image:               "cli/image",
			AdditionalArguments: []string{"--check"},
		})
		require.NoError(t, err)

		assert.Equal(t, api.MappingVars(map[string]string{"release": "2", "env": "prod", "extra": "a=b"}), req.Vars)
		assert.Equal(t, api.StringList{"db"}, req.Limit)
		require.NotNil(t, req.Docker)
		assert.False(t, *req.Docker)
		assert.Equal(t, "cli/image", req.Image)
		assert.Equal(t, api.Arguments{"--diff", "--check"}, req.AdditionalArguments)

		assert.Equal(t, api.Arguments{"--diff"}, job.AdditionalArguments)
		assert.Equal(t, api.StringList{"web"}, job.Limit)
	})

	t.Run("invalid override vars", func(t *testing.T) {
		_, err := NewJobExecutor().ToRunPlaybookRequest(job, Overrides{Vars: []string{"novalue"}})
		assert.Error(t, err)
	})
}
