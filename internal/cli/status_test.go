package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/kbtools/url2kb/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		result   string
		want     []string
		dontWant []string
	}{
		{
			name:   "pending",
			status: api.StatusPending,
			want:   []string{"Status: pending", "Still in progress"},
		},
		{
			name:   "running",
			status: api.StatusRunning,
			want:   []string{"Status: running", "Still in progress"},
		},
		{
			name:   "failed with reason",
			status: api.StatusFailed,
			result: `"fetch timed out"`,
			want:   []string{"Status: failed", "Reason: fetch timed out"},
		},
		{
			name:   "failed without reason",
			status: api.StatusFailed,
			result: `{"code":500}`,
			want:   []string{"Reason: unknown reason"},
		},
		{
			name:   "completed with chunks",
			status: api.StatusCompleted,
			result: `{"overall_summary":"sum","topics":[{"topic_id":3,"topic_summary":"t"}]}`,
			want: []string{
				"Extractable chunks (2):",
				"overall_summary.txt",
				"topic_3_summary.txt",
			},
		},
		{
			name:     "completed empty",
			status:   api.StatusCompleted,
			result:   `{}`,
			want:     []string{"No extractable content"},
			dontWant: []string{"Extractable chunks"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &api.StatusResponse{
				Status: tt.status,
				Result: json.RawMessage(tt.result),
			}

			var out bytes.Buffer
			require.NoError(t, renderStatus(&out, "task-1", st))

			assert.Contains(t, out.String(), "Task: task-1")
			for _, want := range tt.want {
				assert.Contains(t, out.String(), want)
			}
			for _, dontWant := range tt.dontWant {
				assert.NotContains(t, out.String(), dontWant)
			}
		})
	}
}
