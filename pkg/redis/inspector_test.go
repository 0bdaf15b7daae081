package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmxmxh/queuewatch/pkg/collector"
)

func TestParseProcess(t *testing.T) {
	tests := []struct {
		name    string
		fields  []interface{}
		want    collector.ProcessSnapshot
		wantErr string
	}{
		{
			name:   "valid busy process",
			fields: []interface{}{`{"concurrency":10,"hostname":"worker-1"}`, "3", "false"},
			want:   collector.ProcessSnapshot{Concurrency: 10, Busy: 3, Quiet: false},
		},
		{
			name:   "valid quiet process",
			fields: []interface{}{`{"concurrency":5}`, "5", "true"},
			want:   collector.ProcessSnapshot{Concurrency: 5, Busy: 5, Quiet: true},
		},
		{
			name:    "absent info field",
			fields:  []interface{}{nil, "3", "false"},
			wantErr: "missing info field",
		},
		{
			name:    "info without concurrency",
			fields:  []interface{}{`{"hostname":"worker-1"}`, "3", "false"},
			wantErr: "missing concurrency",
		},
		{
			name:    "garbled info json",
			fields:  []interface{}{`{not json`, "3", "false"},
			wantErr: "decode info",
		},
		{
			name:    "absent busy field",
			fields:  []interface{}{`{"concurrency":10}`, nil, "false"},
			wantErr: "missing busy field",
		},
		{
			name:    "non-numeric busy",
			fields:  []interface{}{`{"concurrency":10}`, "lots", "false"},
			wantErr: "parse busy",
		},
		{
			name:    "absent quiet field",
			fields:  []interface{}{`{"concurrency":10}`, "3", nil},
			wantErr: "missing quiet field",
		},
		{
			name:    "unparseable quiet",
			fields:  []interface{}{`{"concurrency":10}`, "3", "maybe"},
			wantErr: "parse quiet",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseProcess(tt.fields)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
