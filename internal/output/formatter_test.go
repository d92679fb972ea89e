package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Formatter
		wantErr bool
	}{
		{"empty defaults to human", "", humanFormatter{}, false},
		{"human explicit", "human", humanFormatter{}, false},
		{"human case-insensitive", "HUMAN", humanFormatter{}, false},
		{"json", "json", jsonFormatter{}, false},
		{"unknown format errors", "yaml", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewFormatter(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
