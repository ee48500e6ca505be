package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryResult_Found(t *testing.T) {
	var nilResult *QueryResult
	assert.False(t, nilResult.Found())
	assert.False(t, (&QueryResult{Answer: "no idea"}).Found())
	assert.True(t, (&QueryResult{Answer: "yes", Sources: []string{"a.pdf"}}).Found())
}

func TestQueryLogEntry_Found(t *testing.T) {
	assert.False(t, QueryLogEntry{}.Found())
	assert.True(t, QueryLogEntry{Sources: []string{"a.pdf"}}.Found())
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		format ExportFormat
		valid  bool
		ext    string
	}{
		{ExportText, true, ".txt"},
		{ExportJSON, true, ".json"},
		{ExportYAML, true, ".yaml"},
		{ExportFormat("csv"), false, ".txt"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.format.IsValid())
			assert.Equal(t, tt.ext, tt.format.Extension())
		})
	}
}
