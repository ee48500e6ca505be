package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/khalid0211/FileRAG/internal/adapters/driven/storage/memory"
	"github.com/khalid0211/FileRAG/internal/core/domain"
)

func frozenClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestHistoryService_Record_StrictlyIncreasing(t *testing.T) {
	log := memory.NewQueryLog()
	svc := NewHistoryService(log)
	svc.now = frozenClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	var prev time.Time
	for i := 0; i < 5; i++ {
		entry, err := svc.Record(ctx, fmt.Sprintf("q%d", i), "a", nil)
		require.NoError(t, err)
		assert.True(t, entry.Timestamp.After(prev), "entry %d not after previous", i)
		prev = entry.Timestamp
	}
}

func TestHistoryService_Record_SeededFromLog(t *testing.T) {
	log := memory.NewQueryLog()
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, log.Append(context.Background(), domain.QueryLogEntry{Timestamp: future, Question: "old"}))

	svc := NewHistoryService(log)
	svc.now = frozenClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	entry, err := svc.Record(context.Background(), "new", "a", nil)
	require.NoError(t, err)
	assert.True(t, entry.Timestamp.After(future))
}

func TestHistoryService_Record_AppendFailureIsWarning(t *testing.T) {
	log := memory.NewQueryLog()
	log.SetAppendErr(errors.New("no space left on device"))
	svc := NewHistoryService(log)

	entry, err := svc.Record(context.Background(), "q", "a", []string{"s"})

	require.NotNil(t, entry)
	assert.Equal(t, "q", entry.Question)
	var warning *domain.Warning
	require.ErrorAs(t, err, &warning)
	assert.Contains(t, warning.Error(), "no space left on device")
}

func TestHistoryService_Record_CopiesSources(t *testing.T) {
	log := memory.NewQueryLog()
	svc := NewHistoryService(log)
	sources := []string{"a.pdf"}

	_, err := svc.Record(context.Background(), "q", "a", sources)
	require.NoError(t, err)
	sources[0] = "mutated"

	entries, _ := log.ReadAll(context.Background())
	assert.Equal(t, []string{"a.pdf"}, entries[0].Sources)
}

func recordMany(t *testing.T, svc *HistoryService, m int) {
	t.Helper()
	for i := 0; i < m; i++ {
		_, err := svc.Record(context.Background(),
			fmt.Sprintf("question %d", i),
			fmt.Sprintf("answer %d", i),
			[]string{fmt.Sprintf("doc-%d.pdf", i)})
		require.NoError(t, err)
	}
}

func TestHistoryService_ExportAll_JSON(t *testing.T) {
	svc := NewHistoryService(memory.NewQueryLog())
	svc.now = tickingClock()
	recordMany(t, svc, 3)

	data, err := svc.ExportAll(context.Background(), domain.ExportJSON)
	require.NoError(t, err)

	var entries []domain.QueryLogEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("question %d", i), e.Question)
		assert.Equal(t, fmt.Sprintf("answer %d", i), e.Answer)
		assert.Equal(t, []string{fmt.Sprintf("doc-%d.pdf", i)}, e.Sources)
		if i > 0 {
			assert.True(t, e.Timestamp.After(entries[i-1].Timestamp))
		}
	}
}

func TestHistoryService_ExportAll_YAML(t *testing.T) {
	svc := NewHistoryService(memory.NewQueryLog())
	recordMany(t, svc, 2)

	data, err := svc.ExportAll(context.Background(), domain.ExportYAML)
	require.NoError(t, err)

	var entries []domain.QueryLogEntry
	require.NoError(t, yaml.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "question 1", entries[1].Question)
}

func TestHistoryService_ExportAll_Text(t *testing.T) {
	svc := NewHistoryService(memory.NewQueryLog())
	ctx := context.Background()
	_, _ = svc.Record(ctx, "What is in a.pdf?", "A report.", []string{"a.pdf"})
	_, _ = svc.Record(ctx, "Unknown?", "I could not find that.", nil)
	require.NoError(t, svc.Rate(ctx, "What is in a.pdf?", 4, "useful"))

	data, err := svc.ExportAll(ctx, "")
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "# FileRAG Query History\n"))
	assert.Contains(t, out, "# Entries: 2\n")
	assert.Contains(t, out, "Query: What is in a.pdf?\n")
	assert.Contains(t, out, "Answer: A report.\n")
	assert.Contains(t, out, "  1. Document: a.pdf\n")
	assert.Contains(t, out, "Status: Found\n")
	assert.Contains(t, out, "Sources: No sources found\n")
	assert.Contains(t, out, "Status: Not Found\n")
	assert.Contains(t, out, "Rating: **** (4/5)\n")
	assert.Contains(t, out, "Note: useful\n")
	assert.Less(t, strings.Index(out, "What is in a.pdf?"), strings.Index(out, "Unknown?"))
}

func TestHistoryService_ExportAll_Empty(t *testing.T) {
	svc := NewHistoryService(memory.NewQueryLog())

	data, err := svc.ExportAll(context.Background(), domain.ExportJSON)

	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestHistoryService_ExportAll_InvalidFormat(t *testing.T) {
	svc := NewHistoryService(memory.NewQueryLog())

	_, err := svc.ExportAll(context.Background(), domain.ExportFormat("csv"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryService_Count(t *testing.T) {
	svc := NewHistoryService(memory.NewQueryLog())
	recordMany(t, svc, 4)

	n, err := svc.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestHistoryService_Rate_Validation(t *testing.T) {
	log := memory.NewQueryLog()
	svc := NewHistoryService(log)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Rate(ctx, "q", 0, ""), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Rate(ctx, "q", 6, ""), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Rate(ctx, " ", 3, ""), domain.ErrInvalidInput)
	require.NoError(t, svc.Rate(ctx, "q", 5, ""))

	ratings, _ := log.Ratings(ctx)
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].Score)

	entries, _ := log.ReadAll(ctx)
	assert.Empty(t, entries)
}
