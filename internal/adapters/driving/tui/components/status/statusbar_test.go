package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/keymap"
	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, 80, bar.Width())
	assert.Empty(t, bar.StoreName())
}

func TestNewBar_NilDependencies(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
	assert.NotEmpty(t, bar.hints)
}

func TestBar_Update(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(nil)

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestBar_View_States(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(b *Bar)
		contains string
	}{
		{"no store", func(b *Bar) {}, "No store"},
		{"ready with store", func(b *Bar) { b.SetStore("handbook", 3) }, "handbook (3 documents)"},
		{"singular", func(b *Bar) { b.SetStore("handbook", 1) }, "1 document)"},
		{"thinking", func(b *Bar) { b.SetState(StateThinking) }, "Thinking..."},
		{"error with message", func(b *Bar) {
			b.SetState(StateError)
			b.SetMessage("network down")
		}, "Error: network down"},
		{"error without message", func(b *Bar) { b.SetState(StateError) }, "Error"},
		{"stale", func(b *Bar) {
			b.SetStore("handbook", 2)
			b.SetState(StateStale)
		}, "Offline: handbook"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(200)
			tt.setup(bar)

			assert.Contains(t, bar.View(), tt.contains)
		})
	}
}

func TestBar_View_ShowsHints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)

	view := bar.View()

	assert.Contains(t, view, "enter: ask")
}

func TestBar_SetHints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(200)

	bar.SetHints(km.DocumentsHelp())

	assert.Contains(t, bar.View(), "esc: back")
}

func TestBar_Clear_KeepsStore(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetStore("handbook", 4)
	bar.SetState(StateError)
	bar.SetMessage("boom")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, "handbook", bar.StoreName())
	assert.Equal(t, 4, bar.DocumentCount())
}
