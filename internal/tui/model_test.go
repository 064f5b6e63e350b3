package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/flow-layout/internal/arrange"
	"github.com/eugenenazirov/flow-layout/internal/flow"
)

func sized(t *testing.T, cfg Config, width, height int) Model {
	t.Helper()

	next, cmd := New(cfg, nil).Update(tea.WindowSizeMsg{Width: width, Height: height})
	assert.Nil(t, cmd)
	return next.(Model)
}

func press(t *testing.T, m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(key)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// settle delivers frame messages until the animation finishes.
func settle(t *testing.T, m Model) Model {
	t.Helper()

	for i := 0; m.Animating(); i++ {
		require.Less(t, i, 1000, "animation never settled")
		next, _ := m.Update(frameMsg{id: m.animID})
		m = next.(Model)
	}
	return m
}

func xs(points []flow.Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.X
	}
	return out
}

func TestInitialLayoutIsCenteredHStack(t *testing.T) {
	m := sized(t, DefaultConfig(), 80, 24)

	assert.Equal(t, arrange.HStack, m.Selected())
	assert.False(t, m.Animating())

	pos := m.Positions()
	require.Len(t, pos, 5)
	assert.Equal(t, []float64{11, 23, 35, 47, 59}, xs(pos))
	for _, p := range pos {
		assert.Equal(t, 9.0, p.Y)
	}
}

func TestSelectionAnimatesToZStack(t *testing.T) {
	m := sized(t, DefaultConfig(), 80, 24)
	before := m.Positions()

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, cmd, "selection change must schedule a frame")
	assert.Equal(t, arrange.ZStack, m.Selected())
	assert.True(t, m.Animating())
	assert.Equal(t, before, m.Positions(), "animation starts where capsules were")

	m = settle(t, m)
	for _, p := range m.Positions() {
		assert.Equal(t, flow.Point{X: 35, Y: 9}, p)
	}
}

func TestStaleFramesAreIgnored(t *testing.T) {
	m := sized(t, DefaultConfig(), 80, 24)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	stale := m.animID
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})

	next, cmd := m.Update(frameMsg{id: stale})
	assert.Nil(t, cmd)
	assert.Equal(t, m.frame, next.(Model).frame)
}

func TestNumberKeysJump(t *testing.T) {
	m := sized(t, DefaultConfig(), 30, 24)

	m, _ = press(t, m, runes("5"))
	assert.Equal(t, arrange.Flow, m.Selected())
	m = settle(t, m)
	assert.Equal(t, []flow.Point{{X: 4, Y: 4}, {X: 16, Y: 4}, {X: 4, Y: 9}, {X: 16, Y: 9}, {X: 4, Y: 14}}, m.Positions())

	m, cmd := press(t, m, runes("5"))
	assert.Nil(t, cmd, "reselecting the same algorithm is a no-op")

	m, _ = press(t, m, runes("1"))
	assert.Equal(t, arrange.VStack, m.Selected())
}

func TestPrevWrapsAround(t *testing.T) {
	m := sized(t, DefaultConfig(), 80, 24)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, arrange.VStack, m.Selected())
	m, _ = press(t, m, runes("h"))
	assert.Equal(t, arrange.Flow, m.Selected())
}

func TestQuitKeys(t *testing.T) {
	m := sized(t, DefaultConfig(), 80, 24)

	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := press(t, m, key)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestViewRendersPickerAndCapsules(t *testing.T) {
	assert.Empty(t, New(DefaultConfig(), nil).View(), "nothing to draw before the first resize")

	m := sized(t, DefaultConfig(), 80, 24)
	view := m.View()

	for _, alg := range arrange.All() {
		assert.Contains(t, view, alg.String())
	}
	for i := 0; i < 5; i++ {
		assert.Contains(t, view, "Item "+string(rune('0'+i)))
	}
	assert.Contains(t, view, "q quit")
	assert.Len(t, strings.Split(view, "\n"), 24)
}

func TestRasterizeLaterCapsulesCoverEarlier(t *testing.T) {
	m := sized(t, DefaultConfig(), 80, 24)
	m, _ = press(t, m, runes("3"))
	m = settle(t, m)

	grid := m.rasterize(80, 21)
	row := grid[10]
	assert.Equal(t, 4, row[35].owner)
	assert.Equal(t, 'I', row[37].r)
	assert.Equal(t, -1, row[34].owner)
	assert.Equal(t, -1, grid[8][35].owner)

	// rounded ends leave the four corners uncovered
	assert.Equal(t, -1, grid[9][35].owner)
	assert.Equal(t, -1, grid[11][35].owner)
	assert.Equal(t, 4, grid[9][36].owner)
	right := 35 + int(m.capsules[4].size.Width) - 1
	assert.Equal(t, 4, row[right].owner)
	assert.Equal(t, -1, grid[9][right].owner)
	assert.Equal(t, -1, grid[11][right].owner)
}

func TestIsCorner(t *testing.T) {
	assert.True(t, isCorner(0, 0, 10, 3))
	assert.True(t, isCorner(9, 2, 10, 3))
	assert.False(t, isCorner(1, 0, 10, 3))
	assert.False(t, isCorner(0, 1, 10, 3))
	assert.False(t, isCorner(0, 0, 2, 1), "tiny capsules stay solid")
}

func TestInvalidSpacingSurfacesError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Spacing = -1
	m := sized(t, cfg, 80, 24)

	require.Error(t, m.err)
	assert.ErrorIs(t, m.err, flow.ErrInvalidSpacing)
	assert.Contains(t, m.View(), "spacing")
}

func TestEaseInOut(t *testing.T) {
	assert.Equal(t, 0.0, easeInOut(-1))
	assert.Equal(t, 0.5, easeInOut(0.5))
	assert.Equal(t, 1.0, easeInOut(2))
	assert.InDelta(t, 0.125, easeInOut(0.25), 1e-9)
	assert.InDelta(t, 0.875, easeInOut(0.75), 1e-9)
}
