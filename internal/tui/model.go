// Package tui is a terminal rendition of the arrangement picker: a segmented
// control of the five algorithms above a canvas of colored capsules that
// animate to their new places on every selection change.
package tui

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/eugenenazirov/flow-layout/internal/arrange"
	"github.com/eugenenazirov/flow-layout/internal/flow"
	"github.com/eugenenazirov/flow-layout/internal/palette"
)

const (
	capsulePadding = 2
	capsuleHeight  = 3
	// rows taken by the picker, the gap below it and the help line
	chromeRows = 3
)

// Config holds the demo parameters, all in terminal cells.
type Config struct {
	Initial       arrange.Algorithm
	Spacing       float64
	Radius        float64 // zero picks the largest circle that fits
	ItemCount     int
	InlineFirst   bool
	Frames        int
	FrameInterval time.Duration
}

// DefaultConfig starts on hstack with five items.
func DefaultConfig() Config {
	return Config{
		Initial:       arrange.HStack,
		Spacing:       2,
		ItemCount:     5,
		Frames:        12,
		FrameInterval: 30 * time.Millisecond,
	}
}

type capsule struct {
	item  palette.Item
	size  flow.Size
	style lipgloss.Style
}

type frameMsg struct {
	id int
}

// Model is the bubbletea model of the demo.
type Model struct {
	cfg    Config
	logger *zap.Logger

	capsules []capsule
	selected arrange.Algorithm

	width, height int

	from, to []flow.Point
	frame    int
	animID   int
	err      error
}

// New builds the model. A nil logger discards log output.
func New(cfg Config, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Initial.Valid() {
		cfg.Initial = arrange.HStack
	}
	if cfg.Frames < 1 {
		cfg.Frames = 1
	}

	items := palette.Items(cfg.ItemCount)
	capsules := make([]capsule, len(items))
	for i, item := range items {
		capsules[i] = capsule{
			item: item,
			size: flow.Size{
				Width:  float64(runewidth.StringWidth(item.Label) + 2*capsulePadding),
				Height: capsuleHeight,
			},
			style: lipgloss.NewStyle().
				Background(lipgloss.Color(item.Color)).
				Foreground(lipgloss.Color("#FFFFFF")),
		}
	}

	return Model{
		cfg:      cfg,
		logger:   logger,
		capsules: capsules,
		selected: cfg.Initial,
	}
}

// Selected returns the current algorithm.
func (m Model) Selected() arrange.Algorithm {
	return m.selected
}

// Animating reports whether capsules are still moving.
func (m Model) Animating() bool {
	return m.frame < m.cfg.Frames
}

// Positions returns the current top-left cell of every capsule.
func (m Model) Positions() []flow.Point {
	if len(m.to) == 0 {
		return nil
	}
	t := easeInOut(float64(m.frame) / float64(m.cfg.Frames))
	out := make([]flow.Point, len(m.to))
	for i := range m.to {
		out[i] = flow.Point{
			X: m.from[i].X + (m.to[i].X-m.from[i].X)*t,
			Y: m.from[i].Y + (m.to[i].Y-m.from[i].Y)*t,
		}
	}
	return out
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.relayout(false)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case frameMsg:
		if msg.id != m.animID || !m.Animating() {
			return m, nil
		}
		m.frame++
		if m.Animating() {
			return m, m.tick()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "right", "l", "tab":
		return m.selectAlgorithm(m.selected.Next())
	case "left", "h", "shift+tab":
		return m.selectAlgorithm(m.selected.Prev())
	case "1", "2", "3", "4", "5":
		all := arrange.All()
		return m.selectAlgorithm(all[int(key[0]-'1')])
	}
	return m, nil
}

func (m Model) selectAlgorithm(alg arrange.Algorithm) (tea.Model, tea.Cmd) {
	if alg == m.selected {
		return m, nil
	}
	m.logger.Debug("algorithm selected",
		zap.String("from", m.selected.String()),
		zap.String("to", alg.String()),
	)
	m.selected = alg
	if !m.relayout(true) {
		return m, nil
	}
	return m, m.tick()
}

// relayout recomputes target positions for the current selection and canvas.
// With animate set, capsules travel from where they are now; it reports
// whether an animation was started.
func (m *Model) relayout(animate bool) bool {
	if m.width <= 0 {
		return false
	}
	targets, err := m.targets()
	if err != nil {
		m.err = err
		m.logger.Warn("layout failed", zap.String("algorithm", m.selected.String()), zap.Error(err))
		return false
	}
	m.err = nil

	current := m.Positions()
	m.animID++
	m.to = targets
	if !animate || current == nil {
		m.from = targets
		m.frame = m.cfg.Frames
		return false
	}
	m.from = current
	m.frame = 0
	return true
}

func (m Model) targets() ([]flow.Point, error) {
	canvas := m.canvasSize()
	sizes := make([]flow.Size, len(m.capsules))
	for i, c := range m.capsules {
		sizes[i] = c.size
	}

	layout, err := arrange.New(m.selected, arrange.Options{
		Spacing:     m.cfg.Spacing,
		Radius:      m.radius(sizes, canvas),
		InlineFirst: m.cfg.InlineFirst,
	})
	if err != nil {
		return nil, err
	}
	res, err := layout.Arrange(sizes, canvas)
	if err != nil {
		return nil, err
	}

	// center the bounding box on the canvas
	origin := flow.Point{
		X: math.Max(0, math.Floor((canvas.Width-res.Size.Width)/2)),
		Y: math.Max(0, math.Floor((canvas.Height-res.Size.Height)/2)),
	}
	return arrange.Translate(res, origin), nil
}

func (m Model) radius(sizes []flow.Size, canvas flow.Size) float64 {
	if m.cfg.Radius > 0 {
		return m.cfg.Radius
	}
	var maxW, maxH float64
	for _, s := range sizes {
		maxW = math.Max(maxW, s.Width)
		maxH = math.Max(maxH, s.Height)
	}
	return math.Max(0, math.Floor(math.Min((canvas.Width-maxW)/2, (canvas.Height-maxH)/2)))
}

func (m Model) canvasSize() flow.Size {
	return flow.Size{
		Width:  float64(max(0, m.width)),
		Height: float64(max(0, m.height-chromeRows)),
	}
}

func (m Model) tick() tea.Cmd {
	id := m.animID
	return tea.Tick(m.cfg.FrameInterval, func(time.Time) tea.Msg {
		return frameMsg{id: id}
	})
}

func easeInOut(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 2 * t * t
	default:
		return 1 - math.Pow(-2*t+2, 2)/2
	}
}
