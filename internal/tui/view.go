package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/eugenenazirov/flow-layout/internal/arrange"
)

var (
	segmentStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.AdaptiveColor{
		Light: "#7A7474",
		Dark:  "#9C9494",
	})
	selectedSegmentStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
				Foreground(lipgloss.Color("#7D56F4"))
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#DDDADA",
		Dark:  "#3C3C3C",
	})
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

const helpText = "←/→ switch • 1-5 jump • q quit"

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	picker := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.renderPicker())
	footer := helpStyle.Render(helpText)
	if m.err != nil {
		footer = errorStyle.Render(m.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		picker,
		"",
		m.renderCanvas(),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer),
	)
}

func (m Model) renderPicker() string {
	all := arrange.All()
	segments := make([]string, 0, len(all))
	for _, alg := range all {
		if alg == m.selected {
			segments = append(segments, selectedSegmentStyle.Render(alg.String()))
			continue
		}
		segments = append(segments, segmentStyle.Render(alg.String()))
	}
	return strings.Join(segments, separatorStyle.Render("│"))
}

// cell is one terminal cell of the canvas. owner is the capsule index or -1.
// r == 0 marks the trailing half of a wide rune.
type cell struct {
	r     rune
	owner int
}

func (m Model) renderCanvas() string {
	canvas := m.canvasSize()
	grid := m.rasterize(int(canvas.Width), int(canvas.Height))

	lines := make([]string, len(grid))
	for y, row := range grid {
		lines[y] = m.renderRow(row)
	}
	return strings.Join(lines, "\n")
}

// rasterize draws capsules in index order, so later capsules cover earlier ones.
func (m Model) rasterize(width, height int) [][]cell {
	grid := make([][]cell, height)
	for y := range grid {
		grid[y] = make([]cell, width)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' ', owner: -1}
		}
	}

	for i, pos := range m.Positions() {
		c := m.capsules[i]
		x0, y0 := int(math.Round(pos.X)), int(math.Round(pos.Y))
		w, h := int(c.size.Width), int(c.size.Height)

		for y := y0; y < y0+h; y++ {
			if y < 0 || y >= height {
				continue
			}
			for x := x0; x < x0+w; x++ {
				if x >= 0 && x < width && !isCorner(x-x0, y-y0, w, h) {
					grid[y][x] = cell{r: ' ', owner: i}
				}
			}
		}

		labelY := y0 + h/2
		if labelY < 0 || labelY >= height {
			continue
		}
		x := x0 + capsulePadding
		for _, r := range c.item.Label {
			rw := runewidth.RuneWidth(r)
			if x >= 0 && x+rw <= width {
				grid[labelY][x] = cell{r: r, owner: i}
				for k := 1; k < rw; k++ {
					grid[labelY][x+k] = cell{r: 0, owner: i}
				}
			}
			x += rw
		}
	}
	return grid
}

// isCorner reports whether local cell (x, y) is a corner of a w×h capsule.
// Corners stay transparent so the ends read as rounded.
func isCorner(x, y, w, h int) bool {
	if w < 3 || h < 3 {
		return false
	}
	return (x == 0 || x == w-1) && (y == 0 || y == h-1)
}

func (m Model) renderRow(row []cell) string {
	var b strings.Builder
	for start := 0; start < len(row); {
		owner := row[start].owner
		end := start
		var run strings.Builder
		for end < len(row) && row[end].owner == owner {
			if row[end].r != 0 {
				run.WriteRune(row[end].r)
			}
			end++
		}
		if owner < 0 {
			b.WriteString(run.String())
		} else {
			b.WriteString(m.capsules[owner].style.Render(run.String()))
		}
		start = end
	}
	return b.String()
}
