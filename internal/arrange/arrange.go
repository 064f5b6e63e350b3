// Package arrange dispatches a closed set of arrangement strategies over
// item sizes. Flow-wrap delegates to package flow; the stacks and the
// circle are simple closed-form placements.
package arrange

import (
	"fmt"
	"math"

	"github.com/eugenenazirov/flow-layout/internal/flow"
)

// DefaultRadius is the circle radius used when none is configured.
const DefaultRadius = 200.0

// ErrInvalidRadius is returned when the circle radius is negative or not finite.
var ErrInvalidRadius = fmt.Errorf("%w: radius must be a finite non-negative number", flow.ErrInvalidInput)

// Options carries strategy parameters shared by all algorithms.
type Options struct {
	Spacing     float64
	Radius      float64
	InlineFirst bool
}

// DefaultOptions returns spacing 10 and radius 200.
func DefaultOptions() Options {
	return Options{Spacing: flow.DefaultSpacing, Radius: DefaultRadius}
}

// Layout computes top-left offsets for items inside a proposed container.
type Layout interface {
	Arrange(sizes []flow.Size, container flow.Size) (flow.Result, error)
}

// LayoutFunc adapts a plain function to Layout.
type LayoutFunc func(sizes []flow.Size, container flow.Size) flow.Result

// Arrange validates sizes and the container width, then calls f.
func (f LayoutFunc) Arrange(sizes []flow.Size, container flow.Size) (flow.Result, error) {
	if err := flow.ValidateSizes(sizes); err != nil {
		return flow.Result{}, err
	}
	if !flow.ValidLength(container.Width) {
		return flow.Result{}, flow.ErrInvalidContainerWidth
	}
	return f(sizes, container), nil
}

// New returns the Layout for alg configured with opts.
func New(alg Algorithm, opts Options) (Layout, error) {
	if !flow.ValidLength(opts.Spacing) {
		return nil, flow.ErrInvalidSpacing
	}
	if !flow.ValidLength(opts.Radius) {
		return nil, ErrInvalidRadius
	}

	switch alg {
	case VStack:
		return LayoutFunc(func(sizes []flow.Size, _ flow.Size) flow.Result {
			return vstack(sizes, opts.Spacing)
		}), nil
	case HStack:
		return LayoutFunc(func(sizes []flow.Size, _ flow.Size) flow.Result {
			return hstack(sizes, opts.Spacing)
		}), nil
	case ZStack:
		return LayoutFunc(func(sizes []flow.Size, _ flow.Size) flow.Result {
			return zstack(sizes)
		}), nil
	case Circle:
		return LayoutFunc(func(sizes []flow.Size, _ flow.Size) flow.Result {
			return circle(sizes, opts.Radius)
		}), nil
	case Flow:
		return LayoutFunc(func(sizes []flow.Size, container flow.Size) flow.Result {
			return flow.PackWith(sizes, container.Width, flow.Options{
				Spacing:     opts.Spacing,
				InlineFirst: opts.InlineFirst,
			})
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(alg))
	}
}

// Translate moves every offset of res by origin, yielding absolute positions.
func Translate(res flow.Result, origin flow.Point) []flow.Point {
	return flow.Translate(res.Offsets, origin)
}

func vstack(sizes []flow.Size, spacing float64) flow.Result {
	maxW, _ := extents(sizes)
	offsets := make([]flow.Point, 0, len(sizes))
	y := 0.0
	for i, size := range sizes {
		if i > 0 {
			y += spacing
		}
		offsets = append(offsets, flow.Point{X: (maxW - size.Width) / 2, Y: y})
		y += size.Height
	}
	return flow.Result{Offsets: offsets, Size: flow.Size{Width: maxW, Height: y}}
}

func hstack(sizes []flow.Size, spacing float64) flow.Result {
	_, maxH := extents(sizes)
	offsets := make([]flow.Point, 0, len(sizes))
	x := 0.0
	for i, size := range sizes {
		if i > 0 {
			x += spacing
		}
		offsets = append(offsets, flow.Point{X: x, Y: (maxH - size.Height) / 2})
		x += size.Width
	}
	return flow.Result{Offsets: offsets, Size: flow.Size{Width: x, Height: maxH}}
}

func zstack(sizes []flow.Size) flow.Result {
	maxW, maxH := extents(sizes)
	offsets := make([]flow.Point, 0, len(sizes))
	for _, size := range sizes {
		offsets = append(offsets, flow.Point{X: (maxW - size.Width) / 2, Y: (maxH - size.Height) / 2})
	}
	return flow.Result{Offsets: offsets, Size: flow.Size{Width: maxW, Height: maxH}}
}

// circle centers item i at angle 2πi/n - π/2, so the first item sits on top
// and the rest follow clockwise in y-down coordinates.
func circle(sizes []flow.Size, radius float64) flow.Result {
	if len(sizes) == 0 {
		return flow.Result{Offsets: []flow.Point{}}
	}
	maxW, maxH := extents(sizes)
	cx, cy := radius+maxW/2, radius+maxH/2
	n := float64(len(sizes))

	offsets := make([]flow.Point, 0, len(sizes))
	for i, size := range sizes {
		angle := 2*math.Pi*float64(i)/n - math.Pi/2
		offsets = append(offsets, flow.Point{
			X: cx + radius*math.Cos(angle) - size.Width/2,
			Y: cy + radius*math.Sin(angle) - size.Height/2,
		})
	}
	return flow.Result{
		Offsets: offsets,
		Size:    flow.Size{Width: 2*radius + maxW, Height: 2*radius + maxH},
	}
}

func extents(sizes []flow.Size) (maxW, maxH float64) {
	for _, size := range sizes {
		maxW = math.Max(maxW, size.Width)
		maxH = math.Max(maxH, size.Height)
	}
	return maxW, maxH
}
