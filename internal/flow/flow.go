// Package flow implements flow-wrap packing: items are laid out left to
// right and wrap onto a new row when the next one would overflow the
// container width.
package flow

import (
	"fmt"
	"math"
)

// Packer packs items for a fixed spacing. It keeps no state between calls
// and is safe for concurrent use.
type Packer interface {
	Pack(sizes []Size, containerWidth float64) (Result, error)
}

type greedyPacker struct {
	opts Options
}

// New returns a Packer that validates its inputs before packing.
func New(opts Options) (Packer, error) {
	if !ValidLength(opts.Spacing) {
		return nil, ErrInvalidSpacing
	}
	return &greedyPacker{opts: opts}, nil
}

func (p *greedyPacker) Pack(sizes []Size, containerWidth float64) (Result, error) {
	if !ValidLength(containerWidth) {
		return Result{}, ErrInvalidContainerWidth
	}
	if err := ValidateSizes(sizes); err != nil {
		return Result{}, err
	}
	return PackWith(sizes, containerWidth, p.opts), nil
}

// Pack packs sizes into rows no wider than containerWidth with the given
// spacing. Inputs are not validated; negative values produce whatever
// geometry the arithmetic yields.
func Pack(sizes []Size, containerWidth, spacing float64) Result {
	return PackWith(sizes, containerWidth, Options{Spacing: spacing})
}

// PackWith is Pack with explicit options.
func PackWith(sizes []Size, containerWidth float64, opts Options) Result {
	offsets := make([]Point, 0, len(sizes))
	var (
		cursor     Point
		lineHeight float64
		maxX       float64
	)
	for i, size := range sizes {
		if (i > 0 || !opts.InlineFirst) && cursor.X+size.Width > containerWidth {
			cursor.X = 0
			cursor.Y += lineHeight + opts.Spacing
			lineHeight = 0
		}

		offsets = append(offsets, cursor)
		cursor.X += size.Width
		maxX = math.Max(maxX, cursor.X)
		cursor.X += opts.Spacing
		lineHeight = math.Max(lineHeight, size.Height)
	}

	return Result{
		Offsets: offsets,
		Size:    Size{Width: maxX, Height: cursor.Y + lineHeight},
	}
}

// Measure returns only the bounding size for a proposed container width.
func Measure(sizes []Size, containerWidth, spacing float64) Size {
	return Pack(sizes, containerWidth, spacing).Size
}

// Place packs against the width of bounds and returns positions translated
// by its origin.
func Place(sizes []Size, bounds Rect, spacing float64) []Point {
	res := Pack(sizes, bounds.Size.Width, spacing)
	return Translate(res.Offsets, bounds.Origin)
}

// Translate returns a new slice with every offset moved by origin.
func Translate(offsets []Point, origin Point) []Point {
	out := make([]Point, len(offsets))
	for i, p := range offsets {
		out[i] = p.Add(origin)
	}
	return out
}

// ValidateSizes reports the first size with a negative or non-finite dimension.
func ValidateSizes(sizes []Size) error {
	for i, size := range sizes {
		if !ValidLength(size.Width) || !ValidLength(size.Height) {
			return fmt.Errorf("item %d (%gx%g): %w", i, size.Width, size.Height, ErrInvalidSize)
		}
	}
	return nil
}

// ValidLength reports whether v is a finite, non-negative length.
func ValidLength(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
