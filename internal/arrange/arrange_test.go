package arrange

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/flow-layout/internal/flow"
)

var sample = []flow.Size{{Width: 40, Height: 10}, {Width: 20, Height: 30}, {Width: 60, Height: 20}}

func arrange(t *testing.T, alg Algorithm, opts Options, sizes []flow.Size, container flow.Size) flow.Result {
	t.Helper()

	layout, err := New(alg, opts)
	require.NoError(t, err)
	res, err := layout.Arrange(sizes, container)
	require.NoError(t, err)
	require.Len(t, res.Offsets, len(sizes))
	return res
}

func TestVStackCentersHorizontally(t *testing.T) {
	t.Parallel()

	res := arrange(t, VStack, Options{Spacing: 10}, sample, flow.Size{Width: 500})
	assert.Equal(t, []flow.Point{{X: 10, Y: 0}, {X: 20, Y: 20}, {X: 0, Y: 60}}, res.Offsets)
	assert.Equal(t, flow.Size{Width: 60, Height: 80}, res.Size)
}

func TestHStackCentersVertically(t *testing.T) {
	t.Parallel()

	res := arrange(t, HStack, Options{Spacing: 10}, sample, flow.Size{Width: 500})
	assert.Equal(t, []flow.Point{{X: 0, Y: 10}, {X: 50, Y: 0}, {X: 80, Y: 5}}, res.Offsets)
	assert.Equal(t, flow.Size{Width: 140, Height: 30}, res.Size)
}

func TestZStackOverlaps(t *testing.T) {
	t.Parallel()

	res := arrange(t, ZStack, Options{Spacing: 10}, sample, flow.Size{Width: 500})
	assert.Equal(t, []flow.Point{{X: 10, Y: 10}, {X: 20, Y: 0}, {X: 0, Y: 5}}, res.Offsets)
	assert.Equal(t, flow.Size{Width: 60, Height: 30}, res.Size)
}

func TestCirclePlacesItemsOnRadius(t *testing.T) {
	t.Parallel()

	sizes := []flow.Size{{Width: 20, Height: 10}, {Width: 20, Height: 10}, {Width: 20, Height: 10}, {Width: 20, Height: 10}}
	res := arrange(t, Circle, Options{Radius: 100}, sizes, flow.Size{})

	assert.Equal(t, flow.Size{Width: 220, Height: 210}, res.Size)

	want := []flow.Point{{X: 100, Y: 0}, {X: 200, Y: 100}, {X: 100, Y: 200}, {X: 0, Y: 100}}
	for i, p := range res.Offsets {
		assert.InDelta(t, want[i].X, p.X, 1e-9, "x of item %d", i)
		assert.InDelta(t, want[i].Y, p.Y, 1e-9, "y of item %d", i)
	}
}

func TestFlowDelegatesToPacker(t *testing.T) {
	t.Parallel()

	sizes := []flow.Size{{Width: 60, Height: 10}, {Width: 60, Height: 20}}
	res := arrange(t, Flow, DefaultOptions(), sizes, flow.Size{Width: 100, Height: 300})
	assert.Equal(t, flow.Pack(sizes, 100, flow.DefaultSpacing), res)

	oversized := []flow.Size{{Width: 150, Height: 30}}
	assert.Equal(t, []flow.Point{{X: 0, Y: 10}}, arrange(t, Flow, DefaultOptions(), oversized, flow.Size{Width: 100}).Offsets)

	inline := arrange(t, Flow, Options{Spacing: 10, InlineFirst: true}, oversized, flow.Size{Width: 100})
	assert.Equal(t, []flow.Point{{X: 0, Y: 0}}, inline.Offsets)
}

func TestEmptyInputs(t *testing.T) {
	t.Parallel()

	for _, alg := range All() {
		res := arrange(t, alg, DefaultOptions(), nil, flow.Size{Width: 100})
		assert.Empty(t, res.Offsets, alg.String())
		assert.Equal(t, flow.Size{}, res.Size, alg.String())
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := New(Flow, Options{Spacing: -1})
	assert.ErrorIs(t, err, flow.ErrInvalidSpacing)

	_, err = New(Circle, Options{Radius: math.Inf(1)})
	assert.ErrorIs(t, err, ErrInvalidRadius)
	assert.ErrorIs(t, err, flow.ErrInvalidInput)

	_, err = New(Algorithm("grid"), DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestArrangeRejectsInvalidGeometry(t *testing.T) {
	t.Parallel()

	layout, err := New(HStack, DefaultOptions())
	require.NoError(t, err)

	_, err = layout.Arrange([]flow.Size{{Width: -1, Height: 1}}, flow.Size{Width: 10})
	assert.ErrorIs(t, err, flow.ErrInvalidSize)

	_, err = layout.Arrange(sample, flow.Size{Width: math.NaN()})
	assert.ErrorIs(t, err, flow.ErrInvalidContainerWidth)
}

func TestParse(t *testing.T) {
	t.Parallel()

	for _, alg := range All() {
		got, err := Parse(" " + string(alg) + " ")
		require.NoError(t, err)
		assert.Equal(t, alg, got)
	}

	got, err := Parse("FLOW")
	require.NoError(t, err)
	assert.Equal(t, Flow, got)

	_, err = Parse("grid")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestNextPrevWrapAround(t *testing.T) {
	t.Parallel()

	assert.Equal(t, VStack, Flow.Next())
	assert.Equal(t, Flow, VStack.Prev())
	assert.Equal(t, ZStack, HStack.Next())
	assert.Equal(t, 3, Circle.Index())
	assert.Equal(t, -1, Algorithm("grid").Index())
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	res := arrange(t, HStack, Options{Spacing: 10}, sample, flow.Size{})
	got := Translate(res, flow.Point{X: 100, Y: 50})
	assert.Equal(t, flow.Point{X: 100, Y: 60}, got[0])
	assert.Equal(t, flow.Point{X: 0, Y: 10}, res.Offsets[0], "translation must not mutate the result")
}
