package arrange

import (
	"errors"
	"fmt"
	"strings"
)

// Algorithm names one arrangement strategy.
type Algorithm string

const (
	VStack Algorithm = "vstack"
	HStack Algorithm = "hstack"
	ZStack Algorithm = "zstack"
	Circle Algorithm = "circle"
	Flow   Algorithm = "flow"
)

// ErrUnknownAlgorithm is returned when a name does not match any strategy.
var ErrUnknownAlgorithm = errors.New("unknown arrangement algorithm")

var algorithms = []Algorithm{VStack, HStack, ZStack, Circle, Flow}

// All returns every algorithm in picker order.
func All() []Algorithm {
	out := make([]Algorithm, len(algorithms))
	copy(out, algorithms)
	return out
}

// Parse resolves a case-insensitive algorithm name.
func Parse(name string) (Algorithm, error) {
	candidate := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if candidate.Valid() {
		return candidate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Valid reports whether a is one of the known algorithms.
func (a Algorithm) Valid() bool {
	for _, known := range algorithms {
		if a == known {
			return true
		}
	}
	return false
}

// Index returns the position of a in All, or -1.
func (a Algorithm) Index() int {
	for i, known := range algorithms {
		if a == known {
			return i
		}
	}
	return -1
}

// Next returns the algorithm after a, wrapping around.
func (a Algorithm) Next() Algorithm {
	return algorithms[(a.Index()+1+len(algorithms))%len(algorithms)]
}

// Prev returns the algorithm before a, wrapping around.
func (a Algorithm) Prev() Algorithm {
	idx := a.Index()
	if idx < 0 {
		idx = 0
	}
	return algorithms[(idx-1+len(algorithms))%len(algorithms)]
}

func (a Algorithm) String() string {
	return string(a)
}
