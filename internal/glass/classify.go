package glass

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidAxes is returned for axis pairs that are out of range or equal.
var ErrInvalidAxes = errors.New("invalid classifier axes")

// Axes names the model-space axes used for classification: Depth grows
// toward the front of the vehicle and Lateral grows toward its right side.
type Axes struct {
	Depth   int
	Lateral int
}

// DefaultAxes treats +Z as front and +X as right.
var DefaultAxes = Axes{Depth: 2, Lateral: 0}

// ParseAxes builds Axes from axis letters such as "z" and "x".
func ParseAxes(depth, lateral string) (Axes, error) {
	d, ok1 := axisIndex(depth)
	l, ok2 := axisIndex(lateral)
	if !ok1 || !ok2 {
		return Axes{}, fmt.Errorf("%w: depth=%q lateral=%q", ErrInvalidAxes, depth, lateral)
	}
	a := Axes{Depth: d, Lateral: l}
	if err := a.Validate(); err != nil {
		return Axes{}, err
	}
	return a, nil
}

func axisIndex(s string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return 0, true
	case "y":
		return 1, true
	case "z":
		return 2, true
	}
	return 0, false
}

// Validate checks that both axes are in range and distinct.
func (a Axes) Validate() error {
	if a.Depth < 0 || a.Depth > 2 || a.Lateral < 0 || a.Lateral > 2 || a.Depth == a.Lateral {
		return fmt.Errorf("%w: depth=%d lateral=%d", ErrInvalidAxes, a.Depth, a.Lateral)
	}
	return nil
}

func (a Axes) up() int {
	return 3 - a.Depth - a.Lateral
}

// Candidate is the classification input for one surface. Index refers back
// to the caller's pool.
type Candidate struct {
	Index    int
	Position mgl32.Vec3
	ProxyKey Key
}

// Assignment maps canonical roles to candidate indices. A role may be
// missing when the pool is small, and in one- or two-surface pools the same
// index can appear under two roles.
type Assignment map[Key]int

// Keys returns the assigned roles in slot order.
func (a Assignment) Keys() []Key {
	var out []Key
	for _, k := range Keys {
		if _, ok := a[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Classifier assigns canonical roles to candidate surfaces.
type Classifier struct {
	Axes Axes
}

// NewClassifier returns a classifier for the given axes.
func NewClassifier(axes Axes) *Classifier {
	return &Classifier{Axes: axes}
}

// Classify assigns roles from positions alone:
//
//  1. the frontmost candidate is the windshield and the backmost the rear
//     window, both chosen from the full pool;
//  2. the rest split into left (lateral < 0) and right groups, each sorted
//     front to back, where the first becomes the front side pane and the
//     second the rear side pane;
//  3. anything left over fills the first empty slot in key order.
//
// A pool made only of proxy candidates is returned as tagged.
func (c *Classifier) Classify(pool []Candidate) Assignment {
	out := Assignment{}
	if len(pool) == 0 {
		return out
	}
	if allProxies(pool) {
		for _, cand := range pool {
			if _, taken := out[cand.ProxyKey]; !taken {
				out[cand.ProxyKey] = cand.Index
			}
		}
		return out
	}

	depth := func(cand Candidate) float32 { return cand.Position[c.Axes.Depth] }

	front, back := 0, 0
	for i, cand := range pool {
		if depth(cand) > depth(pool[front]) {
			front = i
		}
		if depth(cand) < depth(pool[back]) {
			back = i
		}
	}
	out[Windshield] = pool[front].Index
	out[Rear] = pool[back].Index

	var left, right []Candidate
	for i, cand := range pool {
		if i == front || i == back {
			continue
		}
		if cand.Position[c.Axes.Lateral] < 0 {
			left = append(left, cand)
		} else {
			right = append(right, cand)
		}
	}

	var leftovers []Candidate
	assignSide := func(group []Candidate, frontKey, rearKey Key) {
		sort.SliceStable(group, func(i, j int) bool {
			return depth(group[i]) > depth(group[j])
		})
		for i, cand := range group {
			switch i {
			case 0:
				out[frontKey] = cand.Index
			case 1:
				out[rearKey] = cand.Index
			default:
				leftovers = append(leftovers, cand)
			}
		}
	}
	assignSide(left, LeftFront, LeftRear)
	assignSide(right, RightFront, RightRear)

	for _, cand := range leftovers {
		for _, k := range Keys {
			if _, taken := out[k]; !taken {
				out[k] = cand.Index
				break
			}
		}
	}
	return out
}

func allProxies(pool []Candidate) bool {
	for _, c := range pool {
		if !c.ProxyKey.Valid() {
			return false
		}
	}
	return true
}
