// Package skeleton maps pose-format joint indices onto the named joints the
// playback core needs. Callers never branch on the pose format: they ask a
// Layout for a capability (Hand(Left), Ankle(Right)) and get an index.
package skeleton

import (
	"fmt"
	"strings"
)

// Side selects the left or right limb.
type Side int

const (
	Left Side = iota
	Right
)

// Sides lists both sides in a fixed order.
var Sides = [2]Side{Left, Right}

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Opposite returns the other side.
func (s Side) Opposite() Side { return 1 - s }

// Layout resolves named joints to indices for one pose format.
type Layout interface {
	Name() string
	JointCount() int
	Head() int
	Shoulder(Side) int
	Elbow(Side) int
	Hand(Side) int
	Hip(Side) int
	Knee(Side) int
	Ankle(Side) int
	// Arm and Leg list the joint chain from the body outwards.
	Arm(Side) []int
	Leg(Side) []int
}

type table struct {
	name     string
	count    int
	head     int
	shoulder [2]int
	elbow    [2]int
	hand     [2]int
	hip      [2]int
	knee     [2]int
	ankle    [2]int
	arm      [2][]int
	leg      [2][]int
}

func (t *table) Name() string        { return t.name }
func (t *table) JointCount() int     { return t.count }
func (t *table) Head() int           { return t.head }
func (t *table) Shoulder(s Side) int { return t.shoulder[s] }
func (t *table) Elbow(s Side) int    { return t.elbow[s] }
func (t *table) Hand(s Side) int     { return t.hand[s] }
func (t *table) Hip(s Side) int      { return t.hip[s] }
func (t *table) Knee(s Side) int     { return t.knee[s] }
func (t *table) Ankle(s Side) int    { return t.ankle[s] }
func (t *table) Arm(s Side) []int    { return append([]int(nil), t.arm[s]...) }
func (t *table) Leg(s Side) []int    { return append([]int(nil), t.leg[s]...) }

// Coco is the 17-keypoint COCO body layout. It has no head joint; the nose
// stands in for it.
var Coco Layout = &table{
	name:     "coco",
	count:    17,
	head:     0,
	shoulder: [2]int{5, 6},
	elbow:    [2]int{7, 8},
	hand:     [2]int{9, 10},
	hip:      [2]int{11, 12},
	knee:     [2]int{13, 14},
	ankle:    [2]int{15, 16},
	arm:      [2][]int{{5, 7, 9}, {6, 8, 10}},
	leg:      [2][]int{{11, 13, 15}, {12, 14, 16}},
}

// Halpe is the 136-keypoint Halpe full-body layout. Its first 17 joints
// match COCO; 17 is the head, 20-25 are toes and heels.
var Halpe Layout = &table{
	name:     "halpe",
	count:    136,
	head:     17,
	shoulder: [2]int{5, 6},
	elbow:    [2]int{7, 8},
	hand:     [2]int{9, 10},
	hip:      [2]int{11, 12},
	knee:     [2]int{13, 14},
	ankle:    [2]int{15, 16},
	arm:      [2][]int{{5, 7, 9}, {6, 8, 10}},
	leg:      [2][]int{{11, 13, 15, 24, 20}, {12, 14, 16, 25, 21}},
}

// Smpl is the 24-joint SMPL layout. Hands are the hand joints past the wrists.
var Smpl Layout = &table{
	name:     "smpl",
	count:    24,
	head:     15,
	shoulder: [2]int{16, 17},
	elbow:    [2]int{18, 19},
	hand:     [2]int{22, 23},
	hip:      [2]int{1, 2},
	knee:     [2]int{4, 5},
	ankle:    [2]int{7, 8},
	arm:      [2][]int{{13, 16, 18, 20, 22}, {14, 17, 19, 21, 23}},
	leg:      [2][]int{{1, 4, 7, 10}, {2, 5, 8, 11}},
}

// Layouts lists the supported layouts.
var Layouts = []Layout{Coco, Halpe, Smpl}

// LayoutByName looks a layout up by case-insensitive name.
func LayoutByName(name string) (Layout, error) {
	for _, l := range Layouts {
		if strings.EqualFold(l.Name(), name) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("unknown pose layout %q", name)
}
