package skeleton

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/testutil"
)

func TestLayoutByName(t *testing.T) {
	for _, name := range []string{"coco", "COCO", "Halpe", "smpl"} {
		l, err := LayoutByName(name)
		require.NoError(t, err, name)
		assert.NotNil(t, l)
	}
	_, err := LayoutByName("openpose")
	assert.ErrorContains(t, err, "openpose")
}

func TestLayouts_IndicesInRange(t *testing.T) {
	for _, l := range Layouts {
		t.Run(l.Name(), func(t *testing.T) {
			check := func(what string, i int) {
				assert.GreaterOrEqual(t, i, 0, what)
				assert.Less(t, i, l.JointCount(), what)
			}
			check("head", l.Head())
			for _, s := range Sides {
				check("shoulder", l.Shoulder(s))
				check("elbow", l.Elbow(s))
				check("hand", l.Hand(s))
				check("hip", l.Hip(s))
				check("knee", l.Knee(s))
				check("ankle", l.Ankle(s))
				for _, i := range l.Arm(s) {
					check("arm", i)
				}
				for _, i := range l.Leg(s) {
					check("leg", i)
				}
				assert.Contains(t, l.Arm(s), l.Hand(s))
				assert.Contains(t, l.Leg(s), l.Ankle(s))
			}
			assert.NotEqual(t, l.Hand(Left), l.Hand(Right))
		})
	}
}

func TestLayouts_KnownJoints(t *testing.T) {
	assert.Equal(t, 0, Coco.Head())
	assert.Equal(t, 9, Coco.Hand(Left))
	assert.Equal(t, 16, Coco.Ankle(Right))
	assert.Equal(t, 17, Halpe.Head())
	assert.Equal(t, 15, Smpl.Head())
	assert.Equal(t, 22, Smpl.Hand(Left))
	assert.Equal(t, 23, Smpl.Hand(Right))
	assert.Equal(t, 8, Smpl.Ankle(Right))
}

func TestLayout_ChainIsCopied(t *testing.T) {
	arm := Coco.Arm(Left)
	arm[0] = 99
	assert.Equal(t, 5, Coco.Arm(Left)[0])
}

func TestSide(t *testing.T) {
	assert.Equal(t, Right, Left.Opposite())
	assert.Equal(t, Left, Right.Opposite())
	assert.Equal(t, "left", Left.String())
	assert.Equal(t, "right", Right.String())
}

// tPose is a COCO pose facing -Z with arms out along X.
func tPose() Pose {
	j := make([]r3.Vec, Coco.JointCount())
	j[0] = r3.Vec{Y: 1.7}
	j[5] = r3.Vec{X: -0.2, Y: 1.5}
	j[6] = r3.Vec{X: 0.2, Y: 1.5}
	j[7] = r3.Vec{X: -0.5, Y: 1.5}
	j[8] = r3.Vec{X: 0.5, Y: 1.5}
	j[9] = r3.Vec{X: -0.8, Y: 1.5}
	j[10] = r3.Vec{X: 0.8, Y: 1.5}
	j[11] = r3.Vec{X: -0.1, Y: 1.0}
	j[12] = r3.Vec{X: 0.1, Y: 1.0}
	j[13] = r3.Vec{X: -0.1, Y: 0.5}
	j[14] = r3.Vec{X: 0.1, Y: 0.5}
	j[15] = r3.Vec{X: -0.1, Y: 0.05}
	j[16] = r3.Vec{X: 0.1, Y: 0.05}
	return Pose{Layout: Coco, Joints: j}
}

func TestPose_Accessors(t *testing.T) {
	p := tPose()
	require.True(t, p.Valid())
	assert.Equal(t, r3.Vec{X: -0.8, Y: 1.5}, p.Hand(Left))
	assert.Equal(t, r3.Vec{X: 0.5, Y: 1.5}, p.Elbow(Right))
	assert.Equal(t, []r3.Vec{{X: -0.2, Y: 1.5}, {X: -0.5, Y: 1.5}, {X: -0.8, Y: 1.5}}, p.Arm(Left))
	assert.Len(t, p.Limbs(), 6)
	assert.Len(t, p.Body(), 17)

	hp := p.HandPair()
	assert.Equal(t, p.Hand(Right), hp.Right)
	assert.Equal(t, p.Elbow(Left), hp.LeftElbow)

	short := Pose{Layout: Coco, Joints: p.Joints[:4]}
	assert.False(t, short.Valid())
	assert.Equal(t, r3.Vec{}, short.Hand(Left))
}

func TestPose_HeadTransform(t *testing.T) {
	p := tPose()
	tr := p.HeadTransform()
	testutil.AssertVecNear(t, "position", tr.Position, r3.Vec{Y: 1.7}, 1e-12)
	// Shoulders already run along +X, so the frame is unrotated.
	testutil.AssertVecNear(t, "x axis", tr.Rotate(r3.Vec{X: 1}), r3.Vec{X: 1}, 1e-9)

	// Turn the dancer a quarter to the left: the shoulder line now runs along -Z.
	for i, v := range p.Joints {
		p.Joints[i] = r3.Vec{X: v.Z, Y: v.Y, Z: -v.X}
	}
	tr = p.HeadTransform()
	testutil.AssertVecNear(t, "turned x axis", tr.Rotate(r3.Vec{X: 1}), r3.Vec{Z: -1}, 1e-9)
	testutil.AssertVecNear(t, "up stays up", tr.Rotate(r3.Vec{Y: 1}), r3.Vec{Y: 1}, 1e-9)

	// Stacked shoulders fall back to no yaw.
	p.Joints[5] = r3.Vec{Y: 1.5}
	p.Joints[6] = r3.Vec{Y: 1.6}
	tr = p.HeadTransform()
	got := tr.Rotate(r3.Vec{X: 1})
	assert.InDelta(t, 1, got.X, 1e-9)
	assert.False(t, math.IsNaN(got.Z))
}
