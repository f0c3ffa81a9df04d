package model

import (
	"testing"
)

// TestModelTypes validates that model types can be instantiated correctly.
func TestModelTypes(t *testing.T) {
	t.Run("Pose", func(t *testing.T) {
		p := NewPose(1, 2, 3, 1, 0, 0, 0)

		if p.Position.X != 1 || p.Position.Y != 2 || p.Position.Z != 3 {
			t.Errorf("Position = %v, want (1, 2, 3)", p.Position)
		}
		if p.Orientation.Real != 1 {
			t.Errorf("Orientation.Real = %v, want 1", p.Orientation.Real)
		}
		if !p.IsUnit() {
			t.Error("identity orientation should be unit")
		}
	})

	t.Run("PoseDrift", func(t *testing.T) {
		within := NewPose(0, 0, 0, 1.0005, 0, 0, 0)
		if !within.IsUnit() {
			t.Error("drift of 5e-4 should be accepted")
		}

		outside := NewPose(0, 0, 0, 1.01, 0, 0, 0)
		if outside.IsUnit() {
			t.Error("drift of 1e-2 should be rejected")
		}
	})

	t.Run("Frame", func(t *testing.T) {
		f := Frame{
			Index:     42,
			Timestamp: 12.5,
			Bodies: []RigidBodySample{
				{ID: 1, Valid: true},
				{ID: 2, Valid: false},
				{ID: 3, Valid: true},
			},
		}

		if got := f.ValidCount(); got != 2 {
			t.Errorf("ValidCount() = %d, want 2", got)
		}
	})

	t.Run("EmptyFrame", func(t *testing.T) {
		var f Frame
		if got := f.ValidCount(); got != 0 {
			t.Errorf("ValidCount() = %d, want 0", got)
		}
	})
}
