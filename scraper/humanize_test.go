package scraper

import (
	"context"
	"math"
	"testing"
	"time"
)

func TestBezierPointsEndsAtTarget(t *testing.T) {
	start := point{x: 0, y: 0}
	control := point{x: 50, y: 120}
	end := point{x: 100, y: 40}

	pts := bezierPoints(start, control, end, 8)
	if len(pts) != 8 {
		t.Fatalf("expected 8 points, got %d", len(pts))
	}
	last := pts[len(pts)-1]
	if last.x != end.x || last.y != end.y {
		t.Errorf("curve must end at the target, got (%v, %v)", last.x, last.y)
	}
}

func TestBezierPointsFollowCurve(t *testing.T) {
	start := point{x: 0, y: 0}
	control := point{x: 50, y: 100}
	end := point{x: 100, y: 0}

	pts := bezierPoints(start, control, end, 10)
	for i, p := range pts {
		t.Logf("point %d: (%v, %v)", i, p.x, p.y)
		tv := float64(i+1) / 10
		t1 := 1 - tv
		wantX := 2*t1*tv*control.x + tv*tv*end.x
		wantY := 2*t1*tv*control.y + tv*tv*end.y
		if math.Abs(p.x-wantX) > 1e-9 || math.Abs(p.y-wantY) > 1e-9 {
			t.Errorf("point %d: got (%v, %v), want (%v, %v)", i, p.x, p.y, wantX, wantY)
		}
	}

	// The midpoint of this symmetric arc bulges toward the control point.
	mid := pts[4] // t = 0.5
	if mid.y < 40 || mid.y > 60 {
		t.Errorf("midpoint y = %v, expected the curve to arc upward", mid.y)
	}
}

func TestBezierPointsMinimumSteps(t *testing.T) {
	pts := bezierPoints(point{}, point{}, point{x: 10, y: 10}, 0)
	if len(pts) != 1 {
		t.Fatalf("expected 1 point for degenerate step count, got %d", len(pts))
	}
	if pts[0].x != 10 || pts[0].y != 10 {
		t.Errorf("single sample must be the end point, got %+v", pts[0])
	}
}

func TestSleepWithContext(t *testing.T) {
	if !sleepWithContext(context.Background(), time.Millisecond) {
		t.Error("uninterrupted sleep should report completion")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleepWithContext(ctx, time.Hour) {
		t.Error("cancelled context should interrupt the sleep")
	}
}

func TestHumanizerRanges(t *testing.T) {
	h := NewHumanizer()
	for i := 0; i < 1000; i++ {
		if d := h.pauseShort(); d < 100*time.Millisecond || d >= 300*time.Millisecond {
			t.Fatalf("pauseShort out of range: %v", d)
		}
		if f := h.float(); f < 0 || f >= 1 {
			t.Fatalf("float out of range: %v", f)
		}
	}
}
