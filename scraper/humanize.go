package scraper

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// point is a 2D coordinate in page space.
type point struct {
	x, y float64
}

// Humanizer drives the pointer the way a person would: randomized
// wander, curved approach paths, jittered timing.
type Humanizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewHumanizer creates a humanizer with a time-seeded source.
func NewHumanizer() *Humanizer {
	return &Humanizer{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (h *Humanizer) float() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rng.Float64()
}

func (h *Humanizer) intn(n int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rng.Intn(n)
}

// MoveRandomly wanders the pointer through 5 to 15 random viewport
// points with 100 to 300ms pauses between hops. Failures are silently
// tolerated; pointer noise is best-effort.
func (h *Humanizer) MoveRandomly(ctx context.Context, page *rod.Page) {
	res, err := page.Eval(`() => ({
		width: document.documentElement.clientWidth,
		height: document.documentElement.clientHeight,
	})`)
	if err != nil {
		return
	}
	width := float64(res.Value.Get("width").Int())
	height := float64(res.Value.Get("height").Int())
	if width <= 0 || height <= 0 {
		return
	}

	hops := 5 + h.intn(11)
	for i := 0; i < hops; i++ {
		p := proto.Point{
			X: h.float() * width,
			Y: h.float() * height,
		}
		if err := page.Mouse.MoveTo(p); err != nil {
			return
		}
		if !sleepWithContext(ctx, h.pauseShort()) {
			return
		}
	}
}

// ClickElement moves to the element along a curved path and clicks its
// center, with small jitter on the target and on every step delay.
func (h *Humanizer) ClickElement(ctx context.Context, page *rod.Page, el *rod.Element) error {
	shape, err := el.Shape()
	if err != nil {
		return err
	}
	box := shape.Box()
	if box == nil {
		return nil
	}

	start := point{x: h.float() * 100, y: h.float() * 100}
	end := point{
		x: box.X + box.Width/2 + (h.float()*10 - 5),
		y: box.Y + box.Height/2 + (h.float()*10 - 5),
	}
	control := point{
		x: (start.x+end.x)/2 + (h.float()*100 - 50),
		y: (start.y+end.y)/2 + (h.float()*100 - 50),
	}

	if err := page.Mouse.MoveTo(proto.Point{X: start.x, Y: start.y}); err != nil {
		return err
	}
	if !sleepWithContext(ctx, time.Duration(50+h.intn(100))*time.Millisecond) {
		return ctx.Err()
	}

	steps := 5 + h.intn(6)
	for _, p := range bezierPoints(start, control, end, steps) {
		if err := page.Mouse.MoveTo(proto.Point{X: p.x, Y: p.y}); err != nil {
			return err
		}
		if !sleepWithContext(ctx, time.Duration(10+h.intn(20))*time.Millisecond) {
			return ctx.Err()
		}
	}

	if !sleepWithContext(ctx, h.pauseShort()) {
		return ctx.Err()
	}
	return page.Mouse.Click(proto.InputMouseButtonLeft, 1)
}

// pauseShort returns a pause between 100 and 300ms.
func (h *Humanizer) pauseShort() time.Duration {
	return time.Duration(100+h.intn(200)) * time.Millisecond
}

// bezierPoints samples a quadratic Bezier curve at `steps` evenly
// spaced parameter values, excluding the start point and ending exactly
// at the end point.
func bezierPoints(start, control, end point, steps int) []point {
	if steps < 1 {
		steps = 1
	}
	out := make([]point, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		t1 := 1 - t
		out = append(out, point{
			x: t1*t1*start.x + 2*t1*t*control.x + t*t*end.x,
			y: t1*t1*start.y + 2*t1*t*control.y + t*t*end.y,
		})
	}
	return out
}

// sleepWithContext sleeps for d or until the context is done. It
// reports whether the full duration elapsed.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
