package drag

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/five82/memegen/internal/meme"
)

type box struct {
	offset Point
	size   Size
}

func (b *box) Offset() Point { return b.offset }
func (b *box) Size() Size { return b.size }
func (b *box) MoveTo(p Point) { b.offset = p }
func (b *box) Bounds() Size { return b.size }

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func newScenario() (*Controller, *box, *meme.Position) {
	el := &box{offset: Point{230, 190}, size: Size{40, 20}}
	container := &box{size: Size{500, 400}}
	pos := &meme.Position{X: 50, Y: 50}
	return New(el, container, pos), el, pos
}

func TestController_DragScenario(t *testing.T) {
	c, el, pos := newScenario()

	c.Handle(Event{Kind: KindStart, Point: Point{100, 100}, OnTarget: true})
	if c.State() != Dragging {
		t.Fatalf("state = %v, want dragging", c.State())
	}
	if !c.Handle(Event{Kind: KindMove, Point: Point{150, 130}}) {
		t.Fatalf("move reported no change")
	}
	c.Handle(Event{Kind: KindEnd})

	if el.offset != (Point{280, 220}) {
		t.Fatalf("offset = %+v, want {280 220}", el.offset)
	}
	if !approx(pos.X, 60) || !approx(pos.Y, 57.5) {
		t.Fatalf("position = %+v, want {60 57.5}", *pos)
	}
	if c.State() != Idle {
		t.Fatalf("state after end = %v, want idle", c.State())
	}
}

func TestController_PathIndependent(t *testing.T) {
	paths := map[string][]Point{
		"single":  {{150, 130}},
		"steps":   {{110, 105}, {120, 110}, {130, 115}, {140, 120}, {150, 130}},
		"detour":  {{300, 20}, {-40, 250}, {150, 130}},
		"reverse": {{90, 90}, {150, 130}},
	}
	for name, moves := range paths {
		t.Run(name, func(t *testing.T) {
			c, _, pos := newScenario()
			c.Handle(Event{Kind: KindStart, Point: Point{100, 100}, OnTarget: true})
			for _, p := range moves {
				c.Handle(Event{Kind: KindMove, Source: SourceTouch, Point: p})
			}
			if !approx(pos.X, 60) || !approx(pos.Y, 57.5) {
				t.Fatalf("position = %+v, want {60 57.5}", *pos)
			}
		})
	}
}

func TestController_StartOffTargetIgnoresMoves(t *testing.T) {
	c, el, pos := newScenario()
	c.Handle(Event{Kind: KindStart, Point: Point{10, 10}})
	if c.State() != Idle {
		t.Fatalf("state = %v, want idle", c.State())
	}
	if c.Handle(Event{Kind: KindMove, Point: Point{50, 50}}) {
		t.Fatalf("move while idle reported change")
	}
	if el.offset != (Point{230, 190}) || *pos != (meme.Position{X: 50, Y: 50}) {
		t.Fatalf("idle move changed state: offset %+v pos %+v", el.offset, *pos)
	}
}

func TestController_CancelReturnsToIdle(t *testing.T) {
	c, _, pos := newScenario()
	c.Handle(Event{Kind: KindStart, Point: Point{100, 100}, OnTarget: true})
	c.Handle(Event{Kind: KindMove, Point: Point{150, 130}})
	c.Handle(Event{Kind: KindCancel})
	if c.State() != Idle {
		t.Fatalf("state = %v, want idle", c.State())
	}
	c.Handle(Event{Kind: KindMove, Point: Point{400, 400}})
	if !approx(pos.X, 60) || !approx(pos.Y, 57.5) {
		t.Fatalf("move after cancel changed position to %+v", *pos)
	}
}

func TestController_NotClamped(t *testing.T) {
	c, _, pos := newScenario()
	c.Handle(Event{Kind: KindStart, Point: Point{0, 0}, OnTarget: true})
	c.Handle(Event{Kind: KindMove, Point: Point{500, -300}})
	if pos.X <= 100 || pos.Y >= 0 {
		t.Fatalf("position = %+v, want x > 100 and y < 0", *pos)
	}
}

func TestController_ZeroContainerKeepsAxis(t *testing.T) {
	el := &box{offset: Point{10, 10}, size: Size{20, 20}}
	container := &box{size: Size{0, 200}}
	pos := &meme.Position{X: 42, Y: 50}
	c := New(el, container, pos)

	c.Handle(Event{Kind: KindStart, Point: Point{0, 0}, OnTarget: true})
	c.Handle(Event{Kind: KindMove, Point: Point{30, 30}})

	if pos.X != 42 {
		t.Fatalf("x = %v, want unchanged 42", pos.X)
	}
	if math.IsNaN(pos.Y) || math.IsInf(pos.Y, 0) || !approx(pos.Y, 25) {
		t.Fatalf("y = %v, want 25", pos.Y)
	}
}

func TestController_LiveBounds(t *testing.T) {
	el := &box{offset: Point{0, 0}, size: Size{0, 0}}
	container := &box{size: Size{100, 100}}
	pos := &meme.Position{}
	c := New(el, container, pos)

	c.Handle(Event{Kind: KindStart, Point: Point{0, 0}, OnTarget: true})
	c.Handle(Event{Kind: KindMove, Point: Point{50, 50}})
	container.size = Size{200, 200}
	c.Handle(Event{Kind: KindMove, Point: Point{50, 50}})
	if !approx(pos.X, 25) || !approx(pos.Y, 25) {
		t.Fatalf("position = %+v, want {25 25} after resize", *pos)
	}
}

func TestController_OnChange(t *testing.T) {
	c, _, _ := newScenario()
	var got []meme.Position
	c.OnChange(func(p meme.Position) { got = append(got, p) })

	c.Handle(Event{Kind: KindStart, Point: Point{100, 100}, OnTarget: true})
	c.Handle(Event{Kind: KindMove, Point: Point{150, 130}})
	c.Handle(Event{Kind: KindEnd})

	if len(got) != 1 || !approx(got[0].X, 60) || !approx(got[0].Y, 57.5) {
		t.Fatalf("OnChange calls = %+v", got)
	}
}

func TestController_Run(t *testing.T) {
	c, _, pos := newScenario()
	ch := make(chan Event, 4)
	ch <- Event{Kind: KindStart, Point: Point{100, 100}, OnTarget: true}
	ch <- Event{Kind: KindMove, Point: Point{150, 130}}
	close(ch)

	if err := c.Run(context.Background(), ch); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !approx(pos.X, 60) || !approx(pos.Y, 57.5) {
		t.Fatalf("position = %+v", *pos)
	}
	if c.State() != Idle {
		t.Fatalf("state after Run = %v, want idle", c.State())
	}
}

func TestController_RunStopsOnCancel(t *testing.T) {
	c, _, _ := newScenario()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, make(chan Event)) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
