package drag

import (
	"context"
	"sync"

	"github.com/five82/memegen/internal/meme"
)

// Point is a pointer location in container coordinates.
type Point struct {
	X, Y float64
}

// Size is a width and height in container units.
type Size struct {
	W, H float64
}

// Source identifies the input device that produced an event.
type Source int

const (
	SourceMouse Source = iota
	SourceTouch
)

func (s Source) String() string {
	if s == SourceTouch {
		return "touch"
	}
	return "mouse"
}

// Kind is the phase of a pointer gesture.
type Kind int

const (
	KindStart Kind = iota
	KindMove
	KindEnd
	KindCancel
)

// Event is one pointer input. OnTarget is only read for KindStart and
// reports whether the press landed on the draggable element.
type Event struct {
	Kind     Kind
	Source   Source
	Point    Point
	OnTarget bool
}

// Target is the draggable element. Offset is its top-left corner relative to
// the container.
type Target interface {
	Offset() Point
	Size() Size
	MoveTo(offset Point)
}

// Container reports its current size. Bounds is read on every move so
// resizes during a drag are honored.
type Container interface {
	Bounds() Size
}

// State of the controller.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Controller turns pointer events into caption position updates.
type Controller struct {
	mu        sync.Mutex
	target    Target
	container Container
	position  *meme.Position
	state     State
	anchor    Point
	onChange  func(meme.Position)
}

// New binds a controller to target inside container. Every move writes the
// element's center, as percentages of the container, into position.
func New(target Target, container Container, position *meme.Position) *Controller {
	return &Controller{
		target:    target,
		container: container,
		position:  position,
	}
}

// OnChange registers fn to run after each position update.
func (c *Controller) OnChange(fn func(meme.Position)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Handle applies one event and reports whether the position changed.
func (c *Controller) Handle(ev Event) bool {
	c.mu.Lock()
	changed, pos, fn := c.handle(ev)
	c.mu.Unlock()

	if changed && fn != nil {
		fn(pos)
	}
	return changed
}

func (c *Controller) handle(ev Event) (bool, meme.Position, func(meme.Position)) {
	switch ev.Kind {
	case KindStart:
		c.anchor = ev.Point
		if ev.OnTarget {
			c.state = Dragging
		}
	case KindMove:
		if c.state != Dragging {
			return false, meme.Position{}, nil
		}
		pos := c.move(ev.Point)
		return true, pos, c.onChange
	case KindEnd, KindCancel:
		c.state = Idle
	}
	return false, meme.Position{}, nil
}

// move shifts the target by the pointer delta and records the new center.
func (c *Controller) move(p Point) meme.Position {
	offset := c.target.Offset()
	offset.X += p.X - c.anchor.X
	offset.Y += p.Y - c.anchor.Y
	c.target.MoveTo(offset)
	c.anchor = p

	size := c.target.Size()
	bounds := c.container.Bounds()
	if c.position == nil {
		c.position = &meme.Position{}
	}
	if bounds.W != 0 {
		c.position.X = (offset.X + size.W/2) / bounds.W * 100
	}
	if bounds.H != 0 {
		c.position.Y = (offset.Y + size.H/2) / bounds.H * 100
	}
	return *c.position
}

// Run feeds events from ch into Handle until ch is closed or ctx is done.
// The controller is returned to Idle on exit.
func (c *Controller) Run(ctx context.Context, ch <-chan Event) error {
	defer c.Handle(Event{Kind: KindCancel})
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			c.Handle(ev)
		}
	}
}
