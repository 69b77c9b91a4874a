// Package drag moves the caption overlay with the pointer and records where
// it lands.
//
// # State Machine
//
//	        Start (on target)
//	Idle ──────────────────────> Dragging
//	 ^                              │  Move: offset += delta,
//	 │        End | Cancel          │        position = center / bounds
//	 └──────────────────────────────┘
//
// A Start always records the pointer, but only a press on the target enters
// Dragging. Moves while Idle are ignored. Cancel stands in for losing
// pointer capture and behaves like End.
//
// # Position
//
// After each move the element's center is expressed as a percentage of the
// container's live bounds:
//
//	x% = (offset.X + width/2)  / bounds.W * 100
//	y% = (offset.Y + height/2) / bounds.H * 100
//
// The anchor resets to the current pointer after every move, so the final
// position depends only on the total displacement and not on how many
// intermediate events arrived. Values are not clamped; an element dragged
// past the edge yields percentages below 0 or above 100. A zero-width or
// zero-height container leaves that axis unchanged.
//
// Mouse and touch events share the same path; Source is informational.
package drag
