package ui

import (
	"image"
	"time"
)

// Screen regions.
const (
	// headerHeight is the logo line plus the command bar.
	headerHeight = 2

	// footerHeight is the notice line.
	footerHeight = 1

	// previewTitleHeight is the title line above the preview canvas.
	previewTitleHeight = 1

	// columnGap separates the form column from the preview.
	columnGap = 2

	minLeftWidth = 30
	maxLeftWidth = 48

	labelWidth = 9
)

// Timing constants.
const (
	// noticeDuration is how long a toast stays in the footer.
	noticeDuration = 3 * time.Second
)

// leftWidth returns the width of the form or list column.
func leftWidth(total int) int {
	w := total / 3
	if w < minLeftWidth {
		w = minLeftWidth
	}
	if w > maxLeftWidth {
		w = maxLeftWidth
	}
	return w
}

// previewArea returns the screen cells available to the preview canvas.
func previewArea(width, height int) image.Rectangle {
	x := leftWidth(width) + columnGap
	y := headerHeight + previewTitleHeight
	w := width - x
	h := height - y - footerHeight
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return image.Rect(x, y, x+w, y+h)
}
