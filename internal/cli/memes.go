package cli

import (
	"time"

	"github.com/five82/memegen/internal/meme"
)

// memeSummary is the image-free form of a meme printed by the commands.
type memeSummary struct {
	ID        string            `json:"id"`
	Prompt    string            `json:"prompt"`
	Caption   string            `json:"caption,omitempty"`
	Text      meme.TextSettings `json:"textSettings"`
	CreatedAt time.Time         `json:"createdAt"`
	Saved     bool              `json:"saved"`
}

func summarize(m meme.Meme, saved bool) memeSummary {
	return memeSummary{
		ID:        m.ID,
		Prompt:    m.Prompt,
		Caption:   m.Caption,
		Text:      m.TextSettings,
		CreatedAt: m.CreatedAt,
		Saved:     saved,
	}
}
