// Package share exports finished memes.
//
// Render composites the caption onto the image: the bitmap face is scaled to
// the caption's pixel size, outlined in the stroke color by drawing it at the
// eight neighbouring offsets, then filled. The caption box is centered on
// the stored percentage position, matching the editor preview.
//
// Download writes meme-<unix-ms>.png. CopyToClipboard places a
// data:image/png URI on the system clipboard, or emits it as an OSC 52
// sequence when the host has no clipboard (for example over SSH). Share goes
// through a Sharer and falls back to Download when native sharing is
// unsupported.
//
// Every entry point rejects memes without image data with ErrNoImage before
// touching the filesystem or clipboard.
package share
