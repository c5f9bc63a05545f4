package drive

import (
	"path/filepath"
	"strings"
)

// FileKind is a derived classification of a file, computed purely from the
// filename extension. It drives how a file is previewed.
type FileKind string

const (
	KindImage FileKind = "image"
	KindVideo FileKind = "video"
	KindPDF   FileKind = "pdf"
	KindOther FileKind = "other"
)

var (
	imageExts = map[string]struct{}{
		"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "bmp": {}, "webp": {},
	}
	videoExts = map[string]struct{}{
		"mp4": {}, "webm": {}, "ogg": {},
	}
)

// Classify returns the FileKind for name. The extension match is
// case-insensitive; a missing or unknown extension yields KindOther.
func Classify(name string) FileKind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return KindOther
	}
	if _, ok := imageExts[ext]; ok {
		return KindImage
	}
	if _, ok := videoExts[ext]; ok {
		return KindVideo
	}
	if ext == "pdf" {
		return KindPDF
	}
	return KindOther
}
