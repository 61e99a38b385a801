package utils

import (
	"strings"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, 7)
	if err != nil {
		return ""
	}
	return id
}

// GenerateSlug builds a URL-safe, collision-resistant slug for a title,
// e.g. "Go Summit 2026" -> "go-summit-2026-k3x9a2b".
func GenerateSlug(title string) string {
	base := slug.Make(strings.TrimSpace(title))
	suffix := GenerateID()
	if base == "" {
		return suffix
	}
	if suffix == "" {
		return base
	}
	return base + "-" + suffix
}
