package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeResumeText canonicalizes line endings and trims surrounding
// whitespace so equivalent uploads hash to the same fingerprint.
func NormalizeResumeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}

// Fingerprint returns a filesystem-safe cache key for resume text.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(NormalizeResumeText(text)))
	return hex.EncodeToString(sum[:])
}
