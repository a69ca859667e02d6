package clean

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

// SanitizeHTML strips all markup and returns the remaining text content.
// The output is markup-free by construction, not escaped.
func SanitizeHTML(raw string) string {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy.Sanitize(raw)
}
