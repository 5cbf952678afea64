package runtime

import (
	"strings"

	"github.com/google/uuid"
)

// sanitizeHint keeps the destination hint safe as a single path element:
// anything but letters, digits, dot, dash and underscore is replaced, and
// leading or trailing dot/underscore noise is trimmed.
func sanitizeHint(hint string) string {
	var b strings.Builder
	for _, r := range hint {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}

// uuidSuffix is the content-identifying token that keeps concurrent jobs
// from colliding on one path.
func uuidSuffix() string {
	return uuid.NewString()
}
