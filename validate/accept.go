package validate

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// ParseAccept flattens comma separated accept attributes ("image/*,.pdf")
// into a trimmed pattern list. Empty entries are dropped.
func ParseAccept(values ...string) []string {
	var patterns []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				patterns = append(patterns, p)
			}
		}
	}
	return patterns
}

// AcceptFromMap converts a MIME type to extensions map, e.g.
// {"image/png": [".png"]}, into the equivalent pattern list. MIME keys come
// first, sorted, followed by their extensions.
func AcceptFromMap(accept map[string][]string) []string {
	if len(accept) == 0 {
		return nil
	}
	mimeTypes := lo.Keys(accept)
	sort.Strings(mimeTypes)
	patterns := make([]string, 0, len(mimeTypes))
	patterns = append(patterns, mimeTypes...)
	for _, mimeType := range mimeTypes {
		patterns = append(patterns, lo.Filter(accept[mimeType], func(ext string, _ int) bool {
			return isExtension(ext)
		})...)
	}
	return lo.Uniq(patterns)
}

// Accepts reports whether the file name or MIME type matches one of the
// patterns. An empty pattern list accepts everything.
//   - ".png" matches names ending in .png, case-insensitively
//   - "image/*" matches any MIME type of the image family
//   - "image/png" matches exactly
func Accepts(name, mimeType string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	fileName := strings.ToLower(name)
	mimeType = strings.ToLower(mimeType)
	baseMimeType, _, _ := strings.Cut(mimeType, "/")

	return lo.SomeBy(patterns, func(pattern string) bool {
		validType := strings.ToLower(strings.TrimSpace(pattern))
		switch {
		case isExtension(validType):
			return strings.HasSuffix(fileName, validType)
		case strings.HasSuffix(validType, "/*"):
			return baseMimeType == strings.TrimSuffix(validType, "/*")
		default:
			return mimeType == validType
		}
	})
}

func isExtension(pattern string) bool {
	return strings.HasPrefix(pattern, ".")
}
