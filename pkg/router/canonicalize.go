package router

import (
	"net/url"
	"strings"

	"github.com/vango-dev/routestate/internal/errors"
)

// canonicalize normalizes a navigation target into decoded segments:
//   - the query string and fragment are dropped
//   - a missing leading slash is added
//   - repeated slashes collapse and a trailing slash is removed
//   - "." segments are removed and ".." segments are resolved
//
// Absolute URLs, backslashes, NUL bytes, malformed percent escapes,
// encoded slashes inside a segment and ".." above the root are rejected.
func canonicalize(input string) ([]string, error) {
	raw := input
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}

	if strings.HasPrefix(raw, "//") || strings.Contains(raw, "://") {
		return nil, invalidPath(input, "absolute URLs are not navigation targets")
	}
	if strings.Contains(raw, "\\") {
		return nil, invalidPath(input, "path contains a backslash")
	}
	if strings.Contains(raw, "\x00") || strings.Contains(strings.ToUpper(raw), "%00") {
		return nil, invalidPath(input, "path contains a NUL byte")
	}

	var kept []string
	for _, seg := range strings.Split(raw, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(kept) == 0 {
				return nil, invalidPath(input, "\"..\" escapes the root")
			}
			kept = kept[:len(kept)-1]
		default:
			kept = append(kept, seg)
		}
	}

	decoded := make([]string, len(kept))
	for i, seg := range kept {
		d, err := url.PathUnescape(seg)
		if err != nil {
			return nil, invalidPath(input, "invalid percent escape in %q", seg)
		}
		if strings.Contains(d, "/") {
			return nil, invalidPath(input, "encoded slash in segment %q", seg)
		}
		decoded[i] = d
	}

	return decoded, nil
}

func invalidPath(input, format string, args ...any) error {
	return errors.New("E202").At(input).WithDetailf(format, args...)
}

// joinSegments renders decoded segments as an escaped path.
func joinSegments(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(seg))
	}
	return sb.String()
}
