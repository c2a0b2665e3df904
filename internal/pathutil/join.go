// Package pathutil joins path segments the way packaging tools need:
// an absolute segment is appended, not substituted.
package pathutil

import (
	"regexp"
	"strings"

	"github.com/tsukumogami/buildvars/internal/errmsg"
)

// segmentPattern matches the characters allowed in a path segment.
var segmentPattern = regexp.MustCompile(`^[a-zA-Z0-9_./-]+$`)

// Join concatenates segments with exactly one '/' between them and keeps
// them otherwise verbatim (no cleaning): "a/" + "/b" is "a/b" and
// "/tmp/img" + "/usr" is "/tmp/img/usr".
//
// A segment with a character outside [A-Za-z0-9_./-] (or an empty segment)
// is rejected with an ErrTypeBadPathSegment configuration error.
func Join(segments ...string) (string, error) {
	var joined strings.Builder
	for _, seg := range segments {
		if !segmentPattern.MatchString(seg) {
			return "", errmsg.New(errmsg.ErrTypeBadPathSegment,
				"path segment %q contains forbidden character(s)", seg)
		}

		acc := joined.String()
		switch {
		case strings.HasSuffix(acc, "/") && strings.HasPrefix(seg, "/"):
			seg = seg[1:]
		case acc != "" && !strings.HasSuffix(acc, "/") && !strings.HasPrefix(seg, "/"):
			joined.WriteByte('/')
		}
		joined.WriteString(seg)
	}
	return joined.String(), nil
}
