package archive

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ObjectKey builds <owner>/<yyyy>/<mm>/<id>-<name>. Every segment is limited
// to ASCII letters, digits, '.', '_' and '-' so keys stay valid on any
// S3-compatible store without escaping.
func ObjectKey(user, filename string, at time.Time, id string) string {
	at = at.UTC()
	return fmt.Sprintf("%s/%04d/%02d/%s-%s", ownerSegment(user), at.Year(), int(at.Month()), id, nameSegment(filename))
}

// nameSegment keeps the extension of filename and folds the rest into a safe
// key segment. A name with nothing left becomes "upload".
func nameSegment(filename string) string {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(filename), `\`, "/"))
	if base == "." || base == "/" {
		base = ""
	}
	ext := filepath.Ext(base)
	stem := keySegment(strings.TrimSuffix(base, ext))
	ext = strings.ToLower(keySegment(strings.TrimPrefix(ext, ".")))
	if stem == "" {
		stem = "upload"
	}
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

// ownerSegment is the lowercased key segment for a user id.
func ownerSegment(user string) string {
	owner := strings.ToLower(keySegment(user))
	if owner == "" {
		return "unknown"
	}
	return owner
}

// keySegment decomposes accented letters to their ASCII base and collapses
// every run of other characters into a single '-'.
func keySegment(value string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range norm.NFKD.String(value) {
		switch {
		case unicode.Is(unicode.Mn, r):
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'):
			if pendingDash && b.Len() > 0 && r != '.' {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return strings.Trim(b.String(), "._-")
}
