package staging

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// CandidatesFromPaste turns pasted text into candidates. Dropping files on
// a terminal pastes their paths: space separated, with spaces escaped by a
// backslash or the whole path quoted, sometimes as file:// URIs.
func CandidatesFromPaste(text string) []Candidate {
	paths := splitPaths(text)
	return lo.Map(paths, func(p string, _ int) Candidate { return FromPath(p) })
}

// FromPath builds a candidate for path, filling in the size when the file
// can be stat'ed.
func FromPath(path string) Candidate {
	path = normalizePath(path)
	c := Candidate{Name: filepath.Base(path), Path: path}
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		c.Size = fi.Size()
	}
	return c
}

func normalizePath(p string) string {
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil {
			return u.Path
		}
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

// splitPaths tokenizes shell-style: whitespace separates, quotes group and
// backslash escapes the next rune outside single quotes.
func splitPaths(text string) []string {
	var (
		out     []string
		cur     strings.Builder
		quote   rune
		escaped bool
		inToken bool
	)
	flush := func() {
		if inToken {
			out = append(out, cur.String())
		}
		cur.Reset()
		inToken = false
	}

	for _, r := range text {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inToken = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	flush()
	return out
}
