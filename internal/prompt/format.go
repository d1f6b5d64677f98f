package prompt

import (
	"regexp"
	"strings"
)

var (
	bulletLine     = regexp.MustCompile(`^(\s*)[-*][ \t]+`)
	numberedSpaced = regexp.MustCompile(`^(\s*)(\d+)\.[ \t]+`)
	numberedTight  = regexp.MustCompile(`^(\s*)(\d+)\.([^\d\s.])`)
)

// NormalizeLineEndings converts CRLF and lone CR to LF.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// FormatReply normalizes a model reply for display: LF line endings, "•"
// bullets, one space after "N." markers and a blank line between adjacent
// non-blank lines. Fenced code blocks are left as they are.
// FormatReply(FormatReply(s)) == FormatReply(s).
func FormatReply(s string) string {
	lines := strings.Split(NormalizeLineEndings(s), "\n")
	out := make([]string, 0, len(lines)*2)

	inFence := false
	prevText := false
	for _, line := range lines {
		fence := strings.HasPrefix(strings.TrimSpace(line), "```")
		if inFence || fence {
			if fence && !inFence && prevText {
				out = append(out, "")
			}
			if fence {
				inFence = !inFence
			}
			out = append(out, line)
			// a closing fence counts as text so the next paragraph is spaced
			prevText = !inFence
			continue
		}

		if strings.TrimSpace(line) == "" {
			out = append(out, line)
			prevText = false
			continue
		}

		line = bulletLine.ReplaceAllString(line, "${1}• ")
		line = numberedSpaced.ReplaceAllString(line, "${1}${2}. ")
		line = numberedTight.ReplaceAllString(line, "${1}${2}. ${3}")

		if prevText {
			out = append(out, "")
		}
		out = append(out, line)
		prevText = true
	}
	return strings.Join(out, "\n")
}
