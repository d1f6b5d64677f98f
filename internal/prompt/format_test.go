package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLineEndings(t *testing.T) {
	assert.Equal(t, "a\nb\nc", NormalizeLineEndings("a\r\nb\rc"))
}

func TestFormatReply(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf paragraphs", "Line one\r\nLine two", "Line one\n\nLine two"},
		{"already spaced", "a\n\nb", "a\n\nb"},
		{"dash bullets", "Points:\n- one\n- two", "Points:\n\n• one\n\n• two"},
		{"star bullets keep indent", "  * nested", "  • nested"},
		{"bold is not a bullet", "**Note** this", "**Note** this"},
		{"numbered spacing", "1.First\n2.   Second", "1. First\n\n2. Second"},
		{"decimals untouched", "Pi is\n3.14 approx", "Pi is\n\n3.14 approx"},
		{
			"code fence untouched",
			"Run:\n```go\nx := 1\n- y\n```\nDone",
			"Run:\n\n```go\nx := 1\n- y\n```\n\nDone",
		},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatReply(tc.in))
		})
	}
}

func TestFormatReply_Idempotent(t *testing.T) {
	inputs := []string{
		"Haanji!\nChai pe charcha karte hain.\n- React\n- Node\n1.Setup\n2.  Build",
		"a\n\n\nb\nc",
		"```\nunclosed\nfence",
		"Intro\r\n```js\r\nconsole.log(1)\r\n```\r\nOutro\r\n",
		"   \n  - spaced\n\t3.\tTabbed",
	}
	for _, in := range inputs {
		once := FormatReply(in)
		twice := FormatReply(once)
		assert.Equal(t, once, twice, "input %q", in)
		assert.Equal(t, strings.Count(once, "\n"), strings.Count(twice, "\n"))
	}
}
