package prompt

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persona-chatter/internal/llm"
	"persona-chatter/internal/storage"
)

func TestBuildMessages_EmptyHistory(t *testing.T) {
	got := BuildMessages("You are Hitesh.", "", nil, "hello")

	assert.Equal(t, []llm.Message{
		{Role: llm.RoleSystem, Content: "You are Hitesh."},
		{Role: llm.RoleUser, Content: "hello"},
	}, got)
}

func TestBuildMessages_ReplaysHistory(t *testing.T) {
	history := []storage.Exchange{{Timestamp: time.Unix(1, 0), User: "a", Bot: "b"}}

	got := BuildMessages("persona", "", history, "c")

	assert.Equal(t, []llm.Message{
		{Role: llm.RoleSystem, Content: "persona"},
		{Role: llm.RoleUser, Content: "a"},
		{Role: llm.RoleAssistant, Content: "b"},
		{Role: llm.RoleUser, Content: "c"},
	}, got)
}

func TestBuildMessages_StyleDirective(t *testing.T) {
	got := BuildMessages("persona", "Use short paragraphs.", nil, "hi")
	assert.Equal(t, "persona\n\nUse short paragraphs.", got[0].Content)
}

func TestBuildMessages_ShapeAndOrder(t *testing.T) {
	for n := 0; n < 6; n++ {
		history := make([]storage.Exchange, n)
		for i := range history {
			history[i] = storage.Exchange{User: fmt.Sprintf("u%d", i), Bot: fmt.Sprintf("b%d", i)}
		}

		got := BuildMessages("sys", "", history, "now")

		require.Len(t, got, 1+2*n+1)
		assert.Equal(t, llm.RoleSystem, got[0].Role)
		for i := 0; i < n; i++ {
			assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf("u%d", i)}, got[1+2*i])
			assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: fmt.Sprintf("b%d", i)}, got[2+2*i])
		}
		assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "now"}, got[len(got)-1])
	}
}
