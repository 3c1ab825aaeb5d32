package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theimaginaryfoundation/chatset/dataset"
)

func TestGenerate_ChatRecord(t *testing.T) {
	t.Parallel()

	s, err := Generate[dataset.ChatRecord]()
	require.NoError(t, err)

	m, err := ToMap(s)
	require.NoError(t, err)

	assert.Equal(t, "object", m["type"])
	assert.ElementsMatch(t, []interface{}{"chat"}, m["required"])

	props, ok := m["properties"].(map[string]interface{})
	require.True(t, ok, "properties=%v", m["properties"])
	chat, ok := props["chat"].(map[string]interface{})
	require.True(t, ok, "chat=%v", props["chat"])
	assert.Equal(t, "array", chat["type"])
	assert.EqualValues(t, 1, chat["minItems"])

	items, ok := chat["items"].(map[string]interface{})
	require.True(t, ok, "items=%v", chat["items"])
	assert.ElementsMatch(t, []interface{}{"role", "content"}, items["required"])

	msgProps := items["properties"].(map[string]interface{})
	role := msgProps["role"].(map[string]interface{})
	assert.ElementsMatch(t, []interface{}{dataset.RoleUser, dataset.RoleAssistant}, role["enum"])
	content := msgProps["content"].(map[string]interface{})
	assert.EqualValues(t, 1, content["minLength"])
}

func TestMarshalIndent(t *testing.T) {
	t.Parallel()

	s, err := Generate[dataset.ChatRecord]()
	require.NoError(t, err)

	b, err := MarshalIndent(s)
	require.NoError(t, err)
	require.NotEmpty(t, b)
	assert.Equal(t, byte('\n'), b[len(b)-1])
	assert.True(t, json.Valid(b))
	assert.Contains(t, string(b), "\n  \"")
}
