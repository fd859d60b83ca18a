package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTagSet_TrimsAndDeduplicates(t *testing.T) {
	set := NewTagSet(" fomo ", "a+ setup", "", "fomo", "late entry")
	assert.Equal(t, TagSet{"fomo", "a+ setup", "late entry"}, set)
	assert.True(t, set.Contains("a+ setup"))
	assert.False(t, set.Contains("revenge"))
}

func TestParseTags(t *testing.T) {
	assert.Nil(t, ParseTags(""))
	assert.Nil(t, ParseTags("  "))
	assert.Equal(t, TagSet{"earnings", "gap"}, ParseTags("earnings, gap,,earnings"))
	assert.Equal(t, "earnings,gap", ParseTags("earnings, gap").String())
}

func TestTagSet_JSON(t *testing.T) {
	var payload struct {
		Tags TagSet `json:"tags"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"tags":"breakout, volume"}`), &payload))
	assert.Equal(t, TagSet{"breakout", "volume"}, payload.Tags)

	require.NoError(t, json.Unmarshal([]byte(`{"tags":["breakout","volume","breakout"]}`), &payload))
	assert.Equal(t, TagSet{"breakout", "volume"}, payload.Tags)

	require.NoError(t, json.Unmarshal([]byte(`{"tags":null}`), &payload))
	assert.Nil(t, payload.Tags)

	assert.Error(t, json.Unmarshal([]byte(`{"tags":[1,2]}`), &payload))

	out, err := json.Marshal(struct {
		Tags TagSet `json:"tags"`
	}{Tags: TagSet{"a", "b"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":"a,b"}`, string(out))

	out, err = json.Marshal(struct {
		Tags TagSet `json:"tags"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":null}`, string(out))
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, Long, d)

	d, err = ParseDirection(" SHORT ")
	require.NoError(t, err)
	assert.Equal(t, Short, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}
