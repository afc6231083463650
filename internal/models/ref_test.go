package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefUnresolved(t *testing.T) {
	ref := UnresolvedRef[User](9)
	assert.Equal(t, int64(9), ref.ID())
	assert.False(t, ref.Resolved())

	_, ok := ref.Entity()
	assert.False(t, ok)

	raw, err := json.Marshal(ref)
	require.NoError(t, err)
	assert.Equal(t, "9", string(raw))
}

func TestRefResolved(t *testing.T) {
	user := &User{ID: 9, Username: "ava"}
	ref := ResolvedRef(user.ID, user)
	assert.Equal(t, int64(9), ref.ID())
	assert.True(t, ref.Resolved())

	entity, ok := ref.Entity()
	require.True(t, ok)
	assert.Equal(t, "ava", entity.Username)

	raw, err := json.Marshal(ref)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"username":"ava"`)
}
