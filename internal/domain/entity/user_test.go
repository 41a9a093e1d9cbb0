package entity

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user := NewUser("Ada", "ada@example.com")

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestNewUser_AcceptsAnyText(t *testing.T) {
	t.Parallel()

	user := NewUser("", "not an email")

	assert.Empty(t, user.Name)
	assert.Equal(t, "not an email", user.Email)
}

func TestNewUser_UniqueIDs(t *testing.T) {
	t.Parallel()

	const n = 1000
	seen := make(map[uuid.UUID]struct{}, n)
	for range n {
		id := NewUser("x", "y").ID
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestUser_JSONShape(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("6f1c7f5e-2a9b-4c47-9f5e-1d2b3c4d5e6f")
	user := &User{ID: id, Name: "Ada", Email: "ada@example.com"}

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"6f1c7f5e-2a9b-4c47-9f5e-1d2b3c4d5e6f","name":"Ada","email":"ada@example.com"}`, string(data))
}

func TestUser_Clone(t *testing.T) {
	t.Parallel()

	original := NewUser("Ada", "ada@example.com")
	clone := original.Clone()
	clone.Name = "Grace"

	assert.Equal(t, "Ada", original.Name)
	assert.Equal(t, original.ID, clone.ID)
	assert.Nil(t, (*User)(nil).Clone())
}
