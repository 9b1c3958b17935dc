package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitToken(t *testing.T) {
	id, secret := SplitToken("42|abc")
	require.NotNil(t, id)
	assert.Equal(t, int64(42), *id)
	assert.Equal(t, "abc", secret)

	id, secret = SplitToken("  plain-secret ")
	assert.Nil(t, id)
	assert.Equal(t, "plain-secret", secret)

	id, secret = SplitToken("x|abc")
	assert.Nil(t, id)
	assert.Equal(t, "x|abc", secret)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", HashToken("abc"))
}

func TestFindByPlainTokenWithoutBackend(t *testing.T) {
	r := NewAPITokenRepository(nil, nil)
	_, err := r.FindByPlainToken(context.Background(), "")
	assert.Error(t, err)
	_, err = r.FindByPlainToken(context.Background(), "secret")
	assert.Error(t, err)
}

func TestAPITokenCan(t *testing.T) {
	assert.True(t, (&APIToken{Abilities: `["*"]`}).Can("documents"))
	assert.True(t, (&APIToken{Abilities: `["import"]`}).Can("import"))
	assert.False(t, (&APIToken{Abilities: `["import"]`}).Can("documents"))
	assert.False(t, (&APIToken{Abilities: ``}).Can("import"))
}
