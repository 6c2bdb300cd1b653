package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRedisStore_BadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedisStore("not-a-redis-url", "")
	require.Error(t, err)
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	t.Parallel()

	s := &redisStore{prefix: "session:"}
	require.Equal(t, "session:abc", s.key("abc"))
}
