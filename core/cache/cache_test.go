package cache_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwslgate/nwslgate/core/cache"
)

func TestSetAndGet(t *testing.T) {
	c := cache.New(time.Minute)
	defer c.Close()

	c.SetBytes("summary", []byte(`{"matches": 300}`))

	got, ok := c.GetBytes("summary")
	require.True(t, ok)
	assert.Equal(t, `{"matches": 300}`, string(got))
}

func TestMissingKey(t *testing.T) {
	c := cache.New(time.Minute)
	defer c.Close()

	_, ok := c.GetBytes("absent")
	assert.False(t, ok)
}

func TestZeroTTLDisablesWrites(t *testing.T) {
	c := cache.New(0)
	defer c.Close()

	c.SetBytes("summary", []byte(`{}`))

	_, ok := c.GetBytes("summary")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := cache.New(50 * time.Millisecond)
	defer c.Close()

	c.SetBytes("summary", []byte(`{}`))
	time.Sleep(150 * time.Millisecond)

	_, ok := c.GetBytes("summary")
	assert.False(t, ok)
}

func TestKeyIncludesParams(t *testing.T) {
	base := cache.Key("team-overview", nil)
	withSeason := cache.Key("team-overview", url.Values{"season": {"2024"}})
	otherSeason := cache.Key("team-overview", url.Values{"season": {"2023"}})

	assert.NotEqual(t, base, withSeason)
	assert.NotEqual(t, withSeason, otherSeason)
	assert.Equal(t, withSeason, cache.Key("team-overview", url.Values{"season": {"2024"}}))
}
