package credential

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStore(t *testing.T) {
	t.Run("empty credential leaves store unset", func(t *testing.T) {
		s := NewStore(Credential{})
		_, ok := s.Current()
		assert.False(t, ok)
		assert.Empty(t, s.AccessToken())
	})

	t.Run("seeded credential is current", func(t *testing.T) {
		s := NewStore(Credential{AccessToken: "A", RefreshToken: "R", ExpiresIn: 3600})
		c, ok := s.Current()
		assert.True(t, ok)
		assert.Equal(t, Credential{AccessToken: "A", RefreshToken: "R", ExpiresIn: 3600}, c)
		assert.True(t, c.HasRefreshToken())
	})
}

func TestStore_Replace(t *testing.T) {
	s := NewStore(Credential{AccessToken: "old", RefreshToken: "old-r"})
	s.Replace(Credential{AccessToken: "new", RefreshToken: "new-r", ExpiresIn: 60})

	c, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, "new", c.AccessToken)
	assert.Equal(t, "new-r", s.RefreshToken())
	assert.Equal(t, uint32(60), c.ExpiresIn)
}

func TestStore_SetAccessToken(t *testing.T) {
	s := NewStore(Credential{AccessToken: "old", RefreshToken: "keep", ExpiresIn: 3600})
	s.SetAccessToken("manual")

	c, _ := s.Current()
	assert.Equal(t, "manual", c.AccessToken)
	assert.Equal(t, "keep", c.RefreshToken)
	assert.Zero(t, c.ExpiresIn)
}

func TestStore_ConcurrentReadersSeeWholeValues(t *testing.T) {
	s := NewStore(Credential{AccessToken: "a0", RefreshToken: "r0"})
	pairs := map[string]string{"a0": "r0", "a1": "r1", "a2": "r2"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				c, _ := s.Current()
				assert.Equal(t, pairs[c.AccessToken], c.RefreshToken)
			}
		}()
	}
	for j := 0; j < 500; j++ {
		if j%2 == 0 {
			s.Replace(Credential{AccessToken: "a1", RefreshToken: "r1"})
		} else {
			s.Replace(Credential{AccessToken: "a2", RefreshToken: "r2"})
		}
	}
	wg.Wait()
}
