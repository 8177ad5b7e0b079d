package refresh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentDigest(t *testing.T) {
	payload := []byte("country,amount\nKenya,100\n")

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, contentDigest(payload), contentDigest(payload))
	})

	t.Run("byte-level changes alter the digest", func(t *testing.T) {
		changed := []byte("country,amount\nKenya,101\n")
		assert.NotEqual(t, contentDigest(payload), contentDigest(changed))
	})

	t.Run("fixed-length hex output", func(t *testing.T) {
		assert.Len(t, contentDigest(payload), 64)
		assert.Len(t, contentDigest(nil), 64)
	})
}
