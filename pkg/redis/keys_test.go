package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilder(t *testing.T) {
	t.Run("no namespace", func(t *testing.T) {
		kb := NewKeyBuilder("")
		assert.Equal(t, "queues", kb.Queues())
		assert.Equal(t, "queue:default", kb.Queue("default"))
		assert.Equal(t, "processes", kb.Processes())
		assert.Equal(t, "host-1:12:deadbeef", kb.Process("host-1:12:deadbeef"))
		assert.Equal(t, "schedule", kb.Schedule())
		assert.Equal(t, "retry", kb.Retry())
		assert.Equal(t, "dead", kb.Dead())
	})

	t.Run("with namespace", func(t *testing.T) {
		kb := NewKeyBuilder("myapp")
		assert.Equal(t, "myapp:queues", kb.Queues())
		assert.Equal(t, "myapp:queue:mailers", kb.Queue("mailers"))
		assert.Equal(t, "myapp:dead", kb.Dead())
	})

	t.Run("trailing colon is normalized", func(t *testing.T) {
		kb := NewKeyBuilder("myapp:")
		assert.Equal(t, "myapp:queues", kb.Queues())
	})
}
