package redis

import "strings"

// Well-known keys in the observed runtime's schema. All of them are relative
// to the configured namespace prefix.
const (
	keyQueues    = "queues"    // SET of queue names
	keyProcesses = "processes" // SET of process identities
	keySchedule  = "schedule"  // ZSET of scheduled jobs
	keyRetry     = "retry"     // ZSET of jobs awaiting retry
	keyDead      = "dead"      // ZSET of dead jobs
)

// KeyBuilder builds namespaced keys for the runtime's Redis schema. The
// namespace matches the prefix the observed runtime was configured with;
// empty means no prefix.
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a KeyBuilder for the given namespace.
func NewKeyBuilder(namespace string) *KeyBuilder {
	prefix := strings.TrimSuffix(namespace, ":")
	if prefix != "" {
		prefix += ":"
	}
	return &KeyBuilder{prefix: prefix}
}

// Build prefixes a raw key with the namespace.
func (kb *KeyBuilder) Build(key string) string {
	return kb.prefix + key
}

// Queues returns the key of the queue-name set.
func (kb *KeyBuilder) Queues() string { return kb.Build(keyQueues) }

// Queue returns the key of one queue's pending-job list.
func (kb *KeyBuilder) Queue(name string) string { return kb.Build("queue:" + name) }

// Processes returns the key of the process-identity set.
func (kb *KeyBuilder) Processes() string { return kb.Build(keyProcesses) }

// Process returns the key of one process's info hash.
func (kb *KeyBuilder) Process(identity string) string { return kb.Build(identity) }

// Schedule returns the key of the scheduled-job set.
func (kb *KeyBuilder) Schedule() string { return kb.Build(keySchedule) }

// Retry returns the key of the retry set.
func (kb *KeyBuilder) Retry() string { return kb.Build(keyRetry) }

// Dead returns the key of the dead set.
func (kb *KeyBuilder) Dead() string { return kb.Build(keyDead) }
