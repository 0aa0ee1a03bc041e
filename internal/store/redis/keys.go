package redis

import "strings"

// KeyPrefix namespaces every collection key in the shared Redis keyspace.
const KeyPrefix = "haven:"

// CollectionKey returns the Redis key for a collection name.
func CollectionKey(name string) string {
	return KeyPrefix + name
}

// CollectionName strips KeyPrefix from a Redis key.
func CollectionName(key string) (string, bool) {
	return strings.CutPrefix(key, KeyPrefix)
}
