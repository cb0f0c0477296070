package redis

import (
	"fmt"

	"github.com/mcoot/rustdonate/internal/storage"
)

// identityKey returns the Redis key for the durable identity record
func identityKey(prefix string) string {
	return fmt.Sprintf("%s:%s", prefix, storage.IdentityRecordKey)
}
