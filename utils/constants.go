// File: utils/constants.go
package utils

import "time"

// DedupCachePrefix is the prefix used for webhook deduplication cache keys.
const DedupCachePrefix = "dedup:tx:"

// DedupCacheTTL is the time-to-live for webhook deduplication entries.
const DedupCacheTTL = 24 * time.Hour
