package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/alangould92/fareway-database-mcp/internal/domain"
)

const keyNamespace = "fareway:tool:"

// cacheKey derives a deterministic key from the tool name and the validated,
// normalized argument set. encoding/json sorts map keys, so equivalent
// requests with different key ordering or omitted defaults collapse to the
// same entry. Tools with a fixed prefix bypass the derivation.
func cacheKey(def domain.ToolDefinition, args map[string]any) string {
	if def.CachePrefix != "" {
		return keyNamespace + def.CachePrefix
	}
	canonical, err := json.Marshal(args)
	if err != nil {
		// Normalized args are always JSON-marshalable primitives; treat a
		// failure as an uncacheable call rather than a fault.
		return ""
	}
	sum := sha256.Sum256(canonical)
	return keyNamespace + def.Name + ":" + hex.EncodeToString(sum[:])[:16]
}
