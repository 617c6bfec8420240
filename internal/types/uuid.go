package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex taxrule_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_TAX_RULE   = "taxrule"
	UUID_PREFIX_EVENT_TYPE = "evtype"
	UUID_PREFIX_TAX_LINE   = "taxline"
	UUID_PREFIX_OBLIGATION = "oblg"
	UUID_PREFIX_REQUEST    = "req"
)
