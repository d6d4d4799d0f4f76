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
// with a prefix ex chg_01HZX3M7K2Q4N8V6B5C1D0E9FA
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	UUID_PREFIX_ENROLLMENT = "enr"
	UUID_PREFIX_CHARGE     = "chg"
	UUID_PREFIX_PAGE_STATE = "pst"
)
