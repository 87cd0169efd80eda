package handler

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// UUIDString formats a pgtype.UUID for JSON responses. Invalid UUIDs
// render as the empty string.
func UUIDString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	b := u.Bytes
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
