package database

import "github.com/google/uuid"

// UUIDBytes returns the 16-byte form stored in MySQL BINARY(16) columns. Scanning back works
// directly into uuid.UUID or uuid.NullUUID.
func UUIDBytes(id uuid.UUID) []byte {
	b, _ := id.MarshalBinary()
	return b
}

// NullableUUIDBytes is UUIDBytes for optional columns.
func NullableUUIDBytes(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return UUIDBytes(*id)
}
