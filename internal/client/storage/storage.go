// Package storage persists the client's credential between runs: two slots
// holding the serialized principal and the bearer token.
package storage

import "context"

// Storage is the durable backing for the credential slots.
//
// Load returns empty values (not an error) when nothing has been saved yet.
// Save replaces both slots; Clear removes them.
type Storage interface {
	Load(ctx context.Context) (principal []byte, token string, err error)
	Save(ctx context.Context, principal []byte, token string) error
	Clear(ctx context.Context) error
	Close() error
}
