package application

import "context"

// PasswordHasher turns a plaintext password into a one-way hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// EventPublisher delivers user lifecycle events to a broker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
