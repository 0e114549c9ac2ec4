package redis

import "fmt"

const (
	// KeyPrefixApplication is the prefix for application documents
	KeyPrefixApplication = "jobboard:application:"
	// KeyByUpdated is the sorted set of ids scored by updated_at (unix micros)
	KeyByUpdated = "jobboard:applications:updated"
)

// ApplicationKey returns the Redis key for an application by ID
func ApplicationKey(id string) string {
	return KeyPrefixApplication + id
}

// ExtractApplicationID extracts the application ID from a Redis key
func ExtractApplicationID(key string) (string, error) {
	if len(key) <= len(KeyPrefixApplication) || key[:len(KeyPrefixApplication)] != KeyPrefixApplication {
		return "", fmt.Errorf("invalid application key: %s", key)
	}
	return key[len(KeyPrefixApplication):], nil
}
