package store

import (
	"time"

	"github.com/akarpov87/vsnap/internal/secret"
)

// ServerRecord is a managed server row with sensitive fields decrypted.
// The logical unique key is the (Hostname, Username) pair, enforced by
// decrypt-scan at the application layer.
type ServerRecord struct {
	ID           int64
	Hostname     string
	Username     string
	Password     *secret.Credential // nil when none stored or undecryptable
	VerifySSL    bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LegacyServer is the older map-shaped server representation kept for
// callers that predate ServerRecord.
type LegacyServer struct {
	Username  string
	VerifySSL bool
}

// Setting data type tags stored alongside encrypted setting values.
const (
	TypeString = "string"
	TypeBool   = "bool"
	TypeInt    = "int"
	TypeFloat  = "float"
)
