// Package cluster holds the connection-profile domain model plus the
// registry and secret vault that persist it.
package cluster

import "github.com/google/uuid"

// SASLMechanism is the wire name of a SASL authentication mechanism.
type SASLMechanism string

const (
	MechanismPlain       SASLMechanism = "PLAIN"
	MechanismScramSHA256 SASLMechanism = "SCRAM-SHA-256"
	MechanismScramSHA512 SASLMechanism = "SCRAM-SHA-512"
	MechanismGSSAPI      SASLMechanism = "GSSAPI"
	MechanismOAuthBearer SASLMechanism = "OAUTHBEARER"
)

// Profile is a stored cluster connection profile. ID is opaque and
// immutable once created. Secrets are never part of a Profile; they live
// in the vault keyed by ID.
type Profile struct {
	ID       string
	Name     string
	Brokers  string // comma-joined host:port list
	Security Security
}

// NewID mints an identifier for a fresh profile.
func NewID() string { return uuid.NewString() }

// Security is the sealed set of cluster security modes. Exactly one
// variant is active per profile.
type Security interface {
	// Protocol is the provider-neutral security.protocol value.
	Protocol() string
	isSecurity()
}

// Plaintext carries no credentials.
type Plaintext struct{}

func (Plaintext) Protocol() string { return "plaintext" }
func (Plaintext) isSecurity()      {}

// TLS uses mutual or server-only TLS. Every field is optional; an empty
// string means absent.
type TLS struct {
	CAPath      string
	CertPath    string
	KeyPath     string
	KeyPassword string
}

func (TLS) Protocol() string { return "ssl" }
func (TLS) isSecurity()      {}

// SASLTLS layers SASL authentication under TLS. The password is not a
// field here: it is held by the vault and supplied per call.
type SASLTLS struct {
	Mechanism SASLMechanism
	Username  string
	CAPath    string
}

func (SASLTLS) Protocol() string { return "sasl_ssl" }
func (SASLTLS) isSecurity()      {}
