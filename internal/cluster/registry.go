package cluster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

const clustersBucket = "clusters"

// Registry persists cluster profiles in a local bbolt file. Secrets are
// never written here; the vault owns those.
type Registry struct {
	db *bolt.DB
}

// OpenRegistry opens (creating if needed) the profile store at path.
func OpenRegistry(path string) (*Registry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("registry: create dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("registry: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(clustersBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("registry: init bucket: %w", err)
	}
	return &Registry{db: db}, nil
}

// Save upserts a profile keyed by its ID.
func (r *Registry) Save(p Profile) error {
	raw, err := json.Marshal(toRecord(p))
	if err != nil {
		return fmt.Errorf("registry: encode profile: %w", err)
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(clustersBucket)).Put([]byte(p.ID), raw)
	})
	if err != nil {
		return fmt.Errorf("registry: save %s: %w", p.ID, err)
	}
	return nil
}

// List returns every stored profile.
func (r *Registry) List() ([]Profile, error) {
	var out []Profile
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(clustersBucket)).ForEach(func(_, v []byte) error {
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode profile: %w", err)
			}
			out = append(out, rec.profile())
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("registry: list: %w", err)
	}
	return out, nil
}

// Delete removes a profile. Deleting an unknown ID is not an error.
func (r *Registry) Delete(id string) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(clustersBucket)).Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("registry: delete %s: %w", id, err)
	}
	return nil
}

func (r *Registry) Close() error { return r.db.Close() }

// record is the flattened on-disk shape of a Profile: one discriminator
// column plus the union of all mode-specific fields.
type record struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Brokers      string `json:"brokers"`
	SecurityType string `json:"security_type"`

	SASLMechanism string `json:"sasl_mechanism,omitempty"`
	SASLUsername  string `json:"sasl_username,omitempty"`
	CALocation    string `json:"ca_location,omitempty"`
	CertLocation  string `json:"cert_location,omitempty"`
	KeyLocation   string `json:"key_location,omitempty"`
	KeyPassword   string `json:"key_password,omitempty"`
}

func toRecord(p Profile) record {
	rec := record{ID: p.ID, Name: p.Name, Brokers: p.Brokers}
	switch sec := p.Security.(type) {
	case TLS:
		rec.SecurityType = sec.Protocol()
		rec.CALocation = sec.CAPath
		rec.CertLocation = sec.CertPath
		rec.KeyLocation = sec.KeyPath
		rec.KeyPassword = sec.KeyPassword
	case SASLTLS:
		rec.SecurityType = sec.Protocol()
		rec.SASLMechanism = string(sec.Mechanism)
		rec.SASLUsername = sec.Username
		rec.CALocation = sec.CAPath
	default:
		rec.SecurityType = Plaintext{}.Protocol()
	}
	return rec
}

func (rec record) profile() Profile {
	p := Profile{ID: rec.ID, Name: rec.Name, Brokers: rec.Brokers}
	switch rec.SecurityType {
	case "ssl":
		p.Security = TLS{
			CAPath:      rec.CALocation,
			CertPath:    rec.CertLocation,
			KeyPath:     rec.KeyLocation,
			KeyPassword: rec.KeyPassword,
		}
	case "sasl_ssl":
		mech := SASLMechanism(rec.SASLMechanism)
		switch mech {
		case MechanismScramSHA256, MechanismScramSHA512, MechanismGSSAPI, MechanismOAuthBearer:
		default:
			mech = MechanismPlain
		}
		p.Security = SASLTLS{
			Mechanism: mech,
			Username:  rec.SASLUsername,
			CAPath:    rec.CALocation,
		}
	default:
		p.Security = Plaintext{}
	}
	return p
}
