package broker

import "kafdesk/internal/cluster"

// Provider-neutral connection parameter keys.
const (
	keyBootstrap     = "bootstrap.servers"
	keyProtocol      = "security.protocol"
	keyCALocation    = "ssl.ca.location"
	keyCertLocation  = "ssl.certificate.location"
	keyKeyLocation   = "ssl.key.location"
	keyKeyPassword   = "ssl.key.password"
	keySASLMechanism = "sasl.mechanism"
	keySASLUsername  = "sasl.username"
	keySASLPassword  = "sasl.password"
	keyGroupID       = "group.id"
	keyAutoCommit    = "enable.auto.commit"
)

// Params is a provider-neutral connection parameter set. A key is present
// only when its source value was present on the profile; no combination
// validation happens here — incomplete credentials fail at the connection
// attempt with a provider error.
type Params map[string]string

// BuildParams maps a profile plus an optional secret to connection
// parameters. The secret is only consulted for SASL modes and is never
// read from the profile itself.
func BuildParams(p cluster.Profile, secret string) Params {
	params := Params{
		keyBootstrap: p.Brokers,
		keyProtocol:  p.Security.Protocol(),
	}
	switch sec := p.Security.(type) {
	case cluster.TLS:
		params.setIfPresent(keyCALocation, sec.CAPath)
		params.setIfPresent(keyCertLocation, sec.CertPath)
		params.setIfPresent(keyKeyLocation, sec.KeyPath)
		params.setIfPresent(keyKeyPassword, sec.KeyPassword)
	case cluster.SASLTLS:
		params[keySASLMechanism] = string(sec.Mechanism)
		params[keySASLUsername] = sec.Username
		params.setIfPresent(keySASLPassword, secret)
		params.setIfPresent(keyCALocation, sec.CAPath)
	}
	return params
}

func (p Params) setIfPresent(key, value string) {
	if value != "" {
		p[key] = value
	}
}
