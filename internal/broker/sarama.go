package broker

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"kafdesk/internal/cluster"
)

// clientConfig translates provider-neutral params into a sarama client
// configuration. netTimeout bounds every dial/read/write on the resulting
// client, which is how per-operation deadlines (3s probe, 5s metadata,
// 5s send) are enforced.
func clientConfig(params Params, netTimeout time.Duration) (*sarama.Config, []string, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = "kafdesk"
	cfg.Net.DialTimeout = netTimeout
	cfg.Net.ReadTimeout = netTimeout
	cfg.Net.WriteTimeout = netTimeout
	cfg.Metadata.Retry.Max = 1
	cfg.Metadata.AllowAutoTopicCreation = false

	if gid := params[keyGroupID]; gid != "" {
		cfg.ClientID = gid
	}
	if params[keyAutoCommit] == "false" {
		cfg.Consumer.Offsets.AutoCommit.Enable = false
	}

	switch params[keyProtocol] {
	case "plaintext", "":
	case "ssl":
		tlsCfg, err := buildTLSConfig(params)
		if err != nil {
			return nil, nil, err
		}
		cfg.Net.TLS.Enable = true
		cfg.Net.TLS.Config = tlsCfg
	case "sasl_ssl":
		tlsCfg, err := buildTLSConfig(params)
		if err != nil {
			return nil, nil, err
		}
		cfg.Net.TLS.Enable = true
		cfg.Net.TLS.Config = tlsCfg
		if err := applySASL(cfg, params); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("unsupported security protocol %q", params[keyProtocol])
	}

	brokers := strings.Split(params[keyBootstrap], ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return cfg, brokers, nil
}

func applySASL(cfg *sarama.Config, params Params) error {
	cfg.Net.SASL.Enable = true
	cfg.Net.SASL.User = params[keySASLUsername]
	cfg.Net.SASL.Password = params[keySASLPassword]

	// Missing mechanism-specific material (OAuth token provider, krb5
	// config) is not rejected here; the connection attempt reports it.
	switch cluster.SASLMechanism(params[keySASLMechanism]) {
	case cluster.MechanismScramSHA256:
		cfg.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
		cfg.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
			return &scramClient{hashFn: scramSHA256}
		}
	case cluster.MechanismScramSHA512:
		cfg.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA512
		cfg.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
			return &scramClient{hashFn: scramSHA512}
		}
	case cluster.MechanismGSSAPI:
		cfg.Net.SASL.Mechanism = sarama.SASLTypeGSSAPI
	case cluster.MechanismOAuthBearer:
		cfg.Net.SASL.Mechanism = sarama.SASLTypeOAuth
	default:
		cfg.Net.SASL.Mechanism = sarama.SASLTypePlaintext
	}
	return nil
}

// buildTLSConfig loads the CA and client key material referenced by the
// params. Everything is optional: with no paths set the result is a TLS
// config that trusts the system roots.
func buildTLSConfig(params Params) (*tls.Config, error) {
	tlsCfg := &tls.Config{}

	if ca := params[keyCALocation]; ca != "" {
		raw, err := os.ReadFile(ca)
		if err != nil {
			return nil, fmt.Errorf("read CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(raw) {
			return nil, fmt.Errorf("no certificates parsed from %s", ca)
		}
		tlsCfg.RootCAs = pool
	}

	certPath, keyPath := params[keyCertLocation], params[keyKeyLocation]
	if certPath == "" || keyPath == "" {
		return tlsCfg, nil
	}

	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("read client certificate: %w", err)
	}
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read client key: %w", err)
	}
	if pass := params[keyKeyPassword]; pass != "" {
		keyPEM, err = decryptPEMKey(keyPEM, pass)
		if err != nil {
			return nil, err
		}
	}
	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("load client key pair: %w", err)
	}
	tlsCfg.Certificates = []tls.Certificate{pair}
	return tlsCfg, nil
}

func decryptPEMKey(keyPEM []byte, passphrase string) ([]byte, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, fmt.Errorf("client key is not PEM encoded")
	}
	if !x509.IsEncryptedPEMBlock(block) { //nolint:staticcheck // legacy encrypted PEM keys
		return keyPEM, nil
	}
	der, err := x509.DecryptPEMBlock(block, []byte(passphrase)) //nolint:staticcheck
	if err != nil {
		return nil, fmt.Errorf("decrypt client key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: block.Type, Bytes: der}), nil
}
