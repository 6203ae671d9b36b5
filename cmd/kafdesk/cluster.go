package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"kafdesk/internal/cluster"
)

type securityFlags struct {
	mode        string
	caPath      string
	certPath    string
	keyPath     string
	keyPassword string
	mechanism   string
	username    string
	password    string
}

func (f *securityFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "security", "plaintext", "security mode: plaintext|ssl|sasl_ssl")
	cmd.Flags().StringVar(&f.caPath, "ca", "", "CA certificate path")
	cmd.Flags().StringVar(&f.certPath, "cert", "", "client certificate path (ssl)")
	cmd.Flags().StringVar(&f.keyPath, "key", "", "client key path (ssl)")
	cmd.Flags().StringVar(&f.keyPassword, "key-password", "", "client key passphrase (ssl)")
	cmd.Flags().StringVar(&f.mechanism, "sasl-mechanism", "PLAIN", "SASL mechanism: PLAIN|SCRAM-SHA-256|SCRAM-SHA-512|GSSAPI|OAUTHBEARER")
	cmd.Flags().StringVar(&f.username, "sasl-username", "", "SASL username (sasl_ssl)")
	cmd.Flags().StringVar(&f.password, "password", "", "SASL password, stored in the host keyring")
}

func (f *securityFlags) security() (cluster.Security, error) {
	switch f.mode {
	case "plaintext":
		return cluster.Plaintext{}, nil
	case "ssl":
		return cluster.TLS{
			CAPath:      f.caPath,
			CertPath:    f.certPath,
			KeyPath:     f.keyPath,
			KeyPassword: f.keyPassword,
		}, nil
	case "sasl_ssl":
		return cluster.SASLTLS{
			Mechanism: cluster.SASLMechanism(f.mechanism),
			Username:  f.username,
			CAPath:    f.caPath,
		}, nil
	default:
		return nil, fmt.Errorf("unknown security mode %q", f.mode)
	}
}

func clusterCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cluster", Short: "Manage cluster connection profiles"}

	var addName, addBrokers string
	var addSec securityFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a cluster profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := addSec.security()
			if err != nil {
				return err
			}
			profile := cluster.Profile{
				ID:       cluster.NewID(),
				Name:     addName,
				Brokers:  addBrokers,
				Security: sec,
			}
			if err := kd.AddCluster(profile, addSec.password); err != nil {
				return err
			}
			fmt.Println(profile.ID)
			return nil
		},
	}
	add.Flags().StringVar(&addName, "name", "", "display name")
	add.Flags().StringVar(&addBrokers, "brokers", "", "comma-joined broker list, e.g. host1:9092,host2:9092")
	addSec.register(add)
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("brokers")

	var updName, updBrokers string
	var updSec securityFlags
	update := &cobra.Command{
		Use:   "update <cluster-id>",
		Short: "Update a cluster profile (the ID never changes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := updSec.security()
			if err != nil {
				return err
			}
			profile := cluster.Profile{
				ID:       args[0],
				Name:     updName,
				Brokers:  updBrokers,
				Security: sec,
			}
			return kd.UpdateCluster(profile, updSec.password)
		},
	}
	update.Flags().StringVar(&updName, "name", "", "display name")
	update.Flags().StringVar(&updBrokers, "brokers", "", "comma-joined broker list")
	updSec.register(update)
	_ = update.MarkFlagRequired("name")
	_ = update.MarkFlagRequired("brokers")

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List stored cluster profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := kd.ListClusters()
			if err != nil {
				return err
			}
			return writeYAML(exportProfiles(profiles))
		},
	}

	rm := &cobra.Command{
		Use:   "rm <cluster-id>",
		Short: "Delete a cluster profile and its vault secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return kd.DeleteCluster(args[0])
		},
	}

	check := &cobra.Command{
		Use:   "check <cluster-id>",
		Short: "Probe cluster connectivity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := kd.CheckConnection(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}

	export := &cobra.Command{
		Use:   "export",
		Short: "Write all profiles as YAML to stdout (secrets excluded)",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := kd.ListClusters()
			if err != nil {
				return err
			}
			return writeYAML(exportProfiles(profiles))
		},
	}

	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Load profiles from a YAML export (secrets must be re-added)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var specs []profileSpec
			if err := yaml.Unmarshal(raw, &specs); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			for _, spec := range specs {
				profile, err := spec.profile()
				if err != nil {
					return err
				}
				if err := kd.AddCluster(profile, ""); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.AddCommand(add, update, ls, rm, check, export, imp)
	return cmd
}

// profileSpec is the YAML exchange shape for profiles: the same flattened
// fields the registry stores, minus anything vault-held.
type profileSpec struct {
	ID            string `yaml:"id,omitempty"`
	Name          string `yaml:"name"`
	Brokers       string `yaml:"brokers"`
	Security      string `yaml:"security"`
	SASLMechanism string `yaml:"sasl_mechanism,omitempty"`
	SASLUsername  string `yaml:"sasl_username,omitempty"`
	CAPath        string `yaml:"ca,omitempty"`
	CertPath      string `yaml:"cert,omitempty"`
	KeyPath       string `yaml:"key,omitempty"`
}

func (s profileSpec) profile() (cluster.Profile, error) {
	p := cluster.Profile{ID: s.ID, Name: s.Name, Brokers: s.Brokers}
	if p.ID == "" {
		p.ID = cluster.NewID()
	}
	switch s.Security {
	case "plaintext", "":
		p.Security = cluster.Plaintext{}
	case "ssl":
		p.Security = cluster.TLS{CAPath: s.CAPath, CertPath: s.CertPath, KeyPath: s.KeyPath}
	case "sasl_ssl":
		p.Security = cluster.SASLTLS{
			Mechanism: cluster.SASLMechanism(s.SASLMechanism),
			Username:  s.SASLUsername,
			CAPath:    s.CAPath,
		}
	default:
		return cluster.Profile{}, fmt.Errorf("profile %q: unknown security %q", s.Name, s.Security)
	}
	return p, nil
}

func exportProfiles(profiles []cluster.Profile) []profileSpec {
	specs := make([]profileSpec, 0, len(profiles))
	for _, p := range profiles {
		spec := profileSpec{
			ID:       p.ID,
			Name:     p.Name,
			Brokers:  p.Brokers,
			Security: p.Security.Protocol(),
		}
		switch sec := p.Security.(type) {
		case cluster.TLS:
			spec.CAPath = sec.CAPath
			spec.CertPath = sec.CertPath
			spec.KeyPath = sec.KeyPath
		case cluster.SASLTLS:
			spec.SASLMechanism = string(sec.Mechanism)
			spec.SASLUsername = sec.Username
			spec.CAPath = sec.CAPath
		}
		specs = append(specs, spec)
	}
	return specs
}

func writeYAML(v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
