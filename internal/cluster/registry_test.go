package cluster

import (
	"path/filepath"
	"reflect"
	"testing"
)

func openTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := OpenRegistry(filepath.Join(t.TempDir(), "clusters.db"))
	if err != nil {
		t.Fatalf("OpenRegistry: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRegistry_RoundTrip(t *testing.T) {
	r := openTestRegistry(t)

	profiles := []Profile{
		{ID: "a", Name: "plain", Brokers: "h1:9092", Security: Plaintext{}},
		{ID: "b", Name: "tls", Brokers: "h2:9093", Security: TLS{
			CAPath:      "/ca.pem",
			CertPath:    "/cert.pem",
			KeyPath:     "/key.pem",
			KeyPassword: "pw",
		}},
		{ID: "c", Name: "sasl", Brokers: "h3:9094,h4:9094", Security: SASLTLS{
			Mechanism: MechanismScramSHA512,
			Username:  "svc",
			CAPath:    "/ca.pem",
		}},
	}
	for _, p := range profiles {
		if err := r.Save(p); err != nil {
			t.Fatalf("Save %s: %v", p.ID, err)
		}
	}

	got, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != len(profiles) {
		t.Fatalf("got %d profiles, want %d", len(got), len(profiles))
	}
	byID := map[string]Profile{}
	for _, p := range got {
		byID[p.ID] = p
	}
	for _, want := range profiles {
		if !reflect.DeepEqual(byID[want.ID], want) {
			t.Fatalf("profile %s round-trip mismatch:\n got %+v\nwant %+v", want.ID, byID[want.ID], want)
		}
	}
}

func TestRegistry_SaveOverwrites(t *testing.T) {
	r := openTestRegistry(t)

	p := Profile{ID: "a", Name: "old", Brokers: "h:9092", Security: Plaintext{}}
	if err := r.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	p.Name = "new"
	p.Security = TLS{CAPath: "/ca.pem"}
	if err := r.Save(p); err != nil {
		t.Fatalf("re-Save: %v", err)
	}

	got, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d profiles after upsert, want 1", len(got))
	}
	if got[0].Name != "new" {
		t.Fatalf("name = %q, want new", got[0].Name)
	}
	if _, ok := got[0].Security.(TLS); !ok {
		t.Fatalf("security not updated: %+v", got[0].Security)
	}
}

func TestRegistry_Delete(t *testing.T) {
	r := openTestRegistry(t)

	if err := r.Save(Profile{ID: "a", Name: "x", Brokers: "h:9092", Security: Plaintext{}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := r.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := r.Delete("missing"); err != nil {
		t.Fatalf("Delete of unknown id should be a no-op: %v", err)
	}

	got, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d profiles after delete", len(got))
	}
}

func TestRecord_UnknownMechanismFallsBackToPlain(t *testing.T) {
	rec := record{ID: "x", SecurityType: "sasl_ssl", SASLMechanism: "BOGUS", SASLUsername: "u"}

	p := rec.profile()

	sec, ok := p.Security.(SASLTLS)
	if !ok {
		t.Fatalf("security = %+v", p.Security)
	}
	if sec.Mechanism != MechanismPlain {
		t.Fatalf("mechanism = %q, want PLAIN fallback", sec.Mechanism)
	}
}
