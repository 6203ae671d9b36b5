// Package app is the orchestration layer: it resolves cluster identifiers
// to stored profiles and vault secrets, dispatches to the broker engine,
// and collapses every failure into one of two externally visible kinds.
package app

import (
	"context"
	"errors"
	"fmt"

	"kafdesk/internal/broker"
	"kafdesk/internal/cluster"
	"kafdesk/internal/logging"
)

// ErrProfileNotFound reports an identifier absent from the registry.
var ErrProfileNotFound = errors.New("cluster profile not found")

// Kind partitions outward-facing failures.
type Kind int

const (
	// KindBroker covers engine and provider failures.
	KindBroker Kind = iota
	// KindInternal covers registry, vault, and validation failures.
	KindInternal
)

// Error is the only error type App operations return.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindBroker:
		return fmt.Sprintf("kafka error: %v", e.Err)
	default:
		return fmt.Sprintf("internal error: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func brokerErr(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindBroker, Err: err}
}

func internalErr(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindInternal, Err: err}
}

// Registry is the profile persistence collaborator.
type Registry interface {
	Save(p cluster.Profile) error
	List() ([]cluster.Profile, error)
	Delete(id string) error
}

// Broker is the engine surface the orchestration layer consumes,
// implemented by *broker.Engine.
type Broker interface {
	ListTopics(ctx context.Context, profile cluster.Profile, secret string) ([]broker.TopicSummary, error)
	CheckConnection(ctx context.Context, profile cluster.Profile, secret string) error
	CreateTopic(ctx context.Context, profile cluster.Profile, secret string, name string, partitions int32, replication int16) error
	Publish(ctx context.Context, profile cluster.Profile, secret string, topic string, key *string, payload string) error
	Sample(ctx context.Context, profile cluster.Profile, secret string, topic string, maxMessages int) ([]broker.SampledMessage, error)
	EstimateCount(ctx context.Context, profile cluster.Profile, secret string, topic string) (int64, error)
}

// App holds the shared collaborators. Construct once at startup and pass
// by reference; there is no ambient global state.
type App struct {
	registry Registry
	vault    cluster.Vault
	engine   Broker
}

func New(registry Registry, vault cluster.Vault, engine Broker) *App {
	return &App{registry: registry, vault: vault, engine: engine}
}

// AddCluster persists a profile and, when given, its secret. The secret
// goes to the vault only; it is never embedded in the stored profile.
func (a *App) AddCluster(profile cluster.Profile, secret string) error {
	if err := a.registry.Save(profile); err != nil {
		return internalErr(err)
	}
	if secret != "" {
		if err := a.vault.Set(profile.ID, secret); err != nil {
			return internalErr(err)
		}
	}
	return nil
}

// UpdateCluster upserts a profile; an empty secret leaves the vault entry
// untouched.
func (a *App) UpdateCluster(profile cluster.Profile, secret string) error {
	return a.AddCluster(profile, secret)
}

// DeleteCluster removes the profile and best-effort drops its secret.
func (a *App) DeleteCluster(id string) error {
	if err := a.registry.Delete(id); err != nil {
		return internalErr(err)
	}
	if err := a.vault.Delete(id); err != nil {
		logging.L().Debug("vault delete skipped", "cluster", id, "err", err)
	}
	return nil
}

func (a *App) ListClusters() ([]cluster.Profile, error) {
	profiles, err := a.registry.List()
	if err != nil {
		return nil, internalErr(err)
	}
	return profiles, nil
}

func (a *App) ListTopics(ctx context.Context, id string) ([]broker.TopicSummary, error) {
	profile, secret, err := a.resolve(id)
	if err != nil {
		return nil, err
	}
	topics, err := a.engine.ListTopics(ctx, profile, secret)
	return topics, brokerErr(err)
}

func (a *App) CheckConnection(ctx context.Context, id string) error {
	profile, secret, err := a.resolve(id)
	if err != nil {
		return err
	}
	return brokerErr(a.engine.CheckConnection(ctx, profile, secret))
}

func (a *App) CreateTopic(ctx context.Context, id, name string, partitions int32, replication int16) error {
	profile, secret, err := a.resolve(id)
	if err != nil {
		return err
	}
	return brokerErr(a.engine.CreateTopic(ctx, profile, secret, name, partitions, replication))
}

func (a *App) Publish(ctx context.Context, id, topic string, key *string, payload string) error {
	profile, secret, err := a.resolve(id)
	if err != nil {
		return err
	}
	return brokerErr(a.engine.Publish(ctx, profile, secret, topic, key, payload))
}

func (a *App) Sample(ctx context.Context, id, topic string, maxMessages int) ([]broker.SampledMessage, error) {
	profile, secret, err := a.resolve(id)
	if err != nil {
		return nil, err
	}
	msgs, err := a.engine.Sample(ctx, profile, secret, topic, maxMessages)
	return msgs, brokerErr(err)
}

func (a *App) EstimateCount(ctx context.Context, id, topic string) (int64, error) {
	profile, secret, err := a.resolve(id)
	if err != nil {
		return 0, err
	}
	n, err := a.engine.EstimateCount(ctx, profile, secret, topic)
	return n, brokerErr(err)
}

// resolve looks the profile up with a full list scan, then fetches its
// secret. A vault miss of any sort is "no secret", not a failure.
func (a *App) resolve(id string) (cluster.Profile, string, error) {
	profiles, err := a.registry.List()
	if err != nil {
		return cluster.Profile{}, "", internalErr(err)
	}
	for _, p := range profiles {
		if p.ID == id {
			secret, err := a.vault.Get(id)
			if err != nil {
				secret = ""
			}
			return p, secret, nil
		}
	}
	return cluster.Profile{}, "", internalErr(fmt.Errorf("%w: %s", ErrProfileNotFound, id))
}
