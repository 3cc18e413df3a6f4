package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/database"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/postgrest"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/models"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/repositories"
)

// ErrAdapterUnavailable means the remote backend could not be initialized or
// did not answer its probe. It never aborts startup.
var ErrAdapterUnavailable = errors.New("remote storage unavailable")

type Backend string

const (
	BackendRemote Backend = "remote"
	BackendLocal  Backend = "local"
)

const defaultProbeTimeout = 15 * time.Second

type PersistenceConfig struct {
	// RemoteURL and RemoteKey select the REST backend when both are set.
	RemoteURL string
	RemoteKey string
	// RemoteDSN selects a direct Postgres connection when REST is not configured.
	RemoteDSN string
	LocalPath string
	// ProbeTimeout bounds the remote connection check.
	ProbeTimeout time.Duration
	HTTPClient   *http.Client
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Persistence routes every storage call to the one backend chosen when it
// was built. The choice never changes afterwards.
type Persistence struct {
	repo    repositories.ResponseRepository
	backend Backend
	notice  string
	closer  func() error
}

// NewPersistence picks the remote backend when it is configured and
// reachable, and the local store otherwise. Only a failure to open the
// local store is returned as an error.
func NewPersistence(ctx context.Context, cfg PersistenceConfig) (*Persistence, error) {
	repo, closer, err := openRemote(ctx, cfg)
	if err == nil && repo != nil {
		log.Printf("[INFO] persistence: using remote backend (%s)", repo.Backend())
		return &Persistence{repo: repo, backend: BackendRemote, closer: closer}, nil
	}

	var notice string
	if err != nil {
		notice = fmt.Sprintf("Remote storage is not available, answers are stored in the local database %s only: %v", cfg.LocalPath, err)
		log.Printf("[WARN] persistence: %s", notice)
	}

	db, lerr := database.ConnectLocal(cfg.LocalPath)
	if lerr != nil {
		return nil, fmt.Errorf("open local store: %w", lerr)
	}
	log.Printf("[INFO] persistence: using local backend (%s)", cfg.LocalPath)
	return &Persistence{
		repo:    repositories.NewLocalRepository(db),
		backend: BackendLocal,
		notice:  notice,
		closer:  func() error { return database.Close(db) },
	}, nil
}

// openRemote returns a nil repository and nil error when no remote backend
// is configured.
func openRemote(ctx context.Context, cfg PersistenceConfig) (repositories.ResponseRepository, func() error, error) {
	timeout := cfg.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	switch {
	case strings.TrimSpace(cfg.RemoteURL) != "" && strings.TrimSpace(cfg.RemoteKey) != "":
		var opts []postgrest.Option
		if cfg.HTTPClient != nil {
			opts = append(opts, postgrest.WithHTTPClient(cfg.HTTPClient))
		}
		client, err := postgrest.NewClient(cfg.RemoteURL, cfg.RemoteKey, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: client: %w", ErrAdapterUnavailable, err)
		}
		repo := repositories.NewRestRepository(client)
		if p, ok := repo.(pinger); ok {
			probeCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			if err := p.Ping(probeCtx); err != nil {
				return nil, nil, fmt.Errorf("%w: probe: %w", ErrAdapterUnavailable, err)
			}
		}
		return repo, nil, nil

	case strings.TrimSpace(cfg.RemoteDSN) != "":
		probeCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		db, err := database.ConnectRemote(probeCtx, cfg.RemoteDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrAdapterUnavailable, err)
		}
		return repositories.NewPostgresRepository(db), func() error { return database.Close(db) }, nil
	}
	return nil, nil, nil
}

func (p *Persistence) Backend() Backend { return p.backend }

// Notice is the warning shown while running on the local fallback, empty otherwise.
func (p *Persistence) Notice() string { return p.notice }

// Status summarizes the active backend for the status endpoint.
func (p *Persistence) Status() models.BackendStatus {
	return models.BackendStatus{Backend: string(p.backend), Notice: p.notice}
}

func (p *Persistence) Insert(ctx context.Context, rec models.ResponseRecord) error {
	return p.repo.Insert(ctx, rec)
}

func (p *Persistence) FetchRecent(ctx context.Context, limit int) ([]models.RecentResponse, error) {
	return p.repo.FetchRecent(ctx, limit)
}

func (p *Persistence) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}
