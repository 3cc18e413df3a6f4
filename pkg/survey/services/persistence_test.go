package services_test

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/models"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/services"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "survey.db")
}

func sampleRecord() models.ResponseRecord {
	return models.NewResponseRecord(models.ResponseDraft{
		AgeGroup:         "35-44",
		Gender:           "diverse",
		Education:        "college",
		IncomeBracket:    "80000-150000 CHF",
		PoliticalLeaning: models.NeutralPoliticalLeaning,
		Prompt:           "p",
		ImageData:        "aGk=",
		LikeScore:        5,
		CredibilityScore: 6,
	}, time.Now())
}

func openPersistence(t *testing.T, cfg services.PersistenceConfig) *services.Persistence {
	t.Helper()
	p, err := services.NewPersistence(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestPersistence_NoRemoteConfiguredUsesLocal(t *testing.T) {
	p := openPersistence(t, services.PersistenceConfig{LocalPath: localPath(t)})

	assert.Equal(t, services.BackendLocal, p.Backend())
	assert.Empty(t, p.Notice())

	require.NoError(t, p.Insert(context.Background(), sampleRecord()))
	rows, err := p.FetchRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestPersistence_OnlyOneRemoteCredentialUsesLocal(t *testing.T) {
	p := openPersistence(t, services.PersistenceConfig{
		RemoteURL: "https://project.supabase.co",
		LocalPath: localPath(t),
	})
	assert.Equal(t, services.BackendLocal, p.Backend())
	assert.Empty(t, p.Notice())
}

func TestPersistence_InvalidRemoteURLFallsBack(t *testing.T) {
	p := openPersistence(t, services.PersistenceConfig{
		RemoteURL: "not a url",
		RemoteKey: "anon",
		LocalPath: localPath(t),
	})

	assert.Equal(t, services.BackendLocal, p.Backend())
	assert.NotEmpty(t, p.Notice())
	assert.Equal(t, "local", p.Status().Backend)
}

func TestPersistence_FailingProbeFallsBack(t *testing.T) {
	srv := testutil.NewTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "Invalid API key"})
	}))

	p := openPersistence(t, services.PersistenceConfig{
		RemoteURL:  srv.URL,
		RemoteKey:  "wrong",
		LocalPath:  localPath(t),
		HTTPClient: srv.Client(),
	})

	assert.Equal(t, services.BackendLocal, p.Backend())
	assert.Contains(t, p.Notice(), "Invalid API key")
	require.NoError(t, p.Insert(context.Background(), sampleRecord()))
}

func TestPersistence_InvalidDSNFallsBack(t *testing.T) {
	p := openPersistence(t, services.PersistenceConfig{
		RemoteDSN: "mysql://user@localhost/db",
		LocalPath: localPath(t),
	})
	assert.Equal(t, services.BackendLocal, p.Backend())
	assert.NotEmpty(t, p.Notice())
}

// silentListener accepts connections and never answers them.
func silentListener(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return ln.Addr().String()
}

func TestPersistence_UnresponsiveDSNFallsBackWithinTimeout(t *testing.T) {
	addr := silentListener(t)

	start := time.Now()
	p := openPersistence(t, services.PersistenceConfig{
		RemoteDSN:    "postgres://user:secret@" + addr + "/survey?sslmode=disable",
		LocalPath:    localPath(t),
		ProbeTimeout: 300 * time.Millisecond,
	})
	elapsed := time.Since(start)

	assert.Equal(t, services.BackendLocal, p.Backend())
	assert.NotEmpty(t, p.Notice())
	assert.Less(t, elapsed, 5*time.Second)
}

func TestPersistence_ReachableRemoteIsExclusive(t *testing.T) {
	var inserts atomic.Int32
	srv := testutil.NewTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			inserts.Add(1)
			w.WriteHeader(http.StatusCreated)
		default:
			testutil.WriteJSON(t, w, http.StatusOK, []any{})
		}
	}))

	path := localPath(t)
	p := openPersistence(t, services.PersistenceConfig{
		RemoteURL:  srv.URL,
		RemoteKey:  "anon",
		LocalPath:  path,
		HTTPClient: srv.Client(),
	})

	assert.Equal(t, services.BackendRemote, p.Backend())
	assert.Empty(t, p.Notice())

	require.NoError(t, p.Insert(context.Background(), sampleRecord()))
	require.NoError(t, p.Insert(context.Background(), sampleRecord()))
	assert.EqualValues(t, 2, inserts.Load())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "local store must not be touched")
}

func TestPersistence_RemoteFailureIsNotRerouted(t *testing.T) {
	var probed atomic.Bool
	srv := testutil.NewTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !probed.Swap(true) {
			testutil.WriteJSON(t, w, http.StatusOK, []any{})
			return
		}
		testutil.WriteJSON(t, w, http.StatusServiceUnavailable, map[string]string{"message": "down"})
	}))

	path := localPath(t)
	p := openPersistence(t, services.PersistenceConfig{
		RemoteURL:  srv.URL,
		RemoteKey:  "anon",
		LocalPath:  path,
		HTTPClient: srv.Client(),
	})
	require.Equal(t, services.BackendRemote, p.Backend())

	err := p.Insert(context.Background(), sampleRecord())
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPersistence_LocalFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := services.NewPersistence(context.Background(), services.PersistenceConfig{
		LocalPath: filepath.Join(blocker, "nested", "survey.db"),
	})
	assert.Error(t, err)
}
