package secrets_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecrets(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestResolve_MissingFileFallsBackToEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.toml")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	r := secrets.NewResolver(path)
	v, ok := r.Resolve("OPENAI_API_KEY")
	assert.True(t, ok)
	assert.Equal(t, "sk-from-env", v)

	src := secrets.NewFileSource(path)
	assert.True(t, errors.Is(src.Err(), fs.ErrNotExist))
}

func TestResolve_MissingFileAndEnvIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.toml")
	t.Setenv("OPENAI_API_KEY", "")

	v, ok := secrets.NewResolver(path).Resolve("OPENAI_API_KEY")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestResolve_FileWinsOverEnv(t *testing.T) {
	path := writeSecrets(t, `
OPENAI_API_KEY = "sk-from-file"
SUPABASE_URL = "https://project.supabase.co"
`)
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	r := secrets.NewResolver(path)
	v, ok := r.Resolve("OPENAI_API_KEY")
	assert.True(t, ok)
	assert.Equal(t, "sk-from-file", v)
}

func TestResolve_ExplicitFallbackEnvName(t *testing.T) {
	path := writeSecrets(t, `OTHER = "x"`)
	t.Setenv("IMAGE_KEY", "sk-alt")

	v, ok := secrets.NewResolver(path).Resolve("OPENAI_API_KEY", "IMAGE_KEY")
	assert.True(t, ok)
	assert.Equal(t, "sk-alt", v)
}

func TestResolve_MalformedFileIsSwallowed(t *testing.T) {
	path := writeSecrets(t, `OPENAI_API_KEY = "unterminated`)
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	v, ok := secrets.NewResolver(path).Resolve("OPENAI_API_KEY")
	assert.True(t, ok)
	assert.Equal(t, "sk-from-env", v)
}

func TestResolve_SectionedKey(t *testing.T) {
	path := writeSecrets(t, `
[supabase]
url = "https://project.supabase.co"
`)
	v, ok := secrets.NewResolver(path).Resolve("supabase.url", "SUPABASE_URL")
	assert.True(t, ok)
	assert.Equal(t, "https://project.supabase.co", v)
}

func TestResolve_BlankValuesAreAbsent(t *testing.T) {
	path := writeSecrets(t, `SUPABASE_KEY = "   "`)
	t.Setenv("SUPABASE_KEY", "")

	_, ok := secrets.NewResolver(path).Resolve("SUPABASE_KEY")
	assert.False(t, ok)
}

type mapSource map[string]string

func (m mapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func TestLoad_CollectsAllSecrets(t *testing.T) {
	r := secrets.NewResolverWithSources(
		mapSource{"SUPABASE_URL": "https://p.supabase.co", "SUPABASE_KEY": "anon"},
		mapSource{"OPENAI_API_KEY": "sk-env"},
	)
	got := r.Load()
	assert.Equal(t, secrets.Secrets{
		ImageAPIKey: "sk-env",
		RemoteURL:   "https://p.supabase.co",
		RemoteKey:   "anon",
	}, got)
}
