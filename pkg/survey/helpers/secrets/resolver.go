// Package secrets resolves credentials and endpoints from layered sources:
// a structured TOML secrets file first, then the process environment.
package secrets

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is where the secrets file is looked up when SECRETS_FILE is unset.
const DefaultFile = ".streamlit/secrets.toml"

// Logical secret names. Each is also the name of the matching env var.
const (
	ImageAPIKey    = "OPENAI_API_KEY"
	RemoteURL      = "SUPABASE_URL"
	RemoteKey      = "SUPABASE_KEY"
	RemoteDBURL    = "SUPABASE_DB_URL"
	SecretsFileEnv = "SECRETS_FILE"
)

// Source is one layer of the lookup chain. Lookup never fails loudly:
// an unreachable source simply has no values.
type Source interface {
	Lookup(key string) (string, bool)
}

// EnvSource reads the process environment.
type EnvSource struct{}

func (EnvSource) Lookup(key string) (string, bool) {
	return present(os.Getenv(key))
}

// FileSource reads a flat or sectioned TOML file. The file is parsed on
// first lookup; a missing or malformed file yields an empty source.
type FileSource struct {
	Path string

	once   sync.Once
	values map[string]any
	err    error
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) load() {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		f.err = err
		return
	}
	var values map[string]any
	if err := toml.Unmarshal(data, &values); err != nil {
		f.err = fmt.Errorf("parse %s: %w", f.Path, err)
		return
	}
	f.values = values
}

// Err reports why the file could not be used, if it could not.
func (f *FileSource) Err() error {
	f.once.Do(f.load)
	return f.err
}

func (f *FileSource) Lookup(key string) (string, bool) {
	f.once.Do(f.load)
	if f.err != nil {
		return "", false
	}
	if v, ok := f.values[key]; ok {
		return stringValue(v)
	}
	// "section.key" addresses a TOML table entry
	section, name, ok := strings.Cut(key, ".")
	if !ok {
		return "", false
	}
	table, ok := f.values[section].(map[string]any)
	if !ok {
		return "", false
	}
	return stringValue(table[name])
}

// Resolver walks its sources in order and returns the first present value.
type Resolver struct {
	file Source
	env  Source
}

// NewResolver builds the default chain: the TOML file at path, then the environment.
func NewResolver(path string) *Resolver {
	if path == "" {
		path = DefaultFile
	}
	return &Resolver{file: NewFileSource(path), env: EnvSource{}}
}

// NewResolverFromEnv uses SECRETS_FILE (or DefaultFile) as the file layer.
func NewResolverFromEnv() *Resolver {
	return NewResolver(strings.TrimSpace(os.Getenv(SecretsFileEnv)))
}

// NewResolverWithSources is used by tests to plug in fakes.
func NewResolverWithSources(file, env Source) *Resolver {
	return &Resolver{file: file, env: env}
}

// Resolve looks key up in the file layer, then in the environment under
// fallbackEnv (when given) or key itself. Absence is reported with ok=false.
func (r *Resolver) Resolve(key string, fallbackEnv ...string) (string, bool) {
	if r.file != nil {
		if v, ok := r.file.Lookup(key); ok {
			return v, true
		}
	}
	if r.env == nil {
		return "", false
	}
	envName := key
	if len(fallbackEnv) > 0 && strings.TrimSpace(fallbackEnv[0]) != "" {
		envName = fallbackEnv[0]
	}
	return r.env.Lookup(envName)
}

// Secrets groups the credentials the service consumes.
type Secrets struct {
	ImageAPIKey string
	RemoteURL   string
	RemoteKey   string
	RemoteDBURL string
}

// Load resolves every known secret; missing ones stay empty.
func (r *Resolver) Load() Secrets {
	get := func(key string) string {
		v, _ := r.Resolve(key)
		return v
	}
	return Secrets{
		ImageAPIKey: get(ImageAPIKey),
		RemoteURL:   get(RemoteURL),
		RemoteKey:   get(RemoteKey),
		RemoteDBURL: get(RemoteDBURL),
	}
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return present(t)
	case nil:
		return "", false
	default:
		return present(fmt.Sprint(t))
	}
}

func present(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}
