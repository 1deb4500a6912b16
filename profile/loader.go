package profile

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

//go:embed profiles/*.json
var embeddedProfiles embed.FS

// Registry holds loaded profiles by name.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry creates a registry with the embedded built-in profiles.
func NewRegistry() (*Registry, error) {
	r := &Registry{profiles: make(map[string]*Profile)}

	entries, err := embeddedProfiles.ReadDir("profiles")
	if err != nil {
		return r, nil
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := embeddedProfiles.ReadFile("profiles/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded profile %s: %w", entry.Name(), err)
		}

		p, err := parseProfile(data)
		if err != nil {
			return nil, fmt.Errorf("parsing embedded profile %s: %w", entry.Name(), err)
		}

		r.profiles[strings.TrimSuffix(entry.Name(), ".json")] = p
	}

	return r, nil
}

// Get retrieves a profile by name.
func (r *Registry) Get(name string) (*Profile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}

// List returns all registered profile names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads a profile from a file path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	p, err := parseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return p, nil
}

// Resolve loads a profile by built-in name or, failing that, file path.
func Resolve(ref string) (*Profile, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	if p, ok := registry.Get(ref); ok {
		return p, nil
	}

	if _, err := os.Stat(ref); err != nil {
		return nil, fmt.Errorf("profile %q is neither a built-in profile nor a readable file", ref)
	}
	return Load(ref)
}

func parseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling profile JSON: %w", err)
	}
	return &p, nil
}
