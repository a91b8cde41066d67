package scripts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/deepchat-dev/deepchat/internal/config"
)

// Loader handles discovery and parsing of script definitions from YAML files
type Loader struct {
	paths      []string
	globalPath string
}

// NewLoader creates a new script loader with the given search paths
func NewLoader(paths []string) *Loader {
	globalPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		globalPath = filepath.Join(home, ".config", "deepchat", "scripts")
	}
	return &Loader{paths: paths, globalPath: globalPath}
}

// LoadAll discovers and loads all script definitions from all configured
// paths. Paths are searched in order and the first script with a given name
// wins, so project-local scripts shadow global ones.
func (l *Loader) LoadAll() ([]*ScriptDefinition, error) {
	var scripts []*ScriptDefinition
	seen := map[string]bool{}

	for _, basePath := range l.paths {
		isGlobal := l.globalPath != "" && basePath == l.globalPath

		info, err := os.Stat(basePath)
		if err != nil {
			if os.IsNotExist(err) {
				continue // Skip non-existent directories
			}
			return nil, fmt.Errorf("error accessing %s: %w", basePath, err)
		}
		if !info.IsDir() {
			continue
		}

		entries, err := os.ReadDir(basePath)
		if err != nil {
			return nil, fmt.Errorf("error reading directory %s: %w", basePath, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
				continue
			}

			filePath := filepath.Join(basePath, name)
			script, err := l.LoadFromFile(filePath)
			if err != nil {
				// Log but don't fail on individual file errors
				fmt.Fprintf(os.Stderr, "Warning: failed to load script from %s: %v\n", filePath, err)
				continue
			}

			if seen[script.Name] {
				continue
			}
			seen[script.Name] = true

			script.IsGlobal = isGlobal
			scripts = append(scripts, script)
		}
	}

	return scripts, nil
}

// LoadFromFile parses a single YAML script file
func (l *Loader) LoadFromFile(filePath string) (*ScriptDefinition, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	var script ScriptDefinition
	if err := yaml.Unmarshal(content, &script); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}

	script.FilePath = filePath

	if err := script.Validate(); err != nil {
		return nil, err
	}

	return &script, nil
}

// Registry manages loaded scripts
type Registry struct {
	mu      sync.RWMutex
	scripts map[string]*ScriptDefinition
	loader  *Loader
}

// NewRegistry creates a script registry searching the default paths
func NewRegistry() *Registry {
	return NewRegistryWithPaths(config.ScriptPaths())
}

// NewRegistryWithPaths creates a script registry with custom search paths
func NewRegistryWithPaths(paths []string) *Registry {
	return &Registry{
		scripts: make(map[string]*ScriptDefinition),
		loader:  NewLoader(paths),
	}
}

// Refresh reloads all scripts from disk
func (r *Registry) Refresh() error {
	scripts, err := r.loader.LoadAll()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.scripts = make(map[string]*ScriptDefinition)
	for _, script := range scripts {
		r.scripts[script.Name] = script
	}

	return nil
}

// Get returns a script by name
func (r *Registry) Get(name string) (*ScriptDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	script, ok := r.scripts[name]
	return script, ok
}

// List returns all loaded scripts sorted by name
func (r *Registry) List() []*ScriptDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scripts := make([]*ScriptDefinition, 0, len(r.scripts))
	for _, script := range r.scripts {
		scripts = append(scripts, script)
	}
	sort.Slice(scripts, func(i, j int) bool { return scripts[i].Name < scripts[j].Name })
	return scripts
}

// Count returns the number of loaded scripts
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scripts)
}
