package pools

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gachabot/domain/entities"

	log "github.com/sirupsen/logrus"
)

// ErrPoolNotFound is returned when no pool matches the given identifier.
var ErrPoolNotFound = errors.New("pool config not found")

// Manager loads the pool JSON files under a config directory (recursively),
// normalizes them into entities.PoolConfig, and serves them by id, file path
// or name. All mutation goes back through the manager so the files and the
// in-memory view stay in sync.
type Manager struct {
	dir   string
	group string // config group applied to pools whose file omits one

	mu       sync.RWMutex
	configs  map[string]*entities.PoolConfig // keyed by pool id
	pathToID map[string]string               // relative path sans .json -> id
}

// NewManager creates a pool manager rooted at dir and loads every config
// found there. Pools that do not name a config group get defaultGroup.
func NewManager(dir, defaultGroup string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create pool config dir %q: %w", dir, err)
	}
	if defaultGroup == "" {
		defaultGroup = entities.DefaultConfigGroup
	}
	m := &Manager{dir: dir, group: defaultGroup}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload rescans the config directory, replacing the in-memory view.
func (m *Manager) Reload() error {
	configs := make(map[string]*entities.PoolConfig)
	pathToID := make(map[string]string)

	err := filepath.WalkDir(m.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") || d.Name() == ".json" {
			return nil
		}

		rel, err := filepath.Rel(m.dir, path)
		if err != nil {
			return err
		}
		key := pathKey(rel)

		cfg, err := loadPoolFile(path, key, m.group)
		if err != nil {
			return fmt.Errorf("pool config %q: %w", key, err)
		}
		if cfg == nil {
			return nil // skipped (no name)
		}

		if _, exists := configs[cfg.ID]; exists {
			return fmt.Errorf("duplicate pool id %q at %q", cfg.ID, key)
		}
		configs[cfg.ID] = cfg
		pathToID[key] = cfg.ID

		log.WithFields(log.Fields{
			"path":   key,
			"poolID": cfg.ID,
			"name":   cfg.Name,
		}).Info("Loaded pool config")
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load pool configs: %w", err)
	}

	m.mu.Lock()
	m.configs = configs
	m.pathToID = pathToID
	m.mu.Unlock()

	log.WithField("count", len(configs)).Info("Pool configs loaded")
	return nil
}

// Get resolves a pool by id or by relative file path (without .json).
func (m *Manager) Get(identifier string) (*entities.PoolConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if cfg, ok := m.configs[identifier]; ok {
		return cfg, nil
	}
	if id, ok := m.pathToID[pathKey(identifier)]; ok {
		return m.configs[id], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrPoolNotFound, identifier)
}

// GetByName returns every pool carrying the given display name. Names are
// not unique across files.
func (m *Manager) GetByName(name string) []*entities.PoolConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*entities.PoolConfig
	for _, cfg := range m.configs {
		if cfg.Name == name {
			matched = append(matched, cfg)
		}
	}
	return matched
}

// IDs returns the ids of every loaded pool.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.configs))
	for id := range m.configs {
		ids = append(ids, id)
	}
	return ids
}

// EnabledConfigs returns every pool currently open for pulls.
func (m *Manager) EnabledConfigs() []*entities.PoolConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var enabled []*entities.PoolConfig
	for _, cfg := range m.configs {
		if cfg.Enabled {
			enabled = append(enabled, cfg)
		}
	}
	return enabled
}

// Save writes a pool config to relPath (without .json) under its config
// group subdirectory and registers it. An existing pool at the same path is
// replaced; its id is kept.
func (m *Manager) Save(relPath string, cfg *entities.PoolConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("pool config: name is required")
	}

	if cfg.ConfigGroup == "" {
		cfg.ConfigGroup = m.group
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	key := pathKey(filepath.Join(cfg.ConfigGroup, relPath))

	m.mu.Lock()
	defer m.mu.Unlock()

	if existingID, ok := m.pathToID[key]; ok {
		cfg.ID = existingID
	} else if cfg.ID == "" {
		cfg.ID = generatePoolID(key, cfg.Name)
	}

	fullPath := filepath.Join(m.dir, key+".json")
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create pool config dir: %w", err)
	}

	data, err := json.MarshalIndent(toRaw(cfg), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pool config %q: %w", cfg.Name, err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write pool config %q: %w", key, err)
	}

	m.configs[cfg.ID] = cfg
	m.pathToID[key] = cfg.ID

	log.WithFields(log.Fields{
		"path":   key,
		"poolID": cfg.ID,
	}).Info("Saved pool config")
	return nil
}

// Delete removes a pool and its backing file.
func (m *Manager) Delete(identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := identifier
	if _, ok := m.configs[id]; !ok {
		mapped, ok := m.pathToID[pathKey(identifier)]
		if !ok {
			return fmt.Errorf("%w: %q", ErrPoolNotFound, identifier)
		}
		id = mapped
	}

	for key, mapped := range m.pathToID {
		if mapped != id {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, key+".json")); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove pool config file %q: %w", key, err)
		}
		delete(m.pathToID, key)
	}
	delete(m.configs, id)
	return nil
}

// SetEnabled flips a pool's enable flag and persists it.
func (m *Manager) SetEnabled(identifier string, enabled bool) error {
	cfg, err := m.Get(identifier)
	if err != nil {
		return err
	}

	m.mu.Lock()
	cfg.Enabled = enabled
	var key string
	for path, id := range m.pathToID {
		if id == cfg.ID {
			key = path
			break
		}
	}
	m.mu.Unlock()

	if key == "" {
		return fmt.Errorf("%w: no file backs pool %q", ErrPoolNotFound, cfg.ID)
	}

	data, err := json.MarshalIndent(toRaw(cfg), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pool config %q: %w", cfg.Name, err)
	}
	return os.WriteFile(filepath.Join(m.dir, key+".json"), data, 0o644)
}

// generatePoolID derives a stable 12 hex char id from the relative file path
// and the pool name. Existing files carrying an explicit cp_id keep it.
func generatePoolID(path, name string) string {
	sum := md5.Sum([]byte(path + ":" + name))
	return hex.EncodeToString(sum[:])[:12]
}

// pathKey normalizes a relative config path: forward slashes, no .json.
func pathKey(rel string) string {
	rel = strings.TrimSuffix(rel, ".json")
	return filepath.ToSlash(rel)
}
