package pools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gachabot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const limitedPoolJSON = `{
	"name": "Limited Wish",
	"config_group": "default",
	"probability_settings": {
		"base_5star_rate": 0.008,
		"base_4star_rate": 0.06,
		"up_5star_rate": 0.5,
		"up_4star_rate": 0.5,
		"_4star_role_rate": 0.06
	},
	"probability_progression": {
		"5star": {
			"hard_pity_pull": 90,
			"hard_pity_rate": 1,
			"soft_pity": [{"start_pull": 74, "end_pull": 89, "increment": 0.06}]
		},
		"4star": {"hard_pity_pull": 10, "hard_pity_rate": 1, "soft_pity": []}
	},
	"included_item_ids": {"5star": ["c5a", "c5b"], "4star": ["c4a"], "3star": ["w3a"]},
	"rate_up_item_ids": {"5star": ["c5a"]}
}`

func writePool(t *testing.T, dir, relPath, content string) {
	t.Helper()
	full := filepath.Join(dir, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestManager_LoadAndGet(t *testing.T) {
	dir := t.TempDir()
	writePool(t, dir, "default/limited.json", limitedPoolJSON)

	m, err := NewManager(dir, "")
	require.NoError(t, err)
	require.Len(t, m.IDs(), 1)

	t.Run("by path", func(t *testing.T) {
		cfg, err := m.Get("default/limited")
		require.NoError(t, err)
		assert.Equal(t, "Limited Wish", cfg.Name)
		assert.True(t, cfg.Enabled)
		assert.Equal(t, 90, cfg.Progression[entities.RarityFiveStar].HardPityPull)
		assert.Equal(t, []string{"c5a", "c5b"}, cfg.IncludedItemIDs[entities.RarityFiveStar])
		assert.True(t, cfg.IsRateUp(entities.RarityFiveStar, "c5a"))
	})

	t.Run("by id", func(t *testing.T) {
		cfg, err := m.Get(m.IDs()[0])
		require.NoError(t, err)
		assert.Equal(t, "Limited Wish", cfg.Name)
	})

	t.Run("by name", func(t *testing.T) {
		matched := m.GetByName("Limited Wish")
		require.Len(t, matched, 1)
		assert.Equal(t, "Limited Wish", matched[0].Name)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := m.Get("no-such-pool")
		assert.ErrorIs(t, err, ErrPoolNotFound)
	})
}

func TestManager_StablePoolIDs(t *testing.T) {
	dir := t.TempDir()
	writePool(t, dir, "default/limited.json", limitedPoolJSON)

	m1, err := NewManager(dir, "")
	require.NoError(t, err)
	id := m1.IDs()[0]
	assert.Len(t, id, 12)

	// Reloading from the same path and name yields the same id.
	m2, err := NewManager(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{id}, m2.IDs())
}

func TestManager_LooseRaritySpellings(t *testing.T) {
	dir := t.TempDir()
	writePool(t, dir, "loose.json", `{
		"name": "Loose Keys",
		"probability_progression": {
			"5": {"hard_pity_pull": 80, "hard_pity_rate": 1},
			"four": {"hard_pity_pull": 10, "hard_pity_rate": 1}
		},
		"included_item_ids": {"5": ["c5a"], "3star": ["w3a"]}
	}`)

	m, err := NewManager(dir, "")
	require.NoError(t, err)

	cfg, err := m.Get("loose")
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Progression[entities.RarityFiveStar].HardPityPull)
	assert.Equal(t, []string{"c5a"}, cfg.IncludedItemIDs[entities.RarityFiveStar])
	// Unset probabilities take the defaults.
	assert.Equal(t, entities.DefaultBase5StarRate, cfg.Probabilities.Base5StarRate)
}

func TestManager_SkipsNamelessAndRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	writePool(t, dir, "nameless.json", `{"probability_settings": {}}`)

	m, err := NewManager(dir, "")
	require.NoError(t, err)
	assert.Empty(t, m.IDs())

	writePool(t, dir, "broken.json", `{"name": "Broken", "probability_settings": {"base_5star_rate": 2.0}}`)
	assert.Error(t, m.Reload())
}

func TestManager_DisabledPool(t *testing.T) {
	dir := t.TempDir()
	writePool(t, dir, "closed.json", `{
		"name": "Closed Wish",
		"enable": false,
		"probability_progression": {
			"5star": {"hard_pity_pull": 80, "hard_pity_rate": 1},
			"4star": {"hard_pity_pull": 10, "hard_pity_rate": 1}
		}
	}`)

	m, err := NewManager(dir, "")
	require.NoError(t, err)

	cfg, err := m.Get("closed")
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Empty(t, m.EnabledConfigs())
}

func TestManager_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir, "")
	require.NoError(t, err)

	cfg := &entities.PoolConfig{
		Name:        "Event Wish",
		Enabled:     true,
		ConfigGroup: "event",
		IncludedItemIDs: map[entities.Rarity][]string{
			entities.RarityFiveStar:  {"c5a"},
			entities.RarityThreeStar: {"w3a"},
		},
	}
	require.NoError(t, m.Save("event_wish", cfg))
	require.NotEmpty(t, cfg.ID)

	// The file lands under the config group subdirectory.
	_, err = os.Stat(filepath.Join(dir, "event", "event_wish.json"))
	require.NoError(t, err)

	fresh, err := NewManager(dir, "")
	require.NoError(t, err)

	loaded, err := fresh.Get(cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Event Wish", loaded.Name)
	assert.Equal(t, "event", loaded.ConfigGroup)
	assert.Equal(t, []string{"c5a"}, loaded.IncludedItemIDs[entities.RarityFiveStar])
}

func TestManager_SaveKeepsExistingID(t *testing.T) {
	dir := t.TempDir()
	writePool(t, dir, "default/limited.json", limitedPoolJSON)

	m, err := NewManager(dir, "")
	require.NoError(t, err)
	originalID := m.IDs()[0]

	updated := &entities.PoolConfig{Name: "Limited Wish v2", ConfigGroup: "default"}
	require.NoError(t, m.Save("limited", updated))
	assert.Equal(t, originalID, updated.ID)

	cfg, err := m.Get(originalID)
	require.NoError(t, err)
	assert.Equal(t, "Limited Wish v2", cfg.Name)
}

func TestManager_Delete(t *testing.T) {
	dir := t.TempDir()
	writePool(t, dir, "default/limited.json", limitedPoolJSON)

	m, err := NewManager(dir, "")
	require.NoError(t, err)
	id := m.IDs()[0]

	require.NoError(t, m.Delete(id))
	assert.Empty(t, m.IDs())

	_, err = os.Stat(filepath.Join(dir, "default", "limited.json"))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, m.Delete(id), ErrPoolNotFound)
}

func TestManager_SetEnabled(t *testing.T) {
	dir := t.TempDir()
	writePool(t, dir, "default/limited.json", limitedPoolJSON)

	m, err := NewManager(dir, "")
	require.NoError(t, err)
	id := m.IDs()[0]

	require.NoError(t, m.SetEnabled(id, false))
	assert.Empty(t, m.EnabledConfigs())

	// The flag survives a reload.
	fresh, err := NewManager(dir, "")
	require.NoError(t, err)
	cfg, err := fresh.Get(id)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
}

func TestManager_DefaultConfigGroup(t *testing.T) {
	dir := t.TempDir()
	groupless := strings.Replace(limitedPoolJSON, "\"config_group\": \"default\",", "", 1)
	writePool(t, dir, "seasonal/limited.json", groupless)
	writePool(t, dir, "event/limited.json", limitedPoolJSON)

	m, err := NewManager(dir, "seasonal")
	require.NoError(t, err)

	loaded, err := m.Get("seasonal/limited")
	require.NoError(t, err)
	assert.Equal(t, "seasonal", loaded.ConfigGroup)

	explicit, err := m.Get("event/limited")
	require.NoError(t, err)
	assert.Equal(t, "default", explicit.ConfigGroup, "a group named in the file wins")

	saved := &entities.PoolConfig{
		Name: "Weapon Wish",
		Probabilities: entities.ProbabilitySettings{
			Base5StarRate: 0.008, Base4StarRate: 0.06,
			Up5StarRate: 0.5, Up4StarRate: 0.5, FourStarRoleRate: 0.06,
		},
	}
	require.NoError(t, m.Save("weapon", saved))
	assert.Equal(t, "seasonal", saved.ConfigGroup)

	_, err = m.Get("seasonal/weapon")
	require.NoError(t, err)
}
