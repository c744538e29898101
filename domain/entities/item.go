package entities

import (
	"fmt"
	"strings"
)

// Rarity is the normalized rarity tier of an item. Configuration files
// express tiers loosely ("5", 5, "5star"); everything past the parsing
// boundary works with this type only.
type Rarity int

const (
	RarityThreeStar Rarity = 3
	RarityFourStar  Rarity = 4
	RarityFiveStar  Rarity = 5
)

// ParseRarity normalizes the loose rarity spellings found in pool and item
// configuration data.
func ParseRarity(s string) (Rarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "3", "3star", "three":
		return RarityThreeStar, nil
	case "4", "4star", "four":
		return RarityFourStar, nil
	case "5", "5star", "five":
		return RarityFiveStar, nil
	default:
		return 0, fmt.Errorf("unknown rarity %q", s)
	}
}

// Valid reports whether the rarity is one of the three supported tiers.
func (r Rarity) Valid() bool {
	return r == RarityThreeStar || r == RarityFourStar || r == RarityFiveStar
}

// Key returns the canonical configuration key for the rarity ("5star" etc).
func (r Rarity) Key() string {
	return fmt.Sprintf("%dstar", int(r))
}

func (r Rarity) String() string {
	return r.Key()
}

// ItemType distinguishes characters from weapons.
type ItemType string

const (
	ItemTypeCharacter ItemType = "character"
	ItemTypeWeapon    ItemType = "weapon"
)

// Item is an immutable catalog entry. Identity is the external ID; two items
// with the same ID are the same item regardless of object identity.
type Item struct {
	ID             string   `db:"external_id"`
	Name           string   `db:"name"`
	Rarity         Rarity   `db:"rarity"`
	Type           ItemType `db:"item_type"`
	AffiliatedType string   `db:"affiliated_type"`
	PortraitPath   string   `db:"portrait_path"`
}

// IsCharacter reports whether the item is a character.
func (i *Item) IsCharacter() bool {
	return i.Type == ItemTypeCharacter
}
