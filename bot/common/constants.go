package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorInfo    = 0x3498DB // Blue

	// Rarity accent colors for embeds
	ColorFiveStar  = 0xFFB636 // Gold
	ColorFourStar  = 0xB47FF2 // Purple
	ColorThreeStar = 0x6699E5 // Blue
)

// History constants
const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 25
)
