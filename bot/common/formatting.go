package common

import (
	"fmt"
	"strings"
	"time"

	"gachabot/domain/entities"
)

// FormatStars renders a rarity as a star string ("★★★★★").
func FormatStars(rarity entities.Rarity) string {
	return strings.Repeat("★", int(rarity))
}

// FormatPercent formats a probability as a percentage with two decimals.
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// RarityColor returns the embed accent color for a rarity.
func RarityColor(rarity entities.Rarity) int {
	switch rarity {
	case entities.RarityFiveStar:
		return ColorFiveStar
	case entities.RarityFourStar:
		return ColorFourStar
	default:
		return ColorThreeStar
	}
}

// FormatItemLine renders one item as a history/result line.
func FormatItemLine(item *entities.Item) string {
	return fmt.Sprintf("%s **%s** (%s)", FormatStars(item.Rarity), item.Name, item.Type)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
