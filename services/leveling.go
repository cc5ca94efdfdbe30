// services/leveling.go - Pure leveling curve. The server value is
// authoritative; clients render the same curve for display only.
package services

import "math"

// XPForLevel returns the XP span of a single level: how much must be earned
// inside it before the next level starts.
func XPForLevel(level int) int {
	if level < 1 {
		return 0
	}
	return int(100 * math.Pow(float64(level), 1.5))
}

// Level maps cumulative XP to a level number. Deterministic and
// monotonically non-decreasing in totalXP; level 1 starts at 0.
func Level(totalXP int) int {
	level, _ := LevelProgress(totalXP)
	return level
}

// LevelProgress returns the level for totalXP together with the XP already
// earned inside that level.
func LevelProgress(totalXP int) (level, xpIntoLevel int) {
	if totalXP < 0 {
		return 1, 0
	}
	level = 1
	start := 0
	for {
		span := XPForLevel(level)
		if totalXP < start+span {
			return level, totalXP - start
		}
		start += span
		level++
	}
}
