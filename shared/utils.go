package shared

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateID generates a random hex ID of the given byte length.
func GenerateID(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// GenerateSessionID generates a unique session identifier.
func GenerateSessionID() string {
	return "sess_" + GenerateID(8)
}

// GenerateBuildID generates a unique identifier for a generated
// payload artifact.
func GenerateBuildID() string {
	return "bld_" + GenerateID(8)
}

// FormatDuration formats a duration for human-readable display.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

var adjectives = []string{
	"Arctic", "Bold", "Crimson", "Dark", "Electric", "Fierce", "Ghost",
	"Golden", "Hidden", "Iron", "Lone", "Neon", "Night", "Pale", "Quick",
	"Red", "Royal", "Sacred", "Shadow", "Silent", "Silver", "Solar",
	"Steel", "Storm", "Swift", "Void", "White", "Wild", "Winter", "Zero",
}

var nouns = []string{
	"Arrow", "Bear", "Blade", "Bolt", "Crow", "Dragon", "Eagle", "Falcon",
	"Fox", "Hawk", "Hunter", "Jaguar", "Knight", "Lance", "Lion", "Phoenix",
	"Raven", "Saber", "Serpent", "Spear", "Spider", "Star", "Thunder",
	"Tiger", "Titan", "Viper", "Warden", "Wolf", "Wraith", "Zephyr",
}

// GenerateCodename generates a military-style codename for sessions.
func GenerateCodename() string {
	bytes := make([]byte, 2)
	rand.Read(bytes)
	adj := adjectives[int(bytes[0])%len(adjectives)]
	noun := nouns[int(bytes[1])%len(nouns)]
	return fmt.Sprintf("%s%s", adj, noun)
}
