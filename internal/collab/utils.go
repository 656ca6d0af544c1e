// Package collab - utility functions for the collaboration layer.
package collab

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
)

// generateID generates a random unique ID.
func generateID() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// generateInitials generates 2-character initials from a name.
func generateInitials(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "??"
	}

	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "??"
	}

	if len(parts) == 1 {
		if len(parts[0]) >= 2 {
			return strings.ToUpper(parts[0][:2])
		}
		return strings.ToUpper(parts[0] + "?")
	}

	return strings.ToUpper(string(parts[0][0]) + string(parts[1][0]))
}

// generateColor generates a consistent color from a user ID.
func generateColor(userID string) string {
	hash := 0
	for _, c := range userID {
		hash = int(c) + ((hash << 5) - hash)
	}

	colors := []string{
		"#667eea", "#764ba2", "#f093fb", "#4facfe",
		"#00f2fe", "#43e97b", "#38f9d7", "#fa709a",
		"#fee140", "#ffa647", "#fe8c00", "#f83600",
		"#a8edea", "#fed6e3", "#c471f5", "#fa71cd",
	}

	idx := abs(hash) % len(colors)
	return colors[idx]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// GenerateSessionURL builds a shareable URL for an editing session.
func GenerateSessionURL(baseURL, sessionID string) string {
	if baseURL == "" {
		baseURL = "https://isopgem.local"
	}
	return fmt.Sprintf("%s/session/%s", baseURL, sessionID)
}

// ValidatePermission reports whether permission is one of the three known
// levels.
func ValidatePermission(permission Permission) bool {
	return permission == PermissionOwner ||
		permission == PermissionEditor ||
		permission == PermissionViewer
}

// CanEdit reports whether permission allows mutating a session's groups.
func CanEdit(permission Permission) bool {
	return permission == PermissionOwner || permission == PermissionEditor
}

func fromColorPayload(c ColorPayload) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
