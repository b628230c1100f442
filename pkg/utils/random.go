package utils

import (
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand/v2"
	"strings"
)

// GenerateID создает короткий случайный ID (16 символов hex).
// Используется для идентификаторов соединений; комнаты получают UUID.
func GenerateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}

var (
	nameAdjectives = []string{
		"abandoned", "able", "absolute", "adorable", "adventurous", "academic", "acceptable",
		"acclaimed", "accomplished", "accurate", "aching", "acidic", "acrobatic", "active",
	}
	nameNouns = []string{
		"people", "history", "way", "art", "world", "information", "map", "family", "government",
		"health", "system", "computer", "meat", "year", "thanks", "music", "person",
	}
)

// GenerateName собирает отображаемое имя вида "Adorable Music"
// для игроков, которые не представились.
func GenerateName() string {
	adj := nameAdjectives[mrand.IntN(len(nameAdjectives))]
	noun := nameNouns[mrand.IntN(len(nameNouns))]
	return capFirst(adj) + " " + capFirst(noun)
}

func capFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
