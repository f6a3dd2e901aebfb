package utils

import (
	"fmt"
	"math/rand"
)

// GenerateLocator builds the pickup code shown on the truck board:
// one letter followed by three digits, e.g. "B427". Not unique by
// construction, but short-lived enough that collisions across open
// orders are acceptable.
func GenerateLocator() string {
	letter := 'A' + rune(rand.Intn(26))
	return fmt.Sprintf("%c%03d", letter, rand.Intn(1000))
}
