package tool

import (
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/samber/lo"
)

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Slugify turns free text (including Vietnamese diacritics) into a URL slug.
func Slugify(s string) string {
	return slug.Make(s)
}

// RandomPassword returns a temporary password of n alphanumeric characters.
func RandomPassword(n int) string {
	return lo.RandomString(n, lo.AlphanumericCharset)
}
