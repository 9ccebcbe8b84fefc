package model

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/and161185/notekeeper/internal/errs"
)

// Title bounds shared by every titled entity.
const (
	TitleMinLen = 3
	TitleMaxLen = 64
	slugMaxLen  = 64
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > slugMaxLen {
		s = strings.TrimRight(s[:slugMaxLen], "-")
	}
	return s
}

// ValidateTitle checks a title against the shared length bounds.
func ValidateTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < TitleMinLen || n > TitleMaxLen {
		return errs.OnField("title", fmt.Errorf("%w: length must be between %d and %d", errs.ErrValidation, TitleMinLen, TitleMaxLen))
	}
	return nil
}
