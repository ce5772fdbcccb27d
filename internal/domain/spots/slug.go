package spots

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a display name into a URL-safe base slug: lowercase,
// with every run of whitespace or punctuation collapsed to a single dash.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugLookup counts existing slugs matching a case-insensitive regular
// expression pattern.
type SlugLookup func(ctx context.Context, pattern string) (int, error)

// ResolveSlug derives a collection-unique slug for a spot name. It counts
// the slugs already matching ^(base)(-[0-9]*)?$ and, when N exist, numbers
// the new one base-(N+1).
//
// The count is taken at write time, so two concurrent creations with the
// same base can both see the same count and collide; the unique index on
// the slug column turns that race into a conflict for the caller to retry.
// Renames that free up a numbered slug leave gaps the count never refills.
func ResolveSlug(ctx context.Context, name string, lookup SlugLookup) (string, error) {
	base := Slugify(name)
	if base == "" {
		return "", fmt.Errorf("%w: name %q produces an empty slug", ErrValidation, name)
	}

	pattern := fmt.Sprintf("^(%s)(-[0-9]*)?$", regexp.QuoteMeta(base))

	n, err := lookup(ctx, pattern)
	if err != nil {
		return "", fmt.Errorf("count colliding slugs: %w", err)
	}
	if n == 0 {
		return base, nil
	}
	return fmt.Sprintf("%s-%d", base, n+1), nil
}
