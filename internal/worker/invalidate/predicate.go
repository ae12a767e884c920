package invalidate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// ErrInvalidPattern is returned when a protection pattern does not compile.
var ErrInvalidPattern = errors.New("invalid protection pattern")

// Predicate reports whether the module identified by id is protected from
// invalidation.
type Predicate func(id string) bool

// Never protects nothing.
func Never(string) bool { return false }

// Any protects an identifier when at least one of preds does. Nil predicates
// are skipped.
func Any(preds ...Predicate) Predicate {
	live := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			live = append(live, p)
		}
	}
	if len(live) == 0 {
		return Never
	}
	return func(id string) bool {
		for _, p := range live {
			if p(id) {
				return true
			}
		}
		return false
	}
}

// Regexp builds a predicate matching any of the given regular expressions.
func Regexp(patterns ...string) (Predicate, error) {
	var errs []error
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, p, err))
			continue
		}
		compiled = append(compiled, re)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(compiled) == 0 {
		return Never, nil
	}
	return func(id string) bool {
		for _, re := range compiled {
			if re.MatchString(id) {
				return true
			}
		}
		return false
	}, nil
}

// Glob builds a predicate matching any of the given globs, with '/' as the
// separator.
func Glob(patterns ...string) (Predicate, error) {
	var errs []error
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, p, err))
			continue
		}
		compiled = append(compiled, g)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(compiled) == 0 {
		return Never, nil
	}
	return func(id string) bool {
		for _, g := range compiled {
			if g.Match(id) {
				return true
			}
		}
		return false
	}, nil
}

// Prefix matches identifiers starting with prefix. An empty prefix matches
// nothing.
func Prefix(prefix string) Predicate {
	if prefix == "" {
		return Never
	}
	return func(id string) bool {
		return strings.HasPrefix(id, prefix)
	}
}
