package domain

import "fmt"

// problems accumulates human-readable validation failures.
// Entities never fail fast: every violated constraint is reported.
type problems []string

func (p *problems) add(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p *problems) requireID(field string, id int64) {
	if id <= 0 {
		p.add("%s is required", field)
	}
}

func (p *problems) nonNegative(field string, v int) {
	if v < 0 {
		p.add("%s must not be negative", field)
	}
}

func (p *problems) between(field string, v, lo, hi int) {
	if v < lo || v > hi {
		p.add("%s must be between %d and %d", field, lo, hi)
	}
}

func (p *problems) optionalBetween(field string, v *int, lo, hi int) {
	if v != nil {
		p.between(field, *v, lo, hi)
	}
}

func (p *problems) unit(field string, v float64) {
	if v < 0 || v > 1 {
		p.add("%s must be between 0 and 1", field)
	}
}

// length checks a required text field's character length.
func (p *problems) length(field, v string, lo, hi int) {
	n := runeLen(v)
	switch {
	case n == 0:
		p.add("%s is required", field)
	case n < lo:
		p.add("%s must be at least %d characters", field, lo)
	case n > hi:
		p.add("%s must be at most %d characters", field, hi)
	}
}

// maxLength checks an optional text field's character length.
func (p *problems) maxLength(field, v string, hi int) {
	if runeLen(v) > hi {
		p.add("%s must be at most %d characters", field, hi)
	}
}

func (p problems) list() []string {
	if len(p) == 0 {
		return []string{}
	}

	return p
}
