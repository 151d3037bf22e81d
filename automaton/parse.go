package automaton

import (
	"fmt"
	"strings"
)

// Parse reads the textual form `TRANSITIONS | INIT | E | F`.
//
// TRANSITIONS is a comma-separated list of `ORIGIN > LABEL > TARGET`,
// where an empty LABEL declares the default transition for ORIGIN.
// INIT is a single state label. E and F are comma-separated state
// labels; either list may be empty. Whitespace around every delimiter
// is insignificant.
func Parse(s string) (*Automaton, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 4 {
		return nil, fmt.Errorf("expected 4 \"|\"-delimited sections, got %d: %w", len(parts), ErrMalformedText)
	}

	b := NewBuilder()

	transSec := strings.TrimSpace(parts[0])
	if transSec != "" {
		for _, clause := range strings.Split(transSec, ",") {
			fields := strings.Split(clause, ">")
			if len(fields) != 3 {
				return nil, fmt.Errorf("transition clause %q: expected ORIGIN>LABEL>TARGET: %w", clause, ErrMalformedText)
			}
			origin := strings.TrimSpace(fields[0])
			label := strings.TrimSpace(fields[1])
			target := strings.TrimSpace(fields[2])
			if origin == "" || target == "" {
				return nil, fmt.Errorf("transition clause %q: empty origin/target: %w", clause, ErrMalformedText)
			}
			if err := b.AddTransition(origin, label, target); err != nil {
				return nil, err
			}
		}
	}

	init := strings.TrimSpace(parts[1])
	if init == "" {
		return nil, ErrUnknownInitial
	}
	b.SetInitial(init)

	for _, label := range splitLabels(parts[2]) {
		b.AddToE(label)
	}
	for _, label := range splitLabels(parts[3]) {
		b.AddToF(label)
	}

	return b.Build()
}

func splitLabels(section string) []string {
	section = strings.TrimSpace(section)
	if section == "" {
		return nil
	}
	fields := strings.Split(section, ",")
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Stringify renders a into the textual form Parse accepts, such that
// Parse(a.Stringify()) is structurally equal to a.
func (a *Automaton) Stringify() string {
	var clauses []string
	for _, origin := range a.order {
		s := a.states[origin]
		it := s.trans.Iterator()
		for it.Next() {
			clauses = append(clauses, fmt.Sprintf("%s>%s>%s", origin, it.Key().(string), it.Value().(string)))
		}
		if s.hasDflt {
			clauses = append(clauses, fmt.Sprintf("%s>>%s", origin, s.deflt))
		}
	}

	eLabels := stableSubset(a.order, a.e)
	fLabels := stableSubset(a.order, a.f)

	return fmt.Sprintf("%s | %s | %s | %s",
		strings.Join(clauses, ","),
		a.init,
		strings.Join(eLabels, ","),
		strings.Join(fLabels, ","),
	)
}

// stableSubset returns the members of set that appear in order, in order's
// relative order, so repeated Stringify calls are byte-stable.
func stableSubset(order []string, set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for _, label := range order {
		if _, ok := set[label]; ok {
			out = append(out, label)
		}
	}
	return out
}
