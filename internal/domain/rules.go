package domain

import "strings"

// RuleCategory identifies which event field a rule applies to.
type RuleCategory string

const (
	CategoryTeachers RuleCategory = "teachers"
	CategoryPromos   RuleCategory = "promos"
	CategorySubjects RuleCategory = "subjects"
)

// ValidRuleCategories is the canonical set of accepted category strings.
var ValidRuleCategories = map[string]bool{
	"teachers": true, "promos": true, "subjects": true,
}

// RuleSet holds the user corrections for one category: rename mappings
// and hidden values. Hiding takes precedence over renaming.
type RuleSet struct {
	Rename map[string]string
	Hide   map[string]bool
}

// Rules is the full set of user-defined normalization rules, one RuleSet
// per category. Treated as an immutable value: every edit produces a new
// Rules via the With*/Without* functions.
type Rules struct {
	Teachers RuleSet
	Promos   RuleSet
	Subjects RuleSet
}

// NewRules returns an empty rule set for every category.
func NewRules() Rules {
	return Rules{
		Teachers: RuleSet{Rename: map[string]string{}, Hide: map[string]bool{}},
		Promos:   RuleSet{Rename: map[string]string{}, Hide: map[string]bool{}},
		Subjects: RuleSet{Rename: map[string]string{}, Hide: map[string]bool{}},
	}
}

// Apply normalizes a single value: hidden values collapse to "", renamed
// values map to their (trimmed) replacement, everything else passes
// through trimmed. Applying twice yields the same result as once.
func (rs RuleSet) Apply(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	if rs.Hide[v] {
		return ""
	}
	if mapped, ok := rs.Rename[v]; ok {
		return strings.TrimSpace(mapped)
	}
	return v
}

// ApplyList normalizes every element, drops suppressed/empty results and
// removes duplicates. Order of survivors follows first appearance.
func (rs RuleSet) ApplyList(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		n := rs.Apply(v)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// Category returns the RuleSet for the given category.
func (r Rules) Category(c RuleCategory) RuleSet {
	switch c {
	case CategoryPromos:
		return r.Promos
	case CategorySubjects:
		return r.Subjects
	default:
		return r.Teachers
	}
}

// WithRename returns a new Rules with from→to added to the category's
// rename map. The receiver is left untouched.
func (r Rules) WithRename(c RuleCategory, from, to string) Rules {
	return r.update(c, func(rs RuleSet) RuleSet {
		rs.Rename[strings.TrimSpace(from)] = strings.TrimSpace(to)
		return rs
	})
}

// WithoutRename returns a new Rules with the rename entry removed.
func (r Rules) WithoutRename(c RuleCategory, from string) Rules {
	return r.update(c, func(rs RuleSet) RuleSet {
		delete(rs.Rename, strings.TrimSpace(from))
		return rs
	})
}

// WithHide returns a new Rules with the value marked hidden.
func (r Rules) WithHide(c RuleCategory, value string) Rules {
	return r.update(c, func(rs RuleSet) RuleSet {
		rs.Hide[strings.TrimSpace(value)] = true
		return rs
	})
}

// WithoutHide returns a new Rules with the hide entry removed.
func (r Rules) WithoutHide(c RuleCategory, value string) Rules {
	return r.update(c, func(rs RuleSet) RuleSet {
		delete(rs.Hide, strings.TrimSpace(value))
		return rs
	})
}

func (r Rules) update(c RuleCategory, fn func(RuleSet) RuleSet) Rules {
	out := r.clone()
	switch c {
	case CategoryPromos:
		out.Promos = fn(out.Promos)
	case CategorySubjects:
		out.Subjects = fn(out.Subjects)
	default:
		out.Teachers = fn(out.Teachers)
	}
	return out
}

func (r Rules) clone() Rules {
	return Rules{
		Teachers: r.Teachers.clone(),
		Promos:   r.Promos.clone(),
		Subjects: r.Subjects.clone(),
	}
}

func (rs RuleSet) clone() RuleSet {
	out := RuleSet{
		Rename: make(map[string]string, len(rs.Rename)),
		Hide:   make(map[string]bool, len(rs.Hide)),
	}
	for k, v := range rs.Rename {
		out.Rename[k] = v
	}
	for k, v := range rs.Hide {
		out.Hide[k] = v
	}
	return out
}
