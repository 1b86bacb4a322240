package pddl

import (
	"regexp"
	"sort"
	"strings"

	"ontoplan/internal/domain"
	"ontoplan/internal/graph"
)

var identifierPattern = regexp.MustCompile(`\b([a-zA-Z][a-zA-Z0-9_-]*)\b`)

var pddlKeywords = map[string]bool{
	"and": true, "or": true, "not": true, "forall": true, "exists": true,
	"when": true, "imply": true, "either": true, "increase": true,
	"decrease": true, "assign": true,
}

var predicateApplicationPattern = regexp.MustCompile(`\((\w+)\s+([^)]+)\)`)

// predicateApplication is one "(predicate arg1 arg2 ...)" occurrence parsed
// out of a goal formula.
type predicateApplication struct {
	Predicate string
	Args      []string
}

func predicateApplications(goal string) []predicateApplication {
	matches := predicateApplicationPattern.FindAllStringSubmatch(goal, -1)
	apps := make([]predicateApplication, 0, len(matches))
	for _, m := range matches {
		apps = append(apps, predicateApplication{Predicate: m[1], Args: strings.Fields(m[2])})
	}
	return apps
}

func checkBalancedParens(goal string) error {
	depth := 0
	for _, r := range goal {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth < 0 {
			return &InvalidGoalError{Reason: "unbalanced parentheses"}
		}
	}
	if depth != 0 {
		return &InvalidGoalError{Reason: "unbalanced parentheses"}
	}
	return nil
}

// extractIdentifiers returns every bareword identifier in goal that is
// neither a PDDL keyword nor the name of a predicate declared in dom's
// :predicates section, deduplicated. Grounded on
// pddl_goal_utils.py's extract_identifiers_from_goal.
func extractIdentifiers(goal string, dom *domain.Domain) []string {
	predicateNames := make(map[string]bool)
	for _, p := range dom.Predicates() {
		predicateNames[strings.ToLower(p.Name)] = true
	}

	seen := make(map[string]bool)
	var out []string
	for _, m := range identifierPattern.FindAllString(goal, -1) {
		lower := strings.ToLower(m)
		if pddlKeywords[lower] || predicateNames[lower] || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// ExtractGoalObjects scans the normalized goal for candidate object
// identifiers and requires each to resolve to an individual in the
// projection. Unlike pddl_goal_utils.py's silent
// filter-by-Neo4j-membership (which also had to tolerate stray predicate
// tokens the regex could not otherwise exclude), this package excludes
// known predicate names up front so every surviving identifier really is
// meant to denote an object; a survivor missing from the projection is
// therefore a hard error, not a silent drop. See DESIGN.md for why this
// reading was chosen over a blanket silent filter.
func ExtractGoalObjects(goal string, dom *domain.Domain, store *graph.Store) ([]string, error) {
	if err := checkBalancedParens(goal); err != nil {
		return nil, err
	}

	var ids []string
	for _, id := range extractIdentifiers(goal, dom) {
		_, ok, err := store.GetNode(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &MissingGoalObjectError{ID: id}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
