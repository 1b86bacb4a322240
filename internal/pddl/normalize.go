package pddl

import "regexp"

// predicateRewrite is one entry of the fixed, case-insensitive
// compatibility table that maps a legacy or LLM-drift predicate spelling
// onto the canonical one. Grounded on
// original_source/agent/tools/pddl_plan.py's normalize_goal_formula
// predicate_mappings table.
type predicateRewrite struct {
	pattern *regexp.Regexp
	replace string
}

func rewrite1(legacy, canonical string) predicateRewrite {
	return predicateRewrite{
		pattern: regexp.MustCompile(`(?i)\(` + legacy + `\s+(\w+)\)`),
		replace: "(" + canonical + " $1)",
	}
}

func rewrite2(legacy, canonical string) predicateRewrite {
	return predicateRewrite{
		pattern: regexp.MustCompile(`(?i)\(` + legacy + `\s+(\w+)\s+(\w+)\)`),
		replace: "(" + canonical + " $1 $2)",
	}
}

// legacyRewrites is the authoritative compatibility layer: roughly a dozen
// predicates with fixed arities, applied in order.
var legacyRewrites = []predicateRewrite{
	rewrite2("isInSpace", "artifactIsInSpace"),
	rewrite2("isOnTopOf", "isOntopOf"),
	rewrite1("isOnTop", "isON"),
	rewrite1("isON", "isON"),
	rewrite1("isOpen", "isOpen"),
	rewrite2("isHeldBy", "isHeldBy"),
	rewrite2("isInsideOf", "isInsideOf"),
	rewrite2("isOntopOf", "isOntopOf"),
	rewrite2("robotIsInSpace", "robotIsInSpace"),
	rewrite2("artifactIsOnFloorOf", "artifactIsOnFloorOf"),
	rewrite2("artifactIsInSpace", "artifactIsInSpace"),
	rewrite2("isAdjacentTo", "isAdjacentTo"),
	rewrite1("isLocked", "isLocked"),
	rewrite1("isOpenDoor", "isOpenDoor"),
}

var isClosedPattern = regexp.MustCompile(`(?i)\(isClosed\s+(\w+)\)`)

// NormalizeGoal applies the legacy-predicate rewrite table, converts
// isClosed into a negated isOpen, and re-wraps an unparenthesized leading
// "not" so the result is syntactically consistent PDDL. It never rejects a
// formula on rewrite grounds alone; ParseGoal is what validates
// parenthesis balance.
func NormalizeGoal(goal string) string {
	for _, r := range legacyRewrites {
		goal = r.pattern.ReplaceAllString(goal, r.replace)
	}
	goal = isClosedPattern.ReplaceAllString(goal, "(not (isOpen $1))")
	goal = wrapBareNot(goal)
	return goal
}

// wrapBareNot finds "not (" that is not already preceded by "(" and wraps
// the whole negated predicate in its own parentheses, matching
// normalize_goal_formula's fix_not_syntax.
func wrapBareNot(text string) string {
	var out []byte
	i := 0
	for i < len(text) {
		if i+5 <= len(text) && text[i:i+5] == "not (" && (i == 0 || text[i-1] != '(') {
			depth := 1
			j := i + 5
			for j < len(text) && depth > 0 {
				switch text[j] {
				case '(':
					depth++
				case ')':
					depth--
				}
				j++
			}
			if depth == 0 {
				out = append(out, "(not "...)
				out = append(out, text[i+4:j]...)
				out = append(out, ')')
				i = j
				continue
			}
		}
		out = append(out, text[i])
		i++
	}
	return string(out)
}
