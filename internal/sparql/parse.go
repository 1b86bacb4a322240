package sparql

import (
	"fmt"
	"regexp"
	"strings"
)

// UnsupportedSparqlShapeError is returned when an update does not match
// the narrow "DELETE { ... } INSERT { ... } WHERE { }" /
// "INSERT DATA { ... }" shape this bridge understands. Anything with a
// variable, a FILTER, a nested graph pattern, or more than the two known
// blocks is rejected rather than guessed at.
type UnsupportedSparqlShapeError struct {
	Reason string
}

func (e *UnsupportedSparqlShapeError) Error() string {
	return fmt.Sprintf("unsupported SPARQL update shape: %s", e.Reason)
}

// tripleLine matches one "<s> <p> O ." line, where O is either a
// bracketed IRI or a quoted literal with an optional ^^<datatype> or
// @lang suffix.
var tripleLine = regexp.MustCompile(
	`^<([^>]+)>\s+<([^>]+)>\s+(?:<([^>]+)>|"((?:[^"\\]|\\.)*)"(?:\^\^<([^>]+)>|@([a-zA-Z-]+))?)\s*\.$`,
)

// ParseUpdate parses the narrow SPARQL UPDATE shape the world update
// executor emits into ground delete/insert triple sets, D (to remove)
// and I (to insert); anything outside this shape is rejected with
// UnsupportedSparqlShape.
func ParseUpdate(update string) (del, ins []Triple, err error) {
	clean := strings.TrimSpace(update)
	if clean == "" {
		return nil, nil, &UnsupportedSparqlShapeError{Reason: "empty update"}
	}

	if body, ok := cutBlock(clean, "INSERT DATA"); ok {
		triples, perr := parseTriples(body)
		if perr != nil {
			return nil, nil, perr
		}
		return nil, triples, nil
	}

	rest := clean
	if body, tail, ok := cutLeadingBlock(rest, "DELETE"); ok {
		del, err = parseTriples(body)
		if err != nil {
			return nil, nil, err
		}
		rest = tail
	}

	if body, tail, ok := cutLeadingBlock(rest, "INSERT"); ok {
		ins, err = parseTriples(body)
		if err != nil {
			return nil, nil, err
		}
		rest = tail
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		if del == nil && ins == nil {
			return nil, nil, &UnsupportedSparqlShapeError{Reason: "no DELETE or INSERT block found"}
		}
		return nil, nil, &UnsupportedSparqlShapeError{Reason: "missing WHERE clause"}
	}
	if !isEmptyWhere(rest) {
		return nil, nil, &UnsupportedSparqlShapeError{Reason: fmt.Sprintf("unexpected trailing clause %q", rest)}
	}

	if del == nil && ins == nil {
		return nil, nil, &UnsupportedSparqlShapeError{Reason: "no DELETE or INSERT block found"}
	}
	return del, ins, nil
}

// cutBlock reports whether clean is exactly "keyword { body }" with
// nothing else following.
func cutBlock(clean, keyword string) (body string, ok bool) {
	if !strings.HasPrefix(clean, keyword) {
		return "", false
	}
	rest := strings.TrimSpace(clean[len(keyword):])
	if !strings.HasPrefix(rest, "{") {
		return "", false
	}
	end := matchingBrace(rest)
	if end < 0 {
		return "", false
	}
	if strings.TrimSpace(rest[end+1:]) != "" {
		return "", false
	}
	return rest[1:end], true
}

// cutLeadingBlock reports whether rest starts with "keyword { body }" and
// returns the block's body plus whatever text follows it.
func cutLeadingBlock(rest, keyword string) (body, tail string, ok bool) {
	trimmed := strings.TrimSpace(rest)
	if !strings.HasPrefix(trimmed, keyword) {
		return "", rest, false
	}
	after := strings.TrimSpace(trimmed[len(keyword):])
	if !strings.HasPrefix(after, "{") {
		return "", rest, false
	}
	end := matchingBrace(after)
	if end < 0 {
		return "", rest, false
	}
	return after[1:end], after[end+1:], true
}

// matchingBrace finds the index of the '}' matching the '{' at s[0],
// assuming s starts with '{'.
func matchingBrace(s string) int {
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isEmptyWhere(s string) bool {
	if !strings.HasPrefix(s, "WHERE") {
		return false
	}
	body, ok := cutBlock(s, "WHERE")
	return ok && strings.TrimSpace(body) == ""
}

func parseTriples(block string) ([]Triple, error) {
	var triples []Triple
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := tripleLine.FindStringSubmatch(line)
		if m == nil {
			return nil, &UnsupportedSparqlShapeError{Reason: fmt.Sprintf("unrecognized triple line %q", line)}
		}
		t := Triple{Subject: m[1], Predicate: m[2]}
		if m[3] != "" {
			t.Object = m[3]
		} else {
			t.ObjectLiteral = true
			t.Object = unescapeLiteral(m[4])
			t.Datatype = m[5]
			t.Lang = m[6]
		}
		t.Subject = localName(t.Subject, "")
		t.Predicate = localName(t.Predicate, "")
		if !t.ObjectLiteral {
			t.Object = localName(t.Object, "")
		}
		triples = append(triples, t)
	}
	return triples, nil
}

func unescapeLiteral(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}
