package ttl

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"ontoplan/internal/sparql"
)

var literalPattern = regexp.MustCompile(`^"((?:[^"\\]|\\.)*)"(?:\^\^(\S+)|@(\S+))?$`)

// Parse reads a TTL file in the narrow subset this module emits and
// consumes (see the package doc comment) and returns every ground triple
// it asserts.
func Parse(path string) ([]sparql.Triple, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ttl: read %s: %w", path, err)
	}

	var triples []sparql.Triple
	currentSubject := ""

	for _, raw := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(raw), "@prefix") || strings.HasPrefix(strings.TrimSpace(raw), "#") {
			continue
		}

		indented := raw != strings.TrimLeft(raw, " \t")
		body := strings.TrimSpace(raw)

		if !indented {
			fields := strings.SplitN(body, " ", 2)
			currentSubject = stripPrefix(fields[0])
			if len(fields) == 1 {
				continue
			}
			body = strings.TrimSpace(fields[1])
		}

		if currentSubject == "" {
			continue
		}
		t, ok := parsePredObj(currentSubject, body)
		if ok {
			triples = append(triples, t)
		}
	}
	return triples, nil
}

// parsePredObj parses "pred OBJECT ;" or "pred OBJECT ." into one triple.
// This package's Turtle subset never packs more than one object onto a
// predicate (no comma-separated object lists appear anywhere it is
// produced), so a single predicate-object pair per call is sufficient.
func parsePredObj(subject, body string) (sparql.Triple, bool) {
	body = strings.TrimSuffix(body, ".")
	body = strings.TrimSuffix(strings.TrimSpace(body), ";")
	body = strings.TrimSpace(body)

	fields := strings.SplitN(body, " ", 2)
	if len(fields) != 2 {
		return sparql.Triple{}, false
	}
	predicate := stripPrefix(fields[0])
	objTok := strings.TrimSpace(fields[1])

	t := sparql.Triple{Subject: subject, Predicate: predicate}
	if strings.HasPrefix(objTok, `"`) {
		m := literalPattern.FindStringSubmatch(objTok)
		if m == nil {
			return sparql.Triple{}, false
		}
		t.ObjectLiteral = true
		t.Object = strings.ReplaceAll(strings.ReplaceAll(m[1], `\"`, `"`), `\\`, `\`)
		if m[2] != "" {
			t.Datatype = stripPrefix(m[2])
		}
		t.Lang = m[3]
	} else {
		t.Object = stripPrefix(objTok)
	}
	return t, true
}

// stripPrefix reduces a CURIE (":x", "xsd:boolean") or a bracketed IRI
// ("<http://.../env#x>") down to its bare local identifier.
func stripPrefix(tok string) string {
	tok = strings.TrimSpace(tok)
	if strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">") {
		inner := tok[1 : len(tok)-1]
		if i := strings.LastIndexAny(inner, "#/"); i >= 0 && i < len(inner)-1 {
			return inner[i+1:]
		}
		return inner
	}
	if i := strings.Index(tok, ":"); i >= 0 {
		return tok[i+1:]
	}
	return tok
}
