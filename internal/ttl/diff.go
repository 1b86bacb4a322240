package ttl

import (
	"sort"
	"strings"

	"ontoplan/internal/logging"
	"ontoplan/internal/sparql"
)

// Diff parses both snapshots and returns the triples added in newPath and
// the triples removed relative to prevPath. Grounded on world_update.py's
// extract_changes_with_rdflib (a plain set-difference over two rdflib
// Graphs); here the "graph" is this package's own Parse output instead of
// rdflib's.
func Diff(prevPath, newPath string) (added, removed []sparql.Triple, err error) {
	before, err := Parse(prevPath)
	if err != nil {
		return nil, nil, err
	}
	after, err := Parse(newPath)
	if err != nil {
		return nil, nil, err
	}

	beforeSet := make(map[sparql.Triple]bool, len(before))
	for _, t := range before {
		beforeSet[t] = true
	}
	afterSet := make(map[sparql.Triple]bool, len(after))
	for _, t := range after {
		afterSet[t] = true
	}

	for t := range afterSet {
		if !beforeSet[t] {
			added = append(added, t)
		}
	}
	for t := range beforeSet {
		if !afterSet[t] {
			removed = append(removed, t)
		}
	}
	sortTriples(added)
	sortTriples(removed)
	logging.TTLDebug("diff %s -> %s: +%d -%d", prevPath, newPath, len(added), len(removed))
	return added, removed, nil
}

func sortTriples(ts []sparql.Triple) {
	sort.Slice(ts, func(i, j int) bool {
		return ts[i].String() < ts[j].String()
	})
}

// SparqlFromDiff renders an (added, removed) pair into the SPARQL UPDATE
// text the bridge consumes. Grounded on world_update.py's
// generate_sparql_update: every removed triple is deleted; a removed
// triple whose predicate is in mapping additionally has its inferred
// companions deleted (duplicates collapsed), since the reasoner that
// rebuilds the projection on the other end only adds entailments, it
// never retracts a stale one. "inverse_inference" companions swap
// subject/object; "subproperty" and "property_chain" keep the original
// order.
func SparqlFromDiff(added, removed []sparql.Triple, mapping *sparql.RelationshipMapping, baseIRI string) string {
	seen := make(map[sparql.Triple]bool, len(removed))
	var deletes []sparql.Triple
	addDelete := func(t sparql.Triple) {
		if seen[t] {
			return
		}
		seen[t] = true
		deletes = append(deletes, t)
	}

	for _, t := range removed {
		addDelete(t)
		if t.ObjectLiteral {
			continue
		}
		for _, inf := range mapping.InferredRelationshipsFor(t.Predicate) {
			if inf.Type == "inverse_inference" {
				addDelete(sparql.Triple{Subject: t.Object, Predicate: inf.Relationship, Object: t.Subject})
			} else {
				addDelete(sparql.Triple{Subject: t.Subject, Predicate: inf.Relationship, Object: t.Object})
			}
		}
	}

	var b strings.Builder
	if len(deletes) == 0 {
		b.WriteString("INSERT DATA {\n")
		for _, t := range added {
			b.WriteString(sparql.FormatTriple(t, baseIRI))
			b.WriteString("\n")
		}
		b.WriteString("}")
		return b.String()
	}

	b.WriteString("DELETE {\n")
	for _, t := range deletes {
		b.WriteString(sparql.FormatTriple(t, baseIRI))
		b.WriteString("\n")
	}
	b.WriteString("}\nINSERT {\n")
	for _, t := range added {
		b.WriteString(sparql.FormatTriple(t, baseIRI))
		b.WriteString("\n")
	}
	b.WriteString("}\nWHERE { }")
	return b.String()
}
