// Package sparql is the SPARQL bridge: a narrow, non-general SPARQL
// UPDATE handler tuned for exactly the "DELETE { ... } INSERT { ... }
// WHERE { }" (or "INSERT DATA { ... }") shape that the TTL diff &
// rewriter produces. It is not a SPARQL engine — anything outside
// that shape is rejected. Grounded on
// original_source/agent/nodes/world_update.py's generate_sparql_update /
// send_sparql_update, reimplemented as an in-process apply against the
// Ontology Facade instead of an HTTP round trip to a separate triple
// store.
package sparql

import (
	"fmt"
	"strings"
)

// Triple is one ground RDF triple, already stripped of its namespace
// prefix down to the bare local identifier world_update.py's format_term
// assigns it (URIRef -> local name, Literal -> its string value).
type Triple struct {
	Subject   string
	Predicate string
	Object    string

	// ObjectLiteral is true when Object came from a quoted RDF literal
	// (a data-property value) rather than a <...> URIRef (another
	// individual's id, i.e. an object-property target).
	ObjectLiteral bool
	// Datatype is the literal's "^^<...>" datatype IRI, if any.
	Datatype string
	// Lang is the literal's "@lang" tag, if any.
	Lang string
}

func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s", t.Subject, t.Predicate, formatObject(t))
}

func formatObject(t Triple) string {
	if !t.ObjectLiteral {
		return "<" + t.Object + ">"
	}
	switch {
	case t.Datatype != "":
		return fmt.Sprintf("%q^^<%s>", t.Object, t.Datatype)
	case t.Lang != "":
		return fmt.Sprintf("%q@%s", t.Object, t.Lang)
	default:
		return fmt.Sprintf("%q", t.Object)
	}
}

// FormatTriple renders t as one wire line in world_update.py's
// generate_sparql_update shape: "<subject> <predicate> OBJECT ." where
// OBJECT is a bracketed IRI or a quoted literal. baseIRI is stripped from
// subject/predicate before re-prefixing, so callers may pass either a bare
// id or a full IRI for either field.
func FormatTriple(t Triple, baseIRI string) string {
	subj := "<" + baseIRI + localName(t.Subject, baseIRI) + ">"
	pred := "<" + baseIRI + localName(t.Predicate, baseIRI) + ">"

	var obj string
	if t.ObjectLiteral {
		obj = formatObject(t)
	} else {
		obj = "<" + baseIRI + localName(t.Object, baseIRI) + ">"
	}
	return fmt.Sprintf("%s %s %s .", subj, pred, obj)
}

// localName strips a known namespace prefix (or, failing that, everything
// up to the last '#' or '/') from an IRI, leaving the bare identifier the
// rest of this module uses as an individual/predicate id.
func localName(s, baseIRI string) string {
	if baseIRI != "" && strings.HasPrefix(s, baseIRI) {
		return s[len(baseIRI):]
	}
	if i := strings.LastIndexAny(s, "#/"); i >= 0 && i < len(s)-1 {
		return s[i+1:]
	}
	return s
}
