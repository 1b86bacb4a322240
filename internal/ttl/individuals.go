package ttl

import (
	"sort"
	"strconv"

	"ontoplan/internal/ontology"
	"ontoplan/internal/sparql"
)

// ToIndividuals groups path's ground triples by subject into
// ontology.IndividualData, the shape Ontology.AddIndividualsBatch and
// Ontology.LoadFromTTL expect. Grounded on ontology.py's
// load_instances_from_ttl, which walks the parsed graph one subject at a
// time and calls add_individual per subject; here Parse supplies the
// triples and this function does only the grouping/typing the Python
// original's owlready2 loader did implicitly. Subjects are returned in
// sorted order for reproducible batch ingest.
func ToIndividuals(path string) ([]ontology.IndividualData, error) {
	triples, err := Parse(path)
	if err != nil {
		return nil, err
	}

	order := []string{}
	bySubject := map[string]*ontology.IndividualData{}
	get := func(subject string) *ontology.IndividualData {
		if d, ok := bySubject[subject]; ok {
			return d
		}
		d := &ontology.IndividualData{
			ID:               subject,
			DataProperties:   map[string]interface{}{},
			ObjectProperties: map[string][]string{},
		}
		bySubject[subject] = d
		order = append(order, subject)
		return d
	}

	for _, t := range triples {
		data := get(t.Subject)
		switch {
		case t.Predicate == "type":
			data.Class = t.Object
		case t.ObjectLiteral:
			data.DataProperties[t.Predicate] = literalValue(t)
		default:
			data.ObjectProperties[t.Predicate] = append(data.ObjectProperties[t.Predicate], t.Object)
		}
	}

	sort.Strings(order)
	out := make([]ontology.IndividualData, 0, len(order))
	for _, subject := range order {
		out = append(out, *bySubject[subject])
	}
	return out, nil
}

// literalValue coerces a parsed RDF literal into the bool/string Go value
// the rest of the system already expects data property values to be
// (pddl's pddl_test.go fixtures assert isOpenDoor/isLocked as Go bool).
func literalValue(t sparql.Triple) interface{} {
	if b, err := strconv.ParseBool(t.Object); err == nil && (t.Datatype == "boolean" || t.Datatype == "") {
		return b
	}
	return t.Object
}
