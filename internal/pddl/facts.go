package pddl

import (
	"fmt"
	"sort"
	"strings"

	"ontoplan/internal/graph"
)

// artifactLocation holds the subset of an artifact's spatial edges the
// writer emits, keyed the way pddl_writer.py's artifact_locs expects:
// "isInSpace" (rendered as artifactIsOnFloorOf), "isInsideOf", "isOntopOf".
type artifactLocation map[string]string

// getArtifactLocations mirrors pddl_generator.py's get_artifact_locations:
// for each artifact, its direct space (if any) and its container/surface
// parent (if any).
func getArtifactLocations(artifactIDs []string, store *graph.Store) (map[string]artifactLocation, error) {
	out := make(map[string]artifactLocation, len(artifactIDs))
	for _, id := range artifactIDs {
		edges, err := store.QueryEdges(id, "outgoing")
		if err != nil {
			return nil, err
		}
		loc := artifactLocation{}
		for _, e := range edges {
			switch e.Property {
			case "artifactIsInSpace", "isInSpace", "objectIsInSpace":
				loc["isInSpace"] = e.Object
			case "isInsideOf":
				loc["isInsideOf"] = e.Object
			case "isOntopOf":
				loc["isOntopOf"] = e.Object
			}
		}
		out[id] = loc
	}
	return out, nil
}

// getAffordances mirrors pddl_generator.py's get_affordances: the affords
// edges from each artifact to its affordance instances.
func getAffordances(artifactIDs []string, store *graph.Store) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, id := range artifactIDs {
		edges, err := store.QueryEdges(id, "outgoing")
		if err != nil {
			return nil, err
		}
		var affs []string
		for _, e := range edges {
			if e.Property == "affords" {
				affs = append(affs, e.Object)
			}
		}
		if len(affs) > 0 {
			sort.Strings(affs)
			out[id] = affs
		}
	}
	return out, nil
}

// asBool coerces a data-property value into a bool. Reasoned facts carry
// whatever Go type the ontology loader attached to an xsd:boolean literal;
// mirrors pddl_generator.py's get_door_states/get_artifact_states, which
// tolerate both a native bool and a "true"/"false" string.
func asBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true") || t == "1"
	default:
		return false
	}
}

// getDoorStates mirrors pddl_generator.py's get_door_states: the
// isOpenDoor boolean data property on every Door location.
func getDoorStates(locationIDs []string, types map[string]string, store *graph.Store) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, id := range locationIDs {
		if types[id] != "Door" {
			continue
		}
		node, ok, err := store.GetNode(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if v, ok := node.DataProps["isOpenDoor"]; ok {
			out[id] = asBool(v)
		}
	}
	return out, nil
}

// keySafeRelationships mirrors pddl_generator.py's
// get_key_safe_relationships: unlocks (key -> safe) in both declared and
// reverse-discovered directions, and the requiresKey (safe -> key)
// relation inferred from it.
type keySafeRelationships struct {
	Unlocks     map[string][]string
	RequiresKey map[string][]string
}

func getKeySafeRelationships(artifactIDs []string, store *graph.Store) (*keySafeRelationships, error) {
	rel := &keySafeRelationships{Unlocks: map[string][]string{}, RequiresKey: map[string][]string{}}

	addUnlock := func(key, safe string) {
		for _, s := range rel.Unlocks[key] {
			if s == safe {
				return
			}
		}
		rel.Unlocks[key] = append(rel.Unlocks[key], safe)
	}
	addRequiresKey := func(safe, key string) {
		for _, k := range rel.RequiresKey[safe] {
			if k == key {
				return
			}
		}
		rel.RequiresKey[safe] = append(rel.RequiresKey[safe], key)
	}

	for _, id := range artifactIDs {
		edges, err := store.QueryEdges(id, "outgoing")
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			switch e.Property {
			case "unlocks":
				addUnlock(id, e.Object)
				addRequiresKey(e.Object, id)
			case "requiresKey":
				addRequiresKey(id, e.Object)
				addUnlock(e.Object, id)
			}
		}
	}
	return rel, nil
}

// extraObjectsFromKeySafe returns every key/safe reachable from a goal
// artifact via unlocks/requiresKey that is not already in artifactIDs.
// Only the ids are returned; Synthesize resolves their locations with the
// rest of the object closure.
func extraObjectsFromKeySafe(artifactIDs []string, rel *keySafeRelationships) []string {
	known := make(map[string]bool, len(artifactIDs))
	for _, id := range artifactIDs {
		known[id] = true
	}
	var extra []string
	add := func(id string) {
		if !known[id] {
			known[id] = true
			extra = append(extra, id)
		}
	}
	for key, safes := range rel.Unlocks {
		add(key)
		for _, s := range safes {
			add(s)
		}
	}
	for safe, keys := range rel.RequiresKey {
		add(safe)
		for _, k := range keys {
			add(k)
		}
	}
	sort.Strings(extra)
	return extra
}

// predicateAffordanceRequirement is the fixed mapping goal-predicate
// validation checks against: a goal predicate's artifact argument must
// carry the named affordance. Grounded on pddl_goal_utils.py's
// validate_goal_affordances predicate_to_affordance table.
var predicateAffordanceRequirement = map[string]string{
	"isON":   "Affordance_Power",
	"isOpen": "Affordance_Open",
}

// validateGoalAffordances emits a warning (never a hard failure) for every
// goal predicate application whose artifact argument lacks the affordance
// that predicate requires.
func validateGoalAffordances(goal string, affordances map[string][]string) []string {
	var warnings []string
	for _, app := range predicateApplications(goal) {
		required, ok := predicateAffordanceRequirement[app.Predicate]
		if !ok {
			continue
		}
		for _, arg := range app.Args {
			has := false
			for _, aff := range affordances[arg] {
				if aff == required {
					has = true
					break
				}
			}
			if !has {
				warnings = append(warnings, fmt.Sprintf(
					"artifact %q needs %q for predicate %q but only has: %v", arg, required, app.Predicate, affordances[arg]))
			}
		}
	}
	return warnings
}
