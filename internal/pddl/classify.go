package pddl

import (
	"fmt"

	"ontoplan/internal/domain"
	"ontoplan/internal/graph"
)

// Classification partitions goal objects by domain type, plus the
// resolved type of every object (goal objects and anything discovered
// later in the pipeline).
type Classification struct {
	ArtifactIDs []string
	LocationIDs []string
	Types       map[string]string // object id -> domain type
	Warnings    []string
}

// classifyObjects looks up each id's most-specific class via the graph
// projection and maps it to a domain type via the PDDL domain,
// partitioning into artifacts and locations. Objects whose type cannot
// be pinned down this way are disambiguated from the goal's syntactic
// context: the second argument of isHeldBy is a Hand, everything else
// defaults to Artifact with a warning. Grounded on pddl_goal_utils.py's
// classify_objects_by_domain_type, extended with the ungrouped-object
// fallback this package adds for robustness against an incompletely
// typed ontology.
func classifyObjects(ids []string, goal string, dom *domain.Domain, store *graph.Store) (*Classification, error) {
	c := &Classification{Types: make(map[string]string)}

	handArgs := make(map[string]bool)
	for _, app := range predicateApplications(goal) {
		if app.Predicate == "isHeldBy" && len(app.Args) >= 2 {
			handArgs[app.Args[1]] = true
		}
	}

	for _, id := range ids {
		node, ok, err := store.GetNode(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &MissingGoalObjectError{ID: id}
		}

		objType, found := dom.MapClassToDomainType(node.Classes)
		switch {
		case found && (objType == "Location" || dom.IsSubtypeOf(objType, "Location")):
			c.LocationIDs = append(c.LocationIDs, id)
			c.Types[id] = objType
		case found && objType == "Artifact":
			c.ArtifactIDs = append(c.ArtifactIDs, id)
			c.Types[id] = objType
		case found && (objType == "Robot" || objType == "Hand"):
			// Neither an artifact nor a location: the robot/hand structure
			// facts (step 6b) carry these, not the artifact-location ones.
			c.Types[id] = objType
		case handArgs[id]:
			c.Types[id] = "Hand"
		default:
			c.ArtifactIDs = append(c.ArtifactIDs, id)
			c.Types[id] = "Artifact"
			c.Warnings = append(c.Warnings, fmt.Sprintf("object %q has no resolvable domain type, defaulted to Artifact", id))
		}
	}
	return c, nil
}
