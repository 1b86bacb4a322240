package pddl

import (
	"sort"

	"ontoplan/internal/domain"
	"ontoplan/internal/graph"
	"ontoplan/internal/logging"
)

// DebugRecord is the debug.json artifact this package emits alongside a
// problem file: the classification, distances, affordance warnings, and
// planner
// stdout/stderr. This package does not invoke the solver itself — that
// is internal/planner's job — so PlannerStdout/PlannerStderr start empty
// and are filled in by the caller after internal/planner.Run returns.
type DebugRecord struct {
	ProblemName    string            `json:"problem_name"`
	GoalFormula    string            `json:"goal_formula"`
	NormalizedGoal string            `json:"normalized_goal"`
	ArtifactIDs    []string          `json:"artifact_ids"`
	LocationIDs    []string          `json:"location_ids"`
	Types          map[string]string `json:"types"`
	Warnings       []string          `json:"warnings"`
	Distances      map[string]int    `json:"distances"`
	PlannerStdout  string            `json:"planner_stdout,omitempty"`
	PlannerStderr  string            `json:"planner_stderr,omitempty"`
}

// Synthesizer is the PDDL synthesizer's entry point: given access to the
// domain parser and the graph projection, it turns a goal formula into a
// grounded Problem.
type Synthesizer struct {
	Domain     *domain.Domain
	Store      *graph.Store
	DomainName string
}

// NewSynthesizer constructs a Synthesizer against a fixed domain.
func NewSynthesizer(dom *domain.Domain, store *graph.Store, domainName string) *Synthesizer {
	return &Synthesizer{Domain: dom, Store: store, DomainName: domainName}
}

// Synthesize runs the synthesis pipeline end to end: normalize the goal,
// extract and classify its objects, resolve their spatial closure and
// topology, then assemble the grounded problem and debug record.
func (s *Synthesizer) Synthesize(problemName, goalFormula string) (*Problem, *DebugRecord, error) {
	timer := logging.StartTimer(logging.CategoryPDDL, "Synthesize")
	defer timer.Stop()

	// Step 1: goal normalization.
	normalized := NormalizeGoal(goalFormula)

	// Step 2: object extraction.
	goalObjectIDs, err := ExtractGoalObjects(normalized, s.Domain, s.Store)
	if err != nil {
		return nil, nil, err
	}

	// Step 3: type classification.
	classification, err := classifyObjects(goalObjectIDs, normalized, s.Domain, s.Store)
	if err != nil {
		return nil, nil, err
	}
	warnings := append([]string{}, classification.Warnings...)

	// Step 4: location universe closure.
	robot, err := getRobotInfo(s.Store)
	if err != nil {
		return nil, nil, err
	}
	if robot == nil {
		logging.PDDLWarn("no Robot individual found in projection")
	}
	locations, chainArtifacts, err := locationClosure(classification.ArtifactIDs, robot, s.Store)
	if err != nil {
		return nil, nil, err
	}
	locations = mergeUnique(locations, classification.LocationIDs)
	for _, a := range chainArtifacts {
		if !containsID(classification.ArtifactIDs, a) {
			classification.ArtifactIDs = append(classification.ArtifactIDs, a)
			classification.Types[a] = "Artifact"
		}
	}
	if len(classification.ArtifactIDs) == 0 {
		warnings = append(warnings, "no artifacts referenced in goal")
	}

	// Step 6a: key/safe pairs reachable from goal artifacts, added before
	// the final path expansion so their locations participate in it too.
	keySafe, err := getKeySafeRelationships(classification.ArtifactIDs, s.Store)
	if err != nil {
		return nil, nil, err
	}
	extraKeySafe := extraObjectsFromKeySafe(classification.ArtifactIDs, keySafe)
	for _, id := range extraKeySafe {
		classification.ArtifactIDs = append(classification.ArtifactIDs, id)
		classification.Types[id] = "Artifact"
	}
	if len(extraKeySafe) > 0 {
		extraLocations, extraChain, err := locationClosure(extraKeySafe, nil, s.Store)
		if err != nil {
			return nil, nil, err
		}
		locations = mergeUnique(locations, extraLocations)
		for _, a := range extraChain {
			if !containsID(classification.ArtifactIDs, a) {
				classification.ArtifactIDs = append(classification.ArtifactIDs, a)
				classification.Types[a] = "Artifact"
			}
		}
		keySafe, err = getKeySafeRelationships(classification.ArtifactIDs, s.Store)
		if err != nil {
			return nil, nil, err
		}
	}

	// Step 5: path expansion (run once the location set is final).
	topo, err := expandPaths(locations, s.Store)
	if err != nil {
		return nil, nil, err
	}
	for _, l := range topo.Locations {
		if _, ok := classification.Types[l]; !ok {
			classification.Types[l] = locationType(l, s.Domain, s.Store)
		}
		if !containsID(classification.LocationIDs, l) {
			classification.LocationIDs = append(classification.LocationIDs, l)
		}
	}

	// Step 6b: robot + hands into the object closure.
	if robot != nil {
		classification.Types[robot.RobotID] = "Robot"
		for _, h := range robot.Hands {
			classification.Types[h] = "Hand"
		}
	}

	// Step 7: fact collection.
	artifactLocs, err := getArtifactLocations(classification.ArtifactIDs, s.Store)
	if err != nil {
		return nil, nil, err
	}
	var anchorless []string
	for id, loc := range artifactLocs {
		if len(loc) == 0 {
			anchorless = append(anchorless, id)
		}
	}
	sort.Strings(anchorless)
	for _, id := range anchorless {
		warnings = append(warnings, "artifact "+id+" has no spatial anchor")
	}

	affordances, err := getAffordances(classification.ArtifactIDs, s.Store)
	if err != nil {
		return nil, nil, err
	}
	doorStates, err := getDoorStates(classification.LocationIDs, classification.Types, s.Store)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, validateGoalAffordances(normalized, affordances)...)

	// Step 8: writing.
	problem := &Problem{
		ProblemName: problemName,
		DomainName:  s.DomainName,
		Types:       classification.Types,
		Topology:    topo,
		Robot:       robot,
		ArtifactLoc: artifactLocs,
		Affordances: affordances,
		DoorStates:  doorStates,
		KeySafe:     keySafe,
		Goal:        normalized,
	}

	distances := make(map[string]int, len(topo.Distances))
	for pair, d := range topo.Distances {
		distances[pair[0]+"->"+pair[1]] = d
	}

	debug := &DebugRecord{
		ProblemName:    problemName,
		GoalFormula:    goalFormula,
		NormalizedGoal: normalized,
		ArtifactIDs:    classification.ArtifactIDs,
		LocationIDs:    classification.LocationIDs,
		Types:          classification.Types,
		Warnings:       warnings,
		Distances:      distances,
	}

	return problem, debug, nil
}

func locationType(id string, dom *domain.Domain, store *graph.Store) string {
	node, ok, err := store.GetNode(id)
	if err != nil || !ok {
		return "Space"
	}
	if t, found := dom.MapClassToDomainType(node.Classes); found {
		return t
	}
	return "Space"
}

func containsID(ids []string, target string) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func mergeUnique(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := append([]string{}, a...)
	for _, id := range a {
		seen[id] = true
	}
	for _, id := range b {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
