package pddl

import (
	"sort"

	"ontoplan/internal/graph"
	"ontoplan/internal/logging"
)

// locationPair is an unordered pair of location ids, always stored with
// the lexicographically smaller id first so it can key a map.
type locationPair [2]string

func pairOf(a, b string) locationPair {
	if a > b {
		a, b = b, a
	}
	return locationPair{a, b}
}

// robotInfo mirrors pddl_generator.py's get_robot_info: the single robot's
// id, its hands, and its current space.
type robotInfo struct {
	RobotID  string
	Hands    []string
	Location string
}

func getRobotInfo(store *graph.Store) (*robotInfo, error) {
	robots, err := store.NodesWithClass("Robot")
	if err != nil {
		return nil, err
	}
	if len(robots) == 0 {
		return nil, nil
	}
	robot := robots[0]

	edges, err := store.QueryEdges(robot.ID, "outgoing")
	if err != nil {
		return nil, err
	}

	info := &robotInfo{RobotID: robot.ID}
	for _, e := range edges {
		switch e.Property {
		case "hasHand":
			info.Hands = append(info.Hands, e.Object)
		case "robotIsInSpace":
			info.Location = e.Object
		}
	}
	sort.Strings(info.Hands)
	return info, nil
}

// spatialAnchor resolves an artifact's Space by following
// artifactIsInSpace/isInSpace/objectIsInSpace directly, or recursively
// through isInsideOf/isOntopOf container chains. It returns the chain of
// artifact ids walked through (excluding the artifact itself) alongside
// the resolved space, since those intermediate artifacts belong in the
// final object closure.
func spatialAnchor(artifactID string, store *graph.Store, depth int) (space string, chain []string, err error) {
	if depth > 25 {
		return "", nil, nil
	}
	edges, err := store.QueryEdges(artifactID, "outgoing")
	if err != nil {
		return "", nil, err
	}

	for _, e := range edges {
		switch e.Property {
		case "artifactIsInSpace", "isInSpace", "objectIsInSpace":
			return e.Object, nil, nil
		}
	}
	for _, e := range edges {
		switch e.Property {
		case "isInsideOf", "isOntopOf":
			innerSpace, innerChain, err := spatialAnchor(e.Object, store, depth+1)
			if err != nil {
				return "", nil, err
			}
			if innerSpace != "" {
				return innerSpace, append([]string{e.Object}, innerChain...), nil
			}
		}
	}
	return "", nil, nil
}

// locationClosure collects every goal artifact's spatial anchor, plus the
// robot's current space, deduplicated. It also returns the
// container-chain artifacts discovered along the way, since the final
// object closure needs these too.
func locationClosure(artifactIDs []string, robot *robotInfo, store *graph.Store) (locations []string, chainArtifacts []string, err error) {
	seen := make(map[string]bool)
	chainSeen := make(map[string]bool)

	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			locations = append(locations, id)
		}
	}

	for _, a := range artifactIDs {
		space, chain, err := spatialAnchor(a, store, 0)
		if err != nil {
			return nil, nil, err
		}
		add(space)
		for _, c := range chain {
			if !chainSeen[c] {
				chainSeen[c] = true
				chainArtifacts = append(chainArtifacts, c)
			}
		}
	}
	if robot != nil {
		add(robot.Location)
	}
	sort.Strings(locations)
	sort.Strings(chainArtifacts)
	return locations, chainArtifacts, nil
}

// topology is the final connectivity and distance data: every hasPathTo
// edge among the closed location set, and the pairwise distance table
// harvested opportunistically during path expansion. Grounded on
// pddl_generator.py's get_locations_with_paths / get_topology.
type topology struct {
	Locations   []string
	Connections [][2]string
	Distances   map[locationPair]int
}

// expandPaths finds, for every pair of locations in the closed set, a
// hasPathTo shortest path on the projection and unions the node sets;
// opportunistically records every subpath distance found along the way
// to avoid redundant queries for pairs visited later.
func expandPaths(locations []string, store *graph.Store) (*topology, error) {
	all := make(map[string]bool)
	for _, l := range locations {
		all[l] = true
	}
	distances := make(map[locationPair]int)

	sorted := make([]string, 0, len(all))
	for l := range all {
		sorted = append(sorted, l)
	}
	sort.Strings(sorted)

	for i, l1 := range sorted {
		for _, l2 := range sorted[i+1:] {
			if _, ok := distances[pairOf(l1, l2)]; ok {
				continue
			}
			edges, err := store.TraversePath(l1, l2, 50, "hasPathTo")
			if err != nil {
				logging.PDDLWarn("no hasPathTo path between %s and %s", l1, l2)
				continue
			}

			path := make([]string, 0, len(edges)+1)
			path = append(path, l1)
			for _, e := range edges {
				path = append(path, e.Object)
			}
			for _, p := range path {
				all[p] = true
			}
			for i2, n1 := range path {
				for j2 := i2 + 1; j2 < len(path); j2++ {
					n2 := path[j2]
					key := pairOf(n1, n2)
					if _, ok := distances[key]; !ok {
						distances[key] = j2 - i2
					}
				}
			}
		}
	}

	finalLocations := make([]string, 0, len(all))
	for l := range all {
		finalLocations = append(finalLocations, l)
	}
	sort.Strings(finalLocations)

	connSeen := make(map[locationPair]bool)
	var connections [][2]string
	for _, l := range finalLocations {
		edges, err := store.QueryEdges(l, "outgoing")
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			if e.Property != "hasPathTo" || !all[e.Object] {
				continue
			}
			key := pairOf(l, e.Object)
			if connSeen[key] {
				continue
			}
			connSeen[key] = true
			connections = append(connections, [2]string{l, e.Object})
			if _, ok := distances[key]; !ok {
				distances[key] = 1
			}
		}
	}
	sort.Slice(connections, func(i, j int) bool {
		if connections[i][0] != connections[j][0] {
			return connections[i][0] < connections[j][0]
		}
		return connections[i][1] < connections[j][1]
	})

	return &topology{Locations: finalLocations, Connections: connections, Distances: distances}, nil
}
