package pddl

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Problem is the fully assembled PDDL problem, ready to render to text.
// Grounded on pddl_writer.py's PDDLWriter.
type Problem struct {
	ProblemName string
	DomainName  string

	Types       map[string]string // object id -> domain type, for :objects
	Topology    *topology
	Robot       *robotInfo
	ArtifactLoc map[string]artifactLocation
	Affordances map[string][]string
	DoorStates  map[string]bool
	KeySafe     *keySafeRelationships
	Goal        string
}

// Render produces the problem's complete PDDL text, in the section order
// pddl_writer.py's write_problem assembles them.
func (p *Problem) Render() string {
	var lines []string

	lines = append(lines,
		";; ====================================================================",
		fmt.Sprintf(";; PDDL Problem: %s", p.ProblemName),
		";; Auto-generated from knowledge graph",
		";; ====================================================================",
		"",
		fmt.Sprintf("(define (problem %s)", p.ProblemName),
		fmt.Sprintf("  (:domain %s)", p.DomainName),
		"",
	)

	lines = append(lines, p.renderObjects(), "")
	lines = append(lines, p.renderInit(), "")
	lines = append(lines, p.renderGoal(), "")
	lines = append(lines, "  (:metric minimize (total-cost))", ")")

	return strings.Join(lines, "\n")
}

// Write renders the problem and writes it to path.
func (p *Problem) Write(path string) error {
	if err := os.WriteFile(path, []byte(p.Render()), 0o644); err != nil {
		return fmt.Errorf("pddl: write problem %s: %w", path, err)
	}
	return nil
}

func (p *Problem) renderObjects() string {
	grouped := make(map[string][]string)
	for id, t := range p.Types {
		grouped[t] = append(grouped[t], id)
	}

	types := make([]string, 0, len(grouped))
	for t := range grouped {
		types = append(types, t)
	}
	sort.Strings(types)

	lines := []string{"  (:objects"}
	for _, t := range types {
		ids := grouped[t]
		sort.Strings(ids)
		lines = append(lines, fmt.Sprintf("    ; %s", t), fmt.Sprintf("    %s - %s", strings.Join(ids, " "), t), "")
	}
	if len(types) > 0 {
		lines = lines[:len(lines)-1]
	}
	lines = append(lines, "  )")
	return strings.Join(lines, "\n")
}

func (p *Problem) renderInit() string {
	lines := []string{"  (:init", "    (= (total-cost) 0)", ""}
	lines = append(lines, p.renderTopology()...)
	lines = append(lines, "")
	lines = append(lines, p.renderRobot()...)
	lines = append(lines, "")
	lines = append(lines, p.renderArtifactLocations()...)
	lines = append(lines, "")
	lines = append(lines, p.renderAffordances()...)
	if doors := p.renderDoorStates(); len(doors) > 0 {
		lines = append(lines, "")
		lines = append(lines, doors...)
	}
	if keySafe := p.renderKeySafe(); len(keySafe) > 0 {
		lines = append(lines, "")
		lines = append(lines, keySafe...)
	}
	lines = append(lines, "  )")
	return strings.Join(lines, "\n")
}

func (p *Problem) renderTopology() []string {
	lines := []string{
		"    ; ====================================================================",
		"    ; TOPOLOGY",
		"    ; ====================================================================",
	}
	if p.Topology == nil {
		return lines
	}
	for _, c := range p.Topology.Connections {
		lines = append(lines, fmt.Sprintf("    (hasPathTo %s %s)", c[0], c[1]), fmt.Sprintf("    (hasPathTo %s %s)", c[1], c[0]))
	}
	if len(p.Topology.Distances) > 0 {
		lines = append(lines,
			"",
			"    ; ====================================================================",
			"    ; DISTANCES (Location->Location)",
			"    ; ====================================================================",
		)
		type distEntry struct {
			a, b string
			d    int
		}
		var entries []distEntry
		for pair, d := range p.Topology.Distances {
			entries = append(entries, distEntry{pair[0], pair[1], d}, distEntry{pair[1], pair[0], d})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].a != entries[j].a {
				return entries[i].a < entries[j].a
			}
			return entries[i].b < entries[j].b
		})
		for _, e := range entries {
			lines = append(lines, fmt.Sprintf("    (= (distance %s %s) %d)", e.a, e.b, e.d))
		}
	}
	return lines
}

func (p *Problem) renderRobot() []string {
	lines := []string{
		"    ; ====================================================================",
		"    ; ROBOT STRUCTURE",
		"    ; ====================================================================",
	}
	if p.Robot == nil {
		return lines
	}
	for _, h := range p.Robot.Hands {
		lines = append(lines, fmt.Sprintf("    (hasHand %s %s)", p.Robot.RobotID, h))
	}
	if p.Robot.Location != "" {
		lines = append(lines, fmt.Sprintf("    (robotIsInSpace %s %s)", p.Robot.RobotID, p.Robot.Location))
	}
	return lines
}

func (p *Problem) renderArtifactLocations() []string {
	lines := []string{
		"    ; ====================================================================",
		"    ; ARTIFACT LOCATIONS",
		"    ; ====================================================================",
	}
	ids := make([]string, 0, len(p.ArtifactLoc))
	for id := range p.ArtifactLoc {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		loc := p.ArtifactLoc[id]
		if space, ok := loc["isInSpace"]; ok {
			lines = append(lines, fmt.Sprintf("    (artifactIsOnFloorOf %s %s)", id, space))
		}
		if container, ok := loc["isInsideOf"]; ok {
			lines = append(lines, fmt.Sprintf("    (isInsideOf %s %s)", id, container))
		}
		if surface, ok := loc["isOntopOf"]; ok {
			lines = append(lines, fmt.Sprintf("    (isOntopOf %s %s)", id, surface))
		}
	}
	return lines
}

func (p *Problem) renderAffordances() []string {
	lines := []string{
		"    ; ====================================================================",
		"    ; AFFORDANCES",
		"    ; ====================================================================",
	}
	ids := make([]string, 0, len(p.Affordances))
	for id := range p.Affordances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		affs := append([]string(nil), p.Affordances[id]...)
		sort.Strings(affs)
		for _, aff := range affs {
			lines = append(lines, fmt.Sprintf("    (%s %s)", aff, id))
		}
	}
	return lines
}

func (p *Problem) renderDoorStates() []string {
	if len(p.DoorStates) == 0 {
		return nil
	}
	lines := []string{
		"    ; ====================================================================",
		"    ; DOOR STATES",
		"    ; ====================================================================",
	}
	ids := make([]string, 0, len(p.DoorStates))
	for id := range p.DoorStates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if p.DoorStates[id] {
			lines = append(lines, fmt.Sprintf("    (isOpenDoor %s)", id))
		}
	}
	return lines
}

func (p *Problem) renderKeySafe() []string {
	if p.KeySafe == nil || (len(p.KeySafe.Unlocks) == 0 && len(p.KeySafe.RequiresKey) == 0) {
		return nil
	}
	var lines []string
	lines = append(lines,
		"    ; ====================================================================",
		"    ; KEY-SAFE RELATIONSHIPS",
		"    ; ====================================================================",
	)
	keys := make([]string, 0, len(p.KeySafe.Unlocks))
	for k := range p.KeySafe.Unlocks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		safes := append([]string(nil), p.KeySafe.Unlocks[key]...)
		sort.Strings(safes)
		for _, safe := range safes {
			lines = append(lines, fmt.Sprintf("    (unlocks %s %s)", key, safe))
		}
	}

	lines = append(lines, "",
		"    ; ====================================================================",
		"    ; SAFE KEY ATTRIBUTES (hasRequiredKey)",
		"    ; ====================================================================",
		"    ; Each safe has its required key as an attribute",
	)
	safes := make([]string, 0, len(p.KeySafe.RequiresKey))
	for s := range p.KeySafe.RequiresKey {
		safes = append(safes, s)
	}
	sort.Strings(safes)
	for _, safe := range safes {
		keys := append([]string(nil), p.KeySafe.RequiresKey[safe]...)
		sort.Strings(keys)
		for _, key := range keys {
			lines = append(lines, fmt.Sprintf("    (hasRequiredKey %s %s)", safe, key))
		}
	}

	lines = append(lines, "",
		"    ; ====================================================================",
		"    ; LOCKED STATES",
		"    ; ====================================================================",
		"    ; Safes with hasRequiredKey attribute are locked by default",
	)
	for _, safe := range safes {
		lines = append(lines, fmt.Sprintf("    (isLocked %s)", safe))
	}
	return lines
}

func (p *Problem) renderGoal() string {
	var goalLines []string
	for _, l := range strings.Split(strings.TrimSpace(p.Goal), "\n") {
		goalLines = append(goalLines, "    "+strings.TrimSpace(l))
	}
	return "  (:goal\n" + strings.Join(goalLines, "\n") + "\n  )"
}
