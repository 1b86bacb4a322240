package domain

import (
	"testing"
)

func loadTestDomain(t *testing.T) *Domain {
	t.Helper()
	d, err := ParseDomainFile("testdata/domain.pddl")
	if err != nil {
		t.Fatalf("ParseDomainFile failed: %v", err)
	}
	return d
}

func TestAllTypes(t *testing.T) {
	d := loadTestDomain(t)
	types := d.AllTypes()
	want := map[string]bool{
		"Robot": true, "Hand": true, "object": true,
		"Space": true, "Door": true, "Location": true,
		"Artifact": true, "Container": true, "Appliance": true,
		"Key": true, "Safe": true,
	}
	if len(types) != len(want) {
		t.Fatalf("expected %d types, got %d: %v", len(want), len(types), types)
	}
	for _, tt := range types {
		if !want[tt] {
			t.Errorf("unexpected type %q", tt)
		}
	}
}

func TestParentOf(t *testing.T) {
	d := loadTestDomain(t)

	parent, ok := d.ParentOf("Door")
	if !ok || parent != "Location" {
		t.Errorf("expected Door's parent to be Location, got %q (ok=%v)", parent, ok)
	}

	if _, ok := d.ParentOf("object"); ok {
		t.Errorf("object is a root type, expected no parent")
	}

	if _, ok := d.ParentOf("NoSuchType"); ok {
		t.Errorf("unknown type should report no parent")
	}
}

func TestIsSubtypeOf(t *testing.T) {
	d := loadTestDomain(t)

	cases := []struct {
		child, parent string
		want          bool
	}{
		{"Key", "Key", true},
		{"Key", "Artifact", true},
		{"Key", "object", true},
		{"Door", "Location", true},
		{"Door", "Artifact", false},
		{"Artifact", "Key", false},
	}
	for _, c := range cases {
		if got := d.IsSubtypeOf(c.child, c.parent); got != c.want {
			t.Errorf("IsSubtypeOf(%s, %s) = %v, want %v", c.child, c.parent, got, c.want)
		}
	}
}

func TestMapClassToDomainType(t *testing.T) {
	d := loadTestDomain(t)

	got, ok := d.MapClassToDomainType([]string{"Artifact", "Key"})
	if !ok || got != "Key" {
		t.Errorf("expected most-specific type Key, got %q (ok=%v)", got, ok)
	}

	got, ok = d.MapClassToDomainType([]string{"Thing", "Widget"})
	if ok {
		t.Errorf("expected no match for unknown classes, got %q", got)
	}

	got, ok = d.MapClassToDomainType([]string{"Space", "Door"})
	if !ok {
		t.Fatalf("expected a match")
	}
	if got != "Space" && got != "Door" {
		t.Errorf("expected Space or Door (siblings, no subtype relation), got %q", got)
	}
}

func TestPredicates(t *testing.T) {
	d := loadTestDomain(t)
	preds := d.Predicates()
	if len(preds) != 5 {
		t.Fatalf("expected 5 predicates, got %d: %+v", len(preds), preds)
	}

	names := make(map[string]bool)
	for _, p := range preds {
		names[p.Name] = true
	}
	for _, want := range []string{"hasPathTo", "hasHand", "robotIsInSpace", "isOpenDoor", "isLocked"} {
		if !names[want] {
			t.Errorf("missing predicate %q in %v", want, preds)
		}
	}
}

func TestParseDomainMissingTypesSection(t *testing.T) {
	_, err := ParseDomain("(define (domain empty))")
	if err == nil {
		t.Fatal("expected error for missing :types section")
	}
	var pe *DomainParseError
	if !asDomainParseError(err, &pe) {
		t.Fatalf("expected *DomainParseError, got %T: %v", err, err)
	}
}

func asDomainParseError(err error, target **DomainParseError) bool {
	if pe, ok := err.(*DomainParseError); ok {
		*target = pe
		return true
	}
	return false
}

func TestParseDomainFileMissing(t *testing.T) {
	_, err := ParseDomainFile("testdata/does-not-exist.pddl")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
