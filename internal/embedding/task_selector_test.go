package embedding

import "testing"

func TestDetectRole(t *testing.T) {
	if got := DetectRole("mug"); got != RoleCategoryLabel {
		t.Fatalf("DetectRole(mug)=%v, want RoleCategoryLabel", got)
	}
	if got := DetectRole("office chair"); got != RoleCategoryLabel {
		t.Fatalf("DetectRole(office chair)=%v, want RoleCategoryLabel", got)
	}
	if got := DetectRole("a tall ceramic mug with a chipped blue handle"); got != RoleDescription {
		t.Fatalf("DetectRole(long description)=%v, want RoleDescription", got)
	}
}

func TestRoleTaskType(t *testing.T) {
	if got := RoleCategoryLabel.taskType(); got != "CLASSIFICATION" {
		t.Fatalf("RoleCategoryLabel.taskType()=%q, want CLASSIFICATION", got)
	}
	if got := RoleDescription.taskType(); got != "RETRIEVAL_DOCUMENT" {
		t.Fatalf("RoleDescription.taskType()=%q, want RETRIEVAL_DOCUMENT", got)
	}
	if got := RoleSearchQuery.taskType(); got != "RETRIEVAL_QUERY" {
		t.Fatalf("RoleSearchQuery.taskType()=%q, want RETRIEVAL_QUERY", got)
	}
}
