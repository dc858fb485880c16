package service

import (
	"errors"
	"testing"
	"time"

	"github.com/taskhive/taskhive/internal/core/domain"
)

func rosterProject(ownerID string, members ...domain.Member) *domain.Project {
	return &domain.Project{
		ID:      "proj_1",
		Name:    "demo",
		OwnerID: ownerID,
		Members: members,
	}
}

func TestRequireMember(t *testing.T) {
	p := rosterProject("alice",
		domain.Member{UserID: "alice", Role: domain.RoleAdmin, JoinedAt: time.Now()},
		domain.Member{UserID: "bob", Role: domain.RoleMember, JoinedAt: time.Now()},
	)

	m, err := requireMember(p, "bob")
	if err != nil {
		t.Fatalf("expected member, got error: %v", err)
	}
	if m.Role != domain.RoleMember {
		t.Fatalf("unexpected role: %s", m.Role)
	}

	if _, err := requireMember(p, "mallory"); !errors.Is(err, domain.ErrNotProjectMember) {
		t.Fatalf("expected ErrNotProjectMember, got %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	p := rosterProject("alice",
		domain.Member{UserID: "alice", Role: domain.RoleAdmin},
		domain.Member{UserID: "bob", Role: domain.RoleProjectAdmin},
		domain.Member{UserID: "carol", Role: domain.RoleMember},
	)

	if _, err := requireRole(p, "alice", domain.RoleAdmin, domain.RoleProjectAdmin); err != nil {
		t.Fatalf("admin should pass: %v", err)
	}
	if _, err := requireRole(p, "bob", domain.RoleAdmin, domain.RoleProjectAdmin); err != nil {
		t.Fatalf("project_admin should pass: %v", err)
	}
	if _, err := requireRole(p, "carol", domain.RoleAdmin, domain.RoleProjectAdmin); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole, got %v", err)
	}
	if _, err := requireRole(p, "bob", domain.RoleAdmin); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("project_admin is not admin: got %v", err)
	}
	if _, err := requireRole(p, "mallory", domain.RoleAdmin); !errors.Is(err, domain.ErrNotProjectMember) {
		t.Fatalf("non-member fails membership first: got %v", err)
	}
}

func TestRequireOwner(t *testing.T) {
	p := rosterProject("alice",
		domain.Member{UserID: "alice", Role: domain.RoleAdmin},
		domain.Member{UserID: "bob", Role: domain.RoleAdmin},
	)

	if err := requireOwner(p, "alice"); err != nil {
		t.Fatalf("owner should pass: %v", err)
	}
	// An admin roster role does not confer ownership.
	if err := requireOwner(p, "bob"); !errors.Is(err, domain.ErrNotProjectOwner) {
		t.Fatalf("expected ErrNotProjectOwner, got %v", err)
	}
}
