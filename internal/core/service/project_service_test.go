package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/core/domain"
	"github.com/taskhive/taskhive/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type projectFixture struct {
	svc      *ProjectService
	projects *stubProjectRepo
	users    *stubUserRepo
	tasks    *stubTaskRepo
	notes    *stubNoteRepo
}

func newProjectFixture() *projectFixture {
	f := &projectFixture{
		projects: newStubProjectRepo(),
		users:    newStubUserRepo(),
		tasks:    newStubTaskRepo(),
		notes:    newStubNoteRepo(),
	}
	f.svc = NewProjectService(f.projects, f.users, f.tasks, f.notes, zerolog.Nop())
	return f
}

func (f *projectFixture) seedUser(t *testing.T, id, email string) {
	t.Helper()
	f.users.byID[id] = &domain.User{ID: id, Email: email, Username: id}
}

func (f *projectFixture) seedProject(t *testing.T, ownerID string, members ...domain.Member) *domain.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), &domain.Project{
		Name:        "launch",
		Description: "launch prep",
		OwnerID:     ownerID,
		Members:     members,
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p
}

// ---------------------------------------------------------------------------
// Create / Get / Update / Delete
// ---------------------------------------------------------------------------

func TestProjectService_Create_OwnerBecomesAdminMember(t *testing.T) {
	f := newProjectFixture()

	p, err := f.svc.Create(context.Background(), ports.CreateProjectInput{
		Name:        "launch",
		Description: "launch prep",
		ActorID:     "alice",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if p.OwnerID != "alice" {
		t.Fatalf("unexpected owner: %s", p.OwnerID)
	}
	if len(p.Members) != 1 {
		t.Fatalf("expected exactly one roster entry, got %d", len(p.Members))
	}
	m := p.Members[0]
	if m.UserID != "alice" || m.Role != domain.RoleAdmin {
		t.Fatalf("creator must join as admin, got %+v", m)
	}
}

func TestProjectService_Create_Validation(t *testing.T) {
	f := newProjectFixture()

	_, err := f.svc.Create(context.Background(), ports.CreateProjectInput{Name: "", Description: "d", ActorID: "alice"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = f.svc.Create(context.Background(), ports.CreateProjectInput{Name: "n", Description: "", ActorID: "alice"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProjectService_Get_RequiresMembership(t *testing.T) {
	f := newProjectFixture()
	p := f.seedProject(t, "alice", domain.Member{UserID: "alice", Role: domain.RoleAdmin})

	if _, err := f.svc.Get(context.Background(), p.ID, "alice"); err != nil {
		t.Fatalf("member read failed: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), p.ID, "mallory"); !errors.Is(err, domain.ErrNotProjectMember) {
		t.Fatalf("expected ErrNotProjectMember, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), "missing", "alice"); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectService_ListForUser_CountsMembers(t *testing.T) {
	f := newProjectFixture()
	f.seedProject(t, "alice",
		domain.Member{UserID: "alice", Role: domain.RoleAdmin},
		domain.Member{UserID: "bob", Role: domain.RoleMember},
	)
	f.seedProject(t, "carol", domain.Member{UserID: "carol", Role: domain.RoleAdmin})

	summaries, err := f.svc.ListForUser(context.Background(), "bob")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 project, got %d", len(summaries))
	}
	if summaries[0].MemberCount != 2 {
		t.Fatalf("expected member count 2, got %d", summaries[0].MemberCount)
	}
}

func TestProjectService_Update_OwnerOnly(t *testing.T) {
	f := newProjectFixture()
	p := f.seedProject(t, "alice",
		domain.Member{UserID: "alice", Role: domain.RoleAdmin},
		domain.Member{UserID: "bob", Role: domain.RoleAdmin},
	)

	name := "renamed"
	// An admin member who is not the owner cannot update.
	_, err := f.svc.Update(context.Background(), ports.UpdateProjectInput{ProjectID: p.ID, ActorID: "bob", Name: &name})
	if !errors.Is(err, domain.ErrNotProjectOwner) {
		t.Fatalf("expected ErrNotProjectOwner, got %v", err)
	}

	updated, err := f.svc.Update(context.Background(), ports.UpdateProjectInput{ProjectID: p.ID, ActorID: "alice", Name: &name})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Name != "renamed" {
		t.Fatalf("name not applied: %s", updated.Name)
	}
	if updated.Description != "launch prep" {
		t.Fatalf("omitted field must stay unchanged: %s", updated.Description)
	}

	empty := ""
	_, err = f.svc.Update(context.Background(), ports.UpdateProjectInput{ProjectID: p.ID, ActorID: "alice", Name: &empty})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
}

func TestProjectService_Delete_CascadesToChildren(t *testing.T) {
	f := newProjectFixture()
	p := f.seedProject(t, "alice", domain.Member{UserID: "alice", Role: domain.RoleAdmin})
	_, _ = f.tasks.Create(context.Background(), &domain.Task{ProjectID: p.ID, Title: "t"})
	_, _ = f.notes.Create(context.Background(), &domain.Note{ProjectID: p.ID, Title: "n", Content: "c"})

	if err := f.svc.Delete(context.Background(), p.ID, "bob"); !errors.Is(err, domain.ErrNotProjectMember) && !errors.Is(err, domain.ErrNotProjectOwner) {
		t.Fatalf("expected authorization error, got %v", err)
	}

	if err := f.svc.Delete(context.Background(), p.ID, "alice"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(f.tasks.deletedProjects) != 1 || f.tasks.deletedProjects[0] != p.ID {
		t.Fatalf("tasks not cascaded: %v", f.tasks.deletedProjects)
	}
	if len(f.notes.deletedProjects) != 1 || f.notes.deletedProjects[0] != p.ID {
		t.Fatalf("notes not cascaded: %v", f.notes.deletedProjects)
	}
	if len(f.projects.deleted) != 1 {
		t.Fatalf("project not deleted")
	}
}

// ---------------------------------------------------------------------------
// Roster
// ---------------------------------------------------------------------------

func TestProjectService_AddMember(t *testing.T) {
	f := newProjectFixture()
	f.seedUser(t, "bob", "bob@example.com")
	p := f.seedProject(t, "alice", domain.Member{UserID: "alice", Role: domain.RoleAdmin})

	updated, err := f.svc.AddMember(context.Background(), ports.AddMemberInput{
		ProjectID: p.ID,
		ActorID:   "alice",
		Email:     "bob@example.com",
		Role:      domain.RoleProjectAdmin,
	})
	if err != nil {
		t.Fatalf("add member failed: %v", err)
	}
	m, ok := updated.Member("bob")
	if !ok || m.Role != domain.RoleProjectAdmin {
		t.Fatalf("bob not added with project_admin: %+v", updated.Members)
	}

	// Adding again is a conflict.
	_, err = f.svc.AddMember(context.Background(), ports.AddMemberInput{
		ProjectID: p.ID, ActorID: "alice", Email: "bob@example.com",
	})
	if !errors.Is(err, domain.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestProjectService_AddMember_DefaultsAndValidation(t *testing.T) {
	f := newProjectFixture()
	f.seedUser(t, "bob", "bob@example.com")
	p := f.seedProject(t, "alice", domain.Member{UserID: "alice", Role: domain.RoleAdmin})

	_, err := f.svc.AddMember(context.Background(), ports.AddMemberInput{ProjectID: p.ID, ActorID: "alice"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for missing email, got %v", err)
	}

	_, err = f.svc.AddMember(context.Background(), ports.AddMemberInput{
		ProjectID: p.ID, ActorID: "alice", Email: "bob@example.com", Role: "superuser",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for bad role, got %v", err)
	}

	updated, err := f.svc.AddMember(context.Background(), ports.AddMemberInput{
		ProjectID: p.ID, ActorID: "alice", Email: "bob@example.com",
	})
	if err != nil {
		t.Fatalf("add member failed: %v", err)
	}
	m, _ := updated.Member("bob")
	if m.Role != domain.RoleMember {
		t.Fatalf("role must default to member, got %s", m.Role)
	}

	_, err = f.svc.AddMember(context.Background(), ports.AddMemberInput{
		ProjectID: p.ID, ActorID: "alice", Email: "ghost@example.com",
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProjectService_AddMember_OwnerOnly(t *testing.T) {
	f := newProjectFixture()
	f.seedUser(t, "carol", "carol@example.com")
	p := f.seedProject(t, "alice",
		domain.Member{UserID: "alice", Role: domain.RoleAdmin},
		domain.Member{UserID: "bob", Role: domain.RoleAdmin},
	)

	_, err := f.svc.AddMember(context.Background(), ports.AddMemberInput{
		ProjectID: p.ID, ActorID: "bob", Email: "carol@example.com",
	})
	if !errors.Is(err, domain.ErrNotProjectOwner) {
		t.Fatalf("expected ErrNotProjectOwner, got %v", err)
	}
}

func TestProjectService_UpdateMemberRole(t *testing.T) {
	f := newProjectFixture()
	p := f.seedProject(t, "alice",
		domain.Member{UserID: "alice", Role: domain.RoleAdmin},
		domain.Member{UserID: "bob", Role: domain.RoleMember},
	)

	updated, err := f.svc.UpdateMemberRole(context.Background(), ports.UpdateMemberRoleInput{
		ProjectID: p.ID, ActorID: "alice", UserID: "bob", Role: domain.RoleProjectAdmin,
	})
	if err != nil {
		t.Fatalf("update role failed: %v", err)
	}
	m, _ := updated.Member("bob")
	if m.Role != domain.RoleProjectAdmin {
		t.Fatalf("role not applied: %s", m.Role)
	}

	// The owner's role is immutable.
	_, err = f.svc.UpdateMemberRole(context.Background(), ports.UpdateMemberRoleInput{
		ProjectID: p.ID, ActorID: "alice", UserID: "alice", Role: domain.RoleMember,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for owner role change, got %v", err)
	}

	_, err = f.svc.UpdateMemberRole(context.Background(), ports.UpdateMemberRoleInput{
		ProjectID: p.ID, ActorID: "alice", UserID: "ghost", Role: domain.RoleMember,
	})
	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestProjectService_RemoveMember(t *testing.T) {
	f := newProjectFixture()
	p := f.seedProject(t, "alice",
		domain.Member{UserID: "alice", Role: domain.RoleAdmin},
		domain.Member{UserID: "bob", Role: domain.RoleMember},
	)

	// The owner cannot be removed.
	_, err := f.svc.RemoveMember(context.Background(), p.ID, "alice", "alice")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for owner removal, got %v", err)
	}

	updated, err := f.svc.RemoveMember(context.Background(), p.ID, "alice", "bob")
	if err != nil {
		t.Fatalf("remove member failed: %v", err)
	}
	if updated.IsMember("bob") {
		t.Fatalf("bob still on roster: %+v", updated.Members)
	}

	_, err = f.svc.RemoveMember(context.Background(), p.ID, "alice", "bob")
	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestProjectService_Members_ReadableByAnyMember(t *testing.T) {
	f := newProjectFixture()
	p := f.seedProject(t, "alice",
		domain.Member{UserID: "alice", Role: domain.RoleAdmin},
		domain.Member{UserID: "bob", Role: domain.RoleMember, JoinedAt: time.Now()},
	)

	members, err := f.svc.Members(context.Background(), p.ID, "bob")
	if err != nil {
		t.Fatalf("member read failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	if _, err := f.svc.Members(context.Background(), p.ID, "mallory"); !errors.Is(err, domain.ErrNotProjectMember) {
		t.Fatalf("expected ErrNotProjectMember, got %v", err)
	}
}
