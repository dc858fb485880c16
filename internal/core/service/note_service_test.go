package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/core/domain"
	"github.com/taskhive/taskhive/internal/core/ports"
)

type noteFixture struct {
	svc      *NoteService
	notes    *stubNoteRepo
	projects *stubProjectRepo
	project  *domain.Project
	other    *domain.Project
}

// newNoteFixture seeds two projects. The first is owned by alice (admin) with
// bob as project_admin and carol as member; the second belongs to dave.
func newNoteFixture(t *testing.T) *noteFixture {
	t.Helper()
	f := &noteFixture{
		notes:    newStubNoteRepo(),
		projects: newStubProjectRepo(),
	}
	f.svc = NewNoteService(f.notes, f.projects, zerolog.Nop())

	p, err := f.projects.Create(context.Background(), &domain.Project{
		Name: "launch", Description: "d", OwnerID: "alice",
		Members: []domain.Member{
			{UserID: "alice", Role: domain.RoleAdmin},
			{UserID: "bob", Role: domain.RoleProjectAdmin},
			{UserID: "carol", Role: domain.RoleMember},
		},
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	f.project = p

	other, err := f.projects.Create(context.Background(), &domain.Project{
		Name: "side", Description: "d", OwnerID: "dave",
		Members: []domain.Member{{UserID: "dave", Role: domain.RoleAdmin}},
	})
	if err != nil {
		t.Fatalf("seed other project: %v", err)
	}
	f.other = other
	return f
}

func (f *noteFixture) createNote(t *testing.T) *domain.Note {
	t.Helper()
	note, err := f.svc.Create(context.Background(), ports.CreateNoteInput{
		ProjectID: f.project.ID, ActorID: "alice", Title: "minutes", Content: "agenda",
	})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	return note
}

func TestNoteService_Create_AdminOnly(t *testing.T) {
	f := newNoteFixture(t)

	f.createNote(t)

	// Unlike tasks, project_admin is not enough for notes.
	_, err := f.svc.Create(context.Background(), ports.CreateNoteInput{
		ProjectID: f.project.ID, ActorID: "bob", Title: "t", Content: "c",
	})
	if !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole for project_admin, got %v", err)
	}
	_, err = f.svc.Create(context.Background(), ports.CreateNoteInput{
		ProjectID: f.project.ID, ActorID: "carol", Title: "t", Content: "c",
	})
	if !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole for member, got %v", err)
	}
}

func TestNoteService_Create_Validation(t *testing.T) {
	f := newNoteFixture(t)

	_, err := f.svc.Create(context.Background(), ports.CreateNoteInput{
		ProjectID: f.project.ID, ActorID: "alice", Title: "", Content: "c",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNoteService_Read_AnyMember(t *testing.T) {
	f := newNoteFixture(t)
	note := f.createNote(t)

	notes, err := f.svc.List(context.Background(), f.project.ID, "carol")
	if err != nil {
		t.Fatalf("member list failed: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}

	if _, err := f.svc.Get(context.Background(), f.project.ID, note.ID, "carol"); err != nil {
		t.Fatalf("member get failed: %v", err)
	}
	if _, err := f.svc.List(context.Background(), f.project.ID, "dave"); !errors.Is(err, domain.ErrNotProjectMember) {
		t.Fatalf("expected ErrNotProjectMember, got %v", err)
	}
}

func TestNoteService_Get_ProjectMismatch(t *testing.T) {
	f := newNoteFixture(t)
	note := f.createNote(t)

	// Reaching a note through the wrong project is a validation failure, not
	// a not-found.
	_, err := f.svc.Get(context.Background(), f.other.ID, note.ID, "dave")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNoteService_Update_AdminOnlyAndPartial(t *testing.T) {
	f := newNoteFixture(t)
	note := f.createNote(t)

	title := "updated minutes"
	updated, err := f.svc.Update(context.Background(), ports.UpdateNoteInput{
		ProjectID: f.project.ID, NoteID: note.ID, ActorID: "alice", Title: &title,
	})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if updated.Title != "updated minutes" || updated.Content != "agenda" {
		t.Fatalf("partial patch wrong: %+v", updated)
	}

	_, err = f.svc.Update(context.Background(), ports.UpdateNoteInput{
		ProjectID: f.project.ID, NoteID: note.ID, ActorID: "bob", Title: &title,
	})
	if !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole for project_admin, got %v", err)
	}
}

func TestNoteService_Delete_AdminOnlyAndScoped(t *testing.T) {
	f := newNoteFixture(t)
	note := f.createNote(t)

	if err := f.svc.Delete(context.Background(), f.project.ID, note.ID, "carol"); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), f.other.ID, note.ID, "dave"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for cross-project delete, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), f.project.ID, note.ID, "alice"); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if err := f.svc.Delete(context.Background(), f.project.ID, note.ID, "alice"); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}
