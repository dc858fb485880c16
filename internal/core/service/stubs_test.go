package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/taskhive/taskhive/internal/core/domain"
	"github.com/taskhive/taskhive/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	seq       int
	createErr error
	updateErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := cloneUser(user)
	if clone.ID == "" {
		r.seq++
		clone.ID = fmt.Sprintf("user_%d", r.seq)
	}
	r.byID[clone.ID] = cloneUser(clone)
	return clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.byID[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) findBy(match func(*domain.User) bool) (*domain.User, error) {
	for _, u := range r.byID {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) FindByVerificationToken(_ context.Context, tokenHash string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool {
		return u.EmailVerificationToken != "" && u.EmailVerificationToken == tokenHash
	})
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, tokenHash string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool {
		return u.PasswordResetToken != "" && u.PasswordResetToken == tokenHash
	})
}

func (r *stubUserRepo) FindByRefreshToken(_ context.Context, tokenHash string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool {
		return u.RefreshToken != "" && u.RefreshToken == tokenHash
	})
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.byID[user.ID] = cloneUser(user)
	return nil
}

type stubProjectRepo struct {
	byID      map[string]*domain.Project
	seq       int
	updateErr error
	updates   int
	deleted   []string
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{byID: make(map[string]*domain.Project)}
}

func cloneProject(p *domain.Project) *domain.Project {
	clone := *p
	clone.Members = append([]domain.Member(nil), p.Members...)
	return &clone
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	clone := cloneProject(p)
	if clone.ID == "" {
		r.seq++
		clone.ID = fmt.Sprintf("proj_%d", r.seq)
	}
	r.byID[clone.ID] = cloneProject(clone)
	return clone, nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	if p, ok := r.byID[id]; ok {
		return cloneProject(p), nil
	}
	return nil, domain.ErrProjectNotFound
}

func (r *stubProjectRepo) ListByMember(_ context.Context, userID string) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.byID {
		if p.IsMember(userID) {
			out = append(out, cloneProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubProjectRepo) Update(_ context.Context, p *domain.Project) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrProjectNotFound
	}
	r.updates++
	r.byID[p.ID] = cloneProject(p)
	return nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type stubTaskRepo struct {
	byID            map[string]*domain.Task
	seq             int
	deletedProjects []string
	updateErr       error
	addAttachErr    error
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{byID: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	clone := *t
	if t.Subtasks != nil {
		clone.Subtasks = append([]domain.Subtask{}, t.Subtasks...)
	}
	if t.Attachments != nil {
		clone.Attachments = append([]domain.Attachment{}, t.Attachments...)
	}
	return &clone
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	clone := cloneTask(t)
	if clone.ID == "" {
		r.seq++
		clone.ID = fmt.Sprintf("task_%d", r.seq)
	}
	r.byID[clone.ID] = cloneTask(clone)
	return clone, nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, projectID, taskID string) (*domain.Task, error) {
	t, ok := r.byID[taskID]
	if !ok || t.ProjectID != projectID {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) FindBySubtask(_ context.Context, projectID, subtaskID string) (*domain.Task, error) {
	for _, t := range r.byID {
		if t.ProjectID != projectID {
			continue
		}
		if _, ok := t.Subtask(subtaskID); ok {
			return cloneTask(t), nil
		}
	}
	return nil, domain.ErrSubtaskNotFound
}

// List applies the same filters the real Mongo repo would use.
func (r *stubTaskRepo) List(_ context.Context, f ports.ListTasksFilter) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.byID {
		if t.ProjectID != f.ProjectID {
			continue
		}
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		if f.AssignedTo != "" && t.AssignedTo != f.AssignedTo {
			continue
		}
		if f.Priority != "" && string(t.Priority) != f.Priority {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.byID[t.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if stored.Version != t.Version {
		return domain.ErrVersionConflict
	}
	clone := cloneTask(t)
	clone.Version++
	r.byID[t.ID] = clone
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, projectID, taskID string) error {
	t, ok := r.byID[taskID]
	if !ok || t.ProjectID != projectID {
		return domain.ErrTaskNotFound
	}
	delete(r.byID, taskID)
	return nil
}

func (r *stubTaskRepo) DeleteByProject(_ context.Context, projectID string) error {
	for id, t := range r.byID {
		if t.ProjectID == projectID {
			delete(r.byID, id)
		}
	}
	r.deletedProjects = append(r.deletedProjects, projectID)
	return nil
}

func (r *stubTaskRepo) versioned(taskID string, version int64, apply func(*domain.Task)) error {
	t, ok := r.byID[taskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if t.Version != version {
		return domain.ErrVersionConflict
	}
	apply(t)
	t.Version++
	return nil
}

func (r *stubTaskRepo) AddSubtask(_ context.Context, taskID string, version int64, st domain.Subtask) error {
	return r.versioned(taskID, version, func(t *domain.Task) {
		t.Subtasks = append(t.Subtasks, st)
	})
}

func (r *stubTaskRepo) UpdateSubtask(_ context.Context, taskID string, version int64, st domain.Subtask) error {
	return r.versioned(taskID, version, func(t *domain.Task) {
		for i := range t.Subtasks {
			if t.Subtasks[i].ID == st.ID {
				t.Subtasks[i] = st
			}
		}
	})
}

func (r *stubTaskRepo) RemoveSubtask(_ context.Context, taskID string, version int64, subtaskID string) error {
	return r.versioned(taskID, version, func(t *domain.Task) {
		kept := t.Subtasks[:0]
		for _, st := range t.Subtasks {
			if st.ID != subtaskID {
				kept = append(kept, st)
			}
		}
		t.Subtasks = kept
	})
}

func (r *stubTaskRepo) AddAttachment(_ context.Context, taskID string, version int64, a domain.Attachment) error {
	if r.addAttachErr != nil {
		return r.addAttachErr
	}
	return r.versioned(taskID, version, func(t *domain.Task) {
		t.Attachments = append(t.Attachments, a)
	})
}

func (r *stubTaskRepo) RemoveAttachment(_ context.Context, taskID string, version int64, attachmentID string) error {
	return r.versioned(taskID, version, func(t *domain.Task) {
		kept := t.Attachments[:0]
		for _, a := range t.Attachments {
			if a.ID != attachmentID {
				kept = append(kept, a)
			}
		}
		t.Attachments = kept
	})
}

type stubNoteRepo struct {
	byID            map[string]*domain.Note
	seq             int
	deletedProjects []string
}

func newStubNoteRepo() *stubNoteRepo {
	return &stubNoteRepo{byID: make(map[string]*domain.Note)}
}

func (r *stubNoteRepo) Create(_ context.Context, n *domain.Note) (*domain.Note, error) {
	clone := *n
	if clone.ID == "" {
		r.seq++
		clone.ID = fmt.Sprintf("note_%d", r.seq)
	}
	stored := clone
	r.byID[clone.ID] = &stored
	return &clone, nil
}

func (r *stubNoteRepo) FindByID(_ context.Context, id string) (*domain.Note, error) {
	if n, ok := r.byID[id]; ok {
		clone := *n
		return &clone, nil
	}
	return nil, domain.ErrNoteNotFound
}

func (r *stubNoteRepo) ListByProject(_ context.Context, projectID string) ([]*domain.Note, error) {
	var out []*domain.Note
	for _, n := range r.byID {
		if n.ProjectID == projectID {
			clone := *n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubNoteRepo) Update(_ context.Context, n *domain.Note) error {
	if _, ok := r.byID[n.ID]; !ok {
		return domain.ErrNoteNotFound
	}
	clone := *n
	r.byID[n.ID] = &clone
	return nil
}

func (r *stubNoteRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNoteNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubNoteRepo) DeleteByProject(_ context.Context, projectID string) error {
	for id, n := range r.byID {
		if n.ProjectID == projectID {
			delete(r.byID, id)
		}
	}
	r.deletedProjects = append(r.deletedProjects, projectID)
	return nil
}

type stubBlobStore struct {
	seq     int
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{saved: make(map[string][]byte)}
}

func (s *stubBlobStore) Save(_ context.Context, _ string, r io.Reader) (string, int64, error) {
	if s.saveErr != nil {
		return "", 0, s.saveErr
	}
	var buf bytes.Buffer
	n, err := buf.ReadFrom(r)
	if err != nil {
		return "", 0, err
	}
	s.seq++
	locator := fmt.Sprintf("blob_%d", s.seq)
	s.saved[locator] = buf.Bytes()
	return locator, n, nil
}

func (s *stubBlobStore) Delete(_ context.Context, locator string) error {
	delete(s.saved, locator)
	s.deleted = append(s.deleted, locator)
	return nil
}
