package service

import (
	"github.com/taskhive/taskhive/internal/core/domain"
)

// Membership authority: pure decision logic over an already-loaded project.
// Ownership and roster role are independent axes: owner-only checks ignore
// the owner's own roster entry.

// requireMember fails with ErrNotProjectMember unless userID is in the roster.
func requireMember(p *domain.Project, userID string) (*domain.Member, error) {
	m, ok := p.Member(userID)
	if !ok {
		return nil, domain.ErrNotProjectMember
	}
	return m, nil
}

// requireRole first requires membership, then fails with ErrInsufficientRole
// unless the member holds one of the allowed roles.
func requireRole(p *domain.Project, userID string, allowed ...domain.Role) (*domain.Member, error) {
	m, err := requireMember(p, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range allowed {
		if m.Role == r {
			return m, nil
		}
	}
	return nil, domain.ErrInsufficientRole
}

// requireOwner fails with ErrNotProjectOwner unless userID created the project.
func requireOwner(p *domain.Project, userID string) error {
	if !p.IsOwner(userID) {
		return domain.ErrNotProjectOwner
	}
	return nil
}
