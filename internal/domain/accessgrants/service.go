package accessgrants

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pig-farm/internal/ports/capabilities"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
	ErrLimitReached = errors.New("plan limit reached")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type InviteInput struct {
	FarmID        string
	OwnerUserID   string
	GranteeUserID string
	Scopes        []Scope

	// MaxUsers del plan del dueño, contando al dueño. capabilities.Unlimited = sin tope.
	MaxUsers int
}

func (s *Service) Invite(ctx context.Context, in InviteInput) (Grant, error) {
	farmID := strings.TrimSpace(in.FarmID)
	ownerID := strings.TrimSpace(in.OwnerUserID)
	granteeID := strings.TrimSpace(in.GranteeUserID)

	if farmID == "" || ownerID == "" || granteeID == "" {
		return Grant{}, ErrInvalidInput
	}
	if ownerID == granteeID {
		return Grant{}, ErrInvalidInput
	}

	// Sin scopes: solo lectura. Con scopes: validación estricta.
	scopes := []Scope{ScopeFarmRead}
	if len(in.Scopes) > 0 {
		var err error
		scopes, err = normalizeScopesStrict(in.Scopes)
		if err != nil {
			return Grant{}, err
		}
		if len(scopes) == 0 {
			return Grant{}, ErrInvalidInput
		}
	}

	now := s.now()

	items, err := s.repo.ListByFarm(ctx, farmID)
	if err != nil {
		return Grant{}, err
	}

	existing, matches, found := latestMatch(items, ownerID, granteeID)
	if found && existing.Status != StatusRevoked {
		// Re-invitar actualiza scopes y revoca duplicados.
		s.revokeOtherMatches(ctx, existing.ID, matches, now)

		existing.Scopes = scopes
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return Grant{}, err
		}
		return existing, nil
	}

	if !capabilities.Allows(in.MaxUsers, 1+countGrantees(items)) {
		return Grant{}, ErrLimitReached
	}

	g := Grant{
		ID:            uuid.NewString(),
		FarmID:        farmID,
		OwnerUserID:   ownerID,
		GranteeUserID: granteeID,
		Scopes:        scopes,
		Status:        StatusInvited,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return Grant{}, err
	}
	return g, nil
}

func (s *Service) Accept(ctx context.Context, grantID, granteeUserID string) (Grant, error) {
	grantID = strings.TrimSpace(grantID)
	granteeUserID = strings.TrimSpace(granteeUserID)

	if grantID == "" || granteeUserID == "" {
		return Grant{}, ErrInvalidInput
	}

	g, err := s.repo.GetByID(ctx, grantID)
	if err != nil {
		return Grant{}, ErrNotFound
	}

	if g.GranteeUserID != granteeUserID {
		return Grant{}, ErrForbidden
	}
	switch g.Status {
	case StatusRevoked:
		return Grant{}, ErrBadState
	case StatusActive:
		return g, nil
	case StatusInvited:
	default:
		return Grant{}, ErrBadState
	}

	now := s.now()
	g.Status = StatusActive
	g.UpdatedAt = now

	if err := s.repo.Update(ctx, g); err != nil {
		return Grant{}, err
	}

	// Queda un solo grant vivo por (granja, dueño, invitado).
	if items, err := s.repo.ListByFarm(ctx, g.FarmID); err == nil {
		_, matches, _ := latestMatch(items, g.OwnerUserID, g.GranteeUserID)
		s.revokeOtherMatches(ctx, g.ID, matches, now)
	}
	return g, nil
}

func (s *Service) Revoke(ctx context.Context, grantID, ownerUserID string) (Grant, error) {
	grantID = strings.TrimSpace(grantID)
	ownerUserID = strings.TrimSpace(ownerUserID)

	if grantID == "" || ownerUserID == "" {
		return Grant{}, ErrInvalidInput
	}

	g, err := s.repo.GetByID(ctx, grantID)
	if err != nil {
		return Grant{}, ErrNotFound
	}

	if g.OwnerUserID != ownerUserID {
		return Grant{}, ErrForbidden
	}

	// Idempotente
	if g.Status == StatusRevoked {
		return g, nil
	}

	now := s.now()
	g.Status = StatusRevoked
	g.UpdatedAt = now
	g.RevokedAt = &now

	if err := s.repo.Update(ctx, g); err != nil {
		return Grant{}, err
	}
	return g, nil
}

func (s *Service) ListByFarm(ctx context.Context, farmID string) ([]Grant, error) {
	farmID = strings.TrimSpace(farmID)
	if farmID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByFarm(ctx, farmID)
}

func (s *Service) GetActiveGrant(ctx context.Context, farmID, granteeUserID string) (Grant, error) {
	farmID = strings.TrimSpace(farmID)
	granteeUserID = strings.TrimSpace(granteeUserID)

	if farmID == "" || granteeUserID == "" {
		return Grant{}, ErrInvalidInput
	}
	g, err := s.repo.GetActiveGrant(ctx, farmID, granteeUserID)
	if err != nil {
		return Grant{}, ErrNotFound
	}
	return g, nil
}

func (s *Service) ListByGrantee(ctx context.Context, granteeUserID string) ([]Grant, error) {
	granteeUserID = strings.TrimSpace(granteeUserID)
	if granteeUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByGrantee(ctx, granteeUserID)
}

// HasScope valida si el grant incluye un scope.
func HasScope(g Grant, scope Scope) bool {
	for _, s := range g.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

func latestMatch(items []Grant, ownerID, granteeID string) (Grant, []Grant, bool) {
	matches := make([]Grant, 0)
	var winner Grant
	found := false

	for _, g := range items {
		if g.OwnerUserID != ownerID || g.GranteeUserID != granteeID {
			continue
		}
		matches = append(matches, g)
		if !found || g.UpdatedAt.After(winner.UpdatedAt) {
			winner = g
			found = true
		}
	}
	return winner, matches, found
}

// countGrantees cuenta usuarios distintos con grant no revocado.
func countGrantees(items []Grant) int {
	seen := map[string]struct{}{}
	for _, g := range items {
		if g.Status == StatusRevoked {
			continue
		}
		seen[g.GranteeUserID] = struct{}{}
	}
	return len(seen)
}

func (s *Service) revokeOtherMatches(ctx context.Context, winnerID string, matches []Grant, now time.Time) {
	for _, g := range matches {
		if g.ID == "" || g.ID == winnerID || g.Status == StatusRevoked {
			continue
		}
		g.Status = StatusRevoked
		g.UpdatedAt = now
		g.RevokedAt = &now
		_ = s.repo.Update(ctx, g) // best-effort
	}
}

func normalizeScopesStrict(in []Scope) ([]Scope, error) {
	seen := map[Scope]struct{}{}
	out := make([]Scope, 0, len(in))

	for _, raw := range in {
		s := Scope(strings.TrimSpace(string(raw)))
		if s == "" {
			continue
		}
		if _, ok := allScopes[s]; !ok {
			return nil, ErrInvalidInput
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out, nil
}
