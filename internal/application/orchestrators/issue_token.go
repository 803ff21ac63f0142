package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"arcagym/internal/domain/access"
	"arcagym/internal/domain/accesstoken"
	"arcagym/internal/domain/member"
)

// TokenMemberStore defines the member store interface for token issuance.
type TokenMemberStore interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// IssueTokenInput carries the staff request for a member's QR token.
type IssueTokenInput struct {
	MemberID      string
	ReservationID string // optional: binds the token to one booking
}

// IssueTokenResult carries the signed token.
type IssueTokenResult struct {
	Token string
}

// IssueTokenDeps holds dependencies for IssueToken.
type IssueTokenDeps struct {
	Members TokenMemberStore
	Signer  *accesstoken.Signer
}

// ExecuteIssueToken signs a short-lived QR token for a member.
// PRE: MemberID resolves to an active member; Signer is configured
// POST: Returns a token verifiable until its TTL elapses
func ExecuteIssueToken(ctx context.Context, input IssueTokenInput, deps IssueTokenDeps) (IssueTokenResult, error) {
	if input.MemberID == "" {
		return IssueTokenResult{}, errors.New("member id is required")
	}
	if deps.Signer == nil {
		return IssueTokenResult{}, accesstoken.ErrNotConfigured
	}

	m, err := deps.Members.GetByID(ctx, input.MemberID)
	if err != nil {
		return IssueTokenResult{}, err
	}
	if !m.IsActive() {
		return IssueTokenResult{}, errors.New("cannot issue a token for an inactive member")
	}

	token, err := deps.Signer.Issue(m.ID, input.ReservationID)
	if err != nil {
		return IssueTokenResult{}, err
	}

	slog.Info("access_event", "event", "token_issued", "member_id", m.ID)
	return IssueTokenResult{Token: token}, nil
}

// ResolveTokenAccessInput carries a kiosk entry request authenticated by a
// signed token plus the member's document number.
type ResolveTokenAccessInput struct {
	Token       string
	DNI         string
	HasLocation bool
	Latitude    float64
	Longitude   float64
}

// ResolveTokenAccessDeps holds dependencies for ResolveTokenAccess.
type ResolveTokenAccessDeps struct {
	Signer *accesstoken.Signer
	Gate   ResolveAccessDeps
}

// ExecuteResolveTokenAccess verifies the signed token and then runs the
// normal eligibility gate. The token must name the same member the document
// number resolves to; a mismatch rejects as NOT_FOUND rather than revealing
// whose token it was.
// PRE: deps.Signer is configured
// POST: Same guarantees as ExecuteResolveAccess
func ExecuteResolveTokenAccess(ctx context.Context, input ResolveTokenAccessInput, deps ResolveTokenAccessDeps) (ResolveAccessResult, error) {
	if deps.Signer == nil {
		return ResolveAccessResult{}, accesstoken.ErrNotConfigured
	}
	if input.Token == "" {
		return ResolveAccessResult{}, access.Reject(access.CodeMissingCredential)
	}

	claims, err := deps.Signer.Verify(input.Token)
	if err != nil {
		return ResolveAccessResult{}, access.Reject(access.CodeMissingCredential)
	}

	result, err := ExecuteResolveAccess(ctx, ResolveAccessInput{
		DNI:         input.DNI,
		HasLocation: input.HasLocation,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
	}, deps.Gate)
	if err != nil {
		return ResolveAccessResult{}, err
	}
	if result.Member.ID != claims.MemberID {
		return ResolveAccessResult{}, access.Reject(access.CodeNotFound)
	}
	return result, nil
}
