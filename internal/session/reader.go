package session

import (
	"context"

	"github.com/spec-kit/staff-directory/internal/domain"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

// Session is a resolved panel session.
type Session struct {
	ID   string
	Auth domain.AuthContext
}

// Reader resolves a session from either a bearer token or a session cookie.
type Reader struct {
	store  *Store
	tokens *TokenCodec
}

// NewReader builds a reader. Either source may be nil.
func NewReader(store *Store, tokens *TokenCodec) *Reader {
	return &Reader{store: store, tokens: tokens}
}

// Resolve prefers the bearer token and falls back to the cookie session.
func (r *Reader) Resolve(ctx context.Context, bearer, sessionID string) (Session, error) {
	if bearer != "" && r.tokens != nil {
		claims, err := r.tokens.Parse(bearer)
		if err != nil {
			return Session{}, apperrors.NewUnauthorized("invalid session token")
		}
		auth := claims.Auth()
		if !auth.Scoped() {
			return Session{}, apperrors.NewContextError("session has no business")
		}
		// A signed token is only good while its session is still stored.
		if r.store != nil {
			if auth, err = r.store.Load(ctx, claims.SessionID); err != nil {
				return Session{}, err
			}
		}
		return Session{ID: claims.SessionID, Auth: auth}, nil
	}
	if sessionID != "" && r.store != nil {
		auth, err := r.store.Load(ctx, sessionID)
		if err != nil {
			return Session{}, err
		}
		return Session{ID: sessionID, Auth: auth}, nil
	}
	return Session{}, apperrors.NewContextError("no session")
}

// Issue creates a stored session for auth and signs a token for it.
func (r *Reader) Issue(ctx context.Context, auth domain.AuthContext) (Session, string, error) {
	if r.store == nil || r.tokens == nil {
		return Session{}, "", apperrors.NewInternalError(nil)
	}
	if !auth.AccessLevel.Valid() {
		return Session{}, "", apperrors.NewValidationError("unknown access level", map[string]any{"access_level": auth.AccessLevel})
	}
	id, err := r.store.Create(ctx, auth)
	if err != nil {
		return Session{}, "", err
	}
	token, _, err := r.tokens.Issue(id, auth)
	if err != nil {
		return Session{}, "", apperrors.NewInternalError(err)
	}
	return Session{ID: id, Auth: auth}, token, nil
}

// Revoke deletes the stored session.
func (r *Reader) Revoke(ctx context.Context, sessionID string) error {
	if r.store == nil || sessionID == "" {
		return nil
	}
	return r.store.Delete(ctx, sessionID)
}
