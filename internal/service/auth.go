// Package service contains the application services: authentication,
// categories, notes, todos and todo items.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/notekeeper/internal/authz"
	pkgcrypto "github.com/and161185/notekeeper/internal/crypto"
	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/limiter"
	"github.com/and161185/notekeeper/internal/model"
	"github.com/and161185/notekeeper/internal/repository"
)

// PasswordMinLen is the shortest accepted password.
const PasswordMinLen = 8

// Registration is the input of AuthService.Register.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// TokenRevoker remembers access tokens invalidated by logout.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService defines account and token operations.
type AuthService interface {
	// Register creates a ROLE_USER account.
	Register(ctx context.Context, in Registration) (*model.User, error)
	// LoginWithIP applies rate-limiting and authenticates the user.
	LoginWithIP(ctx context.Context, email, password, ip string) (model.Tokens, model.User, error)
	// Authenticate verifies an access token and returns the acting principal.
	Authenticate(ctx context.Context, token string) (authz.Principal, jwt.RegisteredClaims, error)
	// Logout revokes the token described by claims.
	Logout(ctx context.Context, claims jwt.RegisteredClaims) error
	// Profile loads a user.
	Profile(ctx context.Context, id int64) (*model.User, error)
	// UpdateProfile changes the user's names.
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string) (*model.User, error)
	// EnsureAdmin grants ROLE_ADMIN to email, creating the account if needed.
	EnsureAdmin(ctx context.Context, in Registration) (*model.User, error)
}

type AuthServiceImpl struct {
	users     repository.UserRepository
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
	revoker   TokenRevoker
}

// NewAuthService constructs AuthService. revoker may be nil, in which case
// logout is a client-side operation only.
func NewAuthService(users repository.UserRepository, signKey []byte, accessTTL time.Duration, lim limiter.Limiter, revoker TokenRevoker) *AuthServiceImpl {
	if lim == nil {
		lim = limiter.Disabled{}
	}
	return &AuthServiceImpl{users: users, signKey: signKey, accessTTL: accessTTL, lim: lim, revoker: revoker}
}

func invalid(field, msg string) error {
	return errs.OnField(field, fmt.Errorf("%w: %s", errs.ErrValidation, msg))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(in *Registration) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	if in.FirstName == "" {
		return invalid("first_name", "must not be blank")
	}
	if in.LastName == "" {
		return invalid("last_name", "must not be blank")
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return invalid("email", "not a valid address")
	}
	if len([]rune(in.Password)) < PasswordMinLen {
		return invalid("password", fmt.Sprintf("must be at least %d characters", PasswordMinLen))
	}
	return nil
}

// Register validates input and stores a new user with a hashed password.
func (s *AuthServiceImpl) Register(ctx context.Context, in Registration) (*model.User, error) {
	return s.create(ctx, in, []string{model.RoleUser})
}

func (s *AuthServiceImpl) create(ctx context.Context, in Registration, roles []string) (*model.User, error) {
	if err := validateRegistration(&in); err != nil {
		return nil, err
	}
	hash, err := pkgcrypto.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Roles:        roles,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// LoginWithIP authenticates with rate limiting by (email, ip).
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, email, password, ip string) (model.Tokens, model.User, error) {
	email = normalizeEmail(email)
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	if !allowed {
		return model.Tokens{}, model.User{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword(password, u.PasswordHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Tokens{}, model.User{}, errs.ErrRateLimited
		}
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return model.Tokens{}, model.User{}, err
		}
		// unknown email and wrong password look the same
		return model.Tokens{}, model.User{}, errs.ErrUnauthorized
	}

	_ = s.lim.Success(ctx, email, ipHash)

	access, exp, err := s.issueAccessToken(u.ID)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, *u, nil
}

// issueAccessToken creates a signed HS256 JWT with a unique token ID.
func (s *AuthServiceImpl) issueAccessToken(userID int64) (string, time.Time, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return "", time.Time{}, err
	}
	now := time.Now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		ID:        jti.String(),
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}

// Authenticate verifies signature, expiry and revocation, then loads the
// user's current roles. Every failure is reported as ErrUnauthorized except
// storage errors.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (authz.Principal, jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.signKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30*time.Second),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return authz.Principal{}, jwt.RegisteredClaims{}, errs.ErrUnauthorized
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return authz.Principal{}, jwt.RegisteredClaims{}, errs.ErrUnauthorized
	}

	if s.revoker != nil && claims.ID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return authz.Principal{}, jwt.RegisteredClaims{}, err
		}
		if revoked {
			return authz.Principal{}, jwt.RegisteredClaims{}, errs.ErrUnauthorized
		}
	}

	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return authz.Principal{}, jwt.RegisteredClaims{}, errs.ErrUnauthorized
	}
	if err != nil {
		return authz.Principal{}, jwt.RegisteredClaims{}, err
	}
	return authz.FromUser(u), claims, nil
}

// Logout revokes the token until its natural expiry.
func (s *AuthServiceImpl) Logout(ctx context.Context, claims jwt.RegisteredClaims) error {
	if s.revoker == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *AuthServiceImpl) Profile(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, id int64, firstName, lastName string) (*model.User, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" {
		return nil, invalid("first_name", "must not be blank")
	}
	if lastName == "" {
		return nil, invalid("last_name", "must not be blank")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.FirstName, u.LastName = firstName, lastName
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureAdmin is used at startup to bootstrap an administrator.
func (s *AuthServiceImpl) EnsureAdmin(ctx context.Context, in Registration) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, errs.ErrNotFound) {
		return s.create(ctx, in, []string{model.RoleUser, model.RoleAdmin})
	}
	if err != nil {
		return nil, err
	}
	if slices.Contains(u.Roles, model.RoleAdmin) {
		return u, nil
	}
	u.Roles = append(u.Roles, model.RoleAdmin)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
