package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"bookly/internal/auth"
	"bookly/internal/mail"
	"bookly/internal/models"
	"bookly/internal/service"
)

const (
	defaultAccessTokenTTL  = 30 * time.Minute
	defaultRefreshTokenTTL = 48 * time.Hour
	defaultEmailTokenTTL   = 24 * time.Hour
)

// UserStore is the persistence boundary for user records and their
// single-use tokens.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailWithBooks(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, user *models.User, changes map[string]any) error
	CreateEmailToken(ctx context.Context, user *models.User, ttl time.Duration) (*models.EmailToken, error)
	ConsumeEmailToken(ctx context.Context, token string) (*models.User, error)
	CreateResetToken(ctx context.Context, user *models.User, ttl time.Duration) (*models.ResetToken, error)
	ConsumeResetToken(ctx context.Context, token string) (*models.User, error)
}

// BookStore is the persistence boundary for catalog entries.
type BookStore interface {
	List(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, id uuid.UUID, changes map[string]any) (*models.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewStore is the persistence boundary for book reviews.
type ReviewStore interface {
	Add(ctx context.Context, userID, bookID uuid.UUID, rating int, comment string) (*models.Review, error)
}

// AuditRecorder records authentication events, best-effort.
type AuditRecorder interface {
	Record(ctx context.Context, actorID *uuid.UUID, action, targetType string, targetID *string, metadata map[string]any)
}

// MailEnqueuer queues outbound email for asynchronous delivery.
type MailEnqueuer interface {
	Enqueue(ctx context.Context, msg mail.Message) error
}

// Options carries the dependencies and tunables of the API layer.
type Options struct {
	Users   UserStore
	Books   BookStore
	Reviews ReviewStore
	Audit   AuditRecorder
	// Mail may be nil; signup and password reset then report degraded
	// delivery instead of failing.
	Mail MailEnqueuer

	Codec     *auth.Codec
	Hasher    *auth.Hasher
	Blocklist auth.Blocklist

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	EmailTokenTTL   time.Duration

	// Domain is the externally reachable base URL used in email links.
	Domain         string
	AllowedOrigins []string
}

// API wires dependencies and configuration for the HTTP handlers.
type API struct {
	users   UserStore
	books   BookStore
	reviews ReviewStore
	audit   AuditRecorder
	mail    MailEnqueuer

	codec     *auth.Codec
	hasher    *auth.Hasher
	blocklist auth.Blocklist
	guard     *auth.Guard

	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	emailTokenTTL   time.Duration

	domain         string
	allowedOrigins []string
}

// New initialises the API layer with sane defaults applied to the provided
// options.
func New(opts Options) (*API, error) {
	if opts.Users == nil {
		return nil, errors.New("user store is required")
	}
	if opts.Books == nil {
		return nil, errors.New("book store is required")
	}
	if opts.Reviews == nil {
		return nil, errors.New("review store is required")
	}
	if opts.Codec == nil {
		return nil, errors.New("token codec is required")
	}
	if opts.Hasher == nil {
		return nil, errors.New("password hasher is required")
	}
	if opts.Blocklist == nil {
		return nil, errors.New("blocklist is required")
	}

	if opts.AccessTokenTTL <= 0 {
		opts.AccessTokenTTL = defaultAccessTokenTTL
	}
	if opts.RefreshTokenTTL <= 0 {
		opts.RefreshTokenTTL = defaultRefreshTokenTTL
	}
	if opts.EmailTokenTTL <= 0 {
		opts.EmailTokenTTL = defaultEmailTokenTTL
	}
	if opts.Domain == "" {
		opts.Domain = "http://localhost:8000"
	}

	return &API{
		users:           opts.Users,
		books:           opts.Books,
		reviews:         opts.Reviews,
		audit:           opts.Audit,
		mail:            opts.Mail,
		codec:           opts.Codec,
		hasher:          opts.Hasher,
		blocklist:       opts.Blocklist,
		guard:           auth.NewGuard(opts.Codec, opts.Blocklist),
		accessTokenTTL:  opts.AccessTokenTTL,
		refreshTokenTTL: opts.RefreshTokenTTL,
		emailTokenTTL:   opts.EmailTokenTTL,
		domain:          opts.Domain,
		allowedOrigins:  opts.AllowedOrigins,
	}, nil
}

// resolveIdentity adapts the user store to the auth identity-resolver
// contract.
func (a *API) resolveIdentity(ctx context.Context, email string) (*models.User, error) {
	user, err := a.users.GetByEmailWithBooks(ctx, email)
	if errors.Is(err, service.ErrNotFound) {
		return nil, auth.ErrIdentityNotFound
	}
	return user, err
}

// recordAudit is a nil-safe wrapper around the optional audit recorder.
func (a *API) recordAudit(ctx context.Context, actorID *uuid.UUID, action, targetType string, targetID *string, metadata map[string]any) {
	if a.audit == nil {
		return
	}
	a.audit.Record(ctx, actorID, action, targetType, targetID, metadata)
}
