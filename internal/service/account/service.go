package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/smoradi/customer-api/internal/auth"
	"github.com/smoradi/customer-api/internal/model"
	"github.com/smoradi/customer-api/internal/repository"
	"github.com/smoradi/customer-api/internal/upload"
	"github.com/smoradi/customer-api/internal/util"
)

// Register always signs with a fixed 7-day lifetime; only Login uses the
// configured default TTL.
const registerTokenTTL = 7 * 24 * time.Hour

// Service orchestrates account operations against the credential store,
// the password hasher, the token service, and the image host.
type Service struct {
	repo   repository.CustomersRepository
	tokens *auth.TokenService
	images upload.Uploader
	folder string
}

func New(repo repository.CustomersRepository, tokens *auth.TokenService, images upload.Uploader, imageFolder string) *Service {
	if imageFolder == "" {
		imageFolder = "customer_profiles"
	}
	return &Service{repo: repo, tokens: tokens, images: images, folder: imageFolder}
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token    string
	Customer model.Profile
}

type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required),
		validation.Field(&in.Username, validation.Required),
		validation.Field(&in.Password, validation.Required),
	)
}

// Register creates a customer and issues a token with {id, email} claims.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	exists, err := s.repo.ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return nil, fmt.Errorf("existence check: %w", err)
	}
	if exists {
		return nil, ErrConflict
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	c := &model.Customer{
		ID:       util.NewID(),
		Email:    in.Email,
		Username: in.Username,
		Password: hash,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		// unique index closes the check-then-create race
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}

	token, err := s.tokens.Issue(auth.Claims{ID: c.ID, Email: c.Email}, registerTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResult{Token: token, Customer: c.Profile()}, nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required),
		validation.Field(&in.Password, validation.Required),
	)
}

// Login verifies credentials and issues a token carrying the full claim set.
// Unknown email and wrong password return the same error.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	c, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find by email: %w", err)
	}
	if c == nil || !auth.VerifyPassword(in.Password, c.Password) {
		return nil, ErrInvalidCredentials
	}

	claims := auth.Claims{
		CustomerID: c.ID,
		Email:      c.Email,
		Username:   c.Username,
		IsAdmin:    c.IsAdmin,
	}
	if c.Phone != nil {
		claims.Phone = *c.Phone
	}
	if c.Image != nil {
		claims.Image = *c.Image
	}

	token, err := s.tokens.Issue(claims, 0)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResult{Token: token, Customer: c.Profile()}, nil
}

// GetProfile resolves the authenticated identity to its stored profile.
func (s *Service) GetProfile(ctx context.Context, ident auth.Identity) (*model.Profile, error) {
	c, err := s.repo.GetByID(ctx, ident.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("find by id: %w", err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	p := c.Profile()
	return &p, nil
}

// UpdateInput is a partial patch: nil fields are left untouched.
type UpdateInput struct {
	Email    *string
	Username *string
	Phone    *string
	Password *string
}

// UpdateProfile applies the patch and persists all changes as one row save.
// If image bytes are supplied, the upload happens first; an upload failure
// aborts the update so no field lands piecemeal.
func (s *Service) UpdateProfile(ctx context.Context, id string, patch UpdateInput, image []byte) (*model.Profile, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find by id: %w", err)
	}
	if c == nil {
		return nil, ErrNotFound
	}

	if len(image) > 0 {
		url, err := s.images.Upload(ctx, image, s.folder)
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		c.Image = &url
	}

	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Username != nil {
		c.Username = *patch.Username
	}
	if patch.Phone != nil {
		c.Phone = patch.Phone
	}
	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		c.Password = hash
	}

	if err := s.repo.Save(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("save customer: %w", err)
	}

	p := c.Profile()
	return &p, nil
}

// DeleteProfile removes the customer. Deleting an absent id is ErrNotFound,
// so a repeated delete fails the same way instead of crashing.
func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// ListAll returns every customer profile. The admin check runs here as well
// as in the admin gate; neither trusts the other.
func (s *Service) ListAll(ctx context.Context, ident auth.Identity) ([]model.Profile, error) {
	if !ident.IsAdmin {
		return nil, ErrForbidden
	}

	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	out := make([]model.Profile, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].Profile())
	}
	return out, nil
}
