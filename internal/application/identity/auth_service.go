package identity

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registrar atomically persists the records created at registration
type Registrar interface {
	Register(ctx context.Context, company *identity.Company, pipeline *crm.Pipeline, admin *identity.User) error
}

// AuthService handles registration, login and session management
type AuthService struct {
	users      identity.UserRepository
	companies  identity.CompanyRepository
	registrar  Registrar
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	companies identity.CompanyRepository,
	registrar Registrar,
	jwtService *auth.JWTService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		companies:  companies,
		registrar:  registrar,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a company, its default pipeline and its admin user in one
// transaction, then signs the admin in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email uniqueness", zap.Error(err))
		return nil, shared.ErrInternal
	}
	if exists {
		return nil, shared.ErrDuplicateEmail
	}

	company, err := identity.NewCompany(input.CompanyName)
	if err != nil {
		return nil, err
	}
	pipeline, err := crm.NewDefaultPipeline(company.ID)
	if err != nil {
		return nil, err
	}
	admin, err := identity.NewUser(company.ID, input.Name, input.Email, input.Password, identity.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.registrar.Register(ctx, company, pipeline, admin); err != nil {
		// A concurrent registration may win the unique email index race;
		// the registrar reports that as ErrDuplicateEmail. Anything else
		// is a store failure and must not look like a client error.
		if errors.Is(err, shared.ErrDuplicateEmail) {
			return nil, shared.ErrDuplicateEmail
		}
		s.logger.Error("Registration transaction failed",
			zap.String("company", input.CompanyName), zap.Error(err))
		return nil, shared.ErrInternal
	}

	s.logger.Info("Company registered",
		zap.String("company_id", company.ID.String()),
		zap.String("admin_id", admin.ID.String()))

	tokens, err := s.issueTokens(admin)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: admin, Company: company, Tokens: tokens}, nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		s.logger.Error("Failed to look up user for login", zap.Error(err))
		return nil, shared.ErrInternal
	}

	if !user.VerifyPassword(input.Password) {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrAccountInactive
	}

	user.RecordLogin()
	if err := s.users.Update(ctx, user); err != nil {
		// Losing the last-login timestamp is not worth failing the login
		s.logger.Warn("Failed to record login time", zap.Error(err))
	}

	company, err := s.companies.FindByID(ctx, user.CompanyID)
	if err != nil {
		s.logger.Error("Failed to load company for login",
			zap.String("company_id", user.CompanyID.String()), zap.Error(err))
		return nil, shared.ErrInternal
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Company: company, Tokens: tokens}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair.
// Account state is re-checked here, so deactivation takes effect at the
// next refresh even though existing access tokens stay valid.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshInput) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, shared.ErrAccountInactive
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Me returns the authenticated user's profile
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateSession applies a typed profile update and re-issues the access
// token so the session reflects the change immediately. Only the fields in
// auth.SessionUpdate can be altered this way.
func (s *AuthService) UpdateSession(ctx context.Context, userID uuid.UUID, accessToken string, update auth.SessionUpdate) (*SessionResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	name := ""
	if update.Name != nil {
		name = *update.Name
	}
	avatarURL := ""
	if update.AvatarURL != nil {
		avatarURL = *update.AvatarURL
	}
	user.UpdateProfile(name, avatarURL)

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("Failed to persist session update", zap.Error(err))
		return nil, shared.ErrInternal
	}

	token, _, err := s.jwtService.UpdateSession(accessToken, update)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	return &SessionResult{User: user, AccessToken: token}, nil
}

// ListUsers lists the company's users
func (s *AuthService) ListUsers(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[identity.User], error) {
	users, total, err := s.users.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return shared.Paginated[identity.User]{}, shared.ErrInternal
	}
	return shared.NewPaginated(users, total, filter.Page, filter.Limit), nil
}

func (s *AuthService) issueTokens(user *identity.User) (*auth.TokenPair, error) {
	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		CompanyID: user.CompanyID,
		UserID:    user.ID,
		Role:      user.Role,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	})
	if err != nil {
		s.logger.Error("Failed to issue tokens", zap.Error(err))
		return nil, shared.ErrInternal
	}
	return tokens, nil
}
