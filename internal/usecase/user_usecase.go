package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
	"github.com/josamcode/last-backend-ecommerce/internal/mailer"
)

var _ domain.UserUseCase = (*userUseCase)(nil)

type userUseCase struct {
	userRepo  domain.UserRepository
	mail      mailer.EmailSender
	jwtSecret string
	baseURL   string
	log       *logrus.Logger
}

func NewUserUseCase(repo domain.UserRepository, mail mailer.EmailSender, jwtSecret, baseURL string, logger *logrus.Logger) domain.UserUseCase {
	return &userUseCase{
		userRepo:  repo,
		mail:      mail,
		jwtSecret: jwtSecret,
		baseURL:   baseURL,
		log:       logger,
	}
}

func (uc *userUseCase) Register(username, phone, email, password string, address *domain.Address) (*domain.User, error) {
	username = strings.TrimSpace(username)
	phone = strings.TrimSpace(phone)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", domain.ErrValidation)
	}
	if phone == "" {
		return nil, fmt.Errorf("%w: phone cannot be empty", domain.ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if !isValidEmail(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	}
	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Failed to hash password for %s: %v", phone, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	newUser := &domain.User{
		Username:          username,
		Phone:             phone,
		Email:             email,
		PasswordHash:      string(hashedPassword),
		Role:              domain.RoleUser,
		VerificationToken: uuid.NewString(),
	}
	if address != nil {
		newUser.Address = *address
	}

	created, err := uc.userRepo.Create(newUser)
	if err != nil {
		uc.log.Warnf("Registration failed for phone %s: %v", phone, err)
		return nil, err
	}
	uc.log.Infof("User registered successfully. ID: %d", created.ID)

	// Verification email is best effort; registration already succeeded.
	go func() {
		verificationURL := fmt.Sprintf("%s/api/auth/verify-email?token=%s", uc.baseURL, created.VerificationToken)
		body, err := mailer.VerificationHTML(created.Username, verificationURL)
		if err != nil {
			uc.log.Warnf("Verification email render failed for user %d: %v", created.ID, err)
			return
		}
		if err := uc.mail.Send(created.Email, "Verify Your Email Address", body); err != nil {
			uc.log.Warnf("Verification email to %s failed: %v", created.Email, err)
		}
	}()

	return created, nil
}

func (uc *userUseCase) VerifyEmail(token string) (*domain.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: verification token is required", domain.ErrValidation)
	}

	user, err := uc.userRepo.GetByVerificationToken(token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: invalid verification token", domain.ErrValidation)
		}
		return nil, err
	}

	user.IsVerified = true
	user.VerificationToken = ""
	updated, err := uc.userRepo.Update(user)
	if err != nil {
		return nil, err
	}

	uc.log.Infof("User %d verified their email", updated.ID)
	return updated, nil
}

// Login accepts a phone number or an email address as identifier. Email login
// requires a verified address.
func (uc *userUseCase) Login(identifier, password string) (*domain.AuthResponse, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("%w: identifier and password are required", domain.ErrValidation)
	}

	byEmail := false
	user, err := uc.userRepo.GetByPhone(identifier)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		user, err = uc.userRepo.GetByEmail(strings.ToLower(identifier))
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				uc.log.Warnf("Login failed: no user for identifier %s", identifier)
				return nil, domain.ErrUserNotFound
			}
			return nil, err
		}
		byEmail = true
	}

	if byEmail && !user.IsVerified {
		uc.log.Warnf("Login rejected for user %d: email not verified", user.ID)
		return nil, fmt.Errorf("%w: please verify your email address before logging in with email", domain.ErrEmailNotVerified)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Login failed: wrong password for user %d", user.ID)
			return nil, fmt.Errorf("%w: invalid password", domain.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("internal error during authentication: %w", err)
	}

	token, err := uc.issueToken(user)
	if err != nil {
		uc.log.Errorf("Failed to sign token for user %d: %v", user.ID, err)
		return nil, fmt.Errorf("could not issue token: %w", err)
	}

	uc.log.Infof("User %d logged in successfully", user.ID)
	return &domain.AuthResponse{Token: token, User: user}, nil
}

func (uc *userUseCase) issueToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"id":   user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(365 * 24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(uc.jwtSecret))
}

func (uc *userUseCase) GetProfile(id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid user ID", domain.ErrValidation)
	}
	return uc.userRepo.GetByID(id)
}

func (uc *userUseCase) UpdateProfile(id int64, upd domain.UserUpdate) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if upd.Username != nil && strings.TrimSpace(*upd.Username) != "" {
		user.Username = strings.TrimSpace(*upd.Username)
	}
	if upd.Phone != nil && strings.TrimSpace(*upd.Phone) != "" {
		user.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Address != nil {
		user.Address = *upd.Address
	}
	if upd.Password != nil {
		if err := validatePassword(*upd.Password); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("internal error processing password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	updated, err := uc.userRepo.Update(user)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("User %d updated their profile", id)
	return updated, nil
}

func (uc *userUseCase) DeleteUser(actor domain.Actor, targetID int64) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}
	if targetID == actor.ID {
		return fmt.Errorf("%w: you cannot delete your own account", domain.ErrValidation)
	}

	target, err := uc.userRepo.GetByID(targetID)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleAdmin {
		return fmt.Errorf("%w: you cannot delete admin users", domain.ErrForbidden)
	}

	if err := uc.userRepo.Delete(targetID); err != nil {
		return err
	}
	uc.log.Infof("User %d deleted by admin %d", targetID, actor.ID)
	return nil
}

func (uc *userUseCase) ListUsers(actor domain.Actor) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}
	return uc.userRepo.List()
}

func (uc *userUseCase) GetUser(actor domain.Actor, id int64) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}
	return uc.userRepo.GetByID(id)
}

func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	domainParts := strings.Split(parts[1], ".")
	return len(domainParts) >= 2 && domainParts[0] != "" && domainParts[len(domainParts)-1] != ""
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasUpper {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return errors.New("password must contain at least one number")
	}
	return nil
}
