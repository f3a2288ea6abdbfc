package services

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/techagentng/cleancity/config"
	"github.com/techagentng/cleancity/db"
	apiError "github.com/techagentng/cleancity/errors"
	"github.com/techagentng/cleancity/models"
	"github.com/techagentng/cleancity/services/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService interface
type AuthService interface {
	SignupUser(request *models.SignupRequest) (*models.User, error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	GetUserProfile(userID string) (*models.User, error)
	LogoutUser(accessToken string) error
	RegisterPushToken(userID string, token string) error
}

// authService struct
type authService struct {
	Config   *config.Config
	userRepo db.UserRepository
}

// NewAuthService instantiate an authService
func NewAuthService(userRepo db.UserRepository, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		userRepo: userRepo,
	}
}

func (s *authService) SignupUser(request *models.SignupRequest) (*models.User, error) {
	if request == nil {
		return nil, errors.New("signup request is nil")
	}
	if err := models.ConformInput(request); err != nil {
		return nil, err
	}

	if err := s.userRepo.IsEmailExist(request.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, err
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return nil, err
	}
	if request.Role != models.RoleResident && request.Role != models.RoleWorker {
		return nil, errors.New("role must be resident or worker")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserID:         uuid.New().String(),
		Name:           request.Name,
		Email:          request.Email,
		Role:           request.Role,
		RewardPoints:   0,
		HashedPassword: string(hashed),
	}
	return s.userRepo.CreateUser(user)
}

func (s *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	if err := models.ConformInput(loginRequest); err != nil {
		return nil, apiError.ErrBadRequest
	}

	user, err := s.userRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
		}
		log.Printf("LoginUser error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if err := user.VerifyPassword(loginRequest.Password); err != nil {
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}

	accessToken, err := jwt.GenerateToken(user, s.Config.JWTSecret)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: models.NewUserResponse(user),
		AccessToken:  accessToken,
	}, nil
}

func (s *authService) GetUserProfile(userID string) (*models.User, error) {
	return s.userRepo.FindUserByUserID(userID)
}

func (s *authService) LogoutUser(accessToken string) error {
	return s.userRepo.AddToBlacklist(&models.Blacklist{Token: accessToken})
}

func (s *authService) RegisterPushToken(userID string, token string) error {
	return s.userRepo.UpdateExpoPushToken(userID, token)
}
