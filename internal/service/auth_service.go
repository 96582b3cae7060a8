package service

import (
	"go-sealindo/internal/apperr"
	"go-sealindo/internal/model"
	"go-sealindo/internal/repository"
	"go-sealindo/pkg/jwt"

	"github.com/google/uuid"
)

// AuthService hanya menutupi boundary sesi: login dan validasi token.
// Manajemen user selebihnya hidup di sistem lain.
type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, apperr.Validation("invalid email or password")
	}
	if !user.IsActive {
		return nil, apperr.Validation("user account is inactive")
	}
	if !user.CheckPassword(password) {
		return nil, apperr.Validation("invalid email or password")
	}

	// Single session: token version baru mematikan sesi lama.
	user.TokenVersion = uuid.New().String()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, user.TokenVersion)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Token: token, User: user}, nil
}
