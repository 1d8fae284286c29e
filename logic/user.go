package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/asaithebest/Nova/dao"
	"github.com/asaithebest/Nova/models"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is returned on duplicate registration.
	ErrUsernameTaken = errors.New("username already taken")
)

// UserLogic handles registration and login. Authentication is optional for
// chat endpoints; it exists so an owner id can be carried across devices.
type UserLogic struct {
	userDAO   *dao.UserDAO
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewUserLogic(userDAO *dao.UserDAO, jwtSecret string, tokenTTL time.Duration) *UserLogic {
	return &UserLogic{
		userDAO:   userDAO,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register creates a user with a bcrypt-hashed password.
func (l *UserLogic) Register(username, password string) (*models.User, error) {
	if _, err := l.userDAO.GetUserByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return l.userDAO.CreateUser(username, string(hash))
}

// Login verifies credentials and returns a signed JWT.
func (l *UserLogic) Login(username, password string) (string, error) {
	user, err := l.userDAO.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.Username,
		"iat": now.Unix(),
		"exp": now.Add(l.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(l.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
