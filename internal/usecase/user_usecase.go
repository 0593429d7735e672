package usecase

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/prajwalts/interviewdost/internal/model"
	"github.com/prajwalts/interviewdost/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordRequired   = errors.New("password is required")
)

type UserUsecase struct {
	userRepo  *repository.UserRepository
	skillRepo *repository.SkillRepository
}

func NewUserUsecase(userRepo *repository.UserRepository, skillRepo *repository.SkillRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo, skillRepo: skillRepo}
}

func (uc *UserUsecase) CreateUser(name, email, password *string, role string) (*model.User, error) {
	if email != nil && *email != "" {
		if _, err := uc.userRepo.FindUserByEmail(*email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
	}

	user := &model.User{Name: name, Email: email, Role: role}
	if password != nil && *password != "" {
		hash, err := hashPassword(*password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = &hash
	}
	if err := uc.userRepo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUsecase) GetUser(id uint) (*model.User, []model.UserSkill, error) {
	user, err := uc.userRepo.FindUserByID(id)
	if err != nil {
		return nil, nil, err
	}
	skills, err := uc.skillRepo.ListUserSkills(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, skills, nil
}

func (uc *UserUsecase) ListUsers(page, pageSize int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return uc.userRepo.GetUsers(page, pageSize)
}

// Register creates a credentialed user. Passwords are stored as bcrypt
// hashes only.
func (uc *UserUsecase) Register(name, email, password, role string) (*model.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(password) == "" {
		return nil, ErrPasswordRequired
	}
	if role == "" {
		role = "candidate"
	}

	var namePtr *string
	if name != "" {
		namePtr = &name
	}
	return uc.CreateUser(namePtr, &email, &password, role)
}

// Login verifies credentials and hands out an opaque access token. The token
// is not persisted; it identifies the session to the frontend only.
func (uc *UserUsecase) Login(email, password string) (*model.User, string, error) {
	user, err := uc.userRepo.FindUserByEmail(email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if user.PasswordHash == nil || !verifyPassword(password, *user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	return user, uuid.NewString(), nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
