package repository

import (
	"errors"

	"github.com/pgvector/pgvector-go"
	"github.com/prajwalts/interviewdost/internal/model"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) CreateUser(user *model.User) error {
	return r.db.Create(user).Error
}

// UpdateUser persists everything except the embedding column; a zero-value
// vector written by Save would corrupt the row for users that have no
// embedding yet. Embeddings go through UpdateEmbedding only.
func (r *UserRepository) UpdateUser(user *model.User) error {
	return r.db.Omit("embedding").Save(user).Error
}

func (r *UserRepository) FindUserByID(id uint) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return &user, err
}

func (r *UserRepository) FindUserByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return &user, err
}

func (r *UserRepository) GetUsers(page, pageSize int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	if err := r.db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) UpdateEmbedding(userID uint, embedding pgvector.Vector) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("embedding", embedding).Error
}

// SearchSimilar returns the users whose resume-summary embeddings sit closest
// to the given vector. Postgres/pgvector only.
func (r *UserRepository) SearchSimilar(embedding pgvector.Vector, excludeID uint, topK int) ([]model.User, error) {
	var users []model.User

	err := r.db.Raw(`
        SELECT *, embedding <-> ? AS distance
        FROM users
        WHERE embedding IS NOT NULL AND id <> ?
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, excludeID, embedding, topK).Scan(&users).Error

	return users, err
}
