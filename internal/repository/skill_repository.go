package repository

import (
	"errors"

	"github.com/prajwalts/interviewdost/internal/model"
	"gorm.io/gorm"
)

type SkillRepository struct {
	db *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{db}
}

// FindSkillByName looks a skill up under case-insensitive comparison, so
// "Go" and "go" resolve to the same row.
func (r *SkillRepository) FindSkillByName(name string) (*model.Skill, error) {
	var skill model.Skill
	err := r.db.First(&skill, "LOWER(skill_name) = LOWER(?)", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *SkillRepository) CreateSkill(skill *model.Skill) error {
	return r.db.Create(skill).Error
}

func (r *SkillRepository) FindUserSkill(userID, skillID uint) (*model.UserSkill, error) {
	var link model.UserSkill
	err := r.db.First(&link, "user_id = ? AND skill_id = ?", userID, skillID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *SkillRepository) CreateUserSkill(link *model.UserSkill) error {
	return r.db.Create(link).Error
}

func (r *SkillRepository) UpdateProficiency(userID, skillID uint, proficiency *string) error {
	return r.db.Model(&model.UserSkill{}).
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		Update("proficiency", proficiency).Error
}

func (r *SkillRepository) ListUserSkills(userID uint) ([]model.UserSkill, error) {
	var links []model.UserSkill
	err := r.db.Preload("Skill").Find(&links, "user_id = ?", userID).Error
	return links, err
}
