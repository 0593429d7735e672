package model

// Skill names are unique ignoring case; the guard is a functional unique
// index on LOWER(skill_name) created alongside migration.
type Skill struct {
	ID        uint   `gorm:"primaryKey" json:"skill_id"`
	SkillName string `gorm:"type:varchar(100);not null" json:"skill_name"`

	UserSkills []UserSkill `gorm:"foreignKey:SkillID" json:"-"`
}

func (s *Skill) TableName() string {
	return "skills"
}

// UserSkill links a user to a skill. The composite primary key keeps the
// pair unique; re-registration updates proficiency in place.
type UserSkill struct {
	UserID      uint    `gorm:"primaryKey" json:"user_id"`
	SkillID     uint    `gorm:"primaryKey" json:"skill_id"`
	Proficiency *string `gorm:"type:varchar(50)" json:"proficiency"`

	Skill Skill `gorm:"foreignKey:SkillID" json:"-"`
}

func (us *UserSkill) TableName() string {
	return "user_skills"
}
