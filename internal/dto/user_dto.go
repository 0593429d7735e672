package dto

type UserCreateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

type UserSkillDTO struct {
	SkillID     uint    `json:"skill_id"`
	SkillName   string  `json:"skill_name"`
	Proficiency *string `json:"proficiency"`
}

type UserDTO struct {
	UserID        uint           `json:"user_id"`
	Name          *string        `json:"name"`
	Email         *string        `json:"email"`
	Role          string         `json:"role"`
	ResumeSummary *string        `json:"resume_summary,omitempty"`
	Skills        []UserSkillDTO `json:"skills,omitempty"`
}

type AddSkillsRequest struct {
	SkillNames    []string  `json:"skill_names"`
	Proficiencies []*string `json:"proficiencies"`
}

type ProfileEnrichRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	TargetRole      string   `json:"target_role"`
	CompaniesWorked []string `json:"companies_worked"`
	TechStack       []string `json:"tech_stack"`
}

type ProfileEnrichResponse struct {
	UserID        uint     `json:"user_id"`
	ResumeSummary string   `json:"resume_summary"`
	Skills        []string `json:"skills"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        UserDTO `json:"user"`
}
