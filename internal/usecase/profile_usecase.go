package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/prajwalts/interviewdost/internal/model"
	"github.com/prajwalts/interviewdost/internal/repository"
	"github.com/prajwalts/interviewdost/internal/service"
)

var (
	ErrEmailRequired       = errors.New("email is required")
	ErrProficiencyMismatch = errors.New("proficiencies length must match skill_names length")
	ErrNoResumeEmbedding   = errors.New("user has no resume embedding yet")
)

type ProfileUsecase struct {
	userRepo  *repository.UserRepository
	skillRepo *repository.SkillRepository
	gemini    service.GeminiServiceInterface
}

func NewProfileUsecase(userRepo *repository.UserRepository, skillRepo *repository.SkillRepository, gemini service.GeminiServiceInterface) *ProfileUsecase {
	return &ProfileUsecase{userRepo: userRepo, skillRepo: skillRepo, gemini: gemini}
}

// RegisterSkills upserts skills and their links for a user and returns the
// canonical stored names. Names are trimmed, empties dropped, and matched
// case-insensitively, so repeated registration of "Go" and "go" yields one
// skill row and one link. Proficiencies may be nil; when given it must be
// length-matched to names.
func (uc *ProfileUsecase) RegisterSkills(userID uint, names []string, proficiencies []*string) ([]string, error) {
	if proficiencies != nil && len(proficiencies) != len(names) {
		return nil, ErrProficiencyMismatch
	}

	canonical := make([]string, 0, len(names))
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}

		skill, err := uc.skillRepo.FindSkillByName(name)
		if err != nil {
			return nil, err
		}
		if skill == nil {
			skill = &model.Skill{SkillName: name}
			if err := uc.skillRepo.CreateSkill(skill); err != nil {
				// A concurrent registration may have won the unique index;
				// re-read before giving up.
				skill, err = uc.retryFindSkill(name, err)
				if err != nil {
					return nil, err
				}
			}
		}

		var proficiency *string
		if proficiencies != nil {
			proficiency = proficiencies[i]
		}

		link, err := uc.skillRepo.FindUserSkill(userID, skill.ID)
		if err != nil {
			return nil, err
		}
		if link == nil {
			link = &model.UserSkill{UserID: userID, SkillID: skill.ID, Proficiency: proficiency}
			if err := uc.skillRepo.CreateUserSkill(link); err != nil {
				return nil, err
			}
		} else if proficiencies != nil {
			if err := uc.skillRepo.UpdateProficiency(userID, skill.ID, proficiency); err != nil {
				return nil, err
			}
		}

		canonical = append(canonical, skill.SkillName)
	}
	return canonical, nil
}

func (uc *ProfileUsecase) retryFindSkill(name string, createErr error) (*model.Skill, error) {
	skill, err := uc.skillRepo.FindSkillByName(name)
	if err != nil {
		return nil, err
	}
	if skill == nil {
		return nil, fmt.Errorf("create skill %q: %w", name, createErr)
	}
	return skill, nil
}

type EnrichResult struct {
	UserID        uint
	ResumeSummary string
	Skills        []string
}

// EnrichProfile finds or creates the user by email, generates a resume
// summary plus normalized skills, and stores both. The summary embedding is
// computed best-effort; similarity search simply skips users without one.
func (uc *ProfileUsecase) EnrichProfile(ctx context.Context, input service.ProfileInput, email string) (*EnrichResult, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmailRequired
	}

	user, err := uc.userRepo.FindUserByEmail(email)
	if errors.Is(err, repository.ErrUserNotFound) {
		name := input.Name
		user = &model.User{Email: &email, Role: "candidate"}
		if name != "" {
			user.Name = &name
		}
		if createErr := uc.userRepo.CreateUser(user); createErr != nil {
			return nil, createErr
		}
	} else if err != nil {
		return nil, err
	}

	if user.ResumeText != nil && input.ResumeText == "" {
		input.ResumeText = *user.ResumeText
	}

	summary := uc.gemini.SummarizeProfile(ctx, input)
	user.ResumeSummary = &summary.ResumeSummary
	if err := uc.userRepo.UpdateUser(user); err != nil {
		return nil, err
	}

	skills, err := uc.RegisterSkills(user.ID, summary.Skills, nil)
	if err != nil {
		return nil, err
	}

	uc.embedSummary(ctx, user.ID, summary.ResumeSummary)

	return &EnrichResult{
		UserID:        user.ID,
		ResumeSummary: summary.ResumeSummary,
		Skills:        skills,
	}, nil
}

// AttachResume stores extracted resume text on the user and refreshes the
// generated summary from it.
func (uc *ProfileUsecase) AttachResume(ctx context.Context, userID uint, resumeText string) (*EnrichResult, error) {
	user, err := uc.userRepo.FindUserByID(userID)
	if err != nil {
		return nil, err
	}

	user.ResumeText = &resumeText
	summary := uc.gemini.SummarizeProfile(ctx, service.ProfileInput{
		Name:       derefString(user.Name),
		ResumeText: resumeText,
	})
	user.ResumeSummary = &summary.ResumeSummary
	if err := uc.userRepo.UpdateUser(user); err != nil {
		return nil, err
	}

	skills, err := uc.RegisterSkills(user.ID, summary.Skills, nil)
	if err != nil {
		return nil, err
	}

	uc.embedSummary(ctx, user.ID, summary.ResumeSummary)

	return &EnrichResult{
		UserID:        user.ID,
		ResumeSummary: summary.ResumeSummary,
		Skills:        skills,
	}, nil
}

func (uc *ProfileUsecase) embedSummary(ctx context.Context, userID uint, summary string) {
	embedding, err := uc.gemini.GenerateEmbedding(ctx, summary)
	if err != nil {
		log.Printf("resume embedding skipped for user %d: %v", userID, err)
		return
	}
	if err := uc.userRepo.UpdateEmbedding(userID, pgvector.NewVector(embedding)); err != nil {
		log.Printf("resume embedding not stored for user %d: %v", userID, err)
	}
}

// SimilarCandidates returns the candidates whose resume summaries embed
// closest to the given user's.
func (uc *ProfileUsecase) SimilarCandidates(userID uint, topK int) ([]model.User, error) {
	user, err := uc.userRepo.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	if len(user.Embedding.Slice()) == 0 {
		return nil, ErrNoResumeEmbedding
	}
	if topK <= 0 {
		topK = 5
	}
	return uc.userRepo.SearchSimilar(user.Embedding, user.ID, topK)
}
