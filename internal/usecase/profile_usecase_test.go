package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/prajwalts/interviewdost/internal/model"
	"github.com/prajwalts/interviewdost/internal/repository"
	"github.com/prajwalts/interviewdost/internal/service"
	"github.com/prajwalts/interviewdost/internal/testhelpers"
	"gorm.io/gorm"
)

type profileFixture struct {
	db     *gorm.DB
	uc     *ProfileUsecase
	gemini *fakeGemini
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()

	db := testhelpers.SetupTestDB(t)
	gemini := newFakeGemini()
	uc := NewProfileUsecase(repository.NewUserRepository(db), repository.NewSkillRepository(db), gemini)
	return &profileFixture{db: db, uc: uc, gemini: gemini}
}

func TestRegisterSkills_CaseInsensitiveIdempotent(t *testing.T) {
	f := newProfileFixture(t)
	user := testhelpers.SeedUser(t, f.db, "Asha", "asha@example.com", "candidate")

	names, err := f.uc.RegisterSkills(user.ID, []string{"Go", "go", "GO", "", "  "}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("expected 3 canonical names, got %v", names)
	}
	for _, name := range names {
		if name != "Go" {
			t.Fatalf("expected canonical name Go, got %q", name)
		}
	}

	var skillCount, linkCount int64
	f.db.Model(&model.Skill{}).Count(&skillCount)
	f.db.Model(&model.UserSkill{}).Count(&linkCount)
	if skillCount != 1 || linkCount != 1 {
		t.Fatalf("expected 1 skill and 1 link, got %d and %d", skillCount, linkCount)
	}
}

func TestRegisterSkills_ProficiencyMismatch(t *testing.T) {
	f := newProfileFixture(t)
	user := testhelpers.SeedUser(t, f.db, "Asha", "asha@example.com", "candidate")

	_, err := f.uc.RegisterSkills(user.ID, []string{"Go", "SQL"}, []*string{strptr("expert")})
	if !errors.Is(err, ErrProficiencyMismatch) {
		t.Fatalf("expected ErrProficiencyMismatch, got %v", err)
	}
}

func TestRegisterSkills_UpdatesProficiencyInPlace(t *testing.T) {
	f := newProfileFixture(t)
	user := testhelpers.SeedUser(t, f.db, "Asha", "asha@example.com", "candidate")
	skillRepo := repository.NewSkillRepository(f.db)

	if _, err := f.uc.RegisterSkills(user.ID, []string{"Go"}, []*string{strptr("beginner")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.uc.RegisterSkills(user.ID, []string{"Go"}, []*string{strptr("expert")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	links, err := skillRepo.ListUserSkills(user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if links[0].Proficiency == nil || *links[0].Proficiency != "expert" {
		t.Fatalf("expected proficiency updated to expert, got %+v", links[0])
	}
}

func TestEnrichProfile(t *testing.T) {
	f := newProfileFixture(t)

	if _, err := f.uc.EnrichProfile(context.Background(), service.ProfileInput{}, " "); !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}

	result, err := f.uc.EnrichProfile(context.Background(), service.ProfileInput{
		Name:       "Asha",
		TargetRole: "Backend Engineer",
		TechStack:  []string{"Go", "PostgreSQL"},
	}, "asha@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ResumeSummary == "" {
		t.Fatalf("expected a resume summary")
	}
	if len(result.Skills) != 2 {
		t.Fatalf("expected 2 skills, got %v", result.Skills)
	}

	user, err := repository.NewUserRepository(f.db).FindUserByEmail("asha@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ResumeSummary == nil || *user.ResumeSummary != result.ResumeSummary {
		t.Fatalf("expected summary stored on user, got %+v", user)
	}

	// Enriching again reuses the same user.
	again, err := f.uc.EnrichProfile(context.Background(), service.ProfileInput{Name: "Asha"}, "asha@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.UserID != result.UserID {
		t.Fatalf("expected same user, got %d and %d", result.UserID, again.UserID)
	}
}

func TestEnrichProfile_EmbeddingFailureTolerated(t *testing.T) {
	f := newProfileFixture(t)
	f.gemini.embeddingErr = true

	result, err := f.uc.EnrichProfile(context.Background(), service.ProfileInput{Name: "Asha"}, "asha@example.com")
	if err != nil {
		t.Fatalf("expected enrichment to succeed without embedding, got %v", err)
	}
	if result.UserID == 0 {
		t.Fatalf("expected a persisted user")
	}

	if _, err := f.uc.SimilarCandidates(result.UserID, 5); !errors.Is(err, ErrNoResumeEmbedding) {
		t.Fatalf("expected ErrNoResumeEmbedding, got %v", err)
	}
}

func TestAttachResume(t *testing.T) {
	f := newProfileFixture(t)
	f.gemini.embeddingErr = true
	user := testhelpers.SeedUser(t, f.db, "Asha", "asha@example.com", "candidate")

	result, err := f.uc.AttachResume(context.Background(), user.ID, "Worked on Go services for five years.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ResumeSummary == "" {
		t.Fatalf("expected a resume summary")
	}

	stored, err := repository.NewUserRepository(f.db).FindUserByID(user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.ResumeText == nil || *stored.ResumeText != "Worked on Go services for five years." {
		t.Fatalf("expected resume text stored, got %+v", stored)
	}
}
