// Package seed brings a freshly migrated store to a known-good baseline:
// demo accounts, their profiles and the posts the feeds need. Every row is
// matched on its natural key first and only inserted when absent, so the
// routine can be run any number of times.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"unintend-backend/internal/departments"
	"unintend-backend/internal/domain"
	"unintend-backend/internal/repository"
)

// ImageLocator finds an already uploaded image by convention.
type ImageLocator interface {
	Find(ctx context.Context, subdir, stem string) (string, error)
}

// Seeder inserts a Baseline into a store.
type Seeder struct {
	store        repository.Store
	baseline     Baseline
	logger       *logrus.Logger
	locator      ImageLocator
	passwordCost int
	now          func() time.Time
}

// Option customises a Seeder.
type Option func(*Seeder)

func WithLogger(logger *logrus.Logger) Option {
	return func(s *Seeder) { s.logger = logger }
}

// WithImageLocator attaches profile pictures found by locator to new accounts.
func WithImageLocator(locator ImageLocator) Option {
	return func(s *Seeder) { s.locator = locator }
}

// WithPasswordCost sets the bcrypt cost used for new accounts.
func WithPasswordCost(cost int) Option {
	return func(s *Seeder) { s.passwordCost = cost }
}

func WithClock(now func() time.Time) Option {
	return func(s *Seeder) { s.now = now }
}

func New(store repository.Store, baseline Baseline, opts ...Option) *Seeder {
	s := &Seeder{
		store:        store,
		baseline:     baseline,
		passwordCost: bcrypt.DefaultCost,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logrus.New()
	}
	return s
}

// Run inserts every missing baseline row. Each account and the rows it owns
// are written in one transaction; a storage failure rolls back that account,
// stops the run and leaves earlier accounts committed. Rows that already
// exist are skipped, never updated.
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	log := s.logger.WithField("run_id", runID)
	report := newReport(runID)

	if err := s.baseline.Validate(); err != nil {
		return report, err
	}
	if err := s.store.VerifySchema(ctx); err != nil {
		return report, fmt.Errorf("verify schema: %w", err)
	}

	log.Infof("seeding %d companies and %d students", len(s.baseline.Companies), len(s.baseline.Students))

	for _, c := range s.baseline.Companies {
		b, err := s.seedAccount(ctx, log, c.Account, domain.RoleCompany, func(ctx context.Context, repos repository.Repositories, user *domain.User, b *bundle) error {
			return s.ensureCompanyRows(ctx, log, repos, user, c, b)
		})
		if err != nil {
			return report, fmt.Errorf("seed company %s: %w", c.Username, err)
		}
		report.merge(b)
	}

	for _, st := range s.baseline.Students {
		b, err := s.seedAccount(ctx, log, st.Account, domain.RoleStudent, func(ctx context.Context, repos repository.Repositories, user *domain.User, b *bundle) error {
			return s.ensureStudentRows(ctx, log, repos, user, st, b)
		})
		if err != nil {
			return report, fmt.Errorf("seed student %s: %w", st.Username, err)
		}
		report.merge(b)
	}

	if err := s.seedActivity(ctx, log, report); err != nil {
		return report, err
	}

	fields := logrus.Fields{
		"inserted": report.Inserted(),
		"skipped":  report.Skipped(),
	}
	if total, err := s.store.Repositories().Users.Count(ctx); err == nil {
		fields["accounts_total"] = total
	}
	log.WithFields(fields).Info("seed finished")
	return report, nil
}

type ownedRows func(ctx context.Context, repos repository.Repositories, user *domain.User, b *bundle) error

func (s *Seeder) seedAccount(ctx context.Context, log *logrus.Entry, a Account, role domain.Role, owned ownedRows) (*bundle, error) {
	password := s.baseline.PasswordFor(a)
	picture := s.profileImage(ctx, log, a)

	var b *bundle
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		// Fresh per attempt so a rolled back transaction leaves no counts behind.
		b = newBundle()
		b.account = AccountResult{Username: a.Username, Role: role, Password: password}

		user, err := s.ensureUser(ctx, log, repos.Users, a, role, password, picture, b)
		if err != nil {
			return err
		}
		if b.account.Status == StatusConflict {
			return nil
		}
		return owned(ctx, repos, user, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Seeder) ensureUser(ctx context.Context, log *logrus.Entry, users repository.UserRepository, a Account, role domain.Role, password, picture string, b *bundle) (*domain.User, error) {
	existing, err := users.FindByUsernameOrEmail(ctx, a.Username, a.Email)
	switch {
	case err == nil:
		b.skipped(TableUsers)
		if existing.Username != a.Username || existing.Role != role {
			b.account.Status = StatusConflict
			log.WithFields(logrus.Fields{
				"username":          a.Username,
				"existing_username": existing.Username,
				"existing_role":     existing.Role,
			}).Warn("baseline account clashes with an existing account, leaving it alone")
			return existing, nil
		}
		b.account.Status = StatusExisting
		b.account.PasswordMatches = bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)) == nil
		return existing, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:        a.Username,
		Email:           a.Email,
		PasswordHash:    string(hash),
		Name:            a.Name,
		Surname:         a.Surname,
		ProfileImageURL: picture,
		Role:            role,
		CreatedAt:       s.now().UTC(),
	}
	if _, err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	b.inserted(TableUsers)
	b.account.Status = StatusCreated
	b.account.PasswordMatches = true
	log.WithField("username", a.Username).Debug("account created")
	return user, nil
}

func (s *Seeder) ensureCompanyRows(ctx context.Context, log *logrus.Entry, repos repository.Repositories, user *domain.User, c Company, b *bundle) error {
	_, err := repos.Profiles.GetCompanyProfile(ctx, user.ID)
	switch {
	case err == nil:
		b.skipped(TableCompanyProfiles)
	case errors.Is(err, repository.ErrNotFound):
		if _, err := repos.Profiles.CreateCompanyProfile(ctx, &domain.CompanyProfile{
			UserID:      user.ID,
			CompanyName: c.CompanyName,
			Industry:    c.Industry,
			Description: c.Description,
			Website:     c.Website,
			Bio:         c.Bio,
		}); err != nil {
			return err
		}
		b.inserted(TableCompanyProfiles)
	default:
		return fmt.Errorf("lookup company profile: %w", err)
	}

	for _, p := range c.Posts {
		_, err := repos.Posts.FindInternshipPost(ctx, user.ID, p.Title)
		switch {
		case err == nil:
			b.skipped(TableInternshipPosts)
			continue
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("lookup internship post: %w", err)
		}

		id, err := repos.Posts.CreateInternshipPost(ctx, &domain.InternshipPost{
			CompanyUserID: user.ID,
			Title:         p.Title,
			Description:   p.Description,
			Location:      p.Location,
			Department:    postDepartment(p),
			IsActive:      true,
			CreatedAt:     s.now().UTC(),
		})
		if err != nil {
			return err
		}
		b.inserted(TableInternshipPosts)
		if err := s.postImage(ctx, log, "internship-posts", id, repos.Posts.SetInternshipPostImage); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) ensureStudentRows(ctx context.Context, log *logrus.Entry, repos repository.Repositories, user *domain.User, st Student, b *bundle) error {
	profile, err := repos.Profiles.GetStudentProfile(ctx, user.ID)
	switch {
	case err == nil:
		b.skipped(TableStudentProfiles)
	case errors.Is(err, repository.ErrNotFound):
		profile = &domain.StudentProfile{
			UserID:     user.ID,
			University: st.University,
			Department: st.Department,
			Bio:        st.Bio,
			Skills:     st.Skills,
			Studies:    st.Studies,
			Experience: st.Experience,
		}
		if _, err := repos.Profiles.CreateStudentProfile(ctx, profile); err != nil {
			return err
		}
		b.inserted(TableStudentProfiles)
	default:
		return fmt.Errorf("lookup student profile: %w", err)
	}

	_, err = repos.Posts.FindStudentProfilePost(ctx, user.ID)
	switch {
	case err == nil:
		b.skipped(TableStudentProfilePosts)
	case errors.Is(err, repository.ErrNotFound):
		now := s.now().UTC()
		// The card mirrors the stored profile, which may predate the baseline.
		id, err := repos.Posts.CreateStudentProfilePost(ctx, &domain.StudentProfilePost{
			StudentUserID: user.ID,
			Title:         st.PostTitle,
			Description: profilePostDescription(
				profile.Bio, profile.Skills, profile.Studies, profile.Experience, profile.University, profile.Department,
			),
			Location:  st.Location,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		b.inserted(TableStudentProfilePosts)
		if err := s.postImage(ctx, log, "student-profile-posts", id, repos.Posts.SetStudentProfilePostImage); err != nil {
			return err
		}
	default:
		return fmt.Errorf("lookup student profile post: %w", err)
	}

	for _, p := range st.ExperiencePosts {
		_, err := repos.Posts.FindExperiencePost(ctx, user.ID, p.Title)
		switch {
		case err == nil:
			b.skipped(TableStudentExperiencePosts)
			continue
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("lookup experience post: %w", err)
		}

		if _, err := repos.Posts.CreateExperiencePost(ctx, &domain.StudentExperiencePost{
			StudentUserID: user.ID,
			Title:         p.Title,
			Description:   p.Description,
			Category:      p.Category,
			IsActive:      true,
			CreatedAt:     s.now().UTC(),
		}); err != nil {
			return err
		}
		b.inserted(TableStudentExperiencePosts)
	}
	return nil
}

// profileImage resolves the picture before the transaction starts so a slow
// object store does not hold the database lock. Lookup failures only cost the
// picture.
func (s *Seeder) profileImage(ctx context.Context, log *logrus.Entry, a Account) string {
	if s.locator == nil || a.SkipProfileImage {
		return ""
	}
	url, err := s.locator.Find(ctx, "profiles", a.Username)
	if err != nil {
		log.WithError(err).WithField("username", a.Username).Warn("profile image lookup failed")
		return ""
	}
	return url
}

// postImage attaches the picture named after a post created in the current
// transaction. Post pictures are keyed by row id, so unlike profile pictures
// they can only be looked up after the insert.
func (s *Seeder) postImage(ctx context.Context, log *logrus.Entry, subdir string, id int64, set func(context.Context, int64, string) error) error {
	if s.locator == nil {
		return nil
	}
	url, err := s.locator.Find(ctx, subdir, strconv.FormatInt(id, 10))
	if err != nil {
		log.WithError(err).WithFields(logrus.Fields{"subdir": subdir, "post_id": id}).Warn("post image lookup failed")
		return nil
	}
	if url == "" {
		return nil
	}
	return set(ctx, id, url)
}

func postDepartment(p InternshipPost) string {
	if d := departments.Normalize(p.Department); d != "" {
		return d
	}
	if g, ok := departments.GuessFromText(p.Title, p.Description); ok {
		return g.Department
	}
	return ""
}
