package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"unintend-backend/internal/domain"
	"unintend-backend/internal/repository"
)

// seedActivity inserts the demo interactions and applications once every
// account bundle is committed. Each record and the rows it owns form one
// transaction. Records whose accounts or posts cannot be resolved, e.g.
// because the account clashed with an existing one, are skipped with a
// warning.
func (s *Seeder) seedActivity(ctx context.Context, log *logrus.Entry, report *Report) error {
	conflicts := map[string]struct{}{}
	for _, a := range report.Accounts {
		if a.Status == StatusConflict {
			conflicts[a.Username] = struct{}{}
		}
	}
	r := resolver{conflicts: conflicts}

	for _, in := range s.baseline.StudentInteractions {
		err := s.activityTx(ctx, report, func(repos repository.Repositories, b *bundle) error {
			return s.ensureStudentInteraction(ctx, log, repos, r, in, b)
		})
		if err != nil {
			return fmt.Errorf("seed interaction of %s on %q: %w", in.Student, in.Post, err)
		}
	}

	for _, in := range s.baseline.CompanyInteractions {
		err := s.activityTx(ctx, report, func(repos repository.Repositories, b *bundle) error {
			return s.ensureCompanyInteraction(ctx, log, repos, r, in, b)
		})
		if err != nil {
			return fmt.Errorf("seed interaction of %s on %s: %w", in.Company, in.Student, err)
		}
	}

	for _, app := range s.baseline.Applications {
		err := s.activityTx(ctx, report, func(repos repository.Repositories, b *bundle) error {
			return s.ensureApplication(ctx, log, repos, r, app, b)
		})
		if err != nil {
			return fmt.Errorf("seed application of %s to %q: %w", app.Student, app.Post, err)
		}
	}
	return nil
}

func (s *Seeder) activityTx(ctx context.Context, report *Report, fn func(repository.Repositories, *bundle) error) error {
	var b *bundle
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		b = newBundle()
		return fn(repos, b)
	})
	if err != nil {
		return err
	}
	report.merge(b)
	return nil
}

// resolver finds the rows an activity record points at.
type resolver struct {
	conflicts map[string]struct{}
}

// user returns nil when username is absent, has another role or clashed
// with an existing account in this run.
func (r resolver) user(ctx context.Context, users repository.UserRepository, username string, role domain.Role) (*domain.User, error) {
	if _, ok := r.conflicts[username]; ok {
		return nil, nil
	}
	u, err := users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", username, err)
	}
	if u.Role != role {
		return nil, nil
	}
	return u, nil
}

// internshipPost resolves a student and a company post by owner and title.
func (r resolver) internshipPost(ctx context.Context, repos repository.Repositories, student, company, title string) (*domain.User, *domain.InternshipPost, error) {
	st, err := r.user(ctx, repos.Users, student, domain.RoleStudent)
	if err != nil || st == nil {
		return nil, nil, err
	}
	co, err := r.user(ctx, repos.Users, company, domain.RoleCompany)
	if err != nil || co == nil {
		return nil, nil, err
	}
	post, err := repos.Posts.FindInternshipPost(ctx, co.ID, title)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("lookup internship post: %w", err)
	}
	return st, post, nil
}

func (s *Seeder) stamps(saved bool, decision domain.Decision) (savedAt, decidedAt *time.Time) {
	now := s.now().UTC()
	if saved {
		savedAt = &now
	}
	if decision != domain.DecisionNone {
		decidedAt = &now
	}
	return savedAt, decidedAt
}

func (s *Seeder) ensureStudentInteraction(ctx context.Context, log *logrus.Entry, repos repository.Repositories, r resolver, in StudentInteraction, b *bundle) error {
	student, post, err := r.internshipPost(ctx, repos, in.Student, in.Company, in.Post)
	if err != nil {
		return err
	}
	if post == nil {
		log.WithFields(logrus.Fields{"student": in.Student, "company": in.Company, "post": in.Post}).
			Warn("interaction references a missing account or post, skipping")
		return nil
	}

	_, err = repos.Interactions.FindStudentPostInteraction(ctx, student.ID, post.ID)
	switch {
	case err == nil:
		b.skipped(TableStudentPostInteractions)
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("lookup student post interaction: %w", err)
	}

	decision := decisionOrNone(in.Decision)
	savedAt, decidedAt := s.stamps(in.Saved, decision)
	if _, err := repos.Interactions.CreateStudentPostInteraction(ctx, &domain.StudentPostInteraction{
		StudentUserID: student.ID,
		PostID:        post.ID,
		Saved:         in.Saved,
		Decision:      decision,
		SavedAt:       savedAt,
		DecidedAt:     decidedAt,
	}); err != nil {
		return err
	}
	b.inserted(TableStudentPostInteractions)
	return nil
}

func (s *Seeder) ensureCompanyInteraction(ctx context.Context, log *logrus.Entry, repos repository.Repositories, r resolver, in CompanyInteraction, b *bundle) error {
	skip := func() error {
		log.WithFields(logrus.Fields{"company": in.Company, "student": in.Student}).
			Warn("interaction references a missing account or post, skipping")
		return nil
	}

	company, err := r.user(ctx, repos.Users, in.Company, domain.RoleCompany)
	if err != nil {
		return err
	}
	student, err := r.user(ctx, repos.Users, in.Student, domain.RoleStudent)
	if err != nil {
		return err
	}
	if company == nil || student == nil {
		return skip()
	}
	card, err := repos.Posts.FindStudentProfilePost(ctx, student.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return skip()
	}
	if err != nil {
		return fmt.Errorf("lookup student profile post: %w", err)
	}

	_, err = repos.Interactions.FindCompanyStudentPostInteraction(ctx, company.ID, card.ID)
	switch {
	case err == nil:
		b.skipped(TableCompanyStudentPostInteractions)
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("lookup company student post interaction: %w", err)
	}

	decision := decisionOrNone(in.Decision)
	savedAt, decidedAt := s.stamps(in.Saved, decision)
	if _, err := repos.Interactions.CreateCompanyStudentPostInteraction(ctx, &domain.CompanyStudentPostInteraction{
		CompanyUserID: company.ID,
		StudentPostID: card.ID,
		Saved:         in.Saved,
		Decision:      decision,
		SavedAt:       savedAt,
		DecidedAt:     decidedAt,
	}); err != nil {
		return err
	}
	b.inserted(TableCompanyStudentPostInteractions)
	return nil
}

// ensureApplication makes sure the application, its conversation, the
// system line for the stored status and the scripted messages exist. An
// existing application keeps its status; the system line follows it.
func (s *Seeder) ensureApplication(ctx context.Context, log *logrus.Entry, repos repository.Repositories, r resolver, a Application, b *bundle) error {
	student, post, err := r.internshipPost(ctx, repos, a.Student, a.Company, a.Post)
	if err != nil {
		return err
	}
	if post == nil {
		log.WithFields(logrus.Fields{"student": a.Student, "company": a.Company, "post": a.Post}).
			Warn("application references a missing account or post, skipping")
		return nil
	}

	app, err := repos.Applications.FindApplication(ctx, post.ID, student.ID)
	switch {
	case err == nil:
		b.skipped(TableApplications)
	case errors.Is(err, repository.ErrNotFound):
		now := s.now().UTC()
		app = &domain.Application{
			PostID:        post.ID,
			StudentUserID: student.ID,
			CompanyUserID: post.CompanyUserID,
			Status:        a.Status,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if _, err := repos.Applications.CreateApplication(ctx, app); err != nil {
			return err
		}
		b.inserted(TableApplications)
	default:
		return fmt.Errorf("lookup application: %w", err)
	}

	conv, err := repos.Applications.FindConversation(ctx, app.ID)
	switch {
	case err == nil:
		b.skipped(TableConversations)
	case errors.Is(err, repository.ErrNotFound):
		conv = &domain.Conversation{ApplicationID: app.ID, CreatedAt: s.now().UTC()}
		if _, err := repos.Applications.CreateConversation(ctx, conv); err != nil {
			return err
		}
		b.inserted(TableConversations)
	default:
		return fmt.Errorf("lookup conversation: %w", err)
	}

	if err := s.ensureMessage(ctx, repos.Applications, conv.ID, domain.MessageSystem, nil, app.Status.SystemText(), b); err != nil {
		return err
	}
	for _, m := range a.Messages {
		sender := app.StudentUserID
		if m.From == FromCompany {
			sender = app.CompanyUserID
		}
		if err := s.ensureMessage(ctx, repos.Applications, conv.ID, domain.MessageUser, &sender, m.Text, b); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) ensureMessage(ctx context.Context, apps repository.ApplicationRepository, conversationID int64, kind domain.MessageType, sender *int64, text string, b *bundle) error {
	_, err := apps.FindMessage(ctx, conversationID, kind, sender, text)
	switch {
	case err == nil:
		b.skipped(TableMessages)
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("lookup message: %w", err)
	}

	if _, err := apps.CreateMessage(ctx, &domain.Message{
		ConversationID: conversationID,
		Type:           kind,
		SenderUserID:   sender,
		Text:           text,
		CreatedAt:      s.now().UTC(),
	}); err != nil {
		return err
	}
	b.inserted(TableMessages)
	return nil
}
