package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unintend-backend/internal/domain"
	"unintend-backend/internal/repository"
)

var activityTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type activityFixture struct {
	student, company int64
	post, card       int64
}

func seedActivityFixture(t *testing.T, repos repository.Repositories) activityFixture {
	t.Helper()
	ctx := context.Background()
	var f activityFixture
	var err error

	f.company, err = repos.Users.Create(ctx, &domain.User{
		Username: "acme_hr", Email: "hr@acme.com", PasswordHash: "h", Role: domain.RoleCompany, CreatedAt: activityTime,
	})
	require.NoError(t, err)
	f.student, err = repos.Users.Create(ctx, &domain.User{
		Username: "eleni", Email: "eleni@student.com", PasswordHash: "h", Role: domain.RoleStudent, CreatedAt: activityTime,
	})
	require.NoError(t, err)
	f.post, err = repos.Posts.CreateInternshipPost(ctx, &domain.InternshipPost{
		CompanyUserID: f.company, Title: "Flutter Intern", IsActive: true, CreatedAt: activityTime,
	})
	require.NoError(t, err)
	f.card, err = repos.Posts.CreateStudentProfilePost(ctx, &domain.StudentProfilePost{
		StudentUserID: f.student, Title: "Flutter & Backend Intern", IsActive: true, CreatedAt: activityTime, UpdatedAt: activityTime,
	})
	require.NoError(t, err)
	return f
}

func TestInteractionRepository_OnePerPair(t *testing.T) {
	s := migratedStore(t)
	ctx := context.Background()
	repos := s.Repositories()
	f := seedActivityFixture(t, repos)

	_, err := repos.Interactions.FindStudentPostInteraction(ctx, f.student, f.post)
	require.ErrorIs(t, err, repository.ErrNotFound)

	at := activityTime
	_, err = repos.Interactions.CreateStudentPostInteraction(ctx, &domain.StudentPostInteraction{
		StudentUserID: f.student, PostID: f.post, Saved: true, Decision: domain.DecisionNone, SavedAt: &at,
	})
	require.NoError(t, err)

	got, err := repos.Interactions.FindStudentPostInteraction(ctx, f.student, f.post)
	require.NoError(t, err)
	assert.True(t, got.Saved)
	require.NotNil(t, got.SavedAt)
	assert.True(t, at.Equal(*got.SavedAt))
	assert.Nil(t, got.DecidedAt)

	_, err = repos.Interactions.CreateStudentPostInteraction(ctx, &domain.StudentPostInteraction{
		StudentUserID: f.student, PostID: f.post, Decision: domain.DecisionLike,
	})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	_, err = repos.Interactions.CreateCompanyStudentPostInteraction(ctx, &domain.CompanyStudentPostInteraction{
		CompanyUserID: f.company, StudentPostID: f.card, Decision: domain.DecisionPass, DecidedAt: &at,
	})
	require.NoError(t, err)
	_, err = repos.Interactions.CreateCompanyStudentPostInteraction(ctx, &domain.CompanyStudentPostInteraction{
		CompanyUserID: f.company, StudentPostID: f.card, Decision: domain.DecisionNone,
	})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	company, err := repos.Interactions.FindCompanyStudentPostInteraction(ctx, f.company, f.card)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionPass, company.Decision)
}

func TestApplicationRepository_ConversationAndMessages(t *testing.T) {
	s := migratedStore(t)
	ctx := context.Background()
	repos := s.Repositories()
	f := seedActivityFixture(t, repos)
	apps := repos.Applications

	appID, err := apps.CreateApplication(ctx, &domain.Application{
		PostID: f.post, StudentUserID: f.student, CompanyUserID: f.company,
		Status: domain.ApplicationPending, CreatedAt: activityTime, UpdatedAt: activityTime,
	})
	require.NoError(t, err)
	_, err = apps.CreateApplication(ctx, &domain.Application{
		PostID: f.post, StudentUserID: f.student, CompanyUserID: f.company,
		Status: domain.ApplicationAccepted, CreatedAt: activityTime, UpdatedAt: activityTime,
	})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	app, err := apps.FindApplication(ctx, f.post, f.student)
	require.NoError(t, err)
	assert.Equal(t, appID, app.ID)
	assert.Equal(t, domain.ApplicationPending, app.Status)

	convID, err := apps.CreateConversation(ctx, &domain.Conversation{ApplicationID: appID, CreatedAt: activityTime})
	require.NoError(t, err)
	_, err = apps.CreateConversation(ctx, &domain.Conversation{ApplicationID: appID, CreatedAt: activityTime})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	text := domain.ApplicationPending.SystemText()
	_, err = apps.FindMessage(ctx, convID, domain.MessageSystem, nil, text)
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = apps.CreateMessage(ctx, &domain.Message{
		ConversationID: convID, Type: domain.MessageSystem, Text: text, CreatedAt: activityTime,
	})
	require.NoError(t, err)
	sender := f.student
	_, err = apps.CreateMessage(ctx, &domain.Message{
		ConversationID: convID, Type: domain.MessageUser, SenderUserID: &sender, Text: "hello", CreatedAt: activityTime,
	})
	require.NoError(t, err)

	system, err := apps.FindMessage(ctx, convID, domain.MessageSystem, nil, text)
	require.NoError(t, err)
	assert.Nil(t, system.SenderUserID)

	// A nil sender does not match a user message with the same text.
	_, err = apps.FindMessage(ctx, convID, domain.MessageUser, nil, "hello")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	other := f.company
	_, err = apps.FindMessage(ctx, convID, domain.MessageUser, &other, "hello")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	user, err := apps.FindMessage(ctx, convID, domain.MessageUser, &sender, "hello")
	require.NoError(t, err)
	require.NotNil(t, user.SenderUserID)
	assert.Equal(t, f.student, *user.SenderUserID)
}

func TestPostRepository_SetImageKeepsExisting(t *testing.T) {
	s := migratedStore(t)
	ctx := context.Background()
	repos := s.Repositories()
	f := seedActivityFixture(t, repos)

	require.NoError(t, repos.Posts.SetInternshipPostImage(ctx, f.post, "/uploads/internship-posts/1.png"))
	require.NoError(t, repos.Posts.SetInternshipPostImage(ctx, f.post, "/uploads/internship-posts/1.jpg"))
	post, err := repos.Posts.FindInternshipPost(ctx, f.company, "Flutter Intern")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/internship-posts/1.png", post.ImageURL)

	require.NoError(t, repos.Posts.SetStudentProfilePostImage(ctx, f.card, "/uploads/student-profile-posts/1.png"))
	card, err := repos.Posts.FindStudentProfilePost(ctx, f.student)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/student-profile-posts/1.png", card.ImageURL)
}
