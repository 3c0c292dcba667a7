package seed

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unintend-backend/internal/domain"
)

func sampleReport() *Report {
	r := newReport("run-1")
	for _, a := range []AccountResult{
		{Username: "acme_hr", Role: domain.RoleCompany, Password: "pass1234", Status: StatusCreated, PasswordMatches: true},
		{Username: "blue_rh", Role: domain.RoleCompany, Password: "pass1234", Status: StatusConflict},
		{Username: "eleni", Role: domain.RoleStudent, Password: "pass1234", Status: StatusExisting},
		{Username: "nikos", Role: domain.RoleStudent, Password: "pass1234", Status: StatusExisting, PasswordMatches: true},
	} {
		b := newBundle()
		b.account = a
		r.merge(b)
	}

	b := newBundle()
	b.account = AccountResult{Username: "maria", Role: domain.RoleStudent, Password: "pass1234", Status: StatusCreated, PasswordMatches: true}
	b.inserted(TableUsers)
	b.inserted(TableStudentProfiles)
	b.inserted(TableStudentProfilePosts)
	b.skipped(TableStudentExperiencePosts)
	b.inserted(TableStudentExperiencePosts)
	r.merge(b)
	return r
}

func TestWriteLogins(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLogins(&buf, sampleReport()))

	g := goldie.New(t, goldie.WithFixtureDir("testdata"))
	g.Assert(t, "logins", buf.Bytes())
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleReport()))

	g := goldie.New(t, goldie.WithFixtureDir("testdata"))
	g.Assert(t, "summary", buf.Bytes())
}

func TestReportTotals(t *testing.T) {
	r := sampleReport()
	assert.Equal(t, 4, r.Inserted())
	assert.Equal(t, 1, r.Skipped())
	assert.Len(t, r.Accounts, 5)
}
