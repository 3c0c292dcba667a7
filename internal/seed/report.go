package seed

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"unintend-backend/internal/domain"
)

// Table names used as keys in Report.Tables.
const (
	TableUsers                  = "users"
	TableStudentProfiles        = "student_profiles"
	TableCompanyProfiles        = "company_profiles"
	TableInternshipPosts        = "internship_posts"
	TableStudentProfilePosts    = "student_profile_posts"
	TableStudentExperiencePosts = "student_experience_posts"

	TableStudentPostInteractions        = "student_post_interactions"
	TableCompanyStudentPostInteractions = "company_student_post_interactions"
	TableApplications                   = "applications"
	TableConversations                  = "conversations"
	TableMessages                       = "messages"
)

// AccountStatus tells what the seed found for a baseline account.
type AccountStatus string

const (
	// StatusCreated means the account was inserted by this run.
	StatusCreated AccountStatus = "created"
	// StatusExisting means an account with the same username already existed.
	StatusExisting AccountStatus = "existing"
	// StatusConflict means the username or email belongs to an account that
	// does not match the baseline (other username or other role). Nothing was
	// written for it.
	StatusConflict AccountStatus = "conflict"
)

// AccountResult describes one baseline account after a run.
type AccountResult struct {
	Username string
	Role     domain.Role
	// Password is the baseline plaintext credential. It is only kept in
	// memory for the operator output.
	Password string
	Status   AccountStatus
	// PasswordMatches is true when the stored hash accepts Password.
	PasswordMatches bool
}

// TableCount counts rows per table.
type TableCount struct {
	Inserted int
	Skipped  int
}

// Report summarises a seed run. It only reflects committed bundles.
type Report struct {
	RunID    string
	Accounts []AccountResult
	Tables   map[string]TableCount
}

func newReport(runID string) *Report {
	return &Report{RunID: runID, Tables: map[string]TableCount{}}
}

// Inserted returns the number of rows inserted across all tables.
func (r *Report) Inserted() int {
	n := 0
	for _, c := range r.Tables {
		n += c.Inserted
	}
	return n
}

// Skipped returns the number of rows found already present.
func (r *Report) Skipped() int {
	n := 0
	for _, c := range r.Tables {
		n += c.Skipped
	}
	return n
}

func (r *Report) merge(b *bundle) {
	// Activity bundles carry no account.
	if b.account.Username != "" {
		r.Accounts = append(r.Accounts, b.account)
	}
	for table, c := range b.tables {
		cur := r.Tables[table]
		cur.Inserted += c.Inserted
		cur.Skipped += c.Skipped
		r.Tables[table] = cur
	}
}

// bundle accumulates what happened to one account and its owned rows until
// the transaction commits.
type bundle struct {
	account AccountResult
	tables  map[string]TableCount
}

func newBundle() *bundle {
	return &bundle{tables: map[string]TableCount{}}
}

func (b *bundle) inserted(table string) {
	c := b.tables[table]
	c.Inserted++
	b.tables[table] = c
}

func (b *bundle) skipped(table string) {
	c := b.tables[table]
	c.Skipped++
	b.tables[table] = c
}

// WriteLogins prints the demo logins of a run for the operator.
func WriteLogins(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "Seed completed successfully.")
	fmt.Fprintln(bw, "Demo logins:")
	for _, a := range r.Accounts {
		label := roleLabel(a.Role)
		switch {
		case a.Status == StatusConflict:
			fmt.Fprintf(bw, "%s: %s (conflicting account, skipped)\n", label, a.Username)
		case !a.PasswordMatches:
			fmt.Fprintf(bw, "%s: %s (existing account, password changed)\n", label, a.Username)
		default:
			fmt.Fprintf(bw, "%s: %s / %s\n", label, a.Username, a.Password)
		}
	}
	return bw.Flush()
}

// WriteSummary prints per-table counts in a stable order.
func WriteSummary(w io.Writer, r *Report) error {
	tables := make([]string, 0, len(r.Tables))
	for t := range r.Tables {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	bw := bufio.NewWriter(w)
	for _, t := range tables {
		c := r.Tables[t]
		fmt.Fprintf(bw, "%-34s inserted=%d skipped=%d\n", t, c.Inserted, c.Skipped)
	}
	return bw.Flush()
}

func roleLabel(role domain.Role) string {
	if role == domain.RoleCompany {
		return "Company"
	}
	return "Student"
}
