package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"unintend-backend/internal/domain"
)

//go:embed baseline.yaml
var defaultBaseline []byte

// ErrInvalidBaseline is returned when a baseline dataset fails validation.
var ErrInvalidBaseline = errors.New("invalid baseline")

// Baseline is the full set of records the seed guarantees to exist.
type Baseline struct {
	// Password is used for every account that does not carry its own.
	Password  string    `yaml:"password"`
	Companies []Company `yaml:"companies"`
	Students  []Student `yaml:"students"`

	StudentInteractions []StudentInteraction `yaml:"student_interactions"`
	CompanyInteractions []CompanyInteraction `yaml:"company_interactions"`
	Applications        []Application        `yaml:"applications"`
}

// Account holds the login part shared by companies and students.
type Account struct {
	Username         string `yaml:"username"`
	Email            string `yaml:"email"`
	Password         string `yaml:"password"`
	Name             string `yaml:"name"`
	Surname          string `yaml:"surname"`
	SkipProfileImage bool   `yaml:"skip_profile_image"`
}

type Company struct {
	Account     `yaml:",inline"`
	CompanyName string           `yaml:"company_name"`
	Industry    string           `yaml:"industry"`
	Description string           `yaml:"description"`
	Website     string           `yaml:"website"`
	Bio         string           `yaml:"bio"`
	Posts       []InternshipPost `yaml:"posts"`
}

type InternshipPost struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Location    string `yaml:"location"`
	// Department is guessed from title and description when empty.
	Department string `yaml:"department"`
}

type Student struct {
	Account         `yaml:",inline"`
	University      string           `yaml:"university"`
	Department      string           `yaml:"department"`
	Bio             string           `yaml:"bio"`
	Skills          string           `yaml:"skills"`
	Studies         string           `yaml:"studies"`
	Experience      string           `yaml:"experience"`
	Location        string           `yaml:"location"`
	PostTitle       string           `yaml:"post_title"`
	ExperiencePosts []ExperiencePost `yaml:"experience_posts"`
}

type ExperiencePost struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
}

// StudentInteraction is a student's save or decision on an internship post,
// which is identified by its company and title.
type StudentInteraction struct {
	Student  string          `yaml:"student"`
	Company  string          `yaml:"company"`
	Post     string          `yaml:"post"`
	Saved    bool            `yaml:"saved"`
	Decision domain.Decision `yaml:"decision"`
}

// CompanyInteraction is a company's save or decision on the profile post of
// a student.
type CompanyInteraction struct {
	Company  string          `yaml:"company"`
	Student  string          `yaml:"student"`
	Saved    bool            `yaml:"saved"`
	Decision domain.Decision `yaml:"decision"`
}

// Application of a student to an internship post. Its conversation always
// carries the system line of Status, followed by Messages.
type Application struct {
	Student  string                   `yaml:"student"`
	Company  string                   `yaml:"company"`
	Post     string                   `yaml:"post"`
	Status   domain.ApplicationStatus `yaml:"status"`
	Messages []ChatMessage            `yaml:"messages"`
}

// Message senders, relative to the application.
const (
	FromStudent = "student"
	FromCompany = "company"
)

type ChatMessage struct {
	From string `yaml:"from"`
	Text string `yaml:"text"`
}

// DefaultBaseline returns the dataset compiled into the binary.
func DefaultBaseline() (Baseline, error) {
	return ParseBaseline(defaultBaseline)
}

// LoadBaseline reads a YAML dataset from path.
func LoadBaseline(path string) (Baseline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Baseline{}, fmt.Errorf("read baseline: %w", err)
	}
	return ParseBaseline(raw)
}

// ParseBaseline decodes a YAML dataset. Validation is left to Validate so
// callers can still fill in the default credential.
func ParseBaseline(raw []byte) (Baseline, error) {
	var b Baseline
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return Baseline{}, fmt.Errorf("%w: decode yaml: %v", ErrInvalidBaseline, err)
	}
	return b, nil
}

// PasswordFor returns the plaintext credential the seed uses for a.
func (b Baseline) PasswordFor(a Account) string {
	if p := strings.TrimSpace(a.Password); p != "" {
		return p
	}
	return strings.TrimSpace(b.Password)
}

// Validate checks that every account has a usable unique identity and a
// credential, and that natural keys of owned rows do not repeat.
func (b Baseline) Validate() error {
	usernames := map[string]struct{}{}
	emails := map[string]struct{}{}

	checkAccount := func(a Account) error {
		username := strings.TrimSpace(a.Username)
		email := strings.TrimSpace(a.Email)
		if username == "" {
			return fmt.Errorf("%w: account with empty username", ErrInvalidBaseline)
		}
		if email == "" {
			return fmt.Errorf("%w: account %s has no email", ErrInvalidBaseline, username)
		}
		if _, dup := usernames[username]; dup {
			return fmt.Errorf("%w: duplicate username %s", ErrInvalidBaseline, username)
		}
		if _, dup := emails[strings.ToLower(email)]; dup {
			return fmt.Errorf("%w: duplicate email %s", ErrInvalidBaseline, email)
		}
		if b.PasswordFor(a) == "" {
			return fmt.Errorf("%w: account %s has no password", ErrInvalidBaseline, username)
		}
		usernames[username] = struct{}{}
		emails[strings.ToLower(email)] = struct{}{}
		return nil
	}

	for _, c := range b.Companies {
		if err := checkAccount(c.Account); err != nil {
			return err
		}
		titles := map[string]struct{}{}
		for _, p := range c.Posts {
			if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Description) == "" {
				return fmt.Errorf("%w: post of %s needs a title and a description", ErrInvalidBaseline, c.Username)
			}
			if _, dup := titles[p.Title]; dup {
				return fmt.Errorf("%w: duplicate post %q for %s", ErrInvalidBaseline, p.Title, c.Username)
			}
			titles[p.Title] = struct{}{}
		}
	}

	for _, s := range b.Students {
		if err := checkAccount(s.Account); err != nil {
			return err
		}
		titles := map[string]struct{}{}
		for _, p := range s.ExperiencePosts {
			if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Description) == "" {
				return fmt.Errorf("%w: experience post of %s needs a title and a description", ErrInvalidBaseline, s.Username)
			}
			if _, dup := titles[p.Title]; dup {
				return fmt.Errorf("%w: duplicate experience post %q for %s", ErrInvalidBaseline, p.Title, s.Username)
			}
			titles[p.Title] = struct{}{}
		}
	}

	return b.validateActivity()
}

func decisionOrNone(d domain.Decision) domain.Decision {
	if d == "" {
		return domain.DecisionNone
	}
	return d
}

// validateActivity checks that interactions and applications reference
// baseline accounts and posts, and that their natural keys do not repeat.
func (b Baseline) validateActivity() error {
	companyPosts := map[string]map[string]struct{}{}
	for _, c := range b.Companies {
		titles := map[string]struct{}{}
		for _, p := range c.Posts {
			titles[p.Title] = struct{}{}
		}
		companyPosts[c.Username] = titles
	}
	students := map[string]struct{}{}
	for _, s := range b.Students {
		students[s.Username] = struct{}{}
	}

	checkPost := func(kind, student, company, post string) error {
		if _, ok := students[student]; !ok {
			return fmt.Errorf("%w: %s references unknown student %q", ErrInvalidBaseline, kind, student)
		}
		titles, ok := companyPosts[company]
		if !ok {
			return fmt.Errorf("%w: %s references unknown company %q", ErrInvalidBaseline, kind, company)
		}
		if _, ok := titles[post]; !ok {
			return fmt.Errorf("%w: %s references unknown post %q of %s", ErrInvalidBaseline, kind, post, company)
		}
		return nil
	}

	seen := map[[3]string]struct{}{}
	for _, in := range b.StudentInteractions {
		if err := checkPost("student interaction", in.Student, in.Company, in.Post); err != nil {
			return err
		}
		if !decisionOrNone(in.Decision).Valid() {
			return fmt.Errorf("%w: unknown decision %q", ErrInvalidBaseline, in.Decision)
		}
		key := [3]string{in.Student, in.Company, in.Post}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate interaction of %s on %q", ErrInvalidBaseline, in.Student, in.Post)
		}
		seen[key] = struct{}{}
	}

	seenCompany := map[[2]string]struct{}{}
	for _, in := range b.CompanyInteractions {
		if _, ok := companyPosts[in.Company]; !ok {
			return fmt.Errorf("%w: company interaction references unknown company %q", ErrInvalidBaseline, in.Company)
		}
		if _, ok := students[in.Student]; !ok {
			return fmt.Errorf("%w: company interaction references unknown student %q", ErrInvalidBaseline, in.Student)
		}
		if !decisionOrNone(in.Decision).Valid() {
			return fmt.Errorf("%w: unknown decision %q", ErrInvalidBaseline, in.Decision)
		}
		key := [2]string{in.Company, in.Student}
		if _, dup := seenCompany[key]; dup {
			return fmt.Errorf("%w: duplicate interaction of %s on %s", ErrInvalidBaseline, in.Company, in.Student)
		}
		seenCompany[key] = struct{}{}
	}

	seenApps := map[[3]string]struct{}{}
	for _, a := range b.Applications {
		if err := checkPost("application", a.Student, a.Company, a.Post); err != nil {
			return err
		}
		if !a.Status.Valid() {
			return fmt.Errorf("%w: application of %s has unknown status %q", ErrInvalidBaseline, a.Student, a.Status)
		}
		key := [3]string{a.Student, a.Company, a.Post}
		if _, dup := seenApps[key]; dup {
			return fmt.Errorf("%w: duplicate application of %s to %q", ErrInvalidBaseline, a.Student, a.Post)
		}
		seenApps[key] = struct{}{}
		for _, m := range a.Messages {
			if m.From != FromStudent && m.From != FromCompany {
				return fmt.Errorf("%w: message sender must be %q or %q, got %q", ErrInvalidBaseline, FromStudent, FromCompany, m.From)
			}
			if strings.TrimSpace(m.Text) == "" {
				return fmt.Errorf("%w: empty message in application of %s", ErrInvalidBaseline, a.Student)
			}
		}
	}
	return nil
}

// profilePostDescription renders the feed card text from a student profile.
func profilePostDescription(bio, skills, studies, experience, university, department string) string {
	return fmt.Sprintf("%s\nSkills: %s\nStudies: %s\nExperience: %s\nUniversity: %s (%s)",
		bio, skills, studies, experience, university, department)
}
