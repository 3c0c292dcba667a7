package domain

import "time"

// Decision is the swipe outcome recorded on an interaction.
type Decision string

const (
	DecisionNone Decision = "NONE"
	DecisionLike Decision = "LIKE"
	DecisionPass Decision = "PASS"
)

func (d Decision) Valid() bool {
	switch d {
	case DecisionNone, DecisionLike, DecisionPass:
		return true
	}
	return false
}

// StudentPostInteraction records what a student did with an internship post.
// There is at most one per (student, post).
type StudentPostInteraction struct {
	ID            int64
	StudentUserID int64
	PostID        int64
	Saved         bool
	Decision      Decision
	SavedAt       *time.Time
	DecidedAt     *time.Time
}

// CompanyStudentPostInteraction records what a company did with a student
// profile post. There is at most one per (company, student post).
type CompanyStudentPostInteraction struct {
	ID            int64
	CompanyUserID int64
	StudentPostID int64
	Saved         bool
	Decision      Decision
	SavedAt       *time.Time
	DecidedAt     *time.Time
}
