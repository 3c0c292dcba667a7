package domain

import "time"

// InternshipPost is an offer published by a company and shown in the student feed.
type InternshipPost struct {
	ID            int64
	CompanyUserID int64
	Title         string
	Description   string
	Location      string
	Department    string
	ImageURL      string
	IsActive      bool
	CreatedAt     time.Time
}

// StudentProfilePost is the card a company sees for a student in its feed.
// A student has at most one.
type StudentProfilePost struct {
	ID            int64
	StudentUserID int64
	Title         string
	Description   string
	Location      string
	ImageURL      string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StudentExperiencePost lives on the student's own profile page (seminars, jobs).
type StudentExperiencePost struct {
	ID            int64
	StudentUserID int64
	Title         string
	Description   string
	Category      string
	ImageURL      string
	IsActive      bool
	CreatedAt     time.Time
}
