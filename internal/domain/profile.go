package domain

// StudentProfile holds the CV-like details of a student account.
type StudentProfile struct {
	ID         int64
	UserID     int64
	University string
	Department string
	Bio        string
	Skills     string
	Studies    string
	Experience string
}

// CompanyProfile holds the public details of a company account.
type CompanyProfile struct {
	ID          int64
	UserID      int64
	CompanyName string
	Industry    string
	Description string
	Website     string
	Bio         string
}
