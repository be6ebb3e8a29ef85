package applications

import "time"

// Application roles.
const (
	RoleEmployee = "employee"
	RoleDoctor   = "doctor"
)

// Application statuses.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusRejected = "rejected"
)

// EmploymentEntry is one row of employment history. Key is a client
// generated identifier used to key validation errors back to the row.
type EmploymentEntry struct {
	Key           string `json:"key"`
	Company       string `json:"company"`
	Designation   string `json:"designation"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date,omitempty"`
	SalarySlipURL string `json:"salary_slip_url,omitempty"`
}

// EducationEntry is one row of education history.
type EducationEntry struct {
	Key         string `json:"key"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	YearPassed  string `json:"year_passed"`
}

// Application is a complete employee or doctor application, submitted as
// one payload after validation.
type Application struct {
	ID   string `json:"id"`
	Role string `json:"role"`

	// Personal details
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`

	// Identity documents. Two documents, each with a type (aadhaar,
	// pan, passport, licence), the document number, and hosted images.
	Document1Type  string `json:"document1_type"`
	DocumentID1    string `json:"document_id1"`
	FrontImage1URL string `json:"front_image1_url"`
	BackImage1URL  string `json:"back_image1_url"`
	Document2Type  string `json:"document2_type,omitempty"`
	DocumentID2    string `json:"document_id2,omitempty"`
	FrontImage2URL string `json:"front_image2_url,omitempty"`
	BackImage2URL  string `json:"back_image2_url,omitempty"`

	ResumeURL string `json:"resume_url,omitempty"`

	Employment []EmploymentEntry `json:"employment,omitempty"`
	Education  []EducationEntry  `json:"education,omitempty"`

	// Bank details for payouts.
	BankAccountName   string `json:"bank_account_name"`
	BankAccountNumber string `json:"bank_account_number"`
	BankIFSC          string `json:"bank_ifsc"`

	// Doctor-only extras.
	RegistrationNumber string `json:"registration_number,omitempty"`
	Specialization     string `json:"specialization,omitempty"`

	Status     string     `json:"status"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// DocumentTypes lists the accepted identity document types.
var DocumentTypes = []string{"aadhaar", "pan", "passport", "driving_licence"}

// ValidDocumentType reports whether t is an accepted document type.
func ValidDocumentType(t string) bool {
	for _, d := range DocumentTypes {
		if d == t {
			return true
		}
	}
	return false
}
