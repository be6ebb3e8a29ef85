package applications

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validApplication() *Application {
	return &Application{
		Role:              RoleEmployee,
		FullName:          "Priya Nair",
		Email:             "priya@example.com",
		Phone:             "9876543210",
		Address:           "12 MG Road, Kochi",
		Document1Type:     "aadhaar",
		DocumentID1:       "1234 5678 9012",
		FrontImage1URL:    "https://media.example.com/front1.jpg",
		BackImage1URL:     "https://media.example.com/back1.jpg",
		BankAccountName:   "Priya Nair",
		BankAccountNumber: "001122334455",
		BankIFSC:          "HDFC0001234",
	}
}

func TestValidateApplicationOK(t *testing.T) {
	assert.Empty(t, ValidateApplication(validApplication()))
}

func TestValidateApplicationMissingDocuments(t *testing.T) {
	a := validApplication()
	a.Document1Type = ""
	a.DocumentID1 = ""
	a.FrontImage1URL = ""
	a.BackImage1URL = ""

	errs := ValidateApplication(a)
	assert.Contains(t, errs, "document1Type")
	assert.Contains(t, errs, "documentId1")
	assert.Contains(t, errs, "frontImage1")
	assert.Contains(t, errs, "backImage1")
	assert.GreaterOrEqual(t, len(errs), 4)
}

func TestValidateApplicationBadIFSC(t *testing.T) {
	tests := []struct {
		ifsc string
		ok   bool
	}{
		{"HDFC0001234", true},
		{"SBIN0X23456", true},
		{"hdfc0001234", false},
		{"HDFC1001234", false},
		{"HDFC000123", false},
		{"", false},
	}
	for _, tt := range tests {
		a := validApplication()
		a.BankIFSC = tt.ifsc
		errs := ValidateApplication(a)
		if tt.ok {
			assert.NotContains(t, errs, "bankIfsc", "ifsc %q", tt.ifsc)
		} else {
			assert.Contains(t, errs, "bankIfsc", "ifsc %q", tt.ifsc)
		}
	}
}

func TestValidateApplicationEmploymentRowsKeyedErrors(t *testing.T) {
	a := validApplication()
	a.Employment = []EmploymentEntry{
		{Key: "row-1", Company: "Apollo Clinics", Designation: "Nurse", StartDate: "2021-04-01"},
		{Key: "row-2"},
	}

	errs := ValidateApplication(a)
	assert.NotContains(t, errs, "employment.row-1.company")
	assert.Equal(t, "Company is required", errs["employment.row-2.company"])
	assert.Equal(t, "Designation is required", errs["employment.row-2.designation"])
	assert.Equal(t, "Start date is required", errs["employment.row-2.startDate"])
}

func TestValidateApplicationEducationYear(t *testing.T) {
	a := validApplication()
	a.Education = []EducationEntry{
		{Key: "edu-1", Institution: "AIIMS", Degree: "MBBS", YearPassed: "20015"},
	}

	errs := ValidateApplication(a)
	assert.Equal(t, "Enter a valid year", errs["education.edu-1.yearPassed"])
}

func TestValidateApplicationDoctorExtras(t *testing.T) {
	a := validApplication()
	a.Role = RoleDoctor

	errs := ValidateApplication(a)
	assert.Contains(t, errs, "registrationNumber")
	assert.Contains(t, errs, "specialization")

	a.RegistrationNumber = "MCI/12345"
	a.Specialization = "Dermatology"
	assert.Empty(t, ValidateApplication(a))
}

func TestValidateApplicationOptionalSecondDocument(t *testing.T) {
	a := validApplication()
	// Untouched second document: no errors.
	assert.Empty(t, ValidateApplication(a))

	// Partially filled second document: its fields become required.
	a.Document2Type = "pan"
	errs := ValidateApplication(a)
	assert.Contains(t, errs, "documentId2")
	assert.Contains(t, errs, "frontImage2")
	assert.Contains(t, errs, "backImage2")
}
