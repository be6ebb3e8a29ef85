package applications

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	ifscPattern  = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	urlPattern   = regexp.MustCompile(`^https?://\S+$`)
	yearPattern  = regexp.MustCompile(`^(19|20)\d{2}$`)
)

// ValidateApplication walks every field and repeatable row of the form
// and returns a keyed error map. Submission must be rejected while the
// map is non-empty; nothing is persisted in that case.
func ValidateApplication(a *Application) map[string]string {
	errs := make(map[string]string)

	if a.Role != RoleEmployee && a.Role != RoleDoctor {
		errs["role"] = "Role must be employee or doctor"
	}

	if strings.TrimSpace(a.FullName) == "" {
		errs["fullName"] = "Full name is required"
	}
	if a.Email == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(a.Email) {
		errs["email"] = "Enter a valid email address"
	}
	if a.Phone == "" {
		errs["phone"] = "Phone number is required"
	} else if !phonePattern.MatchString(a.Phone) {
		errs["phone"] = "Enter a valid 10-digit phone number"
	}
	if strings.TrimSpace(a.Address) == "" {
		errs["address"] = "Address is required"
	}

	validateDocument(errs, 1, a.Document1Type, a.DocumentID1, a.FrontImage1URL, a.BackImage1URL, true)
	if a.Document2Type != "" || a.DocumentID2 != "" || a.FrontImage2URL != "" || a.BackImage2URL != "" {
		validateDocument(errs, 2, a.Document2Type, a.DocumentID2, a.FrontImage2URL, a.BackImage2URL, true)
	}

	if a.ResumeURL != "" && !urlPattern.MatchString(a.ResumeURL) {
		errs["resume"] = "Resume upload is invalid"
	}

	for _, e := range a.Employment {
		prefix := "employment." + e.Key
		if strings.TrimSpace(e.Company) == "" {
			errs[prefix+".company"] = "Company is required"
		}
		if strings.TrimSpace(e.Designation) == "" {
			errs[prefix+".designation"] = "Designation is required"
		}
		if strings.TrimSpace(e.StartDate) == "" {
			errs[prefix+".startDate"] = "Start date is required"
		}
		if e.SalarySlipURL != "" && !urlPattern.MatchString(e.SalarySlipURL) {
			errs[prefix+".salarySlip"] = "Salary slip upload is invalid"
		}
	}

	for _, e := range a.Education {
		prefix := "education." + e.Key
		if strings.TrimSpace(e.Institution) == "" {
			errs[prefix+".institution"] = "Institution is required"
		}
		if strings.TrimSpace(e.Degree) == "" {
			errs[prefix+".degree"] = "Degree is required"
		}
		if e.YearPassed == "" {
			errs[prefix+".yearPassed"] = "Year of passing is required"
		} else if !yearPattern.MatchString(e.YearPassed) {
			errs[prefix+".yearPassed"] = "Enter a valid year"
		}
	}

	if strings.TrimSpace(a.BankAccountName) == "" {
		errs["bankAccountName"] = "Account holder name is required"
	}
	if strings.TrimSpace(a.BankAccountNumber) == "" {
		errs["bankAccountNumber"] = "Account number is required"
	}
	if a.BankIFSC == "" {
		errs["bankIfsc"] = "IFSC code is required"
	} else if !ifscPattern.MatchString(a.BankIFSC) {
		errs["bankIfsc"] = "Enter a valid IFSC code"
	}

	if a.Role == RoleDoctor {
		if strings.TrimSpace(a.RegistrationNumber) == "" {
			errs["registrationNumber"] = "Medical registration number is required"
		}
		if strings.TrimSpace(a.Specialization) == "" {
			errs["specialization"] = "Specialization is required"
		}
	}

	return errs
}

func validateDocument(errs map[string]string, n int, docType, docID, frontURL, backURL string, required bool) {
	if docType == "" {
		if required {
			errs[fmt.Sprintf("document%dType", n)] = "Document type is required"
		}
	} else if !ValidDocumentType(docType) {
		errs[fmt.Sprintf("document%dType", n)] = "Select a valid document type"
	}

	if docID == "" {
		if required {
			errs[fmt.Sprintf("documentId%d", n)] = "Document number is required"
		}
	}

	if frontURL == "" {
		if required {
			errs[fmt.Sprintf("frontImage%d", n)] = "Front image is required"
		}
	} else if !urlPattern.MatchString(frontURL) {
		errs[fmt.Sprintf("frontImage%d", n)] = "Front image upload is invalid"
	}

	if backURL == "" {
		if required {
			errs[fmt.Sprintf("backImage%d", n)] = "Back image is required"
		}
	} else if !urlPattern.MatchString(backURL) {
		errs[fmt.Sprintf("backImage%d", n)] = "Back image upload is invalid"
	}
}
