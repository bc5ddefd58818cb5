package entity

import "strings"

// ValidatePatient checks required fields in a fixed order and reports the first violation.
func ValidatePatient(p *Patient) error {
	if p == nil {
		return &ValidationError{Reason: "patient is required"}
	}

	rules := []struct {
		ok     bool
		reason string
	}{
		{!isBlank(p.Name), "name is required"},
		{!isBlank(p.CPF), "CPF is required"},
		{!isBlank(p.RG), "RG is required"},
		{p.Sex != "", "sex is required"},
		{!isBlank(p.Phone), "phone is required"},
		{!isBlank(p.Address), "address is required"},
		{!isBlank(p.City), "city is required"},
		{!isBlank(p.State), "state is required"},
	}

	for _, rule := range rules {
		if !rule.ok {
			return &ValidationError{Reason: rule.reason}
		}
	}

	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
