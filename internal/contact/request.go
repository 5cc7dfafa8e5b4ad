// Package contact relays contact form submissions to the site owner by
// email and acknowledges them to the sender.
package contact

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Request is a contact form submission.
type Request struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company,omitempty"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	ProjectType string `json:"projectType,omitempty"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

// Validate checks required fields and the email shape. It returns a
// *ValidationError listing every failing field.
func (r Request) Validate() error {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "name is required"
	}
	email := strings.TrimSpace(r.Email)
	if email == "" {
		errs["email"] = "email is required"
	} else if !emailPattern.MatchString(email) {
		errs["email"] = "email is not a valid address"
	}
	if strings.TrimSpace(r.Subject) == "" {
		errs["subject"] = "subject is required"
	}
	if strings.TrimSpace(r.Message) == "" {
		errs["message"] = "message is required"
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
