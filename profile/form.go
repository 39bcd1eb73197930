package profile

import (
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"profilebook/store"
)

// GenderOptions are the choices offered by the gender dropdown.
// The store itself accepts any text.
var GenderOptions = []string{"Male", "Female", "Other"}

// same shape as the Android EMAIL_ADDRESS pattern the form was built against
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`)

// Form is the profile as typed by the user, every field still text
type Form struct {
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Age      string `json:"age"`
	Gender   string `json:"gender"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// ValidationError lists the rejected fields with a message for each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "invalid profile: " + strings.Join(parts, ", ")
}

// Validate checks the form the way the entry screen does before submitting:
// every field filled in, a numeric non-negative age and a well formed email.
// The gender is kept exactly as selected.
func (f Form) Validate() (store.Profile, error) {
	fields := map[string]string{}

	if f.Name == "" {
		fields["name"] = "Please enter a name"
	}
	if f.LastName == "" {
		fields["last_name"] = "Please enter a last name"
	}

	age, err := strconv.Atoi(f.Age)
	if err != nil || age < 0 {
		fields["age"] = "Please enter a valid age"
	}

	if f.Gender == "" {
		fields["gender"] = "Please select a gender"
	}
	if f.Phone == "" {
		fields["phone"] = "Please enter a phone number"
	}
	if !emailPattern.MatchString(f.Email) {
		fields["email"] = "Please enter a valid email"
	}

	if len(fields) > 0 {
		return store.Profile{}, &ValidationError{Fields: fields}
	}

	return store.Profile{
		Name:     f.Name,
		LastName: f.LastName,
		Age:      age,
		Gender:   f.Gender,
		Phone:    f.Phone,
		Email:    f.Email,
	}, nil
}
