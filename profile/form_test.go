package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profilebook/store"
)

func validForm() Form {
	return Form{
		Name:     "Ana",
		LastName: "Lopez",
		Age:      "30",
		Gender:   "Female",
		Phone:    "555-1234",
		Email:    "ana@example.com",
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		modify      func(f *Form)
		wantFields  []string
		wantProfile store.Profile
	}{
		{
			name:   "valid form",
			modify: func(f *Form) {},
			wantProfile: store.Profile{
				Name: "Ana", LastName: "Lopez", Age: 30, Gender: "Female", Phone: "555-1234", Email: "ana@example.com",
			},
		},
		{
			name:   "selected gender is kept",
			modify: func(f *Form) { f.Gender = "Other" },
			wantProfile: store.Profile{
				Name: "Ana", LastName: "Lopez", Age: 30, Gender: "Other", Phone: "555-1234", Email: "ana@example.com",
			},
		},
		{
			name:   "zero age is allowed",
			modify: func(f *Form) { f.Age = "0" },
			wantProfile: store.Profile{
				Name: "Ana", LastName: "Lopez", Age: 0, Gender: "Female", Phone: "555-1234", Email: "ana@example.com",
			},
		},
		{
			name:       "empty form",
			modify:     func(f *Form) { *f = Form{} },
			wantFields: []string{"name", "last_name", "age", "gender", "phone", "email"},
		},
		{
			name:       "non numeric age",
			modify:     func(f *Form) { f.Age = "thirty" },
			wantFields: []string{"age"},
		},
		{
			name:       "negative age",
			modify:     func(f *Form) { f.Age = "-4" },
			wantFields: []string{"age"},
		},
		{
			name:       "email without domain",
			modify:     func(f *Form) { f.Email = "ana@" },
			wantFields: []string{"email"},
		},
		{
			name:       "email without tld",
			modify:     func(f *Form) { f.Email = "ana@example" },
			wantFields: []string{"email"},
		},
		{
			name:       "missing phone and last name",
			modify:     func(f *Form) { f.Phone = ""; f.LastName = "" },
			wantFields: []string{"phone", "last_name"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.modify(&form)

			got, err := form.Validate()

			if len(tc.wantFields) == 0 {
				require.NoError(t, err)
				assert.Equal(t, tc.wantProfile, got)
				return
			}

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "expected *ValidationError, got %v", err)
			assert.Len(t, validationErr.Fields, len(tc.wantFields))
			for _, field := range tc.wantFields {
				assert.Contains(t, validationErr.Fields, field)
			}
			assert.Equal(t, store.Profile{}, got)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"email": "Please enter a valid email",
		"age":   "Please enter a valid age",
	}}
	assert.Equal(t, "invalid profile: age: Please enter a valid age, email: Please enter a valid email", err.Error())
}

func TestRandomFormIsValid(t *testing.T) {
	for i := 0; i < 20; i++ {
		form, err := Random()
		require.NoError(t, err)

		p, err := form.Validate()
		require.NoError(t, err, "random form %+v should validate", form)
		assert.GreaterOrEqual(t, p.Age, 18)
		assert.LessOrEqual(t, p.Age, 80)
		assert.Contains(t, GenderOptions, p.Gender)
	}
}
