package application

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/user-accounts-api/internal/domain/entity"
)

func TestValidateUser(t *testing.T) {
	valid := func() *entity.User {
		return &entity.User{Email: "a@x.com", FirstName: "A", LastName: "B", Roles: []string{entity.RoleUser}}
	}

	tests := []struct {
		name   string
		mutate func(u *entity.User)
		want   map[string]string
	}{
		{name: "valid", mutate: func(*entity.User) {}},
		{
			name:   "bad email",
			mutate: func(u *entity.User) { u.Email = "a@" },
			want:   map[string]string{"email": "This value is not a valid email address."},
		},
		{
			name:   "blank names",
			mutate: func(u *entity.User) { u.FirstName, u.LastName = "", "" },
			want: map[string]string{
				"firstName": "This value should not be blank.",
				"lastName":  "This value should not be blank.",
			},
		},
		{
			name:   "no roles",
			mutate: func(u *entity.User) { u.Roles = nil },
			want:   map[string]string{"roles": "This value should not be blank."},
		},
		{
			name:   "empty role list",
			mutate: func(u *entity.User) { u.Roles = []string{} },
			want:   map[string]string{"roles": "This collection should contain 1 element or more."},
		},
		{
			name:   "role without prefix",
			mutate: func(u *entity.User) { u.Roles = []string{entity.RoleUser, "admin"} },
			want:   map[string]string{"roles[1]": `This value should start with "ROLE_".`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid()
			tt.mutate(u)
			assert.Equal(t, tt.want, ValidateUser(u))
		})
	}
}

func TestValidateUser_Lengths(t *testing.T) {
	u := &entity.User{
		Email:     strings.Repeat("a", 175) + "@x.com",
		FirstName: strings.Repeat("f", 256),
		LastName:  strings.Repeat("l", 255),
		Roles:     []string{entity.RoleUser},
	}

	got := ValidateUser(u)
	assert.Contains(t, got, "email")
	assert.Equal(t, "This value is too long. It should have 255 characters or less.", got["firstName"])
	assert.NotContains(t, got, "lastName")
}
