package model

import "strings"

// User is an account on the project-management server.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is the client-held proof of identity.
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// LoginCredentials is the body of POST /auth/login.
type LoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate requires both fields.
func (c LoginCredentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return invalid("username", "username is required")
	}
	if c.Password == "" {
		return invalid("password", "password is required")
	}
	return nil
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MinPasswordLength applies to account creation.
const MinPasswordLength = 6

// Validate checks required fields before any request is made.
func (r CreateUserRequest) Validate() error {
	if err := requireUserFields(r.Name, r.Username, r.Email); err != nil {
		return err
	}
	if strings.TrimSpace(r.Password) == "" {
		return invalid("password", "password is required")
	}
	if len(r.Password) < MinPasswordLength {
		return invalid("password", "password must be at least 6 characters")
	}
	return nil
}

// Normalized trims every field and lower-cases username and email.
func (r CreateUserRequest) Normalized() CreateUserRequest {
	return CreateUserRequest{
		Name:     strings.TrimSpace(r.Name),
		Username: strings.ToLower(strings.TrimSpace(r.Username)),
		Email:    strings.ToLower(strings.TrimSpace(r.Email)),
		Password: r.Password,
	}
}

// Registration is self sign-up: a CreateUserRequest plus confirmation.
type Registration struct {
	CreateUserRequest
	ConfirmPassword string
}

// Validate adds the confirmation check to the user rules.
func (r Registration) Validate() error {
	if err := r.CreateUserRequest.Validate(); err != nil {
		return err
	}
	if r.Password != r.ConfirmPassword {
		return invalid("confirmPassword", "passwords do not match")
	}
	return nil
}

// UpdateUserRequest is the body of PUT /users/:id.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Validate checks required fields.
func (r UpdateUserRequest) Validate() error {
	return requireUserFields(r.Name, r.Username, r.Email)
}

func requireUserFields(name, username, email string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return invalid("name", "name is required")
	case strings.TrimSpace(username) == "":
		return invalid("username", "username is required")
	case strings.TrimSpace(email) == "":
		return invalid("email", "email is required")
	}
	return nil
}
