package auth

import "github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	// Email
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if len(r.Email) > 254 {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must not exceed 254 characters",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address, e.g. user@example.com",
		})
	}

	// Password
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=255"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`

	UserID string `json:"-"`
}

func (r *ChangePasswordRequest) Validate() error {
	errs := validator.Struct(r)
	if r.CurrentPassword != "" && r.CurrentPassword == r.NewPassword {
		errs.Add("new_password", "new_password must differ from current_password")
	}
	return errs.OrNil()
}

type TokenResponse struct {
	AccessToken          string        `json:"access_token"`
	AccessTokenExpiresIn int64         `json:"access_token_expires_in"`
	User                 UserResponse  `json:"user"`
	Employee             *EmployeeInfo `json:"employee,omitempty"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// EmployeeInfo is the employee profile linked to a login.
type EmployeeInfo struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	Name           string `json:"name"`
	Title          string `json:"title"`
	Department     string `json:"department"`
	PayType        string `json:"pay_type"`
}

type MeResponse struct {
	User     UserResponse  `json:"user"`
	Employee *EmployeeInfo `json:"employee,omitempty"`
}
