package employee

import (
	"strings"

	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
)

type EmployeeResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	EmployeeNumber string  `json:"employee_number"`
	Title          *string `json:"title"`
	Division       *string `json:"division"`
	Email          string  `json:"email"`
	Role           Role    `json:"role"`
	IsActive       bool    `json:"is_active"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		Name:           e.Name,
		EmployeeNumber: e.EmployeeNumber,
		Title:          e.Title,
		Division:       e.Division,
		Email:          e.Email,
		Role:           e.Role,
		IsActive:       e.IsActive,
	}
}

type CreateEmployeeRequest struct {
	Name           string  `json:"name"`
	EmployeeNumber string  `json:"employee_number"`
	Title          *string `json:"title,omitempty"`
	Division       *string `json:"division,omitempty"`
	Email          string  `json:"email"`
	Role           string  `json:"role,omitempty"`
	IPAddress      string  `json:"-"`
}

const maxNameLength = 100

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > maxNameLength {
		errs.Add("name", "name must not exceed 100 characters")
	}

	if validator.IsEmpty(r.EmployeeNumber) {
		errs.Add("employee_number", "employee_number is required")
	}

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	if r.Role != "" && !Role(r.Role).IsValid() {
		errs.Add("role", "role must be admin or employee")
	}

	return errs.Err()
}

// ToEmployee builds an active employee from the request. Role defaults to
// employee.
func (r *CreateEmployeeRequest) ToEmployee() Employee {
	role := RoleEmployee
	if r.Role != "" {
		role = Role(r.Role)
	}
	return Employee{
		Name:           strings.TrimSpace(r.Name),
		EmployeeNumber: strings.TrimSpace(r.EmployeeNumber),
		Title:          r.Title,
		Division:       r.Division,
		Email:          strings.TrimSpace(r.Email),
		Role:           role,
		IsActive:       true,
	}
}

// UpdateEmployeeRequest changes only the fields that are set.
type UpdateEmployeeRequest struct {
	ID             string  `json:"-"`
	Name           *string `json:"name,omitempty"`
	EmployeeNumber *string `json:"employee_number,omitempty"`
	Title          *string `json:"title,omitempty"`
	Division       *string `json:"division,omitempty"`
	Email          *string `json:"email,omitempty"`
	Role           *string `json:"role,omitempty"`
	IPAddress      string  `json:"-"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		} else if len(*r.Name) > maxNameLength {
			errs.Add("name", "name must not exceed 100 characters")
		}
	}

	if r.EmployeeNumber != nil && validator.IsEmpty(*r.EmployeeNumber) {
		errs.Add("employee_number", "employee_number must not be empty")
	}

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	if r.Role != nil && !Role(*r.Role).IsValid() {
		errs.Add("role", "role must be admin or employee")
	}

	return errs.Err()
}

// Apply returns emp with the requested changes and the names of the fields
// that actually changed.
func (r *UpdateEmployeeRequest) Apply(emp Employee) (Employee, []string) {
	var changed []string
	setString := func(field string, dst *string, src *string) {
		if src == nil {
			return
		}
		v := strings.TrimSpace(*src)
		if *dst != v {
			*dst = v
			changed = append(changed, field)
		}
	}
	setOptional := func(field string, dst **string, src *string) {
		if src == nil {
			return
		}
		v := strings.TrimSpace(*src)
		if *dst != nil && **dst == v {
			return
		}
		if *dst == nil && v == "" {
			return
		}
		if v == "" {
			*dst = nil
		} else {
			*dst = &v
		}
		changed = append(changed, field)
	}

	setString("name", &emp.Name, r.Name)
	setString("employee_number", &emp.EmployeeNumber, r.EmployeeNumber)
	setOptional("title", &emp.Title, r.Title)
	setOptional("division", &emp.Division, r.Division)
	setString("email", &emp.Email, r.Email)
	if r.Role != nil && emp.Role != Role(*r.Role) {
		emp.Role = Role(*r.Role)
		changed = append(changed, "role")
	}
	return emp, changed
}

type DeactivateEmployeeRequest struct {
	ID        string `json:"-"`
	IPAddress string `json:"-"`
}

func (r *DeactivateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	return errs.Err()
}
