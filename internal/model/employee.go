package model

import "time"

// Employee statuses.
const (
	EmployeeActive     = "active"
	EmployeeOnLeave    = "on_leave"
	EmployeeSuspended  = "suspended"
	EmployeeTerminated = "terminated"
)

// Employee is a personnel record. Department is free text, not a reference.
type Employee struct {
	ID               int64     `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Position         string    `json:"position"`
	Department       string    `json:"department"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	HireDate         string    `json:"hireDate"`
	Status           string    `json:"status"`
	Address          *string   `json:"address,omitempty"`
	EmergencyContact *string   `json:"emergencyContact,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// FullName joins first and last name for activity messages.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type EmployeeInput struct {
	FirstName        string  `json:"firstName" validate:"required,max=100"`
	LastName         string  `json:"lastName" validate:"required,max=100"`
	Position         string  `json:"position" validate:"required"`
	Department       string  `json:"department" validate:"required"`
	Email            string  `json:"email" validate:"required,email"`
	Phone            string  `json:"phone" validate:"required"`
	HireDate         string  `json:"hireDate" validate:"required,datetime=2006-01-02"`
	Status           string  `json:"status" validate:"omitempty,oneof=active on_leave suspended terminated"`
	Address          *string `json:"address,omitempty"`
	EmergencyContact *string `json:"emergencyContact,omitempty"`
}

// EmployeePatch holds a partial update; nil fields are left untouched.
type EmployeePatch struct {
	FirstName        *string `json:"firstName" validate:"omitempty,max=100"`
	LastName         *string `json:"lastName" validate:"omitempty,max=100"`
	Position         *string `json:"position" validate:"omitempty"`
	Department       *string `json:"department" validate:"omitempty"`
	Email            *string `json:"email" validate:"omitempty,email"`
	Phone            *string `json:"phone" validate:"omitempty"`
	HireDate         *string `json:"hireDate" validate:"omitempty,datetime=2006-01-02"`
	Status           *string `json:"status" validate:"omitempty,oneof=active on_leave suspended terminated"`
	Address          *string `json:"address"`
	EmergencyContact *string `json:"emergencyContact"`
}

// Apply merges the non-nil fields of p onto e.
func (p EmployeePatch) Apply(e *Employee) {
	setString(&e.FirstName, p.FirstName)
	setString(&e.LastName, p.LastName)
	setString(&e.Position, p.Position)
	setString(&e.Department, p.Department)
	setString(&e.Email, p.Email)
	setString(&e.Phone, p.Phone)
	setString(&e.HireDate, p.HireDate)
	setString(&e.Status, p.Status)
	setOptional(&e.Address, p.Address)
	setOptional(&e.EmergencyContact, p.EmergencyContact)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// setOptional replaces *dst with a fresh copy of *v when v is set.
func setOptional(dst **string, v *string) {
	if v != nil {
		c := *v
		*dst = &c
	}
}
