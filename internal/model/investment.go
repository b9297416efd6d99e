package model

import "time"

// Investment statuses.
const (
	InvestmentPlanned    = "planned"
	InvestmentInProgress = "in-progress"
	InvestmentCompleted  = "completed"
	InvestmentOnHold     = "on-hold"
	InvestmentCancelled  = "cancelled"
)

// Investment is an economic development project record.
type Investment struct {
	ID                     int64     `json:"id"`
	InvestorName           string    `json:"investorName"`
	CompanyName            string    `json:"companyName"`
	Sector                 string    `json:"sector"`
	ProjectType            string    `json:"projectType"`
	EstimatedCapital       int64     `json:"estimatedCapital"`
	Location               string    `json:"location"`
	StartDate              string    `json:"startDate"`
	ExpectedCompletionDate string    `json:"expectedCompletionDate"`
	Status                 string    `json:"status"`
	Description            *string   `json:"description,omitempty"`
	ContactEmail           *string   `json:"contactEmail,omitempty"`
	ContactPhone           *string   `json:"contactPhone,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
	CreatedBy              *int64    `json:"createdBy,omitempty"`
}

type InvestmentInput struct {
	InvestorName           string  `json:"investorName" validate:"required"`
	CompanyName            string  `json:"companyName" validate:"required"`
	Sector                 string  `json:"sector" validate:"required"`
	ProjectType            string  `json:"projectType" validate:"required"`
	EstimatedCapital       int64   `json:"estimatedCapital" validate:"gte=0"`
	Location               string  `json:"location" validate:"required"`
	StartDate              string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	ExpectedCompletionDate string  `json:"expectedCompletionDate" validate:"required,datetime=2006-01-02"`
	Status                 string  `json:"status" validate:"omitempty,oneof=planned in-progress completed on-hold cancelled"`
	Description            *string `json:"description,omitempty"`
	ContactEmail           *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone           *string `json:"contactPhone,omitempty"`
	CreatedBy              *int64  `json:"createdBy,omitempty"`
}

// InvestmentPatch holds a partial update; nil fields are left untouched.
type InvestmentPatch struct {
	InvestorName           *string `json:"investorName"`
	CompanyName            *string `json:"companyName"`
	Sector                 *string `json:"sector"`
	ProjectType            *string `json:"projectType"`
	EstimatedCapital       *int64  `json:"estimatedCapital" validate:"omitempty,gte=0"`
	Location               *string `json:"location"`
	StartDate              *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	ExpectedCompletionDate *string `json:"expectedCompletionDate" validate:"omitempty,datetime=2006-01-02"`
	Status                 *string `json:"status" validate:"omitempty,oneof=planned in-progress completed on-hold cancelled"`
	Description            *string `json:"description"`
	ContactEmail           *string `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone           *string `json:"contactPhone"`
}

// Apply merges the non-nil fields of p onto inv.
func (p InvestmentPatch) Apply(inv *Investment) {
	setString(&inv.InvestorName, p.InvestorName)
	setString(&inv.CompanyName, p.CompanyName)
	setString(&inv.Sector, p.Sector)
	setString(&inv.ProjectType, p.ProjectType)
	if p.EstimatedCapital != nil {
		inv.EstimatedCapital = *p.EstimatedCapital
	}
	setString(&inv.Location, p.Location)
	setString(&inv.StartDate, p.StartDate)
	setString(&inv.ExpectedCompletionDate, p.ExpectedCompletionDate)
	setString(&inv.Status, p.Status)
	setOptional(&inv.Description, p.Description)
	setOptional(&inv.ContactEmail, p.ContactEmail)
	setOptional(&inv.ContactPhone, p.ContactPhone)
}
