package memory

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"subcity/internal/model"
	"subcity/internal/repository"
)

const (
	seedAdminUsername = "admin"
	seedAdminPassword = "password"
)

func strPtr(s string) *string { return &s }

var seedEmployees = []model.EmployeeInput{
	{
		FirstName: "Ahmed", LastName: "Solomon",
		Position: "Chief Administrator", Department: "Administration",
		Email: "ahmed.solomon@bokushanan.gov.et", Phone: "+251911234567",
		HireDate: "2021-06-15", Status: model.EmployeeActive,
		Address: strPtr("Boku Shanan, Kebele 02"), EmergencyContact: strPtr("Fatima Solomon, +251922345678"),
	},
	{
		FirstName: "Sara", LastName: "Tesfaye",
		Position: "Deputy Administrator", Department: "Administration",
		Email: "sara.tesfaye@bokushanan.gov.et", Phone: "+251911234568",
		HireDate: "2021-08-01", Status: model.EmployeeActive,
		Address: strPtr("Boku Shanan, Kebele 01"), EmergencyContact: strPtr("Dawit Tesfaye, +251922345679"),
	},
	{
		FirstName: "Daniel", LastName: "Bekele",
		Position: "Director", Department: "Urban Development",
		Email: "daniel.bekele@bokushanan.gov.et", Phone: "+251911234569",
		HireDate: "2022-01-10", Status: model.EmployeeActive,
		Address: strPtr("Boku Shanan, Kebele 03"), EmergencyContact: strPtr("Meron Bekele, +251922345680"),
	},
	{
		FirstName: "Tigist", LastName: "Abebe",
		Position: "Head", Department: "Finance",
		Email: "tigist.abebe@bokushanan.gov.et", Phone: "+251911234570",
		HireDate: "2022-03-15", Status: model.EmployeeActive,
		Address: strPtr("Boku Shanan, Kebele 02"), EmergencyContact: strPtr("Yonas Abebe, +251922345681"),
	},
}

var seedPopulation = []model.PopulationInput{
	{Kebele: "Kebele 01", MaleCount: 5240, FemaleCount: 5380, ChildrenCount: 3200, AdultCount: 6400, ElderlyCount: 1020, TotalPopulation: 10620, RecordDate: "2023-05-15"},
	{Kebele: "Kebele 02", MaleCount: 4950, FemaleCount: 5120, ChildrenCount: 3050, AdultCount: 6100, ElderlyCount: 920, TotalPopulation: 10070, RecordDate: "2023-05-15"},
	{Kebele: "Kebele 03", MaleCount: 6230, FemaleCount: 6350, ChildrenCount: 3800, AdultCount: 7600, ElderlyCount: 1180, TotalPopulation: 12580, RecordDate: "2023-05-15"},
	{Kebele: "Kebele 04", MaleCount: 5910, FemaleCount: 6080, ChildrenCount: 3650, AdultCount: 7200, ElderlyCount: 1140, TotalPopulation: 11990, RecordDate: "2023-05-15"},
}

var seedInvestments = []model.InvestmentInput{
	{
		InvestorName: "Abebe Kebede", CompanyName: "Green Valley Agriculture",
		Sector: "Agriculture", ProjectType: "Farm Development", EstimatedCapital: 2500000,
		Location: "Kebele 03", StartDate: "2023-03-15", ExpectedCompletionDate: "2024-06-30",
		Status:       model.InvestmentInProgress,
		Description:  strPtr("Developing a modern farming facility focusing on vegetable production for local and export markets."),
		ContactEmail: strPtr("abebe@greenvalley.et"), ContactPhone: strPtr("+251912345678"),
	},
	{
		InvestorName: "Tigist Haile", CompanyName: "Sunrise Manufacturing",
		Sector: "Manufacturing", ProjectType: "Factory Construction", EstimatedCapital: 8500000,
		Location: "Kebele 01", StartDate: "2023-01-10", ExpectedCompletionDate: "2024-12-15",
		Status:       model.InvestmentInProgress,
		Description:  strPtr("Building a textile manufacturing facility to produce garments for export."),
		ContactEmail: strPtr("tigist@sunrisemfg.com"), ContactPhone: strPtr("+251987654321"),
	},
	{
		InvestorName: "Bekele Tadesse", CompanyName: "Highland Hospitality",
		Sector: "Tourism", ProjectType: "Hotel Construction", EstimatedCapital: 12000000,
		Location: "Kebele 04", StartDate: "2023-06-01", ExpectedCompletionDate: "2025-05-30",
		Status:       model.InvestmentPlanned,
		Description:  strPtr("Constructing a four-star hotel to accommodate tourists and business travelers."),
		ContactEmail: strPtr("bekele@highlandhotels.com"), ContactPhone: strPtr("+251923456789"),
	},
}

var hashPassword = bcrypt.GenerateFromPassword

// seed loads the demo dataset through the public create methods.
// The memory store never returns errors from these calls. A failing password hash
// is a programming error and panics.
func seed(s *Store) {
	ctx := repository.WithActor(context.Background(), "System")

	hash, err := hashPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("memory: hash seed admin password: %v", err))
	}
	_, _ = s.CreateUser(ctx, model.NewUser{Username: seedAdminUsername, Password: string(hash), Role: "admin"})
	for _, e := range seedEmployees {
		_, _ = s.CreateEmployee(ctx, e)
	}
	for _, p := range seedPopulation {
		_, _ = s.CreatePopulationRecord(ctx, p)
	}
	for _, inv := range seedInvestments {
		_, _ = s.CreateInvestment(ctx, inv)
	}
	_, _ = s.AddActivity(ctx, "Default data populated", "System", time.Time{})
}
