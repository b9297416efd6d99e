package repository

import (
	"context"
	"errors"
	"time"

	"subcity/internal/model"
)

// ErrNotFound is returned by Get and Update lookups when no record has the given id.
var ErrNotFound = errors.New("record not found")

// DefaultActor is recorded on activity entries when the context carries no actor.
const DefaultActor = "Admin"

// DefaultRecentActivities is the page size used when RecentActivities gets a non-positive limit.
const DefaultRecentActivities = 10

// Store is the single persistence contract used by the HTTP and service layers.
// Implementations live in subpackages (memory, postgres) and must be interchangeable.
//
// Reads never fail for a missing id: Get and Update return ErrNotFound, Delete returns false.
// Every successful create, update and delete appends exactly one activity entry.
// Input is assumed valid; validation happens before the store is called.
type Store interface {
	Ping(ctx context.Context) error

	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, in model.NewUser) (*model.User, error)

	ListEmployees(ctx context.Context) ([]model.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*model.Employee, error)
	CreateEmployee(ctx context.Context, in model.EmployeeInput) (*model.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, patch model.EmployeePatch) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) (bool, error)
	EmployeeCount(ctx context.Context) (int, error)
	ListDepartments(ctx context.Context) ([]string, error)

	// ListDocuments returns documents newest first.
	ListDocuments(ctx context.Context) ([]model.Document, error)
	GetDocument(ctx context.Context, id int64) (*model.Document, error)
	CreateDocument(ctx context.Context, in model.DocumentInput) (*model.Document, error)
	DeleteDocument(ctx context.Context, id int64) (bool, error)
	DocumentCount(ctx context.Context) (int, error)

	ListPopulationRecords(ctx context.Context) ([]model.PopulationRecord, error)
	CreatePopulationRecord(ctx context.Context, in model.PopulationInput) (*model.PopulationRecord, error)
	// TotalPopulation sums TotalPopulation over every stored record; 0 when there are none.
	TotalPopulation(ctx context.Context) (int64, error)
	ListKebeles(ctx context.Context) ([]string, error)

	// ListInvestments returns investments newest first.
	ListInvestments(ctx context.Context) ([]model.Investment, error)
	GetInvestment(ctx context.Context, id int64) (*model.Investment, error)
	CreateInvestment(ctx context.Context, in model.InvestmentInput) (*model.Investment, error)
	UpdateInvestment(ctx context.Context, id int64, patch model.InvestmentPatch) (*model.Investment, error)
	DeleteInvestment(ctx context.Context, id int64) (bool, error)
	InvestmentCount(ctx context.Context) (int, error)
	ListSectors(ctx context.Context) ([]string, error)

	// AddActivity appends an audit entry. A zero at means now.
	AddActivity(ctx context.Context, action, actor string, at time.Time) (*model.Activity, error)
	// RecentActivities returns at most limit entries, newest first.
	RecentActivities(ctx context.Context, limit int) ([]model.Activity, error)
}

type actorKey struct{}

// WithActor returns a context whose mutations are attributed to actor in the activity log.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored by WithActor, or DefaultActor.
func ActorFrom(ctx context.Context) string {
	if s, ok := ctx.Value(actorKey{}).(string); ok && s != "" {
		return s
	}
	return DefaultActor
}

// Activity messages shared by all implementations.
func UserCreatedMsg(username string) string { return "New user registered: " + username }

func EmployeeCreatedMsg(name string) string { return "New employee added: " + name }

func EmployeeUpdatedMsg(name string) string { return "Employee updated: " + name }

func EmployeeDeletedMsg(name string) string { return "Employee deleted: " + name }

func DocumentCreatedMsg(title string) string { return "New document uploaded: " + title }

func DocumentDeletedMsg(title string) string { return "Document deleted: " + title }

func PopulationCreatedMsg(kebele string) string { return "Population record added for " + kebele }

func InvestmentCreatedMsg(company string) string { return "New investment recorded: " + company }

func InvestmentUpdatedMsg(company string) string { return "Investment updated: " + company }

func InvestmentDeletedMsg(company string) string { return "Investment deleted: " + company }
