// Package storetest holds a behavioural test suite shared by every repository.Store implementation.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subcity/internal/model"
	"subcity/internal/repository"
)

// Factory returns a fresh store for one subtest. Stores may already contain records;
// every assertion is relative to the state observed before the operation.
type Factory func(t *testing.T) repository.Store

// Run executes the full suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("employee lifecycle", func(t *testing.T) { testEmployeeLifecycle(t, newStore(t)) })
	t.Run("update missing employee", func(t *testing.T) { testUpdateMissingEmployee(t, newStore(t)) })
	t.Run("delete missing leaves others", func(t *testing.T) { testDeleteMissing(t, newStore(t)) })
	t.Run("population total", func(t *testing.T) { testPopulationTotal(t, newStore(t)) })
	t.Run("document lifecycle", func(t *testing.T) { testDocumentLifecycle(t, newStore(t)) })
	t.Run("investment update", func(t *testing.T) { testInvestmentUpdate(t, newStore(t)) })
	t.Run("activity per mutation", func(t *testing.T) { testActivityPerMutation(t, newStore(t)) })
	t.Run("lookups derived from data", func(t *testing.T) { testLookups(t, newStore(t)) })
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
}

func strPtr(s string) *string { return &s }

// TigistAbebe is the employee used across scenarios.
func TigistAbebe() model.EmployeeInput {
	return model.EmployeeInput{
		FirstName:  "Tigist",
		LastName:   "Abebe",
		Position:   "Head",
		Department: "Finance",
		Email:      "tigist.abebe@x.et",
		Phone:      "+251911234570",
		HireDate:   "2022-03-15",
		Status:     model.EmployeeActive,
	}
}

// Kebele01 is the population record used across scenarios.
func Kebele01() model.PopulationInput {
	return model.PopulationInput{
		Kebele:          "Kebele 01",
		MaleCount:       5240,
		FemaleCount:     5380,
		ChildrenCount:   3200,
		AdultCount:      6400,
		ElderlyCount:    1020,
		TotalPopulation: 10620,
		RecordDate:      "2023-05-15",
	}
}

// PlannedHotel is the investment used across scenarios.
func PlannedHotel() model.InvestmentInput {
	return model.InvestmentInput{
		InvestorName:           "Bekele Tadesse",
		CompanyName:            "Highland Hospitality",
		Sector:                 "Tourism",
		ProjectType:            "Hotel Construction",
		EstimatedCapital:       12000000,
		Location:               "Kebele 04",
		StartDate:              "2023-06-01",
		ExpectedCompletionDate: "2025-05-30",
		Status:                 model.InvestmentPlanned,
	}
}

func employeeCount(t *testing.T, s repository.Store) int {
	t.Helper()
	ctx := context.Background()
	n, err := s.EmployeeCount(ctx)
	require.NoError(t, err)
	all, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)
	return n
}

func documentCount(t *testing.T, s repository.Store) int {
	t.Helper()
	ctx := context.Background()
	n, err := s.DocumentCount(ctx)
	require.NoError(t, err)
	all, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)
	return n
}

func investmentCount(t *testing.T, s repository.Store) int {
	t.Helper()
	ctx := context.Background()
	n, err := s.InvestmentCount(ctx)
	require.NoError(t, err)
	all, err := s.ListInvestments(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)
	return n
}

func testEmployeeLifecycle(t *testing.T, s repository.Store) {
	ctx := context.Background()
	before := employeeCount(t, s)

	e, err := s.CreateEmployee(ctx, TigistAbebe())
	require.NoError(t, err)
	assert.NotZero(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.False(t, e.UpdatedAt.IsZero())
	assert.Equal(t, before+1, employeeCount(t, s))

	got, err := s.GetEmployee(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tigist", got.FirstName)
	assert.Equal(t, "Finance", got.Department)

	ok, err := s.DeleteEmployee(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.GetEmployee(ctx, e.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, before, employeeCount(t, s))
}

func testUpdateMissingEmployee(t *testing.T, s repository.Store) {
	ctx := context.Background()
	before := employeeCount(t, s)

	got, err := s.UpdateEmployee(ctx, 999999, model.EmployeePatch{Position: strPtr("Director")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, got)
	assert.Equal(t, before, employeeCount(t, s))

	inv, err := s.UpdateInvestment(ctx, 999999, model.InvestmentPatch{Status: strPtr(model.InvestmentCompleted)})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, inv)
}

func testDeleteMissing(t *testing.T, s repository.Store) {
	ctx := context.Background()
	e, err := s.CreateEmployee(ctx, TigistAbebe())
	require.NoError(t, err)
	before := employeeCount(t, s)

	ok, err := s.DeleteEmployee(ctx, 999999)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteDocument(ctx, 999999)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteInvestment(ctx, 999999)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, before, employeeCount(t, s))
	got, err := s.GetEmployee(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Email, got.Email)
}

func testPopulationTotal(t *testing.T, s repository.Store) {
	ctx := context.Background()
	before, err := s.TotalPopulation(ctx)
	require.NoError(t, err)

	r, err := s.CreatePopulationRecord(ctx, Kebele01())
	require.NoError(t, err)
	assert.NotZero(t, r.ID)
	assert.Equal(t, int64(10620), r.TotalPopulation)

	total, err := s.TotalPopulation(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+10620, total)

	records, err := s.ListPopulationRecords(ctx)
	require.NoError(t, err)
	var sum int64
	for _, rec := range records {
		sum += rec.TotalPopulation
	}
	assert.Equal(t, sum, total)
}

func testDocumentLifecycle(t *testing.T, s repository.Store) {
	ctx := context.Background()
	before := documentCount(t, s)

	d, err := s.CreateDocument(ctx, model.DocumentInput{
		Title:    "Land use policy",
		Category: "Policies",
		FilePath: "documents/land-use.pdf",
		FileSize: 2048,
		FileType: "application/pdf",
		Tags:     []string{"legal", "important"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"legal", "important"}, d.Tags)
	assert.False(t, d.UploadDate.IsZero())
	assert.Equal(t, before+1, documentCount(t, s))

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, docs)
	assert.Equal(t, d.ID, docs[0].ID, "newest document first")

	ok, err := s.DeleteDocument(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.GetDocument(ctx, d.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, before, documentCount(t, s))
}

func testInvestmentUpdate(t *testing.T, s repository.Store) {
	ctx := context.Background()
	before := investmentCount(t, s)

	inv, err := s.CreateInvestment(ctx, PlannedHotel())
	require.NoError(t, err)
	assert.Equal(t, model.InvestmentPlanned, inv.Status)
	assert.Equal(t, before+1, investmentCount(t, s))

	time.Sleep(2 * time.Millisecond)
	updated, err := s.UpdateInvestment(ctx, inv.ID, model.InvestmentPatch{Status: strPtr(model.InvestmentInProgress)})
	require.NoError(t, err)
	assert.Equal(t, model.InvestmentInProgress, updated.Status)
	assert.Equal(t, inv.CompanyName, updated.CompanyName, "fields outside the patch are kept")

	got, err := s.GetInvestment(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvestmentInProgress, got.Status)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
	assert.Equal(t, before+1, investmentCount(t, s))

	ok, err := s.DeleteInvestment(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, before, investmentCount(t, s))
}

func testActivityPerMutation(t *testing.T, s repository.Store) {
	ctx := repository.WithActor(context.Background(), "tester")

	mutations := []struct {
		name string
		run  func() error
		want string
	}{
		{"create employee", func() error { _, err := s.CreateEmployee(ctx, TigistAbebe()); return err }, "New employee added: Tigist Abebe"},
		{"create population", func() error { _, err := s.CreatePopulationRecord(ctx, Kebele01()); return err }, "Population record added for Kebele 01"},
		{"create investment", func() error { _, err := s.CreateInvestment(ctx, PlannedHotel()); return err }, "New investment recorded: Highland Hospitality"},
		{"create document", func() error {
			_, err := s.CreateDocument(ctx, model.DocumentInput{Title: "Budget", Category: "Reports", FilePath: "documents/b.pdf", FileType: "application/pdf", Tags: []string{}})
			return err
		}, "New document uploaded: Budget"},
	}

	for _, m := range mutations {
		before, err := s.RecentActivities(ctx, 1000)
		require.NoError(t, err)

		require.NoError(t, m.run(), m.name)

		after, err := s.RecentActivities(ctx, 1000)
		require.NoError(t, err)
		require.NotEmpty(t, after)
		assert.Equal(t, m.want, after[0].Action, m.name)
		assert.Equal(t, "tester", after[0].Actor, m.name)
		if len(before) > 0 {
			require.GreaterOrEqual(t, len(after), 2)
			assert.Equal(t, before[0].ID, after[1].ID, "%s appended more than one entry", m.name)
		}
	}

	recent, err := s.RecentActivities(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	for i := 1; i < len(recent); i++ {
		assert.False(t, recent[i].Timestamp.After(recent[i-1].Timestamp), "activities must be newest first")
	}

	past := time.Now().Add(-72 * time.Hour)
	a, err := s.AddActivity(ctx, "System initialized", "System", past)
	require.NoError(t, err)
	assert.WithinDuration(t, past, a.Timestamp, time.Second)

	latest, err := s.RecentActivities(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.NotEqual(t, "System initialized", latest[0].Action, "backdated entry is not the most recent")
}

func testLookups(t *testing.T, s repository.Store) {
	ctx := context.Background()

	in := TigistAbebe()
	in.Department = "Zz Lookup Department"
	_, err := s.CreateEmployee(ctx, in)
	require.NoError(t, err)
	_, err = s.CreateEmployee(ctx, in)
	require.NoError(t, err)

	deps, err := s.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Contains(t, deps, "Zz Lookup Department")
	assert.True(t, isSortedUnique(deps), "departments must be distinct and sorted: %v", deps)

	pop := Kebele01()
	pop.Kebele = "Kebele 99"
	_, err = s.CreatePopulationRecord(ctx, pop)
	require.NoError(t, err)
	kebeles, err := s.ListKebeles(ctx)
	require.NoError(t, err)
	assert.Contains(t, kebeles, "Kebele 99")
	assert.True(t, isSortedUnique(kebeles))

	inv := PlannedHotel()
	inv.Sector = "Zz Lookup Sector"
	_, err = s.CreateInvestment(ctx, inv)
	require.NoError(t, err)
	sectors, err := s.ListSectors(ctx)
	require.NoError(t, err)
	assert.Contains(t, sectors, "Zz Lookup Sector")
	assert.True(t, isSortedUnique(sectors))
}

func testUsers(t *testing.T, s repository.Store) {
	ctx := context.Background()
	name := "clerk-" + time.Now().Format("150405.000000000")

	u, err := s.CreateUser(ctx, model.NewUser{Username: name, Password: "opaque-hash"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultRole, u.Role)

	got, err := s.GetUserByUsername(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	byID, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, name, byID.Username)

	_, err = s.GetUserByUsername(ctx, name+"-missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func isSortedUnique(xs []string) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i-1] >= xs[i] {
			return false
		}
	}
	return true
}
