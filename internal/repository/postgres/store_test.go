package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subcity/internal/model"
	"subcity/internal/repository"
	"subcity/internal/repository/storetest"
)

var (
	employeeCols = []string{"id", "first_name", "last_name", "position", "department", "email", "phone",
		"hire_date", "status", "address", "emergency_contact", "created_at", "updated_at"}
	documentCols = []string{"id", "title", "category", "description", "file_path", "file_size", "file_type",
		"tags", "upload_date", "uploaded_by"}
	investmentCols = []string{"id", "investor_name", "company_name", "sector", "project_type", "estimated_capital",
		"location", "start_date", "expected_completion_date", "status", "description", "contact_email",
		"contact_phone", "created_at", "updated_at", "created_by"}
	activityCols = []string{"id", "action", "actor", "timestamp"}
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func activityRow(id int64, action, actor string, at time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(activityCols).AddRow(id, action, actor, at)
}

func TestStore_CreateEmployee(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := repository.WithActor(context.Background(), "clerk")
	now := time.Now().UTC()
	in := storetest.TigistAbebe()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO employees").
		WithArgs(in.FirstName, in.LastName, in.Position, in.Department, in.Email, in.Phone,
			in.HireDate, in.Status, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(employeeCols).AddRow(
			1, in.FirstName, in.LastName, in.Position, in.Department, in.Email, in.Phone,
			in.HireDate, in.Status, nil, nil, now, now))
	mock.ExpectQuery("INSERT INTO activities").
		WithArgs("New employee added: Tigist Abebe", "clerk", sqlmock.AnyArg()).
		WillReturnRows(activityRow(7, "New employee added: Tigist Abebe", "clerk", now))
	mock.ExpectCommit()

	e, err := s.CreateEmployee(ctx, in)

	require.NoError(t, err)
	assert.Equal(t, int64(1), e.ID)
	assert.Nil(t, e.Address)
	assert.Equal(t, now, e.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateEmployee_DefaultsStatus(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()
	in := storetest.TigistAbebe()
	in.Status = ""

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO employees").
		WithArgs(in.FirstName, in.LastName, in.Position, in.Department, in.Email, in.Phone,
			in.HireDate, model.EmployeeActive, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(employeeCols).AddRow(
			1, in.FirstName, in.LastName, in.Position, in.Department, in.Email, in.Phone,
			in.HireDate, model.EmployeeActive, nil, nil, now, now))
	mock.ExpectQuery("INSERT INTO activities").
		WithArgs(sqlmock.AnyArg(), repository.DefaultActor, sqlmock.AnyArg()).
		WillReturnRows(activityRow(1, "x", repository.DefaultActor, now))
	mock.ExpectCommit()

	e, err := s.CreateEmployee(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, model.EmployeeActive, e.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateEmployee_ActivityFailureRollsBack(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()
	in := storetest.TigistAbebe()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO employees").
		WillReturnRows(sqlmock.NewRows(employeeCols).AddRow(
			1, in.FirstName, in.LastName, in.Position, in.Department, in.Email, in.Phone,
			in.HireDate, in.Status, nil, nil, now, now))
	mock.ExpectQuery("INSERT INTO activities").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	e, err := s.CreateEmployee(context.Background(), in)

	assert.Nil(t, e)
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateEmployee(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		s, mock := newMockStore(t)
		pos := "Director"

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE employees SET").
			WithArgs(int64(3), nil, nil, &pos, nil, nil, nil, nil, nil, nil, nil).
			WillReturnRows(sqlmock.NewRows(employeeCols).AddRow(
				3, "Tigist", "Abebe", pos, "Finance", "t@x.et", "+251", "2022-03-15", "active",
				nil, nil, now.Add(-time.Hour), now))
		mock.ExpectQuery("INSERT INTO activities").
			WithArgs("Employee updated: Tigist Abebe", repository.DefaultActor, sqlmock.AnyArg()).
			WillReturnRows(activityRow(2, "Employee updated: Tigist Abebe", repository.DefaultActor, now))
		mock.ExpectCommit()

		e, err := s.UpdateEmployee(ctx, 3, model.EmployeePatch{Position: &pos})

		require.NoError(t, err)
		assert.Equal(t, "Director", e.Position)
		assert.True(t, e.UpdatedAt.After(e.CreatedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE employees SET").WillReturnRows(sqlmock.NewRows(employeeCols))
		mock.ExpectRollback()

		e, err := s.UpdateEmployee(ctx, 999, model.EmployeePatch{})

		assert.Nil(t, e)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_DeleteEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM employees WHERE id = $1 RETURNING first_name, last_name")).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"first_name", "last_name"}).AddRow("Tigist", "Abebe"))
		mock.ExpectQuery("INSERT INTO activities").
			WithArgs("Employee deleted: Tigist Abebe", repository.DefaultActor, sqlmock.AnyArg()).
			WillReturnRows(activityRow(3, "Employee deleted: Tigist Abebe", repository.DefaultActor, time.Now()))
		mock.ExpectCommit()

		ok, err := s.DeleteEmployee(ctx, 4)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery("DELETE FROM employees").
			WithArgs(int64(999)).
			WillReturnRows(sqlmock.NewRows([]string{"first_name", "last_name"}))
		mock.ExpectRollback()

		ok, err := s.DeleteEmployee(ctx, 999)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery("DELETE FROM employees").WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		ok, err := s.DeleteEmployee(ctx, 1)

		assert.Error(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_Documents(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("create stores tags", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO documents").
			WithArgs("Land use policy", "Policies", sqlmock.AnyArg(), "documents/land-use.pdf", int64(2048),
				"application/pdf", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(documentCols).AddRow(
				5, "Land use policy", "Policies", nil, "documents/land-use.pdf", 2048, "application/pdf",
				"{legal,important}", now, nil))
		mock.ExpectQuery("INSERT INTO activities").
			WithArgs("New document uploaded: Land use policy", repository.DefaultActor, sqlmock.AnyArg()).
			WillReturnRows(activityRow(4, "New document uploaded: Land use policy", repository.DefaultActor, now))
		mock.ExpectCommit()

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
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list newest first", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY upload_date DESC, id DESC")).
			WillReturnRows(sqlmock.NewRows(documentCols).
				AddRow(2, "B", "Reports", nil, "documents/b.pdf", 10, "application/pdf", "{}", now, nil).
				AddRow(1, "A", "Reports", "desc", "documents/a.pdf", 10, "application/pdf", "{x}", now.Add(-time.Minute), 1))

		docs, err := s.ListDocuments(ctx)

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, int64(2), docs[0].ID)
		assert.Equal(t, []string{}, docs[0].Tags)
		require.NotNil(t, docs[1].Description)
		assert.Equal(t, "desc", *docs[1].Description)
		require.NotNil(t, docs[1].UploadedBy)
		assert.Equal(t, int64(1), *docs[1].UploadedBy)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get missing", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs(int64(42)).
			WillReturnError(sql.ErrNoRows)

		d, err := s.GetDocument(ctx, 42)

		assert.Nil(t, d)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_UpdateInvestment(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()
	status := model.InvestmentInProgress

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE investments SET").
		WithArgs(int64(2), nil, nil, nil, nil, nil, nil, nil, nil, &status, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(investmentCols).AddRow(
			2, "Abebe Kebede", "Highland Hospitality", "Tourism", "Hotel", 50000000,
			"Bole", "2023-01-01", "2024-12-31", status, nil, nil, nil, now.Add(-time.Hour), now, nil))
	mock.ExpectQuery("INSERT INTO activities").
		WithArgs("Investment updated: Highland Hospitality", repository.DefaultActor, sqlmock.AnyArg()).
		WillReturnRows(activityRow(9, "Investment updated: Highland Hospitality", repository.DefaultActor, now))
	mock.ExpectCommit()

	inv, err := s.UpdateInvestment(context.Background(), 2, model.InvestmentPatch{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, status, inv.Status)
	assert.Equal(t, int64(50000000), inv.EstimatedCapital)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Aggregates(t *testing.T) {
	ctx := context.Background()

	t.Run("total population", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(total_population), 0) FROM population_records")).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(45260))

		total, err := s.TotalPopulation(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(45260), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("counts", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM employees")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM documents")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM investments")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		e, err := s.EmployeeCount(ctx)
		require.NoError(t, err)
		d, err := s.DocumentCount(ctx)
		require.NoError(t, err)
		i, err := s.InvestmentCount(ctx)
		require.NoError(t, err)

		assert.Equal(t, []int{4, 0, 3}, []int{e, d, i})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("departments", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT department COLLATE "C" AS department FROM employees ORDER BY 1`)).
			WillReturnRows(sqlmock.NewRows([]string{"department"}).
				AddRow("Administration").AddRow("Finance").AddRow("Urban Development"))

		deps, err := s.ListDepartments(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"Administration", "Finance", "Urban Development"}, deps)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty sectors", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT DISTINCT sector").
			WillReturnRows(sqlmock.NewRows([]string{"sector"}))

		sectors, err := s.ListSectors(ctx)

		require.NoError(t, err)
		assert.NotNil(t, sectors)
		assert.Empty(t, sectors)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_Activities(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("recent uses default limit", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, action, actor, timestamp FROM activities")).
			WithArgs(repository.DefaultRecentActivities).
			WillReturnRows(sqlmock.NewRows(activityCols).
				AddRow(2, "Employee updated: A B", "Admin", now).
				AddRow(1, "Default data populated", "System", now.Add(-time.Minute)))

		got, err := s.RecentActivities(ctx, 0)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("add with empty actor", func(t *testing.T) {
		s, mock := newMockStore(t)
		past := now.Add(-72 * time.Hour)
		mock.ExpectQuery(regexp.QuoteMeta("RETURNING id, action, actor, timestamp")).
			WithArgs("System initialized", "System", past).
			WillReturnRows(activityRow(10, "System initialized", "System", past))

		a, err := s.AddActivity(ctx, "System initialized", "", past)

		require.NoError(t, err)
		assert.Equal(t, "System", a.Actor)
		assert.Equal(t, past, a.Timestamp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	userCols := []string{"id", "username", "password", "role", "created_at"}

	t.Run("create defaults role", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("clerk", "hash", model.DefaultRole).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(2, "clerk", "hash", model.DefaultRole, now))
		mock.ExpectQuery("INSERT INTO activities").
			WithArgs("New user registered: clerk", repository.DefaultActor, sqlmock.AnyArg()).
			WillReturnRows(activityRow(11, "New user registered: clerk", repository.DefaultActor, now))
		mock.ExpectCommit()

		u, err := s.CreateUser(ctx, model.NewUser{Username: "clerk", Password: "hash"})

		require.NoError(t, err)
		assert.Equal(t, model.DefaultRole, u.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing username", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows(userCols))

		u, err := s.GetUserByUsername(ctx, "ghost")

		assert.Nil(t, u)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
