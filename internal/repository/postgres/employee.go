package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"subcity/internal/model"
	"subcity/internal/repository"
)

const employeeColumns = `id, first_name, last_name, position, department, email, phone,
	hire_date, status, address, emergency_contact, created_at, updated_at`

func scanEmployee(sc scanner) (*model.Employee, error) {
	var e model.Employee
	if err := sc.Scan(
		&e.ID,
		&e.FirstName,
		&e.LastName,
		&e.Position,
		&e.Department,
		&e.Email,
		&e.Phone,
		&e.HireDate,
		&e.Status,
		&e.Address,
		&e.EmergencyContact,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEmployees returns every employee by ascending id.
func (s *Store) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	const q = `SELECT ` + employeeColumns + ` FROM employees ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (*model.Employee, error) {
	const q = `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	e, err := scanEmployee(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, in model.EmployeeInput) (*model.Employee, error) {
	const q = `
		INSERT INTO employees (first_name, last_name, position, department, email, phone,
			hire_date, status, address, emergency_contact)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + employeeColumns
	status := in.Status
	if status == "" {
		status = model.EmployeeActive
	}
	var out *model.Employee
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		e, err := scanEmployee(tx.QueryRowContext(ctx, q,
			in.FirstName,
			in.LastName,
			in.Position,
			in.Department,
			in.Email,
			in.Phone,
			in.HireDate,
			status,
			in.Address,
			in.EmergencyContact,
		))
		if err != nil {
			return fmt.Errorf("insert employee: %w", err)
		}
		if _, err := insertActivity(ctx, tx, repository.EmployeeCreatedMsg(e.FullName()), repository.ActorFrom(ctx), time.Time{}); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateEmployee applies the non-nil patch fields. updated_at always moves forward,
// even when two updates land within the same clock tick.
func (s *Store) UpdateEmployee(ctx context.Context, id int64, p model.EmployeePatch) (*model.Employee, error) {
	const q = `
		UPDATE employees SET
			first_name        = COALESCE($2, first_name),
			last_name         = COALESCE($3, last_name),
			position          = COALESCE($4, position),
			department        = COALESCE($5, department),
			email             = COALESCE($6, email),
			phone             = COALESCE($7, phone),
			hire_date         = COALESCE($8, hire_date),
			status            = COALESCE($9, status),
			address           = COALESCE($10, address),
			emergency_contact = COALESCE($11, emergency_contact),
			updated_at        = GREATEST(now(), updated_at + interval '1 microsecond')
		WHERE id = $1
		RETURNING ` + employeeColumns
	var out *model.Employee
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		e, err := scanEmployee(tx.QueryRowContext(ctx, q, id,
			p.FirstName,
			p.LastName,
			p.Position,
			p.Department,
			p.Email,
			p.Phone,
			p.HireDate,
			p.Status,
			p.Address,
			p.EmergencyContact,
		))
		if err != nil {
			return notFound(err)
		}
		if _, err := insertActivity(ctx, tx, repository.EmployeeUpdatedMsg(e.FullName()), repository.ActorFrom(ctx), time.Time{}); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM employees WHERE id = $1 RETURNING first_name, last_name`
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var first, last string
		if err := tx.QueryRowContext(ctx, q, id).Scan(&first, &last); err != nil {
			return err
		}
		_, err := insertActivity(ctx, tx, repository.EmployeeDeletedMsg(first+" "+last), repository.ActorFrom(ctx), time.Time{})
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) EmployeeCount(ctx context.Context) (int, error) {
	return s.count(ctx, "employees")
}

func (s *Store) ListDepartments(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "employees", "department")
}
