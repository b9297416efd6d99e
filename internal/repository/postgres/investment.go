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

const investmentColumns = `id, investor_name, company_name, sector, project_type, estimated_capital,
	location, start_date, expected_completion_date, status, description, contact_email,
	contact_phone, created_at, updated_at, created_by`

func scanInvestment(sc scanner) (*model.Investment, error) {
	var inv model.Investment
	if err := sc.Scan(
		&inv.ID,
		&inv.InvestorName,
		&inv.CompanyName,
		&inv.Sector,
		&inv.ProjectType,
		&inv.EstimatedCapital,
		&inv.Location,
		&inv.StartDate,
		&inv.ExpectedCompletionDate,
		&inv.Status,
		&inv.Description,
		&inv.ContactEmail,
		&inv.ContactPhone,
		&inv.CreatedAt,
		&inv.UpdatedAt,
		&inv.CreatedBy,
	); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvestments returns investments newest first.
func (s *Store) ListInvestments(ctx context.Context) ([]model.Investment, error) {
	const q = `
		SELECT ` + investmentColumns + `
		FROM investments
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Investment, 0)
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func (s *Store) GetInvestment(ctx context.Context, id int64) (*model.Investment, error) {
	const q = `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1`
	inv, err := scanInvestment(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return inv, nil
}

func (s *Store) CreateInvestment(ctx context.Context, in model.InvestmentInput) (*model.Investment, error) {
	const q = `
		INSERT INTO investments (investor_name, company_name, sector, project_type, estimated_capital,
			location, start_date, expected_completion_date, status, description, contact_email,
			contact_phone, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + investmentColumns
	status := in.Status
	if status == "" {
		status = model.InvestmentPlanned
	}
	var out *model.Investment
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		inv, err := scanInvestment(tx.QueryRowContext(ctx, q,
			in.InvestorName,
			in.CompanyName,
			in.Sector,
			in.ProjectType,
			in.EstimatedCapital,
			in.Location,
			in.StartDate,
			in.ExpectedCompletionDate,
			status,
			in.Description,
			in.ContactEmail,
			in.ContactPhone,
			in.CreatedBy,
		))
		if err != nil {
			return fmt.Errorf("insert investment: %w", err)
		}
		if _, err := insertActivity(ctx, tx, repository.InvestmentCreatedMsg(inv.CompanyName), repository.ActorFrom(ctx), time.Time{}); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpdateInvestment(ctx context.Context, id int64, p model.InvestmentPatch) (*model.Investment, error) {
	const q = `
		UPDATE investments SET
			investor_name            = COALESCE($2, investor_name),
			company_name             = COALESCE($3, company_name),
			sector                   = COALESCE($4, sector),
			project_type             = COALESCE($5, project_type),
			estimated_capital        = COALESCE($6, estimated_capital),
			location                 = COALESCE($7, location),
			start_date               = COALESCE($8, start_date),
			expected_completion_date = COALESCE($9, expected_completion_date),
			status                   = COALESCE($10, status),
			description              = COALESCE($11, description),
			contact_email            = COALESCE($12, contact_email),
			contact_phone            = COALESCE($13, contact_phone),
			updated_at               = GREATEST(now(), updated_at + interval '1 microsecond')
		WHERE id = $1
		RETURNING ` + investmentColumns
	var out *model.Investment
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		inv, err := scanInvestment(tx.QueryRowContext(ctx, q, id,
			p.InvestorName,
			p.CompanyName,
			p.Sector,
			p.ProjectType,
			p.EstimatedCapital,
			p.Location,
			p.StartDate,
			p.ExpectedCompletionDate,
			p.Status,
			p.Description,
			p.ContactEmail,
			p.ContactPhone,
		))
		if err != nil {
			return notFound(err)
		}
		if _, err := insertActivity(ctx, tx, repository.InvestmentUpdatedMsg(inv.CompanyName), repository.ActorFrom(ctx), time.Time{}); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteInvestment(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM investments WHERE id = $1 RETURNING company_name`
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var company string
		if err := tx.QueryRowContext(ctx, q, id).Scan(&company); err != nil {
			return err
		}
		_, err := insertActivity(ctx, tx, repository.InvestmentDeletedMsg(company), repository.ActorFrom(ctx), time.Time{})
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

func (s *Store) InvestmentCount(ctx context.Context) (int, error) {
	return s.count(ctx, "investments")
}

func (s *Store) ListSectors(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "investments", "sector")
}
