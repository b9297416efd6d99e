package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"subcity/internal/model"
	"subcity/internal/repository"
)

const populationColumns = `id, kebele, male_count, female_count, children_count, adult_count,
	elderly_count, total_population, record_date, created_at, updated_by`

func scanPopulation(sc scanner) (*model.PopulationRecord, error) {
	var r model.PopulationRecord
	if err := sc.Scan(
		&r.ID,
		&r.Kebele,
		&r.MaleCount,
		&r.FemaleCount,
		&r.ChildrenCount,
		&r.AdultCount,
		&r.ElderlyCount,
		&r.TotalPopulation,
		&r.RecordDate,
		&r.CreatedAt,
		&r.UpdatedBy,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListPopulationRecords(ctx context.Context) ([]model.PopulationRecord, error) {
	const q = `SELECT ` + populationColumns + ` FROM population_records ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.PopulationRecord, 0)
	for rows.Next() {
		r, err := scanPopulation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) CreatePopulationRecord(ctx context.Context, in model.PopulationInput) (*model.PopulationRecord, error) {
	const q = `
		INSERT INTO population_records (kebele, male_count, female_count, children_count,
			adult_count, elderly_count, total_population, record_date, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + populationColumns
	var out *model.PopulationRecord
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		r, err := scanPopulation(tx.QueryRowContext(ctx, q,
			in.Kebele,
			in.MaleCount,
			in.FemaleCount,
			in.ChildrenCount,
			in.AdultCount,
			in.ElderlyCount,
			in.TotalPopulation,
			in.RecordDate,
			in.UpdatedBy,
		))
		if err != nil {
			return fmt.Errorf("insert population record: %w", err)
		}
		if _, err := insertActivity(ctx, tx, repository.PopulationCreatedMsg(r.Kebele), repository.ActorFrom(ctx), time.Time{}); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) TotalPopulation(ctx context.Context) (int64, error) {
	const q = `SELECT COALESCE(SUM(total_population), 0) FROM population_records`
	var total int64
	if err := s.db.QueryRowContext(ctx, q).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListKebeles(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "population_records", "kebele")
}
