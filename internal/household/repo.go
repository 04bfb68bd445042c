package household

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tambohub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) List(ctx context.Context) ([]models.Household, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, household_number, type, zone, status, date_of_residency
		FROM households
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list households: %w", err)
	}
	defer rows.Close()

	out := make([]models.Household, 0)
	index := make(map[int64]int)
	for rows.Next() {
		h, err := scanHousehold(rows)
		if err != nil {
			return nil, err
		}
		index[h.ID] = len(out)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	resRows, err := r.DB.QueryContext(ctx, `
		SELECT id, household_id, firstname, lastname, role, income
		FROM residents
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list residents: %w", err)
	}
	defer resRows.Close()

	for resRows.Next() {
		res, err := scanResident(resRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[res.HouseholdID]; ok {
			out[i].Residents = append(out[i].Residents, res)
		}
	}
	if err := resRows.Err(); err != nil {
		return nil, fmt.Errorf("residents rows err: %w", err)
	}

	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Household, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, household_number, type, zone, status, date_of_residency
		FROM households
		WHERE id = ?
	`, id)

	h, err := scanHousehold(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	resRows, err := r.DB.QueryContext(ctx, `
		SELECT id, household_id, firstname, lastname, role, income
		FROM residents
		WHERE household_id = ?
		ORDER BY id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get residents: %w", err)
	}
	defer resRows.Close()

	for resRows.Next() {
		res, err := scanResident(resRows)
		if err != nil {
			return nil, err
		}
		h.Residents = append(h.Residents, res)
	}
	if err := resRows.Err(); err != nil {
		return nil, fmt.Errorf("residents rows err: %w", err)
	}

	return &h, nil
}

// Create inserts a household with its residents; used by the CSV
// importer, the map engine itself never writes households.
func (r *Repo) Create(ctx context.Context, h models.Household) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create household: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO households (household_number, type, zone, status, date_of_residency)
		VALUES (?, ?, ?, ?, ?)
	`, h.HouseholdNumber, h.Type, h.Zone, h.Status, h.DateOfResidency)
	if err != nil {
		return 0, fmt.Errorf("insert household: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("household id: %w", err)
	}

	for _, resident := range h.Residents {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO residents (household_id, firstname, lastname, role, income)
			VALUES (?, ?, ?, ?, ?)
		`, id, resident.Firstname, resident.Lastname, resident.Role, resident.Income); err != nil {
			return 0, fmt.Errorf("insert resident: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create household: %w", err)
	}
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHousehold(row rowScanner) (models.Household, error) {
	var (
		h         models.Household
		hType     sql.NullString
		zone      sql.NullString
		status    sql.NullString
		residency sql.NullString
	)
	if err := row.Scan(&h.ID, &h.HouseholdNumber, &hType, &zone, &status, &residency); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return h, err
		}
		return h, fmt.Errorf("scan household: %w", err)
	}
	h.Type = hType.String
	h.Zone = zone.String
	h.Status = status.String
	h.DateOfResidency = residency.String
	return h, nil
}

func scanResident(row rowScanner) (models.Resident, error) {
	var (
		res    models.Resident
		role   sql.NullString
		income sql.NullFloat64
	)
	if err := row.Scan(&res.ID, &res.HouseholdID, &res.Firstname, &res.Lastname, &role, &income); err != nil {
		return res, fmt.Errorf("scan resident: %w", err)
	}
	res.Role = role.String
	res.Income = income.Float64
	return res, nil
}
