package mapping

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"tambohub/pkg/models"
)

var (
	// ErrDuplicateFID means a mapping already exists for the feature.
	// The fid column is UNIQUE, so two concurrent creates for the same
	// feature cannot both land.
	ErrDuplicateFID = errors.New("mapping already exists for fid")

	ErrHouseholdNotFound = errors.New("household not found")
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const mappingColumns = `
	m.id, m.fid, m.mapping_name, m.type, m.household_id, m.created_at,
	h.household_number, h.type, h.zone, h.status, h.date_of_residency
`

func (r *Repo) List(ctx context.Context) ([]models.Mapping, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+mappingColumns+`
		FROM mappings m
		LEFT JOIN households h ON h.id = m.household_id
		ORDER BY m.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	defer rows.Close()

	out := make([]models.Mapping, 0)
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	if err := r.fillMembers(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetByFID(ctx context.Context, fid int64) (*models.Mapping, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+mappingColumns+`
		FROM mappings m
		LEFT JOIN households h ON h.id = m.household_id
		WHERE m.fid = ?
	`, fid)

	m, err := scanMapping(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Create inserts a mapping inside one transaction: the household link
// is verified and the row inserted together, so a dangling household
// id cannot be stored. A second mapping for the same fid fails with
// ErrDuplicateFID.
func (r *Repo) Create(ctx context.Context, m models.Mapping) (*models.Mapping, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create mapping: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if m.HouseholdID != nil {
		var one int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM households WHERE id = ?`, *m.HouseholdID,
		).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHouseholdNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("check household: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO mappings (fid, mapping_name, type, household_id)
		VALUES (?, ?, ?, ?)
	`, m.FID, m.MappingName, m.Type, m.HouseholdID); err != nil {
		var serr sqlite3.Error
		if errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrDuplicateFID
		}
		return nil, fmt.Errorf("insert mapping: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create mapping: %w", err)
	}

	return r.GetByFID(ctx, m.FID)
}

func (r *Repo) DeleteByFID(ctx context.Context, fid int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM mappings WHERE fid = ?`, fid)
	if err != nil {
		return false, fmt.Errorf("delete mapping: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete mapping rows: %w", err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMapping(row rowScanner) (models.Mapping, error) {
	var (
		m           models.Mapping
		householdID sql.NullInt64
		hNumber     sql.NullString
		hType       sql.NullString
		hZone       sql.NullString
		hStatus     sql.NullString
		hResidency  sql.NullString
	)

	if err := row.Scan(
		&m.ID, &m.FID, &m.MappingName, &m.Type, &householdID, &m.CreatedAt,
		&hNumber, &hType, &hZone, &hStatus, &hResidency,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return m, err
		}
		return m, fmt.Errorf("scan mapping: %w", err)
	}

	if householdID.Valid {
		id := householdID.Int64
		m.HouseholdID = &id
		m.Household = &models.MappingHousehold{
			HouseholdNumber: hNumber.String,
			HouseholdType:   hType.String,
			Zone:            hZone.String,
			Status:          hStatus.String,
			DateOfResidency: hResidency.String,
		}
	}
	return m, nil
}

// fillMembers loads the member summaries for every mapping that links
// a household.
func (r *Repo) fillMembers(ctx context.Context, mappings []models.Mapping) error {
	byHousehold := make(map[int64][]*models.Mapping)
	for i := range mappings {
		if mappings[i].HouseholdID != nil {
			id := *mappings[i].HouseholdID
			byHousehold[id] = append(byHousehold[id], &mappings[i])
		}
	}
	if len(byHousehold) == 0 {
		return nil
	}

	ids := make([]any, 0, len(byHousehold))
	placeholders := make([]string, 0, len(byHousehold))
	for id := range byHousehold {
		ids = append(ids, id)
		placeholders = append(placeholders, "?")
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT household_id, id, role
		FROM residents
		WHERE household_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY id ASC
	`, ids...)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			householdID int64
			member      models.MappingMember
		)
		if err := rows.Scan(&householdID, &member.ID, &member.Role); err != nil {
			return fmt.Errorf("scan member: %w", err)
		}
		for _, m := range byHousehold[householdID] {
			if m.Household != nil {
				m.Household.Members = append(m.Household.Members, member)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("members rows err: %w", err)
	}
	return nil
}
