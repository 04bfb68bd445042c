package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"tambohub/internal/household"
	"tambohub/pkg/database"
	"tambohub/pkg/models"
)

func main() {
	var (
		householdsIn = flag.String("households", "data/households.csv", "input CSV path for households")
		residentsIn  = flag.String("residents", "data/residents.csv", "input CSV path for residents")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	households, err := readHouseholds(*householdsIn)
	if err != nil {
		log.Fatalf("read households failed: %v", err)
	}
	if err := attachResidents(households, *residentsIn); err != nil {
		log.Fatalf("read residents failed: %v", err)
	}

	repo := household.NewRepo(db)
	imported := 0
	for _, number := range sortedNumbers(households) {
		h := households[number]
		if _, err := repo.Create(ctx, *h); err != nil {
			log.Fatalf("import household #%s failed: %v", number, err)
		}
		imported++
	}

	log.Printf("✅ imported %d households from %s and %s", imported, *householdsIn, *residentsIn)
}

// readHouseholds loads the household rows keyed by household number,
// which is how the residents file refers back to them.
func readHouseholds(path string) (map[string]*models.Household, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*models.Household)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		number := valueAt(header, row, "household_number")
		if number == "" {
			continue
		}
		if _, dup := out[number]; dup {
			return nil, fmt.Errorf("duplicate household number %q", number)
		}

		out[number] = &models.Household{
			HouseholdNumber: number,
			Type:            valueAt(header, row, "type"),
			Zone:            valueAt(header, row, "zone"),
			Status:          valueAt(header, row, "status"),
			DateOfResidency: valueAt(header, row, "date_of_residency"),
		}
	}
	return out, nil
}

func attachResidents(households map[string]*models.Household, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		number := valueAt(header, row, "household_number")
		h, ok := households[number]
		if !ok {
			return fmt.Errorf("resident row refers to unknown household %q", number)
		}

		income, err := parseFloat(valueAt(header, row, "income"))
		if err != nil {
			return fmt.Errorf("parse income for household %s: %w", number, err)
		}

		h.Residents = append(h.Residents, models.Resident{
			Firstname: valueAt(header, row, "firstname"),
			Lastname:  valueAt(header, row, "lastname"),
			Role:      valueAt(header, row, "role"),
			Income:    income,
		})
	}
	return nil
}

func sortedNumbers(households map[string]*models.Household) []string {
	numbers := make([]string, 0, len(households))
	for n := range households {
		numbers = append(numbers, n)
	}
	// numeric household numbers sort numerically, anything else falls
	// back to string order
	sort.Slice(numbers, func(i, j int) bool {
		return lessNumber(numbers[i], numbers[j])
	})
	return numbers
}

func lessNumber(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}
