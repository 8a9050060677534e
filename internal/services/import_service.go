package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/repositories"
	"github.com/portaria-app/backend/internal/utils"
)

// Error messages beyond this count are summarized, not listed.
const maxImportErrors = 10

// ImportService bulk-loads phones from a resident spreadsheet.
type ImportService interface {
	// ImportPhones reads CSV rows "apartment_number,phone,name".
	// Incomplete rows are skipped and reported, duplicates are skipped
	// silently, unknown apartment numbers are reported as errors.
	ImportPhones(ctx context.Context, buildingID uuid.UUID, r io.Reader) (*dtos.ImportResult, error)
}

type importService struct {
	apartmentRepo repositories.ApartmentRepository
	phoneRepo     repositories.PhoneRepository
}

func NewImportService(
	apartmentRepo repositories.ApartmentRepository,
	phoneRepo repositories.PhoneRepository,
) ImportService {
	return &importService{apartmentRepo: apartmentRepo, phoneRepo: phoneRepo}
}

func (s *importService) ImportPhones(ctx context.Context, buildingID uuid.UUID, r io.Reader) (*dtos.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: 400,
			Code:       utils.ErrCodeValidation,
			Message:    "CSV file is empty or unreadable",
			Err:        err,
		}
	}

	cols, err := headerIndexes(header)
	if err != nil {
		return nil, err
	}

	result := &dtos.ImportResult{Errors: []string{}}
	suppressed := 0
	line := 1

	addError := func(msg string) {
		if len(result.Errors) < maxImportErrors {
			result.Errors = append(result.Errors, msg)
		} else {
			suppressed++
		}
	}

	// Apartments resolved once per number, not once per row.
	apartmentCache := make(map[int]*models.Apartment)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			addError(fmt.Sprintf("line %d: malformed row", line))
			continue
		}

		aptStr := field(record, cols.apartment)
		number := field(record, cols.phone)
		name := field(record, cols.name)
		if aptStr == "" || number == "" || name == "" {
			result.Skipped++
			addError(fmt.Sprintf("line %d: missing required columns", line))
			continue
		}

		aptNumber, convErr := strconv.Atoi(aptStr)
		if convErr != nil {
			result.Skipped++
			addError(fmt.Sprintf("line %d: invalid apartment number %q", line, aptStr))
			continue
		}

		apartment, ok := apartmentCache[aptNumber]
		if !ok {
			apartment, err = s.apartmentRepo.GetByNumber(ctx, buildingID, aptNumber)
			if err != nil {
				return nil, err
			}
			apartmentCache[aptNumber] = apartment
		}
		if apartment == nil {
			result.Skipped++
			addError(fmt.Sprintf("line %d: apartment %d does not exist", line, aptNumber))
			continue
		}

		exists, err := s.phoneRepo.Exists(ctx, apartment.ID, number)
		if err != nil {
			return nil, err
		}
		if exists {
			// Re-imports of the same sheet are expected; stay quiet.
			result.Skipped++
			continue
		}

		phone := &models.Phone{
			ID:          uuid.New(),
			BuildingID:  buildingID,
			ApartmentID: apartment.ID,
			Number:      number,
			Name:        name,
		}
		if err := s.phoneRepo.Create(ctx, phone); err != nil {
			return nil, err
		}
		result.Imported++
	}

	if suppressed > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("and %d more errors", suppressed))
	}

	utils.Logger.WithField("building_id", buildingID).Infof(
		"Phone import finished: %d imported, %d skipped", result.Imported, result.Skipped)
	return result, nil
}

// ---------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------

type columnIndexes struct {
	apartment int
	phone     int
	name      int
}

func headerIndexes(header []string) (columnIndexes, error) {
	cols := columnIndexes{apartment: -1, phone: -1, name: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "apartment_number":
			cols.apartment = i
		case "phone":
			cols.phone = i
		case "name":
			cols.name = i
		}
	}
	if cols.apartment < 0 || cols.phone < 0 || cols.name < 0 {
		return cols, &utils.AppError{
			StatusCode: 400,
			Code:       utils.ErrCodeValidation,
			Message:    "CSV header must contain apartment_number, phone and name",
		}
	}
	return cols, nil
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
