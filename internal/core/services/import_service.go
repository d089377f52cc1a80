package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"siperu/internal/adapters/persistence/models"
	"siperu/internal/adapters/persistence/repositories"
	"siperu/internal/pkg/password"
	"siperu/internal/pkg/storage"
	"siperu/internal/pkg/validation"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// TemplateFileName is the fixed name of the downloadable import template
const TemplateFileName = "template_data_user.xlsx"

// importColumns is the expected header row of the import workbook
var importColumns = []string{"nama_lengkap", "username", "id_card", "role", "jenis_pengguna", "password"}

// ImportService handles bulk user import from spreadsheet files
type ImportService struct {
	userRepo    repositories.UserRepository
	store       *storage.Storage
	bucket      string
	templateDir string
}

// NewImportService creates a new import service
func NewImportService(userRepo repositories.UserRepository, store *storage.Storage, bucket, templateDir string) *ImportService {
	return &ImportService{
		userRepo:    userRepo,
		store:       store,
		bucket:      bucket,
		templateDir: templateDir,
	}
}

// FailedRow reports one spreadsheet row that could not be imported
type FailedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult reports the outcome of a bulk import. Succeeded rows are
// never rolled back; partial success is communicated via FailedRows.
type ImportResult struct {
	TotalRows        int
	CreatedOrUpdated int
	FailedRows       []FailedRow
	StoredPath       string
}

// Failed reports whether the import as a whole should be flagged as failed
func (r *ImportResult) Failed() bool {
	return r.TotalRows == 0 || r.CreatedOrUpdated == 0
}

// importRowInput carries one parsed spreadsheet row through validation.
// Password is optional in the sheet; a blank one defaults to the ID card.
type importRowInput struct {
	NamaLengkap   string `form:"nama_lengkap" validate:"required,max=255"`
	Username      string `form:"username" validate:"required,max=255"`
	IDCard        string `form:"id_card" validate:"required,max=255"`
	Role          string `form:"role" validate:"required,oneof=admin user"`
	JenisPengguna string `form:"jenis_pengguna" validate:"required,oneof=siswa guru"`
	Password      string `form:"password" validate:"omitempty,min=8"`
}

// ImportUsers stores the uploaded spreadsheet and imports its rows.
// Only .xlsx and .xls files are accepted.
func (s *ImportService) ImportUsers(ctx context.Context, file *multipart.FileHeader) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		return nil, validation.Errors{"file": "File harus berupa file Excel (XLSX, XLS)."}
	}

	stored, err := s.store.Save(file, s.bucket)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	result, err := s.importWorkbook(ctx, f)
	if err != nil {
		return nil, err
	}
	result.StoredPath = stored

	return result, nil
}

// ImportReader imports rows from an already-open spreadsheet stream
// without storing it, used when the caller handles storage itself.
func (s *ImportService) ImportReader(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return s.importWorkbook(ctx, f)
}

// importWorkbook walks the first sheet of a workbook row by row,
// creating or updating a user per row. Rows are independent; a failed
// row is reported and the rest continue.
func (s *ImportService) importWorkbook(ctx context.Context, f *excelize.File) (*ImportResult, error) {
	result := &ImportResult{FailedRows: []FailedRow{}}

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return result, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return result, nil
	}

	columns := headerIndex(rows[0])

	for i, row := range rows[1:] {
		rowNumber := i + 2 // spreadsheet numbering, header is row 1

		input := importRowInput{
			NamaLengkap:   cell(row, columns, "nama_lengkap"),
			Username:      cell(row, columns, "username"),
			IDCard:        cell(row, columns, "id_card"),
			Role:          strings.ToLower(cell(row, columns, "role")),
			JenisPengguna: strings.ToLower(cell(row, columns, "jenis_pengguna")),
			Password:      cell(row, columns, "password"),
		}

		if isEmptyRow(input) {
			continue
		}
		result.TotalRows++

		if reason, ok := s.importRow(ctx, &input); !ok {
			result.FailedRows = append(result.FailedRows, FailedRow{Row: rowNumber, Reason: reason})
			continue
		}
		result.CreatedOrUpdated++
	}

	return result, nil
}

// importRow creates or updates a single user, keyed by ID card
func (s *ImportService) importRow(ctx context.Context, input *importRowInput) (string, bool) {
	if errs := validation.Check(input); errs != nil {
		return errs.Error(), false
	}

	existing, err := s.userRepo.GetByIDCard(ctx, input.IDCard)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err.Error(), false
		}
		existing = nil
	}

	var excludeID uint
	if existing != nil {
		excludeID = existing.UserID
	}
	taken, err := s.userRepo.ExistsByUsername(ctx, input.Username, excludeID)
	if err != nil {
		return err.Error(), false
	}
	if taken {
		return MsgUsernameTaken, false
	}

	if existing != nil {
		existing.NamaLengkap = input.NamaLengkap
		existing.Username = input.Username
		existing.Role = input.Role
		existing.JenisPengguna = input.JenisPengguna
		if input.Password != "" {
			hashed, err := password.Hash(input.Password)
			if err != nil {
				return err.Error(), false
			}
			existing.Password = hashed
		}
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return err.Error(), false
		}
		return "", true
	}

	plain := input.Password
	if plain == "" {
		plain = input.IDCard
	}
	hashed, err := password.Hash(plain)
	if err != nil {
		return err.Error(), false
	}

	user := &models.User{
		NamaLengkap:   input.NamaLengkap,
		Username:      input.Username,
		IDCard:        input.IDCard,
		Role:          input.Role,
		JenisPengguna: input.JenisPengguna,
		Password:      hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err.Error(), false
	}
	return "", true
}

// TemplatePath returns where the import template lives in storage
func (s *ImportService) TemplatePath() string {
	return s.store.Path(s.templateDir, TemplateFileName)
}

// TemplateExists reports whether the template file is present
func (s *ImportService) TemplateExists() bool {
	return s.store.Exists(s.templateDir, TemplateFileName)
}

// EnsureTemplate writes the import template workbook when it is missing
func (s *ImportService) EnsureTemplate() error {
	if s.TemplateExists() {
		return nil
	}

	dir := filepath.Dir(s.TemplatePath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(importColumns))
	for i, col := range importColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	example := []interface{}{"Budi Santoso", "budi.santoso", "1234567890", "user", "siswa", "rahasia123"}
	if err := f.SetSheetRow(sheet, "A2", &example); err != nil {
		return err
	}

	return f.SaveAs(s.TemplatePath())
}

// headerIndex maps normalized header names to their column positions
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.ReplaceAll(key, " ", "_")
		index[key] = i
	}
	return index
}

func cell(row []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isEmptyRow(input importRowInput) bool {
	return input.NamaLengkap == "" && input.Username == "" && input.IDCard == "" &&
		input.Role == "" && input.JenisPengguna == "" && input.Password == ""
}
