package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"siperu/internal/adapters/persistence/models"
	"siperu/internal/core/services"
	"siperu/internal/pkg/password"
	"siperu/internal/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// brokenLookupUserRepo fails every id-card lookup with a fixed error
type brokenLookupUserRepo struct {
	*fakeUserRepo
	lookupErr error
}

func (r *brokenLookupUserRepo) GetByIDCard(_ context.Context, _ string) (*models.User, error) {
	return nil, r.lookupErr
}

func newImportService(t *testing.T) (*services.ImportService, *fakeUserRepo) {
	t.Helper()

	userRepo := newFakeUserRepo()
	store := storage.New(t.TempDir())
	return services.NewImportService(userRepo, store, "imports_data_user", "templates"), userRepo
}

// workbook builds an in-memory xlsx with the given rows under the
// standard import header
func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"nama_lengkap", "username", "id_card", "role", "jenis_pengguna", "password"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))

	for i, row := range rows {
		cellRef := fmt.Sprintf("A%d", i+2)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportService_ImportReader(t *testing.T) {
	ctx := context.Background()

	t.Run("valid rows create users", func(t *testing.T) {
		svc, userRepo := newImportService(t)

		buf := workbook(t,
			[]interface{}{"Budi Santoso", "budi.santoso", "1234567890", "user", "siswa", "rahasia123"},
			[]interface{}{"Siti Aminah", "siti.aminah", "0987654321", "user", "guru", "rahasia456"},
		)

		result, err := svc.ImportReader(ctx, buf)
		require.NoError(t, err)

		assert.Equal(t, 2, result.TotalRows)
		assert.Equal(t, 2, result.CreatedOrUpdated)
		assert.Empty(t, result.FailedRows)
		assert.False(t, result.Failed())
		assert.Len(t, userRepo.users, 2)
	})

	t.Run("blank password defaults to the id card", func(t *testing.T) {
		svc, userRepo := newImportService(t)

		buf := workbook(t,
			[]interface{}{"Budi Santoso", "budi.santoso", "1234567890", "user", "siswa", ""},
		)

		result, err := svc.ImportReader(ctx, buf)
		require.NoError(t, err)
		require.Equal(t, 1, result.CreatedOrUpdated)

		user, err := userRepo.GetByIDCard(ctx, "1234567890")
		require.NoError(t, err)
		assert.True(t, password.Verify("1234567890", user.Password))
	})

	t.Run("existing id card updates in place", func(t *testing.T) {
		svc, userRepo := newImportService(t)

		require.NoError(t, userRepo.Create(ctx, &models.User{
			NamaLengkap:   "Budi Santoso",
			Username:      "budi.santoso",
			IDCard:        "1234567890",
			Role:          models.RoleUser,
			JenisPengguna: models.JenisSiswa,
			Password:      "old-hash",
		}))

		buf := workbook(t,
			[]interface{}{"Budi S. Wijaya", "budi.wijaya", "1234567890", "user", "guru", ""},
		)

		result, err := svc.ImportReader(ctx, buf)
		require.NoError(t, err)
		assert.Equal(t, 1, result.CreatedOrUpdated)
		assert.Len(t, userRepo.users, 1, "no second record for the same id card")

		user, err := userRepo.GetByIDCard(ctx, "1234567890")
		require.NoError(t, err)
		assert.Equal(t, "Budi S. Wijaya", user.NamaLengkap)
		assert.Equal(t, "budi.wijaya", user.Username)
		assert.Equal(t, models.JenisGuru, user.JenisPengguna)
		assert.Equal(t, "old-hash", user.Password, "blank password keeps the stored hash")
	})

	t.Run("bad rows are reported, good rows still land", func(t *testing.T) {
		svc, userRepo := newImportService(t)

		buf := workbook(t,
			[]interface{}{"", "no.name", "111", "user", "siswa", ""},
			[]interface{}{"Siti Aminah", "siti.aminah", "222", "user", "guru", ""},
			[]interface{}{"Agus Wijaya", "agus.wijaya", "333", "manajer", "siswa", ""},
		)

		result, err := svc.ImportReader(ctx, buf)
		require.NoError(t, err)

		assert.Equal(t, 3, result.TotalRows)
		assert.Equal(t, 1, result.CreatedOrUpdated)
		assert.False(t, result.Failed())
		require.Len(t, result.FailedRows, 2)
		assert.Equal(t, 2, result.FailedRows[0].Row)
		assert.Contains(t, result.FailedRows[0].Reason, "Nama lengkap wajib diisi.")
		assert.Equal(t, 4, result.FailedRows[1].Row)
		assert.Contains(t, result.FailedRows[1].Reason, "Role yang dipilih tidak valid.")
		assert.Len(t, userRepo.users, 1)
	})

	t.Run("duplicate username across rows", func(t *testing.T) {
		svc, _ := newImportService(t)

		buf := workbook(t,
			[]interface{}{"Budi Santoso", "sama.saja", "111", "user", "siswa", ""},
			[]interface{}{"Siti Aminah", "sama.saja", "222", "user", "guru", ""},
		)

		result, err := svc.ImportReader(ctx, buf)
		require.NoError(t, err)
		assert.Equal(t, 1, result.CreatedOrUpdated)
		require.Len(t, result.FailedRows, 1)
		assert.Equal(t, services.MsgUsernameTaken, result.FailedRows[0].Reason)
	})

	t.Run("lookup failure is reported, not treated as a new record", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		broken := &brokenLookupUserRepo{fakeUserRepo: userRepo, lookupErr: errors.New("driver: bad connection")}
		svc := services.NewImportService(broken, storage.New(t.TempDir()), "imports_data_user", "templates")

		buf := workbook(t,
			[]interface{}{"Budi Santoso", "budi.santoso", "1234567890", "user", "siswa", ""},
		)

		result, err := svc.ImportReader(ctx, buf)
		require.NoError(t, err)

		assert.Equal(t, 0, result.CreatedOrUpdated)
		require.Len(t, result.FailedRows, 1)
		assert.Contains(t, result.FailedRows[0].Reason, "bad connection")
		assert.Empty(t, userRepo.users, "no create attempt on a failed lookup")
	})

	t.Run("header-only workbook counts as failed", func(t *testing.T) {
		svc, _ := newImportService(t)

		result, err := svc.ImportReader(ctx, workbook(t))
		require.NoError(t, err)
		assert.Equal(t, 0, result.TotalRows)
		assert.True(t, result.Failed())
	})

	t.Run("all rows invalid counts as failed", func(t *testing.T) {
		svc, _ := newImportService(t)

		buf := workbook(t,
			[]interface{}{"", "", "111", "user", "siswa", ""},
		)

		result, err := svc.ImportReader(ctx, buf)
		require.NoError(t, err)
		assert.Equal(t, 0, result.CreatedOrUpdated)
		assert.True(t, result.Failed())
	})

	t.Run("empty rows are skipped entirely", func(t *testing.T) {
		svc, _ := newImportService(t)

		buf := workbook(t,
			[]interface{}{"", "", "", "", "", ""},
			[]interface{}{"Budi Santoso", "budi.santoso", "1234567890", "user", "siswa", ""},
		)

		result, err := svc.ImportReader(ctx, buf)
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalRows)
		assert.Equal(t, 1, result.CreatedOrUpdated)
		assert.Empty(t, result.FailedRows)
	})
}

func TestImportService_EnsureTemplate(t *testing.T) {
	svc, _ := newImportService(t)

	assert.False(t, svc.TemplateExists())
	require.NoError(t, svc.EnsureTemplate())
	require.True(t, svc.TemplateExists())

	f, err := excelize.OpenFile(svc.TemplatePath())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one example row")
	assert.Equal(t, []string{"nama_lengkap", "username", "id_card", "role", "jenis_pengguna", "password"}, rows[0])

	// Writing twice keeps the existing file
	require.NoError(t, svc.EnsureTemplate())
}
