package services_test

import (
	"context"
	"errors"
	"testing"

	"siperu/internal/adapters/persistence/models"
	"siperu/internal/core/domain"
	"siperu/internal/core/services"
	"siperu/internal/pkg/password"
	"siperu/internal/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateInput() *services.CreateUserInput {
	return &services.CreateUserInput{
		NamaLengkap:          "Budi Santoso",
		Username:             "budi.santoso",
		IDCard:               "1234567890",
		Role:                 models.RoleUser,
		JenisPengguna:        models.JenisSiswa,
		Password:             "rahasia123",
		PasswordConfirmation: "rahasia123",
	}
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("valid input creates user with hashed password", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		svc := services.NewUserService(userRepo, newFakePeminjamanRepo())

		user, err := svc.CreateUser(ctx, validCreateInput())
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.NotZero(t, user.UserID)
		assert.NotEqual(t, "rahasia123", user.Password)
		assert.True(t, password.Verify("rahasia123", user.Password))
	})

	t.Run("missing fields come back as field errors", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		svc := services.NewUserService(userRepo, newFakePeminjamanRepo())

		_, err := svc.CreateUser(ctx, &services.CreateUserInput{})
		require.Error(t, err)

		var verrs validation.Errors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, "Nama lengkap wajib diisi.", verrs["nama_lengkap"])
		assert.Equal(t, "Username wajib diisi.", verrs["username"])
		assert.Equal(t, "ID Card wajib diisi.", verrs["id_card"])
		assert.Equal(t, "Role pengguna wajib dipilih.", verrs["role"])
		assert.Equal(t, "Jenis pengguna wajib dipilih.", verrs["jenis_pengguna"])
		assert.Equal(t, "Password wajib diisi.", verrs["password"])

		assert.Empty(t, userRepo.users, "no partial write on validation failure")
	})

	t.Run("password confirmation mismatch", func(t *testing.T) {
		svc := services.NewUserService(newFakeUserRepo(), newFakePeminjamanRepo())

		input := validCreateInput()
		input.PasswordConfirmation = "berbeda123"

		_, err := svc.CreateUser(ctx, input)
		var verrs validation.Errors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, "Konfirmasi password tidak cocok.", verrs["password"])
	})

	t.Run("duplicate username and id card", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		svc := services.NewUserService(userRepo, newFakePeminjamanRepo())

		_, err := svc.CreateUser(ctx, validCreateInput())
		require.NoError(t, err)

		_, err = svc.CreateUser(ctx, validCreateInput())
		var verrs validation.Errors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, services.MsgUsernameTaken, verrs["username"])
		assert.Equal(t, services.MsgIDCardTaken, verrs["id_card"])
		assert.Len(t, userRepo.users, 1)
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*services.UserService, *fakeUserRepo, *models.User) {
		userRepo := newFakeUserRepo()
		svc := services.NewUserService(userRepo, newFakePeminjamanRepo())
		user, err := svc.CreateUser(ctx, validCreateInput())
		require.NoError(t, err)
		return svc, userRepo, user
	}

	t.Run("keeping own username passes uniqueness", func(t *testing.T) {
		svc, _, user := setup(t)

		updated, err := svc.UpdateUser(ctx, user.UserID, &services.UpdateUserInput{
			NamaLengkap:   "Budi S.",
			Username:      user.Username,
			IDCard:        user.IDCard,
			Role:          models.RoleUser,
			JenisPengguna: models.JenisGuru,
		})
		require.NoError(t, err)
		assert.Equal(t, "Budi S.", updated.NamaLengkap)
		assert.Equal(t, models.JenisGuru, updated.JenisPengguna)
	})

	t.Run("empty password keeps the stored hash", func(t *testing.T) {
		svc, _, user := setup(t)

		updated, err := svc.UpdateUser(ctx, user.UserID, &services.UpdateUserInput{
			NamaLengkap:   user.NamaLengkap,
			Username:      user.Username,
			IDCard:        user.IDCard,
			Role:          user.Role,
			JenisPengguna: user.JenisPengguna,
		})
		require.NoError(t, err)
		assert.Equal(t, user.Password, updated.Password)
		assert.True(t, password.Verify("rahasia123", updated.Password))
	})

	t.Run("new password replaces the hash", func(t *testing.T) {
		svc, _, user := setup(t)

		updated, err := svc.UpdateUser(ctx, user.UserID, &services.UpdateUserInput{
			NamaLengkap:          user.NamaLengkap,
			Username:             user.Username,
			IDCard:               user.IDCard,
			Role:                 user.Role,
			JenisPengguna:        user.JenisPengguna,
			Password:             "rahasiabaru",
			PasswordConfirmation: "rahasiabaru",
		})
		require.NoError(t, err)
		assert.True(t, password.Verify("rahasiabaru", updated.Password))
		assert.False(t, password.Verify("rahasia123", updated.Password))
	})

	t.Run("taking another user's username fails", func(t *testing.T) {
		svc, _, user := setup(t)

		other := validCreateInput()
		other.Username = "siti.aminah"
		other.IDCard = "0987654321"
		_, err := svc.CreateUser(ctx, other)
		require.NoError(t, err)

		_, err = svc.UpdateUser(ctx, user.UserID, &services.UpdateUserInput{
			NamaLengkap:   user.NamaLengkap,
			Username:      "siti.aminah",
			IDCard:        user.IDCard,
			Role:          user.Role,
			JenisPengguna: user.JenisPengguna,
		})
		var verrs validation.Errors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, services.MsgUsernameTaken, verrs["username"])
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _, _ := setup(t)

		_, err := svc.UpdateUser(ctx, 999, &services.UpdateUserInput{})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes when no bookings reference the user", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		svc := services.NewUserService(userRepo, newFakePeminjamanRepo())

		user, err := svc.CreateUser(ctx, validCreateInput())
		require.NoError(t, err)

		require.NoError(t, svc.DeleteUser(ctx, user.UserID))
		assert.Empty(t, userRepo.users)
	})

	t.Run("rejected while bookings exist", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		peminjamanRepo := newFakePeminjamanRepo()
		svc := services.NewUserService(userRepo, peminjamanRepo)

		user, err := svc.CreateUser(ctx, validCreateInput())
		require.NoError(t, err)

		require.NoError(t, peminjamanRepo.Create(ctx, &models.Peminjaman{
			UserID:    user.UserID,
			RuanganID: 1,
			Status:    models.StatusMenunggu,
		}))

		err = svc.DeleteUser(ctx, user.UserID)
		assert.ErrorIs(t, err, domain.ErrUserHasBookings)
		assert.Len(t, userRepo.users, 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc := services.NewUserService(newFakeUserRepo(), newFakePeminjamanRepo())
		assert.ErrorIs(t, svc.DeleteUser(ctx, 42), domain.ErrUserNotFound)
	})
}

func TestUserService_ListUsers(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	svc := services.NewUserService(userRepo, newFakePeminjamanRepo())

	names := []string{"Budi Santoso", "Siti Aminah", "Agus Wijaya"}
	for i, name := range names {
		input := validCreateInput()
		input.NamaLengkap = name
		input.Username = name + "-login"
		input.IDCard = string(rune('A'+i)) + "-card"
		_, err := svc.CreateUser(ctx, input)
		require.NoError(t, err)
	}

	t.Run("search narrows the result", func(t *testing.T) {
		out, err := svc.ListUsers(ctx, &services.ListUsersInput{Search: "siti"})
		require.NoError(t, err)
		require.Len(t, out.Users, 1)
		assert.Equal(t, "Siti Aminah", out.Users[0].NamaLengkap)
		assert.EqualValues(t, 1, out.Total)
	})

	t.Run("page and limit defaults applied", func(t *testing.T) {
		out, err := svc.ListUsers(ctx, &services.ListUsersInput{Page: 0, Limit: 0})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Page)
		assert.Equal(t, 10, out.Limit)
		assert.EqualValues(t, 3, out.Total)
	})

	t.Run("pagination slices the result", func(t *testing.T) {
		out, err := svc.ListUsers(ctx, &services.ListUsersInput{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, out.Users, 1)
		assert.EqualValues(t, 3, out.Total)
	})

	t.Run("out-of-range page returns empty rows, not an error", func(t *testing.T) {
		out, err := svc.ListUsers(ctx, &services.ListUsersInput{Page: 9})
		require.NoError(t, err)
		assert.Empty(t, out.Users)
		assert.EqualValues(t, 3, out.Total)
	})

	t.Run("descending sort reverses the order", func(t *testing.T) {
		out, err := svc.ListUsers(ctx, &services.ListUsersInput{Sort: "nama_lengkap", Direction: "desc"})
		require.NoError(t, err)
		require.Len(t, out.Users, 3)
		for i := 1; i < len(out.Users); i++ {
			assert.GreaterOrEqual(t, out.Users[i-1].NamaLengkap, out.Users[i].NamaLengkap)
		}
	})
}
