package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"siperu/internal/adapters/persistence/models"
	"siperu/internal/core/domain"
	"siperu/internal/core/services"
	"siperu/internal/pkg/flash"
	"siperu/internal/pkg/pagination"
	"siperu/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles the user directory pages
type UserHandler struct {
	userService   *services.UserService
	importService *services.ImportService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, importService *services.ImportService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		importService: importService,
	}
}

// UserRow is one rendered row of the user table
type UserRow struct {
	No   int
	User *models.User
}

// Index lists users with search, sort and pagination. An Ajax request
// gets only the table fragment for in-page refreshes.
func (h *UserHandler) Index(c *fiber.Ctx) error {
	search := c.Query("search", "")
	sort := c.Query("sort", "user_id")
	direction := c.Query("direction", "asc")
	params := pagination.GetParams(c)

	result, err := h.userService.ListUsers(c.Context(), &services.ListUsersInput{
		Search:    search,
		Sort:      sort,
		Direction: direction,
		Page:      params.Page,
		Limit:     params.Limit,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat data user")
	}

	rows := make([]UserRow, len(result.Users))
	for i, user := range result.Users {
		rows[i] = UserRow{
			No:   (result.Page-1)*result.Limit + i + 1,
			User: user,
		}
	}

	meta := pagination.GetMeta(&pagination.Params{Page: result.Page, Limit: result.Limit}, result.Total)
	query := url.Values{
		"search":    {search},
		"sort":      {sort},
		"direction": {direction},
		"type":      {"user"},
	}

	data := fiber.Map{
		"Title":     "Data User",
		"Search":    search,
		"Sort":      sort,
		"Direction": direction,
		"Rows":      rows,
		"Meta":      meta,
		"Links":     pagination.BuildLinks("/admin/users", query, meta),
		"Flash":     flash.Pop(c),
	}

	if c.XHR() {
		return c.Render("admin/users/table", data)
	}
	return c.Render("admin/users/index", data, "layouts/main")
}

// Create renders the create user form
func (h *UserHandler) Create(c *fiber.Ctx) error {
	return c.Render("admin/users/create", fiber.Map{
		"Title":  "Tambah User",
		"Old":    &services.CreateUserInput{},
		"Errors": validation.Errors{},
	}, "layouts/main")
}

// Store validates and persists a new user
func (h *UserHandler) Store(c *fiber.Ctx) error {
	var input services.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Permintaan tidak valid")
	}

	_, err := h.userService.CreateUser(c.Context(), &input)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return c.Status(fiber.StatusUnprocessableEntity).Render("admin/users/create", fiber.Map{
				"Title":  "Tambah User",
				"Old":    &input,
				"Errors": verrs,
			}, "layouts/main")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan user")
	}

	flash.Success(c, "User berhasil ditambahkan")
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// Edit renders the edit user form
func (h *UserHandler) Edit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fiber.ErrNotFound
	}

	user, err := h.userService.GetUserByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat user")
	}

	return c.Render("admin/users/edit", fiber.Map{
		"Title": "Edit User",
		"User":  user,
		"Old": &services.UpdateUserInput{
			NamaLengkap:   user.NamaLengkap,
			Username:      user.Username,
			IDCard:        user.IDCard,
			Role:          user.Role,
			JenisPengguna: user.JenisPengguna,
		},
		"Errors": validation.Errors{},
	}, "layouts/main")
}

// Update validates and saves changes to a user
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fiber.ErrNotFound
	}

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Permintaan tidak valid")
	}

	if _, err := h.userService.UpdateUser(c.Context(), uint(id), &input); err != nil {
		var verrs validation.Errors
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return fiber.ErrNotFound
		case errors.As(err, &verrs):
			stale, getErr := h.userService.GetUserByID(c.Context(), uint(id))
			if getErr != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat user")
			}
			return c.Status(fiber.StatusUnprocessableEntity).Render("admin/users/edit", fiber.Map{
				"Title":  "Edit User",
				"User":   stale,
				"Old":    &input,
				"Errors": verrs,
			}, "layouts/main")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui user")
		}
	}

	flash.Success(c, "User berhasil diperbarui")
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// Destroy deletes a user unless booking records still reference it
func (h *UserHandler) Destroy(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fiber.ErrNotFound
	}

	if err := h.userService.DeleteUser(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return fiber.ErrNotFound
		case errors.Is(err, domain.ErrUserHasBookings):
			flash.Error(c, "User tidak dapat dihapus karena masih memiliki data peminjaman.")
			return c.Redirect("/admin/users", fiber.StatusSeeOther)
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus user")
		}
	}

	flash.Success(c, "User berhasil dihapus")
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// ImportForm renders the spreadsheet import page
func (h *UserHandler) ImportForm(c *fiber.Ctx) error {
	return c.Render("admin/users/import", fiber.Map{
		"Title":  "Import Data User",
		"Errors": validation.Errors{},
	}, "layouts/main")
}

// Import stores the uploaded spreadsheet and imports its rows
func (h *UserHandler) Import(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).Render("admin/users/import", fiber.Map{
			"Title":  "Import Data User",
			"Errors": validation.Errors{"file": "File wajib diisi."},
		}, "layouts/main")
	}

	result, err := h.importService.ImportUsers(c.Context(), file)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return c.Status(fiber.StatusUnprocessableEntity).Render("admin/users/import", fiber.Map{
				"Title":  "Import Data User",
				"Errors": verrs,
			}, "layouts/main")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengimport data")
	}

	flash.FailedRows(c, result.FailedRows)
	if result.Failed() {
		flash.Error(c, "Gagal mengimport data, pastikan data valid.")
	} else {
		flash.Success(c, fmt.Sprintf("%d data user berhasil diimpor", result.CreatedOrUpdated))
	}

	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// DownloadTemplate serves the import template spreadsheet
func (h *UserHandler) DownloadTemplate(c *fiber.Ctx) error {
	if !h.importService.TemplateExists() {
		return fiber.NewError(fiber.StatusNotFound, "File tidak ditemukan.")
	}

	return c.Download(h.importService.TemplatePath(), services.TemplateFileName)
}
