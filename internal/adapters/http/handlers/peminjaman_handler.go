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
	"siperu/internal/pkg/response"
	"siperu/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// PeminjamanHandler handles the booking pages and status endpoint
type PeminjamanHandler struct {
	peminjamanService *services.PeminjamanService
}

// NewPeminjamanHandler creates a new booking handler
func NewPeminjamanHandler(peminjamanService *services.PeminjamanService) *PeminjamanHandler {
	return &PeminjamanHandler{peminjamanService: peminjamanService}
}

// StatusOption is one entry of the status filter dropdown
type StatusOption struct {
	Value string
	Label string
}

func statusOptions() []StatusOption {
	statuses := models.Statuses()
	options := make([]StatusOption, len(statuses))
	for i, s := range statuses {
		options[i] = StatusOption{Value: s, Label: models.StatusLabel(s)}
	}
	return options
}

// PeminjamanRow is one rendered row of the booking table
type PeminjamanRow struct {
	No          int
	ID          uint
	Peminjam    string
	Jenis       string
	Ruangan     string
	Lokasi      string
	Tanggal     string
	Waktu       string
	Durasi      string
	Status      string
	StatusLabel string
	BadgeClass  string
	ShowActions bool
}

func newPeminjamanRow(no int, p *models.Peminjaman) PeminjamanRow {
	row := PeminjamanRow{
		No:          no,
		ID:          p.PeminjamanID,
		Tanggal:     p.Tanggal.Format("02 Jan 2006"),
		Waktu:       fmt.Sprintf("%s - %s", p.WaktuMulai, p.WaktuSelesai),
		Durasi:      strconv.FormatFloat(p.DurasiPinjam, 'f', -1, 64) + " jam",
		Status:      p.Status,
		StatusLabel: models.StatusLabel(p.Status),
		BadgeClass:  models.StatusBadgeClass(p.Status),
		ShowActions: p.Status == models.StatusMenunggu,
	}
	if p.User != nil {
		row.Peminjam = p.User.NamaLengkap
		row.Jenis = p.User.JenisLabel()
	}
	if p.Ruangan != nil {
		row.Ruangan = p.Ruangan.NamaRuangan
		row.Lokasi = p.Ruangan.Lokasi
	}
	return row
}

// Index lists bookings with search, sort, status filter and pagination.
// An Ajax request gets only the table fragment.
func (h *PeminjamanHandler) Index(c *fiber.Ctx) error {
	search := c.Query("search", "")
	sort := c.Query("sort", "tanggal")
	direction := c.Query("direction", "desc")
	status := c.Query("status", "")
	params := pagination.GetParams(c)

	result, err := h.peminjamanService.ListPeminjaman(c.Context(), &services.ListPeminjamanInput{
		Search:    search,
		Sort:      sort,
		Direction: direction,
		Status:    status,
		Page:      params.Page,
		Limit:     params.Limit,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat data peminjaman")
	}

	rows := make([]PeminjamanRow, len(result.Peminjamans))
	for i, p := range result.Peminjamans {
		rows[i] = newPeminjamanRow((result.Page-1)*result.Limit+i+1, p)
	}

	meta := pagination.GetMeta(&pagination.Params{Page: result.Page, Limit: result.Limit}, result.Total)
	query := url.Values{
		"search":    {search},
		"sort":      {sort},
		"direction": {direction},
		"status":    {status},
		"type":      {"peminjaman"},
	}

	data := fiber.Map{
		"Title":     "Peminjaman & Pengembalian",
		"Search":    search,
		"Sort":      sort,
		"Direction": direction,
		"Status":    status,
		"Statuses":  statusOptions(),
		"Rows":      rows,
		"Meta":      meta,
		"Links":     pagination.BuildLinks("/admin/peminjaman-pengembalian", query, meta),
		"Flash":     flash.Pop(c),
	}

	if c.XHR() {
		return c.Render("admin/peminjaman/table", data)
	}
	return c.Render("admin/peminjaman/index", data, "layouts/main")
}

// UpdateStatus approves or rejects a pending booking
func (h *PeminjamanHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.NotFound(c, "Data peminjaman tidak ditemukan.")
	}

	var req struct {
		Status string `json:"status" form:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Permintaan tidak valid.")
	}

	peminjaman, err := h.peminjamanService.Transition(c.Context(), uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPeminjamanNotFound):
			return response.NotFound(c, "Data peminjaman tidak ditemukan.")
		case errors.Is(err, domain.ErrInvalidStatus):
			return response.BadRequest(c, "Status yang diminta tidak valid.")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Status peminjaman sudah tidak dapat diubah.")
		default:
			return response.InternalServerError(c, "Gagal memperbarui status peminjaman.")
		}
	}

	return response.Success(c, "Status peminjaman berhasil diperbarui.", fiber.Map{
		"peminjaman_id": peminjaman.PeminjamanID,
		"status":        peminjaman.Status,
		"status_label":  models.StatusLabel(peminjaman.Status),
		"badge_class":   models.StatusBadgeClass(peminjaman.Status),
	})
}

// CreateForm renders the booking request form
func (h *PeminjamanHandler) CreateForm(c *fiber.Ctx) error {
	ruangans, err := h.peminjamanService.ListRuangans(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat data ruangan")
	}

	return c.Render("admin/peminjaman/create", fiber.Map{
		"Title":    "Ajukan Peminjaman",
		"Ruangans": ruangans,
		"Old":      &services.CreatePeminjamanInput{},
		"Errors":   validation.Errors{},
	}, "layouts/main")
}

// Store validates and registers a booking request
func (h *PeminjamanHandler) Store(c *fiber.Ctx) error {
	var input services.CreatePeminjamanInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Permintaan tidak valid")
	}

	if _, err := h.peminjamanService.Create(c.Context(), &input); err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			ruangans, listErr := h.peminjamanService.ListRuangans(c.Context())
			if listErr != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat data ruangan")
			}
			return c.Status(fiber.StatusUnprocessableEntity).Render("admin/peminjaman/create", fiber.Map{
				"Title":    "Ajukan Peminjaman",
				"Ruangans": ruangans,
				"Old":      &input,
				"Errors":   verrs,
			}, "layouts/main")
		case errors.Is(err, domain.ErrRuanganNotFound):
			flash.Error(c, "Ruangan tidak ditemukan.")
			return c.Redirect("/admin/peminjaman-pengembalian", fiber.StatusSeeOther)
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan peminjaman")
		}
	}

	flash.Success(c, "Pengajuan peminjaman berhasil dikirim")
	return c.Redirect("/admin/peminjaman-pengembalian", fiber.StatusSeeOther)
}
