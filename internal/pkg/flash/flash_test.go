package flash_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"siperu/internal/pkg/flash"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlashApp() *fiber.App {
	app := fiber.New()
	app.Get("/set", func(c *fiber.Ctx) error {
		flash.Success(c, "User berhasil ditambahkan")
		flash.Error(c, "Gagal mengimport data, pastikan data valid.")
		flash.FailedRows(c, []flash.FailedRow{{Row: 3, Reason: "Username wajib diisi."}})
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/pop", func(c *fiber.Ctx) error {
		return c.JSON(flash.Pop(c))
	})
	return app
}

func TestFlashRoundTrip(t *testing.T) {
	app := newFlashApp()

	setRes, err := app.Test(httptest.NewRequest(http.MethodGet, "/set", nil))
	require.NoError(t, err)
	cookies := setRes.Cookies()
	require.NotEmpty(t, cookies)

	popReq := httptest.NewRequest(http.MethodGet, "/pop", nil)
	for _, cookie := range cookies {
		popReq.AddCookie(cookie)
	}

	popRes, err := app.Test(popReq)
	require.NoError(t, err)
	body, err := io.ReadAll(popRes.Body)
	require.NoError(t, err)

	var data flash.Data
	require.NoError(t, json.Unmarshal(body, &data))

	assert.Equal(t, "User berhasil ditambahkan", data.Success)
	assert.Equal(t, "Gagal mengimport data, pastikan data valid.", data.Error)
	require.Len(t, data.FailedRows, 1)
	assert.Equal(t, 3, data.FailedRows[0].Row)
	assert.Equal(t, "Username wajib diisi.", data.FailedRows[0].Reason)

	// Pop expires the cookies so the notice shows once
	for _, cookie := range popRes.Cookies() {
		assert.Empty(t, cookie.Value, "cookie %s should be cleared", cookie.Name)
	}
}

func TestPopWithoutFlash(t *testing.T) {
	app := newFlashApp()

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/pop", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var data flash.Data
	require.NoError(t, json.Unmarshal(body, &data))
	assert.Empty(t, data.Success)
	assert.Empty(t, data.Error)
	assert.Empty(t, data.FailedRows)
}
