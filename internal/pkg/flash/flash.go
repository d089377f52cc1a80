package flash

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Cookie names for one-shot flash data
const (
	cookieSuccess    = "flash_success"
	cookieError      = "flash_error"
	cookieFailedRows = "flash_failed_rows"
)

// Success stores a success notice for the next rendered page
func Success(c *fiber.Ctx, message string) {
	set(c, cookieSuccess, message)
}

// Error stores an error notice for the next rendered page
func Error(c *fiber.Ctx, message string) {
	set(c, cookieError, message)
}

// FailedRows stores the per-row import failure report for the next page
func FailedRows(c *fiber.Ctx, rows interface{}) {
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	set(c, cookieFailedRows, string(data))
}

// Data holds the flash values consumed by a page render
type Data struct {
	Success    string
	Error      string
	FailedRows []FailedRow
}

// FailedRow mirrors the import report rows carried through the flash cookie
type FailedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Pop reads and clears all flash values from the request
func Pop(c *fiber.Ctx) Data {
	d := Data{
		Success: pop(c, cookieSuccess),
		Error:   pop(c, cookieError),
	}
	if raw := pop(c, cookieFailedRows); raw != "" {
		_ = json.Unmarshal([]byte(raw), &d.FailedRows)
	}
	return d
}

func set(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(5 * time.Minute),
	})
}

func pop(c *fiber.Ctx, name string) string {
	raw := c.Cookies(name)
	if raw == "" {
		return ""
	}

	// Expire the cookie so the notice shows once
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(-time.Hour),
	})

	value, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return value
}
