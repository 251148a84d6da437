package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-directory/internal/domain"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 0)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if ComparePassword(hash, "s3cret") != nil {
		t.Fatal("hash should verify")
	}
	if ComparePassword(hash, "other") == nil {
		t.Fatal("wrong password should not verify")
	}
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		de := apperrors.ToDomainError(err)
		return c.Status(de.HTTPStatus).SendString(de.Code)
	}})
	app.Get("/", Identity(), RequireAdministrator(), func(c *fiber.Ctx) error {
		identity, _ := IdentityFromContext(c)
		return c.SendString(identity.BusinessCode + "/" + identity.VenueCode)
	})
	return app
}

func TestIdentityAndAccessLevel(t *testing.T) {
	cases := []struct {
		name     string
		business string
		level    string
		status   int
	}{
		{"manager", "BIZ1", "manager", http.StatusOK},
		{"system admin", "BIZ1", "system_admin", http.StatusOK},
		{"employee", "BIZ1", "employee", http.StatusForbidden},
		{"missing level", "BIZ1", "", http.StatusForbidden},
		{"missing business", "", "manager", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(domain.HeaderBusinessCode, tc.business)
			req.Header.Set(domain.HeaderVenueCode, "SYD01")
			req.Header.Set(domain.HeaderAccessLevel, tc.level)
			resp, err := newApp().Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.status)
			}
		})
	}
}
