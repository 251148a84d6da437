package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/config"
	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/export"
	"github.com/spec-kit/staff-directory/internal/form"
	"github.com/spec-kit/staff-directory/internal/panel"
	"github.com/spec-kit/staff-directory/internal/session"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

const sessionKey = "panel_session"

// PanelHandler serves the admin panel: every action runs on the session's
// mounted panel and answers with the resulting view.
type PanelHandler struct {
	registry *panel.Registry
	sessions *session.Reader
	cfg      config.SessionConfig
	logger   *zap.Logger
}

// NewPanelHandler constructs handler.
func NewPanelHandler(registry *panel.Registry, sessions *session.Reader, cfg config.SessionConfig, logger *zap.Logger) *PanelHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PanelHandler{registry: registry, sessions: sessions, cfg: cfg, logger: logger}
}

// RequireSession resolves the session from a bearer token or the session cookie.
func (h *PanelHandler) RequireSession(c *fiber.Ctx) error {
	sess, err := h.sessions.Resolve(c.UserContext(), bearerToken(c), c.Cookies(h.cfg.CookieName))
	if err != nil {
		return err
	}
	c.Locals(sessionKey, sess)
	return c.Next()
}

// CreateSession handles POST /admin/sessions.
func (h *PanelHandler) CreateSession(c *fiber.Ctx) error {
	var req domain.AuthContext
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	req.BusinessCode = strings.TrimSpace(req.BusinessCode)
	req.VenueCode = strings.TrimSpace(req.VenueCode)

	sess, token, err := h.sessions.Issue(c.UserContext(), req)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    sess.ID,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(h.cfg.TTL()),
	})
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"session_id": sess.ID,
			"token":      token,
			"auth":       sess.Auth,
		},
	})
}

// DeleteSession handles DELETE /admin/sessions: unmounts and signs out.
func (h *PanelHandler) DeleteSession(c *fiber.Ctx) error {
	sess := currentSession(c)
	h.registry.Unmount(sess.ID)
	if err := h.sessions.Revoke(c.UserContext(), sess.ID); err != nil {
		return err
	}
	c.ClearCookie(h.cfg.CookieName)
	return c.JSON(fiber.Map{"success": true})
}

// Mount handles POST /admin/panel/mount.
func (h *PanelHandler) Mount(c *fiber.Ctx) error {
	sess := currentSession(c)
	entry, err := h.registry.Mount(c.UserContext(), sess.ID, sess.Auth)
	return respond(c, entry, err)
}

// State handles GET /admin/panel.
func (h *PanelHandler) State(c *fiber.Ctx) error {
	entry, err := h.entry(c)
	if entry == nil {
		return err
	}
	return respond(c, entry, err)
}

// SetFilters handles PUT /admin/panel/filters.
func (h *PanelHandler) SetFilters(c *fiber.Ctx) error {
	var req domain.FilterSelection
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	entry, err := h.entry(c)
	if entry == nil {
		return err
	}
	return respond(c, entry, entry.Panel.SetFilters(c.UserContext(), req))
}

// ViewStaff handles GET /admin/panel/staff/:code.
func (h *PanelHandler) ViewStaff(c *fiber.Ctx) error {
	entry, err := h.entry(c)
	if entry == nil {
		return err
	}
	return respond(c, entry, entry.Panel.View(c.Params("code")))
}

// EditStaff handles GET /admin/panel/staff/:code/edit.
func (h *PanelHandler) EditStaff(c *fiber.Ctx) error {
	entry, err := h.entry(c)
	if entry == nil {
		return err
	}
	return respond(c, entry, entry.Panel.OpenEdit(c.UserContext(), c.Params("code")))
}

// CreateStaff handles POST /admin/panel/staff.
func (h *PanelHandler) CreateStaff(c *fiber.Ctx) error {
	var fields form.Fields
	if err := c.BodyParser(&fields); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	entry, err := h.entry(c)
	if entry == nil {
		return err
	}
	_, err = entry.Panel.SubmitCreate(c.UserContext(), fields)
	if err == nil {
		c.Status(http.StatusCreated)
	}
	return respond(c, entry, err)
}

// UpdateStaff handles PUT /admin/panel/staff/:code.
func (h *PanelHandler) UpdateStaff(c *fiber.Ctx) error {
	var fields form.Fields
	if err := c.BodyParser(&fields); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	entry, err := h.entry(c)
	if entry == nil {
		return err
	}
	_, err = entry.Panel.SubmitUpdate(c.UserContext(), c.Params("code"), fields)
	return respond(c, entry, err)
}

// DeleteStaff handles DELETE /admin/panel/staff/:code?confirm=true.
func (h *PanelHandler) DeleteStaff(c *fiber.Ctx) error {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	entry, err := h.entry(c)
	if entry == nil {
		return err
	}
	return respond(c, entry, entry.Panel.Delete(c.UserContext(), c.Params("code"), confirmed))
}

// Export handles GET /admin/panel/export.xlsx with the rows currently shown.
func (h *PanelHandler) Export(c *fiber.Ctx) error {
	entry, err := h.entry(c)
	if entry == nil {
		return err
	}
	buf, err := export.Roster(entry.Panel.Rows())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="staff.xlsx"`)
	return c.Send(buf.Bytes())
}

// Unmount handles DELETE /admin/panel.
func (h *PanelHandler) Unmount(c *fiber.Ctx) error {
	sess := currentSession(c)
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"unmounted": h.registry.Unmount(sess.ID)}})
}

// entry returns the session's panel, mounting it on first use. A mount
// failure still yields the entry so its error state can be shown.
func (h *PanelHandler) entry(c *fiber.Ctx) (*panel.Entry, error) {
	sess := currentSession(c)
	if entry, ok := h.registry.Get(sess.ID); ok {
		return entry, nil
	}
	h.logger.Debug("mounting panel on demand", zap.String("session_id", sess.ID))
	return h.registry.Mount(c.UserContext(), sess.ID, sess.Auth)
}

// respond writes the view; a failed action also sets the error status and code.
func respond(c *fiber.Ctx, entry *panel.Entry, err error) error {
	body := fiber.Map{"success": err == nil, "data": entry.View.Snapshot()}
	if err != nil {
		domainErr := apperrors.ToDomainError(err)
		body["error"] = domainErr.Message
		body["code"] = domainErr.Code
		c.Status(domainErr.HTTPStatus)
	}
	return c.JSON(body)
}

func currentSession(c *fiber.Ctx) session.Session {
	sess, _ := c.Locals(sessionKey).(session.Session)
	return sess
}

func bearerToken(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
