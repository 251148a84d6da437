// Package client talks to the staff API on behalf of the admin panel.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/config"
	"github.com/spec-kit/staff-directory/internal/domain"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

// Identity headers derived from the session context.
const (
	HeaderAccessLevel  = domain.HeaderAccessLevel
	HeaderBusinessCode = domain.HeaderBusinessCode
	HeaderVenueCode    = domain.HeaderVenueCode
	HeaderRequestID    = "X-Request-ID"
)

const missingBusinessMessage = "No business is associated with your session. Please sign in again."

// StaffClient performs the staff CRUD and venue calls. It never retries.
type StaffClient struct {
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// New builds a client for the configured staff API.
func New(cfg config.UpstreamConfig, logger *zap.Logger) *StaffClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout(),
		logger:  logger,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	User    json.RawMessage `json:"user"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// ListVenues fetches the venues of businessCode.
func (c *StaffClient) ListVenues(ctx context.Context, auth domain.AuthContext, businessCode string) ([]domain.VenueSummary, error) {
	if businessCode == "" {
		return nil, apperrors.NewContextError(missingBusinessMessage)
	}
	env, err := c.do(ctx, auth, http.MethodGet, "/venues", url.Values{"business_code": {businessCode}}, nil)
	if err != nil {
		return nil, err
	}
	venues := []domain.VenueSummary{}
	if err := decodeData(env.Data, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

// ListStaff fetches the staff list, filtered server-side by any active facet.
func (c *StaffClient) ListStaff(ctx context.Context, auth domain.AuthContext, filter domain.FilterSelection) ([]domain.StaffRecord, error) {
	query := url.Values{}
	if venue := filter.VenueCode(); venue != "" {
		query.Set("venue_code", venue)
	}
	if status := filter.StatusValue(); status != "" {
		query.Set("status", string(status))
	}
	env, err := c.do(ctx, auth, http.MethodGet, "/staff", query, nil)
	if err != nil {
		return nil, err
	}
	records := []domain.StaffRecord{}
	if err := decodeData(env.Data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchDetail returns the full record, including pay rates and banking details.
func (c *StaffClient) FetchDetail(ctx context.Context, auth domain.AuthContext, staffCode string) (*domain.StaffRecord, error) {
	if staffCode == "" {
		return nil, apperrors.NewValidationError("staff code is required", nil)
	}
	env, err := c.do(ctx, auth, http.MethodGet, "/staff/"+url.PathEscape(staffCode), nil, nil)
	if err != nil {
		return nil, err
	}
	var rec domain.StaffRecord
	if err := decodeData(env.Data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create adds a staff member. The returned record carries the kiosk PIN
// issued by the server.
func (c *StaffClient) Create(ctx context.Context, auth domain.AuthContext, req domain.StaffCreateRequest) (*domain.StaffRecord, error) {
	if err := ValidateCreate(req); err != nil {
		return nil, err
	}
	req.KioskPin = ""
	env, err := c.do(ctx, auth, http.MethodPost, "/staff", nil, req)
	if err != nil {
		return nil, err
	}

	rec := req.StaffRecord
	if rec.BusinessCode == "" {
		rec.BusinessCode = auth.BusinessCode
	}
	created := env.User
	if len(created) == 0 {
		created = env.Data
	}
	if err := decodeData(created, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update replaces the editable fields of staffCode.
func (c *StaffClient) Update(ctx context.Context, auth domain.AuthContext, staffCode string, req domain.StaffUpdateRequest) (*domain.StaffRecord, error) {
	if staffCode == "" {
		return nil, apperrors.NewValidationError("staff code is required", nil)
	}
	if req.Password != nil && *req.Password == "" {
		req.Password = nil
	}
	if req.KioskPin != nil && *req.KioskPin == "" {
		req.KioskPin = nil
	}
	env, err := c.do(ctx, auth, http.MethodPut, "/staff/"+url.PathEscape(staffCode), nil, req)
	if err != nil {
		return nil, err
	}
	if isEmpty(env.Data) {
		return nil, nil
	}
	var rec domain.StaffRecord
	if err := decodeData(env.Data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes staffCode. The caller must have confirmed with the user.
func (c *StaffClient) Delete(ctx context.Context, auth domain.AuthContext, staffCode string) error {
	if staffCode == "" {
		return apperrors.NewValidationError("staff code is required", nil)
	}
	_, err := c.do(ctx, auth, http.MethodDelete, "/staff/"+url.PathEscape(staffCode), nil, nil)
	return err
}

// ValidateCreate checks required fields before any request is made.
func ValidateCreate(req domain.StaffCreateRequest) error {
	missing := []string{}
	if strings.TrimSpace(req.StaffCode) == "" {
		missing = append(missing, "staff_code")
	}
	if req.VenueCode == nil || strings.TrimSpace(*req.VenueCode) == "" {
		missing = append(missing, "venue_code")
	}
	if strings.TrimSpace(req.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(req.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("Please fill in all required fields", map[string]any{"missing": missing})
	}
	return nil
}

func (c *StaffClient) do(ctx context.Context, auth domain.AuthContext, method, path string, query url.Values, body any) (*envelope, error) {
	if !auth.Scoped() {
		return nil, apperrors.NewContextError(missingBusinessMessage)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewNetworkError(err)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	requestID := uuid.NewString()

	agent := newAgent(method, target)
	agent.Set(HeaderAccessLevel, string(auth.AccessLevel)).
		Set(HeaderBusinessCode, auth.BusinessCode).
		Set(HeaderVenueCode, auth.VenueCode).
		Set(HeaderRequestID, requestID).
		Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if body != nil {
		agent.JSON(body)
	}
	if timeout := c.requestTimeout(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}

	start := time.Now()
	status, raw, errs := agent.Bytes()
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		c.logger.Warn("staff api unreachable", append(fields, zap.Error(err))...)
		return nil, apperrors.NewNetworkError(err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	ok := status >= http.StatusOK && status < http.StatusMultipleChoices
	switch {
	case decodeErr != nil && ok:
		c.logger.Warn("staff api returned malformed body", append(fields, zap.Int("status", status), zap.Error(decodeErr))...)
		return nil, apperrors.NewRemoteError("The server returned an invalid response.", http.StatusBadGateway)
	case decodeErr != nil:
		c.logger.Warn("staff api request failed", append(fields, zap.Int("status", status))...)
		return nil, apperrors.NewRemoteError("", status)
	case !ok || !env.Success:
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if status < http.StatusBadRequest {
			status = http.StatusUnprocessableEntity
		}
		c.logger.Info("staff api rejected request", append(fields, zap.Int("status", status), zap.String("error", msg))...)
		return nil, apperrors.NewRemoteError(msg, status)
	}

	c.logger.Debug("staff api request", append(fields, zap.Int("status", status))...)
	return &env, nil
}

func (c *StaffClient) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout == 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

func newAgent(method, target string) *fiber.Agent {
	switch method {
	case http.MethodPost:
		return fiber.Post(target)
	case http.MethodPut:
		return fiber.Put(target)
	case http.MethodDelete:
		return fiber.Delete(target)
	default:
		return fiber.Get(target)
	}
}

func isEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeData(raw json.RawMessage, v any) error {
	if isEmpty(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apperrors.NewRemoteError("The server returned an invalid response.", http.StatusBadGateway)
	}
	return nil
}
