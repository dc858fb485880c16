package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/core/domain"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	return rec, body
}

func TestHTTPErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.Validationf("name is required"), http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrNotProjectMember, http.StatusForbidden},
		{domain.ErrNotProjectOwner, http.StatusForbidden},
		{domain.ErrInsufficientRole, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrProjectNotFound, http.StatusNotFound},
		{domain.ErrTaskNotFound, http.StatusNotFound},
		{domain.ErrSubtaskNotFound, http.StatusNotFound},
		{domain.ErrAttachmentNotFound, http.StatusNotFound},
		{domain.ErrNoteNotFound, http.StatusNotFound},
		{domain.ErrMemberNotFound, http.StatusNotFound},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrAlreadyMember, http.StatusConflict},
		{domain.ErrVersionConflict, http.StatusConflict},
	}

	for _, tc := range cases {
		rec, body := renderError(t, tc.err)
		if rec.Code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		if body.Error == "" {
			t.Errorf("%v: empty error message", tc.err)
		}
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	rec, _ := renderError(t, fmt.Errorf("loading project: %w", domain.ErrProjectNotFound))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("wrapped sentinel not mapped: got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	rec, body := renderError(t, echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if body.Error != "too many attempts" {
		t.Fatalf("unexpected message: %s", body.Error)
	}
}

type detailedErr struct{ details []string }

func (e *detailedErr) Error() string     { return "invalid request" }
func (e *detailedErr) Details() []string { return e.details }

func TestHTTPErrorHandler_DetailerSurfacesFieldMessages(t *testing.T) {
	rec, body := renderError(t, &detailedErr{details: []string{"email must be a valid email"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(body.Details) != 1 || body.Details[0] != "email must be a valid email" {
		t.Fatalf("details not surfaced: %+v", body.Details)
	}
}

func TestHTTPErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	rec, body := renderError(t, errors.New("connection reset by peer"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body.Error != "internal server error" {
		t.Fatalf("internal details leaked: %s", body.Error)
	}
}
