package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-management/internal/model"
	"github.com/iliyamo/school-management/internal/repository"
)

// StudentHandler exposes CRUD endpoints for student records.
type StudentHandler struct {
	Repo *repository.StudentRepo
}

// NewStudentHandler wires the handler with its repository.
func NewStudentHandler(repo *repository.StudentRepo) *StudentHandler {
	return &StudentHandler{Repo: repo}
}

// studentDTO is the wire representation of a student record.
type studentDTO struct {
	ID             uint64  `json:"id"`
	UserID         *uint64 `json:"user_id,omitempty"`
	StudentNumber  string  `json:"student_number"`
	Grade          *string `json:"grade,omitempty"`
	Class          *string `json:"class,omitempty"`
	EnrollmentDate string  `json:"enrollment_date"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func toStudentDTO(s model.Student) studentDTO {
	return studentDTO{
		ID:             s.ID,
		UserID:         s.UserID,
		StudentNumber:  s.StudentNumber,
		Grade:          s.Grade,
		Class:          s.Class,
		EnrollmentDate: s.EnrollmentDate.Format(dateLayout),
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      s.UpdatedAt.Format(time.RFC3339),
	}
}

// studentRequest carries the writable student fields.
type studentRequest struct {
	UserID         *uint64 `json:"user_id"`
	StudentNumber  string  `json:"student_number"`
	Grade          string  `json:"grade"`
	Class          string  `json:"class"`
	EnrollmentDate string  `json:"enrollment_date"`
}

func (r *studentRequest) toModel() (model.Student, error) {
	if r.StudentNumber == "" {
		return model.Student{}, errors.New("student_number is required")
	}
	enrolled := time.Now().UTC()
	if r.EnrollmentDate != "" {
		t, err := time.Parse(dateLayout, r.EnrollmentDate)
		if err != nil {
			return model.Student{}, errors.New("enrollment_date must be YYYY-MM-DD")
		}
		enrolled = t
	}
	return model.Student{
		UserID:         r.UserID,
		StudentNumber:  r.StudentNumber,
		Grade:          optString(r.Grade),
		Class:          optString(r.Class),
		EnrollmentDate: enrolled,
	}, nil
}

// Create registers a new student record.  A duplicate student number is
// rejected with 409.
func (h *StudentHandler) Create(c echo.Context) error {
	var req studentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Repo.Create(c.Request().Context(), &s); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "student number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toStudentDTO(s))
}

// Get returns one student by id.
func (h *StudentHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	s, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, toStudentDTO(s))
}

// List returns a page of students plus the total row count.  Page and
// per_page come from the query string; out-of-range values are clamped
// by the repository.
func (h *StudentHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	items, total, err := h.Repo.List(c.Request().Context(), page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	out := make([]studentDTO, 0, len(items))
	for _, s := range items {
		out = append(out, toStudentDTO(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"students": out, "total": total})
}

// Update replaces the writable fields of a student record.
func (h *StudentHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	var req studentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	s.ID = id
	if err := h.Repo.Update(c.Request().Context(), &s); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		case errors.Is(err, repository.ErrDuplicate):
			return c.JSON(http.StatusConflict, echo.Map{"error": "student number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "student updated"})
}

// Delete removes a student record.
func (h *StudentHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "student deleted"})
}
