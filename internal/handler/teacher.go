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

// TeacherHandler exposes CRUD endpoints for teacher records.  It
// mirrors StudentHandler; the two record types stay separate because
// their lifecycle and fields diverge (grades vs departments).
type TeacherHandler struct {
	Repo *repository.TeacherRepo
}

// NewTeacherHandler wires the handler with its repository.
func NewTeacherHandler(repo *repository.TeacherRepo) *TeacherHandler {
	return &TeacherHandler{Repo: repo}
}

type teacherDTO struct {
	ID             uint64  `json:"id"`
	UserID         *uint64 `json:"user_id,omitempty"`
	EmployeeNumber string  `json:"employee_number"`
	Department     *string `json:"department,omitempty"`
	Qualification  *string `json:"qualification,omitempty"`
	JoinDate       string  `json:"join_date"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func toTeacherDTO(t model.Teacher) teacherDTO {
	return teacherDTO{
		ID:             t.ID,
		UserID:         t.UserID,
		EmployeeNumber: t.EmployeeNumber,
		Department:     t.Department,
		Qualification:  t.Qualification,
		JoinDate:       t.JoinDate.Format(dateLayout),
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      t.UpdatedAt.Format(time.RFC3339),
	}
}

type teacherRequest struct {
	UserID         *uint64 `json:"user_id"`
	EmployeeNumber string  `json:"employee_number"`
	Department     string  `json:"department"`
	Qualification  string  `json:"qualification"`
	JoinDate       string  `json:"join_date"`
}

func (r *teacherRequest) toModel() (model.Teacher, error) {
	if r.EmployeeNumber == "" {
		return model.Teacher{}, errors.New("employee_number is required")
	}
	joined := time.Now().UTC()
	if r.JoinDate != "" {
		t, err := time.Parse(dateLayout, r.JoinDate)
		if err != nil {
			return model.Teacher{}, errors.New("join_date must be YYYY-MM-DD")
		}
		joined = t
	}
	return model.Teacher{
		UserID:         r.UserID,
		EmployeeNumber: r.EmployeeNumber,
		Department:     optString(r.Department),
		Qualification:  optString(r.Qualification),
		JoinDate:       joined,
	}, nil
}

// Create registers a new teacher record.  A duplicate employee number
// is rejected with 409.
func (h *TeacherHandler) Create(c echo.Context) error {
	var req teacherRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	t, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Repo.Create(c.Request().Context(), &t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "employee number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toTeacherDTO(t))
}

// Get returns one teacher by id.
func (h *TeacherHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid teacher id"})
	}
	t, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "teacher not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, toTeacherDTO(t))
}

// List returns a page of teachers plus the total row count.
func (h *TeacherHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	items, total, err := h.Repo.List(c.Request().Context(), page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	out := make([]teacherDTO, 0, len(items))
	for _, t := range items {
		out = append(out, toTeacherDTO(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"teachers": out, "total": total})
}

// Update replaces the writable fields of a teacher record.
func (h *TeacherHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid teacher id"})
	}
	var req teacherRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	t, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	t.ID = id
	if err := h.Repo.Update(c.Request().Context(), &t); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "teacher not found"})
		case errors.Is(err, repository.ErrDuplicate):
			return c.JSON(http.StatusConflict, echo.Map{"error": "employee number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "teacher updated"})
}

// Delete removes a teacher record.
func (h *TeacherHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid teacher id"})
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "teacher not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "teacher deleted"})
}
