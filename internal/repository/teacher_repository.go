package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/school-management/internal/model"
)

// TeacherRepo provides CRUD operations for teacher records.
type TeacherRepo struct{ DB DBTX }

func NewTeacherRepo(db DBTX) *TeacherRepo { return &TeacherRepo{DB: db} }

const teacherColumns = "id,user_id,employee_number,department,qualification,join_date,created_at,updated_at"

// Create inserts a teacher record and fills in its generated ID.  A
// duplicate employee number maps to ErrDuplicate.
func (r *TeacherRepo) Create(ctx context.Context, t *model.Teacher) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO teachers (user_id, employee_number, department, qualification, join_date) VALUES (?,?,?,?,?)",
		t.UserID, t.EmployeeNumber, t.Department, t.Qualification, t.JoinDate)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID fetches a teacher by id; a missing row maps to ErrNotFound.
func (r *TeacherRepo) GetByID(ctx context.Context, id uint64) (model.Teacher, error) {
	var t model.Teacher
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+teacherColumns+" FROM teachers WHERE id=? LIMIT 1", id).
		Scan(&t.ID, &t.UserID, &t.EmployeeNumber, &t.Department, &t.Qualification, &t.JoinDate, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Teacher{}, ErrNotFound
	}
	return t, err
}

// List returns one page of teachers ordered by id plus the total count.
// page is 1-based; perPage defaults to 20 and is capped at 100.
func (r *TeacherRepo) List(ctx context.Context, page, perPage int) ([]model.Teacher, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM teachers").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+teacherColumns+" FROM teachers ORDER BY id LIMIT ? OFFSET ?",
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []model.Teacher
	for rows.Next() {
		var t model.Teacher
		if err := rows.Scan(&t.ID, &t.UserID, &t.EmployeeNumber, &t.Department, &t.Qualification, &t.JoinDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

// Update persists the mutable fields of t.  Returns ErrNotFound when no
// row matched and ErrDuplicate on an employee-number collision.
func (r *TeacherRepo) Update(ctx context.Context, t *model.Teacher) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE teachers SET user_id=?, employee_number=?, department=?, qualification=?, join_date=? WHERE id=?",
		t.UserID, t.EmployeeNumber, t.Department, t.Qualification, t.JoinDate, t.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a teacher record.
func (r *TeacherRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM teachers WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
