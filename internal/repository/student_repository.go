package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/school-management/internal/model"
)

// StudentRepo provides CRUD operations for student records.  All
// timestamp fields are assumed to be stored in UTC.
type StudentRepo struct{ DB DBTX }

func NewStudentRepo(db DBTX) *StudentRepo { return &StudentRepo{DB: db} }

const studentColumns = "id,user_id,student_number,grade,class,enrollment_date,created_at,updated_at"

// Create inserts a student record and fills in its generated ID.  A
// duplicate student number maps to ErrDuplicate.
func (r *StudentRepo) Create(ctx context.Context, s *model.Student) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO students (user_id, student_number, grade, class, enrollment_date) VALUES (?,?,?,?,?)",
		s.UserID, s.StudentNumber, s.Grade, s.Class, s.EnrollmentDate)
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
	s.ID = uint64(id)
	return nil
}

// GetByID fetches a student by id; a missing row maps to ErrNotFound.
func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (model.Student, error) {
	var s model.Student
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE id=? LIMIT 1", id).
		Scan(&s.ID, &s.UserID, &s.StudentNumber, &s.Grade, &s.Class, &s.EnrollmentDate, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Student{}, ErrNotFound
	}
	return s, err
}

// List returns one page of students ordered by id plus the total count.
// page is 1-based; perPage defaults to 20 and is capped at 100.
func (r *StudentRepo) List(ctx context.Context, page, perPage int) ([]model.Student, int, error) {
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
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM students").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM students ORDER BY id LIMIT ? OFFSET ?",
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.UserID, &s.StudentNumber, &s.Grade, &s.Class, &s.EnrollmentDate, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

// Update persists the mutable fields of s.  Returns ErrNotFound when no
// row matched and ErrDuplicate on a student-number collision.
func (r *StudentRepo) Update(ctx context.Context, s *model.Student) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE students SET user_id=?, student_number=?, grade=?, class=?, enrollment_date=? WHERE id=?",
		s.UserID, s.StudentNumber, s.Grade, s.Class, s.EnrollmentDate, s.ID)
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

// Delete removes a student record.
func (r *StudentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM students WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
