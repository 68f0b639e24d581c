package model

import "time"

// Student represents a row in the `students` table.  A student record
// may optionally be linked to an application user account via UserID.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – linked user account (nil when the record has no login).
//  StudentNumber  – unique school-issued student number.
//  Grade          – optional grade level.
//  Class          – optional class/homeroom designation.
//  EnrollmentDate – date the student enrolled.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type Student struct {
    ID             uint64    // students.id
    UserID         *uint64   // students.user_id (nullable)
    StudentNumber  string    // students.student_number
    Grade          *string   // students.grade (nullable)
    Class          *string   // students.class (nullable)
    EnrollmentDate time.Time // students.enrollment_date
    CreatedAt      time.Time // students.created_at
    UpdatedAt      time.Time // students.updated_at
}
