package model

import "time"

// Teacher represents a row in the `teachers` table.  A teacher record
// may optionally be linked to an application user account via UserID.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – linked user account (nil when the record has no login).
//  EmployeeNumber – unique school-issued employee number.
//  Department     – optional department name.
//  Qualification  – optional qualification description.
//  JoinDate       – date the teacher joined.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type Teacher struct {
    ID             uint64    // teachers.id
    UserID         *uint64   // teachers.user_id (nullable)
    EmployeeNumber string    // teachers.employee_number
    Department     *string   // teachers.department (nullable)
    Qualification  *string   // teachers.qualification (nullable)
    JoinDate       time.Time // teachers.join_date
    CreatedAt      time.Time // teachers.created_at
    UpdatedAt      time.Time // teachers.updated_at
}
