package model

import "time"

// User represents an application user record as stored in the `users`
// table. Each field corresponds to a column in the database. The json
// tags are omitted here because these structs are primarily used
// internally by the repository layer; handlers define separate response
// types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address, stored lowercase.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – given name.
//  LastName     – family name.
//  Phone        – optional phone number.
//  DateOfBirth  – optional date of birth.
//  Address      – optional postal address.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  LastLoginAt  – timestamp of the most recent successful login (nil before first login).
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64     // users.id
    Email        string     // users.email
    PasswordHash string     // users.password_hash
    FirstName    string     // users.first_name
    LastName     string     // users.last_name
    Phone        *string    // users.phone (nullable)
    DateOfBirth  *time.Time // users.date_of_birth (nullable)
    Address      *string    // users.address (nullable)
    IsActive     bool       // users.is_active
    CreatedAt    time.Time  // users.created_at
    LastLoginAt  *time.Time // users.last_login_at (nullable)
    UpdatedAt    time.Time  // users.updated_at
}

// FullName joins the first and last name with a single space.
func (u User) FullName() string {
    return u.FirstName + " " + u.LastName
}

// Role represents a row in the `roles` table.  Roles are created on
// demand the first time a name is referenced; membership lives in the
// `user_roles` join table.
//
// Fields:
//  ID   – numeric identifier of the role.
//  Name – unique role name (e.g. Student, Teacher, Admin).
type Role struct {
    ID   uint64 // roles.id
    Name string // roles.name
}

// RefreshToken models an entry in the `refresh_tokens` ledger.  Each
// issued refresh token is its own row so a user can hold several live
// sessions at once.  The plain token is never stored; only its SHA‑256
// hash.  A row validates a refresh request exactly once: consuming it
// sets IsUsed, revocation sets IsRevoked, and neither flag ever clears.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  JWTID     – jti claim of the access token issued alongside this row.
//  IsUsed    – set when the token is consumed by a rotation.
//  IsRevoked – set by logout or a bulk revocation.
//  CreatedAt – timestamp of issue.
//  ExpiresAt – expiration timestamp of the token.
type RefreshToken struct {
    ID        uint64    // refresh_tokens.id
    UserID    uint64    // refresh_tokens.user_id
    TokenHash string    // refresh_tokens.token_hash
    JWTID     string    // refresh_tokens.jwt_id
    IsUsed    bool      // refresh_tokens.is_used
    IsRevoked bool      // refresh_tokens.is_revoked
    CreatedAt time.Time // refresh_tokens.created_at
    ExpiresAt time.Time // refresh_tokens.expires_at
}

// PasswordReset models a row in the `password_resets` table.  Reset
// tokens are random values handed to the user out of band; only the
// SHA‑256 hash is stored and a row is good for a single reset.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user the reset was requested for.
//  TokenHash – SHA‑256 hex digest of the reset token.
//  CreatedAt – timestamp of the request.
//  ExpiresAt – expiration timestamp.
//  UsedAt    – when the token was consumed (nil while unused).
type PasswordReset struct {
    ID        uint64     // password_resets.id
    UserID    uint64     // password_resets.user_id
    TokenHash string     // password_resets.token_hash
    CreatedAt time.Time  // password_resets.created_at
    ExpiresAt time.Time  // password_resets.expires_at
    UsedAt    *time.Time // password_resets.used_at (nullable)
}
