package handler // handler defines http handlers

import (
    "errors"  // sentinel values used in getUserID
    "strconv" // string-to-int conversion
    "time"    // date field parsing

    "github.com/labstack/echo/v4" // echo defines request context types
)

// dateLayout is the wire format for date-only fields (date of birth,
// enrollment date, join date).
const dateLayout = "2006-01-02"

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}

// parseDate parses an optional date-only string into *time.Time.  An
// empty string yields nil; a malformed string yields an error.
func parseDate(s string) (*time.Time, error) {
    if s == "" {
        return nil, nil
    }
    t, err := time.Parse(dateLayout, s)
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// optString converts an empty string to nil so optional fields store as
// NULL rather than "".
func optString(s string) *string {
    if s == "" {
        return nil
    }
    return &s
}
