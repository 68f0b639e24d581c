package middleware // middleware contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strconv"  // numeric subject claim conversion
    "strings"  // prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the token's subject, email and roles claims into
// the request context.  The provided secret must match the one used
// when issuing tokens.  This middleware should wrap protected routes so
// that handlers can read `c.Get("user_id")`, `c.Get("email")` and
// `c.Get("roles")`.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse with the HS256 secret; reject any other signing method.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            uid, ok := subjectID(claims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            c.Set("user_id", uid)
            c.Set("email", claims["email"])
            c.Set("roles", roleNames(claims))
            return next(c)
        }
    }
}

// subjectID extracts the numeric user id from the sub claim.  Tokens
// carry the id as a decimal string, but numeric encodings decoded as
// float64 are accepted too.
func subjectID(claims jwt.MapClaims) (uint64, bool) {
    switch sub := claims["sub"].(type) {
    case string:
        n, err := strconv.ParseUint(sub, 10, 64)
        return n, err == nil
    case float64:
        return uint64(sub), true
    }
    return 0, false
}

// roleNames extracts the roles claim as a string slice.  JSON arrays
// decode as []interface{}, so each element is asserted individually.
func roleNames(claims jwt.MapClaims) []string {
    raw, ok := claims["roles"].([]interface{})
    if !ok {
        return nil
    }
    names := make([]string, 0, len(raw))
    for _, v := range raw {
        if s, ok := v.(string); ok {
            names = append(names, s)
        }
    }
    return names
}
