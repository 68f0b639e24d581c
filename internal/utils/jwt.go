package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA‑256 hashing for refresh and reset tokens
    "encoding/base64" // base64 encoding for opaque tokens
    "encoding/hex"  // hex encoding for stored token hashes
    "errors"        // sentinel errors for token parsing
    "strconv"       // numeric subject claim conversion
    "time"          // expiration arithmetic

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
    "github.com/google/uuid"       // jti generation
)

// ErrInvalidToken is returned by ParseExpired when the presented access
// token fails signature verification or carries no resolvable subject.
var ErrInvalidToken = errors.New("invalid access token")

// TokenClaims carries the identity fields stamped into an access token.
type TokenClaims struct {
    UserID    uint64
    Email     string
    FirstName string
    LastName  string
    FullName  string
    Roles     []string
}

// AccessToken represents a signed HS256 JWT along with its jti and
// expiry.  Access tokens are short‑lived and sent in the Authorization
// header when calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    JTI   string    // unique token id, also recorded in the refresh ledger
    Exp   time.Time // the UTC expiration time
}

// RefreshToken represents a long‑lived opaque token used to obtain new
// access tokens.  The Raw value goes back to the client; the database
// stores only its SHA‑256 hash.
type RefreshToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT.  The claim set carries
// the subject id, email, a fresh jti, the name claims and one roles
// entry per assigned role, plus issuer/audience/iat/exp.
func NewAccessToken(secret, issuer, audience string, tc TokenClaims, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    jti := uuid.NewString()

    claims := jwt.MapClaims{
        "sub":       strconv.FormatUint(tc.UserID, 10),
        "email":     tc.Email,
        "jti":       jti,
        "firstName": tc.FirstName,
        "lastName":  tc.LastName,
        "fullName":  tc.FullName,
        "roles":     tc.Roles,
        "iss":       issuer,
        "aud":       audience,
        "iat":       now.Unix(),
        "exp":       exp.Unix(),
    }

    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, JTI: jti, Exp: exp}, nil
}

// NewRefreshToken returns an opaque refresh token (64 random bytes,
// base64 url-encoded) and its expiration time.  The ttlDays parameter
// controls how many days the token is valid.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
    buf := make([]byte, 64)
    if _, err := rand.Read(buf); err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{
        Raw: base64.RawURLEncoding.EncodeToString(buf),
        Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
    }, nil
}

// NewResetToken returns an opaque password-reset token (32 random
// bytes, base64 url-encoded) valid for ttl.
func NewResetToken(ttl time.Duration) (RefreshToken, error) {
    buf := make([]byte, 32)
    if _, err := rand.Read(buf); err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{
        Raw: base64.RawURLEncoding.EncodeToString(buf),
        Exp: time.Now().UTC().Add(ttl),
    }, nil
}

// HashTokenRaw returns the SHA‑256 hash of a raw opaque token as a hex
// string.  Storing only the hash prevents stolen database entries from
// being replayed as live tokens.
func HashTokenRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// ParseExpired verifies the signature of an access token while
// deliberately skipping claim validation, so an expired token still
// yields its subject and jti.  Issuer and audience are not checked here
// either; the refresh flow only needs to know who the token was minted
// for.  Tokens signed with a different key or a non-HMAC method fail
// with ErrInvalidToken.
func ParseExpired(secret, raw string) (userID uint64, jti string, err error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    }, jwt.WithoutClaimsValidation())
    if err != nil || !tok.Valid {
        return 0, "", ErrInvalidToken
    }

    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return 0, "", ErrInvalidToken
    }

    switch sub := claims["sub"].(type) {
    case string:
        n, perr := strconv.ParseUint(sub, 10, 64)
        if perr != nil {
            return 0, "", ErrInvalidToken
        }
        userID = n
    case float64:
        userID = uint64(sub)
    default:
        return 0, "", ErrInvalidToken
    }
    if userID == 0 {
        return 0, "", ErrInvalidToken
    }

    jti, _ = claims["jti"].(string)
    return userID, jti, nil
}
