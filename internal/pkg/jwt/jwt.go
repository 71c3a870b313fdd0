package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrMissingClaims = errors.New("authentication claims are missing")
	ErrInvalidClaims = errors.New("authentication claims are invalid")
)

// Claims is what the API needs from a verified access token.
type Claims struct {
	EmployeeID string
	Role       employee.Role
}

func (c Claims) IsAdmin() bool {
	return c.Role == employee.RoleAdmin
}

type Service interface {
	// GenerateAccessToken signs a token for an employee. Tokens are issued by
	// the identity provider in production; this exists for tooling and tests.
	GenerateAccessToken(employeeID string, role employee.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpiration string) (Service, error) {
	exp, err := time.ParseDuration(accessTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpiration, err)
	}
	return &JWTService{
		accessTokenExpiration: exp,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}, nil
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(employeeID string, role employee.Role) (string, int64, error) {
	expiresAt := time.Now().Add(j.accessTokenExpiration).Unix()
	_, token, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"role":        string(role),
		"type":        "access",
		"exp":         expiresAt,
	})
	return token, expiresAt, err
}

// ClaimsFromContext reads the claims placed on ctx by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMissingClaims, err)
	}
	if claims == nil {
		return Claims{}, ErrMissingClaims
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return Claims{}, fmt.Errorf("%w: employee_id claim is missing", ErrInvalidClaims)
	}

	role, _ := claims["role"].(string)
	if !employee.Role(role).IsValid() {
		return Claims{}, fmt.Errorf("%w: role claim is missing", ErrInvalidClaims)
	}

	return Claims{EmployeeID: employeeID, Role: employee.Role(role)}, nil
}

// NewContext stores claims on ctx the way jwtauth.Verifier does.
func NewContext(ctx context.Context, c Claims) context.Context {
	token := jwt.New()
	_ = token.Set("employee_id", c.EmployeeID)
	_ = token.Set("role", string(c.Role))
	return jwtauth.NewContext(ctx, token, nil)
}
