package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	claimKind       = "kind"
	claimBranchID   = "branch_id"
	claimBranchName = "name"
	claimEmail      = "email"
	claimType       = "type"
)

type Service interface {
	GenerateBranchToken(branchID string, branchName string) (token string, expiresAt int64, err error)
	GenerateEmployeeToken(employeeID string, email string, branchID string, branchName string) (token string, expiresAt int64, err error)
	ParseSession(tokenString string) (*auth.Session, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expDuration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}

	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: expDuration,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}, nil
}

func (j *JWTService) GenerateBranchToken(branchID string, branchName string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpirationTime).Unix()

	claims := map[string]interface{}{
		jwt.SubjectKey:    branchID,
		claimKind:         string(auth.SubjectBranch),
		claimBranchID:     branchID,
		claimBranchName:   branchName,
		claimType:         "access",
		jwt.ExpirationKey: expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateEmployeeToken(employeeID string, email string, branchID string, branchName string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpirationTime).Unix()

	claims := map[string]interface{}{
		jwt.SubjectKey:    employeeID,
		claimKind:         string(auth.SubjectEmployee),
		claimEmail:        email,
		claimBranchID:     branchID,
		claimBranchName:   branchName,
		claimType:         "access",
		jwt.ExpirationKey: expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ParseSession verifies signature and expiry of tokenString and returns its session.
func (j *JWTService) ParseSession(tokenString string) (*auth.Session, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		if errors.Is(err, jwtauth.ErrExpired) {
			return nil, auth.ErrTokenExpired
		}
		return nil, auth.ErrInvalidToken
	}
	return SessionFromToken(token)
}

// SessionFromToken maps the claims of an already verified token.
func SessionFromToken(token jwt.Token) (*auth.Session, error) {
	if token == nil {
		return nil, auth.ErrInvalidToken
	}

	tokenType, _ := stringClaim(token, claimType)
	if tokenType != "access" {
		return nil, auth.ErrInvalidToken
	}

	kind, _ := stringClaim(token, claimKind)
	session := &auth.Session{
		Kind:      auth.SubjectKind(kind),
		SubjectID: token.Subject(),
		ExpiresAt: token.Expiration(),
	}
	session.BranchID, _ = stringClaim(token, claimBranchID)
	session.BranchName, _ = stringClaim(token, claimBranchName)
	session.Email, _ = stringClaim(token, claimEmail)

	switch session.Kind {
	case auth.SubjectBranch, auth.SubjectEmployee:
	default:
		return nil, auth.ErrInvalidToken
	}
	if session.SubjectID == "" || session.BranchID == "" {
		return nil, auth.ErrInvalidToken
	}

	return session, nil
}

func stringClaim(token jwt.Token, key string) (string, bool) {
	v, ok := token.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
