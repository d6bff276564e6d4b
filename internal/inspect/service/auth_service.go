package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrGuestDisabled      = errors.New("guest access is disabled")
)

// TokenPair is an access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Account is the signed-in identity carried in the access token.
type Account struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Guest    bool   `json:"guest"`
}

// AuthService signs inspectors in against the configured account list
// and issues JWT pairs. Refresh tokens are single use, tracked by jti
// in redis while a client is configured.
type AuthService struct {
	rdb *redis.Client
	cfg *config.Config
}

func NewAuthService(rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{rdb: rdb, cfg: cfg}
}

// Login checks credentials against the configured users.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, *Account, error) {
	for _, u := range s.cfg.Auth.Users {
		if u.Username != username {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
			break
		}
		account := &Account{Username: u.Username, Name: u.Name, Email: u.Email}
		pair, err := s.generateTokenPair(ctx, account)
		if err != nil {
			return nil, nil, err
		}
		return pair, account, nil
	}
	return nil, nil, ErrInvalidCredentials
}

// GuestLogin issues a token for an anonymous session when allowed.
func (s *AuthService) GuestLogin(ctx context.Context) (*TokenPair, *Account, error) {
	if !s.cfg.Auth.AllowGuest {
		return nil, nil, ErrGuestDisabled
	}
	account := &Account{
		Username: "guest-" + uuid.New().String()[:8],
		Name:     "Guest Inspector",
		Guest:    true,
	}
	pair, err := s.generateTokenPair(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	return pair, account, nil
}

// RefreshToken exchanges a refresh token for a fresh pair, consuming
// its jti so the old token cannot be replayed.
func (s *AuthService) RefreshToken(ctx context.Context, refreshTokenString string) (*TokenPair, error) {
	token, err := jwt.Parse(refreshTokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["type"] != "refresh" {
		return nil, ErrInvalidToken
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, ErrInvalidToken
	}

	account := &Account{}
	account.Username, _ = claims["sub"].(string)
	account.Name, _ = claims["name"].(string)
	account.Guest, _ = claims["guest"].(bool)

	if s.rdb != nil {
		if _, err := s.rdb.Get(ctx, "token:refresh:"+jti).Result(); err != nil {
			return nil, ErrInvalidToken
		}
		s.rdb.Del(ctx, "token:refresh:"+jti)
	}

	return s.generateTokenPair(ctx, account)
}

func (s *AuthService) generateTokenPair(ctx context.Context, account *Account) (*TokenPair, error) {
	now := time.Now()

	accessClaims := jwt.MapClaims{
		"sub":   account.Username,
		"name":  account.Name,
		"email": account.Email,
		"guest": account.Guest,
		"iss":   s.cfg.JWT.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWT.AccessTokenExpire).Unix(),
		"jti":   uuid.New().String(),
	}
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshJti := uuid.New().String()
	refreshClaims := jwt.MapClaims{
		"sub":   account.Username,
		"name":  account.Name,
		"guest": account.Guest,
		"type":  "refresh",
		"iss":   s.cfg.JWT.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWT.RefreshTokenExpire).Unix(),
		"jti":   refreshJti,
	}
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if s.rdb != nil {
		s.rdb.Set(ctx, "token:refresh:"+refreshJti, account.Username, s.cfg.JWT.RefreshTokenExpire)
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.cfg.JWT.AccessTokenExpire.Seconds()),
	}, nil
}
