package jwt

import (
	"fmt"
	"os"
	"time"
	"uploadkit-go/internal/pkg/helper"
	"uploadkit-go/internal/pkg/redis"

	"github.com/dgrijalva/jwt-go"
)

// DownloadGrant is what a download token proves: the holder may fetch this
// stored object until the token expires or the grant is revoked.
type DownloadGrant struct {
	MediaID  string
	Bucket   string
	Object   string
	FileName string
	MimeType string
}

// Auth mints and validates download tokens. With SaveMethod REDIS every
// grant also keeps a session id in redis keyed by media id, so all
// outstanding tokens for a media can be revoked at once.
type Auth struct {
	TokenExpiredTime time.Duration
	TokenSecretKey   string
	SigningMethod    string
	SaveMethod       SaveMethodJWTEnum
	Redis            redis.IRedis
}

type IDownloadAuth interface {
	GenerateToken(grant *DownloadGrant) (string, *time.Time)
	ValidateToken(jwtToken string) (*DownloadGrant, error)
	RevokeGrant(mediaID string) error
}

// New Auth object
func New(rds redis.IRedis, opt *Options) IDownloadAuth {
	return &Auth{
		TokenExpiredTime: opt.TokenExpiredTime,
		TokenSecretKey:   opt.TokenSecretKey,
		SigningMethod:    opt.SigningMethod,
		SaveMethod:       opt.SaveMethod,
		Redis:            rds,
	}
}

func grantKey(mediaID string) string {
	return os.Getenv("APP_TENANT") + ":download:" + mediaID
}

// GenerateToken mints a signed token for the grant
func (a *Auth) GenerateToken(grant *DownloadGrant) (string, *time.Time) {
	if grant == nil || grant.MediaID == "" {
		return "", nil
	}

	exp := time.Now().Add(a.TokenExpiredTime)
	sessionID, err := helper.GenerateID()
	if err != nil {
		return "", nil
	}

	tokenContent := jwt.MapClaims{
		"media_id":   grant.MediaID,
		"bucket":     grant.Bucket,
		"object":     grant.Object,
		"file_name":  grant.FileName,
		"mime_type":  grant.MimeType,
		"iat":        time.Now().Unix(),
		"session_id": sessionID,
	}

	if a.TokenExpiredTime > 0 {
		tokenContent["exp"] = exp.Unix()
	}

	jwtToken := jwt.NewWithClaims(
		jwt.GetSigningMethod(a.SigningMethod),
		tokenContent,
	)
	token, err := jwtToken.SignedString([]byte(a.TokenSecretKey))
	if err != nil {
		return "", nil
	}

	if a.SaveMethod == REDIS {
		err = a.Redis.Set(grantKey(grant.MediaID), sessionID, a.TokenExpiredTime)
		if err != nil {
			return "", nil
		}
	}

	return token, &exp
}

// ValidateToken checks the signature, expiry and, with SaveMethod REDIS,
// that the grant has not been revoked
func (a *Auth) ValidateToken(jwtToken string) (*DownloadGrant, error) {
	tokenData := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(jwtToken, tokenData, func(token *jwt.Token) (interface{}, error) {
		return []byte(a.TokenSecretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrInvalidKey
	}

	mediaID := fmt.Sprintf("%v", tokenData["media_id"])
	if mediaID == "" || tokenData["media_id"] == nil {
		return nil, fmt.Errorf("media_id is required")
	}

	if a.SaveMethod == REDIS {
		sessionID, er := a.Redis.Get(grantKey(mediaID))
		if er != nil {
			return nil, jwt.ErrInvalidKey
		}
		if sessionID == "" {
			return nil, jwt.ErrInvalidKey
		}
		// redis values are stored JSON-encoded, so the session id comes
		// back quoted
		if sessionID != fmt.Sprintf("\"%s\"", tokenData["session_id"]) {
			return nil, jwt.ErrInvalidKey
		}
	}

	return &DownloadGrant{
		MediaID:  mediaID,
		Bucket:   fmt.Sprintf("%v", tokenData["bucket"]),
		Object:   fmt.Sprintf("%v", tokenData["object"]),
		FileName: fmt.Sprintf("%v", tokenData["file_name"]),
		MimeType: fmt.Sprintf("%v", tokenData["mime_type"]),
	}, nil
}

// RevokeGrant drops the redis session for a media id, invalidating every
// outstanding token for it. A no-op unless SaveMethod is REDIS.
func (a *Auth) RevokeGrant(mediaID string) error {
	if a.SaveMethod != REDIS {
		return nil
	}
	return a.Redis.Del(grantKey(mediaID))
}
