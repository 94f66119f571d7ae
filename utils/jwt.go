package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	GuestVolunteerID = "u_guest"
	sessionTTL       = 24 * time.Hour
)

type Claims struct {
	VolunteerID string `json:"volunteer_id"`
	Name        string `json:"name"`
	SessionID   string `json:"session_id"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a day-long session for a volunteer. Guests get
// GuestVolunteerID.
func GenerateSessionToken(secret, volunteerID, name string) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		VolunteerID: volunteerID,
		Name:        name,
		SessionID:   uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   volunteerID,
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func ParseSessionToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// IsGuest reports whether the session belongs to an anonymous viewer.
func (c *Claims) IsGuest() bool {
	return c.VolunteerID == GuestVolunteerID
}
