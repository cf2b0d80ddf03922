package escalation

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "callbridge"

var (
	ErrInvalidCallbackToken = errors.New("invalid callback token")
	ErrExpiredCallbackToken = errors.New("expired callback token")
)

// CallbackClaims bind a provider callback URL to one transfer.
type CallbackClaims struct {
	TransferID string `json:"tid"`
	jwt.RegisteredClaims
}

func signCallbackToken(secret []byte, transferID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := CallbackClaims{
		TransferID: transferID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   transferID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign callback token: %w", err)
	}
	return signed, nil
}

func verifyCallbackToken(secret []byte, transferID, token string) error {
	var claims CallbackClaims
	t, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithSubject(transferID))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredCallbackToken
		}
		return fmt.Errorf("%w: %v", ErrInvalidCallbackToken, err)
	}
	if !t.Valid || claims.TransferID != transferID {
		return ErrInvalidCallbackToken
	}
	return nil
}
