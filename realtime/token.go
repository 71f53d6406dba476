package realtime

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoomGrant describes the permissions embedded in an access token.
type RoomGrant struct {
	Room         string `json:"room"`
	RoomJoin     bool   `json:"roomJoin"`
	CanPublish   bool   `json:"canPublish"`
	CanSubscribe bool   `json:"canSubscribe"`
	AgentRole    string `json:"agentRole,omitempty"`
}

// accessClaims is the JWT payload the platform expects: issuer is the API key,
// subject the participant identity, plus a room grant.
type accessClaims struct {
	jwt.RegisteredClaims
	Name  string    `json:"name,omitempty"`
	Grant RoomGrant `json:"grant"`
}

// AccessToken mints platform access tokens signed with the API secret.
type AccessToken struct {
	apiKey    string
	apiSecret string
	identity  string
	name      string
	grant     RoomGrant
	ttl       time.Duration
}

// NewAccessToken creates a token builder for the given credentials.
func NewAccessToken(apiKey, apiSecret string) *AccessToken {
	return &AccessToken{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		ttl:       6 * time.Hour,
	}
}

// SetIdentity sets the participant identity (JWT subject).
func (t *AccessToken) SetIdentity(identity string) *AccessToken {
	t.identity = identity
	return t
}

// SetName sets the participant display name.
func (t *AccessToken) SetName(name string) *AccessToken {
	t.name = name
	return t
}

// SetGrant sets the room grant embedded in the token.
func (t *AccessToken) SetGrant(grant RoomGrant) *AccessToken {
	t.grant = grant
	return t
}

// SetValidFor overrides the token lifetime (default 6h).
func (t *AccessToken) SetValidFor(ttl time.Duration) *AccessToken {
	t.ttl = ttl
	return t
}

// ToJWT signs and serializes the token.
func (t *AccessToken) ToJWT() (string, error) {
	if t.apiKey == "" || t.apiSecret == "" {
		return "", fmt.Errorf("api key and secret are required")
	}
	if t.identity == "" {
		return "", fmt.Errorf("identity is required")
	}

	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.apiKey,
			Subject:   t.identity,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Name:  t.name,
		Grant: t.grant,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(t.apiSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, nil
}

// VerifyToken parses and validates a token against the API secret, returning
// the identity and grant it carries. Used in tests and by tooling.
func VerifyToken(tokenStr, apiSecret string) (string, RoomGrant, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return []byte(apiSecret), nil
	})
	if err != nil {
		return "", RoomGrant{}, fmt.Errorf("invalid access token: %w", err)
	}

	return claims.Subject, claims.Grant, nil
}
