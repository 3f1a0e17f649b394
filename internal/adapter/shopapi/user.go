package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/niksmo/cloudshop/internal/core/port"
)

var _ port.Users = (*Client)(nil)

const (
	userLoginPath    = "/user/api/user/login"
	userRegisterPath = "/user/api/user/register"
	userInfoPath     = "/user/api/user/info"
)

// Headers a login token may arrive in, in lookup order.
var tokenHeaders = []string{"Authorization", "Token", "X-Auth-Token"}

// Login returns the bearer token issued for creds. The token is taken from
// the response headers or the body, whichever carries it; when both carry
// different tokens the login fails with [domain.ErrAmbiguousToken].
func (c Client) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	const op = "Client.Login"

	res, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   userLoginPath,
		body: loginRequest{
			Username: creds.Username,
			Email:    creds.Email,
			Password: creds.Password,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := pickToken(tokenFromHeader(res.header), tokenFromBody(res.envelope.Data))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

func (c Client) Register(ctx context.Context, r domain.Registration) error {
	const op = "Client.Register"

	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   userRegisterPath,
		body: registerRequest{
			Username: r.Username,
			Password: r.Password,
			Phone:    r.Phone,
			Email:    r.Email,
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c Client) Info(ctx context.Context, token string) (domain.User, error) {
	const op = "Client.Info"

	res, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   userInfoPath,
		token:  token,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	dto, err := decodeData[userDTO](res.envelope)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return domain.User{
		Username: dto.Username,
		Email:    dto.Email,
		Phone:    dto.Phone,
	}, nil
}

func pickToken(fromHeader, fromBody string) (string, error) {
	switch {
	case fromHeader == "" && fromBody == "":
		return "", ErrNoToken
	case fromHeader == "":
		return fromBody, nil
	case fromBody == "":
		return fromHeader, nil
	case fromHeader != fromBody:
		return "", domain.ErrAmbiguousToken
	}
	return fromHeader, nil
}

func tokenFromHeader(h http.Header) string {
	for _, name := range tokenHeaders {
		v := strings.TrimSpace(h.Get(name))
		if v == "" {
			continue
		}
		if scheme, rest, ok := strings.Cut(v, " "); ok &&
			strings.EqualFold(scheme, "Bearer") {
			v = strings.TrimSpace(rest)
		}
		if v != "" {
			return v
		}
	}
	return ""
}

// tokenFromBody accepts "data" as a bare string or an object with a token
// field.
func tokenFromBody(data json.RawMessage) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(data, &s) == nil {
		return strings.TrimSpace(s)
	}

	var obj struct {
		Token       string `json:"token"`
		AccessToken string `json:"accessToken"`
	}
	if json.Unmarshal(data, &obj) != nil {
		return ""
	}
	if obj.Token != "" {
		return obj.Token
	}
	return obj.AccessToken
}
