package secureauth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type verifyTwoFactorRequest struct {
	TempToken string `json:"tempToken"`
	Code      string `json:"code"`
}

type authenticationResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	SessionToken string   `json:"sessionToken"`
	TokenType    string   `json:"tokenType"`
	ExpiresIn    int64    `json:"expiresIn"`
	User         *Profile `json:"user"`
	Requires2FA  bool     `json:"requires2FA"`
	TempToken    string   `json:"tempToken"`
}

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// A 401 here is credential rejection and maps to [ErrInvalidCredentials]; it
// never triggers the refresh or teardown machinery. When the account has
// two-factor enabled, no tokens are stored and Login returns the challenge
// result together with [ErrTwoFactorRequired]: the result carries the temp
// token for [Client.VerifyLoginTwoFactor].
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	raw, err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		c.metricInc(MetricLoginFailure)
		c.emitEvent(ctx, eventLoginFailure, false, username, err, nil)

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, errors.Join(ErrInvalidCredentials, err)
		}
		return nil, err
	}

	var res authenticationResponse
	if err := decodeData(raw, &res); err != nil {
		return nil, err
	}

	if res.Requires2FA {
		c.metricInc(MetricTwoFactorChallenge)
		c.emitEvent(ctx, eventTwoFactorChallenge, true, username, nil, nil)
		return &LoginResult{
			TwoFactorRequired: true,
			TempToken:         res.TempToken,
		}, ErrTwoFactorRequired
	}

	result, err := c.completeLogin(ctx, username, res)
	if err != nil {
		return nil, err
	}
	c.metricInc(MetricLoginSuccess)
	c.emitEvent(ctx, eventLoginSuccess, true, username, nil, nil)
	return result, nil
}

// VerifyLoginTwoFactor describes the verifylogintwofactor operation and its observable behavior.
//
// VerifyLoginTwoFactor may return an error when input validation, dependency calls, or security checks fail.
// VerifyLoginTwoFactor does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// It exchanges the temp token from a challenged [Client.Login] plus the 6-digit
// authenticator code for the full token set. A 401 maps to
// [ErrTwoFactorInvalid] and, like login, bypasses the refresh machinery.
func (c *Client) VerifyLoginTwoFactor(ctx context.Context, username, tempToken, code string) (*LoginResult, error) {
	if !isSixDigits(code) {
		return nil, ErrTwoFactorInvalid
	}

	raw, err := c.do(ctx, http.MethodPost, "/auth/verify-2fa", nil, verifyTwoFactorRequest{
		TempToken: tempToken,
		Code:      code,
	})
	if err != nil {
		c.metricInc(MetricTwoFactorFailure)
		c.emitEvent(ctx, eventTwoFactorFailure, false, username, err, nil)

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, errors.Join(ErrTwoFactorInvalid, err)
		}
		return nil, err
	}

	var res authenticationResponse
	if err := decodeData(raw, &res); err != nil {
		return nil, err
	}

	result, err := c.completeLogin(ctx, username, res)
	if err != nil {
		return nil, err
	}
	c.metricInc(MetricTwoFactorSuccess)
	c.emitEvent(ctx, eventTwoFactorSuccess, true, username, nil, nil)
	return result, nil
}

// completeLogin persists the full session record: tokens, profile JSON, and
// username, one synchronous write sequence.
func (c *Client) completeLogin(ctx context.Context, username string, res authenticationResponse) (*LoginResult, error) {
	if res.AccessToken == "" || res.RefreshToken == "" {
		return nil, ErrResponseMalformed
	}

	if err := c.store.SetTokens(ctx, res.AccessToken, res.RefreshToken, res.SessionToken); err != nil {
		return nil, err
	}

	var profile Profile
	if res.User != nil {
		profile = *res.User
		raw, err := json.Marshal(profile)
		if err != nil {
			return nil, err
		}
		if err := c.store.SetProfile(ctx, raw); err != nil {
			return nil, err
		}
		if username == "" {
			username = profile.Username
		}
	}
	if err := c.store.SetUsername(ctx, username); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:        res.AccessToken,
		RefreshToken:       res.RefreshToken,
		SessionToken:       res.SessionToken,
		Profile:            profile,
		MustChangePassword: profile.MustChangePassword,
	}, nil
}

// RefreshAccessToken describes the refreshaccesstoken operation and its observable behavior.
//
// RefreshAccessToken may return an error when input validation, dependency calls, or security checks fail.
// RefreshAccessToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// It forces a refresh outside the 401 recovery path, for callers that want to
// renew proactively. Only the access token is replaced on success. With no
// stored refresh token there is no session to renew and the call returns
// [ErrNotAuthenticated].
func (c *Client) RefreshAccessToken(ctx context.Context) error {
	refresh, err := c.store.RefreshToken(ctx)
	if err != nil {
		return err
	}
	if refresh == "" {
		return ErrNotAuthenticated
	}
	_, err = c.refreshAccess(ctx, refresh)
	return err
}

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Server-side invalidation is best-effort; the local teardown (store wipe plus
// cache wipe) always runs, and only local failures surface as errors.
func (c *Client) Logout(ctx context.Context) error {
	session, _ := c.store.SessionToken(ctx)
	if _, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		log.Print("secureauth: server-side logout failed")
	}

	if err := c.store.Clear(ctx); err != nil {
		return err
	}
	if c.cache != nil {
		c.cache.Clear()
	}

	c.metricInc(MetricLogout)
	c.emitSessionEvent(ctx, eventLogout, true, "", session, nil, nil)
	return nil
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
