package client

import (
	"context"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"github.com/tidwall/gjson"

	"github.com/withkit/withings/api"
	"github.com/withkit/withings/auth/oauth"
	"github.com/withkit/withings/auth/state"
)

const tokenEndpoint = "v2/oauth2"

// Authorizer implements oauth.Authorizer against the Withings token
// endpoint. Both the authorization-code exchange and the refresh-token
// exchange go through the same `requesttoken` action.
type Authorizer struct {
	client *resty.Client
	clock  clockwork.Clock

	clientID     string
	clientSecret string
	redirectURI  string
	demo         bool
}

// NewAuthorizer returns an Authorizer for the given registration.
func NewAuthorizer(reg Registration) *Authorizer {
	return newAuthorizer(reg, api.BaseURL, clockwork.NewRealClock())
}

func newAuthorizer(reg Registration, apiURL string, clock clockwork.Clock) *Authorizer {
	return &Authorizer{
		client:       api.NewHTTPClient(apiURL),
		clock:        clock,
		clientID:     reg.ClientID,
		clientSecret: reg.ClientSecret,
		redirectURI:  reg.RedirectURI,
		demo:         reg.Demo,
	}
}

// Exchange implements oauth.Exchanger.
func (a *Authorizer) Exchange(ctx context.Context, authorizationCode string, redirectURI string) (*state.Credentials, error) {
	if redirectURI == "" {
		redirectURI = a.redirectURI
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", authorizationCode)
	form.Set("redirect_uri", redirectURI)

	return a.requestToken(ctx, form)
}

// Refresh implements oauth.Refresher.
func (a *Authorizer) Refresh(ctx context.Context, refreshToken string) (*state.Credentials, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	return a.requestToken(ctx, form)
}

func (a *Authorizer) requestToken(ctx context.Context, form url.Values) (*state.Credentials, error) {
	form.Set("action", "requesttoken")
	form.Set("client_id", a.clientID)
	form.Set("client_secret", a.clientSecret)

	resp, err := a.client.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		Post(tokenEndpoint)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if resp.IsError() {
		return nil, trace.Errorf("token endpoint returned %v", resp.Status())
	}

	body, err := api.UnwrapBody(resp.Body())
	if err != nil {
		return nil, trace.Wrap(err)
	}

	accessToken := gjson.GetBytes(body, "access_token")
	if !accessToken.Exists() || accessToken.String() == "" {
		return nil, trace.BadParameter("token response does not contain `access_token`")
	}
	refreshToken := gjson.GetBytes(body, "refresh_token")
	if !refreshToken.Exists() || refreshToken.String() == "" {
		return nil, trace.BadParameter("token response does not contain `refresh_token`")
	}
	expiresIn := gjson.GetBytes(body, "expires_in")
	if !expiresIn.Exists() {
		return nil, trace.BadParameter("token response does not contain `expires_in`")
	}

	return &state.Credentials{
		UserID:       gjson.GetBytes(body, "userid").String(),
		AccessToken:  accessToken.String(),
		RefreshToken: refreshToken.String(),
		TokenType:    tokenTypeOrDefault(gjson.GetBytes(body, "token_type").String()),
		Scope:        gjson.GetBytes(body, "scope").String(),
		ExpiresAt:    a.clock.Now().UTC().Add(time.Duration(expiresIn.Int()) * time.Second),
		Demo:         a.demo,
	}, nil
}

func tokenTypeOrDefault(tokenType string) string {
	if tokenType == "" {
		return "Bearer"
	}
	return tokenType
}

var _ oauth.Authorizer = &Authorizer{}
