package auth

import (
	"context"
	"sync"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/withkit/withings/auth/oauth"
	"github.com/withkit/withings/auth/state"
	"github.com/withkit/withings/lib/logger"
)

// CredentialsProvider yields credentials that are valid at the time of the call.
type CredentialsProvider interface {
	Credentials(ctx context.Context) (*state.Credentials, error)
}

// StaticCredentialsProvider is a CredentialsProvider that always returns the
// same credentials. Useful for short-lived scripts and tests.
type StaticCredentialsProvider struct {
	creds *state.Credentials
}

func NewStaticCredentialsProvider(creds *state.Credentials) *StaticCredentialsProvider {
	return &StaticCredentialsProvider{creds: creds}
}

func (s *StaticCredentialsProvider) Credentials(ctx context.Context) (*state.Credentials, error) {
	return s.creds, nil
}

// RefreshingCredentialsProvider implements the refresh-before-use token
// lifecycle: every call compares the clock against the stored expiration,
// and an expired access token is exchanged for a new pair exactly once
// before the credentials are handed out. The refreshed credentials are
// persisted before they are used. A failed refresh propagates to the
// caller, there is no retry.
type RefreshingCredentialsProvider struct {
	state     state.State
	refresher oauth.Refresher
	clock     clockwork.Clock

	log logrus.FieldLogger

	lock  sync.Mutex // protects creds
	creds *state.Credentials
}

// RefreshingCredentialsProviderConfig groups the RefreshingCredentialsProvider dependencies.
type RefreshingCredentialsProviderConfig struct {
	State     state.State
	Refresher oauth.Refresher
	Clock     clockwork.Clock
	Log       logrus.FieldLogger
}

func (cfg *RefreshingCredentialsProviderConfig) CheckAndSetDefaults() error {
	if cfg.State == nil {
		return trace.BadParameter("missing State")
	}
	if cfg.Refresher == nil {
		return trace.BadParameter("missing Refresher")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Log == nil {
		cfg.Log = logger.Standard()
	}
	return nil
}

// NewRefreshingCredentialsProvider loads the initial credentials from the
// state and returns a provider ready to serve requests.
func NewRefreshingCredentialsProvider(ctx context.Context, cfg RefreshingCredentialsProviderConfig) (*RefreshingCredentialsProvider, error) {
	if err := cfg.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}

	creds, err := cfg.State.GetCredentials(ctx)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	return &RefreshingCredentialsProvider{
		state:     cfg.State,
		refresher: cfg.Refresher,
		clock:     cfg.Clock,
		log:       cfg.Log,
		creds:     creds,
	}, nil
}

// Credentials implements CredentialsProvider.
func (p *RefreshingCredentialsProvider) Credentials(ctx context.Context) (*state.Credentials, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.clock.Now().Before(p.creds.ExpiresAt) {
		return p.creds, nil
	}

	p.log.WithField("user_id", p.creds.UserID).Debug("Access token expired, refreshing")

	creds, err := p.refresher.Refresh(ctx, p.creds.RefreshToken)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	// The token endpoint does not echo back every stored field.
	if creds.UserID == "" {
		creds.UserID = p.creds.UserID
	}
	if creds.TokenType == "" {
		creds.TokenType = p.creds.TokenType
	}
	if creds.Scope == "" {
		creds.Scope = p.creds.Scope
	}
	creds.Demo = p.creds.Demo

	if err := p.state.PutCredentials(ctx, creds); err != nil {
		return nil, trace.Wrap(err)
	}

	p.creds = creds
	p.log.WithField("user_id", creds.UserID).Debugf("Refreshed credentials, valid until %v", creds.ExpiresAt)
	return p.creds, nil
}
