package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"peak/internal/auth"
	"peak/internal/config"
	"peak/internal/healthapi"
	"peak/internal/logging"
	"peak/internal/service"
	"peak/internal/store"
)

// app holds everything a command needs once config has been loaded
type app struct {
	configPath string
	out        io.Writer
	errOut     io.Writer
	now        func() time.Time

	cfg *config.Config
	log *zap.SugaredLogger
	db  *store.DB
	loc *time.Location
}

// setup loads config, builds the logger and opens the database.
// A missing config file is not an error; defaults and PEAK_* env apply.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if errors.Is(err, config.ErrNoConfig) {
		cfg, err = config.LoadDefaults()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	a.log, err = logging.New(cfg.Log)
	if err != nil {
		return err
	}

	a.loc, err = cfg.Location()
	if err != nil {
		return err
	}

	a.db, err = store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	a.log.Debugw("ready", "db", cfg.Storage.Path, "timezone", a.loc.String())
	return nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// provider returns the sample source for aggregation: the local store,
// or the remote API when remote is set
func (a *app) provider(remote bool) (service.Provider, error) {
	if !remote {
		return a.db, nil
	}
	return a.remoteClient()
}

// remoteClient builds the health API client, seeding stored tokens from
// config on first use and persisting refreshed tokens
func (a *app) remoteClient() (*healthapi.Client, error) {
	if !a.cfg.RemoteEnabled() {
		return nil, errors.New("no remote configured: set remote.base_url in the config file")
	}

	stored, err := a.db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) && a.cfg.Remote.AccessToken != "" {
		stored = &store.Auth{
			AccessToken:  a.cfg.Remote.AccessToken,
			RefreshToken: a.cfg.Remote.RefreshToken,
		}
		if err := a.db.SaveAuth(stored); err != nil {
			return nil, fmt.Errorf("saving auth: %w", err)
		}
		err = nil
	}
	if errors.Is(err, store.ErrNoAuth) {
		a.log.Warnw("no access token configured, sending unauthenticated requests")
		return healthapi.NewClient(a.cfg.Remote.BaseURL, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking auth: %w", err)
	}

	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     a.cfg.Remote.ClientID,
		ClientSecret: a.cfg.Remote.ClientSecret,
		AuthURL:      a.cfg.Remote.AuthURL,
		TokenURL:     a.cfg.Remote.TokenURL,
	})
	token := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		Expiry:       stored.ExpiresAt,
	}

	tokenSource := auth.NewTokenSource(oauthCfg, token, func(t *oauth2.Token) error {
		return a.db.UpdateTokens(t.AccessToken, t.RefreshToken, t.Expiry)
	})
	return healthapi.NewClient(a.cfg.Remote.BaseURL, tokenSource), nil
}

func (a *app) profileService() *service.ProfileService {
	return service.NewProfileService(a.db, a.log).WithDefaults(store.Profile{
		BaselineHRV:      a.cfg.Profile.BaselineHRV,
		SleepTargetHours: a.cfg.Profile.SleepTargetHours,
	})
}

func (a *app) journal() (*service.JournalLog, error) {
	var repo service.JournalRepository = a.db
	if a.cfg.Storage.JournalBackend == config.JournalFile {
		path, err := a.cfg.JournalPath()
		if err != nil {
			return nil, err
		}
		repo = store.NewFileJournal(path)
	}
	return service.NewJournalLog(repo)
}
