// Package auth drives the partner portal login flow. Login failures
// are fatal to a run and come back as one of three sentinel errors so
// the caller can report what actually went wrong: the form never
// appeared, the portal rejected the credentials, or the portal ended
// up in a state the flow does not recognize.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nick-rajwade/svg-crawler/internal/browser"
	"github.com/nick-rajwade/svg-crawler/internal/site"
)

var (
	ErrFormNotFound     = errors.New("login form not found")
	ErrRejected         = errors.New("credentials rejected")
	ErrUnconfirmedState = errors.New("post-login state unconfirmed")
)

// Credentials for the partner portal.
type Credentials struct {
	Username string
	Password string
}

// Authenticator performs the portal sign-in once per run. There is no
// retry; a failed login aborts the crawl.
type Authenticator struct {
	creds         Credentials
	baseURL       string
	screenshotDir string
}

// New returns an Authenticator. screenshotDir may be empty to disable
// the diagnostic screenshot on failure.
func New(creds Credentials, baseURL, screenshotDir string) *Authenticator {
	return &Authenticator{creds: creds, baseURL: baseURL, screenshotDir: screenshotDir}
}

// Login signs in and returns once the authenticated landing page is
// confirmed by the presence of the library link.
func (a *Authenticator) Login(ctx context.Context, s browser.Session) error {
	err := a.login(ctx, s)
	if err != nil {
		a.screenshot(ctx, s)
	}
	return err
}

func (a *Authenticator) login(ctx context.Context, s browser.Session) error {
	log.Info("logging in", "url", a.baseURL, "user", a.creds.Username)

	if err := s.Navigate(ctx, a.baseURL); err != nil {
		return fmt.Errorf("opening portal: %w", err)
	}
	if err := s.Click(ctx, site.LoginLinkSelector); err != nil {
		return fmt.Errorf("%w: partner login link: %v", ErrFormNotFound, err)
	}
	if err := s.WaitVisible(ctx, site.UsernameSelector); err != nil {
		return fmt.Errorf("%w: username field never appeared", ErrFormNotFound)
	}
	if err := s.SendKeys(ctx, site.UsernameSelector, a.creds.Username); err != nil {
		return fmt.Errorf("filling username: %w", err)
	}
	if err := s.SendKeys(ctx, site.PasswordSelector, a.creds.Password); err != nil {
		return fmt.Errorf("filling password: %w", err)
	}
	if err := s.Click(ctx, site.SignInSelector); err != nil {
		return fmt.Errorf("submitting sign-in: %w", err)
	}

	if err := s.WaitVisible(ctx, site.LibraryLinkSelector); err != nil {
		// The password field surviving the submit means the portal put
		// the form back up, which is how it signals bad credentials.
		if still, perr := s.Present(ctx, site.PasswordSelector); perr == nil && still {
			return ErrRejected
		}
		return fmt.Errorf("%w: library link never appeared", ErrUnconfirmedState)
	}

	log.Info("login confirmed")
	return nil
}

// screenshot captures the page for post-mortem. Best effort only.
func (a *Authenticator) screenshot(ctx context.Context, s browser.Session) {
	if a.screenshotDir == "" {
		return
	}
	shot, err := s.Screenshot(ctx)
	if err != nil {
		log.Debug("login screenshot failed", "err", err)
		return
	}
	if err := os.MkdirAll(a.screenshotDir, 0755); err != nil {
		log.Debug("login screenshot failed", "err", err)
		return
	}
	dest := filepath.Join(a.screenshotDir, "login_failure.png")
	if err := os.WriteFile(dest, shot, 0644); err != nil {
		log.Debug("login screenshot failed", "err", err)
		return
	}
	log.Info("saved login failure screenshot", "path", dest)
}
