// Package identity keeps track of the logged-in player.
package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/verte-zerg/wordwise/internal/model"
)

// ErrNotLoggedIn is returned when no session file exists.
var ErrNotLoggedIn = errors.New("not logged in (run `wordwise login <name>`)")

// UserStore registers users. A nil store keeps identities local to the session file.
type UserStore interface {
	EnsureUser(ctx context.Context, candidate model.User) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
}

// Provider logs players in and out through a TOML session file.
type Provider struct {
	path  string
	users UserStore
	now   func() time.Time
}

type sessionFile struct {
	User model.User `toml:"user"`
}

// NewProvider stores the session at path.
func NewProvider(path string, users UserStore) *Provider {
	return &Provider{path: path, users: users, now: time.Now}
}

// Login registers name (reusing its id when already known) and persists the session.
func (p *Provider) Login(ctx context.Context, name string) (model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.User{}, fmt.Errorf("user name is empty")
	}
	user := model.User{ID: uuid.NewString(), Name: name, CreatedAt: p.now().UTC()}
	if p.users != nil {
		stored, err := p.users.EnsureUser(ctx, user)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to register user: %w", err)
		}
		user = stored
	}
	if err := p.write(user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Restore returns the logged-in user.
func (p *Provider) Restore() (model.User, error) {
	if _, err := os.Stat(p.path); err != nil {
		if os.IsNotExist(err) {
			return model.User{}, ErrNotLoggedIn
		}
		return model.User{}, fmt.Errorf("failed to stat session: %w", err)
	}
	var sess sessionFile
	if _, err := toml.DecodeFile(p.path, &sess); err != nil {
		return model.User{}, fmt.Errorf("failed to decode session: %w", err)
	}
	if sess.User.ID == "" {
		return model.User{}, ErrNotLoggedIn
	}
	return sess.User, nil
}

// Verify restores the session and checks it against the user store.
func (p *Provider) Verify(ctx context.Context) (model.User, error) {
	user, err := p.Restore()
	if err != nil || p.users == nil {
		return user, err
	}
	stored, err := p.users.GetUser(ctx, user.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("session user %s is not registered: %w", user.ID, err)
	}
	return stored, nil
}

// Logout removes the session file. Logging out twice is not an error.
func (p *Provider) Logout() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

func (p *Provider) write(user model.User) (err error) {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	f, err := os.OpenFile(p.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := toml.NewEncoder(f).Encode(sessionFile{User: user}); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}
