// Package session persists the storefront session between CLI runs.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/niksmo/cloudshop/internal/core/port"
	"gopkg.in/yaml.v3"
)

var _ port.SessionStore = (*FileStore)(nil)

const filePerm = 0o600

type record struct {
	Token     string    `yaml:"token"`
	Username  string    `yaml:"username,omitempty"`
	Email     string    `yaml:"email,omitempty"`
	Phone     string    `yaml:"phone,omitempty"`
	ExpiresAt time.Time `yaml:"expires_at,omitempty"`
}

// A FileStore keeps a single session in a YAML file readable by the owner
// only.
type FileStore struct {
	path string
}

func NewFileStore(path string) FileStore {
	return FileStore{path}
}

// Load returns the stored session. A missing file is an anonymous session.
func (s FileStore) Load() (domain.Session, error) {
	const op = "FileStore.Load"

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Session{}, nil
		}
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	var r record
	if err := yaml.Unmarshal(b, &r); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.Session{
		Token: r.Token,
		User: domain.User{
			Username: r.Username,
			Email:    r.Email,
			Phone:    r.Phone,
		},
		ExpiresAt: r.ExpiresAt,
	}, nil
}

func (s FileStore) Save(sess domain.Session) error {
	const op = "FileStore.Save"

	r := record{
		Token:     sess.Token,
		Username:  sess.User.Username,
		Email:     sess.User.Email,
		Phone:     sess.User.Phone,
		ExpiresAt: sess.ExpiresAt,
	}
	b, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp := s.path + ".tmp"
	if err := writeNew(tmp, b); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%s: %w", op, err)
	}

	slog.Debug("session saved", "op", op, "path", s.path)
	return nil
}

// writeNew replaces any stale file at path with a fresh one created with
// filePerm. A partial write leaves nothing behind.
func writeNew(path string, b []byte) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return err
	}
	_, err = f.Write(b)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}

// Delete removes the stored session, a missing file is not an error.
func (s FileStore) Delete() error {
	const op = "FileStore.Delete"

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
