package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/niksmo/cloudshop/internal/adapter/session"
	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	t.Run("MissingFileIsAnonymous", func(t *testing.T) {
		s := session.NewFileStore(filepath.Join(t.TempDir(), "session.yaml"))

		sess, err := s.Load()
		require.NoError(t, err)
		assert.False(t, sess.Authenticated())
	})

	t.Run("SaveLoadDelete", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "session.yaml")
		s := session.NewFileStore(path)
		want := domain.Session{
			Token:     "tkn",
			User:      domain.User{Username: "bob", Email: "a@b.c"},
			ExpiresAt: time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
		}

		require.NoError(t, s.Save(want))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, want.Token, got.Token)
		assert.Equal(t, want.User, got.User)
		assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))

		require.NoError(t, s.Delete())
		require.NoError(t, s.Delete())

		got, err = s.Load()
		require.NoError(t, err)
		assert.False(t, got.Authenticated())
	})

	t.Run("Corrupted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.yaml")
		require.NoError(t, os.WriteFile(path, []byte("token: [unclosed"), 0o600))

		_, err := session.NewFileStore(path).Load()
		assert.Error(t, err)
	})

	t.Run("StaleTmpReplaced", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.yaml")
		require.NoError(t, os.WriteFile(path+".tmp", []byte("stale"), 0o644))

		require.NoError(t, session.NewFileStore(path).Save(domain.Session{Token: "tkn"}))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
		assert.NoFileExists(t, path+".tmp")
	})

	t.Run("FailedRenameLeavesNoTmp", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.yaml")
		require.NoError(t, os.MkdirAll(filepath.Join(path, "occupied"), 0o700))

		err := session.NewFileStore(path).Save(domain.Session{Token: "tkn"})
		require.Error(t, err)
		assert.NoFileExists(t, path+".tmp")
	})
}
