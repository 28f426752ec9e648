package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djshizzle/DJRequest-App/internal/apperr"
	"github.com/djshizzle/DJRequest-App/internal/storage"
)

type dirtyRecorder struct {
	names []string
}

func (d *dirtyRecorder) MarkDirty(name string) {
	d.names = append(d.names, name)
}

func TestCreateAnonymousUser(t *testing.T) {
	t.Run("creates a user with a fresh id", func(t *testing.T) {
		s := NewStore(nil)

		u, err := s.CreateAnonymousUser("Alex")
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "Alex", u.Name)
		assert.True(t, u.IsAnonymous)
		assert.False(t, u.IsDj)

		got, ok := s.CurrentUser()
		assert.True(t, ok)
		assert.Equal(t, u, got)
	})

	t.Run("trims the name", func(t *testing.T) {
		s := NewStore(nil)

		u, err := s.CreateAnonymousUser("  Sam  ")
		require.NoError(t, err)
		assert.Equal(t, "Sam", u.Name)
	})

	t.Run("blank name is a validation error", func(t *testing.T) {
		s := NewStore(nil)

		_, err := s.CreateAnonymousUser("   ")
		var ve *apperr.ValidationError
		assert.ErrorAs(t, err, &ve)

		_, ok := s.CurrentUser()
		assert.False(t, ok, "no state change on validation failure")
	})

	t.Run("ids are unique across logins", func(t *testing.T) {
		s := NewStore(nil)

		u1, err := s.CreateAnonymousUser("A")
		require.NoError(t, err)
		u2, err := s.CreateAnonymousUser("A")
		require.NoError(t, err)
		assert.NotEqual(t, u1.ID, u2.ID, "names are not unique but ids are")
	})

	t.Run("marks the document dirty", func(t *testing.T) {
		rec := &dirtyRecorder{}
		s := NewStore(rec)

		_, err := s.CreateAnonymousUser("Alex")
		require.NoError(t, err)
		assert.Equal(t, []string{DocumentName}, rec.names)
	})
}

func TestToggleDjMode(t *testing.T) {
	t.Run("twice restores mode and the user flag", func(t *testing.T) {
		s := NewStore(nil)
		_, err := s.CreateAnonymousUser("Alex")
		require.NoError(t, err)

		assert.True(t, s.ToggleDjMode())
		u, _ := s.CurrentUser()
		assert.True(t, u.IsDj)

		assert.False(t, s.ToggleDjMode())
		u, _ = s.CurrentUser()
		assert.False(t, u.IsDj)
		assert.False(t, s.DjMode())
	})

	t.Run("without a user only flips the mode", func(t *testing.T) {
		s := NewStore(nil)

		assert.True(t, s.ToggleDjMode())
		assert.True(t, s.DjMode())
		_, ok := s.CurrentUser()
		assert.False(t, ok)
	})
}

func TestLogout(t *testing.T) {
	s := NewStore(nil)
	_, err := s.CreateAnonymousUser("Alex")
	require.NoError(t, err)
	s.ToggleDjMode()

	s.Logout()

	_, ok := s.CurrentUser()
	assert.False(t, ok)
	assert.True(t, s.DjMode(), "logout keeps the device mode")
}

func TestSetUser(t *testing.T) {
	s := NewStore(nil)
	s.SetUser(User{ID: "u1", Name: "Kim", IsAnonymous: false, IsDj: true})

	u, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "u1", u.ID)
	assert.True(t, u.IsDj)
}

func TestIdentityPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	backend, err := storage.NewFileBackend(dir)
	require.NoError(t, err)
	ctx := context.Background()

	s := NewStore(nil)
	u, err := s.CreateAnonymousUser("Alex")
	require.NoError(t, err)
	s.ToggleDjMode()

	data, err := s.Snapshot()
	require.NoError(t, err)
	require.NoError(t, backend.Save(ctx, DocumentName, data))

	reloaded := NewStore(nil)
	require.NoError(t, reloaded.Init(ctx, backend))

	got, ok := reloaded.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Alex", got.Name)
	assert.True(t, got.IsDj)
	assert.True(t, reloaded.DjMode())
}

func TestInitMissingDocument(t *testing.T) {
	backend, err := storage.NewFileBackend(t.TempDir())
	require.NoError(t, err)

	s := NewStore(nil)
	require.NoError(t, s.Init(context.Background(), backend))

	_, ok := s.CurrentUser()
	assert.False(t, ok)
	assert.False(t, s.DjMode())
}
