//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskwire/taskwire-api/internal/domain"
	"github.com/taskwire/taskwire-api/internal/platform/postgres"
	"github.com/taskwire/taskwire-api/internal/store"
	"github.com/taskwire/taskwire-api/internal/testdb"
)

// insertUser persists a minimal user row for use as a task participant.
func insertUser(t *testing.T, tx *sql.Tx, email string) uuid.UUID {
	t.Helper()

	user, err := domain.NewUser(email, "Test User", "a-long-enough-password")
	require.NoError(t, err)
	user.HashedPassword = "not-a-real-hash"
	user.Password = ""

	users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost)
	require.NoError(t, users.Create(context.Background(), user))
	return user.ID
}

func insertTask(t *testing.T, tx *sql.Tx, creator, assignee uuid.UUID, title string, due time.Time) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(creator, assignee, title, "", due, "", "")
	require.NoError(t, err)

	tasks := postgres.NewPostgresTaskStore(tx)
	require.NoError(t, tasks.Create(context.Background(), task))
	return task
}

func TestPostgresUserStore_Integration(t *testing.T) {
	t.Parallel()
	db := testdb.Connect(t)
	ctx := context.Background()

	t.Run("create hashes and duplicate email conflicts", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost)

			user, err := domain.NewUser("dupe@example.com", "First", "password123")
			require.NoError(t, err)
			require.NoError(t, users.Create(ctx, user))
			assert.Empty(t, user.Password, "plaintext should be cleared after hashing")
			assert.NotEmpty(t, user.HashedPassword)

			again, err := domain.NewUser("DUPE@example.com", "Second", "password123")
			require.NoError(t, err)
			err = users.Create(ctx, again)
			assert.ErrorIs(t, err, store.ErrEmailExists)
		})
	})

	t.Run("list orders users by name", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost)
			for _, u := range []struct{ name, email string }{
				{"Charlie", "charlie@example.com"},
				{"Alice", "alice@example.com"},
			} {
				user, err := domain.NewUser(u.email, u.name, "password123")
				require.NoError(t, err)
				require.NoError(t, users.Create(ctx, user))
			}

			listed, err := users.List(ctx)
			require.NoError(t, err)
			require.Len(t, listed, 2)
			assert.Equal(t, "Alice", listed[0].Name)
			assert.Equal(t, "Charlie", listed[1].Name)
		})
	})

	t.Run("get by email is case-insensitive", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			id := insertUser(t, tx, "casey@example.com")

			users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost)
			found, err := users.GetByEmail(ctx, "Casey@Example.com")
			require.NoError(t, err)
			assert.Equal(t, id, found.ID)

			_, err = users.GetByEmail(ctx, "nobody@example.com")
			assert.ErrorIs(t, err, store.ErrUserNotFound)
		})
	})
}

func TestPostgresTaskStore_Integration(t *testing.T) {
	t.Parallel()
	db := testdb.Connect(t)
	ctx := context.Background()

	t.Run("create rejects unknown assignee", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			creator := insertUser(t, tx, "creator@example.com")

			task, err := domain.NewTask(creator, uuid.New(), "Orphan", "", time.Now().Add(time.Hour), "", "")
			require.NoError(t, err)

			tasks := postgres.NewPostgresTaskStore(tx)
			err = tasks.Create(ctx, task)
			assert.ErrorIs(t, err, store.ErrInvalidEntity)
		})
	})

	t.Run("list applies visibility and filters", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			alice := insertUser(t, tx, "alice@example.com")
			bob := insertUser(t, tx, "bob@example.com")
			carol := insertUser(t, tx, "carol@example.com")

			day := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
			insertTask(t, tx, alice, bob, "Ship release", day)
			insertTask(t, tx, alice, alice, "Write retro notes", day.Add(48*time.Hour))
			insertTask(t, tx, bob, carol, "Unrelated work", day)

			tasks := postgres.NewPostgresTaskStore(tx)

			visible, err := tasks.ListForUser(ctx, alice, store.TaskFilter{})
			require.NoError(t, err)
			assert.Len(t, visible, 2, "alice sees created and assigned tasks only")

			// Assignee visibility without creator overlap.
			visible, err = tasks.ListForUser(ctx, carol, store.TaskFilter{})
			require.NoError(t, err)
			require.Len(t, visible, 1)
			assert.Equal(t, "Unrelated work", visible[0].Title)

			visible, err = tasks.ListForUser(ctx, alice, store.TaskFilter{Search: "retro"})
			require.NoError(t, err)
			require.Len(t, visible, 1)
			assert.Equal(t, "Write retro notes", visible[0].Title)

			visible, err = tasks.ListForUser(ctx, alice, store.TaskFilter{DueDate: &day})
			require.NoError(t, err)
			require.Len(t, visible, 1)
			assert.Equal(t, "Ship release", visible[0].Title)
		})
	})

	t.Run("update and delete round trip", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			alice := insertUser(t, tx, "alice@example.com")
			task := insertTask(t, tx, alice, alice, "Draft plan", time.Now().Add(time.Hour))

			tasks := postgres.NewPostgresTaskStore(tx)

			task.Status = domain.TaskStatusCompleted
			task.UpdatedAt = time.Now().UTC()
			require.NoError(t, tasks.Update(ctx, task))

			stored, err := tasks.GetByID(ctx, task.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.TaskStatusCompleted, stored.Status)

			require.NoError(t, tasks.Delete(ctx, task.ID))
			_, err = tasks.GetByID(ctx, task.ID)
			assert.ErrorIs(t, err, store.ErrTaskNotFound)

			assert.ErrorIs(t, tasks.Delete(ctx, task.ID), store.ErrTaskNotFound)
		})
	})
}

func TestRunInTransaction_Integration(t *testing.T) {
	t.Parallel()
	db := testdb.Connect(t)
	ctx := context.Background()

	users := postgres.NewPostgresUserStore(db, bcrypt.MinCost)

	t.Run("commit persists writes", func(t *testing.T) {
		email := uuid.NewString() + "@example.com"

		var created *domain.User
		err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			user, err := domain.NewUser(email, "Committed", "password123")
			if err != nil {
				return err
			}
			created = user
			return users.WithTx(tx).Create(ctx, user)
		})
		require.NoError(t, err)

		found, err := users.GetByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)

		_, err = db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", created.ID)
		require.NoError(t, err)
	})

	t.Run("error rolls back writes", func(t *testing.T) {
		email := uuid.NewString() + "@example.com"

		err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			user, err := domain.NewUser(email, "Rolled Back", "password123")
			if err != nil {
				return err
			}
			if err := users.WithTx(tx).Create(ctx, user); err != nil {
				return err
			}
			return errors.New("abort")
		})
		require.Error(t, err)

		_, err = users.GetByEmail(ctx, email)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresNotificationStore_Integration(t *testing.T) {
	t.Parallel()
	db := testdb.Connect(t)
	ctx := context.Background()

	t.Run("mark read enforces ownership", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			owner := insertUser(t, tx, "owner@example.com")
			other := insertUser(t, tx, "other@example.com")

			notifications := postgres.NewPostgresNotificationStore(tx)
			n, err := domain.NewNotification(owner, "You have been assigned a task", nil)
			require.NoError(t, err)
			require.NoError(t, notifications.Create(ctx, n))

			err = notifications.MarkRead(ctx, other, n.ID)
			assert.ErrorIs(t, err, store.ErrNotificationNotFound)

			require.NoError(t, notifications.MarkRead(ctx, owner, n.ID))
			// A second call is a no-op, not an error.
			require.NoError(t, notifications.MarkRead(ctx, owner, n.ID))

			list, err := notifications.ListForUser(ctx, owner)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.True(t, list[0].IsRead)
		})
	})

	t.Run("deleting a task keeps its notifications", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			alice := insertUser(t, tx, "alice@example.com")
			task := insertTask(t, tx, alice, alice, "Ephemeral", time.Now().Add(time.Hour))

			notifications := postgres.NewPostgresNotificationStore(tx)
			n, err := domain.NewNotification(alice, "Assigned", &task.ID)
			require.NoError(t, err)
			require.NoError(t, notifications.Create(ctx, n))

			tasks := postgres.NewPostgresTaskStore(tx)
			require.NoError(t, tasks.Delete(ctx, task.ID))

			list, err := notifications.ListForUser(ctx, alice)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Nil(t, list[0].TaskID, "task reference is nulled on delete")
		})
	})

	t.Run("mark all read counts unread only", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			owner := insertUser(t, tx, "owner@example.com")
			notifications := postgres.NewPostgresNotificationStore(tx)

			for i := 0; i < 3; i++ {
				n, err := domain.NewNotification(owner, "Assigned", nil)
				require.NoError(t, err)
				require.NoError(t, notifications.Create(ctx, n))
			}

			updated, err := notifications.MarkAllRead(ctx, owner)
			require.NoError(t, err)
			assert.Equal(t, int64(3), updated)

			updated, err = notifications.MarkAllRead(ctx, owner)
			require.NoError(t, err)
			assert.Zero(t, updated)
		})
	})
}
