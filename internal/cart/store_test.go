package cart

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ozhegovsv/storefront/internal/models"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func TestLoadCreatesSessionLazily(t *testing.T) {
	store := &Store{DB: initTestDB(t)}

	c, err := store.Load("sid-1")
	require.NoError(t, err)
	require.Equal(t, 0, c.Len())

	var sess models.Session
	require.NoError(t, store.DB.Where("id = ?", "sid-1").First(&sess).Error)
	require.Nil(t, sess.UserID)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := &Store{DB: initTestDB(t)}

	c, err := store.Load("sid-1")
	require.NoError(t, err)
	c.Add(productA, 2, false)
	c.Add(productB, 1, false)
	require.NoError(t, store.Save("sid-1", c))

	loaded, err := store.Load("sid-1")
	require.NoError(t, err)
	require.Equal(t, c.Lines(), loaded.Lines())
	require.Equal(t, 25.00, loaded.TotalCost())
}

func TestCartsAreSessionScoped(t *testing.T) {
	store := &Store{DB: initTestDB(t)}

	c1, err := store.Load("sid-1")
	require.NoError(t, err)
	c1.Add(productA, 1, false)
	require.NoError(t, store.Save("sid-1", c1))

	c2, err := store.Load("sid-2")
	require.NoError(t, err)
	require.Equal(t, 0, c2.Len())
}

func TestAttachUser(t *testing.T) {
	store := &Store{DB: initTestDB(t)}

	_, err := store.Load("sid-1")
	require.NoError(t, err)
	require.NoError(t, store.AttachUser("sid-1", 42))

	var sess models.Session
	require.NoError(t, store.DB.Where("id = ?", "sid-1").First(&sess).Error)
	require.NotNil(t, sess.UserID)
	require.Equal(t, uint(42), *sess.UserID)

	// blank session id is ignored, not an error
	require.NoError(t, store.AttachUser("", 42))
}
