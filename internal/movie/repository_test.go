package movie

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "movies.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, MigrateDB(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seed(t *testing.T, store Store, movies ...*Movie) []uint {
	t.Helper()
	ids := make([]uint, 0, len(movies))
	for _, m := range movies {
		id, err := store.Create(context.Background(), m)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func rated(title string, rating float64) *Movie {
	m := NewDraft(title, 2000, "overview of "+title, "http://img/", title+".jpg")
	m.Rating = rating
	return m
}

func TestStore_ListOrdersByRatingThenInsertion(t *testing.T) {
	store := NewStore(openTestDB(t))
	seed(t, store,
		rated("Low", 3.0),
		rated("TieFirst", 7.5),
		rated("High", 9.1),
		rated("TieSecond", 7.5),
	)

	movies, err := store.List(context.Background())
	require.NoError(t, err)

	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = m.Title
	}
	assert.Equal(t, []string{"High", "TieFirst", "TieSecond", "Low"}, titles)
}

func TestStore_CreateReturnsID(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	id, err := store.Create(ctx, NewDraft("Inception", 2010, "A thief", "http://image.tmdb.org/t/p/w500/", "abc.jpg"))
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Inception", got.Title)
	assert.Equal(t, 0.0, got.Rating)
	assert.Equal(t, 0, got.Ranking)
	assert.Equal(t, DefaultReview, got.Review)
	assert.Equal(t, "http://image.tmdb.org/t/p/w500/abc.jpg", got.ImgURL)
}

func TestStore_CreateDuplicateTitle(t *testing.T) {
	store := NewStore(openTestDB(t))
	seed(t, store, rated("Heat", 8))

	_, err := store.Create(context.Background(), rated("Heat", 5))
	assert.True(t, errors.Is(err, ErrDuplicateTitle), "got %v", err)
}

func TestStore_GetMissing(t *testing.T) {
	store := NewStore(openTestDB(t))
	_, err := store.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdateReview(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()
	ids := seed(t, store, NewDraft("Alien", 1979, "In space", "http://img/", "alien.jpg"))

	updated, err := store.UpdateReview(ctx, ids[0], 8.5, "Great")
	require.NoError(t, err)
	assert.Equal(t, 8.5, updated.Rating)
	assert.Equal(t, "Great", updated.Review)

	got, err := store.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 8.5, got.Rating)
	assert.Equal(t, "Great", got.Review)
	assert.Equal(t, "Alien", got.Title)
	assert.Equal(t, 1979, got.Year)
}

func TestStore_UpdateReviewMissing(t *testing.T) {
	store := NewStore(openTestDB(t))
	_, err := store.UpdateReview(context.Background(), 7, 8.5, "Great")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()
	ids := seed(t, store, rated("Keep", 5), rated("Drop", 6))

	require.NoError(t, store.Delete(ctx, ids[1]))
	assert.ErrorIs(t, store.Delete(ctx, ids[1]), ErrNotFound)

	movies, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Keep", movies[0].Title)
}

func TestStore_FindIDByTitle(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()
	ids := seed(t, store, rated("Up", 8))

	id, ok, err := store.FindIDByTitle(ctx, "Up")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ids[0], id)

	_, ok, err = store.FindIDByTitle(ctx, "Down")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SaveRankings(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()
	ids := seed(t, store, rated("A", 1), rated("B", 2))

	require.NoError(t, store.SaveRankings(ctx, map[uint]int{ids[0]: 2, ids[1]: 1}))

	a, err := store.Get(ctx, ids[0])
	require.NoError(t, err)
	b, err := store.Get(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, 2, a.Ranking)
	assert.Equal(t, 1, b.Ranking)
}
