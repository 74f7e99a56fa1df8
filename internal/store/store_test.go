package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/isdelr/recipe-collection-be/internal/database"
	"github.com/isdelr/recipe-collection-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func sampleUser(name string) models.User {
	return models.User{
		Username:              name,
		Password:              "s3cret",
		FavoriteCuisine:       "Italian",
		DietaryRestrictions:   "Vegetarian,Nut-free",
		PreferredIngredients:  "tomato, basil",
		IngredientsToAvoid:    "shellfish",
		CookingSkill:          "Beginner",
		FavoriteMeal:          "Dinner",
		SpiceLevel:            "Mild",
		CookingTimePreference: "Quick (<20 mins)",
	}
}

// UserStoreSuite runs the same contract against every backend.
type UserStoreSuite struct {
	suite.Suite
	newStore func(t *testing.T) UserStore
	store    UserStore
}

func (s *UserStoreSuite) SetupTest() {
	s.store = s.newStore(s.T())
	require.NoError(s.T(), s.store.Init())
}

func (s *UserStoreSuite) TestEmptyAfterInit() {
	assert.Empty(s.T(), s.store.Load())
}

func (s *UserStoreSuite) TestAppendThenFind() {
	before := len(s.store.Load())
	require.NoError(s.T(), s.store.Append(sampleUser("alice")))

	users := s.store.Load()
	assert.Len(s.T(), users, before+1)
	assert.Equal(s.T(), sampleUser("alice"), users[len(users)-1])

	found, ok := s.store.Find("alice", "s3cret")
	require.True(s.T(), ok)
	assert.Equal(s.T(), "Vegetarian,Nut-free", found.DietaryRestrictions)
}

func (s *UserStoreSuite) TestFindIsExactAndCaseSensitive() {
	require.NoError(s.T(), s.store.Append(sampleUser("alice")))

	_, ok := s.store.Find("Alice", "s3cret")
	assert.False(s.T(), ok)
	_, ok = s.store.Find("alice", "S3CRET")
	assert.False(s.T(), ok)
	_, ok = s.store.Find("alice", "")
	assert.False(s.T(), ok)
	_, ok = s.store.Find("bob", "s3cret")
	assert.False(s.T(), ok)
}

func (s *UserStoreSuite) TestDuplicateUsernameLeavesStoreUnchanged() {
	require.NoError(s.T(), s.store.Append(sampleUser("alice")))
	dup := sampleUser("alice")
	dup.Password = "other"

	err := s.store.Append(dup)
	assert.ErrorIs(s.T(), err, ErrUsernameTaken)
	assert.Len(s.T(), s.store.Load(), 1)

	_, ok := s.store.Find("alice", "other")
	assert.False(s.T(), ok)
}

func (s *UserStoreSuite) TestPreservesInsertionOrder() {
	for _, name := range []string{"carol", "alice", "bob"} {
		require.NoError(s.T(), s.store.Append(sampleUser(name)))
	}

	var names []string
	for _, u := range s.store.Load() {
		names = append(names, u.Username)
	}
	assert.Equal(s.T(), []string{"carol", "alice", "bob"}, names)
}

func TestCSVStoreSuite(t *testing.T) {
	suite.Run(t, &UserStoreSuite{newStore: func(t *testing.T) UserStore {
		return NewCSVStore(filepath.Join(t.TempDir(), "user_data.csv"))
	}})
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, &UserStoreSuite{newStore: func(t *testing.T) UserStore {
		db, err := database.New(filepath.Join(t.TempDir(), "recipes.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		return NewSQLiteStore(db)
	}})
}

func TestCSVStore_InitWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "user_data.csv")
	s := NewCSVStore(path)

	require.NoError(t, s.Init())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"username,password,favorite_cuisine,dietary_restrictions,preferred_ingredients,ingredients_to_avoid,cooking_skill,favorite_meal,spice_level,cooking_time_preference\n",
		string(raw))
}

func TestCSVStore_InitKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.csv")
	s := NewCSVStore(path)
	require.NoError(t, s.Init())
	require.NoError(t, s.Append(sampleUser("alice")))

	require.NoError(t, s.Init())
	assert.Len(t, s.Load(), 1)
}

func TestCSVStore_MissingFileLoadsEmpty(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "absent.csv"))

	users := s.Load()
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestCSVStore_MalformedFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.csv")
	require.NoError(t, os.WriteFile(path, []byte("username,password\n\"alice,unterminated\n"), 0644))
	s := NewCSVStore(path)

	assert.Empty(t, s.Load())

	err := s.Append(sampleUser("bob"))
	assert.Error(t, err)
	raw, _ := os.ReadFile(path)
	assert.Contains(t, string(raw), "unterminated", "a failed read must not clobber the file")
}

func TestCSVStore_ReadsReorderedAndMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.csv")
	content := "password,username,spice_level\nhunter2,dave,Spicy\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	s := NewCSVStore(path)

	u, ok := s.Find("dave", "hunter2")
	require.True(t, ok)
	assert.Equal(t, "Spicy", u.SpiceLevel)
	assert.Empty(t, u.FavoriteCuisine)
}

func TestCSVStore_QuotesCommaJoinedRestrictions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.csv")
	s := NewCSVStore(path)
	require.NoError(t, s.Init())
	require.NoError(t, s.Append(sampleUser("alice")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Vegetarian,Nut-free"`)
	assert.Equal(t, []string{"Vegetarian", "Nut-free"}, s.Load()[0].Restrictions())
}
