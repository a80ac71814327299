package mealdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoeats-backend/internal/config"
	"ecoeats-backend/internal/store"
)

func testConfig(url string) config.MealDBConfig {
	return config.MealDBConfig{
		BaseURL:          url,
		Timeout:          2 * time.Second,
		RequestsPerSec:   1000,
		BreakerFailures:  3,
		BreakerOpenDelay: time.Minute,
	}
}

func fakeMealDB(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search.php":
			switch r.URL.Query().Get("f") {
			case "a":
				fmt.Fprint(w, `{"meals":[{"idMeal":"1","strMeal":"Apple Pie","strIngredient1":"Apples","strMeasure1":"3"},{"idMeal":"2","strMeal":"Arrabiata","strIngredient1":"penne rigate","strMeasure1":"1 pound"}]}`)
			case "b":
				fmt.Fprint(w, `{"meals":[{"idMeal":"3","strMeal":"Beef Stew","strIngredient1":"Beef","strMeasure1":null}]}`)
			case "x":
				w.WriteHeader(http.StatusBadGateway)
				fmt.Fprint(w, "upstream down")
			default:
				fmt.Fprint(w, `{"meals":null}`)
			}
		case "/lookup.php":
			if r.URL.Query().Get("i") == "1" {
				fmt.Fprint(w, `{"meals":[{"idMeal":"1","strMeal":"Apple Pie"}]}`)
				return
			}
			fmt.Fprint(w, `{"meals":null}`)
		case "/random.php":
			fmt.Fprint(w, `{"meals":[{"idMeal":"9","strMeal":"Random"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchByLetter(t *testing.T) {
	c := NewClient(testConfig(fakeMealDB(t).URL))

	meals, err := c.SearchByLetter(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "Apple Pie", meals[0].Field("strMeal"))

	meals, err = c.SearchByLetter(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestLookupAndRandom(t *testing.T) {
	c := NewClient(testConfig(fakeMealDB(t).URL))
	ctx := context.Background()

	m, err := c.LookupByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Apple Pie", m.Field("strMeal"))

	_, err = c.LookupByID(ctx, "404")
	assert.ErrorIs(t, err, ErrNotFound)

	m, err = c.Random(ctx)
	require.NoError(t, err)
	assert.Equal(t, "9", m.Field("idMeal"))
}

func TestFetchAllSkipsFailingLetters(t *testing.T) {
	c := NewClient(testConfig(fakeMealDB(t).URL))

	meals, err := c.FetchAll(context.Background(), "axbq")
	require.NoError(t, err)
	assert.Len(t, meals, 3)
}

func TestFetchAllEveryLetterFails(t *testing.T) {
	c := NewClient(testConfig(fakeMealDB(t).URL))

	_, err := c.FetchAll(context.Background(), "xx")
	assert.ErrorContains(t, err, "every letter failed")
	assert.ErrorContains(t, err, "status 502")
}

func TestBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(testConfig(srv.URL))
	_, err := c.FetchAll(context.Background(), "abcdef")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState), "got %v", err)
	assert.Equal(t, int32(3), calls.Load(), "no calls once open")
}

func TestImportReplacesCatalog(t *testing.T) {
	c := NewClient(testConfig(fakeMealDB(t).URL))
	s := store.NewMemory()
	ctx := context.Background()
	_, err := s.ReplaceRecipes(ctx, nil)
	require.NoError(t, err)

	n, err := Import(ctx, c, s, "ab")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	stew, err := s.GetRecipe(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"Beef"}, stew.Ingredients)
	assert.Equal(t, []string{"beef"}, stew.UsesIngredients)

	_, err = Import(ctx, c, s, "q")
	assert.ErrorIs(t, err, ErrNoRecipes)
	all, err := s.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3, "empty fetch keeps the catalog")
}
