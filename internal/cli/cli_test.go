package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoeats-backend/internal/config"
	"ecoeats-backend/internal/models"
	"ecoeats-backend/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := Command()
	cmd.Writer = &out
	cmd.ErrWriter = &out
	err := cmd.Run(context.Background(), append([]string{name}, args...))
	return out.String(), err
}

// withMemoryStore points every store-backed command at mem.
func withMemoryStore(t *testing.T) *store.Memory {
	t.Helper()
	t.Setenv("DATABASE_DRIVER", config.DriverMemory)
	t.Setenv("LOG_LEVEL", "disabled")
	mem := store.NewMemory()
	orig := openStore
	openStore = func(*config.Config) (store.Store, error) { return mem, nil }
	t.Cleanup(func() { openStore = orig })
	return mem
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRecommendBuiltInData(t *testing.T) {
	out, err := run(t, "recommend", "--limit", "3", "--explain")
	require.NoError(t, err)

	var scored []struct {
		Recipe  models.Recipe `json:"recipe"`
		Urgency float64       `json:"urgency_score"`
		Total   float64       `json:"total_score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &scored))
	require.NotEmpty(t, scored)
	assert.LessOrEqual(t, len(scored), 3)
	for i := 1; i < len(scored); i++ {
		assert.GreaterOrEqual(t, scored[i-1].Urgency, scored[i].Urgency)
	}
}

func TestRecommendFromFiles(t *testing.T) {
	recipes := writeFile(t, "recipes.yaml", `
- id: bread
  name: Bread
  cuisine_type: International
  prep_time: 60
  uses_ingredients: [flour]
  ingredients: ["500 g flour"]
  instructions: [Knead, Bake]
- id: omelette
  name: Omelette
  cuisine_type: French
  prep_time: 10
  uses_ingredients: [milk, eggs]
  ingredients: ["2 eggs", "50 ml milk"]
  instructions: [Whisk, Fry]
`)
	pantry := writeFile(t, "inventory.yaml", `
- name: Flour
  category: Pantry
  quantity: 1000
  days_until_expiration: 180
- name: Milk
  category: Dairy
  quantity: 1
  days_until_expiration: 2
`)

	out, err := run(t, "recommend", "--recipes", recipes, "--inventory", pantry)
	require.NoError(t, err)

	var got []models.Recipe
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "bread", got[0].ID)
}

func TestRecommendMissingFile(t *testing.T) {
	_, err := run(t, "recommend", "--recipes", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "open")
}

func TestSeedAndRefresh(t *testing.T) {
	mem := withMemoryStore(t)
	require.NoError(t, mem.CreateUser(context.Background(), &models.User{
		Name: "Ada", Email: "ada@example.com", Role: models.RoleAdmin,
	}))

	out, err := run(t, "seed", "--user-email", "ada@example.com")
	require.NoError(t, err)
	assert.JSONEq(t, `{"recipes":25,"inventory":20}`, out)

	out, err = run(t, "seed")
	require.NoError(t, err)
	assert.JSONEq(t, `{"recipes":0,"inventory":0}`, out, "second run is a no-op")

	out, err = run(t, "refresh-expiration")
	require.NoError(t, err)
	assert.Contains(t, out, `"updated"`)

	_, err = run(t, "seed", "--user-email", "nobody@example.com")
	assert.ErrorContains(t, err, `no user with email "nobody@example.com"`)
}

func TestImportInventory(t *testing.T) {
	mem := withMemoryStore(t)
	ctx := context.Background()
	user := &models.User{Name: "Bob", Email: "bob@example.com", Role: models.RoleMember}
	require.NoError(t, mem.CreateUser(ctx, user))

	csvPath := writeFile(t, "pantry.csv", `Name,Category,Quantity,Unit,Expiration_Date,Days_Until_Expiration,Total_Shelf_Life
Milk,Dairy,1.5,l,,4,10
Rice,Pantry,1000,g,,365,730
`)
	out, err := run(t, "import-inventory", "--file", csvPath, "--user-email", "bob@example.com")
	require.NoError(t, err)
	assert.JSONEq(t, `{"imported":2}`, out)

	items, err := mem.ListInventory(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Milk", items[0].Name)

	_, err = run(t, "import-inventory", "--user-email", "bob@example.com")
	assert.Error(t, err, "--file is required")
}

func TestFetchMealDB(t *testing.T) {
	mem := withMemoryStore(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("f") == "s" {
			fmt.Fprint(w, `{"meals":[{"idMeal":"52772","strMeal":"Shakshuka","strArea":"Egyptian","strIngredient1":"Eggs","strMeasure1":"4"}]}`)
			return
		}
		fmt.Fprint(w, `{"meals":null}`)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("MEALDB_BASE_URL", srv.URL)

	out, err := run(t, "fetch-mealdb", "--letters", "ks")
	require.NoError(t, err)
	assert.JSONEq(t, `{"recipes":1}`, out)

	r, err := mem.GetRecipe(context.Background(), "52772")
	require.NoError(t, err)
	assert.Equal(t, []string{"eggs"}, r.UsesIngredients)
	assert.Equal(t, []string{"4 Eggs"}, r.Ingredients)
}
