// Package mealdb pulls recipes from TheMealDB (https://www.themealdb.com)
// and converts them into the local recipe catalog format.
package mealdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"ecoeats-backend/internal/config"
	"ecoeats-backend/internal/logging"
	"ecoeats-backend/internal/metrics"
)

// ErrNotFound is returned when a lookup matches no meal.
var ErrNotFound = errors.New("meal not found")

// Meal is one entry of TheMealDB's "meals" array. The API spreads
// ingredients over strIngredient1..20 / strMeasure1..20, any of which may
// be null or blank, so the record is kept as a loose map.
type Meal map[string]any

// Field returns a trimmed string value, or "" for missing, null and
// non-string values.
func (m Meal) Field(key string) string {
	s, ok := m[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

type mealsResponse struct {
	Meals []Meal `json:"meals"`
}

// Client is a rate limited TheMealDB client behind a circuit breaker.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]Meal]
	log     zerolog.Logger
}

func NewClient(cfg config.MealDBConfig) *Client {
	log := logging.WithComponent("mealdb")

	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 10
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	cb := gobreaker.NewCircuitBreaker[[]Meal](gobreaker.Settings{
		Name:        "themealdb",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenDelay,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		cb:      cb,
		log:     log,
	}
}

// SearchByLetter lists meals whose name starts with letter.
func (c *Client) SearchByLetter(ctx context.Context, letter string) ([]Meal, error) {
	return c.get(ctx, "search.php", url.Values{"f": {letter}})
}

// LookupByID fetches a single meal.
func (c *Client) LookupByID(ctx context.Context, id string) (Meal, error) {
	meals, err := c.get(ctx, "lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, ErrNotFound
	}
	return meals[0], nil
}

// Random fetches one random meal.
func (c *Client) Random(ctx context.Context) (Meal, error) {
	meals, err := c.get(ctx, "random.php", nil)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, ErrNotFound
	}
	return meals[0], nil
}

// FetchAll searches every letter in letters. A failing letter is logged and
// skipped; the call fails only when the breaker opens, the context ends or
// no letter succeeds.
func (c *Client) FetchAll(ctx context.Context, letters string) ([]Meal, error) {
	var (
		all     []Meal
		lastErr error
		okCount int
	)
	for _, r := range letters {
		letter := string(r)
		meals, err := c.SearchByLetter(ctx, letter)
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || ctx.Err() != nil {
				return nil, fmt.Errorf("fetch letter %q: %w", letter, err)
			}
			c.log.Warn().Err(err).Str("letter", letter).Msg("skipping letter")
			lastErr = err
			continue
		}
		okCount++
		c.log.Debug().Str("letter", letter).Int("meals", len(meals)).Msg("fetched letter")
		all = append(all, meals...)
	}
	if okCount == 0 && lastErr != nil {
		return nil, fmt.Errorf("every letter failed: %w", lastErr)
	}
	return all, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]Meal, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	meals, err := c.cb.Execute(func() ([]Meal, error) {
		return c.do(ctx, endpoint, query)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordMealDBRequest("breaker_open")
	case err != nil:
		metrics.RecordMealDBRequest("error")
	default:
		metrics.RecordMealDBRequest("ok")
	}
	return meals, err
}

func (c *Client) do(ctx context.Context, endpoint string, query url.Values) ([]Meal, error) {
	u := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("GET %s: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out mealsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	c.log.Debug().Str("endpoint", endpoint).Dur("latency", time.Since(start)).Int("meals", len(out.Meals)).Msg("mealdb response")
	return out.Meals, nil
}
