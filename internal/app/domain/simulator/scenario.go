package simulator

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

// Location is a preset point of sale.
type Location struct {
	Name string
	Lat  float64
	Lon  float64
}

var Locations = []Location{
	{"New York, NY", 40.7128, -74.006},
	{"Los Angeles, CA", 34.0522, -118.2437},
	{"Chicago, IL", 41.8781, -87.6298},
	{"Houston, TX", 29.7604, -95.3698},
	{"London, UK", 51.5074, -0.1278},
	{"Tokyo, Japan", 35.6762, 139.6503},
}

// Categories are the merchant categories the scoring model was trained on.
var Categories = []string{
	"grocery_pos", "gas_transport", "home", "shopping_pos", "kids_pets",
	"shopping_net", "entertainment", "food_dining", "personal_care",
	"health_fitness", "misc_pos", "misc_net", "grocery_net", "travel",
}

// velocityRoute is physically impossible to travel at the scenario's pace.
var velocityRoute = []Location{Locations[0], Locations[4], Locations[5]}

const (
	ScenarioSingle   = "single"
	ScenarioBurst    = "burst"
	ScenarioVelocity = "velocity"

	burstSize = 5
)

type FraudChecker interface {
	FraudCheck(ctx context.Context, req models.FraudCheckRequest) (*models.Transaction, error)
}

// Runner submits scenario transactions. Submissions are staggered by the
// configured spacing and run concurrently, so a slow answer never delays
// the next submission.
type Runner struct {
	checker         FraudChecker
	burstSpacing    time.Duration
	velocitySpacing time.Duration
	intN            func(n int) int
	now             func() time.Time
}

func NewRunner(checker FraudChecker, burstSpacing, velocitySpacing time.Duration) *Runner {
	return &Runner{
		checker:         checker,
		burstSpacing:    burstSpacing,
		velocitySpacing: velocitySpacing,
		intN:            rand.IntN,
		now:             time.Now,
	}
}

// Outcome collects what a scenario produced. Failed submissions are counted
// and the first error kept; the others still run.
type Outcome struct {
	Results []Result
	Failed  int
	Err     error
}

type submission struct {
	delay time.Duration
	req   models.FraudCheckRequest
}

// Single submits req once.
func (r *Runner) Single(ctx context.Context, req models.FraudCheckRequest, done func(Result)) Outcome {
	return r.run(ctx, ScenarioSingle, []submission{{req: req}}, done)
}

// Burst submits five transactions from base's card with amounts between 50
// and 549.
func (r *Runner) Burst(ctx context.Context, base models.FraudCheckRequest, done func(Result)) Outcome {
	subs := make([]submission, burstSize)
	for i := range subs {
		req := base
		req.Amount = decimal.NewFromInt(int64(r.intN(500) + 50))
		subs[i] = submission{delay: time.Duration(i) * r.burstSpacing, req: req}
	}
	return r.run(ctx, ScenarioBurst, subs, done)
}

// Velocity submits from New York, London and Tokyo with amounts between 100
// and 1099.
func (r *Runner) Velocity(ctx context.Context, base models.FraudCheckRequest, done func(Result)) Outcome {
	subs := make([]submission, len(velocityRoute))
	for i, loc := range velocityRoute {
		req := base
		req.Latitude, req.Longitude = loc.Lat, loc.Lon
		req.Amount = decimal.NewFromInt(int64(r.intN(1000) + 100))
		subs[i] = submission{delay: time.Duration(i) * r.velocitySpacing, req: req}
	}
	return r.run(ctx, ScenarioVelocity, subs, done)
}

func (r *Runner) run(ctx context.Context, scenario string, subs []submission, done func(Result)) Outcome {
	var (
		mu  sync.Mutex
		out Outcome
		g   errgroup.Group
	)
	for _, sub := range subs {
		g.Go(func() error {
			if err := sleep(ctx, sub.delay); err != nil {
				return err
			}
			txn, err := r.checker.FraudCheck(ctx, sub.req)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				out.Failed++
				if out.Err == nil {
					out.Err = err
				}
				return nil
			}
			res := Result{Transaction: *txn, Scenario: scenario, SubmittedAt: r.now()}
			out.Results = append(out.Results, res)
			if done != nil {
				done(res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil && out.Err == nil {
		out.Err = err
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
