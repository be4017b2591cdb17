package obj

import (
	"math/rand"
	"testing"
)

func testTable() SelectionTable {
	return SelectionTable{
		{MaxDistance: 200, Choices: []WeightedAttack{{"swing", 1}, {"bash", 3}}},
		{Choices: []WeightedAttack{{"meteors", 1}}},
	}
}

func TestSelectionTableBuckets(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	tests := []struct {
		name     string
		dist     float64
		eligible func(string) bool
		want     string
		ok       bool
	}{
		{"far bucket", 500, nil, "meteors", true},
		{"renormalized to the only eligible", 100, func(n string) bool { return n != "bash" }, "swing", true},
		{"nothing eligible", 100, func(string) bool { return false }, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				got, ok := testTable().Choose(tt.dist, rng, tt.eligible)
				if got != tt.want || ok != tt.ok {
					t.Fatalf("expected %q/%v, got %q/%v", tt.want, tt.ok, got, ok)
				}
			}
		})
	}
}

func TestSelectionTableWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	counts := map[string]int{}
	const n = 4000
	for i := 0; i < n; i++ {
		name, _ := testTable().Choose(50, rng, nil)
		counts[name]++
	}
	frac := float64(counts["bash"]) / n
	if frac < 0.7 || frac > 0.8 {
		t.Fatalf("expected bash about 75%% of the time, got %.3f", frac)
	}
}

func TestSelectionTableNoBucket(t *testing.T) {
	table := SelectionTable{{MaxDistance: 100, Choices: []WeightedAttack{{"swing", 1}}}}
	if _, ok := table.Choose(150, rand.New(rand.NewSource(1)), nil); ok {
		t.Fatalf("distance past every bucket should choose nothing")
	}
	if names := testTable().Names(); len(names) != 3 {
		t.Fatalf("expected 3 distinct names, got %v", names)
	}
}

func TestJitterRoll(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	j := Jitter{Base: 1.2, Spread: 0.4}
	for i := 0; i < 100; i++ {
		v := j.Roll(rng)
		if v < 1.2 || v >= 1.6 {
			t.Fatalf("roll out of range: %.3f", v)
		}
	}
	if (Jitter{Base: 2}).Roll(rng) != 2 {
		t.Fatalf("zero spread should return the base")
	}
}
