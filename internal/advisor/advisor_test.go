package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/game"
)

// fixedSource always returns the same draw.
type fixedSource float64

func (f fixedSource) IntN(int) int     { return 0 }
func (f fixedSource) Float64() float64 { return float64(f) }

// headsUp deals a two-player hand from cards placed on top of the deck. With
// no previous dealer, seat 0 is dealer and big blind and seat 1 (small blind)
// acts first. Deal order is seat 0, seat 1, seat 0, seat 1, then the board.
func headsUp(t *testing.T, cards string) *game.GameState {
	t.Helper()
	top := deck.MustParseCards(cards)
	used := map[deck.Card]bool{}
	for _, c := range top {
		used[c] = true
	}
	for _, c := range deck.Ordered() {
		if !used[c] {
			top = append(top, c)
		}
	}
	d, err := deck.NewFromCards(top)
	require.NoError(t, err)

	players := []game.Player{
		{ID: "bb", Name: "Button", Type: game.Autonomous, Chips: 1000},
		{ID: "sb", Name: "Hero", Type: game.Human, Chips: 1000},
	}
	s, err := game.StartHand(players, game.Blinds{Small: 5, Big: 10}, game.WithDeck(d))
	require.NoError(t, err)
	require.Equal(t, 1, s.CurrentPlayer)
	return s
}

func toFlop(t *testing.T, s *game.GameState) *game.GameState {
	t.Helper()
	s, err := game.Apply(s, game.Call, 0)
	require.NoError(t, err)
	require.Equal(t, game.Flop, s.Street)
	require.Equal(t, 1, s.CurrentPlayer)
	return s
}

func TestPreFlopStrength(t *testing.T) {
	t.Parallel()
	tests := []struct {
		hole string
		want float64
	}{
		{"AsAh", 0.975},
		{"KsKh", 0.95},
		{"JsJh", 0.9},
		{"TsTh", 0.866},
		{"8s8h", 0.8},
		{"2s2h", 0.6},
		{"AsKs", 0.87},
		{"KsQh", 0.78},
		{"8s7s", 0.67},
		{"Ad2c", 0.5},
		{"7d2c", 0.225},
		{"5s2s", 0.265},
		{"9c4d", 0.245},
	}
	for _, tt := range tests {
		t.Run(tt.hole, func(t *testing.T) {
			got := HandStrength(deck.MustParseCards(tt.hole), nil)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPreFlopStrengthOrdersPairs(t *testing.T) {
	t.Parallel()
	prev := 0.0
	for r := deck.Two; r <= deck.Ace; r++ {
		s := HandStrength([]deck.Card{deck.NewCard(deck.Spades, r), deck.NewCard(deck.Hearts, r)}, nil)
		assert.Greater(t, s, prev, "pair of %s", r.Plural())
		prev = s
	}
}

func TestPostFlopStrength(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		hole  string
		board string
		want  float64
	}{
		{"royal flush", "AsKs", "QsJsTs", 1.0},
		{"quads", "9s9h", "9d9c2s", 0.9},
		{"flush", "AhKh", "4h7h9h", 0.7},
		{"trips", "7s7h", "7d2cKs", 0.5},
		{"pair", "AsKd", "Ac7h2d", 0.25},
		{"ace high", "AsKd", "9c7h2d", 0.1 + 12.0/13*0.15},
		{"straight", "7s5d", "6c4h3d", 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandStrength(deck.MustParseCards(tt.hole), deck.MustParseCards(tt.board))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestExpectedValue(t *testing.T) {
	t.Parallel()
	s := headsUp(t, "2cAh3dKh")
	require.Equal(t, 15, s.Pot)
	require.Equal(t, 2, s.ActiveCount())

	// Two players: strength is discounted once by 0.85.
	assert.InDelta(t, -5, ExpectedValue(s, game.Fold, 0, 0.5), 1e-9)
	assert.InDelta(t, 15*0.425, ExpectedValue(s, game.Check, 0, 0.5), 1e-9)
	assert.InDelta(t, 0.425*20-5, ExpectedValue(s, game.Call, 5, 0.5), 1e-9)
	assert.InDelta(t, -5, ExpectedValue(s, game.Call, 5, 0.2), 1e-9, "below pot odds")

	fe := 0.2 + 1*0.3 - 0.425*0.4
	assert.InDelta(t, fe*15+(1-fe)*0.425*30-15, ExpectedValue(s, game.Raise, 15, 0.5), 1e-9)

	// Fold equity is capped at 0.7.
	big := ExpectedValue(s, game.Raise, 900, 0)
	assert.InDelta(t, 0.7*15-900, big, 1e-9)

	// Folding gives up the whole hand's contribution, not just this street's.
	flop := toFlop(t, s)
	require.Zero(t, flop.Actor().Bet)
	assert.InDelta(t, -10, ExpectedValue(flop, game.Fold, 0, 0.5), 1e-9)
}

func TestCandidateActions(t *testing.T) {
	t.Parallel()
	s := headsUp(t, "2cAh3dKh")
	assert.Equal(t, []Candidate{
		{Kind: game.Fold},
		{Kind: game.Call, Amount: 5},
		{Kind: game.Raise, Amount: 15},
		{Kind: game.Raise, Amount: 30},
		{Kind: game.Raise, Amount: 45},
	}, CandidateActions(s))

	flop := toFlop(t, s)
	assert.Equal(t, []Candidate{
		{Kind: game.Fold},
		{Kind: game.Check},
		{Kind: game.Bet, Amount: 10},
		{Kind: game.Bet, Amount: 20},
		{Kind: game.Bet, Amount: 30},
	}, CandidateActions(flop))
}

func TestCandidateActionsBoundedByStack(t *testing.T) {
	t.Parallel()
	players := []game.Player{
		{ID: "a", Name: "A", Chips: 1000},
		{ID: "b", Name: "B", Chips: 30},
	}
	s, err := game.StartHand(players, game.Blinds{Small: 5, Big: 10}, game.WithDeck(deck.New(fixedSource(0))))
	require.NoError(t, err)
	// B has 25 behind: minimum raise adds 15, twice that is out of reach.
	assert.Equal(t, []Candidate{
		{Kind: game.Fold},
		{Kind: game.Call, Amount: 5},
		{Kind: game.Raise, Amount: 15},
	}, CandidateActions(s))
}

func TestPayoffMatrix(t *testing.T) {
	t.Parallel()
	s := headsUp(t, "2cAh3dKh")
	m := PayoffMatrix(s)
	require.Equal(t, 5, m.Len())

	strength := HandStrength(s.Actor().Hole, nil)
	for i, c := range m.Candidates {
		ev := ExpectedValue(s, c.Kind, c.Amount, strength)
		switch c.Kind {
		case game.Fold:
			for _, a := range Archetypes {
				assert.InDelta(t, -5, m.Payoff(i, a), 1e-9)
			}
		case game.Call:
			assert.InDelta(t, ev*0.8, m.Payoff(i, Aggressive), 1e-9)
			assert.InDelta(t, ev*1.2, m.Payoff(i, Passive), 1e-9)
			assert.InDelta(t, ev, m.Payoff(i, Balanced), 1e-9)
		case game.Raise:
			assert.InDelta(t, ev*1.2, m.Payoff(i, Aggressive), 1e-9)
			assert.InDelta(t, ev*0.8, m.Payoff(i, Passive), 1e-9)
			assert.InDelta(t, ev, m.Payoff(i, Balanced), 1e-9)
		}
	}

	assert.Zero(t, PayoffMatrix(&game.GameState{CurrentPlayer: -1}).Len())
}

func TestRegretMatchedStrategy(t *testing.T) {
	t.Parallel()
	m := Matrix{
		Candidates: []Candidate{{Kind: game.Fold}, {Kind: game.Call, Amount: 10}, {Kind: game.Raise, Amount: 30}},
		Payoffs: [][len(Archetypes)]float64{
			{-10, -10, -10},
			{4, 6, 5},
			{12, 0, 9},
		},
	}
	st := RegretMatchedStrategy(m)
	require.Len(t, st.Probabilities, 3)

	// Regret is measured against the best average, so no action has positive
	// regret and the blend is uniform.
	for _, p := range st.Probabilities {
		assert.InDelta(t, 1.0/3, p, 1e-9)
	}
	assert.InDelta(t, 1.0/3, st.Probability(Candidate{Kind: game.Call, Amount: 10}), 1e-9)
	assert.Zero(t, st.Probability(Candidate{Kind: game.Check}))

	assert.Empty(t, RegretMatchedStrategy(Matrix{}).Candidates)
}

func TestEquilibrium(t *testing.T) {
	t.Parallel()
	m := Matrix{
		Candidates: []Candidate{{Kind: game.Check}, {Kind: game.Bet, Amount: 10}},
		Payoffs: [][len(Archetypes)]float64{
			{2, 4, 6},
			{10, 0, 2},
		},
	}
	sol := Equilibrium(m)
	assert.InDelta(t, 6, sol.Payoffs[Aggressive], 1e-9)
	assert.InDelta(t, 2, sol.Payoffs[Passive], 1e-9)
	assert.InDelta(t, 4, sol.Payoffs[Balanced], 1e-9)
}

func TestStrategySample(t *testing.T) {
	t.Parallel()
	st := Strategy{
		Candidates:    []Candidate{{Kind: game.Fold}, {Kind: game.Call, Amount: 5}},
		Probabilities: []float64{0.25, 0.75},
	}
	c, ok := st.Sample(fixedSource(0.1))
	require.True(t, ok)
	assert.Equal(t, game.Fold, c.Kind)

	c, _ = st.Sample(fixedSource(0.5))
	assert.Equal(t, game.Call, c.Kind)

	_, ok = Strategy{}.Sample(fixedSource(0.5))
	assert.False(t, ok)
}

func TestRecommendPremiumPairRaises(t *testing.T) {
	t.Parallel()
	s := headsUp(t, "2cAh3dAs")
	rec := Recommend(s)

	assert.Equal(t, game.Raise, rec.Action)
	assert.Equal(t, 15, rec.Amount)
	assert.InDelta(t, 0.975, rec.Strength, 1e-9)
	assert.InDelta(t, 0.7+0.975*0.3, rec.Confidence, 1e-9)
	assert.Equal(t, MediumRisk, rec.Risk, "raise over half the pot with a premium hand")
	assert.Contains(t, rec.Reasoning, "a pair of Aces")
	assert.Contains(t, rec.Reasoning, "aggressive play")
	assert.Empty(t, rec.Alternatives)
	assert.Len(t, rec.Strategy.Candidates, 5)
}

func TestRecommendWeakHandFolds(t *testing.T) {
	t.Parallel()
	s := headsUp(t, "Ac7s3d2d")
	rec := Recommend(s)

	assert.Equal(t, game.Fold, rec.Action)
	assert.Equal(t, LowRisk, rec.Risk)
	assert.Contains(t, rec.Reasoning, "folding is often the correct play")
	require.Len(t, rec.Alternatives, 1)
	assert.Equal(t, game.Call, rec.Alternatives[0].Kind)
	assert.Equal(t, 5, rec.Alternatives[0].Amount)
}

func TestRecommendMediumHandCallsOnlyCheaply(t *testing.T) {
	t.Parallel()
	// A2 off is 0.5: calling 5 into 15 is not under a quarter of the pot.
	s := headsUp(t, "3cAh4d2s")
	rec := Recommend(s)
	assert.Equal(t, game.Fold, rec.Action)
	assert.Equal(t, MediumRisk, rec.Risk)
	require.NotEmpty(t, rec.Alternatives)
	assert.Equal(t, game.Call, rec.Alternatives[0].Kind)
}

func TestRecommendPostFlop(t *testing.T) {
	t.Parallel()
	s := toFlop(t, headsUp(t, "2cAh3dKh"+"4h7h9h"))
	rec := Recommend(s)

	assert.InDelta(t, 0.7, rec.Strength, 1e-9)
	assert.Equal(t, game.Bet, rec.Action)
	assert.Equal(t, 10, rec.Amount)
	assert.Equal(t, MediumRisk, rec.Risk)
	assert.Contains(t, rec.Reasoning, "a strong hand on the flop")
	assert.Empty(t, rec.Alternatives)
}

func TestRecommendPostFlopCheckOffersBet(t *testing.T) {
	t.Parallel()
	// Trips on the flop sit in the checking band but still offer a bet.
	s := toFlop(t, headsUp(t, "2c7h3d7d"+"7cAs9d"))
	rec := Recommend(s)

	assert.InDelta(t, 0.5, rec.Strength, 1e-9)
	assert.Equal(t, game.Check, rec.Action)
	assert.Equal(t, MediumRisk, rec.Risk)
	require.Len(t, rec.Alternatives, 1)
	assert.Equal(t, game.Bet, rec.Alternatives[0].Kind)
}

func TestRecommendWithNobodyToAct(t *testing.T) {
	t.Parallel()
	rec := Recommend(&game.GameState{CurrentPlayer: -1, Complete: true})
	assert.Equal(t, game.Fold, rec.Action)
	assert.Zero(t, rec.Confidence)
}

func TestDecide(t *testing.T) {
	t.Parallel()

	premium := headsUp(t, "2cAh3dAs")
	d := Decide(premium, fixedSource(0.0))
	assert.Equal(t, Decision{Kind: game.Raise, Amount: 15}, d, "no alternatives to deviate to")

	weak := headsUp(t, "Ac7s3d2d")
	assert.Equal(t, Decision{Kind: game.Fold}, Decide(weak, fixedSource(0.9)))
	assert.Equal(t, Decision{Kind: game.Call, Amount: 5, Alternative: true}, Decide(weak, fixedSource(0.1)))

	done := &game.GameState{CurrentPlayer: -1, Complete: true}
	assert.Equal(t, Decision{Kind: game.Fold, Fallback: true}, Decide(done, fixedSource(0)))
}

func TestDecisionIsAlwaysLegal(t *testing.T) {
	t.Parallel()
	src := fixedSource(0.2)
	for seed := 0; seed < 40; seed++ {
		players := []game.Player{
			{ID: "a", Name: "A", Chips: 200}, {ID: "b", Name: "B", Chips: 300},
			{ID: "c", Name: "C", Chips: 150}, {ID: "d", Name: "D", Chips: 400},
		}
		s, err := game.StartHand(players, game.Blinds{Small: 5, Big: 10}, game.WithDeck(shuffled(seed)))
		require.NoError(t, err)
		for !s.Complete {
			d := Decide(s, src)
			require.True(t, allowed(game.LegalActions(s), d.Kind, d.Amount), "%+v not legal", d)
			s, err = game.Apply(s, d.Kind, d.Amount)
			require.NoError(t, err)
		}
		assert.Equal(t, 1050, s.TotalChips())
	}
}

func TestSafestFallback(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Decision{Kind: game.Check, Fallback: true},
		safest([]game.LegalAction{{Kind: game.Fold}, {Kind: game.Check}, {Kind: game.Bet, Min: 10, Max: 100}}))
	assert.Equal(t, Decision{Kind: game.Call, Amount: 20, Fallback: true},
		safest([]game.LegalAction{{Kind: game.Fold}, {Kind: game.Call, Min: 20, Max: 20}}))
	assert.Equal(t, Decision{Kind: game.Fold, Fallback: true},
		safest([]game.LegalAction{{Kind: game.Fold}}))

	assert.False(t, allowed([]game.LegalAction{{Kind: game.Raise, Min: 20, Max: 40}}, game.Raise, 60))
	assert.True(t, allowed([]game.LegalAction{{Kind: game.Raise, Min: 20, Max: 40}}, game.Raise, 40))
}

func shuffled(seed int) *deck.Deck {
	cards := deck.Ordered()
	for i := range cards {
		j := (i*7 + seed*13) % len(cards)
		cards[i], cards[j] = cards[j], cards[i]
	}
	d, _ := deck.NewFromCards(cards)
	return d
}
