package combat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-journey/internal/combat"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/input"
	inputmock "github.com/KirkDiggler/rpg-journey/internal/input/mock"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-journey/internal/testutils"
	"github.com/KirkDiggler/rpg-journey/internal/testutils/builders"
)

func TestModifier(t *testing.T) {
	testCases := map[int]int{
		1:  -5,
		7:  -2,
		8:  -1,
		9:  -1,
		10: 0,
		11: 0,
		12: 1,
		15: 2,
		20: 5,
	}
	for score, want := range testCases {
		assert.Equal(t, want, combat.Modifier(score), "score %d", score)
	}
}

func TestParseReaction(t *testing.T) {
	assert.Equal(t, combat.ReactionDodge, combat.ParseReaction("DODGE"))
	assert.Equal(t, combat.ReactionCounter, combat.ParseReaction("COUNTER"))
	assert.Equal(t, combat.ReactionNone, combat.ParseReaction("NONE"))
	assert.Equal(t, combat.ReactionNone, combat.ParseReaction("garbage"))
}

type recordingMetrics struct {
	results []*combat.AttackResult
}

func (m *recordingMetrics) RecordAttack(r *combat.AttackResult) {
	m.results = append(m.results, r)
}

type SystemTestSuite struct {
	suite.Suite
	ctx     context.Context
	roller  *testutils.ScriptedRoller
	metrics *recordingMetrics
	system  *combat.System
}

func (s *SystemTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.roller = testutils.NewScriptedRoller()
	s.metrics = &recordingMetrics{}

	var err error
	s.system, err = combat.NewSystem(&combat.Config{
		Roller:  s.roller,
		Clock:   clock.NewInstant(),
		Metrics: s.metrics,
	})
	s.Require().NoError(err)
}

func TestSystemSuite(t *testing.T) {
	suite.Run(t, new(SystemTestSuite))
}

func (s *SystemTestSuite) TestNewSystemValidation() {
	_, err := combat.NewSystem(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = combat.NewSystem(&combat.Config{})
	s.True(errors.IsInvalidArgument(err))

	_, err = combat.NewSystem(&combat.Config{
		Roller: s.roller,
		Rules:  &combat.Rules{DieSize: 1},
	})
	s.True(errors.IsInvalidArgument(err))

	rules := combat.DefaultRules()
	rules.CounterDifficulty = 0
	_, err = combat.NewSystem(&combat.Config{Roller: s.roller, Rules: &rules})
	s.True(errors.IsInvalidArgument(err))
}

func (s *SystemTestSuite) TestDefaultRules() {
	rules := s.system.Rules()
	s.Equal(20, rules.DieSize)
	s.Equal(10, rules.DefenseBase)
	s.Equal(2, rules.DodgeBonus)
	s.Equal(12, rules.CounterDifficulty)
	s.Equal(500*time.Millisecond, rules.CounterPause)
}

func (s *SystemTestSuite) TestHitWhenAttackMeetsDefense() {
	hero := builders.NewHeroBuilder().WithDamage(15).Build(s.T())
	enemy := builders.NewEnemyBuilder().WithMaxLife(40).WithRoller(s.roller).Build(s.T())
	s.roller.Queue(100, 1).Queue(20, 10)

	result, err := s.system.ResolveAttack(s.ctx, hero, enemy)

	s.Require().NoError(err)
	s.True(result.Hit)
	s.False(result.Critical)
	s.Equal(10, result.AttackValue)
	s.Equal(10, result.DefenseValue)
	s.Equal(15, result.Damage)
	s.Equal(combat.ReactionNone, result.Reaction)
	s.Equal(25, enemy.CurrentLife())
	s.Len(s.metrics.results, 1)
}

func (s *SystemTestSuite) TestMissBelowDefense() {
	hero := builders.NewHeroBuilder().Build(s.T())
	enemy := builders.NewEnemyBuilder().WithRoller(s.roller).Build(s.T())
	s.roller.Queue(100, 1).Queue(20, 9)

	result, err := s.system.ResolveAttack(s.ctx, hero, enemy)

	s.Require().NoError(err)
	s.False(result.Hit)
	s.Equal(0, result.Damage)
	s.Equal(100, enemy.CurrentLife())
}

func (s *SystemTestSuite) TestModifiersApply() {
	hero := builders.NewHeroBuilder().WithDexterity(14).Build(s.T())
	enemy := builders.NewEnemyBuilder().WithAgility(16).WithRoller(s.roller).Build(s.T())
	s.roller.Queue(100, 1).Queue(20, 11)

	result, err := s.system.ResolveAttack(s.ctx, hero, enemy)

	s.Require().NoError(err)
	s.Equal(13, result.AttackValue)
	s.Equal(13, result.DefenseValue)
	s.True(result.Hit)
}

func (s *SystemTestSuite) TestDodgeAddsDefense() {
	hero := builders.NewHeroBuilder().Build(s.T())
	enemy := builders.NewEnemyBuilder().WithRoller(s.roller).Build(s.T())

	s.Run("eleven misses against a dodge", func() {
		s.roller.Queue(100, 95).Queue(20, 11)
		result, err := s.system.ResolveAttack(s.ctx, hero, enemy)
		s.Require().NoError(err)
		s.Equal(combat.ReactionDodge, result.Reaction)
		s.Equal(12, result.DefenseValue)
		s.False(result.Hit)
	})

	s.Run("twelve still hits", func() {
		s.roller.Queue(100, 95).Queue(20, 12)
		result, err := s.system.ResolveAttack(s.ctx, hero, enemy)
		s.Require().NoError(err)
		s.True(result.Hit)
	})
}

func (s *SystemTestSuite) TestMaxFaceAlwaysHits() {
	hero := builders.NewHeroBuilder().Build(s.T())
	enemy := builders.NewEnemyBuilder().WithAgility(40).WithRoller(s.roller).Build(s.T())
	s.roller.Queue(100, 1).Queue(20, 20)

	result, err := s.system.ResolveAttack(s.ctx, hero, enemy)

	s.Require().NoError(err)
	s.Equal(25, result.DefenseValue)
	s.True(result.Critical)
	s.True(result.Hit)
}

func (s *SystemTestSuite) TestCounterAttack() {
	testCases := []struct {
		name        string
		counterRoll int
		landed      bool
	}{
		{name: "meets difficulty", counterRoll: 12, landed: true},
		{name: "below difficulty", counterRoll: 11, landed: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			hero := builders.NewHeroBuilder().WithDamage(15).Build(s.T())
			enemy := builders.NewEnemyBuilder().WithDamage(8).WithRoller(s.roller).Build(s.T())
			s.roller.Queue(100, 70).Queue(20, 2, tc.counterRoll)

			result, err := s.system.ResolveAttack(s.ctx, hero, enemy)

			s.Require().NoError(err)
			s.False(result.Hit)
			s.Equal(combat.ReactionCounter, result.Reaction)
			s.Equal(tc.landed, result.Countered)
			if tc.landed {
				s.Equal(8, result.CounterDamage)
				s.Equal(92, hero.CurrentLife())
			} else {
				s.Equal(100, hero.CurrentLife())
			}
			s.Equal(100, enemy.CurrentLife())
		})
	}
}

func (s *SystemTestSuite) TestNoCounterOnHit() {
	hero := builders.NewHeroBuilder().Build(s.T())
	enemy := builders.NewEnemyBuilder().WithRoller(s.roller).Build(s.T())
	s.roller.Queue(100, 70).Queue(20, 15)

	result, err := s.system.ResolveAttack(s.ctx, hero, enemy)

	s.Require().NoError(err)
	s.True(result.Hit)
	s.False(result.Countered)
	s.Equal(1, s.roller.Calls(20))
}

func (s *SystemTestSuite) TestReactionTimeoutMeansNoReaction() {
	bridge := input.NewBridge(&input.BridgeConfig{
		Clock:   clock.NewInstant(),
		Handler: func(input.Request) {},
	})
	hero := builders.NewHeroBuilder().
		WithProvider(bridge).
		WithReactionTimeout(time.Minute).
		Build(s.T())
	enemy := builders.NewEnemyBuilder().WithDamage(10).Build(s.T())
	// ten meets a plain defense of ten but would miss a dodge
	s.roller.Queue(20, 10)

	result, err := s.system.ResolveAttack(s.ctx, enemy, hero)

	s.Require().NoError(err)
	s.Equal(combat.ReactionNone, result.Reaction)
	s.Equal(10, result.DefenseValue)
	s.True(result.Hit)
	s.False(result.Countered)
	s.Equal(90, hero.CurrentLife())
}

func (s *SystemTestSuite) TestCanceledDuringReaction() {
	ctrl := gomock.NewController(s.T())
	provider := inputmock.NewMockProvider(ctrl)
	hero := builders.NewHeroBuilder().WithProvider(provider).Build(s.T())
	enemy := builders.NewEnemyBuilder().Build(s.T())

	ctx, cancel := context.WithCancel(s.ctx)
	provider.EXPECT().
		RequestChoice(ctx, gomock.Any()).
		DoAndReturn(func(context.Context, *input.ChoiceRequest) (string, error) {
			cancel()
			return "", errors.Canceled("choice request aborted")
		})

	result, err := s.system.ResolveAttack(ctx, enemy, hero)

	s.Nil(result)
	s.True(errors.IsCanceled(err))
	s.Equal(0, s.roller.Calls(20))
	s.Equal(100, hero.CurrentLife())
}

func (s *SystemTestSuite) TestDiceFailure() {
	hero := builders.NewHeroBuilder().Build(s.T())
	enemy := builders.NewEnemyBuilder().WithRoller(s.roller).Build(s.T())
	s.roller.Queue(100, 1)

	_, err := s.system.ResolveAttack(s.ctx, hero, enemy)

	s.Error(err)
}
