package encounter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-journey/internal/combat"
	"github.com/KirkDiggler/rpg-journey/internal/entities/character"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/events"
	"github.com/KirkDiggler/rpg-journey/internal/input"
	inputmock "github.com/KirkDiggler/rpg-journey/internal/input/mock"
	"github.com/KirkDiggler/rpg-journey/internal/orchestrators/encounter"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-journey/internal/testutils"
	"github.com/KirkDiggler/rpg-journey/internal/testutils/builders"
	"github.com/KirkDiggler/rpg-journey/internal/testutils/mocks"
)

// feed records what one character's bus carried during a test
type feed struct {
	messages []string
	statuses []events.CombatStatus
	ends     []events.CombatEndEvent
	turns    []string
}

func watch(c *character.Character) *feed {
	f := &feed{}
	bus := c.Events()
	events.On(bus, events.PriorityDefault, func(e events.DomainMessageEvent) {
		f.messages = append(f.messages, e.Message)
	})
	events.On(bus, events.PriorityDefault, func(e events.CombatStatusEvent) {
		f.statuses = append(f.statuses, e.Status)
	})
	events.On(bus, events.PriorityDefault, func(e events.CombatEndEvent) {
		f.ends = append(f.ends, e)
	})
	events.On(bus, events.PriorityDefault, func(e events.TurnStartEvent) {
		f.turns = append(f.turns, e.ActorName)
	})
	return f
}

type ManagerTestSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	provider *inputmock.MockProvider
	roller   *testutils.ScriptedRoller
	system   *combat.System
}

func (s *ManagerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.provider = inputmock.NewMockProvider(s.ctrl)
	s.roller = testutils.NewScriptedRoller()

	var err error
	s.system, err = combat.NewSystem(&combat.Config{
		Roller: s.roller,
		Clock:  clock.NewInstant(),
	})
	s.Require().NoError(err)
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func (s *ManagerTestSuite) newManager(provider input.Provider, combatants ...encounter.Participant) *encounter.Manager {
	m, err := encounter.NewManager(&encounter.Config{
		Combatants:  combatants,
		System:      s.system,
		Provider:    provider,
		Clock:       clock.NewInstant(),
		IDGenerator: idgen.NewSequential("msg"),
	})
	s.Require().NoError(err)
	return m
}

func (s *ManagerTestSuite) TestNewManagerValidation() {
	hero := builders.NewHeroBuilder().Build(s.T())
	enemy := builders.NewEnemyBuilder().Build(s.T())

	s.Run("nil config", func() {
		_, err := encounter.NewManager(nil)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("single combatant", func() {
		_, err := encounter.NewManager(&encounter.Config{
			Combatants: []encounter.Participant{hero},
			System:     s.system,
		})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("missing system", func() {
		_, err := encounter.NewManager(&encounter.Config{
			Combatants: []encounter.Participant{hero, enemy},
		})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("negative pacing", func() {
		_, err := encounter.NewManager(&encounter.Config{
			Combatants: []encounter.Participant{hero, enemy},
			System:     s.system,
			Pacing:     &encounter.Pacing{Round: -1},
		})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *ManagerTestSuite) TestTurnOrderBySpeed() {
	slow := builders.NewEnemyBuilder().WithID("slow").WithName("Slime").WithSpeed(5).Build(s.T())
	fast := builders.NewEnemyBuilder().WithID("fast").WithName("Goblin").WithSpeed(40).Build(s.T())
	mid := builders.NewHeroBuilder().WithSpeed(15).Build(s.T())

	m := s.newManager(nil, slow, fast, mid)
	defer m.Close()

	var names []string
	for _, p := range m.Order() {
		names = append(names, p.Name())
	}
	s.Equal([]string{"Goblin", "Aria", "Slime"}, names)
}

func (s *ManagerTestSuite) TestTiesKeepInsertionOrder() {
	hero := builders.NewHeroBuilder().Build(s.T())
	enemy := builders.NewEnemyBuilder().Build(s.T())

	m := s.newManager(nil, enemy, hero)
	defer m.Close()

	order := m.Order()
	s.Equal("Slime", order[0].Name())
	s.Equal("Aria", order[1].Name())
}

func (s *ManagerTestSuite) TestOneRoundVictory() {
	hero := builders.NewHeroBuilder().WithDamage(15).Build(s.T())
	enemy := builders.NewEnemyBuilder().WithLife(1, 30).WithRoller(s.roller).Build(s.T())
	heroFeed := watch(hero)
	enemyFeed := watch(enemy)
	s.roller.Queue(100, 1).Queue(20, 15)

	outcome, err := s.newManager(nil, hero, enemy).Run(s.ctx)

	s.Require().NoError(err)
	s.Equal(events.ResultVictory, outcome.Result)
	s.Equal("Aria", outcome.WinnerName())
	s.Equal(1, outcome.Rounds)
	s.False(enemy.IsAlive())
	s.Equal(100, hero.CurrentLife())

	s.Equal([]events.CombatStatus{
		events.StatusStarting,
		events.StatusPlayerTurn,
		events.StatusEnded,
	}, heroFeed.statuses)
	s.Equal([]string{"Combat started!", "--- Round 1 ---", "Winner: Aria"}, heroFeed.messages)
	s.Equal(heroFeed.messages, enemyFeed.messages)
	s.Equal([]events.CombatEndEvent{{Winner: "Aria", Result: events.ResultVictory}}, enemyFeed.ends)
	s.Equal([]string{"Aria"}, heroFeed.turns)
}

func (s *ManagerTestSuite) TestHarmlessAdversaryLosesInOneRound() {
	hero := builders.NewHeroBuilder().WithMaxLife(100).WithDamage(15).Build(s.T())
	enemy := builders.NewEnemyBuilder().
		WithLife(1, 1).
		WithDamage(0).
		WithSpeed(20).
		WithRoller(s.roller).
		Build(s.T())
	heroFeed := watch(hero)
	var hits []events.DamageEvent
	events.On(hero.Events(), events.PriorityDefault, func(e events.DamageEvent) {
		hits = append(hits, e)
	})
	// the adversary lands its swing first, then the hero's attack lands
	s.roller.Queue(20, 15, 15).Queue(100, 1)

	outcome, err := s.newManager(nil, hero, enemy).Run(s.ctx)

	s.Require().NoError(err)
	s.Equal(0, enemy.WeaponDamage())
	s.Equal(events.ResultVictory, outcome.Result)
	s.Equal("Aria", outcome.WinnerName())
	s.Equal(1, outcome.Rounds)
	s.False(enemy.IsAlive())
	s.Equal(100, hero.CurrentLife())
	s.Equal([]events.DamageEvent{{Damage: 0, CurrentLife: 100}}, hits)
	s.Equal([]string{"Slime", "Aria"}, heroFeed.turns)
}

func (s *ManagerTestSuite) TestDefeat() {
	hero := builders.NewHeroBuilder().WithLife(5, 100).Build(s.T())
	enemy := builders.NewEnemyBuilder().WithSpeed(20).WithDamage(10).Build(s.T())
	heroFeed := watch(hero)
	s.roller.Queue(20, 15)

	outcome, err := s.newManager(nil, hero, enemy).Run(s.ctx)

	s.Require().NoError(err)
	s.Equal(events.ResultDefeat, outcome.Result)
	s.Equal("Slime", outcome.WinnerName())
	s.False(hero.IsAlive())
	s.Contains(heroFeed.messages, "Winner: Slime")
	s.Equal([]events.CombatStatus{
		events.StatusStarting,
		events.StatusEnemyTurn,
		events.StatusEnded,
	}, heroFeed.statuses)
}

func (s *ManagerTestSuite) TestFleeLeavesVitalityUntouched() {
	hero := builders.NewHeroBuilder().Build(s.T())
	enemy := builders.NewEnemyBuilder().Build(s.T())
	heroFeed := watch(hero)

	s.provider.EXPECT().
		RequestChoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *input.ChoiceRequest) (string, error) {
			s.Equal("Aria's turn. What will you do?", req.Title)
			s.Equal(input.KindCombatReaction, req.Context.Kind)
			s.Len(req.Options, 3)
			return encounter.ActionFlee, nil
		})

	outcome, err := s.newManager(s.provider, hero, enemy).Run(s.ctx)

	s.Require().NoError(err)
	s.Equal(events.ResultFled, outcome.Result)
	s.Nil(outcome.Winner)
	s.Equal(100, hero.CurrentLife())
	s.Equal(100, enemy.CurrentLife())
	s.Equal(0, s.roller.Calls(20))
	s.Equal([]events.CombatEndEvent{{Result: events.ResultFled}}, heroFeed.ends)
	s.Equal(events.StatusEnded, heroFeed.statuses[len(heroFeed.statuses)-1])
}

func (s *ManagerTestSuite) TestMenuFailureFallsBackToAttack() {
	hero := builders.NewHeroBuilder().Build(s.T())
	enemy := builders.NewEnemyBuilder().WithLife(1, 30).WithRoller(s.roller).Build(s.T())
	s.roller.Queue(100, 1).Queue(20, 15)

	mocks.ExpectChoiceError(s.provider, errors.Unavailable("no input handler attached"))

	outcome, err := s.newManager(s.provider, hero, enemy).Run(s.ctx)

	s.Require().NoError(err)
	s.Equal(events.ResultVictory, outcome.Result)
}

func (s *ManagerTestSuite) TestUseItemFromMenu() {
	hero := builders.NewHeroBuilder().
		WithLife(50, 100).
		WithItems(testutils.Potion("potion-1", 20)).
		Build(s.T())
	enemy := builders.NewEnemyBuilder().WithSpeed(5).Build(s.T())
	heroFeed := watch(hero)
	// the adversary misses its only swing
	s.roller.Queue(20, 1)

	gomock.InOrder(
		s.provider.EXPECT().
			RequestChoice(gomock.Any(), gomock.Any()).
			Return(encounter.ActionItem, nil),
		s.provider.EXPECT().
			RequestChoice(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *input.ChoiceRequest) (string, error) {
				s.Equal(input.KindAdventureDecision, req.Context.Kind)
				s.Equal("ITEM_USAGE", req.Context.Metadata["sub_type"])
				s.Require().Len(req.Options, 1)
				s.Equal("Small Health Potion (Heals some HP.)", req.Options[0].Label)
				return req.Options[0].ID, nil
			}),
		s.provider.EXPECT().
			RequestChoice(gomock.Any(), gomock.Any()).
			Return(encounter.ActionFlee, nil),
	)

	outcome, err := s.newManager(s.provider, hero, enemy).Run(s.ctx)

	s.Require().NoError(err)
	s.Equal(events.ResultFled, outcome.Result)
	s.Equal(2, outcome.Rounds)
	s.Equal(70, hero.CurrentLife())
	s.Empty(hero.Items())
	s.Contains(heroFeed.messages, "Aria was healed!")
}

func (s *ManagerTestSuite) TestEmptyInventoryOnlyTellsTheActor() {
	hero := builders.NewHeroBuilder().Build(s.T())
	enemy := builders.NewEnemyBuilder().WithSpeed(5).Build(s.T())
	heroFeed := watch(hero)
	enemyFeed := watch(enemy)
	s.roller.Queue(20, 1)

	mocks.ExpectChoices(s.provider, encounter.ActionItem, encounter.ActionFlee)

	_, err := s.newManager(s.provider, hero, enemy).Run(s.ctx)

	s.Require().NoError(err)
	s.Contains(heroFeed.messages, "Inventory is empty!")
	s.NotContains(enemyFeed.messages, "Inventory is empty!")
}

func (s *ManagerTestSuite) TestEmergencyPotion() {
	s.Run("drinks a potion below a quarter of max life", func() {
		hero := builders.NewHeroBuilder().
			WithLife(30, 100).
			WithItems(testutils.Potion("potion-1", 50)).
			Build(s.T())
		enemy := builders.NewEnemyBuilder().
			WithLife(1, 30).
			WithSpeed(20).
			WithDamage(10).
			WithRoller(s.roller).
			Build(s.T())
		heroFeed := watch(hero)
		s.roller.Queue(20, 15, 15).Queue(100, 1)

		outcome, err := s.newManager(nil, hero, enemy).Run(s.ctx)

		s.Require().NoError(err)
		s.Equal(events.ResultVictory, outcome.Result)
		s.Equal(70, hero.CurrentLife())
		s.Empty(hero.Items())
		s.Contains(heroFeed.messages, "REACTION: Aria is in danger and uses Small Health Potion automatically!")
		s.Contains(heroFeed.messages, "Aria was healed!")
	})

	s.Run("bread is not a potion", func() {
		hero := builders.NewHeroBuilder().
			WithLife(30, 100).
			WithItems(testutils.Bread("bread-1")).
			Build(s.T())
		enemy := builders.NewEnemyBuilder().
			WithLife(1, 30).
			WithSpeed(20).
			WithDamage(10).
			WithRoller(s.roller).
			Build(s.T())
		s.roller.Queue(20, 15, 15).Queue(100, 1)

		_, err := s.newManager(nil, hero, enemy).Run(s.ctx)

		s.Require().NoError(err)
		s.Equal(20, hero.CurrentLife())
		s.Len(hero.Items(), 1)
	})

	s.Run("no potion while comfortably alive", func() {
		hero := builders.NewHeroBuilder().
			WithItems(testutils.Potion("potion-1", 50)).
			Build(s.T())
		enemy := builders.NewEnemyBuilder().
			WithLife(1, 30).
			WithSpeed(20).
			WithDamage(10).
			WithRoller(s.roller).
			Build(s.T())
		s.roller.Queue(20, 15, 15).Queue(100, 1)

		_, err := s.newManager(nil, hero, enemy).Run(s.ctx)

		s.Require().NoError(err)
		s.Equal(90, hero.CurrentLife())
		s.Len(hero.Items(), 1)
	})
}

func (s *ManagerTestSuite) TestRunRemovesListeners() {
	hero := builders.NewHeroBuilder().Build(s.T())
	enemy := builders.NewEnemyBuilder().WithLife(1, 30).WithRoller(s.roller).Build(s.T())
	s.roller.Queue(100, 1).Queue(20, 15)

	m := s.newManager(nil, hero, enemy)
	s.Equal(1, hero.Events().Len(events.KindDamage))
	s.Equal(1, enemy.Events().Len(events.KindHeal))

	_, err := m.Run(s.ctx)
	s.Require().NoError(err)

	for _, c := range []*character.Character{hero, enemy} {
		s.Equal(0, c.Events().Len(events.KindDamage))
		s.Equal(0, c.Events().Len(events.KindHeal))
	}

	// a second close is harmless
	m.Close()
}

func (s *ManagerTestSuite) TestCanceledContext() {
	hero := builders.NewHeroBuilder().Build(s.T())
	enemy := builders.NewEnemyBuilder().Build(s.T())

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	outcome, err := s.newManager(nil, hero, enemy).Run(ctx)

	s.Nil(outcome)
	s.True(errors.IsCanceled(err))
	s.Equal(0, hero.Events().Len(events.KindDamage))
}

func (s *ManagerTestSuite) TestCanceledDuringMenu() {
	hero := builders.NewHeroBuilder().Build(s.T())
	enemy := builders.NewEnemyBuilder().Build(s.T())

	ctx, cancel := context.WithCancel(s.ctx)
	s.provider.EXPECT().
		RequestChoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *input.ChoiceRequest) (string, error) {
			cancel()
			return "", errors.Canceled("choice request aborted")
		})

	_, err := s.newManager(s.provider, hero, enemy).Run(ctx)

	s.True(errors.IsCanceled(err))
	s.Equal(0, s.roller.Calls(20))
}
