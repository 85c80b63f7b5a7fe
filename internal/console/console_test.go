package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"

	"github.com/KirkDiggler/rpg-journey/internal/console"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/input"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/idgen"
)

type ConsoleTestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
	bridge *input.Bridge
	out    *bytes.Buffer
	done   chan struct{}
}

func (s *ConsoleTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.bridge = input.NewBridge(&input.BridgeConfig{IDGenerator: idgen.NewSequential("req")})
	s.out = &bytes.Buffer{}
	s.done = nil
}

func (s *ConsoleTestSuite) TearDownTest() {
	s.cancel()
	if s.done != nil {
		<-s.done
	}
	goleak.VerifyNone(s.T())
}

func TestConsoleSuite(t *testing.T) {
	suite.Run(t, new(ConsoleTestSuite))
}

func (s *ConsoleTestSuite) serve(typed string) *console.Console {
	c, err := console.New(&console.Config{
		Bridge: s.bridge,
		In:     strings.NewReader(typed),
		Out:    s.out,
	})
	s.Require().NoError(err)
	s.bridge.SetHandler(c.Handler())

	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		c.Serve(s.ctx)
	}()
	return c
}

func (s *ConsoleTestSuite) ask() (string, error) {
	return s.bridge.RequestChoice(s.ctx, &input.ChoiceRequest{
		Title: "Aria's turn. What will you do?",
		Options: []input.Option{
			{ID: "ATTACK", Label: "Attack"},
			{ID: "FLEE", Label: "Flee"},
		},
	})
}

func (s *ConsoleTestSuite) output() string {
	s.cancel()
	<-s.done
	return s.out.String()
}

func (s *ConsoleTestSuite) TestNewValidation() {
	_, err := console.New(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = console.New(&console.Config{Bridge: s.bridge})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ConsoleTestSuite) TestAnswerByNumber() {
	s.serve("2\n")

	choice, err := s.ask()

	s.Require().NoError(err)
	s.Equal("FLEE", choice)
	out := s.output()
	s.Contains(out, "Aria's turn. What will you do?\n")
	s.Contains(out, "  1) Attack\n")
	s.Contains(out, "  2) Flee\n")
}

func (s *ConsoleTestSuite) TestAnswerByIDAfterBadInput() {
	s.serve("9\n\nrun\nattack\n")

	choice, err := s.ask()

	s.Require().NoError(err)
	s.Equal("ATTACK", choice)
	s.Equal(2, strings.Count(s.output(), "Choose a number between 1 and 2."))
}

func (s *ConsoleTestSuite) TestTypedAheadAnswersFollowingPrompts() {
	s.serve("1\n2\n")

	first, err := s.ask()
	s.Require().NoError(err)
	second, err := s.ask()
	s.Require().NoError(err)

	s.Equal("ATTACK", first)
	s.Equal("FLEE", second)
}

func (s *ConsoleTestSuite) TestExhaustedInputCancelsPrompt() {
	s.serve("")

	_, err := s.ask()

	s.True(errors.IsCanceled(err))
}

func (s *ConsoleTestSuite) TestPrintln() {
	c := s.serve("")

	c.Println("Combat started!")

	s.Equal("Combat started!\n", s.output())
}
