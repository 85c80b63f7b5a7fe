package input_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"

	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/input"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/idgen"
)

var frozenAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// frozenClock reports a fixed time and never waits
type frozenClock struct{}

func (frozenClock) Now() time.Time { return frozenAt }

func (frozenClock) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type BridgeTestSuite struct {
	suite.Suite
	bridge *input.Bridge
	ctx    context.Context
}

func (s *BridgeTestSuite) SetupTest() {
	s.bridge = input.NewBridge(&input.BridgeConfig{
		IDGenerator: idgen.NewSequential("req"),
	})
	s.ctx = context.Background()
}

func TestBridgeSuite(t *testing.T) {
	suite.Run(t, new(BridgeTestSuite))
}

func (s *BridgeTestSuite) reactionRequest(timeout time.Duration) *input.ChoiceRequest {
	return &input.ChoiceRequest{
		Title: "Goblin attacks you!",
		Options: []input.Option{
			{ID: "NONE", Label: "Take the hit"},
			{ID: "DODGE", Label: "Try to dodge"},
		},
		Context: input.ChoiceContext{
			ActorName: "Aria",
			Kind:      input.KindCombatReaction,
		},
		Timeout: timeout,
	}
}

func (s *BridgeTestSuite) TestResolveFromHandler() {
	var seen input.Request
	s.bridge.SetHandler(func(req input.Request) {
		seen = req
		s.Require().NoError(s.bridge.Resolve(req.ID, "DODGE"))
	})

	got, err := s.bridge.RequestChoice(s.ctx, s.reactionRequest(0))

	s.Require().NoError(err)
	s.Equal("DODGE", got)
	s.Equal("req_1", seen.ID)
	s.Equal(input.KindCombatReaction, seen.Context.Kind)
	s.True(seen.Deadline.IsZero())

	_, pending := s.bridge.Pending()
	s.False(pending)
}

func (s *BridgeTestSuite) TestResolveFromAnotherGoroutine() {
	requests := make(chan input.Request, 1)
	s.bridge.SetHandler(func(req input.Request) { requests <- req })

	done := make(chan struct{})
	go func() {
		defer close(done)
		req := <-requests
		s.NoError(s.bridge.Resolve(req.ID, "NONE"))
	}()

	got, err := s.bridge.RequestChoice(s.ctx, s.reactionRequest(time.Minute))
	<-done

	s.Require().NoError(err)
	s.Equal("NONE", got)
}

func (s *BridgeTestSuite) TestNoHandler() {
	_, err := s.bridge.RequestChoice(s.ctx, s.reactionRequest(0))

	s.True(errors.IsUnavailable(err))
	_, pending := s.bridge.Pending()
	s.False(pending)
}

func (s *BridgeTestSuite) TestSecondRequestWhilePending() {
	requests := make(chan input.Request, 1)
	s.bridge.SetHandler(func(req input.Request) { requests <- req })

	type answer struct {
		id  string
		err error
	}
	first := make(chan answer, 1)
	go func() {
		id, err := s.bridge.RequestChoice(s.ctx, s.reactionRequest(0))
		first <- answer{id: id, err: err}
	}()
	req := <-requests

	_, err := s.bridge.RequestChoice(s.ctx, s.reactionRequest(0))
	s.True(errors.IsAlreadyExists(err))

	s.Require().NoError(s.bridge.Resolve(req.ID, "DODGE"))
	got := <-first
	s.NoError(got.err)
	s.Equal("DODGE", got.id)
}

// expiring returns a bridge whose timeouts elapse without waiting
func (s *BridgeTestSuite) expiring() *input.Bridge {
	return input.NewBridge(&input.BridgeConfig{
		IDGenerator: idgen.NewSequential("req"),
		Clock:       frozenClock{},
	})
}

func (s *BridgeTestSuite) TestTimeout() {
	s.bridge = s.expiring()
	var seen input.Request
	s.bridge.SetHandler(func(req input.Request) { seen = req })

	_, err := s.bridge.RequestChoice(s.ctx, s.reactionRequest(time.Hour))

	s.True(errors.IsDeadlineExceeded(err))
	s.Equal("choice request timed out after 1h0m0s", errors.GetMessage(err))
	s.Equal(seen.ID, errors.GetMeta(err)["request_id"])
	s.Equal(frozenAt.Add(time.Hour), seen.Deadline)
	_, pending := s.bridge.Pending()
	s.False(pending)

	// the slot is free for the next request
	s.bridge.SetHandler(func(req input.Request) {
		s.NoError(s.bridge.Resolve(req.ID, "NONE"))
	})
	got, err := s.bridge.RequestChoice(s.ctx, s.reactionRequest(0))
	s.NoError(err)
	s.Equal("NONE", got)
}

func (s *BridgeTestSuite) TestLateAnswerAfterTimeout() {
	s.bridge = s.expiring()
	var id string
	s.bridge.SetHandler(func(req input.Request) { id = req.ID })

	_, err := s.bridge.RequestChoice(s.ctx, s.reactionRequest(time.Minute))
	s.Require().True(errors.IsDeadlineExceeded(err))

	err = s.bridge.Resolve(id, "NONE")
	s.True(errors.IsFailedPrecondition(err))
}

func (s *BridgeTestSuite) TestContextCanceled() {
	ctx, cancel := context.WithCancel(s.ctx)
	s.bridge.SetHandler(func(input.Request) { cancel() })

	_, err := s.bridge.RequestChoice(ctx, s.reactionRequest(0))

	s.True(errors.IsCanceled(err))
	_, pending := s.bridge.Pending()
	s.False(pending)
}

func (s *BridgeTestSuite) TestContextAlreadyDone() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	called := false
	s.bridge.SetHandler(func(input.Request) { called = true })

	_, err := s.bridge.RequestChoice(ctx, s.reactionRequest(0))

	s.True(errors.IsCanceled(err))
	s.False(called)
}

func (s *BridgeTestSuite) TestResolveWithoutPending() {
	err := s.bridge.Resolve("req_9", "NONE")
	s.True(errors.IsFailedPrecondition(err))
}

func (s *BridgeTestSuite) TestResolveStaleID() {
	var staleErr error
	s.bridge.SetHandler(func(req input.Request) {
		staleErr = s.bridge.Resolve("req_0", "NONE")
		s.NoError(s.bridge.Resolve(req.ID, "NONE"))
	})

	_, err := s.bridge.RequestChoice(s.ctx, s.reactionRequest(0))

	s.NoError(err)
	s.True(errors.IsFailedPrecondition(staleErr))
}

func (s *BridgeTestSuite) TestResolveUnknownOptionKeepsPending() {
	var badErr error
	var stillPending bool
	s.bridge.SetHandler(func(req input.Request) {
		badErr = s.bridge.Resolve(req.ID, "COUNTER")
		_, stillPending = s.bridge.Pending()
		s.NoError(s.bridge.Resolve(req.ID, "DODGE"))
	})

	got, err := s.bridge.RequestChoice(s.ctx, s.reactionRequest(0))

	s.NoError(err)
	s.Equal("DODGE", got)
	s.True(errors.IsInvalidArgument(badErr))
	s.True(stillPending)
}

func (s *BridgeTestSuite) TestCancel() {
	s.bridge.SetHandler(func(input.Request) {
		s.True(s.bridge.Cancel("user closed the dialog"))
	})

	_, err := s.bridge.RequestChoice(s.ctx, s.reactionRequest(0))

	s.True(errors.IsCanceled(err))
	s.Equal("user closed the dialog", errors.GetMessage(err))
	s.False(s.bridge.Cancel("nothing pending"))
}

func (s *BridgeTestSuite) TestClose() {
	s.bridge.SetHandler(func(input.Request) { s.bridge.Close() })

	_, err := s.bridge.RequestChoice(s.ctx, s.reactionRequest(0))
	s.True(errors.IsCanceled(err))

	_, err = s.bridge.RequestChoice(s.ctx, s.reactionRequest(0))
	s.True(errors.IsUnavailable(err))
}

func (s *BridgeTestSuite) TestRequestConfirmation() {
	testCases := []struct {
		name   string
		answer string
		want   bool
	}{
		{name: "yes", answer: input.OptionYes, want: true},
		{name: "no", answer: input.OptionNo, want: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			var seen input.Request
			s.bridge.SetHandler(func(req input.Request) {
				seen = req
				s.NoError(s.bridge.Resolve(req.ID, tc.answer))
			})

			got, err := s.bridge.RequestConfirmation(s.ctx, "Save the game?")

			s.Require().NoError(err)
			s.Equal(tc.want, got)
			s.True(seen.Confirmation)
			s.Equal("Save the game?", seen.Title)
			s.Len(seen.Options, 2)
		})
	}
}

func (s *BridgeTestSuite) TestInvalidRequests() {
	s.bridge.SetHandler(func(input.Request) {})

	_, err := s.bridge.RequestChoice(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.bridge.RequestChoice(s.ctx, &input.ChoiceRequest{Title: "empty"})
	s.True(errors.IsInvalidArgument(err))
}

func (s *BridgeTestSuite) TestHasOption() {
	req := s.reactionRequest(0)
	s.True(req.HasOption("DODGE"))
	s.False(req.HasOption("COUNTER"))
}

func (s *BridgeTestSuite) TestRealClockTimeout() {
	s.bridge.SetHandler(func(input.Request) {})

	_, err := s.bridge.RequestChoice(s.ctx, s.reactionRequest(5*time.Millisecond))

	s.True(errors.IsDeadlineExceeded(err))
}
