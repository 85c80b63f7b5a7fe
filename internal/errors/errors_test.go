package errors_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-journey/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "no save found",
			expected: "NOT_FOUND: no save found",
		},
		{
			name:     "already exists error",
			code:     errors.CodeAlreadyExists,
			message:  "choice request already pending",
			expected: "ALREADY_EXISTS: choice request already pending",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.AlreadyExists("choice request already pending").
		WithMeta("pending_request_id", "req_1").
		WithMeta("actor", "Aria")

	s.Assert().Equal("req_1", err.Meta["pending_request_id"])
	s.Assert().Equal("Aria", err.Meta["actor"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to save hero")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal("failed to save hero", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	base := errors.NotFound("no save found").WithMeta("slot", "default")
	wrapped := errors.Wrapf(base, "load slot %s", "default")

	s.Assert().True(errors.IsNotFound(wrapped))
	s.Assert().Equal("default", errors.GetMeta(wrapped)["slot"])
	s.Assert().Equal("load slot default", errors.GetMessage(wrapped))
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Assert().Nil(errors.Wrap(nil, "nothing"))
	s.Assert().Nil(errors.WrapWithCode(nil, errors.CodeDataLoss, "nothing"))
	s.Assert().Nil(errors.FromContext(nil, "nothing"))
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	base := fmt.Errorf("unexpected end of JSON input")
	err := errors.WrapWithCode(base, errors.CodeDataLoss, "corrupt save")

	s.Assert().True(errors.IsDataLoss(err))
	s.Assert().ErrorIs(err, base)
}

func (s *ErrorsTestSuite) TestFromContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.Assert().True(errors.IsCanceled(errors.FromContext(ctx.Err(), "abandoned")))
	s.Assert().True(errors.IsDeadlineExceeded(errors.FromContext(context.DeadlineExceeded, "late")))
	s.Assert().True(errors.IsInternal(errors.FromContext(fmt.Errorf("boom"), "other")))
}

func (s *ErrorsTestSuite) TestIsMatchesByCode() {
	err := errors.Wrap(errors.Unavailable("no UI handler registered"), "request reaction")

	s.Assert().ErrorIs(err, errors.Unavailable("anything"))
	s.Assert().NotErrorIs(err, errors.NotFound("anything"))
}

func (s *ErrorsTestSuite) TestGetCode() {
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
	s.Assert().Equal(errors.CodeFailedPrecondition, errors.GetCode(errors.FailedPrecondition("no pending choice")))
}

func (s *ErrorsTestSuite) TestRecoverable() {
	s.Assert().True(errors.CodeDataLoss.Recoverable())
	s.Assert().True(errors.CodeDeadlineExceeded.Recoverable())
	s.Assert().False(errors.CodeInternal.Recoverable())
}
