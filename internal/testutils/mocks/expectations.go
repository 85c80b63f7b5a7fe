// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"fmt"

	dicemock "github.com/KirkDiggler/rpg-toolkit/dice/mock"
	"go.uber.org/mock/gomock"

	inputmock "github.com/KirkDiggler/rpg-journey/internal/input/mock"
	"github.com/KirkDiggler/rpg-journey/internal/repositories/saves"
	savesmock "github.com/KirkDiggler/rpg-journey/internal/repositories/saves/mock"
)

// Roll is one die the roller is expected to throw and the face it shows
type Roll struct {
	Size   int
	Result int
}

// ExpectRolls sets up the roller to throw rolls in order
func ExpectRolls(roller *dicemock.MockRoller, rolls ...Roll) {
	calls := make([]any, 0, len(rolls))
	for _, r := range rolls {
		calls = append(calls, roller.EXPECT().Roll(r.Size).Return(r.Result, nil))
	}
	gomock.InOrder(calls...)
}

// ExpectChoices sets up the provider to answer consecutive choice requests
// with optionIDs, in order
func ExpectChoices(provider *inputmock.MockProvider, optionIDs ...string) {
	calls := make([]any, 0, len(optionIDs))
	for _, id := range optionIDs {
		calls = append(calls, provider.EXPECT().
			RequestChoice(gomock.Any(), gomock.Any()).
			Return(id, nil))
	}
	gomock.InOrder(calls...)
}

// ExpectChoiceError sets up the provider to fail the next choice request
func ExpectChoiceError(provider *inputmock.MockProvider, err error) {
	provider.EXPECT().
		RequestChoice(gomock.Any(), gomock.Any()).
		Return("", err)
}

// ExpectSave sets up a save to slot that returns err
func ExpectSave(repo *savesmock.MockRepository, slot string, err error) {
	repo.EXPECT().
		Save(gomock.Any(), saveTo(slot)).
		Return(nil, err)
}

// ExpectLoad sets up a load from slot that returns out and err
func ExpectLoad(repo *savesmock.MockRepository, slot string, out *saves.LoadOutput, err error) {
	repo.EXPECT().
		Load(gomock.Any(), &saves.LoadInput{Slot: slot}).
		Return(out, err)
}

// saveTo matches a SaveInput carrying a snapshot for slot
type saveTo string

func (m saveTo) Matches(x any) bool {
	in, ok := x.(*saves.SaveInput)
	return ok && in != nil && in.Slot == string(m) && in.Snapshot != nil
}

func (m saveTo) String() string {
	return fmt.Sprintf("save of a snapshot to slot %q", string(m))
}
