package game

import (
	"github.com/quailholm/wolfgame-go/internal/model"
)

// killAtNight has the wolf take down one target and returns with the room
// back in the following night
func (s *ControllerSuite) killAtNight(ids map[string]model.PlayerID, target string) {
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids[target])
	s.advance() // night -> day
	s.toNight()
}

func (s *ControllerSuite) disconnect(id model.PlayerID) {
	err := s.registry.Update(roomCode, func(r *model.Room) error {
		r.FindPlayer(id).Connected = false
		return nil
	})
	s.Require().NoError(err)
}

// Action validation

func (s *ControllerSuite) TestActionRequiresLivingActor() {
	ids := s.startFiveRoles()
	s.killAtNight(ids, "selene")

	err := s.controller.SubmitAction(s.ctx, roomCode, ids["selene"], model.AbilityPeek, ids["wolfgang"])
	s.ErrorIs(err, model.ErrInvalidPlayer)
}

func (s *ControllerSuite) TestActionRequiresConnectedActor() {
	ids := s.startFiveRoles()
	s.disconnect(ids["gideon"])

	err := s.controller.SubmitAction(s.ctx, roomCode, ids["gideon"], model.AbilityProtect, ids["selene"])
	s.ErrorIs(err, model.ErrInvalidPlayer)
}

func (s *ControllerSuite) TestActionRejectsModeratorActor() {
	ids := s.startFiveRoles()

	err := s.controller.SubmitAction(s.ctx, roomCode, s.moderatorID, model.AbilityWolfKill, ids["selene"])
	s.ErrorIs(err, model.ErrInvalidPlayer)
}

func (s *ControllerSuite) TestActionRejectsUnknownActor() {
	ids := s.startFiveRoles()

	err := s.controller.SubmitAction(s.ctx, roomCode, "nobody", model.AbilityPeek, ids["selene"])
	s.ErrorIs(err, model.ErrInvalidPlayer)
}

func (s *ControllerSuite) TestActionRejectsUnknownAbility() {
	ids := s.startFiveRoles()

	err := s.controller.SubmitAction(s.ctx, roomCode, ids["wolfgang"], model.Ability("howl"), ids["selene"])
	s.ErrorIs(err, model.ErrInvalidAction)
}

func (s *ControllerSuite) TestActionRejectsAbilityOutsideItsPhase() {
	ids := s.startFiveRoles()
	s.advance() // night -> day

	err := s.controller.SubmitAction(s.ctx, roomCode, ids["selene"], model.AbilityPeek, ids["wolfgang"])
	s.ErrorIs(err, model.ErrInvalidAction)
}

func (s *ControllerSuite) TestActionRejectsAbilityOutsideItsRole() {
	ids := s.startFiveRoles()

	err := s.controller.SubmitAction(s.ctx, roomCode, ids["hugo"], model.AbilityPeek, ids["wolfgang"])
	s.ErrorIs(err, model.ErrInvalidAction)
}

func (s *ControllerSuite) TestActionRejectsDeadTarget() {
	ids := s.startFiveRoles()
	s.killAtNight(ids, "selene")

	err := s.controller.SubmitAction(s.ctx, roomCode, ids["hugo"], model.AbilityMark, ids["selene"])
	s.ErrorIs(err, model.ErrInvalidAction)
}

func (s *ControllerSuite) TestActionRejectsModeratorTarget() {
	ids := s.startFiveRoles()

	err := s.controller.SubmitAction(s.ctx, roomCode, ids["wolfgang"], model.AbilityWolfKill, s.moderatorID)
	s.ErrorIs(err, model.ErrInvalidAction)
}

func (s *ControllerSuite) TestActionBeforeGameStartsRejected() {
	s.createRoom()
	s.random.QueueString("tok_wolfgang")
	seat, err := s.registry.JoinRoom(roomCode, "wolfgang", "", "")
	s.Require().NoError(err)

	err = s.controller.SubmitAction(s.ctx, roomCode, seat.PlayerID, model.AbilityPeek, seat.PlayerID)
	s.ErrorIs(err, model.ErrInvalidAction)
}

func (s *ControllerSuite) TestGuardCannotRepeatProtection() {
	ids := s.startFiveRoles()
	s.act(ids["gideon"], model.AbilityProtect, ids["selene"])
	s.advance() // night -> day
	s.toNight()

	err := s.controller.SubmitAction(s.ctx, roomCode, ids["gideon"], model.AbilityProtect, ids["selene"])
	s.ErrorIs(err, model.ErrRepeatedProtection)

	s.act(ids["gideon"], model.AbilityProtect, ids["wren"])
}

func (s *ControllerSuite) TestResubmissionReplacesLedgerEntry() {
	ids := s.startFiveRoles()
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["selene"])
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["gideon"])

	kills := s.room().Actions.ByAbility(model.AbilityWolfKill)
	s.Require().Len(kills, 1)
	s.Equal(ids["gideon"], kills[0].Target)
}

func (s *ControllerSuite) TestWitchPotionsAccumulate() {
	ids := s.startFiveRoles()
	s.act(ids["wren"], model.AbilitySave, ids["selene"])
	s.act(ids["wren"], model.AbilityPoison, ids["wolfgang"])

	actions := s.room().Actions
	s.True(actions.HasEntry(ids["wren"], model.AbilitySave))
	s.True(actions.HasEntry(ids["wren"], model.AbilityPoison))
}

func (s *ControllerSuite) TestActionReceiptGoesToModerator() {
	ids := s.startFiveRoles()
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["selene"])

	var receipts []model.ActionReceivedPayload
	for _, ev := range s.dispatcher.PrivateFor(s.moderatorID) {
		if ev.Type == model.EventActionReceived {
			receipts = append(receipts, ev.Payload.(model.ActionReceivedPayload))
		}
	}
	s.Require().Len(receipts, 1)
	s.Equal(ids["wolfgang"], receipts[0].PlayerID)
	s.Equal(model.AbilityWolfKill, receipts[0].Ability)
}

func (s *ControllerSuite) TestAllActionsInWaitsForLastActor() {
	ids := s.startFiveRoles()
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["selene"])
	s.act(ids["selene"], model.AbilityPeek, ids["wolfgang"])
	s.act(ids["gideon"], model.AbilityProtect, ids["selene"])
	s.act(ids["wren"], model.AbilityPoison, ids["wolfgang"])
	s.Empty(s.dispatcher.BroadcastsOfType(model.EventAllActionsIn))

	s.act(ids["hugo"], model.AbilityMark, ids["wolfgang"])

	s.Len(s.dispatcher.BroadcastsOfType(model.EventAllActionsIn), 1)
}

// Vote validation

func (s *ControllerSuite) TestVoteOutsideVotePhaseRejected() {
	ids := s.startFiveRoles()

	_, err := s.controller.SubmitVote(s.ctx, roomCode, ids["selene"], ids["wolfgang"])
	s.ErrorIs(err, model.ErrInvalidAction)
}

func (s *ControllerSuite) TestVoteRejectsDeadTarget() {
	ids := s.startFiveRoles()
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["selene"])
	s.advance() // night -> day
	s.advance() // day -> vote

	_, err := s.controller.SubmitVote(s.ctx, roomCode, ids["gideon"], ids["selene"])
	s.ErrorIs(err, model.ErrInvalidAction)
}

func (s *ControllerSuite) TestVoteRejectsDeadVoter() {
	ids := s.startFiveRoles()
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["selene"])
	s.advance() // night -> day
	s.advance() // day -> vote

	_, err := s.controller.SubmitVote(s.ctx, roomCode, ids["selene"], ids["wolfgang"])
	s.ErrorIs(err, model.ErrInvalidPlayer)
}

func (s *ControllerSuite) TestSkipVoteCountsInTally() {
	ids := s.toVote()

	tally, err := s.controller.SubmitVote(s.ctx, roomCode, ids["selene"], "")
	s.Require().NoError(err)

	s.Equal(1, tally.Skips)
	s.Equal(1, tally.Total)
	s.Empty(tally.Counts)
}

func (s *ControllerSuite) TestVoteTallyBroadcastPerBallot() {
	ids := s.toVote()
	s.vote(ids["selene"], ids["wolfgang"])
	s.vote(ids["gideon"], ids["wolfgang"])

	tallies := s.dispatcher.BroadcastsOfType(model.EventVoteTally)
	s.Require().Len(tallies, 2)
	last := tallies[1].Payload.(model.VoteTallyPayload)
	s.Equal(2, last.Tally.Counts[ids["wolfgang"]])
}

// Verdict validation

func (s *ControllerSuite) TestVerdictOutsidePhaseRejected() {
	ids := s.toVote()

	err := s.controller.SubmitVerdict(s.ctx, roomCode, ids["selene"], model.VerdictExecute)
	s.ErrorIs(err, model.ErrInvalidAction)
}

func (s *ControllerSuite) TestVerdictRejectsUnknownValue() {
	ids := s.toVote()
	s.vote(ids["wolfgang"], ids["hugo"])
	s.advance() // vote -> defense
	s.advance() // defense -> final_verdict

	err := s.controller.SubmitVerdict(s.ctx, roomCode, ids["selene"], model.Verdict("maybe"))
	s.ErrorIs(err, model.ErrInvalidAction)
}

func (s *ControllerSuite) TestVerdictRejectsModerator() {
	ids := s.toVote()
	s.vote(ids["wolfgang"], ids["hugo"])
	s.advance()
	s.advance()

	err := s.controller.SubmitVerdict(s.ctx, roomCode, s.moderatorID, model.VerdictSpare)
	s.ErrorIs(err, model.ErrInvalidPlayer)
}

// Readiness

func (s *ControllerSuite) TestReadyOnlyDuringDay() {
	ids := s.startFiveRoles()

	err := s.controller.SignalReady(s.ctx, roomCode, ids["selene"])
	s.ErrorIs(err, model.ErrInvalidAction)
}

func (s *ControllerSuite) TestReadyCountsBroadcast() {
	ids := s.startFiveRoles()
	s.advance() // night -> day

	s.Require().NoError(s.controller.SignalReady(s.ctx, roomCode, ids["selene"]))

	readies := s.dispatcher.BroadcastsOfType(model.EventPlayerReady)
	s.Require().Len(readies, 1)
	payload := readies[0].Payload.(model.PlayerReadyPayload)
	s.Equal(ids["selene"], payload.PlayerID)
	s.Equal(1, payload.Ready)
	s.Equal(5, payload.Eligible)
}

func (s *ControllerSuite) TestReadinessIgnoresDisconnected() {
	ids := s.startFiveRoles()
	s.advance() // night -> day
	s.disconnect(ids["gideon"])

	for _, name := range []string{"wolfgang", "selene", "wren", "hugo"} {
		s.Require().NoError(s.controller.SignalReady(s.ctx, roomCode, ids[name]))
	}

	s.Len(s.dispatcher.BroadcastsOfType(model.EventAllActionsIn), 1)
}
