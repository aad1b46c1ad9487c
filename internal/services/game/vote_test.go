package game

import (
	"github.com/quailholm/wolfgame-go/internal/model"
)

// toVote starts the canonical five-role game and walks it to the first vote
func (s *ControllerSuite) toVote() map[string]model.PlayerID {
	ids := s.startFiveRoles()
	s.advance() // night -> day
	s.advance() // day -> vote
	return ids
}

func (s *ControllerSuite) startLawyerCast() map[string]model.PlayerID {
	return s.startGame(model.RoleConfig{
		model.RoleWerewolf: 1,
		model.RoleLawyer:   1,
	}, "wolfgang", "lionel", "piper", "otis", "mabel")
}

func (s *ControllerSuite) startJesterCast() map[string]model.PlayerID {
	return s.startGame(model.RoleConfig{
		model.RoleWerewolf: 1,
		model.RoleJester:   1,
	}, "wolfgang", "jinx", "piper", "otis", "mabel")
}

// Vote closure

func (s *ControllerSuite) TestPluralityTargetEntersDefense() {
	ids := s.toVote()
	s.vote(ids["wolfgang"], ids["hugo"])
	s.vote(ids["selene"], ids["hugo"])
	s.vote(ids["gideon"], ids["hugo"])
	s.vote(ids["wren"], "")

	s.advance()

	r := s.room()
	s.Equal(model.PhaseDefense, r.Phase)
	s.Equal(ids["hugo"], r.PendingExecution)
	s.True(s.player(ids["hugo"]).Alive)
	s.Contains(r.Narrative, "hugo stands accused and may speak in their defense.")

	pending := s.dispatcher.BroadcastsOfType(model.EventExecutionPending)
	s.Require().Len(pending, 1)
	payload := pending[0].Payload.(model.ExecutionPendingPayload)
	s.Equal("hugo", payload.DisplayName)
}

func (s *ControllerSuite) TestVoteTieBreaksByFirstToReachCount() {
	ids := s.toVote()
	s.vote(ids["wolfgang"], ids["selene"])
	s.vote(ids["gideon"], ids["hugo"])
	s.vote(ids["wren"], ids["hugo"])
	s.vote(ids["hugo"], ids["selene"])

	s.advance()

	s.Equal(ids["hugo"], s.room().PendingExecution)
}

func (s *ControllerSuite) TestRevoteReplacesEarlierBallot() {
	ids := s.toVote()
	s.vote(ids["wolfgang"], ids["hugo"])
	tally, err := s.controller.SubmitVote(s.ctx, roomCode, ids["wolfgang"], ids["selene"])
	s.Require().NoError(err)

	s.Equal(1, tally.Total)
	s.Equal(1, tally.Counts[ids["selene"]])
	s.Zero(tally.Counts[ids["hugo"]])
}

func (s *ControllerSuite) TestAllSkipExecutesNobody() {
	ids := s.toVote()
	for _, name := range []string{"wolfgang", "selene", "gideon", "wren", "hugo"} {
		s.vote(ids[name], "")
	}

	s.advance()

	r := s.room()
	s.Equal(model.PhaseExecutionReveal, r.Phase)
	s.Empty(r.PendingExecution)
	s.Contains(r.Narrative, "The village cannot agree. Nobody is executed.")
}

func (s *ControllerSuite) TestForcedClosureWithoutBallotsExecutesNobody() {
	s.toVote()

	s.advance()

	r := s.room()
	s.Equal(model.PhaseExecutionReveal, r.Phase)
	s.Empty(r.PendingExecution)
}

// Lawyer immunity

func (s *ControllerSuite) TestLawyerImmunityCancelsExecution() {
	ids := s.startLawyerCast()
	s.advance() // night -> day
	s.act(ids["lionel"], model.AbilityDefend, ids["piper"])
	s.advance() // day -> vote
	for _, name := range []string{"wolfgang", "lionel", "otis", "mabel"} {
		s.vote(ids[name], ids["piper"])
	}

	s.advance()

	r := s.room()
	s.Equal(model.PhaseExecutionReveal, r.Phase)
	s.Empty(r.PendingExecution)
	s.True(s.player(ids["piper"]).Alive)
	s.True(s.player(ids["lionel"]).Ability.Lawyer.Used)
	s.Contains(r.Narrative, "piper is accused, but the case collapses. Nobody is executed.")
}

func (s *ControllerSuite) TestLawyerImmunityIsOneShot() {
	ids := s.startLawyerCast()
	s.advance()
	s.act(ids["lionel"], model.AbilityDefend, ids["piper"])
	s.advance()
	for _, name := range []string{"wolfgang", "lionel", "otis", "mabel"} {
		s.vote(ids[name], ids["piper"])
	}
	s.advance() // immunity fires
	s.advance() // execution_reveal -> night
	s.advance() // night -> day

	err := s.controller.SubmitAction(s.ctx, roomCode, ids["lionel"], model.AbilityDefend, ids["piper"])
	s.ErrorIs(err, model.ErrInvalidAction)
}

func (s *ControllerSuite) TestLawyerCommitmentLastsOneVote() {
	ids := s.startLawyerCast()
	s.advance()
	s.act(ids["lionel"], model.AbilityDefend, ids["piper"])
	s.advance()
	for _, name := range []string{"wolfgang", "lionel", "piper", "mabel"} {
		s.vote(ids[name], ids["otis"])
	}

	s.advance()

	r := s.room()
	s.Equal(model.PhaseDefense, r.Phase)
	s.Equal(ids["otis"], r.PendingExecution)
	lawyer := s.player(ids["lionel"]).Ability.Lawyer
	s.Empty(lawyer.Client)
	s.False(lawyer.Used)
}

// Final verdict

func (s *ControllerSuite) TestVerdictExecutesOnStrictMajority() {
	ids := s.toVote()
	s.vote(ids["wolfgang"], ids["gideon"])
	s.vote(ids["selene"], ids["gideon"])
	s.vote(ids["wren"], ids["gideon"])
	s.advance() // vote -> defense
	s.advance() // defense -> final_verdict
	s.Equal(model.PhaseFinalVerdict, s.room().Phase)

	s.verdict(ids["wolfgang"], model.VerdictExecute)
	s.verdict(ids["selene"], model.VerdictExecute)
	s.verdict(ids["wren"], model.VerdictSpare)
	s.advance()

	r := s.room()
	s.False(s.player(ids["gideon"]).Alive)
	s.Equal(model.PhaseExecutionReveal, r.Phase)
	s.Empty(r.PendingExecution)
	s.Contains(r.Narrative, "The village has spoken. gideon is executed.")
}

func (s *ControllerSuite) TestVerdictTieSpares() {
	ids := s.toVote()
	s.vote(ids["wolfgang"], ids["hugo"])
	s.vote(ids["selene"], ids["hugo"])
	s.vote(ids["gideon"], ids["hugo"])
	s.vote(ids["wren"], "")
	s.advance() // vote -> defense
	s.advance() // defense -> final_verdict

	s.verdict(ids["wolfgang"], model.VerdictExecute)
	s.verdict(ids["selene"], model.VerdictExecute)
	s.verdict(ids["gideon"], model.VerdictSpare)
	s.verdict(ids["wren"], model.VerdictSpare)
	s.advance()

	r := s.room()
	s.True(s.player(ids["hugo"]).Alive)
	s.Equal(model.PhaseExecutionReveal, r.Phase)
	s.Contains(r.Narrative, "The village spares hugo.")
}

func (s *ControllerSuite) TestAccusedVotesOnOwnFate() {
	ids := s.toVote()
	s.vote(ids["wolfgang"], ids["hugo"])
	s.vote(ids["selene"], ids["hugo"])
	s.advance()
	s.advance()

	s.verdict(ids["hugo"], model.VerdictSpare)

	tally := verdictTally(s.room())
	s.Equal(1, tally.Spare)
}

func (s *ControllerSuite) TestRevisedVerdictReplacesEarlier() {
	ids := s.toVote()
	s.vote(ids["wolfgang"], ids["hugo"])
	s.advance()
	s.advance()

	s.verdict(ids["selene"], model.VerdictExecute)
	s.verdict(ids["selene"], model.VerdictSpare)

	tally := verdictTally(s.room())
	s.Equal(0, tally.Execute)
	s.Equal(1, tally.Spare)
	s.Equal(1, tally.Total)
}

// Jester

func (s *ControllerSuite) TestJesterExecutedOnFirstDayWins() {
	ids := s.startJesterCast()
	s.advance() // night -> day
	s.advance() // day -> vote
	for _, name := range []string{"wolfgang", "piper", "otis", "mabel"} {
		s.vote(ids[name], ids["jinx"])
	}
	s.advance() // vote -> defense
	s.advance() // defense -> final_verdict
	s.verdict(ids["wolfgang"], model.VerdictExecute)
	s.verdict(ids["piper"], model.VerdictExecute)
	s.verdict(ids["otis"], model.VerdictExecute)
	s.advance()

	r := s.room()
	s.Equal(model.PhaseEnded, r.Phase)
	s.Equal(model.FactionJester, r.Winner)
	s.False(s.player(ids["jinx"]).Alive)
	s.Contains(r.Narrative, "The jester wins.")

	ended := s.dispatcher.BroadcastsOfType(model.EventGameEnded)
	s.Require().Len(ended, 1)
	s.Equal(model.FactionJester, ended[0].Payload.(model.GameEndedPayload).Winner)
}

func (s *ControllerSuite) TestJesterExecutedLaterJustDies() {
	ids := s.startJesterCast()
	s.advance() // night -> day
	s.toNight() // first day passes without an execution
	s.advance() // night -> day, second day
	s.Require().Equal(2, s.room().DayCount)

	s.advance() // day -> vote
	for _, name := range []string{"wolfgang", "piper", "otis", "mabel"} {
		s.vote(ids[name], ids["jinx"])
	}
	s.advance() // vote -> defense
	s.advance() // defense -> final_verdict
	s.verdict(ids["wolfgang"], model.VerdictExecute)
	s.verdict(ids["piper"], model.VerdictExecute)
	s.verdict(ids["otis"], model.VerdictExecute)
	s.advance()

	r := s.room()
	s.Equal(model.PhaseExecutionReveal, r.Phase)
	s.Equal(model.FactionNone, r.Winner)
	s.False(s.player(ids["jinx"]).Alive)
}

// Executions and death links

func (s *ControllerSuite) TestExecutionPullsDeathLinkDown() {
	ids := s.startFiveRoles()
	s.act(ids["hugo"], model.AbilityMark, ids["wolfgang"])
	s.advance() // night -> day, hugo survives with mark armed
	s.advance() // day -> vote
	s.vote(ids["wolfgang"], ids["hugo"])
	s.vote(ids["selene"], ids["hugo"])
	s.vote(ids["gideon"], ids["hugo"])
	s.advance() // vote -> defense
	s.advance() // defense -> final_verdict
	s.verdict(ids["selene"], model.VerdictExecute)
	s.verdict(ids["gideon"], model.VerdictExecute)
	s.verdict(ids["wren"], model.VerdictSpare)
	s.advance()

	r := s.room()
	s.False(s.player(ids["hugo"]).Alive)
	s.False(s.player(ids["wolfgang"]).Alive)
	s.Contains(r.Narrative, "wolfgang is dragged down with hugo.")
	s.Equal(model.PhaseEnded, r.Phase)
	s.Equal(model.FactionVillage, r.Winner)
}

func (s *ControllerSuite) TestLastWolfExecutedEndsGame() {
	ids := s.toVote()
	s.vote(ids["selene"], ids["wolfgang"])
	s.vote(ids["gideon"], ids["wolfgang"])
	s.vote(ids["wren"], ids["wolfgang"])
	s.advance() // vote -> defense
	s.advance() // defense -> final_verdict
	s.verdict(ids["selene"], model.VerdictExecute)
	s.verdict(ids["gideon"], model.VerdictExecute)
	s.advance()

	r := s.room()
	s.Equal(model.PhaseEnded, r.Phase)
	s.Equal(model.FactionVillage, r.Winner)
	s.Contains(r.Narrative, "The village is victorious.")

	err := s.controller.SubmitAction(s.ctx, roomCode, ids["selene"], model.AbilityPeek, ids["gideon"])
	s.ErrorIs(err, model.ErrGameFinished)
	_, err = s.controller.SubmitVote(s.ctx, roomCode, ids["selene"], "")
	s.ErrorIs(err, model.ErrGameFinished)
	err = s.controller.AdvancePhase(s.ctx, roomCode, s.moderatorID)
	s.ErrorIs(err, model.ErrGameFinished)

	archives, listErr := s.storage.ListArchives(s.ctx, 10)
	s.Require().NoError(listErr)
	s.Require().Len(archives, 1)
	s.Equal(model.FactionVillage, archives[0].Winner)
}
