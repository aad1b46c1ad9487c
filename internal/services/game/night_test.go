package game

import (
	"github.com/quailholm/wolfgame-go/internal/model"
)

// Consensus kill

func (s *ControllerSuite) TestWolfKillResolvesAtDawn() {
	ids := s.startFiveRoles()
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["selene"])

	s.advance()

	r := s.room()
	s.Equal(model.PhaseDay, r.Phase)
	s.False(s.player(ids["selene"]).Alive)
	s.Contains(r.Narrative, "The sun rises.")
	s.Contains(r.Narrative, "selene was found dead.")
}

func (s *ControllerSuite) TestQuietNightHarmsNobody() {
	ids := s.startFiveRoles()

	s.advance()

	r := s.room()
	s.Equal(model.PhaseDay, r.Phase)
	for _, id := range ids {
		s.True(s.player(id).Alive)
	}
	s.Contains(r.Narrative, "Everyone is unharmed.")
}

func (s *ControllerSuite) TestWolfTieBreaksByFirstToReachMax() {
	ids := s.startGame(model.RoleConfig{model.RoleWerewolf: 2},
		"wolfgang", "warrick", "piper", "otis", "mabel")

	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["piper"])
	s.act(ids["warrick"], model.AbilityWolfKill, ids["otis"])
	s.advance()

	s.False(s.player(ids["piper"]).Alive)
	s.True(s.player(ids["otis"]).Alive)
}

func (s *ControllerSuite) TestWolfResubmissionForfeitsTiePriority() {
	ids := s.startGame(model.RoleConfig{model.RoleWerewolf: 2},
		"wolfgang", "warrick", "piper", "otis", "mabel")

	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["piper"])
	s.act(ids["warrick"], model.AbilityWolfKill, ids["otis"])
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["piper"])
	s.advance()

	s.True(s.player(ids["piper"]).Alive)
	s.False(s.player(ids["otis"]).Alive)
}

func (s *ControllerSuite) TestWolfMajorityBeatsEarlierMinority() {
	ids := s.startGame(model.RoleConfig{model.RoleWerewolf: 3},
		"wolfgang", "warrick", "wanda", "piper", "otis")

	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["piper"])
	s.act(ids["warrick"], model.AbilityWolfKill, ids["otis"])
	s.act(ids["wanda"], model.AbilityWolfKill, ids["otis"])
	s.advance()

	s.True(s.player(ids["piper"]).Alive)
	s.False(s.player(ids["otis"]).Alive)
}

// Guard protection

func (s *ControllerSuite) TestProtectionBlocksConsensusKill() {
	ids := s.startFiveRoles()
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["selene"])
	s.act(ids["gideon"], model.AbilityProtect, ids["selene"])

	s.advance()

	r := s.room()
	s.Equal(model.PhaseDay, r.Phase)
	s.True(s.player(ids["selene"]).Alive)
	s.Contains(r.Narrative, "Everyone is unharmed.")
}

func (s *ControllerSuite) TestProtectionRecordedForNoRepeatRule() {
	ids := s.startFiveRoles()
	s.act(ids["gideon"], model.AbilityProtect, ids["selene"])
	s.advance()

	s.Equal(ids["selene"], s.player(ids["gideon"]).Ability.Guard.LastProtected)
}

func (s *ControllerSuite) TestIdleGuardShedsNoRepeatConstraint() {
	ids := s.startFiveRoles()
	s.act(ids["gideon"], model.AbilityProtect, ids["selene"])
	s.advance() // night 1 resolved
	s.toNight()

	s.advance() // night 2 resolved, gideon idle
	s.Empty(s.player(ids["gideon"]).Ability.Guard.LastProtected)
	s.toNight()

	err := s.controller.SubmitAction(s.ctx, roomCode, ids["gideon"], model.AbilityProtect, ids["selene"])
	s.NoError(err)
}

// Witch potions

func (s *ControllerSuite) TestSaveCancelsConsensusKill() {
	ids := s.startFiveRoles()
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["selene"])
	s.act(ids["wren"], model.AbilitySave, ids["selene"])

	s.advance()

	s.True(s.player(ids["selene"]).Alive)
	s.True(s.player(ids["wren"]).Ability.Witch.UsedSave)
}

func (s *ControllerSuite) TestSaveOnWrongTargetDoesNothing() {
	ids := s.startFiveRoles()
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["selene"])
	s.act(ids["wren"], model.AbilitySave, ids["gideon"])

	s.advance()

	s.False(s.player(ids["selene"]).Alive)
	s.False(s.player(ids["wren"]).Ability.Witch.UsedSave)
}

func (s *ControllerSuite) TestSaveIsOncePerGame() {
	ids := s.startFiveRoles()
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["selene"])
	s.act(ids["wren"], model.AbilitySave, ids["selene"])
	s.advance()
	s.True(s.player(ids["selene"]).Alive)

	s.toNight()
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["gideon"])
	s.act(ids["wren"], model.AbilitySave, ids["gideon"])
	s.advance()

	s.False(s.player(ids["gideon"]).Alive)
}

func (s *ControllerSuite) TestPoisonKillsAlongsideConsensusKill() {
	ids := s.startFiveRoles()
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["selene"])
	s.act(ids["wren"], model.AbilityPoison, ids["gideon"])

	s.advance()

	s.False(s.player(ids["selene"]).Alive)
	s.False(s.player(ids["gideon"]).Alive)
	s.True(s.player(ids["wren"]).Ability.Witch.UsedKill)
}

func (s *ControllerSuite) TestPoisonWastedOnProtectedTarget() {
	ids := s.startFiveRoles()
	s.act(ids["gideon"], model.AbilityProtect, ids["selene"])
	s.act(ids["wren"], model.AbilityPoison, ids["selene"])

	s.advance()

	s.True(s.player(ids["selene"]).Alive)
	s.True(s.player(ids["wren"]).Ability.Witch.UsedKill)
}

// Alpha curse

func (s *ControllerSuite) startAlphaCast() map[string]model.PlayerID {
	return s.startGame(model.RoleConfig{
		model.RoleAlphaWolf: 1,
		model.RoleSeer:      1,
		model.RoleGuard:     1,
	}, "aldous", "selene", "gideon", "piper", "otis")
}

func (s *ControllerSuite) TestCurseConvertsInsteadOfKilling() {
	ids := s.startAlphaCast()
	s.act(ids["aldous"], model.AbilityWolfKill, ids["selene"])
	s.act(ids["aldous"], model.AbilityCurse, ids["selene"])

	s.advance()

	selene := s.player(ids["selene"])
	s.True(selene.Alive)
	s.Equal(model.FactionWolves, selene.Faction)
	s.Equal(model.RoleSeer, selene.Role)
	s.True(s.player(ids["aldous"]).Ability.Alpha.UsedCurse)
}

func (s *ControllerSuite) TestCurseKeptWhenTargetProtected() {
	ids := s.startAlphaCast()
	s.act(ids["aldous"], model.AbilityWolfKill, ids["selene"])
	s.act(ids["aldous"], model.AbilityCurse, ids["selene"])
	s.act(ids["gideon"], model.AbilityProtect, ids["selene"])

	s.advance()

	selene := s.player(ids["selene"])
	s.True(selene.Alive)
	s.Equal(model.FactionVillage, selene.Faction)
	s.False(s.player(ids["aldous"]).Ability.Alpha.UsedCurse)
}

func (s *ControllerSuite) TestCurseOffConsensusTargetDoesNothing() {
	ids := s.startAlphaCast()
	s.act(ids["aldous"], model.AbilityWolfKill, ids["selene"])
	s.act(ids["aldous"], model.AbilityCurse, ids["piper"])

	s.advance()

	s.False(s.player(ids["selene"]).Alive)
	s.Equal(model.FactionVillage, s.player(ids["piper"]).Faction)
	s.False(s.player(ids["aldous"]).Ability.Alpha.UsedCurse)
}

func (s *ControllerSuite) TestCurseIsOncePerGame() {
	ids := s.startGame(model.RoleConfig{
		model.RoleAlphaWolf: 1,
		model.RoleWerewolf:  1,
	}, "aldous", "wolfgang", "piper", "otis", "mabel", "finn", "greta")

	s.act(ids["aldous"], model.AbilityWolfKill, ids["piper"])
	s.act(ids["aldous"], model.AbilityCurse, ids["piper"])
	s.advance()
	s.Equal(model.FactionWolves, s.player(ids["piper"]).Faction)

	s.toNight()
	s.act(ids["aldous"], model.AbilityWolfKill, ids["otis"])
	s.act(ids["aldous"], model.AbilityCurse, ids["otis"])
	s.advance()

	s.False(s.player(ids["otis"]).Alive)
	s.Equal(model.FactionVillage, s.player(ids["otis"]).Faction)
}

// Seer and tracker reveals

func (s *ControllerSuite) TestPeekRevealsFactionPrivately() {
	ids := s.startFiveRoles()
	s.act(ids["selene"], model.AbilityPeek, ids["wolfgang"])

	s.advance()

	peek := s.peekResultFor(ids["selene"])
	s.Require().NotNil(peek)
	s.Equal(ids["wolfgang"], peek.Target)
	s.Equal(model.FactionWolves, peek.Faction)

	for _, event := range s.dispatcher.Broadcasts() {
		s.NotEqual(model.EventPeekResult, event.Type)
	}
}

func (s *ControllerSuite) TestPeekSeesSameNightConversion() {
	ids := s.startAlphaCast()
	s.act(ids["aldous"], model.AbilityWolfKill, ids["piper"])
	s.act(ids["aldous"], model.AbilityCurse, ids["piper"])
	s.act(ids["selene"], model.AbilityPeek, ids["piper"])

	s.advance()

	peek := s.peekResultFor(ids["selene"])
	s.Require().NotNil(peek)
	s.Equal(model.FactionWolves, peek.Faction)
}

func (s *ControllerSuite) peekResultFor(id model.PlayerID) *model.PeekResultPayload {
	for _, event := range s.dispatcher.PrivateFor(id) {
		if event.Type == model.EventPeekResult {
			p := event.Payload.(model.PeekResultPayload)
			return &p
		}
	}
	return nil
}

func (s *ControllerSuite) TestWatchReportsNightRoleEvenWhenIdle() {
	ids := s.startGame(model.RoleConfig{
		model.RoleWerewolf: 1,
		model.RoleTracker:  1,
		model.RoleGuard:    1,
	}, "wolfgang", "tansy", "gideon", "piper", "otis")

	// gideon holds a night role but sits the night out
	s.act(ids["tansy"], model.AbilityWatch, ids["gideon"])
	s.advance()

	watch := s.watchResultFor(ids["tansy"])
	s.Require().NotNil(watch)
	s.True(watch.Active)
}

func (s *ControllerSuite) TestWatchReportsFalseForDayRoles() {
	ids := s.startGame(model.RoleConfig{
		model.RoleWerewolf: 1,
		model.RoleTracker:  1,
	}, "wolfgang", "tansy", "piper", "otis", "mabel")

	s.act(ids["tansy"], model.AbilityWatch, ids["piper"])
	s.advance()

	watch := s.watchResultFor(ids["tansy"])
	s.Require().NotNil(watch)
	s.False(watch.Active)
}

func (s *ControllerSuite) watchResultFor(id model.PlayerID) *model.WatchResultPayload {
	for _, event := range s.dispatcher.PrivateFor(id) {
		if event.Type == model.EventWatchResult {
			p := event.Payload.(model.WatchResultPayload)
			return &p
		}
	}
	return nil
}

// Death links

func (s *ControllerSuite) TestMarkDragsTargetWhenHunterDies() {
	ids := s.startFiveRoles()
	s.act(ids["hugo"], model.AbilityMark, ids["wolfgang"])
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["hugo"])

	s.advance()

	s.False(s.player(ids["hugo"]).Alive)
	s.False(s.player(ids["wolfgang"]).Alive)
	s.Contains(s.room().Narrative, "wolfgang is dragged down with hugo.")
}

func (s *ControllerSuite) TestDeathLinkBypassesProtection() {
	ids := s.startFiveRoles()
	s.act(ids["hugo"], model.AbilityMark, ids["wolfgang"])
	s.act(ids["gideon"], model.AbilityProtect, ids["wolfgang"])
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["hugo"])

	s.advance()

	s.False(s.player(ids["hugo"]).Alive)
	s.False(s.player(ids["wolfgang"]).Alive)
}

func (s *ControllerSuite) TestDeathLinksChain() {
	ids := s.startGame(model.RoleConfig{
		model.RoleWerewolf: 1,
		model.RoleHunter:   2,
	}, "wolfgang", "hugo", "harlan", "piper", "otis", "mabel")

	s.act(ids["hugo"], model.AbilityMark, ids["harlan"])
	s.act(ids["harlan"], model.AbilityMark, ids["piper"])
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["hugo"])

	s.advance()

	s.False(s.player(ids["hugo"]).Alive)
	s.False(s.player(ids["harlan"]).Alive)
	s.False(s.player(ids["piper"]).Alive)
	s.True(s.player(ids["otis"]).Alive)
}

func (s *ControllerSuite) TestSurvivingHunterKeepsMarkArmed() {
	ids := s.startFiveRoles()
	s.act(ids["hugo"], model.AbilityMark, ids["wolfgang"])

	s.advance()

	s.True(s.player(ids["hugo"]).Alive)
	s.Equal(ids["wolfgang"], s.player(ids["hugo"]).Ability.Hunter.Marked)
}

// Win evaluation at dawn

func (s *ControllerSuite) TestWolfParityAtDawnEndsGame() {
	ids := s.startGame(model.RoleConfig{model.RoleWerewolf: 2},
		"wolfgang", "warrick", "piper", "otis", "mabel")

	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["piper"])
	s.act(ids["warrick"], model.AbilityWolfKill, ids["piper"])
	s.advance()

	r := s.room()
	s.Equal(model.PhaseEnded, r.Phase)
	s.Equal(model.FactionWolves, r.Winner)
	s.Contains(r.Narrative, "The wolves overrun the village.")
	s.Len(s.dispatcher.BroadcastsOfType(model.EventGameEnded), 1)
}

func (s *ControllerSuite) TestConversionAloneCanEndGame() {
	ids := s.startGame(model.RoleConfig{
		model.RoleAlphaWolf: 1,
		model.RoleWerewolf:  1,
	}, "aldous", "wolfgang", "piper", "otis")

	s.act(ids["aldous"], model.AbilityWolfKill, ids["piper"])
	s.act(ids["aldous"], model.AbilityCurse, ids["piper"])
	s.advance()

	r := s.room()
	s.Equal(model.PhaseEnded, r.Phase)
	s.Equal(model.FactionWolves, r.Winner)
	s.True(s.player(ids["piper"]).Alive)
}
