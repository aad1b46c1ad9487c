package game

import (
	"github.com/quailholm/wolfgame-go/internal/model"
)

func (s *ControllerSuite) viewFor(viewerID model.PlayerID) *model.RoomView {
	view, err := s.controller.GetPlayerView(roomCode, viewerID)
	s.Require().NoError(err)
	return view
}

func playerInView(view *model.RoomView, id model.PlayerID) *model.PlayerView {
	for i := range view.Players {
		if view.Players[i].ID == id {
			return &view.Players[i]
		}
	}
	return nil
}

func (s *ControllerSuite) TestViewHidesOthersRolesWhileAlive() {
	ids := s.startFiveRoles()

	view := s.viewFor(ids["selene"])

	s.Equal(ids["selene"], view.You)
	s.Equal(model.RoleNone, playerInView(view, ids["wolfgang"]).Role)
	s.Equal(model.FactionNone, playerInView(view, ids["wolfgang"]).Faction)
	s.Equal(model.RoleSeer, playerInView(view, ids["selene"]).Role)
}

func (s *ControllerSuite) TestModeratorSeesEveryRole() {
	ids := s.startFiveRoles()

	view := s.viewFor(s.moderatorID)

	s.Equal(model.RoleWerewolf, playerInView(view, ids["wolfgang"]).Role)
	s.Equal(model.RoleWitch, playerInView(view, ids["wren"]).Role)
}

func (s *ControllerSuite) TestDeadSpectatorSeesEveryRole() {
	ids := s.startFiveRoles()
	s.act(ids["wolfgang"], model.AbilityWolfKill, ids["selene"])
	s.advance() // night -> day

	view := s.viewFor(ids["selene"])

	s.False(playerInView(view, ids["selene"]).Alive)
	s.Equal(model.RoleWerewolf, playerInView(view, ids["wolfgang"]).Role)
	s.Equal(model.RoleGuard, playerInView(view, ids["gideon"]).Role)
}

func (s *ControllerSuite) TestEndedGameTurnsAllCardsFaceUp() {
	ids := s.toVote()
	s.vote(ids["selene"], ids["wolfgang"])
	s.vote(ids["gideon"], ids["wolfgang"])
	s.advance() // vote -> defense
	s.advance() // defense -> final_verdict
	s.verdict(ids["selene"], model.VerdictExecute)
	s.verdict(ids["gideon"], model.VerdictExecute)
	s.advance()
	s.Require().Equal(model.PhaseEnded, s.room().Phase)

	view := s.viewFor(ids["hugo"])

	s.Equal(model.FactionVillage, view.Winner)
	s.Equal(model.RoleWerewolf, playerInView(view, ids["wolfgang"]).Role)
	s.Equal(model.RoleSeer, playerInView(view, ids["selene"]).Role)
}

func (s *ControllerSuite) TestViewCarriesVoteTally() {
	ids := s.toVote()
	s.vote(ids["selene"], ids["wolfgang"])

	view := s.viewFor(ids["hugo"])

	s.Require().NotNil(view.VoteTally)
	s.Equal(1, view.VoteTally.Counts[ids["wolfgang"]])
}

func (s *ControllerSuite) TestVerdictTallyHiddenUntilReveal() {
	ids := s.toVote()
	s.vote(ids["wolfgang"], ids["hugo"])
	s.vote(ids["selene"], ids["hugo"])
	s.advance() // vote -> defense
	s.advance() // defense -> final_verdict
	s.verdict(ids["wolfgang"], model.VerdictExecute)
	s.verdict(ids["selene"], model.VerdictSpare)

	s.Nil(s.viewFor(ids["gideon"]).VerdictTally)

	moderatorView := s.viewFor(s.moderatorID)
	s.Require().NotNil(moderatorView.VerdictTally)
	s.Equal(2, moderatorView.VerdictTally.Total)

	s.verdict(ids["gideon"], model.VerdictSpare)
	s.advance() // final_verdict -> execution_reveal, hugo spared

	revealed := s.viewFor(ids["gideon"]).VerdictTally
	s.Require().NotNil(revealed)
	s.Equal(1, revealed.Execute)
	s.Equal(2, revealed.Spare)
}

func (s *ControllerSuite) TestViewRejectsUnknownViewer() {
	s.startFiveRoles()

	_, err := s.controller.GetPlayerView(roomCode, "nobody")
	s.ErrorIs(err, model.ErrInvalidPlayer)
}

func (s *ControllerSuite) TestViewUnknownRoom() {
	_, err := s.controller.GetPlayerView("ZZZZZZ", "nobody")
	s.ErrorIs(err, model.ErrRoomNotFound)
}
