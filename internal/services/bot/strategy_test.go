package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quailholm/wolfgame-go/internal/dependencies/mocks"
	"github.com/quailholm/wolfgame-go/internal/model"
)

func seated(id model.PlayerID, role model.Role) model.Player {
	return model.Player{
		ID:          id,
		DisplayName: string(id),
		Connected:   true,
		Alive:       true,
		Role:        role,
		Faction:     model.FactionOf(role),
		Ability:     model.NewAbilityState(role),
	}
}

func nightRoom(players ...model.Player) *model.Room {
	return &model.Room{Phase: model.PhaseNight, Players: players}
}

func TestWolfTargetsOutsideThePack(t *testing.T) {
	strategy := NewRandomStrategy(mocks.NewMockRandom())
	r := nightRoom(
		seated("w1", model.RoleWerewolf),
		seated("w2", model.RoleWerewolf),
		seated("v1", model.RoleVillager),
		seated("v2", model.RoleVillager),
	)

	ability, target, ok := strategy.ChooseNightAction(r, &r.Players[0])

	require.True(t, ok)
	assert.Equal(t, model.AbilityWolfKill, ability)
	assert.Equal(t, model.PlayerID("v1"), target)
}

func TestAlphaJoinsTheHunt(t *testing.T) {
	strategy := NewRandomStrategy(mocks.NewMockRandom())
	r := nightRoom(
		seated("a1", model.RoleAlphaWolf),
		seated("v1", model.RoleVillager),
	)

	ability, target, ok := strategy.ChooseNightAction(r, &r.Players[0])

	require.True(t, ok)
	assert.Equal(t, model.AbilityWolfKill, ability)
	assert.Equal(t, model.PlayerID("v1"), target)
}

func TestGuardAvoidsLastProtected(t *testing.T) {
	strategy := NewRandomStrategy(mocks.NewMockRandom())
	r := nightRoom(
		seated("g1", model.RoleGuard),
		seated("v1", model.RoleVillager),
		seated("v2", model.RoleVillager),
	)
	r.Players[0].Ability.Guard.LastProtected = "v1"

	ability, target, ok := strategy.ChooseNightAction(r, &r.Players[0])

	require.True(t, ok)
	assert.Equal(t, model.AbilityProtect, ability)
	assert.Equal(t, model.PlayerID("v2"), target)
}

func TestWitchPoisonsUntilSpent(t *testing.T) {
	strategy := NewRandomStrategy(mocks.NewMockRandom())
	r := nightRoom(
		seated("w1", model.RoleWitch),
		seated("v1", model.RoleVillager),
	)

	ability, target, ok := strategy.ChooseNightAction(r, &r.Players[0])
	require.True(t, ok)
	assert.Equal(t, model.AbilityPoison, ability)
	assert.Equal(t, model.PlayerID("v1"), target)

	r.Players[0].Ability.Witch.UsedKill = true
	_, _, ok = strategy.ChooseNightAction(r, &r.Players[0])
	assert.False(t, ok)
}

func TestInformationRolesLook(t *testing.T) {
	strategy := NewRandomStrategy(mocks.NewMockRandom())
	r := nightRoom(
		seated("s1", model.RoleSeer),
		seated("t1", model.RoleTracker),
		seated("h1", model.RoleHunter),
	)

	ability, _, ok := strategy.ChooseNightAction(r, &r.Players[0])
	require.True(t, ok)
	assert.Equal(t, model.AbilityPeek, ability)

	ability, _, ok = strategy.ChooseNightAction(r, &r.Players[1])
	require.True(t, ok)
	assert.Equal(t, model.AbilityWatch, ability)

	ability, _, ok = strategy.ChooseNightAction(r, &r.Players[2])
	require.True(t, ok)
	assert.Equal(t, model.AbilityMark, ability)
}

func TestVillagerSitsOutTheNight(t *testing.T) {
	strategy := NewRandomStrategy(mocks.NewMockRandom())
	r := nightRoom(
		seated("v1", model.RoleVillager),
		seated("v2", model.RoleVillager),
	)

	_, _, ok := strategy.ChooseNightAction(r, &r.Players[0])

	assert.False(t, ok)
}

func TestDeadPlayersNeverTargeted(t *testing.T) {
	strategy := NewRandomStrategy(mocks.NewMockRandom())
	r := nightRoom(
		seated("w1", model.RoleWerewolf),
		seated("v1", model.RoleVillager),
		seated("v2", model.RoleVillager),
	)
	r.Players[1].Alive = false

	_, target, ok := strategy.ChooseNightAction(r, &r.Players[0])

	require.True(t, ok)
	assert.Equal(t, model.PlayerID("v2"), target)
}

func TestLawyerPicksOneClient(t *testing.T) {
	strategy := NewRandomStrategy(mocks.NewMockRandom())
	r := nightRoom(
		seated("l1", model.RoleLawyer),
		seated("v1", model.RoleVillager),
	)

	client, ok := strategy.ChooseClient(r, &r.Players[0])
	require.True(t, ok)
	assert.Equal(t, model.PlayerID("v1"), client)

	r.Players[0].Ability.Lawyer.Used = true
	_, ok = strategy.ChooseClient(r, &r.Players[0])
	assert.False(t, ok)

	_, ok = strategy.ChooseClient(r, &r.Players[1])
	assert.False(t, ok)
}

func TestVoteTargetsSomeoneElse(t *testing.T) {
	random := mocks.NewMockRandom()
	random.QueueIntn(1)
	strategy := NewRandomStrategy(random)
	r := nightRoom(
		seated("v1", model.RoleVillager),
		seated("v2", model.RoleVillager),
		seated("v3", model.RoleVillager),
	)

	target := strategy.ChooseVote(r, &r.Players[0])

	assert.Equal(t, model.PlayerID("v3"), target)
}

func TestVerdictFollowsTheCoin(t *testing.T) {
	random := mocks.NewMockRandom()
	random.QueueIntn(0, 1)
	strategy := NewRandomStrategy(random)
	r := nightRoom(seated("v1", model.RoleVillager))

	assert.Equal(t, model.VerdictExecute, strategy.ChooseVerdict(r, &r.Players[0]))
	assert.Equal(t, model.VerdictSpare, strategy.ChooseVerdict(r, &r.Players[0]))
}
