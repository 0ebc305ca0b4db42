package adventure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"lucky-dice-bot/internal/model"
)

// winNode rolls double sixes until the active mission is ready, then resolves it.
func winNode(t require.TestingT, m *Machine) Resolution {
	for i := 0; i < 20 && !m.State().ActiveMission.Ready(); i++ {
		m.SubmitRoll(6, 6)
	}
	res, err := m.ResolveMission()
	require.NoError(t, err)
	return res
}

func TestCatalogShape(t *testing.T) {
	locs := Locations()
	require.Len(t, locs, 3)
	assert.Equal(t, []string{LocationForest, LocationDesert, LocationPeaks},
		[]string{locs[0].ID, locs[1].ID, locs[2].ID})

	seen := map[string]bool{}
	for _, l := range locs {
		require.NotEmpty(t, l.Nodes)
		for i, n := range l.Nodes {
			if i == len(l.Nodes)-1 {
				assert.Equal(t, model.NodeBoss, n.Kind, "%s last node", l.ID)
			} else {
				assert.Equal(t, model.NodeNormal, n.Kind)
			}
			id := n.Mission.Rewards.ArtifactID
			_, ok := ArtifactByID(id)
			assert.True(t, ok, "artifact %q not in catalog", id)
			assert.False(t, seen[id], "artifact %q used twice", id)
			seen[id] = true
			assert.Positive(t, n.Mission.TargetSuccesses)
			assert.LessOrEqual(t, n.Mission.RequiredRollValue, 12)
		}
	}
	assert.Len(t, seen, len(artifacts))

	first := locs[0].Nodes[0].Mission
	assert.Equal(t, "Whispering Path", first.Title)
	assert.Equal(t, model.MissionRewards{XP: 20, Points: 15, Crystals: 1, ArtifactID: "moss_charm"}, first.Rewards)

	boss := locs[0].Nodes[3].Mission
	assert.Equal(t, model.MissionRewards{XP: 80, Points: 60, Crystals: 5, ArtifactID: "guardian_heart"}, boss.Rewards)
}

func TestFirstMission(t *testing.T) {
	m := NewMachine(nil)

	assert.Equal(t, NodeActive, m.NodeState(LocationForest, 0))
	assert.Equal(t, NodeLocked, m.NodeState(LocationForest, 1))
	assert.Equal(t, LocationActive, m.LocationState(LocationForest))
	assert.Equal(t, LocationLocked, m.LocationState(LocationDesert))

	assert.True(t, m.SubmitRoll(4, 3))
	assert.False(t, m.SubmitRoll(2, 2))
	assert.True(t, m.SubmitRoll(5, 3))
	assert.True(t, m.SubmitRoll(6, 2))

	am := m.State().ActiveMission
	require.NotNil(t, am)
	assert.Equal(t, 3, am.SuccessfulRolls)
	assert.Equal(t, 4, am.Attempts)

	res, err := m.ResolveMission()
	require.NoError(t, err)
	assert.Equal(t, LocationForest, res.LocationID)
	assert.Equal(t, 0, res.NodeIndex)
	require.NotNil(t, res.Artifact)
	assert.Equal(t, "moss_charm", res.Artifact.ID)
	assert.False(t, res.LocationCleared)

	assert.Equal(t, NodeCompleted, m.NodeState(LocationForest, 0))
	assert.Equal(t, NodeActive, m.NodeState(LocationForest, 1))
	assert.Equal(t, 1, m.State().CurrentNodeIndex)
	assert.Nil(t, m.State().ActiveMission)
	assert.True(t, m.State().HasArtifact("moss_charm"))
}

func TestResolveNotReadyLeavesStateUnchanged(t *testing.T) {
	m := NewMachine(nil)

	_, err := m.ResolveMission()
	assert.ErrorIs(t, err, ErrMissionNotReady)

	m.SubmitRoll(6, 6)
	m.SubmitRoll(1, 1)
	before := m.State().Clone()

	_, err = m.ResolveMission()
	assert.ErrorIs(t, err, ErrMissionNotReady)
	assert.Equal(t, before, m.State())
}

func TestResolveRejectsMissionOffCurrentNode(t *testing.T) {
	s := NewState()
	s.ActiveMission = &model.ActiveMission{
		LocationID:      LocationForest,
		NodeIndex:       2,
		Mission:         mission(0, 2),
		SuccessfulRolls: 10,
	}
	m := NewMachine(s)
	before := s.Clone()

	_, err := m.ResolveMission()
	assert.ErrorIs(t, err, ErrMissionNotReady)
	assert.Equal(t, before, s)
	assert.Equal(t, NodeActive, m.NodeState(LocationForest, 0))
	assert.Equal(t, NodeLocked, m.NodeState(LocationForest, 2))
}

func TestResolveRejectsPositionPastIncompleteNode(t *testing.T) {
	s := NewState()
	s.CurrentNodeIndex = 2
	s.ActiveMission = &model.ActiveMission{
		LocationID:      LocationForest,
		NodeIndex:       2,
		Mission:         mission(0, 2),
		SuccessfulRolls: 10,
	}
	m := NewMachine(s)

	_, err := m.ResolveMission()
	assert.ErrorIs(t, err, ErrMissionNotReady)
	assert.False(t, m.SubmitRoll(6, 6))
	assert.Equal(t, []bool{false, false, false, false}, s.Nodes[LocationForest])
}

func TestSubmitRollRestartsMissionOffCurrentNode(t *testing.T) {
	s := NewState()
	s.ActiveMission = &model.ActiveMission{
		LocationID:      LocationDesert,
		NodeIndex:       1,
		Mission:         mission(1, 1),
		SuccessfulRolls: 9,
	}
	m := NewMachine(s)

	assert.True(t, m.SubmitRoll(4, 4))
	am := m.State().ActiveMission
	require.NotNil(t, am)
	assert.Equal(t, LocationForest, am.LocationID)
	assert.Equal(t, 0, am.NodeIndex)
	assert.Equal(t, 1, am.SuccessfulRolls)
	assert.Equal(t, 1, am.Attempts)
}

func TestSubmitRollIgnoresInvalidDice(t *testing.T) {
	m := NewMachine(nil)

	assert.False(t, m.SubmitRoll(0, 6))
	assert.False(t, m.SubmitRoll(6, 7))
	assert.Nil(t, m.State().ActiveMission)
}

func TestBossClearsLocation(t *testing.T) {
	m := NewMachine(nil)

	for i := 0; i < 3; i++ {
		res := winNode(t, m)
		assert.False(t, res.LocationCleared)
	}
	res := winNode(t, m)
	assert.True(t, res.LocationCleared)
	assert.False(t, res.Finished)

	assert.Equal(t, LocationCleared, m.LocationState(LocationForest))
	assert.Equal(t, LocationActive, m.LocationState(LocationDesert))
	assert.Equal(t, LocationDesert, m.State().CurrentLocation)
	assert.Equal(t, 0, m.State().CurrentNodeIndex)
}

func TestAllLocationsCleared(t *testing.T) {
	m := NewMachine(nil)

	var last Resolution
	for !m.Finished() {
		last = winNode(t, m)
	}

	assert.True(t, last.Finished)
	assert.Equal(t, "wyrm_scale", last.Artifact.ID)
	for _, l := range Locations() {
		assert.Equal(t, LocationCleared, m.LocationState(l.ID))
		for i := range l.Nodes {
			assert.Equal(t, NodeCompleted, m.NodeState(l.ID, i))
		}
	}
	for _, a := range m.Artifacts() {
		assert.True(t, a.Collected, a.ID)
	}

	// Nothing moves once the adventure is over.
	assert.False(t, m.SubmitRoll(6, 6))
	_, err := m.ResolveMission()
	assert.ErrorIs(t, err, ErrMissionNotReady)
}

func TestNodeStateUnknown(t *testing.T) {
	m := NewMachine(nil)
	assert.Equal(t, NodeLocked, m.NodeState("moon", 0))
	assert.Equal(t, NodeLocked, m.NodeState(LocationForest, -1))
	assert.Equal(t, NodeLocked, m.NodeState(LocationForest, 99))
	assert.Equal(t, LocationLocked, m.LocationState("moon"))
}

func TestNormalizeFreshStateUnchanged(t *testing.T) {
	m := NewMachine(NewState())
	assert.False(t, m.Normalize())
}

func TestNormalizeRepairsCorruptState(t *testing.T) {
	s := &model.ProgressionState{
		CurrentLocation:  "moon",
		CurrentNodeIndex: 7,
		Nodes: map[string][]bool{
			LocationForest: {true, false, true},
			LocationDesert: {true},
			"moon":         {true},
		},
		Collected: []string{"bogus", "moss_charm", "moss_charm"},
		ActiveMission: &model.ActiveMission{
			LocationID: LocationDesert, NodeIndex: 0, SuccessfulRolls: 99,
		},
	}
	m := NewMachine(s)

	assert.True(t, m.Normalize())

	assert.Equal(t, LocationForest, s.CurrentLocation)
	assert.Equal(t, 1, s.CurrentNodeIndex)
	assert.Equal(t, []bool{true, false, false, false}, s.Nodes[LocationForest])
	assert.Equal(t, []bool{false, false, false}, s.Nodes[LocationDesert])
	assert.NotContains(t, s.Nodes, "moon")
	assert.Equal(t, []string{"moss_charm"}, s.Collected)
	assert.Nil(t, s.ActiveMission)
	assert.False(t, s.Finished)

	assert.False(t, m.Normalize())
}

func TestNormalizeRefreshesActiveMission(t *testing.T) {
	s := NewState()
	s.ActiveMission = &model.ActiveMission{
		LocationID:      LocationForest,
		NodeIndex:       0,
		Mission:         model.Mission{Title: "old", TargetSuccesses: 1},
		SuccessfulRolls: 2,
		Attempts:        1,
	}
	m := NewMachine(s)

	assert.True(t, m.Normalize())
	require.NotNil(t, s.ActiveMission)
	assert.Equal(t, "Whispering Path", s.ActiveMission.Mission.Title)
	assert.Equal(t, 2, s.ActiveMission.SuccessfulRolls)
	assert.Equal(t, 2, s.ActiveMission.Attempts)
}

func TestNormalizeFinished(t *testing.T) {
	s := NewState()
	for id, flags := range s.Nodes {
		for i := range flags {
			s.Nodes[id][i] = true
		}
	}
	m := NewMachine(s)
	m.Normalize()

	assert.True(t, m.Finished())
	assert.Len(t, s.Collected, len(artifacts))
}

// TestProgressionOrderProperty: under any roll sequence completed nodes form
// a prefix of the adventure and at most one node is active.
func TestProgressionOrderProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := NewMachine(nil)
		steps := rapid.IntRange(1, 300).Draw(t, "steps")

		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(t, "resolve") {
				before := m.State().Clone()
				if _, err := m.ResolveMission(); err != nil {
					if !assert.ObjectsAreEqual(before, m.State()) {
						t.Fatalf("failed resolve mutated state")
					}
				}
				continue
			}
			d1 := rapid.IntRange(1, 6).Draw(t, "d1")
			d2 := rapid.IntRange(1, 6).Draw(t, "d2")
			m.SubmitRoll(d1, d2)
		}

		active := 0
		seenIncomplete := false
		for _, l := range Locations() {
			for i := range l.Nodes {
				switch m.NodeState(l.ID, i) {
				case NodeCompleted:
					if seenIncomplete {
						t.Fatalf("%s[%d] completed after an incomplete node", l.ID, i)
					}
				case NodeActive:
					active++
					seenIncomplete = true
				default:
					seenIncomplete = true
				}
			}
		}
		if m.Finished() && active != 0 {
			t.Fatalf("finished with %d active nodes", active)
		}
		if !m.Finished() && active != 1 {
			t.Fatalf("%d active nodes, want 1", active)
		}
		if am := m.State().ActiveMission; am != nil && am.SuccessfulRolls > am.Attempts {
			t.Fatalf("successes %d exceed attempts %d", am.SuccessfulRolls, am.Attempts)
		}
	})
}
