package adventure

import (
	"errors"
	"reflect"
	"slices"

	"lucky-dice-bot/internal/model"
)

// ErrMissionNotReady is returned when a mission is resolved before it has
// collected enough successful rolls.
var ErrMissionNotReady = errors.New("mission is not ready to resolve")

// NodeState is the derived state of a node.
type NodeState int

const (
	NodeLocked NodeState = iota
	NodeActive
	NodeCompleted
)

func (s NodeState) String() string {
	switch s {
	case NodeActive:
		return "active"
	case NodeCompleted:
		return "completed"
	default:
		return "locked"
	}
}

func (s NodeState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LocationState is the derived state of a location.
type LocationState int

const (
	LocationLocked LocationState = iota
	LocationActive
	LocationCleared
)

func (s LocationState) String() string {
	switch s {
	case LocationActive:
		return "active"
	case LocationCleared:
		return "cleared"
	default:
		return "locked"
	}
}

func (s LocationState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Resolution describes a resolved mission.
type Resolution struct {
	LocationID      string
	NodeIndex       int
	Mission         model.Mission
	Rewards         model.MissionRewards
	Artifact        *model.Artifact
	LocationCleared bool
	Finished        bool
}

// NewState returns the state of a player who has not started yet.
func NewState() *model.ProgressionState {
	s := &model.ProgressionState{
		CurrentLocation: locations[0].id,
		Nodes:           make(map[string][]bool, len(locations)),
		Collected:       []string{},
	}
	for i, l := range locations {
		s.Nodes[l.id] = make([]bool, nodeCount(i))
	}
	return s
}

// Machine drives a ProgressionState. It mutates the state it wraps.
type Machine struct {
	state *model.ProgressionState
}

// NewMachine wraps state, creating a fresh one if state is nil.
func NewMachine(state *model.ProgressionState) *Machine {
	if state == nil {
		state = NewState()
	}
	return &Machine{state: state}
}

// State returns the wrapped state.
func (m *Machine) State() *model.ProgressionState {
	return m.state
}

// Finished reports whether every location has been cleared.
func (m *Machine) Finished() bool {
	return m.state.Finished
}

// NodeState returns the state of node i of a location. Unknown locations
// and out of range indexes are reported as locked.
func (m *Machine) NodeState(locationID string, i int) NodeState {
	flags, ok := m.state.Nodes[locationID]
	if !ok || i < 0 || i >= len(flags) {
		return NodeLocked
	}
	if flags[i] {
		return NodeCompleted
	}
	if !m.state.Finished && locationID == m.state.CurrentLocation && i == m.state.CurrentNodeIndex {
		return NodeActive
	}
	return NodeLocked
}

// LocationState returns the state of a location.
func (m *Machine) LocationState(locationID string) LocationState {
	flags, ok := m.state.Nodes[locationID]
	if !ok || len(flags) == 0 {
		return LocationLocked
	}
	if !slices.Contains(flags, false) {
		return LocationCleared
	}
	if !m.state.Finished && locationID == m.state.CurrentLocation {
		return LocationActive
	}
	return LocationLocked
}

// SubmitRoll applies a roll to the active mission and reports whether it
// counted as a success. The mission is started from the active node if
// none is in progress, or if the one in progress belongs to another node.
// Rolls after the last location, rolls while the current position is not
// the first incomplete node, and dice outside 1..6 are ignored.
func (m *Machine) SubmitRoll(die1, die2 int) bool {
	if m.state.Finished || !validDie(die1) || !validDie(die2) {
		return false
	}

	if !m.atFrontier(m.state.CurrentLocation, m.state.CurrentNodeIndex) {
		return false
	}
	am := m.state.ActiveMission
	if am == nil || am.LocationID != m.state.CurrentLocation || am.NodeIndex != m.state.CurrentNodeIndex {
		li := locationIndex(m.state.CurrentLocation)
		am = &model.ActiveMission{
			LocationID: m.state.CurrentLocation,
			NodeIndex:  m.state.CurrentNodeIndex,
			Mission:    mission(li, m.state.CurrentNodeIndex),
		}
		m.state.ActiveMission = am
	}

	am.Attempts++
	if die1+die2 >= am.Mission.RequiredRollValue {
		am.SuccessfulRolls++
		return true
	}
	return false
}

// ResolveMission completes the active node once its mission is ready,
// collects the node's artifact and advances to the next node, the next
// location, or the end of the adventure. A mission that is not on the first
// incomplete node is never ready. On error the state is unchanged.
func (m *Machine) ResolveMission() (Resolution, error) {
	am := m.state.ActiveMission
	if m.state.Finished || !am.Ready() {
		return Resolution{}, ErrMissionNotReady
	}
	if am.LocationID != m.state.CurrentLocation || am.NodeIndex != m.state.CurrentNodeIndex ||
		!m.atFrontier(am.LocationID, am.NodeIndex) {
		return Resolution{}, ErrMissionNotReady
	}
	li := locationIndex(am.LocationID)
	flags := m.state.Nodes[am.LocationID]

	res := Resolution{
		LocationID: am.LocationID,
		NodeIndex:  am.NodeIndex,
		Mission:    am.Mission,
		Rewards:    am.Mission.Rewards,
	}

	flags[am.NodeIndex] = true
	if id := am.Mission.Rewards.ArtifactID; id != "" {
		if a, ok := ArtifactByID(id); ok {
			a.Collected = true
			res.Artifact = &a
		}
		if !m.state.HasArtifact(id) {
			m.state.Collected = append(m.state.Collected, id)
		}
	}
	m.state.ActiveMission = nil

	switch {
	case am.NodeIndex+1 < len(flags):
		m.state.CurrentNodeIndex = am.NodeIndex + 1
	case li+1 < len(locations):
		res.LocationCleared = true
		m.state.CurrentLocation = locations[li+1].id
		m.state.CurrentNodeIndex = 0
	default:
		res.LocationCleared = true
		res.Finished = true
		m.state.Finished = true
		m.state.CurrentNodeIndex = len(flags)
	}

	return res, nil
}

// Artifacts lists the artifact catalog with collected flags.
func (m *Machine) Artifacts() []model.Artifact {
	out := make([]model.Artifact, len(artifacts))
	copy(out, artifacts)
	for i := range out {
		out[i].Collected = m.state.HasArtifact(out[i].ID)
	}
	return out
}

// Overview returns every location with the player's completion flags.
func (m *Machine) Overview() []model.Location {
	locs := Locations()
	for i := range locs {
		flags := m.state.Nodes[locs[i].ID]
		for j := range locs[i].Nodes {
			locs[i].Nodes[j].Completed = j < len(flags) && flags[j]
		}
	}
	return locs
}

// Normalize repairs a loaded state so every later call is well defined:
// node flags are rebuilt for the catalog and forced into a completed
// prefix, the current position is derived from them, artifacts of
// completed nodes are collected and an active mission that does not
// belong to the current node is dropped. It reports whether anything
// changed.
func (m *Machine) Normalize() bool {
	before := m.state.Clone()
	s := m.state

	nodes := make(map[string][]bool, len(locations))
	open := true
	s.Finished = true
	for i, l := range locations {
		src := s.Nodes[l.id]
		flags := make([]bool, nodeCount(i))
		for j := range flags {
			flags[j] = open && j < len(src) && src[j]
			if !flags[j] {
				if open {
					s.CurrentLocation = l.id
					s.CurrentNodeIndex = j
					s.Finished = false
				}
				open = false
			}
		}
		nodes[l.id] = flags
	}
	s.Nodes = nodes
	if s.Finished {
		last := len(locations) - 1
		s.CurrentLocation = locations[last].id
		s.CurrentNodeIndex = nodeCount(last)
	}

	collected := make([]string, 0, len(s.Collected))
	for _, id := range s.Collected {
		if _, ok := ArtifactByID(id); ok && !slices.Contains(collected, id) {
			collected = append(collected, id)
		}
	}
	for _, l := range locations {
		for j, done := range nodes[l.id] {
			id := l.nodes[j].artifact
			if done && !slices.Contains(collected, id) {
				collected = append(collected, id)
			}
		}
	}
	s.Collected = collected

	if am := s.ActiveMission; am != nil {
		if s.Finished || am.LocationID != s.CurrentLocation || am.NodeIndex != s.CurrentNodeIndex {
			s.ActiveMission = nil
		} else {
			li := locationIndex(am.LocationID)
			am.Mission = mission(li, am.NodeIndex)
			if am.SuccessfulRolls < 0 {
				am.SuccessfulRolls = 0
			}
			if am.Attempts < am.SuccessfulRolls {
				am.Attempts = am.SuccessfulRolls
			}
		}
	}

	return !reflect.DeepEqual(before, s)
}

// atFrontier reports whether node i of a location is the first incomplete
// node of the whole adventure.
func (m *Machine) atFrontier(locationID string, i int) bool {
	li := locationIndex(locationID)
	if li < 0 || i < 0 || i >= nodeCount(li) {
		return false
	}
	for _, l := range locations[:li] {
		flags := m.state.Nodes[l.id]
		if len(flags) != len(l.nodes) || slices.Contains(flags, false) {
			return false
		}
	}
	flags := m.state.Nodes[locationID]
	if len(flags) != nodeCount(li) || flags[i] {
		return false
	}
	return !slices.Contains(flags[:i], false)
}

func validDie(d int) bool {
	return d >= 1 && d <= 6
}
