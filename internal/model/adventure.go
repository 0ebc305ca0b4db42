package model

import "slices"

// NodeKind distinguishes regular nodes from the boss at the end of a location.
type NodeKind string

const (
	NodeNormal NodeKind = "normal"
	NodeBoss   NodeKind = "boss"
)

// MissionRewards is what a mission pays when it is resolved.
type MissionRewards struct {
	XP         int64  `json:"xp"`
	Points     int64  `json:"points"`
	Crystals   int64  `json:"crystals"`
	ArtifactID string `json:"artifactId,omitempty"`
}

// Mission is the template a node asks the player to complete.
type Mission struct {
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Difficulty        int            `json:"difficulty"`
	TargetSuccesses   int            `json:"targetSuccesses"`
	RequiredRollValue int            `json:"requiredRollValue"`
	Rewards           MissionRewards `json:"rewards"`
}

// Node is one step of a location's chain.
type Node struct {
	Kind      NodeKind `json:"kind"`
	Mission   Mission  `json:"mission"`
	Completed bool     `json:"completed"`
}

// Location owns an ordered chain of nodes.
type Location struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Nodes []Node `json:"nodes"`
}

// Artifact is a collectible granted by a mission.
type Artifact struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	Collected bool   `json:"collected"`
}

// ActiveMission is the mission currently being played on the active node.
type ActiveMission struct {
	LocationID      string  `json:"locationId"`
	NodeIndex       int     `json:"nodeIndex"`
	Mission         Mission `json:"mission"`
	SuccessfulRolls int     `json:"successfulRolls"`
	Attempts        int     `json:"attempts"`
}

// Ready reports whether the mission has met its success threshold.
func (m *ActiveMission) Ready() bool {
	return m != nil && m.SuccessfulRolls >= m.Mission.TargetSuccesses
}

// ProgressionState is a player's position in adventure mode.
// Nodes holds the completion flags of every location, keyed by location id.
type ProgressionState struct {
	CurrentLocation  string            `json:"currentLocation"`
	CurrentNodeIndex int               `json:"currentNodeIndex"`
	ActiveMission    *ActiveMission    `json:"activeMission"`
	Nodes            map[string][]bool `json:"nodes"`
	Collected        []string          `json:"collectedArtifacts"`
	Finished         bool              `json:"finished"`
}

// Clone returns a deep copy of the state.
func (s *ProgressionState) Clone() *ProgressionState {
	if s == nil {
		return nil
	}
	c := *s
	if s.ActiveMission != nil {
		am := *s.ActiveMission
		c.ActiveMission = &am
	}
	c.Nodes = make(map[string][]bool, len(s.Nodes))
	for k, v := range s.Nodes {
		c.Nodes[k] = slices.Clone(v)
	}
	c.Collected = slices.Clone(s.Collected)
	return &c
}

// HasArtifact reports whether the artifact has been collected.
func (s *ProgressionState) HasArtifact(id string) bool {
	return slices.Contains(s.Collected, id)
}
