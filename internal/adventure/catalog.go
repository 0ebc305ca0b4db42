// Package adventure implements adventure mode: a fixed chain of locations,
// each a sequence of dice missions ending in a boss.
package adventure

import "lucky-dice-bot/internal/model"

// Location ids in play order.
const (
	LocationForest = "forest"
	LocationDesert = "desert"
	LocationPeaks  = "peaks"
)

type nodeSpec struct {
	boss     bool
	title    string
	desc     string
	diff     int
	target   int
	required int
	artifact string
}

type locationSpec struct {
	id    string
	name  string
	emoji string
	nodes []nodeSpec
}

var locations = []locationSpec{
	{
		id: LocationForest, name: "Whispering Forest", emoji: "🌲",
		nodes: []nodeSpec{
			{title: "Whispering Path", desc: "Follow the voices between the trees", diff: 1, target: 3, required: 7, artifact: "moss_charm"},
			{title: "Hollow Oak", desc: "Wake the spirit sleeping in the oak", diff: 1, target: 3, required: 8, artifact: "acorn_talisman"},
			{title: "Druid Circle", desc: "Win the druids' game of chance", diff: 2, target: 4, required: 8, artifact: "druid_sigil"},
			{boss: true, title: "Thornwood Guardian", desc: "Defeat the guardian of the forest", diff: 3, target: 3, required: 10, artifact: "guardian_heart"},
		},
	},
	{
		id: LocationDesert, name: "Sunscorched Desert", emoji: "🏜️",
		nodes: []nodeSpec{
			{title: "Shifting Dunes", desc: "Cross the dunes before they swallow the trail", diff: 2, target: 3, required: 8, artifact: "sand_glass"},
			{title: "Mirage Oasis", desc: "Tell the real oasis from the mirage", diff: 2, target: 4, required: 8, artifact: "oasis_pearl"},
			{boss: true, title: "Sphinx of Riddles", desc: "Answer the sphinx with the dice", diff: 3, target: 4, required: 10, artifact: "sphinx_eye"},
		},
	},
	{
		id: LocationPeaks, name: "Frostfang Peaks", emoji: "🏔️",
		nodes: []nodeSpec{
			{title: "Icy Ascent", desc: "Climb the frozen cliffs", diff: 2, target: 4, required: 9, artifact: "frost_shard"},
			{title: "Avalanche Pass", desc: "Outrun the avalanche", diff: 3, target: 4, required: 9, artifact: "storm_rune"},
			{boss: true, title: "Frost Wyrm", desc: "Slay the wyrm coiled around the summit", diff: 3, target: 5, required: 11, artifact: "wyrm_scale"},
		},
	},
}

var artifacts = []model.Artifact{
	{ID: "moss_charm", Name: "Moss Charm", Emoji: "🌿"},
	{ID: "acorn_talisman", Name: "Acorn Talisman", Emoji: "🌰"},
	{ID: "druid_sigil", Name: "Druid Sigil", Emoji: "🔮"},
	{ID: "guardian_heart", Name: "Guardian's Heart", Emoji: "💚"},
	{ID: "sand_glass", Name: "Sand Glass", Emoji: "⏳"},
	{ID: "oasis_pearl", Name: "Oasis Pearl", Emoji: "🦪"},
	{ID: "sphinx_eye", Name: "Eye of the Sphinx", Emoji: "👁️"},
	{ID: "frost_shard", Name: "Frost Shard", Emoji: "❄️"},
	{ID: "storm_rune", Name: "Storm Rune", Emoji: "⚡"},
	{ID: "wyrm_scale", Name: "Wyrm Scale", Emoji: "🐉"},
}

// rewardsFor scales mission rewards with difficulty; bosses pay extra.
func rewardsFor(n nodeSpec) model.MissionRewards {
	r := model.MissionRewards{
		XP:         int64(n.diff) * 20,
		Points:     int64(n.diff) * 15,
		Crystals:   int64(n.diff),
		ArtifactID: n.artifact,
	}
	if n.boss {
		r.XP += 20
		r.Points += 15
		r.Crystals += 2
	}
	return r
}

func (n nodeSpec) node() model.Node {
	kind := model.NodeNormal
	if n.boss {
		kind = model.NodeBoss
	}
	return model.Node{
		Kind: kind,
		Mission: model.Mission{
			Title:             n.title,
			Description:       n.desc,
			Difficulty:        n.diff,
			TargetSuccesses:   n.target,
			RequiredRollValue: n.required,
			Rewards:           rewardsFor(n),
		},
	}
}

// Locations returns the location catalog in play order. Node completion
// flags are all false; player progress lives in model.ProgressionState.
func Locations() []model.Location {
	out := make([]model.Location, 0, len(locations))
	for _, l := range locations {
		loc := model.Location{ID: l.id, Name: l.name, Emoji: l.emoji, Nodes: make([]model.Node, 0, len(l.nodes))}
		for _, n := range l.nodes {
			loc.Nodes = append(loc.Nodes, n.node())
		}
		out = append(out, loc)
	}
	return out
}

// LocationByID returns a catalog location.
func LocationByID(id string) (model.Location, bool) {
	i := locationIndex(id)
	if i < 0 {
		return model.Location{}, false
	}
	return Locations()[i], true
}

// ArtifactByID returns a catalog artifact.
func ArtifactByID(id string) (model.Artifact, bool) {
	for _, a := range artifacts {
		if a.ID == id {
			return a, true
		}
	}
	return model.Artifact{}, false
}

func locationIndex(id string) int {
	for i, l := range locations {
		if l.id == id {
			return i
		}
	}
	return -1
}

func mission(locIdx, nodeIdx int) model.Mission {
	return locations[locIdx].nodes[nodeIdx].node().Mission
}

func nodeCount(locIdx int) int {
	return len(locations[locIdx].nodes)
}
