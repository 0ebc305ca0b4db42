package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"lucky-dice-bot/internal/adventure"
	"lucky-dice-bot/internal/ledger"
	"lucky-dice-bot/internal/model"
	"lucky-dice-bot/internal/pkg/metrics"
	"lucky-dice-bot/internal/repository"
)

// AdventureService drives the player's adventure progression.
type AdventureService struct {
	ledger *ledger.Ledger
}

// NewAdventureService creates a new AdventureService instance.
func NewAdventureService(l *ledger.Ledger) *AdventureService {
	return &AdventureService{ledger: l}
}

// LocationView is a location with its derived states.
type LocationView struct {
	model.Location
	State      adventure.LocationState `json:"state"`
	NodeStates []adventure.NodeState  `json:"nodeStates"`
}

// AdventureView is a read-only snapshot of a player's progression.
type AdventureView struct {
	State     *model.ProgressionState `json:"state"`
	Locations []LocationView          `json:"locations"`
	Artifacts []model.Artifact        `json:"artifacts"`
	Finished  bool                    `json:"finished"`
}

// AdventureRoll is the outcome of one adventure roll.
type AdventureRoll struct {
	Die1, Die2 int
	Success    bool
	Mission    *model.ActiveMission
	Finished   bool
}

type loader func(key string, v any) (bool, error)

// loadMachine decodes the player's progression, starting fresh when it is
// absent or unreadable, and repairs it.
func loadMachine(load loader, userID int64) (*adventure.Machine, error) {
	state := &model.ProgressionState{}
	found, err := load(repository.ProgressionKey(userID), state)
	if err != nil {
		return nil, fmt.Errorf("failed to load progression: %w", err)
	}
	if !found {
		state = adventure.NewState()
	}

	m := adventure.NewMachine(state)
	if m.Normalize() && found {
		metrics.RepairedSnapshots.WithLabelValues(repository.DocProgression).Inc()
		log.Warn().Int64("user_id", userID).Msg("Repaired inconsistent progression")
	}
	return m, nil
}

// State returns the player's progression with derived location and node
// states. Reading does not write.
func (s *AdventureService) State(ctx context.Context, userID int64) (*AdventureView, error) {
	m, err := loadMachine(func(key string, v any) (bool, error) {
		return s.ledger.Load(ctx, key, v)
	}, userID)
	if err != nil {
		return nil, err
	}
	return view(m), nil
}

func view(m *adventure.Machine) *AdventureView {
	overview := m.Overview()
	locs := make([]LocationView, 0, len(overview))
	for _, loc := range overview {
		lv := LocationView{
			Location:   loc,
			State:      m.LocationState(loc.ID),
			NodeStates: make([]adventure.NodeState, len(loc.Nodes)),
		}
		for i := range loc.Nodes {
			lv.NodeStates[i] = m.NodeState(loc.ID, i)
		}
		locs = append(locs, lv)
	}
	return &AdventureView{
		State:     m.State(),
		Locations: locs,
		Artifacts: m.Artifacts(),
		Finished:  m.Finished(),
	}
}

// Roll applies a roll to the active mission. Dice outside 1..6 are rejected
// with ErrInvalidRoll. Once every location is cleared rolls are ignored and
// nothing is written.
func (s *AdventureService) Roll(ctx context.Context, userID int64, die1, die2 int) (*AdventureRoll, error) {
	if !validDice(die1, die2) {
		return nil, ErrInvalidRoll
	}

	res := &AdventureRoll{Die1: die1, Die2: die2}
	_, err := s.ledger.Transact(ctx, userID, func(tx *ledger.Tx) error {
		m, err := loadMachine(tx.Load, userID)
		if err != nil {
			return err
		}
		if m.Finished() {
			res.Finished = true
			return errUnchanged
		}

		res.Success = m.SubmitRoll(die1, die2)
		if am := m.State().ActiveMission; am != nil {
			snapshot := *am
			res.Mission = &snapshot
		}
		return tx.Stage(repository.ProgressionKey(userID), m.State())
	})
	if errors.Is(err, errUnchanged) {
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply adventure roll: %w", err)
	}

	metrics.Rolls.WithLabelValues("adventure").Inc()
	return res, nil
}

// Resolve completes the active mission once enough rolls succeeded. The
// mission's XP, crystals and luck points are credited in the same commit
// that advances the progression. An unready mission returns
// adventure.ErrMissionNotReady and writes nothing.
func (s *AdventureService) Resolve(ctx context.Context, userID int64) (*adventure.Resolution, *model.Profile, error) {
	var res adventure.Resolution
	p, err := s.ledger.Transact(ctx, userID, func(tx *ledger.Tx) error {
		m, err := loadMachine(tx.Load, userID)
		if err != nil {
			return err
		}
		res, err = m.ResolveMission()
		if err != nil {
			return err
		}

		p := tx.Profile
		p.XP += res.Rewards.XP
		p.Crystals += res.Rewards.Crystals
		if res.Rewards.Points > 0 {
			if err := ledger.Credit(p, res.Rewards.Points, model.ReasonMission, res.Mission.Title, tx.Now()); err != nil {
				return err
			}
		}
		return tx.Stage(repository.ProgressionKey(userID), m.State())
	})
	if err != nil {
		if errors.Is(err, adventure.ErrMissionNotReady) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to resolve mission: %w", err)
	}

	metrics.MissionsResolved.WithLabelValues(res.LocationID).Inc()
	metrics.LuckPointsAwarded.WithLabelValues(model.ReasonMission).Add(float64(res.Rewards.Points))
	log.Info().
		Int64("user_id", userID).
		Str("location", res.LocationID).
		Int("node", res.NodeIndex).
		Bool("finished", res.Finished).
		Msg("Mission resolved")
	return &res, p, nil
}

// Artifacts lists the artifact catalog with the player's collected flags.
func (s *AdventureService) Artifacts(ctx context.Context, userID int64) ([]model.Artifact, error) {
	v, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	return v.Artifacts, nil
}
