// Package metrics declares the Prometheus collectors of the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Rolls ──────────────────────────────────────────────────────────────────

// Rolls counts accepted dice rolls by mode (classic, adventure).
var Rolls = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "luckydice",
	Subsystem: "game",
	Name:      "rolls_total",
	Help:      "Total dice rolls accepted, by mode.",
}, []string{"mode"})

// ChallengeClaims counts claim attempts by result (paid, duplicate).
var ChallengeClaims = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "luckydice",
	Subsystem: "challenge",
	Name:      "claims_total",
	Help:      "Daily challenge claim attempts, by result.",
}, []string{"result"})

// LuckPointsAwarded sums luck points credited, by ledger reason.
var LuckPointsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "luckydice",
	Subsystem: "ledger",
	Name:      "points_awarded_total",
	Help:      "Luck points credited to profiles, by reason.",
}, []string{"reason"})

// ─── Adventure ──────────────────────────────────────────────────────────────

// MissionsResolved counts resolved missions by location.
var MissionsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "luckydice",
	Subsystem: "adventure",
	Name:      "missions_resolved_total",
	Help:      "Adventure missions resolved, by location.",
}, []string{"location"})

// ─── Shop ───────────────────────────────────────────────────────────────────

// ShopPurchases counts purchases by item.
var ShopPurchases = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "luckydice",
	Subsystem: "shop",
	Name:      "purchases_total",
	Help:      "Cosmetic items unlocked, by item.",
}, []string{"item"})

// ─── Storage ────────────────────────────────────────────────────────────────

// CorruptSnapshots counts persisted documents that could not be parsed and
// were replaced by defaults, by document kind.
var CorruptSnapshots = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "luckydice",
	Subsystem: "storage",
	Name:      "corrupt_snapshots_total",
	Help:      "Persisted snapshots discarded as unreadable, by document kind.",
}, []string{"doc"})

// RepairedSnapshots counts snapshots that parsed but had to be repaired.
var RepairedSnapshots = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "luckydice",
	Subsystem: "storage",
	Name:      "repaired_snapshots_total",
	Help:      "Persisted snapshots repaired after load, by document kind.",
}, []string{"doc"})
