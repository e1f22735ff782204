// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	EndsPerRound int
	ShotsPerEnd  int
	Rings        int
	TargetRadius float64
	RecordMisses bool
	AutoAdvance  bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Shot is a single arrow. X and Y are offsets from the target centre scaled to
// the target radius; Score is assigned once when the shot is created.
type Shot struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score int     `json:"score"`
}

// End is an ordered batch of shots. EndScore and Precision are derived from
// Shots and are only ever produced by stats.BuildEnd.
type End struct {
	Shots     []Shot  `json:"shots"`
	EndScore  int     `json:"endScore"`
	Precision float64 `json:"precision"`
}

// Round is a completed practice session.
type Round struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Ends         []End     `json:"ends"`
	TotalScore   int       `json:"totalScore"`
	Notes        string    `json:"notes,omitempty"`
	TargetRadius float64   `json:"targetRadius"`
}

// AggregateStats summarizes a set of rounds.
type AggregateStats struct {
	RoundCount   int
	ShotCount    int
	TotalScore   int
	BestRound    int
	AvgScore     float64
	AvgDistance  float64
	Missed       int
	AvgPrecision float64
}

// RoundSummary is one exported row per round.
type RoundSummary struct {
	RoundID      string
	Number       int
	Date         time.Time
	TotalScore   int
	EndCount     int
	AvgPerEnd    float64
	BestEnd      int
	AvgPrecision float64
	Notes        string
}
