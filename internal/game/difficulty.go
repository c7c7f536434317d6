package game

import (
	"time"

	"github.com/tomz197/skyraid/internal/game/config"
	"github.com/tomz197/skyraid/internal/object"
)

// Difficulty is the per-level tuning table for enemies.
type Difficulty struct {
	Level         int
	SpeedScale    float64
	Speed         [object.EnemyTypeCount]float64
	SpawnInterval [object.EnemyTypeCount]time.Duration
	Health        [object.EnemyTypeCount]int
	KillsRequired int
}

// DifficultyFor derives the difficulty table for level. In infinite mode,
// levels past the final level get an extra speed and kill-count increment.
func DifficultyFor(level int, infinite bool) Difficulty {
	if level < 1 {
		level = 1
	}
	scale := SpeedScale(level, infinite)
	d := Difficulty{
		Level:         level,
		SpeedScale:    scale,
		KillsRequired: KillsRequired(level, infinite),
	}
	d.Speed[object.EnemySmall] = scale
	d.Speed[object.EnemyMedium] = config.MediumSpeedFactor * scale
	d.Speed[object.EnemyLarge] = config.LargeSpeedFactor * scale
	for _, t := range object.EnemyTypes {
		d.SpawnInterval[t] = SpawnInterval(t, level)
		d.Health[t] = Health(t, level)
	}
	return d
}

// SpeedScale returns the enemy speed multiplier for level.
func SpeedScale(level int, infinite bool) float64 {
	scale := 1 + config.SpeedStepPerLevel*float64(level-1)
	if infinite && level > config.FinalLevel {
		scale += config.InfiniteSpeedStep * float64(level-config.FinalLevel)
	}
	return scale
}

// KillsRequired returns how many kills complete level.
func KillsRequired(level int, infinite bool) int {
	n := config.BaseKillsRequired + config.KillsPerLevel*(level-1)
	if infinite && level > config.FinalLevel {
		n += config.InfiniteKillStep * (level - config.FinalLevel)
	}
	return n
}

// SpawnInterval returns the minimum time between two spawns of t at level.
// Intervals shrink linearly and never drop below the type's floor.
func SpawnInterval(t object.EnemyType, level int) time.Duration {
	var base, step, floor time.Duration
	switch t {
	case object.EnemyMedium:
		base, step, floor = config.MediumSpawnBase, config.MediumSpawnStep, config.MediumSpawnFloor
	case object.EnemyLarge:
		base, step, floor = config.LargeSpawnBase, config.LargeSpawnStep, config.LargeSpawnFloor
	default:
		base, step, floor = config.SmallSpawnBase, config.SmallSpawnStep, config.SmallSpawnFloor
	}
	return max(base-step*time.Duration(level-1), floor)
}

// Health returns the starting health of t at level.
func Health(t object.EnemyType, level int) int {
	switch t {
	case object.EnemyMedium:
		return 1 + (level-1)/2
	case object.EnemyLarge:
		return 2 + level/2
	default:
		return 1
	}
}

// Unlocked reports whether t can spawn at level.
func Unlocked(t object.EnemyType, level int) bool {
	switch t {
	case object.EnemyMedium:
		return level >= config.MediumUnlockLevel
	case object.EnemyLarge:
		return level >= config.LargeUnlockLevel
	default:
		return true
	}
}
