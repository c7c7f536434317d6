// Package config centralizes all tunable game parameters.
package config

import "time"

// Play field in logical units. Renderers scale it to their surface.
const (
	FieldWidth  = 480
	FieldHeight = 640
)

// Player
const (
	PlayerWidth          = 40
	PlayerHeight         = 40
	PlayerSpeed          = 5.0 // Units per step
	PlayerStartY         = FieldHeight - 60
	ShotCooldown         = 150 * time.Millisecond
	InvulnerableDuration = 2 * time.Second
	PlayerBlinkFrequency = 10.0 // Hz
	PlayerColor          = "#4dd2ff"
)

// Bullets
const (
	BulletWidth     = 4
	BulletHeight    = 12
	BulletSpeed     = 7.0 // Units per step
	BulletDrift     = 2.0 // Lateral units per step for diagonal shots
	BulletPairSpace = 8.0 // Horizontal offset of each bullet in the two-shot pattern
	BulletColor     = "#ffef5a"
)

// Continuous fire while the shoot input is held.
const FireRepeatInterval = 200 * time.Millisecond

// Enemies
const (
	SmallEnemySize  = 28
	MediumEnemySize = 40
	LargeEnemySize  = 56

	SmallEnemyColor  = "#ff4d4d"
	MediumEnemyColor = "#ffa64d"
	LargeEnemyColor  = "#b84dff"

	// Extra horizontal hit margin for small enemies.
	SmallEnemyHitMargin = 5.0

	// Enemy speeds are per fixed 60 Hz frame; movement scales by real delta.
	FrameRateScale = 60.0
)

// Scoring
const (
	ScoreSmallEnemy  = 10
	ScoreMediumEnemy = 20
	ScoreLargeEnemy  = 30
)

// Explosions
const (
	ExplosionDuration     = 500 * time.Millisecond
	ExplosionScale        = 1.5 // Explosion size relative to the destroyed enemy
	BombExplosionDuration = time.Second
	BombExplosionSize     = FieldWidth
	ExplosionColor        = "#ffb347"
)

// Difficulty curve
const (
	SpeedStepPerLevel = 0.1
	MediumSpeedFactor = 0.7
	LargeSpeedFactor  = 0.5

	SmallSpawnBase   = 1500 * time.Millisecond
	SmallSpawnStep   = 100 * time.Millisecond
	SmallSpawnFloor  = 500 * time.Millisecond
	MediumSpawnBase  = 3500 * time.Millisecond
	MediumSpawnStep  = 150 * time.Millisecond
	MediumSpawnFloor = 1200 * time.Millisecond
	LargeSpawnBase   = 5500 * time.Millisecond
	LargeSpawnStep   = 200 * time.Millisecond
	LargeSpawnFloor  = 2500 * time.Millisecond

	MediumUnlockLevel = 2
	LargeUnlockLevel  = 4
)

// Progression
const (
	BaseKillsRequired   = 15
	KillsPerLevel       = 8
	FinalLevel          = 15
	InfiniteStartLevel  = 16
	InfiniteKillStep    = 10   // Extra kills per level beyond FinalLevel
	InfiniteSpeedStep   = 0.05 // Extra speed scale per level beyond FinalLevel
	GameOverPointsRatio = 0.5  // Share of the run score converted to saved points
)

// Upgrade economy
const (
	MultiShotStartPrice = 300
	MultiShotPriceScale = 2
	MaxMultiShot        = 3

	StartingLives      = 3
	MaxLivesStartPrice = 500
	MaxLivesPriceScale = 1.5
	MaxLivesCap        = 7

	BombPrice = 1000
)

// Ending cinematic
const (
	CinematicPhases        = 5
	CinematicPhaseDuration = 2 * time.Second
	CinematicDuration      = CinematicPhases * CinematicPhaseDuration

	CruiseY         = FieldHeight * 0.4  // Player altitude while approaching the planet
	GroundRestY     = FieldHeight * 0.75 // Horizon line once the ground has risen
	BackdropMaxSize = FieldWidth * 0.8
	SilhouetteGap   = 24.0 // Distance between the two figures when they meet
)

// High scores
const (
	MaxHighScores = 10
)
