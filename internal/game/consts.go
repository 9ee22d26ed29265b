package game

const (
	SimHz        = 60.0 // logic ticks per second
	Dt           = 1.0 / SimHz
	UpdateRateHz = 20.0 // per-client WS state pushes
	FieldW       = 1440.0
	FieldH       = 900.0

	// Player tank
	MaxForwardSpeed  = 100.0 // units/s
	MaxReverseSpeed  = -100.0
	Friction         = 0.99
	TimeBetweenShots = 0.8 // seconds
	TurretRecentre   = 1.0 // degrees per tick

	// AI tank
	MaxSeeAhead    = 150.0
	MaxAvoidForce  = 50.0
	MaxForce       = 10.0
	AgentMaxSpeed  = 50.0
	AgentMaxHealth = 5
	AvoidanceBlend = 0.9

	// Projectiles
	PoolSize           = 10
	ProjectileMaxSpeed = 1000.0 // units/s
	ProjectileDamage   = 1

	// Walls
	WallSize        = 30.0
	ObstacleRadiusK = 1.5 // obstacle radius as a multiple of the wall width

	// Tank trail sent with each frame
	TrailSeconds = 2.0
	TrailStep    = 0.25
	TrailSamples = 8
)
