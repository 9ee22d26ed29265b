package game

// Damageable is the single capability projectile and contact logic need
// from whatever they hit.
type Damageable interface {
	ApplyDamage(amount int)
}

// DamageFunc adapts a plain function to Damageable.
type DamageFunc func(amount int)

func (f DamageFunc) ApplyDamage(amount int) { f(amount) }

var projectileRect = Vec2{X: 24, Y: 10}

// Projectile is one slot of a ProjectilePool. A slot is in flight exactly
// while its speed equals ProjectileMaxSpeed.
type Projectile struct {
	Pos      Vec2
	Rotation float64
	Speed    float64
	Damage   int
	Texture  Texture
}

func (p *Projectile) Active() bool { return p.Speed == ProjectileMaxSpeed }

func (p *Projectile) Deactivate() { p.Speed = 0 }

func (p *Projectile) Region() Region {
	return Region{
		Pos:      p.Pos,
		Size:     projectileRect,
		Origin:   projectileRect.Scale(0.5),
		Rotation: p.Rotation,
	}
}

func (p *Projectile) init(tex Texture, x, y, rotation float64) {
	p.Texture = tex
	p.Pos = Vec2{X: x, Y: y}
	p.Rotation = NormalizeDegrees(rotation)
	p.Speed = ProjectileMaxSpeed
	p.Damage = ProjectileDamage
}

func onField(pos Vec2, field Vec2) bool {
	hw, hh := projectileRect.X/2, projectileRect.Y/2
	return pos.X-hw > 0 && pos.X+hw < field.X &&
		pos.Y-hh > 0 && pos.Y+hh < field.Y
}

// PoolStats counts pool activity since construction.
type PoolStats struct {
	Fired      int
	Recycled   int // in-flight slots overwritten by Create on a full pool
	TargetHits int
	WallHits   int
	LeftField  int
}

// ProjectilePool is a fixed ring of projectile slots. Create never fails: on a
// saturated pool it overwrites the next slot in sequence.
type ProjectilePool struct {
	slots         [PoolSize]Projectile
	nextAvailable int
	full          bool
	field         Vec2
	Stats         PoolStats
}

func NewProjectilePool(fieldW, fieldH float64) *ProjectilePool {
	return &ProjectilePool{field: Vec2{X: fieldW, Y: fieldH}}
}

// Create launches a projectile from (x, y) heading rotation degrees.
func (pp *ProjectilePool) Create(tex Texture, x, y, rotation float64) {
	if pp.full {
		pp.nextAvailable = (pp.nextAvailable + 1) % PoolSize
	}
	slot := &pp.slots[pp.nextAvailable%PoolSize]
	if slot.Active() {
		pp.Stats.Recycled++
	}
	slot.init(tex, x, y, rotation)
	pp.Stats.Fired++
}

// Update moves every in-flight projectile and retires the ones that hit the
// target, a wall, or leave the play field. victim receives one ApplyDamage
// call per projectile overlapping target this tick.
func (pp *ProjectilePool) Update(dt float64, walls []Region, target Region, victim Damageable) {
	if dt <= 0 {
		return
	}
	active := 0
	pp.full = false
	for i := range pp.slots {
		if pp.advance(&pp.slots[i], dt, walls, target, victim) {
			active++
		} else {
			pp.nextAvailable = i
		}
	}
	if active == PoolSize {
		pp.full = true
	}
}

func (pp *ProjectilePool) advance(p *Projectile, dt float64, walls []Region, target Region, victim Damageable) bool {
	if !p.Active() {
		return false
	}
	p.Pos = p.Pos.Add(Heading(p.Rotation).Scale(p.Speed * dt))

	if Collision(target, p.Region()) {
		if victim != nil {
			victim.ApplyDamage(p.Damage)
		}
		pp.Stats.TargetHits++
		p.Deactivate()
	}

	if !onField(p.Pos, pp.field) {
		if p.Active() {
			pp.Stats.LeftField++
		}
		p.Deactivate()
	} else if p.Active() {
		for _, w := range walls {
			if Collision(p.Region(), w) {
				pp.Stats.WallHits++
				p.Deactivate()
				break
			}
		}
	}
	return p.Active()
}

// Render draws in-flight slots only.
func (pp *ProjectilePool) Render(s Surface) {
	for i := range pp.slots {
		p := &pp.slots[i]
		if !p.Active() {
			continue
		}
		sp := regionSprite(SpriteProjectile, p.Texture, p.Region())
		sp.Color = "red"
		s.Draw(sp)
	}
}

// Projectiles exposes the slots for hit queries; callers may Deactivate them.
func (pp *ProjectilePool) Projectiles() []Projectile { return pp.slots[:] }

func (pp *ProjectilePool) ActiveCount() int {
	n := 0
	for i := range pp.slots {
		if pp.slots[i].Active() {
			n++
		}
	}
	return n
}

func (pp *ProjectilePool) Full() bool { return pp.full }

func (pp *ProjectilePool) NextAvailable() int { return pp.nextAvailable }

// Reset idles every slot.
func (pp *ProjectilePool) Reset() {
	for i := range pp.slots {
		pp.slots[i].Deactivate()
	}
	pp.nextAvailable = 0
	pp.full = false
}
