package game

// Snapshot is the tank pose at match time T.
type Snapshot struct {
	T        float64 `json:"t"`
	Pos      Vec2    `json:"pos"`
	Rotation float64 `json:"rotation"`
}

// History is a fixed-size ring of snapshots, newest at head-1.
type History struct {
	buf   []Snapshot
	head  int
	size  int
	limit int
}

func NewHistory(seconds, hz float64) *History {
	n := int(seconds*hz) + 4
	return &History{buf: make([]Snapshot, n), limit: n}
}

func (h *History) Push(s Snapshot) {
	h.buf[h.head] = s
	h.head = (h.head + 1) % h.limit
	if h.size < h.limit {
		h.size++
	}
}

func (h *History) Len() int { return h.size }

func (h *History) Clear() {
	h.head = 0
	h.size = 0
}

// At interpolates the pose at time t, clamping to the oldest and newest
// entries.
func (h *History) At(t float64) (Snapshot, bool) {
	if h.size == 0 {
		return Snapshot{}, false
	}
	after, before := -1, -1
	var sAfter, sBefore Snapshot
	for i := 0; i < h.size; i++ {
		idx := (h.head - 1 - i + h.limit) % h.limit
		s := h.buf[idx]
		if s.T >= t {
			sAfter = s
			after = idx
		}
		if s.T <= t {
			sBefore = s
			before = idx
			break
		}
	}
	if before == -1 {
		return h.buf[(h.head-h.size+h.limit)%h.limit], true
	}
	if after == -1 {
		return h.buf[(h.head-1+h.limit)%h.limit], true
	}
	if sAfter.T == sBefore.T {
		return sBefore, true
	}
	alpha := (t - sBefore.T) / (sAfter.T - sBefore.T)
	return Snapshot{
		T:        t,
		Pos:      LerpVec(sBefore.Pos, sAfter.Pos, alpha),
		Rotation: NormalizeDegrees(sBefore.Rotation + alpha*angleDelta(sBefore.Rotation, sAfter.Rotation)),
	}, true
}

// Trail samples n poses spaced step seconds apart, ending at now.
func (h *History) Trail(now, step float64, n int) []Vec2 {
	if h.size == 0 || n <= 0 {
		return nil
	}
	out := make([]Vec2, 0, n)
	for i := n - 1; i >= 0; i-- {
		s, _ := h.At(now - float64(i)*step)
		out = append(out, s.Pos)
	}
	return out
}
