package engine

// GoalKind distinguishes why a goal is suspended.
type GoalKind byte

const (
	// GoalDelayed is an ordinary goal whose evaluation was postponed.
	GoalDelayed GoalKind = iota

	// GoalConstraint is a declared constraint.
	GoalConstraint

	goalKindLen
)

func (k GoalKind) String() string {
	return [goalKindLen]string{
		GoalDelayed:    "delayed",
		GoalConstraint: "constraint",
	}[k]
}

// StuckGoal is a goal suspended on one or more cells. It becomes eligible
// to resume when a blocker is instantiated; the resumption policy belongs
// to the resolution loop, the store only maintains the attachments.
type StuckGoal struct {
	Kind     GoalKind
	Goal     Term
	Blockers []Ref
	Depth    int
	Env      []Term
}

type cell struct {
	// binding is nil while the cell is unbound.
	binding Term
	stuck   []int
}

type trailEntry struct {
	ref  Ref
	prev Term
}

// Store is an arena of attributed cells plus the trail that undoes
// bindings on backtracking. Cells are addressed by Ref, stuck goals by
// the index they were suspended at, so neither holds pointers into the
// other.
type Store struct {
	cells   []cell
	goals   []StuckGoal
	trail   []trailEntry
	pending []int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// NewCell allocates an unbound cell.
func (s *Store) NewCell() Ref {
	s.cells = append(s.cells, cell{})
	return Ref(len(s.cells) - 1)
}

// Value returns the binding of the cell, or nil while it is unbound.
func (s *Store) Value(r Ref) Term {
	return s.cells[r].binding
}

// Bind sets the cell's binding and records the previous value on the
// trail. Within a resolution branch a binding is never reset; only Undo
// moves a cell back to unbound. Goals stuck on the cell become pending.
func (s *Store) Bind(r Ref, t Term) {
	c := &s.cells[r]
	s.trail = append(s.trail, trailEntry{ref: r, prev: c.binding})
	c.binding = t
	s.pending = append(s.pending, c.stuck...)
}

// Mark returns a choice-point marker for Undo.
func (s *Store) Mark() int {
	return len(s.trail)
}

// Undo rolls bindings back to the marker by replaying the trail.
func (s *Store) Undo(mark int) {
	for i := len(s.trail) - 1; i >= mark; i-- {
		e := s.trail[i]
		s.cells[e.ref].binding = e.prev
	}
	s.trail = s.trail[:mark]
}

// Suspend registers a stuck goal against each of its blockers and returns
// its ID. The goal appears in the stuck list of every blocker and of no
// other cell.
func (s *Store) Suspend(g StuckGoal) int {
	id := len(s.goals)
	s.goals = append(s.goals, g)
	for _, r := range g.Blockers {
		c := &s.cells[r]
		c.stuck = append(c.stuck, id)
	}
	return id
}

// Goal returns the suspended goal with the given ID.
func (s *Store) Goal(id int) StuckGoal {
	return s.goals[id]
}

// StuckOn returns the IDs of the goals currently attached to the cell.
func (s *Store) StuckOn(r Ref) []int {
	ids := make([]int, len(s.cells[r].stuck))
	copy(ids, s.cells[r].stuck)
	return ids
}

// ClearStuck atomically replaces the cell's stuck list with nothing and
// returns what was attached. Other blockers of the same goals keep their
// attachments.
func (s *Store) ClearStuck(r Ref) []int {
	c := &s.cells[r]
	ids := c.stuck
	c.stuck = nil
	return ids
}

// Detach removes the goal from the stuck lists of all its blockers,
// typically right before the loop reschedules it.
func (s *Store) Detach(id int) {
	for _, r := range s.goals[id].Blockers {
		c := &s.cells[r]
		for i := range c.stuck {
			if c.stuck[i] == id {
				c.stuck = append(c.stuck[:i:i], c.stuck[i+1:]...)
				break
			}
		}
	}
}

// Woken drains the IDs of goals whose blockers were bound since the last
// call. The caller decides whether and in what order to resume them.
func (s *Store) Woken() []int {
	ids := s.pending
	s.pending = nil
	return ids
}
