package client

import (
	"sync"

	"github.com/google/uuid"

	"github.com/smartgoals/smartgoals-api/internal/models"
	"github.com/smartgoals/smartgoals-api/internal/progress"
)

// Store is an in-memory snapshot of the user's goals, safe for use from
// multiple goroutines. Reads return copies so callers can't mutate the
// store behind its lock.
type Store struct {
	mu         sync.RWMutex
	goals      map[uuid.UUID]*models.Goal
	order      []uuid.UUID
	activities []models.Activity
	stats      *Stats
	loading    bool
}

func NewStore() *Store {
	return &Store{goals: make(map[uuid.UUID]*models.Goal)}
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// ReplaceAll swaps the whole goal set, preserving server order.
func (s *Store) ReplaceAll(goals []models.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = make(map[uuid.UUID]*models.Goal, len(goals))
	s.order = s.order[:0]
	for i := range goals {
		g := cloneGoal(&goals[i])
		s.goals[g.ID] = g
		s.order = append(s.order, g.ID)
	}
}

// Put inserts or replaces a single goal.
func (s *Store) Put(goal *models.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[goal.ID]; !ok {
		s.order = append(s.order, goal.ID)
	}
	s.goals[goal.ID] = cloneGoal(goal)
}

// Goal returns a copy of one goal.
func (s *Store) Goal(id uuid.UUID) (models.Goal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[id]
	if !ok {
		return models.Goal{}, false
	}
	return *cloneGoal(g), true
}

// Goals returns copies of every goal in server order.
func (s *Store) Goals() []models.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Goal, 0, len(s.order))
	for _, id := range s.order {
		if g, ok := s.goals[id]; ok {
			out = append(out, *cloneGoal(g))
		}
	}
	return out
}

// Remove drops a goal from the store.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.goals, id)
	for i, gid := range s.order {
		if gid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// toggleTask flips a task's completed flag and recomputes the weekly and
// goal progress locally, so the UI updates before the server answers.
// Returns the pre-toggle goal for rollback and the new completed state.
func (s *Store) toggleTask(goalID, taskID uuid.UUID) (snapshot *models.Goal, completed bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, found := s.goals[goalID]
	if !found {
		return nil, false, false
	}
	snapshot = cloneGoal(g)

	for wi := range g.WeeklyGoals {
		week := &g.WeeklyGoals[wi]
		for ti := range week.Tasks {
			task := &week.Tasks[ti]
			if task.ID != taskID {
				continue
			}
			task.Completed = !task.Completed
			completed = task.Completed

			week.Progress = progress.WeeklyGoalProgress(week.Tasks)
			week.Status = progress.DeriveStatus(float64(week.Progress), models.WeeklyStatusPending)
			g.Progress = progress.GoalProgress(g.WeeklyGoals)
			g.Status = progress.DeriveGoalStatus(g.Progress, g.Status)
			return snapshot, completed, true
		}
	}
	return nil, false, false
}

// restore puts a rollback snapshot back in place.
func (s *Store) restore(goal *models.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[goal.ID]; ok {
		s.goals[goal.ID] = cloneGoal(goal)
	}
}

// Activities returns the cached activity feed.
func (s *Store) Activities() []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

func (s *Store) setActivities(activities []models.Activity) {
	s.mu.Lock()
	s.activities = activities
	s.mu.Unlock()
}

// Stats returns the cached dashboard numbers, nil before the first fetch.
func (s *Store) Stats() *Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stats == nil {
		return nil
	}
	c := *s.stats
	return &c
}

func (s *Store) setStats(stats *Stats) {
	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
}

func cloneGoal(g *models.Goal) *models.Goal {
	c := *g
	c.WeeklyGoals = make([]models.WeeklyGoal, len(g.WeeklyGoals))
	for i, w := range g.WeeklyGoals {
		cw := w
		cw.Tasks = make([]models.DailyTask, len(w.Tasks))
		copy(cw.Tasks, w.Tasks)
		c.WeeklyGoals[i] = cw
	}
	return &c
}
