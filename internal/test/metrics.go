package test

import "sync"

// Observation is one recorded transition attempt.
type Observation struct {
	StateType string
	Outcome   string
}

// MetricsStub records observations in memory.
type MetricsStub struct {
	mu           sync.Mutex
	Transitions  []Observation
	CreatedCount int
}

func (m *MetricsStub) ObserveTransition(stateType, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transitions = append(m.Transitions, Observation{StateType: stateType, Outcome: outcome})
}

func (m *MetricsStub) ObserveCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatedCount++
}

// Last returns the most recent transition observation.
func (m *MetricsStub) Last() (Observation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Transitions) == 0 {
		return Observation{}, false
	}
	return m.Transitions[len(m.Transitions)-1], true
}
