package persistence

import "taskctl/internal/logging"

// Memory is the default, memory-only Persistence adapter (§4.6). It never
// talks to durable storage; Load and Commit are no-ops that log a loud
// warning, mirroring the original StatePersistence default implementation.
type Memory struct {
	log   logging.Sink
	cache map[string]map[string]any
}

// NewMemory creates a memory-only Persistence adapter.
func NewMemory(log logging.Sink) *Memory {
	if log == nil {
		log = logging.NewNoop()
	}
	return &Memory{log: log, cache: map[string]map[string]any{}}
}

func (m *Memory) Load(onFailure OnFailure) bool {
	m.log.Warn("persistence.Memory.Load: NOT IMPLEMENTED, state is memory-only and will not survive process restart")
	return true
}

func (m *Memory) Get(key string, refreshIfMissing bool) map[string]any {
	v, ok := m.cache[key]
	if !ok {
		return map[string]any{}
	}
	return deepCopyMap(v)
}

func (m *Memory) UpdateObjectState(key string, value map[string]any) {
	m.cache[key] = deepCopyMap(value)
}

func (m *Memory) Commit(onFailure OnFailure) bool {
	m.log.Warn("persistence.Memory.Commit: NOT IMPLEMENTED, state is memory-only and will not survive process restart")
	return true
}
