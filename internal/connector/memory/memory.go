package memory

import (
	"context"
	"fmt"

	"submitmgr/internal/connector"
)

// MemoryRegistry is a fixed, in-process Registry backed by a map. It exists
// for tests and the demo binary; a real deployment supplies its own
// Registry backed by the connector framework's discovery mechanism.
type MemoryRegistry struct {
	connectors map[int64]connector.Connector
}

// NewMemoryRegistry builds a MemoryRegistry seeded with the given
// connectors, keyed by their ID field.
func NewMemoryRegistry(connectors ...connector.Connector) *MemoryRegistry {
	m := &MemoryRegistry{connectors: make(map[int64]connector.Connector, len(connectors))}
	for _, c := range connectors {
		m.connectors[c.ID] = c
	}
	return m
}

func (m *MemoryRegistry) GetConnector(_ context.Context, connectorID int64) (connector.Connector, error) {
	c, ok := m.connectors[connectorID]
	if !ok {
		return connector.Connector{}, fmt.Errorf("connector: unknown connector id %d", connectorID)
	}
	return c, nil
}
