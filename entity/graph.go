package entity

import (
	"log/slog"

	"github.com/syssam/bridge"
	"github.com/syssam/bridge/dialect/sql/schema"
)

// Graph holds the entities of one model, in the order they were added.
type Graph struct {
	cfg      *config
	entities []*Entity
	names    map[string]*Entity
	tables   map[string]*Entity
}

// NewGraph returns an empty graph. The options apply to every entity
// added to it.
func NewGraph(opts ...Option) *Graph {
	return &Graph{
		cfg:    newConfig(opts),
		names:  make(map[string]*Entity),
		tables: make(map[string]*Entity),
	}
}

// Add builds the entity of the declaration and adds it to the graph.
// Entity names and table names must be unique in a graph.
func (g *Graph) Add(name string, s bridge.Interface) (*Entity, error) {
	if _, ok := g.names[name]; ok {
		return nil, bridge.NewSchemaError(name, "", "duplicate entity", nil)
	}
	e, err := newEntity(name, s, g.cfg)
	if err != nil {
		return nil, err
	}
	if other, ok := g.tables[e.table.Name]; ok {
		return nil, bridge.NewSchemaError(name, "", "table "+e.table.Name+" is already mapped by "+other.name, nil)
	}
	g.entities = append(g.entities, e)
	g.names[name] = e
	g.tables[e.table.Name] = e
	g.cfg.logger.Debug("entity added", slog.String("entity", name), slog.Int("entities", len(g.entities)))
	return e, nil
}

// Entity returns the entity with the given name.
func (g *Graph) Entity(name string) (*Entity, bool) {
	e, ok := g.names[name]
	return e, ok
}

// Entities returns the entities of the graph.
func (g *Graph) Entities() []*Entity {
	return g.entities
}

// Tables returns the tables of the graph entities.
func (g *Graph) Tables() []*schema.Table {
	tables := make([]*schema.Table, len(g.entities))
	for i, e := range g.entities {
		tables[i] = e.table
	}
	return tables
}
