package wikiparser

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/botfabrik/dialog-backend/internal/kbqa"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
	"github.com/botfabrik/dialog-backend/internal/platform/neo4jdb"
)

// Neo4jParser answers "find relations" queries against a local graph store
// instead of the HTTP collaborator. Entities are (:Entity {id}) nodes and
// statements are [:REL {id}] relationships.
type Neo4jParser struct {
	log    *logger.Logger
	client *neo4jdb.Client
}

func NewNeo4jParser(log *logger.Logger, client *neo4jdb.Client) (*Neo4jParser, error) {
	if client == nil {
		return nil, fmt.Errorf("wiki parser: neo4j client required")
	}
	return &Neo4jParser{
		log:    log.With("client", "Neo4jWikiParser"),
		client: client,
	}, nil
}

const (
	forwRelsCypher  = `MATCH (e:Entity {id: $entity})-[r:REL]->() RETURN DISTINCT r.id AS rel`
	backwRelsCypher = `MATCH ()-[r:REL]->(e:Entity {id: $entity}) RETURN DISTINCT r.id AS rel`
)

func (p *Neo4jParser) FindRels(ctx context.Context, queries []kbqa.RelQuery) ([]string, error) {
	session := p.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: p.client.Database,
	})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		var rels []string
		for _, q := range queries {
			cypher := forwRelsCypher
			if q.Direction == "backw" {
				cypher = backwRelsCypher
			}
			res, err := tx.Run(ctx, cypher, map[string]any{"entity": q.Entity})
			if err != nil {
				return nil, err
			}
			records, err := res.Collect(ctx)
			if err != nil {
				return nil, err
			}
			for _, rec := range records {
				if v, ok := rec.Get("rel"); ok {
					if rel, ok := v.(string); ok && rel != "" {
						rels = append(rels, rel)
					}
				}
			}
		}
		return rels, nil
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j find rels: %w", err)
	}
	rels, _ := out.([]string)
	return rels, nil
}
