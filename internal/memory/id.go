package memory

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// IDGenerator hands out unique item IDs.
type IDGenerator struct {
	node *snowflake.Node
}

// NewIDGenerator creates a generator for the given node number (0-1023).
func NewIDGenerator(nodeID int64) (*IDGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake.NewNode(%d) > %w", nodeID, err)
	}
	return &IDGenerator{node: node}, nil
}

func (g *IDGenerator) Next() int64 {
	return g.node.Generate().Int64()
}
