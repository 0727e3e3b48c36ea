package snowflake

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

func init() {
	n := int64(1)
	if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			n = parsed
		}
	}
	var err error
	node, err = snowflake.NewNode(n)
	if err != nil {
		// Out-of-range node number from the environment
		node, _ = snowflake.NewNode(1)
	}
}

// GenMessageID returns a new unique message ID.
func GenMessageID() int64 {
	return node.Generate().Int64()
}

// GenID returns a new unique ID.
func GenID() int64 {
	return node.Generate().Int64()
}
