// Package snowflake issues conversation ids. The node identity comes from
// configuration when set, otherwise from a hash of the hostname.
package snowflake

import (
	"hash/fnv"
	"os"
	"sync"

	"github.com/bwmarrin/snowflake"
)

const nodeMask = 0x3FF // 10 bits of node id

var (
	mu   sync.Mutex
	node *snowflake.Node
)

// SetNodeID pins the node id (0-1023). Call at bootstrap, before the first
// Next, so ids from concurrent replicas cannot collide.
func SetNodeID(id int64) error {
	n, err := snowflake.NewNode(id & nodeMask)
	if err != nil {
		return err
	}
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

// Next returns a fresh id, deriving the node from the hostname when no node
// id was configured.
func Next() int64 {
	mu.Lock()
	if node == nil {
		node = hostnameNode()
	}
	n := node
	mu.Unlock()
	return n.Generate().Int64()
}

func hostnameNode() *snowflake.Node {
	host, _ := os.Hostname()
	h := fnv.New32a()
	_, _ = h.Write([]byte(host))

	n, err := snowflake.NewNode(int64(h.Sum32()) & nodeMask)
	if err != nil {
		n, _ = snowflake.NewNode(1)
	}
	return n
}
