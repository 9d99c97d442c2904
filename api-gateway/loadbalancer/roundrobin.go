package loadbalancer

import "sync/atomic"

// RoundRobin hands out backend instances in rotation. The instance list is
// fixed at construction; health filtering happens at the proxy layer, which
// simply advances past instances that refuse connections.
type RoundRobin struct {
	instances []string
	next      atomic.Uint64
}

// NewRoundRobin creates a balancer over the given instance URLs.
func NewRoundRobin(instances []string) *RoundRobin {
	return &RoundRobin{instances: instances}
}

// Next returns the next instance URL, or "" when the pool is empty.
func (rr *RoundRobin) Next() string {
	if len(rr.instances) == 0 {
		return ""
	}
	n := rr.next.Add(1) - 1
	return rr.instances[n%uint64(len(rr.instances))]
}

// Size returns the number of instances in the pool.
func (rr *RoundRobin) Size() int {
	return len(rr.instances)
}
