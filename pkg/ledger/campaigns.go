package ledger

import (
	"math/big"
	"sync"
	"time"
)

// CampaignCache is an in-memory display cache of campaign snapshots.
// It exists so the UI can render campaign totals without a chain round trip;
// it is never consulted for validation, which always does a fresh chain read.
type CampaignCache struct {
	mu        sync.RWMutex
	snapshots map[int64]*CampaignSnapshot
}

// NewCampaignCache creates an empty cache.
func NewCampaignCache() *CampaignCache {
	return &CampaignCache{snapshots: make(map[int64]*CampaignSnapshot)}
}

// Put stores or replaces a snapshot, stamping RefreshedAt.
func (c *CampaignCache) Put(snapshot *CampaignSnapshot) {
	if snapshot == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *snapshot
	copied.RefreshedAt = time.Now()
	c.snapshots[copied.ID] = &copied
}

// Get returns the cached snapshot for id, or nil when absent.
func (c *CampaignCache) Get(id int64) *CampaignSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snapshot, ok := c.snapshots[id]
	if !ok {
		return nil
	}
	copied := *snapshot
	return &copied
}

// List returns all cached snapshots in unspecified order.
func (c *CampaignCache) List() []*CampaignSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*CampaignSnapshot, 0, len(c.snapshots))
	for _, snapshot := range c.snapshots {
		copied := *snapshot
		out = append(out, &copied)
	}
	return out
}

// ApplyDonation bumps the cached raised amount after a donation confirms,
// so the display catches up before the next full refresh. Unknown campaigns
// and unparseable amounts are ignored; the next Put will correct the cache.
func (c *CampaignCache) ApplyDonation(id int64, amountWei string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot, ok := c.snapshots[id]
	if !ok {
		return
	}
	raised, ok := new(big.Int).SetString(snapshot.RaisedWei, 10)
	if !ok {
		return
	}
	amount, ok := new(big.Int).SetString(amountWei, 10)
	if !ok {
		return
	}
	snapshot.RaisedWei = raised.Add(raised, amount).String()
}
