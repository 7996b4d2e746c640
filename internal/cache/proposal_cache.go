// Package cache holds the timetable generator's un-committed-proposal
// store: a generated timetable is held here under a UUID proposal id
// until Save persists it, or the TTL expires and it is discarded.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProposalRow is one rendered (day, session) cell belonging to a cached
// proposal, independent of the engine's internal Grid representation.
type ProposalRow struct {
	DayOfWeek     int     `json:"dayOfWeek"`
	SessionNumber int     `json:"sessionNumber"`
	Label         string  `json:"label"`
	SubjectCode   *string `json:"subjectCode,omitempty"`
}

// Proposal is a generated-but-not-yet-saved timetable.
type Proposal struct {
	ID         string        `json:"id"`
	Department string        `json:"department"`
	Semester   string        `json:"semester"`
	Rows       []ProposalRow `json:"rows"`
	Warnings   []string      `json:"warnings,omitempty"`
	Violations []string      `json:"violations,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// ProposalCache stores proposals for a bounded TTL, keyed by ID.
type ProposalCache interface {
	Save(ctx context.Context, ttl time.Duration, proposal Proposal) error
	Get(ctx context.Context, id string) (Proposal, bool, error)
	Delete(ctx context.Context, id string) error
}

// memoryProposalCache is the default, in-process implementation --
// a straight generalisation of the teacher's proposalStore (RWMutex +
// map + lazy TTL check on Get).
type memoryProposalCache struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
}

type memoryEntry struct {
	proposal  Proposal
	expiresAt time.Time
}

// NewMemoryProposalCache builds the in-process cache implementation.
func NewMemoryProposalCache() ProposalCache {
	return &memoryProposalCache{items: make(map[string]memoryEntry)}
}

func (c *memoryProposalCache) Save(_ context.Context, ttl time.Duration, proposal Proposal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[proposal.ID] = memoryEntry{proposal: proposal, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *memoryProposalCache) Get(_ context.Context, id string) (Proposal, bool, error) {
	c.mu.RLock()
	entry, ok := c.items[id]
	c.mu.RUnlock()
	if !ok {
		return Proposal{}, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.items, id)
		c.mu.Unlock()
		return Proposal{}, false, nil
	}
	return entry.proposal, true, nil
}

func (c *memoryProposalCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	delete(c.items, id)
	c.mu.Unlock()
	return nil
}

// redisProposalCache backs the same interface with a shared Redis
// instance, for deployments running more than one generator replica.
type redisProposalCache struct {
	client *redis.Client
	prefix string
}

// NewRedisProposalCache builds the Redis-backed cache implementation.
func NewRedisProposalCache(client *redis.Client) ProposalCache {
	return &redisProposalCache{client: client, prefix: "timetable:proposal:"}
}

func (c *redisProposalCache) key(id string) string {
	return c.prefix + id
}

func (c *redisProposalCache) Save(ctx context.Context, ttl time.Duration, proposal Proposal) error {
	payload, err := json.Marshal(proposal)
	if err != nil {
		return fmt.Errorf("encode proposal: %w", err)
	}
	if err := c.client.Set(ctx, c.key(proposal.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache proposal: %w", err)
	}
	return nil
}

func (c *redisProposalCache) Get(ctx context.Context, id string) (Proposal, bool, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return Proposal{}, false, nil
	}
	if err != nil {
		return Proposal{}, false, fmt.Errorf("load proposal: %w", err)
	}
	var proposal Proposal
	if err := json.Unmarshal(raw, &proposal); err != nil {
		return Proposal{}, false, fmt.Errorf("decode proposal: %w", err)
	}
	return proposal, true, nil
}

func (c *redisProposalCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}
	return nil
}
