package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// AvailabilityKeyPrefix namespaces cached slot listings per doctor and day.
	AvailabilityKeyPrefix = "availability:"

	// Cached availability goes stale the moment a slot is taken elsewhere, so
	// the TTL is kept short. The conflict guard and the database index stay
	// authoritative; the cache only absorbs read traffic.
	availabilityTTL = 60 * time.Second
)

// AvailabilityCache is a read-through Redis cache for resolved slot listings.
// Every cache failure degrades to a miss: availability must stay servable
// when Redis is down.
type AvailabilityCache struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewAvailabilityCache(client *redis.Client, log *logrus.Logger) *AvailabilityCache {
	return &AvailabilityCache{client: client, log: log}
}

func availabilityKey(doctorID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s%s:%s", AvailabilityKeyPrefix, doctorID.String(), day.Format("2006-01-02"))
}

// Get returns the cached slots for the doctor and day, and whether the cache
// held an entry.
func (c *AvailabilityCache) Get(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]entity.Slot, bool) {
	data, err := c.client.Get(ctx, availabilityKey(doctorID, day)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warnf("Failed to read availability cache: %+v", err)
		}
		return nil, false
	}

	var slots []entity.Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		c.log.Warnf("Failed to decode availability cache entry: %+v", err)
		return nil, false
	}
	return slots, true
}

func (c *AvailabilityCache) Set(ctx context.Context, doctorID uuid.UUID, day time.Time, slots []entity.Slot) {
	data, err := json.Marshal(slots)
	if err != nil {
		c.log.Warnf("Failed to encode availability cache entry: %+v", err)
		return
	}
	if err := c.client.Set(ctx, availabilityKey(doctorID, day), data, availabilityTTL).Err(); err != nil {
		c.log.Warnf("Failed to write availability cache: %+v", err)
	}
}

// Invalidate drops the cached listing for the day the timestamp falls on.
// Called after any transition that assigns or releases a slot.
func (c *AvailabilityCache) Invalidate(ctx context.Context, doctorID uuid.UUID, at time.Time) {
	if err := c.client.Del(ctx, availabilityKey(doctorID, at)).Err(); err != nil {
		c.log.Warnf("Failed to invalidate availability cache: %+v", err)
	}
}
