package handler

import (
	"log/slog"
	"sync"
	"time"

	authhandler "github.com/AnthoniusHendriyanto/post-service/internal/auth/handler"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	HeaderCache = "X-Cache"
	cacheHit    = "HIT"
	cacheMiss   = "MISS"
)

type cacheKey struct {
	operation string
	userID    string
	page      string
	pageSize  string
}

type cachedResponse struct {
	contentType string
	body        []byte
}

// ResponseCache keeps successful read responses per user for a short while.
// Entries are bounded in number and expire after the TTL.
type ResponseCache struct {
	lru *expirable.LRU[cacheKey, cachedResponse]
	log *slog.Logger

	mu sync.Mutex
	// generations is bumped by InvalidateUser. A response computed under an
	// older generation is not stored.
	generations map[string]uint64
}

func NewResponseCache(size int, ttl time.Duration, log *slog.Logger) *ResponseCache {
	return &ResponseCache{
		lru: expirable.NewLRU[cacheKey, cachedResponse](size, nil, ttl),
		log: log.With(slog.String("component", "response_cache")),

		generations: make(map[string]uint64),
	}
}

// Middleware serves a cached response for the caller when one exists and
// stores the handler's response when it is a 200. It must run behind the
// authentication gate.
func (rc *ResponseCache) Middleware(operation string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := authhandler.CurrentUserID(c)
		if !ok {
			return c.Next()
		}

		// Query values alias the request buffer; copy before keeping them.
		key := cacheKey{
			operation: operation,
			userID:    utils.CopyString(userID),
			page:      utils.CopyString(c.Query("page_num", "1")),
			pageSize:  utils.CopyString(c.Query("page_size", "20")),
		}

		if cached, ok := rc.lru.Get(key); ok {
			c.Set(HeaderCache, cacheHit)
			c.Set(fiber.HeaderContentType, cached.contentType)
			return c.Status(fiber.StatusOK).Send(cached.body)
		}

		gen := rc.generation(key.userID)
		if err := c.Next(); err != nil {
			return err
		}

		c.Set(HeaderCache, cacheMiss)
		if c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}

		// fasthttp reuses the response buffer, so keep a copy.
		entry := cachedResponse{
			contentType: string(c.Response().Header.ContentType()),
			body:        append([]byte(nil), c.Response().Body()...),
		}

		rc.mu.Lock()
		defer rc.mu.Unlock()
		if rc.generations[key.userID] != gen {
			// Invalidated while the handler ran.
			return nil
		}
		rc.lru.Add(key, entry)
		rc.log.Debug("cached response", slog.String("operation", operation), slog.String("user_id", userID))
		return nil
	}
}

// InvalidateUser drops every entry for userID.
func (rc *ResponseCache) InvalidateUser(userID string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.generations[userID]++
	for _, key := range rc.lru.Keys() {
		if key.userID == userID {
			rc.lru.Remove(key)
		}
	}
}

func (rc *ResponseCache) generation(userID string) uint64 {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.generations[userID]
}

func (rc *ResponseCache) Len() int {
	return rc.lru.Len()
}
