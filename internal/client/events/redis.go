package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/umerwe/school-frontend-sub001/internal/client/session"
	"github.com/umerwe/school-frontend-sub001/internal/logging"
)

const DefaultChannel = "school:signout"

// message is the wire form of a published event. Origin identifies the
// publishing notifier so a process can skip its own events.
type message struct {
	Origin string `json:"origin,omitempty"`
	session.SignOutEvent
}

// RedisNotifier publishes SignOutEvents as JSON on a Redis channel so other
// processes of the same user (a second terminal, a cache warmer) can drop
// their session state too.
type RedisNotifier struct {
	rdb     redis.UniversalClient
	channel string
	origin  string
}

func NewRedisNotifier(rdb redis.UniversalClient, channel string) *RedisNotifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisNotifier{rdb: rdb, channel: channel, origin: uuid.NewString()}
}

// Origin returns the ID stamped on every event this notifier publishes.
func (n *RedisNotifier) Origin() string {
	return n.origin
}

func (n *RedisNotifier) Notify(ctx context.Context, ev session.SignOutEvent) error {
	b, err := json.Marshal(message{Origin: n.origin, SignOutEvent: ev})
	if err != nil {
		return err
	}
	if err := n.rdb.Publish(ctx, n.channel, b).Err(); err != nil {
		return fmt.Errorf("publish sign-out: %w", err)
	}
	return nil
}

// RedisListener relays events received on a Redis channel to a local
// notifier, usually a Bus.
type RedisListener struct {
	rdb     redis.UniversalClient
	channel string
	target  session.Notifier
	log     logging.Logger
	ignore  string
}

func NewRedisListener(rdb redis.UniversalClient, channel string, target session.Notifier, log logging.Logger) *RedisListener {
	if channel == "" {
		channel = DefaultChannel
	}
	if log == nil {
		log = logging.Nop()
	}
	return &RedisListener{rdb: rdb, channel: channel, target: target, log: log}
}

// IgnoreOrigin drops events published by the notifier with this origin.
func (l *RedisListener) IgnoreOrigin(origin string) *RedisListener {
	l.ignore = origin
	return l
}

// Listen subscribes and relays messages until ctx is done. ready, when not
// nil, is closed once the subscription is confirmed by the server.
func (l *RedisListener) Listen(ctx context.Context, ready chan<- struct{}) error {
	ps := l.rdb.Subscribe(ctx, l.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", l.channel, err)
	}
	if ready != nil {
		close(ready)
	}

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var m message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				l.log.Warn(ctx, "dropping malformed sign-out message", "error", err)
				continue
			}
			if l.ignore != "" && m.Origin == l.ignore {
				continue
			}
			if err := l.target.Notify(ctx, m.SignOutEvent); err != nil {
				l.log.Warn(ctx, "relaying sign-out failed", "error", err)
			}
		}
	}
}
