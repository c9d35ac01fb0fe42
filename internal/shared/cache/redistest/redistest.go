// Package redistest provides an in-memory Redis for tests. It answers the
// commands the cache and rate limiter issue through a go-redis hook, so no
// server or network is needed.
package redistest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type entry struct {
	value    string
	expireAt time.Time
}

// Server stores string keys with optional expiry.
type Server struct {
	mu       sync.Mutex
	data     map[string]entry
	commands []string
	failWith error

	// Now is the clock used for expiry.
	Now func() time.Time
}

// New returns a Server and a client whose commands it answers.
func New() (*Server, *redis.Client) {
	s := &Server{data: make(map[string]entry), Now: time.Now}
	client := redis.NewClient(&redis.Options{Addr: "redistest:6379", MaxRetries: -1})
	client.AddHook(s)
	return s, client
}

// FailWith makes every following command return err. A nil err restores
// normal operation.
func (s *Server) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// Commands returns the names of the commands seen so far, in order.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// Keys returns the live keys, sorted.
func (s *Server) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if _, ok := s.lookup(k); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Value returns the raw value stored under key.
func (s *Server) Value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lookup(key)
	return e.value, ok
}

// TTL returns the remaining lifetime of key, or zero when it has none.
func (s *Server) TTL(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lookup(key)
	if !ok || e.expireAt.IsZero() {
		return 0
	}
	return e.expireAt.Sub(s.Now())
}

// DialHook refuses every connection attempt.
func (s *Server) DialHook(redis.DialHook) redis.DialHook {
	return func(context.Context, string, string) (net.Conn, error) {
		return nil, errors.New("redistest: dialing is not supported")
	}
}

// ProcessHook answers single commands.
func (s *Server) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		s.exec(cmd)
		return cmd.Err()
	}
}

// ProcessPipelineHook answers pipelined and transactional commands.
func (s *Server) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(_ context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			s.exec(cmd)
		}
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}
		return nil
	}
}

// lookup must be called with mu held.
func (s *Server) lookup(key string) (entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return entry{}, false
	}
	if !e.expireAt.IsZero() && !s.Now().Before(e.expireAt) {
		delete(s.data, key)
		return entry{}, false
	}
	return e, true
}

func (s *Server) exec(cmd redis.Cmder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.ToLower(cmd.Name())
	s.commands = append(s.commands, name)
	if s.failWith != nil {
		cmd.SetErr(s.failWith)
		return
	}

	args := cmd.Args()
	switch name {
	case "multi":
		setStatus(cmd, "OK")
	case "exec":
		// The queued commands were answered one by one.
	case "get":
		e, ok := s.lookup(arg(args, 1))
		if !ok {
			cmd.SetErr(redis.Nil)
			return
		}
		if c, ok := cmd.(*redis.StringCmd); ok {
			c.SetVal(e.value)
		}
	case "set":
		e := entry{value: arg(args, 2)}
		if ttl := expiry(args[3:]); ttl > 0 {
			e.expireAt = s.Now().Add(ttl)
		}
		s.data[arg(args, 1)] = e
		setStatus(cmd, "OK")
	case "incr":
		key := arg(args, 1)
		e, _ := s.lookup(key)
		n := int64(0)
		if e.value != "" {
			v, err := strconv.ParseInt(e.value, 10, 64)
			if err != nil {
				cmd.SetErr(errors.New("ERR value is not an integer or out of range"))
				return
			}
			n = v
		}
		n++
		e.value = strconv.FormatInt(n, 10)
		s.data[key] = e
		if c, ok := cmd.(*redis.IntCmd); ok {
			c.SetVal(n)
		}
	case "expire":
		key := arg(args, 1)
		e, ok := s.lookup(key)
		if ok {
			secs, _ := strconv.ParseInt(arg(args, 2), 10, 64)
			e.expireAt = s.Now().Add(time.Duration(secs) * time.Second)
			s.data[key] = e
		}
		if c, ok2 := cmd.(*redis.BoolCmd); ok2 {
			c.SetVal(ok)
		}
	case "del":
		var n int64
		for _, a := range args[1:] {
			key := fmt.Sprint(a)
			if _, ok := s.lookup(key); ok {
				delete(s.data, key)
				n++
			}
		}
		if c, ok := cmd.(*redis.IntCmd); ok {
			c.SetVal(n)
		}
	case "scan":
		pattern := "*"
		for i := 2; i+1 < len(args); i += 2 {
			if strings.EqualFold(arg(args, i), "match") {
				pattern = arg(args, i+1)
			}
		}
		var keys []string
		for k := range s.data {
			if _, ok := s.lookup(k); !ok {
				continue
			}
			if ok, _ := path.Match(pattern, k); ok {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		if c, ok := cmd.(*redis.ScanCmd); ok {
			c.SetVal(keys, 0)
		}
	default:
		cmd.SetErr(fmt.Errorf("redistest: unsupported command %q", name))
	}
}

func setStatus(cmd redis.Cmder, v string) {
	if c, ok := cmd.(*redis.StatusCmd); ok {
		c.SetVal(v)
	}
}

func arg(args []interface{}, i int) string {
	if i >= len(args) {
		return ""
	}
	switch v := args[i].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// expiry reads the EX or PX option of a SET command.
func expiry(opts []interface{}) time.Duration {
	for i := 0; i+1 < len(opts); i++ {
		n, err := strconv.ParseInt(arg(opts, i+1), 10, 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(arg(opts, i)) {
		case "ex":
			return time.Duration(n) * time.Second
		case "px":
			return time.Duration(n) * time.Millisecond
		}
	}
	return 0
}
