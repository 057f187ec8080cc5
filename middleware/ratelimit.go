package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginLimiter 登录限流：每 IP 在窗口内最多 max 次尝试
type LoginLimiter struct {
	max    int
	window time.Duration

	mu   sync.Mutex
	hits map[string][]time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLoginLimiter 创建限流器并启动过期数据清理，使用完需调用 Stop
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		max:    max,
		window: window,
		hits:   make(map[string][]time.Time),
		stop:   make(chan struct{}),
	}
	go l.janitor()
	return l
}

func (l *LoginLimiter) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for ip := range l.hits {
				if kept := l.prune(ip, now); len(kept) == 0 {
					delete(l.hits, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

// prune 去掉窗口外的记录，调用方需持有锁
func (l *LoginLimiter) prune(ip string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	ts := l.hits[ip]
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.hits[ip] = kept
	return kept
}

// Allow 记录一次尝试，超过上限返回 false
func (l *LoginLimiter) Allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.prune(ip, now)) >= l.max {
		return false
	}
	l.hits[ip] = append(l.hits[ip], now)
	return true
}

// Stop 停止后台清理
func (l *LoginLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Middleware 仅对 POST 计数，超过上限返回 429
func (l *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || l.max <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if !l.Allow(ip, time.Now()) {
			zap.L().Warn("登录尝试过于频繁", zap.String("ip", ip))
			c.String(http.StatusTooManyRequests, "登录尝试过于频繁，请稍后再试")
			c.Abort()
			return
		}
		c.Next()
	}
}
