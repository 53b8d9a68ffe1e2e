package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/JorgeKerilima19/app-management-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Per-IP sliding-window limiters. Every terminal on the floor has its own LAN
// address, so an IP maps roughly to one device; the windows are sized so that
// a busy service never trips them while a credential-stuffing script does.

type ipWindow struct {
	mu        sync.Mutex
	count     int
	windowEnd time.Time
}

// ipLimiter holds one window per client IP.
type ipLimiter struct {
	mu      sync.Mutex
	windows map[string]*ipWindow
}

func newIPLimiter() *ipLimiter {
	return &ipLimiter{windows: make(map[string]*ipWindow)}
}

// allow counts one request from ip, returning false once limit is exceeded
// inside the current window.
func (l *ipLimiter) allow(ip string, limit int, window time.Duration) (bool, time.Time) {
	l.mu.Lock()
	w, ok := l.windows[ip]
	if !ok {
		w = &ipWindow{}
		l.windows[ip] = w
	}
	l.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if now.After(w.windowEnd) {
		w.count = 0
		w.windowEnd = now.Add(window)
	}
	w.count++
	return w.count <= limit, w.windowEnd
}

// purge drops windows that already expired.
func (l *ipLimiter) purge(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	purged := 0
	for ip, w := range l.windows {
		w.mu.Lock()
		if now.After(w.windowEnd) {
			delete(l.windows, ip)
			purged++
		}
		w.mu.Unlock()
	}
	return purged
}

var (
	loginLimiter = newIPLimiter()
	apiLimiter   = newIPLimiter()
)

// Login attempts from one device. A waiter fumbling a PIN burns a handful per
// minute; anything past 20 is a guessing script.
const (
	loginAttemptLimit  = 20
	loginAttemptWindow = time.Minute
)

// LoginRateLimiter throttles /auth/login per client IP.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, _ := loginLimiter.allow(c.ClientIP(), loginAttemptLimit, loginAttemptWindow)
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter throttles the whole API per client IP. The router mounts it
// with room for the chattiest device we have, a station board polling every
// few seconds alongside the floor map.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := apiLimiter.allow(c.ClientIP(), limit, window)
		if !ok {
			c.Header("Retry-After", windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// Expired windows are purged in the background so IPs that never return do
// not accumulate forever.
const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredWindows()
}

func purgeExpiredWindows() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purgedLogin := loginLimiter.purge(now)
		purgedAPI := apiLimiter.purge(now)
		if purgedLogin > 0 || purgedAPI > 0 {
			log.Debug().
				Int("login_windows_purged", purgedLogin).
				Int("api_windows_purged", purgedAPI).
				Msg("rate limiter windows purged")
		}
	}
}
