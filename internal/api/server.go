// Package api is the node's read-only REST introspection surface: chain
// tip, finalized height, and mempool size, built with gorilla/mux and
// golang.org/x/time/rate exactly the way the teacher's api_server.go and
// api_middleware.go build the full wallet/transaction API — but trimmed to
// the ambient operability endpoints every node binary ships, since a
// read/write RPC surface is explicitly out of scope.
package api

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/solechain/core/internal/chaintypes"
)

// ChainView is the read-only state the introspection endpoints report.
type ChainView interface {
	ChainHeight() chaintypes.Height
	FinalizedHeight() chaintypes.Height
}

// MempoolView reports the current size of the node's unconfirmed and
// partial transaction caches.
type MempoolView interface {
	Count() int
}

// Server is the node's HTTP introspection server.
type Server struct {
	chain  ChainView
	ut     MempoolView
	pt     MempoolView
	router *mux.Router
	http   *http.Server
}

// NewServer builds a Server bound to listenAddr:port, rate-limited per
// client IP the way the teacher's NewIPRateLimiter does.
func NewServer(listenAddr string, port int, chain ChainView, ut, pt MempoolView, perSecond rate.Limit, burst int) *Server {
	router := mux.NewRouter()
	router.Use(jsonContentType)

	limiter := newIPRateLimiter(perSecond, burst)
	limited := rateLimitMiddleware(limiter)

	s := &Server{chain: chain, ut: ut, pt: pt}
	router.Handle("/status", limited(http.HandlerFunc(s.handleStatus))).Methods(http.MethodGet)
	router.Handle("/healthz", limited(http.HandlerFunc(s.handleHealthz))).Methods(http.MethodGet)

	s.router = router
	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", listenAddr, port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving HTTP until the server errors or is shut
// down.
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Handler returns the server's router, for tests that drive requests
// in-process instead of over a real listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

type statusResponse struct {
	Height          uint64 `json:"height"`
	FinalizedHeight uint64 `json:"finalized_height"`
	UtCount         int    `json:"ut_count"`
	PtCount         int    `json:"pt_count"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Height:          uint64(s.chain.ChainHeight()),
		FinalizedHeight: uint64(s.chain.FinalizedHeight()),
		UtCount:         s.ut.Count(),
		PtCount:         s.pt.Count(),
	}
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ipRateLimiter manages one rate.Limiter per client IP, pruning the whole
// map periodically rather than tracking per-entry last-access time — the
// same simple proof-of-concept approach the teacher's IPRateLimiter takes.
type ipRateLimiter struct {
	mu  sync.Mutex
	ips map[string]*rate.Limiter
	r   rate.Limit
	b   int
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	l := &ipRateLimiter{ips: make(map[string]*rate.Limiter), r: r, b: b}
	go l.evictPeriodically()
	return l
}

func (l *ipRateLimiter) evictPeriodically() {
	for range time.Tick(time.Minute) {
		l.mu.Lock()
		l.ips = make(map[string]*rate.Limiter)
		l.mu.Unlock()
	}
}

func (l *ipRateLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.ips[ip]
	if !ok {
		limiter = rate.NewLimiter(l.r, l.b)
		l.ips[ip] = limiter
	}
	return limiter
}

func rateLimitMiddleware(limiter *ipRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !limiter.limiterFor(ip).Allow() {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
