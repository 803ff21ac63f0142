package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"arcagym/internal/adapters/email"
	"arcagym/internal/adapters/http/middleware"
	accountStore "arcagym/internal/adapters/storage/account"
	memberStore "arcagym/internal/adapters/storage/member"
	paymentStore "arcagym/internal/adapters/storage/payment"
	reservationStore "arcagym/internal/adapters/storage/reservation"
	routineStore "arcagym/internal/adapters/storage/routine"
	slotStore "arcagym/internal/adapters/storage/slot"
	"arcagym/internal/domain/accesstoken"
	"arcagym/internal/domain/geo"
	"arcagym/internal/domain/gymtime"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore     accountStore.Store
	MemberStore      memberStore.Store
	PaymentStore     paymentStore.Store
	SlotStore        slotStore.Store
	ReservationStore reservationStore.Store
	RoutineStore     routineStore.Store
}

// Options carries the non-storage wiring for the HTTP layer.
type Options struct {
	Resolver     *gymtime.Resolver
	Fence        geo.Geofence
	AccessWindow time.Duration
	Signer       *accesstoken.Signer // nil disables the token endpoints
	Sender       email.Sender
	EmailFrom    string
	EmailReply   string
	CSRFKeyHex   string // 64 hex chars; empty generates a throwaway key
	Production   bool
}

// Global wiring set by NewMux.
var (
	stores       *Stores
	sessions     *middleware.SessionStore
	resolver     *gymtime.Resolver
	fence        geo.Geofence
	accessWindow time.Duration
	signer       *accesstoken.Signer
	emailSender  email.Sender
	emailFrom    string
	emailReply   string
)

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// loadCSRFKey decodes the configured CSRF secret (hex-encoded, 32 bytes).
// In production the key MUST be set; in development a random key is generated
// per startup.
func loadCSRFKey(keyHex string, production bool) []byte {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("ARCAGYM_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if production {
		log.Fatal("ARCAGYM_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set ARCAGYM_CSRF_KEY for production.")
	return key
}

// NewMux wires HTTP handlers for the service.
func NewMux(s *Stores, opts Options) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	resolver = opts.Resolver
	fence = opts.Fence
	accessWindow = opts.AccessWindow
	signer = opts.Signer
	emailSender = opts.Sender
	emailFrom = opts.EmailFrom
	emailReply = opts.EmailReply
	middleware.SecureCookies = opts.Production

	mux := http.NewServeMux()
	registerRoutes(mux)

	csrfKey := loadCSRFKey(opts.CSRFKeyHex, opts.Production)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
	)
}
