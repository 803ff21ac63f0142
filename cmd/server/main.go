package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	emailPkg "arcagym/internal/adapters/email"
	web "arcagym/internal/adapters/http"
	"arcagym/internal/adapters/storage"
	accountStore "arcagym/internal/adapters/storage/account"
	memberStore "arcagym/internal/adapters/storage/member"
	paymentStore "arcagym/internal/adapters/storage/payment"
	reservationStore "arcagym/internal/adapters/storage/reservation"
	routineStore "arcagym/internal/adapters/storage/routine"
	slotStore "arcagym/internal/adapters/storage/slot"
	"arcagym/internal/config"
	"arcagym/internal/domain/accesstoken"
	accountDomain "arcagym/internal/domain/account"
	"arcagym/internal/domain/geo"
	"arcagym/internal/domain/gymtime"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, loc, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// WAL mode, foreign keys, and busy timeout suit a single-process server
	// with concurrent kiosk and staff traffic.
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully!")

	// Slow-query instrumentation wraps every store.
	timedDB := storage.NewTimedDB(db)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:     acctStore,
		MemberStore:      memberStore.NewSQLiteStore(timedDB),
		PaymentStore:     paymentStore.NewSQLiteStore(timedDB),
		SlotStore:        slotStore.NewSQLiteStore(timedDB),
		ReservationStore: reservationStore.NewSQLiteStore(timedDB),
		RoutineStore:     routineStore.NewSQLiteStore(timedDB),
	}

	if err := ensureAdminAccount(acctStore, cfg); err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}

	// Short-lived QR tokens. Without a secret the token endpoints answer 501;
	// the DNI flow keeps working.
	var signer *accesstoken.Signer
	if cfg.TokenSecret != "" {
		signer, err = accesstoken.NewSigner(cfg.TokenSecret, cfg.TokenTTL, time.Now)
		if err != nil {
			log.Fatalf("failed to configure token signer: %v", err)
		}
		log.Println("QR access tokens enabled")
	} else {
		log.Println("QR access tokens disabled (set ARCAGYM_TOKEN_SECRET to enable)")
	}

	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom, cfg.EmailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.Env == "production" {
			log.Println("WARNING: ARCAGYM_RESEND_KEY is not set, email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set ARCAGYM_RESEND_KEY for real delivery)")
		}
	}

	mux := web.NewMux(stores, web.Options{
		Resolver:     gymtime.NewResolver(loc),
		Fence:        geo.NewGeofence(geo.Coordinate{Latitude: cfg.FacilityLatitude, Longitude: cfg.FacilityLongitude}, cfg.GeofenceRadiusM),
		AccessWindow: cfg.AccessWindow,
		Signer:       signer,
		Sender:       sender,
		EmailFrom:    cfg.EmailFrom,
		EmailReply:   cfg.EmailReply,
		CSRFKeyHex:   cfg.CSRFKeyHex,
		Production:   cfg.Env == "production",
	})

	log.Printf("Arca Gym %s starting on %s (env=%s, tz=%s)", version, cfg.Addr, cfg.Env, cfg.TimeZone)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// ensureAdminAccount creates the initial admin login on an empty database.
// An existing account with the configured email is left untouched.
func ensureAdminAccount(accounts accountStore.Store, cfg config.Config) error {
	ctx := context.Background()
	_, err := accounts.GetByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	acct := accountDomain.Account{
		ID:        uuid.New().String(),
		Email:     cfg.AdminEmail,
		Role:      accountDomain.RoleAdmin,
		CreatedAt: time.Now(),
	}
	if err := acct.SetPassword(cfg.AdminPasswd); err != nil {
		return err
	}
	if err := acct.Validate(); err != nil {
		return err
	}
	if err := accounts.Save(ctx, acct); err != nil {
		return err
	}
	log.Printf("Admin account created: %s (change the default password)", cfg.AdminEmail)
	return nil
}
