// Command simgate runs the credential-to-decision flow end to end: it mints
// participant DIDs, issues an operator credential, generates a zero-knowledge
// eligibility proof and exercises the access decision engine against it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"time"

	"github.com/lvc-ssi/simgate/internal/accessctl"
	"github.com/lvc-ssi/simgate/internal/audit"
	"github.com/lvc-ssi/simgate/internal/config"
	"github.com/lvc-ssi/simgate/internal/did"
	"github.com/lvc-ssi/simgate/internal/domain"
	"github.com/lvc-ssi/simgate/internal/events"
	"github.com/lvc-ssi/simgate/internal/infra/persistence"
	"github.com/lvc-ssi/simgate/internal/vc"
	"github.com/lvc-ssi/simgate/internal/zkp"
	"github.com/lvc-ssi/simgate/pkg/perf"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(context.Background(), *configPath, logger); err != nil {
		logger.Error("simgate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	monitor := perf.NewMonitor()

	// Participants.
	registry := did.NewRegistry()
	operatorDID, _, _, err := registry.Create("simulation_operator")
	if err != nil {
		return err
	}
	commanderDID, _, commanderKey, err := registry.Create("commander")
	if err != nil {
		return err
	}
	logger.Info("created participants",
		slog.String("operator", string(operatorDID)),
		slog.String("commander", string(commanderDID)))

	owner := domain.Identity(cfg.Owner)
	if owner == "" {
		owner = commanderDID
	}

	// Credential issuance.
	credentials := vc.NewManager()
	stop := monitor.Measure("credential_issuance")
	credential, err := credentials.Issue(operatorDID, commanderDID, cfg.Circuit.ExpectedTypeCode,
		vc.Claims{
			Role:           cfg.Circuit.ExpectedRoleCode,
			ClearanceLevel: cfg.Circuit.ExpectedClearanceCode,
			Simulations:    []string{"tactical", "strategic"},
		},
		commanderKey, 365*24*time.Hour)
	stop()
	if err != nil {
		return err
	}
	if !credentials.Verify(credential) {
		return fmt.Errorf("issued credential failed verification")
	}
	logger.Info("issued credential", slog.String("credential_id", credential.ID))

	// Circuit setup and proof generation.
	stop = monitor.Measure("circuit_setup")
	system, err := zkp.NewProofSystem()
	stop()
	if err != nil {
		return err
	}

	constants := zkp.PublicConstants{
		CurrentReferenceTime:  big.NewInt(cfg.Circuit.CurrentReferenceTime),
		ExpectedTypeCode:      zkp.FieldCode(cfg.Circuit.ExpectedTypeCode),
		ExpectedRoleCode:      zkp.FieldCode(cfg.Circuit.ExpectedRoleCode),
		ExpectedClearanceCode: new(big.Int).SetUint64(cfg.Circuit.ExpectedClearanceCode),
	}
	witness := zkp.BuildWitness(credential.ID, string(credential.Issuer), credential.ExpiresAt,
		credential.CredentialType(), credential.Claims.Role, credential.Claims.ClearanceLevel)

	stop = monitor.Measure("proof_generation")
	bundle, err := system.ProveEligible(witness, constants)
	stop()
	if err != nil {
		return err
	}
	bundle.ProofID, err = zkp.ProofID(credential.ID, zkp.AccessProofType)
	if err != nil {
		return err
	}
	cache := zkp.NewProofCache()
	cache.Put(bundle)
	logger.Info("generated proof", slog.String("proof_id", bundle.ProofID))

	// Access control state.
	bus := events.NewBus(logger, cfg.Events.BufferSize)
	defer bus.Close()
	notifications := bus.Subscribe()

	var repo domain.AuditRepository
	if cfg.Audit.DatabaseURL != "" {
		pool, err := persistence.Connect(ctx, cfg.Audit.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		repo, err = persistence.NewAuditRepository(ctx, pool)
		if err != nil {
			return err
		}
	}

	control := accessctl.New(owner, logger,
		accessctl.WithEventPublisher(bus),
		accessctl.WithAuditLogger(audit.NewLogger(logger, repo)),
		accessctl.WithProofVerifier(&zkp.CachedVerifier{Cache: cache, System: system, Constants: constants}),
	)

	if err := control.AddPolicy(ctx, owner, "sim-range-7",
		[]string{"launch", "observe"}, []string{cfg.Circuit.ExpectedTypeCode}); err != nil {
		return err
	}

	// Decisions.
	presented := []string{credential.CredentialType()}
	checks := []struct {
		action    string
		presented []string
	}{
		{"launch", presented},
		{"reconfigure", presented},
		{"launch", nil},
	}
	for _, check := range checks {
		stop = monitor.Measure("check_access")
		granted, err := control.CheckAccessProof(ctx, bundle.ProofID, "sim-range-7", check.action, check.presented)
		stop()
		if err != nil {
			return err
		}
		fmt.Printf("action=%-12s credentials=%v granted=%v\n", check.action, check.presented, granted)
	}

	fmt.Println("\naudit log:")
	for _, entry := range control.GetAccessLogs() {
		fmt.Printf("  %s  %-12s granted=%-5v reason=%s\n",
			entry.Timestamp.Format(time.RFC3339), entry.Action, entry.Granted, entry.Reason)
	}

	fmt.Println("\nevents:")
drain:
	for {
		select {
		case ev := <-notifications:
			fmt.Printf("  %s resource=%s action=%s\n", ev.Type, ev.ResourceID, ev.Action)
		default:
			break drain
		}
	}

	fmt.Println("\ntimings:")
	for op, stats := range monitor.Metrics() {
		fmt.Printf("  %-20s count=%d min=%s max=%s avg=%s total=%s\n",
			op, stats.Count, stats.Min, stats.Max, stats.Avg, stats.Total)
	}
	fmt.Printf("total: %s\n", monitor.TotalTime())

	return nil
}
