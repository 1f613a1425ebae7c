package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/quantrun/riskgate/internal/correlation"
	"github.com/quantrun/riskgate/internal/domain"
	"github.com/quantrun/riskgate/internal/gates"
	httpiface "github.com/quantrun/riskgate/internal/interfaces/http"
	"github.com/quantrun/riskgate/internal/risk"
	"github.com/quantrun/riskgate/internal/schedule"
	"github.com/quantrun/riskgate/internal/telemetry"
)

const (
	appName = "RiskGate"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     "riskgate",
		Short:   "Portfolio risk validation engine",
		Version: version,
		Long: appName + ` is a stateless decision gate for proposed trades.

It combines correlation concentration analysis and historical VaR with an
ordered short-circuit policy pipeline, producing one deterministic,
auditable verdict per decision.`,
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Run one trade decision through the full risk pipeline",
		RunE:  runValidate,
	}
	varCmd := &cobra.Command{
		Use:   "var",
		Short: "Compute dual-venue historical VaR for a scenario",
		RunE:  runVaR,
	}
	corrCmd := &cobra.Command{
		Use:   "corr",
		Short: "Run dual-venue correlation analysis for a scenario",
		RunE:  runCorr,
	}
	for _, cmd := range []*cobra.Command{validateCmd, varCmd, corrCmd} {
		addScenarioFlags(cmd.Flags())
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagnostic HTTP surface (health, metrics, one-shot evaluations)",
		RunE:  runServe,
	}
	serveCmd.Flags().String("addr", ":8089", "Listen address")
	serveCmd.Flags().String("config", "", "Gatekeeper config YAML (defaults when empty)")

	rootCmd.AddCommand(validateCmd, varCmd, corrCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func addScenarioFlags(fs *pflag.FlagSet) {
	fs.String("scenario", "", "Scenario fixture JSON (required)")
	fs.String("config", "", "Gatekeeper config YAML (defaults when empty)")
	fs.String("mode", "", "Override replay mode (live|backtest)")
}

func loadConfig(cmd *cobra.Command) (*gates.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg := gates.DefaultConfig()
	if path != "" {
		loaded, err := gates.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		cfg.Mode = domain.ReplayMode(mode)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func loadScenarioFlag(cmd *cobra.Command) (*Scenario, error) {
	path, _ := cmd.Flags().GetString("scenario")
	if path == "" {
		return nil, fmt.Errorf("--scenario is required")
	}
	return LoadScenario(path)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := loadScenarioFlag(cmd)
	if err != nil {
		return err
	}

	calc, err := risk.NewCalculator(cfg.VaRConfidence)
	if err != nil {
		return err
	}
	analyzer := correlation.NewAnalyzer()

	gatekeeper, err := gates.NewRiskGatekeeper(cfg, schedule.NewStatic(), schedule.NewAgeValidator(), telemetry.NewRegistry())
	if err != nil {
		return err
	}

	verdict, err := gatekeeper.ValidateTrade(scenario.Decision, scenario.BuildContext(calc, analyzer))
	if err != nil {
		return err
	}
	return printJSON(verdict)
}

func runVaR(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := loadScenarioFlag(cmd)
	if err != nil {
		return err
	}
	calc, err := risk.NewCalculator(cfg.VaRConfidence)
	if err != nil {
		return err
	}
	return printJSON(calc.DualVenue(scenario.VenueA.input(), scenario.VenueB.input()))
}

func runCorr(cmd *cobra.Command, args []string) error {
	scenario, err := loadScenarioFlag(cmd)
	if err != nil {
		return err
	}
	analyzer := correlation.NewAnalyzer()
	report := analyzer.AnalyzeDualVenue(
		scenario.VenueA.assets(), scenario.VenueA.History, scenario.VenueA.Venue,
		scenario.VenueB.assets(), scenario.VenueB.History, scenario.VenueB.Venue,
	)
	return printJSON(report)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")

	calc, err := risk.NewCalculator(cfg.VaRConfidence)
	if err != nil {
		return err
	}
	metrics := telemetry.NewRegistry()
	gatekeeper, err := gates.NewRiskGatekeeper(cfg, schedule.NewStatic(), schedule.NewAgeValidator(), metrics)
	if err != nil {
		return err
	}

	server := httpiface.NewServer(gatekeeper, calc, correlation.NewAnalyzer(), metrics, version)
	log.Info().Str("mode", string(cfg.Mode)).Msg(appName + " starting")
	return server.ListenAndServe(addr)
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
