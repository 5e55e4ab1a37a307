package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rushteam/tripkit/config"
	"github.com/rushteam/tripkit/pkg/logging"
	"github.com/rushteam/tripkit/service"
)

var (
	rankKind     string
	rankInput    string
	rankPreset   string
	rankTop      int
	rankFilter   string
	rankPipeline string
)

func init() {
	rankCmd.Flags().StringVarP(&rankKind, "kind", "k", "flight", "offer kind: flight, hotel or trip")
	rankCmd.Flags().StringVarP(&rankInput, "input", "i", "-", "JSON request file, - for stdin")
	rankCmd.Flags().StringVar(&rankPreset, "preset", "", "weight preset (overrides the request)")
	rankCmd.Flags().IntVar(&rankTop, "top", 0, "length of recommendation slices (overrides the request)")
	rankCmd.Flags().StringVar(&rankFilter, "filter", "", "CEL expression; matching offers are removed")
	rankCmd.Flags().StringVar(&rankPipeline, "pipeline", "", "filter/rerank stage pipeline (YAML or JSON)")
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank offers from a JSON request and print the result",
	Long: `Rank offers from a JSON request and print the result as JSON.

The input is a flight request ({"flights": [...]}), a hotel request
({"hotels": [...]}) or a trip request ({"flights": {...}, "hotels": {...}}).

Examples:
  tripkit rank -k flight -i offers.json --preset budget --top 5
  cat hotels.json | tripkit rank -k hotel --filter 'item.features.rating < 3'`,
	Args: cobra.NoArgs,
	RunE: runRank,
}

func runRank(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// 结果写 stdout，日志写 stderr
	logCfg := cfg.Log
	logCfg.Format = "console"
	if logCfg.Level == "" || logCfg.Level == "info" || logCfg.Level == "debug" {
		logCfg.Level = "warn"
	}
	logger, err := logging.NewWithWriter(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	data, err := readInput(cmd.InOrStdin(), rankInput)
	if err != nil {
		return err
	}

	opts, err := serviceOptions(cfg.Ranking, logger)
	if err != nil {
		return err
	}
	if rankPipeline != "" {
		p, err := config.LoadPipeline(rankPipeline)
		if err != nil {
			return err
		}
		opts = append(opts, service.WithFlightStages(p), service.WithHotelStages(p))
	}
	svc := service.New(nil, opts...)

	var result any
	switch rankKind {
	case service.DomainFlight:
		var req service.FlightRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("decode flight request: %w", err)
		}
		applyFlags(&req.Preset, &req.TopN, &req.Filter)
		result, err = svc.RankFlights(cmd.Context(), &req)
	case service.DomainHotel:
		var req service.HotelRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("decode hotel request: %w", err)
		}
		applyFlags(&req.Preset, &req.TopN, &req.Filter)
		result, err = svc.RankHotels(cmd.Context(), &req)
	case service.DomainTrip:
		var req service.TripRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("decode trip request: %w", err)
		}
		if req.Flights != nil {
			applyFlags(&req.Flights.Preset, &req.Flights.TopN, &req.Flights.Filter)
		}
		if req.Hotels != nil {
			applyFlags(&req.Hotels.Preset, &req.Hotels.TopN, &req.Hotels.Filter)
		}
		result, err = svc.RankTrip(cmd.Context(), &req)
	default:
		return fmt.Errorf("unknown kind %q (supported: flight, hotel, trip)", rankKind)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func applyFlags(preset *string, top *int, filter *string) {
	if rankPreset != "" {
		*preset = rankPreset
	}
	if rankTop > 0 {
		*top = rankTop
	}
	if rankFilter != "" {
		*filter = rankFilter
	}
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
