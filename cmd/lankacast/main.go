// LankaCast CLI - Sri Lankan transit delay and property price intelligence
//
// Usage:
//   lankacast predict --route 04-2 --date 2024-04-13 --time 08:30 [options]
//   lankacast forecast --city Negombo --type House --land-size 12
//   lankacast metadata
//   lankacast history
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"lankacast/internal/client"
	"lankacast/pkg/api"
	"lankacast/pkg/units"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "lankacast",
		Usage:   "Bus delay prediction and property price forecasting for Sri Lanka",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   "http://localhost:8080",
				Usage:   "LankaCast API server base URL",
				EnvVars: []string{"LANKACAST_SERVER"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format (table, json)",
				EnvVars: []string{"LANKACAST_FORMAT"},
			},
		},

		Commands: []*cli.Command{
			predictCommand(),
			forecastCommand(),
			metadataCommand(),
			historyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// PREDICT COMMAND
// =============================================================================

func predictCommand() *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "Predict the arrival delay class for a bus trip",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "route",
				Aliases:  []string{"r"},
				Usage:    "Route number (e.g. 01, 32, 04-2)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "bus-type",
				Value: "Normal",
				Usage: "Bus type (Normal, Semi Luxury, Luxury)",
			},
			&cli.StringFlag{
				Name:     "date",
				Usage:    "Departure date (YYYY-MM-DD)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "time",
				Usage:    "Departure time (HH:MM)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "weather",
				Value: "Clear",
				Usage: "Weather (Clear, Cloudy, Light Rain, Moderate Rain, Heavy Rain)",
			},
			&cli.StringFlag{
				Name:  "crowding",
				Value: "Medium",
				Usage: "Crowding level (Low, Medium, High)",
			},
			&cli.IntFlag{
				Name:  "departure-delay",
				Usage: "Delay already accumulated at departure, in minutes",
			},
		},
		Action: runPredict,
	}
}

func runPredict(c *cli.Context) error {
	cl := client.New(c.String("server"))

	resp, err := cl.Predict(context.Background(), api.PredictRequest{
		RouteNo:           c.String("route"),
		BusType:           c.String("bus-type"),
		DepartureDate:     c.String("date"),
		DepartureTime:     c.String("time"),
		Weather:           c.String("weather"),
		CrowdingLevel:     c.String("crowding"),
		DepartureDelayMin: c.Int("departure-delay"),
	})
	if err != nil {
		return err
	}

	if c.String("format") == "json" {
		return outputJSON(resp)
	}
	return outputPredictTable(resp)
}

func outputPredictTable(resp *api.PredictResponse) error {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                    🚌 DELAY PREDICTION                        ║")
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	fmt.Printf("║  Prediction:            %-37s ║\n", resp.Prediction)
	fmt.Printf("║  Confidence:            %-37s ║\n", fmt.Sprintf("%.0f%%", resp.Confidence*100))
	fmt.Printf("║  Time Slot:             %-37s ║\n", resp.Meta.TimeSlot)

	if flags := dayFlags(resp.Meta); flags != "" {
		fmt.Printf("║  Day Context:           %-37s ║\n", truncate(flags, 37))
	}

	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	fmt.Println("║  CLASS PROBABILITIES                                          ║")
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	for i, name := range resp.ClassNames {
		marker := "  "
		if i == resp.PredClassIdx {
			marker = "▶ "
		}
		fmt.Printf("║  %s%-25s %-32s ║\n", marker, name, fmt.Sprintf("%.1f%%", resp.Probabilities[i]*100))
	}

	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	fmt.Println("║  TOP FACTORS                                                  ║")
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	for _, bar := range resp.Attributions {
		fmt.Printf("║  %-24s %s%-27s ║\n", truncate(bar.Feature, 24), signGlyph(bar.Score), attributionBar(bar))
	}
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	return nil
}

func dayFlags(meta api.PredictMeta) string {
	var flags []string
	if meta.IsWeekend {
		flags = append(flags, "Weekend")
	}
	if meta.IsPoya {
		flags = append(flags, "Poya")
	}
	if meta.IsHoliday {
		flags = append(flags, "Holiday")
	}
	if meta.IsFestival {
		flags = append(flags, meta.FestivalName)
	}
	return strings.Join(flags, ", ")
}

func signGlyph(score float64) string {
	if score >= 0 {
		return "+"
	}
	return "-"
}

// attributionBar renders a bar proportional to the normalized length the
// server computed, over a fixed 20-cell track.
func attributionBar(bar api.AttributionBar) string {
	cells := int(bar.Length*20 + 0.5)
	if cells > 20 {
		cells = 20
	}
	return strings.Repeat("█", cells) + strings.Repeat("░", 20-cells)
}

// =============================================================================
// FORECAST COMMAND
// =============================================================================

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:  "forecast",
		Usage: "Forecast a property price for a city or district",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "city",
				Usage: "City name (mapped to its district)",
			},
			&cli.StringFlag{
				Name:  "district",
				Usage: "District name (overrides --city)",
			},
			&cli.StringFlag{
				Name:     "type",
				Aliases:  []string{"t"},
				Usage:    "Property type (Land, House, Apartment)",
				Required: true,
			},
			&cli.Float64Flag{
				Name:  "land-size",
				Usage: "Land size, in --land-unit",
			},
			&cli.StringFlag{
				Name:  "land-unit",
				Value: "perches",
				Usage: "Land size unit (perches, acres, hectares, sqft, sqm)",
			},
			&cli.IntFlag{
				Name:  "bedrooms",
				Usage: "Bedroom count (House and Apartment)",
			},
			&cli.IntFlag{
				Name:  "year",
				Usage: "Forecast year (defaults to the last supported year)",
			},
		},
		Action: runForecast,
	}
}

func runForecast(c *cli.Context) error {
	cl := client.New(c.String("server"))

	unit, err := units.ParseUnit(c.String("land-unit"))
	if err != nil {
		return err
	}

	resp, err := cl.Forecast(context.Background(), api.ForecastRequest{
		City:            c.String("city"),
		District:        c.String("district"),
		PropertyType:    c.String("type"),
		LandSizePerches: units.ToPerches(c.Float64("land-size"), unit),
		Bedrooms:        c.Int("bedrooms"),
		Year:            c.Int("year"),
	})
	if err != nil {
		return err
	}

	if c.String("format") == "json" {
		return outputJSON(resp)
	}
	return outputForecastTable(resp)
}

func outputForecastTable(resp *api.ForecastResponse) error {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                  🏠 PROPERTY FORECAST                         ║")
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	fmt.Printf("║  District:              %-37s ║\n", resp.District)
	fmt.Printf("║  Property Type:         %-37s ║\n", resp.PropertyType)
	fmt.Printf("║  Forecast Year:         %-37d ║\n", resp.Year)
	fmt.Printf("║  Current Value:         %-37s ║\n", resp.CurrentDisplay)
	fmt.Printf("║  Forecast Value:        %-37s ║\n", resp.PriceDisplay)
	fmt.Printf("║  Expected Growth:       %-37s ║\n", fmt.Sprintf("%.1f%%", resp.GrowthPct))
	fmt.Printf("║  Confidence:            %-37s ║\n", fmt.Sprintf("%.0f%%", resp.Confidence*100))
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	fmt.Println("║  PRICE DRIVERS                                                ║")
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	for _, bar := range resp.Attributions {
		fmt.Printf("║  %-24s %s%-27s ║\n", truncate(bar.Feature, 24), signGlyph(bar.Score), attributionBar(bar))
	}
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	return nil
}

// =============================================================================
// METADATA COMMAND
// =============================================================================

func metadataCommand() *cli.Command {
	return &cli.Command{
		Name:   "metadata",
		Usage:  "Show the option lists the server exposes for form building",
		Action: runMetadata,
	}
}

func runMetadata(c *cli.Context) error {
	cl := client.New(c.String("server"))
	meta, err := cl.Metadata(context.Background())
	if err != nil {
		return err
	}

	if c.String("format") == "json" {
		return outputJSON(meta)
	}

	fmt.Printf("Model:           %s (v%s, %d features)\n", meta.Model, meta.ModelVersion, meta.FeatureCount)
	fmt.Printf("Classes:         %s\n", strings.Join(meta.ClassNames, ", "))
	fmt.Println("Routes:")
	for _, r := range meta.Routes {
		fmt.Printf("  %-6s %d km\n", r.RouteNo, r.DistanceKm)
	}
	fmt.Printf("Bus Types:       %s\n", strings.Join(meta.BusTypes, ", "))
	fmt.Printf("Weather:         %s\n", strings.Join(meta.WeatherOptions, ", "))
	fmt.Printf("Crowding:        %s\n", strings.Join(meta.CrowdingLevels, ", "))
	fmt.Printf("Time Slots:      %s\n", strings.Join(meta.TimeSlots, ", "))
	fmt.Printf("Districts:       %d\n", len(meta.Districts))
	fmt.Printf("Property Types:  %s\n", strings.Join(meta.PropertyTypes, ", "))
	return nil
}

// =============================================================================
// HISTORY COMMAND
// =============================================================================

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:   "history",
		Usage:  "List recent recorded predictions",
		Action: runHistory,
	}
}

func runHistory(c *cli.Context) error {
	cl := client.New(c.String("server"))
	entries, err := cl.History(context.Background())
	if err != nil {
		return err
	}

	if c.String("format") == "json" {
		return outputJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No recorded predictions.")
		return nil
	}
	fmt.Printf("%-20s  %-9s  %-24s  %-20s  %s\n", "TIME", "KIND", "SUBJECT", "PREDICTED", "CONF")
	for _, e := range entries {
		fmt.Printf("%-20s  %-9s  %-24s  %-20s  %.0f%%\n",
			e.CreatedAt,
			e.Kind,
			truncate(e.Subject, 24),
			truncate(e.Predicted, 20),
			e.Confidence*100)
	}
	return nil
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
