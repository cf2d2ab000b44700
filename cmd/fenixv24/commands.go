package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/retrodans/go-fenixv24/pkg/fenixv24"
)

var (
	email       string
	password    string
	smarthomeID string
	verbose     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&email, "email", "", "Fenix V24 account email (or FENIX_EMAIL)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Fenix V24 account password (or FENIX_PASSWORD)")
	rootCmd.PersistentFlags().StringVar(&smarthomeID, "smarthome-id", "", "smarthome identifier (or FENIX_SMARTHOME_ID)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	boostCmd.Flags().Int("minutes", 30, "boost duration in minutes (5-120)")
	exportCmd.Flags().String("listen", ":9712", "address for the metrics endpoint")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(setModeCmd)
	rootCmd.AddCommand(setTempCmd)
	rootCmd.AddCommand(boostCmd)
	rootCmd.AddCommand(exportCmd)
}

func getClient() *fenixv24.Client {
	if email == "" {
		email = os.Getenv("FENIX_EMAIL")
	}
	if password == "" {
		password = os.Getenv("FENIX_PASSWORD")
	}
	if smarthomeID == "" {
		smarthomeID = os.Getenv("FENIX_SMARTHOME_ID")
	}

	opts := []fenixv24.ClientOption{}
	if verbose {
		opts = append(opts, fenixv24.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}

	client, err := fenixv24.NewClient(email, password, smarthomeID, opts...)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return client
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show all zones and devices",
	Run: func(cmd *cobra.Command, args []string) {
		client := getClient()

		zones, err := client.Zones(context.Background())
		if err != nil {
			fmt.Printf("Error fetching zones: %v\n", err)
			os.Exit(1)
		}

		for _, zone := range zones {
			fmt.Printf("Zone %s: %s\n", zone.ID, zone.Label)
			for _, device := range zone.Devices {
				heating := ""
				if device.HeatingUp {
					heating = " (heating)"
				}
				fmt.Printf("  Device %s: %.1f°C, Mode=%s%s\n",
					device.ID, device.TemperatureC, device.ModeCode, heating)
			}
		}
	},
}

var setModeCmd = &cobra.Command{
	Use:   "set-mode [device-id] [mode]",
	Short: "Set a device's operating mode (Manual, Off, Antifreeze, Auto, Boost)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		mode, err := fenixv24.ParseMode(args[1])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		client := getClient()
		if err := client.SetMode(context.Background(), args[0], mode); err != nil {
			fmt.Printf("Error setting mode: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Command sent successfully.")
	},
}

var setTempCmd = &cobra.Command{
	Use:   "set-temp [device-id] [celsius]",
	Short: "Set a device to manual mode at a target temperature",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		celsius, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			fmt.Printf("Invalid temperature '%s': must be a number\n", args[1])
			os.Exit(1)
		}

		client := getClient()
		if err := client.SetTemperature(context.Background(), args[0], celsius); err != nil {
			fmt.Printf("Error setting temperature: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Command sent successfully.")
	},
}

var boostCmd = &cobra.Command{
	Use:   "boost [device-id]",
	Short: "Boost a device for a bounded duration",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		minutes, _ := cmd.Flags().GetInt("minutes")

		client := getClient()
		if err := client.Boost(context.Background(), args[0], minutes); err != nil {
			fmt.Printf("Error boosting: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Boost active for %d minutes; the device reverts by itself.\n", minutes)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Serve zone telemetry as Prometheus metrics",
	Run: func(cmd *cobra.Command, args []string) {
		listen, _ := cmd.Flags().GetString("listen")

		client := getClient()
		registry := prometheus.NewRegistry()
		registry.MustRegister(fenixv24.NewMetricsCollector(client))

		http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		fmt.Printf("Serving metrics on %s/metrics\n", listen)
		if err := http.ListenAndServe(listen, nil); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}
