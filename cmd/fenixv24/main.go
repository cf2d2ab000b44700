package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fenixv24",
	Short: "Fenix V24 heating control CLI",
	Long:  `A command line interface for reading and controlling Fenix V24 cloud-connected heating devices.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
