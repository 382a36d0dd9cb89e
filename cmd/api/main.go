package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

// @title Pig Farm API
// @version 1.0
// @description Granjas porcinas: corrales, animales, montas, sanidad y alertas del ciclo reproductivo.
// @BasePath /

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "pig-farm",
		Short:         "API de gestión de granjas porcinas",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP",
		RunE:  runServe,
	}

	alertsCmd = &cobra.Command{
		Use:   "alerts",
		Short: "Evalúa las alertas una vez sobre un archivo o un backend remoto e imprime JSON",
		RunE:  runAlerts,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_FILE"), "archivo YAML de configuración")

	alertsCmd.Flags().StringVar(&alertsFile, "file", "", "archivo .yaml o .json con la lista de animales")
	alertsCmd.Flags().StringVar(&alertsAPIURL, "api-url", "", "URL base del backend de la granja")
	alertsCmd.Flags().StringVar(&alertsFarm, "farm", "", "ID de la granja en el backend")
	alertsCmd.Flags().StringVar(&alertsToken, "token", os.Getenv("FARM_API_TOKEN"), "bearer token del backend")
	alertsCmd.Flags().StringVar(&alertsNow, "now", "", "fecha de evaluación YYYY-MM-DD (default: hoy)")
	alertsCmd.Flags().DurationVar(&alertsTimeout, "timeout", 10*time.Second, "timeout del backend remoto")
	alertsCmd.MarkFlagsMutuallyExclusive("file", "api-url")

	rootCmd.AddCommand(serveCmd, alertsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("error:", err)
		os.Exit(1)
	}
}
