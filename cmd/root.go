package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "timebooth",
	Short: "A time-travel photo booth powered by generative image models",
	Long: `Timebooth is a photo booth application that captures a selfie, applies a
visual filter, and submits it to a generative image model (Gemini or OpenAI)
to re-imagine the portrait in a chosen historical era. Results can be saved
to a local gallery.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
