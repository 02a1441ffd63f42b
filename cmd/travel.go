package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/timebooth/internal/booth"
	"github.com/kozaktomas/timebooth/internal/camera"
	"github.com/kozaktomas/timebooth/internal/catalog"
	"github.com/kozaktomas/timebooth/internal/config"
)

var travelCmd = &cobra.Command{
	Use:   "travel",
	Short: "Send a photo through time from the command line",
	Long: `Run the full booth workflow without the browser: read a photo from disk,
crop it to a square with the chosen filter, and submit it to the configured
generative image model with the era's prompt. The re-imagined portrait is
written to the output file.`,
	RunE: runTravel,
}

func init() {
	rootCmd.AddCommand(travelCmd)

	travelCmd.Flags().String("image", "", "Path to the source photo (required)")
	travelCmd.Flags().String("era", "", "Destination era id, see 'timebooth eras' (required)")
	travelCmd.Flags().String("filter", "none", "Visual filter to bake into the still")
	travelCmd.Flags().String("out", "time-travel-result.jpg", "Output file for the generated portrait")
	travelCmd.Flags().Bool("save", false, "Also save the result to the gallery")
	travelCmd.Flags().String("caption", "", "Gallery caption, defaults to the era label")
	travelCmd.MarkFlagRequired("image")
	travelCmd.MarkFlagRequired("era")
}

// travelSpinner shows an indeterminate spinner until done is closed.
func travelSpinner(eraLabel string, done <-chan struct{}) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(fmt.Sprintf("Traveling to %s", eraLabel)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			bar.Finish()
			fmt.Println()
			return
		case <-ticker.C:
			bar.Add(1)
		}
	}
}

func runTravel(cmd *cobra.Command, args []string) error {
	imagePath := mustGetString(cmd, "image")
	eraID := mustGetString(cmd, "era")
	filterID := mustGetString(cmd, "filter")
	outPath := mustGetString(cmd, "out")
	save := mustGetBool(cmd, "save")
	caption := mustGetString(cmd, "caption")

	filter, ok := catalog.FilterByID(filterID)
	if !ok {
		return fmt.Errorf("%w: %q, see 'timebooth eras'", booth.ErrFilterNotFound, filterID)
	}
	era, ok := catalog.EraByID(eraID)
	if !ok {
		return fmt.Errorf("%w: %q, see 'timebooth eras'", booth.ErrEraNotFound, eraID)
	}

	cfg := config.Load()
	ctx := context.Background()

	transformer, err := newTransformer(ctx, cfg)
	if err != nil {
		return err
	}

	store, closeStore, err := newGalleryStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	wf := booth.New(transformer, store)
	session := camera.NewSession(&camera.FileSource{Path: imagePath})
	wf.AttachCamera(session)

	if err := session.Start(ctx); err != nil {
		return fmt.Errorf("reading %s: %w", imagePath, err)
	}
	defer session.Stop()

	if err := wf.CaptureFromCamera(ctx, filter); err != nil {
		return fmt.Errorf("capturing still: %w", err)
	}
	if err := wf.SelectEra(era.ID); err != nil {
		return err
	}

	done := make(chan struct{})
	go travelSpinner(era.Label, done)
	travelErr := wf.Travel(ctx)
	close(done)

	if travelErr != nil {
		return fmt.Errorf("time travel failed: %w", travelErr)
	}

	result := wf.Result()
	if err := os.WriteFile(outPath, result.Data, 0o644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	fmt.Printf("Result written to %s (%s, %d bytes)\n", outPath, result.MIMEType, len(result.Data))

	if save {
		if err := wf.Save(); err != nil {
			return err
		}
		item, err := wf.Confirm(caption)
		if err != nil {
			fmt.Printf("Warning: gallery persistence failed: %v\n", err)
		}
		fmt.Printf("Saved to gallery as %s (%q)\n", item.ID, item.Caption)
	}
	return nil
}
