package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/timebooth/internal/config"
	"github.com/kozaktomas/timebooth/internal/gallery"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Inspect and manage the saved-results gallery",
}

var galleryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved gallery items, newest first",
	RunE:  runGalleryList,
}

var galleryRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove one item from the gallery",
	Args:  cobra.ExactArgs(1),
	RunE:  runGalleryRemove,
}

var galleryExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export one item's image to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runGalleryExport,
}

func init() {
	rootCmd.AddCommand(galleryCmd)
	galleryCmd.AddCommand(galleryListCmd)
	galleryCmd.AddCommand(galleryRemoveCmd)
	galleryCmd.AddCommand(galleryExportCmd)

	galleryExportCmd.Flags().String("out", "", "Output file, defaults to time-travel-<id>.jpg")
}

func runGalleryList(cmd *cobra.Command, args []string) error {
	store, closeStore, err := newGalleryStore(config.Load())
	if err != nil {
		return err
	}
	defer closeStore()

	items := store.Items()
	if len(items) == 0 {
		fmt.Println("The gallery is empty.")
		return nil
	}
	for _, item := range items {
		when := time.UnixMilli(item.Timestamp).Format("2006-01-02 15:04")
		fmt.Printf("%s  %s  [%s]  %q\n", item.ID, when, item.EraID, item.Caption)
	}
	fmt.Printf("%d item(s)\n", len(items))
	return nil
}

func runGalleryRemove(cmd *cobra.Command, args []string) error {
	store, closeStore, err := newGalleryStore(config.Load())
	if err != nil {
		return err
	}
	defer closeStore()

	id := args[0]
	if _, ok := store.Get(id); !ok {
		fmt.Printf("No item %s in the gallery, nothing removed.\n", id)
		return nil
	}
	if err := store.Remove(id); err != nil {
		return fmt.Errorf("removing %s: %w", id, err)
	}
	fmt.Printf("Removed %s\n", id)
	return nil
}

func runGalleryExport(cmd *cobra.Command, args []string) error {
	store, closeStore, err := newGalleryStore(config.Load())
	if err != nil {
		return err
	}
	defer closeStore()

	id := args[0]
	item, ok := store.Get(id)
	if !ok {
		return fmt.Errorf("no item %s in the gallery", id)
	}

	_, data, err := gallery.DecodeDataURL(item.ImageURL)
	if err != nil {
		return fmt.Errorf("decoding stored image: %w", err)
	}

	out := mustGetString(cmd, "out")
	if out == "" {
		out = fmt.Sprintf("time-travel-%s.jpg", item.ID)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("Exported %s to %s\n", item.ID, out)
	return nil
}
