package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/timebooth/internal/ai"
	"github.com/kozaktomas/timebooth/internal/config"
	"github.com/kozaktomas/timebooth/internal/gallery"
)

// newTransformer builds the generative image backend selected by BOOTH_PROVIDER.
func newTransformer(ctx context.Context, cfg *config.Config) (ai.Transformer, error) {
	switch cfg.Booth.Provider {
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, errors.New("GEMINI_API_KEY environment variable is required")
		}
		return ai.NewGeminiTransformer(ctx, cfg.Gemini.APIKey)
	case "openai":
		if cfg.OpenAI.Token == "" {
			return nil, errors.New("OPENAI_TOKEN environment variable is required")
		}
		return ai.NewOpenAITransformer(cfg.OpenAI.Token), nil
	default:
		return nil, fmt.Errorf("unknown BOOTH_PROVIDER %q (expected gemini or openai)", cfg.Booth.Provider)
	}
}

// newGalleryStore wires the gallery store to its persistence slot. PostgreSQL
// is used when GALLERY_DATABASE_URL is set, the JSON file otherwise. The
// returned closer releases the database connection; it is a no-op for files.
func newGalleryStore(cfg *config.Config) (*gallery.Store, func(), error) {
	if cfg.Gallery.DatabaseURL != "" {
		persister, err := gallery.NewPostgresPersister(cfg.Gallery.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting gallery database: %w", err)
		}
		fmt.Println("Gallery persistence: PostgreSQL")
		return gallery.NewStore(persister), func() { persister.Close() }, nil
	}

	fmt.Printf("Gallery persistence: %s\n", cfg.Gallery.Path)
	store := gallery.NewStore(&gallery.FilePersister{Path: cfg.Gallery.Path})
	return store, func() {}, nil
}
