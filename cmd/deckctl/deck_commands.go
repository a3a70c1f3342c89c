package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/pitchdeck-server/internal/export/pptx"
	"github.com/dtroode/pitchdeck-server/internal/model"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored decks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.decks(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := svc.ListDecks(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No decks stored")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.ID, formatCreated(e.CreatedAt)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Created"}, rows))
			return nil
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display a deck and its slides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.decks(cmd.Context())
			if err != nil {
				return err
			}
			deck, err := svc.GetDeck(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(deck)
			}

			fmt.Fprintf(out, "ID:        %s\n", deck.ID)
			fmt.Fprintf(out, "Created:   %s\n", formatCreated(deck.CreatedAt))
			fmt.Fprintf(out, "Objective: %s\n", deck.Objective)
			fmt.Fprintf(out, "Tone:      %s\n", deck.Tone)
			fmt.Fprintf(out, "Duration:  %s\n", deck.TotalDuration())
			if deck.Summary != "" {
				fmt.Fprintf(out, "Summary:   %s\n", deck.Summary)
			}

			rows := make([][]string, 0, len(deck.Slides))
			for i, s := range deck.Slides {
				seconds := ""
				if s.SuggestedTimeSec != nil {
					seconds = strconv.Itoa(*s.SuggestedTimeSec)
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), s.Title, string(s.Layout), strconv.Itoa(len(s.Bullets)), seconds})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Title", "Layout", "Bullets", "Seconds"}, rows, 1, 4, 5))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the deck as JSON")

	return cmd
}

func newScriptCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "script <id>",
		Short: "Print the presenter script of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.decks(cmd.Context())
			if err != nil {
				return err
			}
			script, err := svc.Script(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), script)
			return nil
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		output string
		theme  string
	)

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a deck as a PowerPoint file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.decks(cmd.Context())
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			deck, err := svc.Export(cmd.Context(), args[0], theme, &buf)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = pptx.FileName(deck)
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d slides to %s\n", len(deck.Slides), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to <id>.pptx)")
	cmd.Flags().StringVar(&theme, "theme", "", "Export theme name")

	return cmd
}

func newVideoCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "video <id>",
		Short: "Download the stored source video of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.decks(cmd.Context())
			if err != nil {
				return err
			}
			r, err := svc.Video(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			path := output
			if path == "" {
				path = args[0] + ".webm"
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			n, err := io.Copy(f, r)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d bytes to %s\n", n, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to <id>.webm)")

	return cmd
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		params model.GenerateParams
		slides string
	)

	cmd := &cobra.Command{
		Use:   "generate <video>",
		Short: "Generate a deck from a recorded pitch video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.decks(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open video: %w", err)
			}
			defer f.Close()

			params.Filename = filepath.Base(args[0])
			params.Video = f
			params.SlidesNumber = slidesFromFlag(slides)

			deck, err := svc.Generate(cmd.Context(), params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created deck %s with %d slides\n", deck.ID, len(deck.Slides))
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Language, "language", "", "Transcript language (defaults to en)")
	cmd.Flags().StringVar(&params.Objective, "objective", "", "Pitch objective")
	cmd.Flags().StringVar(&params.Tone, "tone", "", "Pitch tone")
	cmd.Flags().StringVar(&slides, "slides", "", "Number of slides or a preset such as 6-8")
	cmd.Flags().BoolVar(&params.KeepVideo, "keep-video", false, "Store the source video with the deck")

	return cmd
}

func newRegenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		params model.RegenerateParams
		slides string
	)

	cmd := &cobra.Command{
		Use:   "regenerate <id>",
		Short: "Rebuild a deck from its stored source video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.decks(cmd.Context())
			if err != nil {
				return err
			}

			params.SlidesNumber = slidesFromFlag(slides)
			deck, err := svc.Regenerate(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Regenerated deck %s with %d slides\n", deck.ID, len(deck.Slides))
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Language, "language", "", "Transcript language (defaults to en)")
	cmd.Flags().StringVar(&params.Objective, "objective", "", "Pitch objective (defaults to the current one)")
	cmd.Flags().StringVar(&params.Tone, "tone", "", "Pitch tone (defaults to the current one)")
	cmd.Flags().StringVar(&slides, "slides", "", "Number of slides or a preset (defaults to the current count)")

	return cmd
}

func newPlaceholderCommand(ctx *commandContext) *cobra.Command {
	var (
		params    model.PlaceholderParams
		slides    string
		videoPath string
	)

	cmd := &cobra.Command{
		Use:   "placeholder",
		Short: "Create a demo deck without the processing backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.decks(cmd.Context())
			if err != nil {
				return err
			}

			var video io.Reader
			if videoPath != "" {
				f, err := os.Open(videoPath)
				if err != nil {
					return fmt.Errorf("open video: %w", err)
				}
				defer f.Close()
				video = f
			}

			params.SlideCount = slidesFromFlag(slides)
			if params.SlideCount == 0 {
				params.SlideCount = model.SlideCountForPreset("")
			}

			deck, err := svc.CreatePlaceholder(cmd.Context(), params, video)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created deck %s with %d slides\n", deck.ID, len(deck.Slides))
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Objective, "objective", "", "Pitch objective")
	cmd.Flags().StringVar(&params.Tone, "tone", "", "Pitch tone")
	cmd.Flags().StringVar(&slides, "slides", "", "Number of slides or a preset such as 6-8")
	cmd.Flags().StringVar(&params.VideoURL, "video-url", "", "Video URL recorded on the deck")
	cmd.Flags().StringVar(&videoPath, "video", "", "Video file to store with the deck")

	return cmd
}

func newThemesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List export themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			themes := model.Themes()
			rows := make([][]string, 0, len(themes))
			for _, t := range themes {
				rows = append(rows, []string{t.Name, "#" + t.TitleColor, "#" + t.BodyColor, "#" + t.Background})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Title", "Body", "Background"}, rows))
			return nil
		},
	}
}

// slidesFromFlag accepts a number or one of the dashboard presets. Empty
// means the service default.
func slidesFromFlag(v string) int {
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return model.SlideCountForPreset(v)
}

func formatCreated(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
