package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

const askBlockFlag = "block"

var (
	layoutPage int
	layoutJSON bool
	extractAct string
	askBlockID int
)

var layoutCmd = &cobra.Command{
	Use:   "layout [file.pdf]",
	Short: "Show the detected blocks of a PDF",
	Long: `Uploads the PDF to the layout extraction backend and lists the blocks
that support actions, grouped by page. Page numbers are 1-based.`,
	Args: cobra.ExactArgs(1),
	RunE: runLayout,
}

var askCmd = &cobra.Command{
	Use:   "ask [file.pdf] [question]",
	Short: "Ask a question about a PDF",
	Long: `Asks a free-text question about the whole document, or about one block
with --block.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

var extractCmd = &cobra.Command{
	Use:   "extract [file.pdf] [block-id]",
	Short: "Run an action on a block",
	Long: `Runs a block action and prints the transcript entry it produced.

Actions: copy, extract_md, extract_csv, extract_code, extract_image, save_image.
Without --action the block type's first action is used.`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

var cropCmd = &cobra.Command{
	Use:   "crop [file.pdf] [block-id]",
	Short: "Save a block's image",
	Long:  `Renders the block's page, crops the block and saves it as a PNG in the artifacts directory.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runCrop,
}

func init() {
	layoutCmd.Flags().IntVarP(&layoutPage, "page", "p", 0, "only show this page (1-based)")
	layoutCmd.Flags().BoolVar(&layoutJSON, "json", false, "output the layout as JSON")
	askCmd.Flags().IntVarP(&askBlockID, askBlockFlag, "b", 0, "ask about this block id")
	extractCmd.Flags().StringVarP(&extractAct, "action", "a", "", "action to run")

	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(cropCmd)
}

// loadFile ingests path and waits for its layout.
func loadFile(ctx context.Context, path string) (*Services, error) {
	s, err := requireAssistant()
	if err != nil {
		return nil, err
	}
	doc, err := s.Ingestor.FromPath(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := s.Assistant.LoadDocument(ctx, doc); err != nil {
		return nil, errors.New(domain.UserMessage(err))
	}
	if s.Assistant.Layout() == nil {
		return nil, domain.ErrNoLayout
	}
	return s, nil
}

func runLayout(cmd *cobra.Command, args []string) error {
	s, err := loadFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	layout := s.Assistant.Layout()

	if layoutJSON {
		data, err := json.MarshalIndent(layout, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal layout: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("%s: %d pages, %d blocks\n", s.Assistant.Document().Document.Name(), layout.PageCount, len(layout.Blocks))
	for page := 0; page < layout.PageCount; page++ {
		if layoutPage > 0 && page != layoutPage-1 {
			continue
		}
		blocks := s.Assistant.Overlays(page)
		if len(blocks) == 0 {
			continue
		}
		cmd.Println()
		cmd.Printf("Page %d\n", page+1)
		for _, b := range blocks {
			cmd.Printf("  [%d] %-8s %s\n", b.ID, b.Type.Label(), domain.ActionNames(b.Type))
		}
	}
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	s, err := loadFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed(askBlockFlag) {
		if _, err := s.Assistant.Dispatch(cmd.Context(), domain.ActionAsk, askBlockID); err != nil {
			return err
		}
	}

	msg, err := s.Assistant.Submit(cmd.Context(), args[1])
	if err != nil {
		return err
	}
	printEntry(cmd, msg)
	if msg.Error != "" {
		return errors.New(msg.Error)
	}
	return nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	blockID, err := parseBlockID(args[1])
	if err != nil {
		return err
	}
	s, err := loadFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	block, ok := s.Assistant.Layout().Block(blockID)
	if !ok {
		return fmt.Errorf("block %d: %w", blockID, domain.ErrNotFound)
	}

	action, err := domain.ResolveAction(block.Type, extractAct)
	if err != nil {
		return err
	}

	res, err := s.Assistant.Dispatch(cmd.Context(), action, blockID)
	if err != nil {
		return err
	}
	msg, ok := findEntry(s.Assistant.Transcript(), res.MessageID)
	if !ok {
		return errors.New("no preview available for this block")
	}
	printEntry(cmd, msg)
	if msg.Error != "" {
		return errors.New(msg.Error)
	}
	return nil
}

func runCrop(cmd *cobra.Command, args []string) error {
	blockID, err := parseBlockID(args[1])
	if err != nil {
		return err
	}
	s, err := loadFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	res, err := s.Assistant.Dispatch(cmd.Context(), domain.ActionSaveImage, blockID)
	if err != nil {
		return err
	}
	if res.SavedPath == "" {
		return errors.New("could not extract image from block")
	}
	cmd.Printf("Saved %dx%d image to %s\n", res.Image.Width, res.Image.Height, res.SavedPath)
	return nil
}

func parseBlockID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: block id %q is not a number", domain.ErrInvalidInput, s)
	}
	return id, nil
}

func findEntry(msgs []domain.ChatMessage, id string) (domain.ChatMessage, bool) {
	if id == "" {
		return domain.ChatMessage{}, false
	}
	for _, m := range msgs {
		if m.ID == id {
			return m, true
		}
	}
	return domain.ChatMessage{}, false
}

func printEntry(cmd *cobra.Command, msg domain.ChatMessage) {
	cmd.Printf("> %s\n", msg.Text)
	if msg.SavedPath != "" {
		cmd.Printf("  saved: %s\n", msg.SavedPath)
	}
	if msg.Response != "" {
		cmd.Println()
		cmd.Println(msg.Response)
	}
}
