package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

// LoadDocumentInput is the input schema for the load_document tool.
type LoadDocumentInput struct {
	Path string `json:"path" jsonschema:"absolute path of the PDF to open"`
}

// LoadDocumentOutput describes the loaded document.
type LoadDocumentOutput struct {
	DocumentID string `json:"document_id"`
	Name       string `json:"name"`
	PageCount  int    `json:"page_count"`
	BlockCount int    `json:"block_count"`
}

// ListBlocksInput is the input schema for the list_blocks tool.
type ListBlocksInput struct {
	Page int `json:"page,omitempty" jsonschema:"1-based page to list (default all pages)"`
}

// ListBlocksOutput lists the interactive blocks of the current document.
type ListBlocksOutput struct {
	Blocks []BlockOutput `json:"blocks"`
	Count  int           `json:"count"`
}

// BlockOutput is one interactive block.
type BlockOutput struct {
	ID      int      `json:"id"`
	Type    string   `json:"type"`
	Page    int      `json:"page"`
	Actions []string `json:"actions"`
	Text    string   `json:"text,omitempty"`
}

// AskQuestionInput is the input schema for the ask_question tool.
type AskQuestionInput struct {
	Question string `json:"question" jsonschema:"the question to ask"`
	BlockID  int    `json:"block_id,omitempty" jsonschema:"ask about this block instead of the whole document"`
}

// EntryOutput is a settled transcript entry.
type EntryOutput struct {
	MessageID string `json:"message_id"`
	Text      string `json:"text"`
	Response  string `json:"response"`
	Error     string `json:"error,omitempty"`
	SavedPath string `json:"saved_path,omitempty"`
}

// ExtractBlockInput is the input schema for the extract_block tool.
type ExtractBlockInput struct {
	BlockID int    `json:"block_id" jsonschema:"id of the block"`
	Action  string `json:"action,omitempty" jsonschema:"copy, extract_md, extract_csv, extract_code, extract_image or save_image (default: the block's first action)"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load_document",
		Description: "Open a PDF and extract its layout",
	}, s.handleLoadDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_blocks",
		Description: "List the interactive blocks (tables, pictures, charts, formulas) of the open PDF",
	}, s.handleListBlocks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Ask a question about the open PDF or one of its blocks",
	}, s.handleAskQuestion)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_block",
		Description: "Run a block action such as extracting a table as Markdown or CSV",
	}, s.handleExtractBlock)
}

func (s *Server) handleLoadDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadDocumentInput,
) (*mcp.CallToolResult, LoadDocumentOutput, error) {
	doc, err := s.ports.Ingestor.FromPath(ctx, input.Path)
	if err != nil {
		return nil, LoadDocumentOutput{}, errors.New(domain.UserMessage(err))
	}
	if err := s.ports.Assistant.LoadDocument(ctx, doc); err != nil {
		return nil, LoadDocumentOutput{}, errors.New(domain.UserMessage(err))
	}

	output := LoadDocumentOutput{DocumentID: doc.ID(), Name: doc.Name()}
	if layout := s.ports.Assistant.Layout(); layout != nil {
		output.PageCount = layout.PageCount
		output.BlockCount = len(layout.Blocks)
	}
	return nil, output, nil
}

func (s *Server) handleListBlocks(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ListBlocksInput,
) (*mcp.CallToolResult, ListBlocksOutput, error) {
	layout := s.ports.Assistant.Layout()
	if layout == nil {
		return nil, ListBlocksOutput{}, domain.ErrNoLayout
	}

	output := ListBlocksOutput{Blocks: []BlockOutput{}}
	for page := 0; page < layout.PageCount; page++ {
		if input.Page > 0 && page != input.Page-1 {
			continue
		}
		for _, b := range s.ports.Assistant.Overlays(page) {
			output.Blocks = append(output.Blocks, blockOutput(b))
		}
	}
	output.Count = len(output.Blocks)
	return nil, output, nil
}

func (s *Server) handleAskQuestion(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskQuestionInput,
) (*mcp.CallToolResult, EntryOutput, error) {
	if input.BlockID > 0 {
		if _, err := s.ports.Assistant.Dispatch(ctx, domain.ActionAsk, input.BlockID); err != nil {
			return nil, EntryOutput{}, err
		}
	}

	msg, err := s.ports.Assistant.Submit(ctx, input.Question)
	if err != nil {
		if input.BlockID > 0 {
			s.ports.Assistant.CancelAskPrompt()
		}
		return nil, EntryOutput{}, err
	}
	return nil, entryOutput(msg), nil
}

func (s *Server) handleExtractBlock(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractBlockInput,
) (*mcp.CallToolResult, EntryOutput, error) {
	layout := s.ports.Assistant.Layout()
	if layout == nil {
		return nil, EntryOutput{}, domain.ErrNoLayout
	}
	block, ok := layout.Block(input.BlockID)
	if !ok {
		return nil, EntryOutput{}, fmt.Errorf("block %d: %w", input.BlockID, domain.ErrNotFound)
	}

	action, err := domain.ResolveAction(block.Type, input.Action)
	if err != nil {
		return nil, EntryOutput{}, err
	}
	if action == domain.ActionAsk {
		return nil, EntryOutput{}, fmt.Errorf("%w: use ask_question to ask about a block", domain.ErrInvalidInput)
	}

	res, err := s.ports.Assistant.Dispatch(ctx, action, input.BlockID)
	if err != nil {
		return nil, EntryOutput{}, err
	}
	for _, m := range s.ports.Assistant.Transcript() {
		if m.ID == res.MessageID {
			out := entryOutput(m)
			return previewResult(m, out), out, nil
		}
	}
	return nil, EntryOutput{}, fmt.Errorf("no transcript entry for %s on block %d", action, input.BlockID)
}

// previewResult attaches the block preview as image content. It returns nil
// when the entry has no preview so the SDK fills in the JSON text content.
func previewResult(m domain.ChatMessage, out EntryOutput) *mcp.CallToolResult {
	if m.Markup == nil || m.Markup.ImageData == "" {
		return nil
	}
	png, err := domain.DecodeDataURL(m.Markup.ImageData)
	if err != nil {
		return nil
	}
	text, err := json.Marshal(out)
	if err != nil {
		return nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(text)},
			&mcp.ImageContent{Data: png, MIMEType: "image/png"},
		},
	}
}

func blockOutput(b domain.LayoutBlock) BlockOutput {
	options := domain.ActionsFor(b.Type)
	actions := make([]string, 0, len(options))
	for _, o := range options {
		actions = append(actions, string(o.Action))
	}
	return BlockOutput{
		ID:      b.ID,
		Type:    string(b.Type),
		Page:    b.PageNumber + 1,
		Actions: actions,
		Text:    b.TextContent,
	}
}

func entryOutput(m domain.ChatMessage) EntryOutput {
	return EntryOutput{
		MessageID: m.ID,
		Text:      m.Text,
		Response:  m.Response,
		Error:     m.Error,
		SavedPath: m.SavedPath,
	}
}
