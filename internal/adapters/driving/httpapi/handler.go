package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

// handler serves the API routes.
type handler struct {
	ports *Ports
}

// documentResponse describes the current document.
type documentResponse struct {
	Loaded     bool   `json:"loaded"`
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	Size       int64  `json:"size,omitempty"`
	IsLoading  bool   `json:"isLoading"`
	Error      string `json:"error,omitempty"`
	Epoch      uint64 `json:"epoch"`
	PageCount  int    `json:"pageCount"`
	BlockCount int    `json:"blockCount"`
}

// overlayResponse is one interactive block with its menu.
type overlayResponse struct {
	Block   domain.LayoutBlock    `json:"block"`
	Label   string                `json:"label"`
	Actions []domain.ActionOption `json:"actions"`
}

type actionRequest struct {
	Action string `json:"action"`
}

// actionResponse describes what a dispatched action produced.
type actionResponse struct {
	Action         domain.Action       `json:"action"`
	MessageID      string              `json:"messageId,omitempty"`
	Image          string              `json:"image,omitempty"`
	ImageWidth     int                 `json:"imageWidth,omitempty"`
	ImageHeight    int                 `json:"imageHeight,omitempty"`
	SavedPath      string              `json:"savedPath,omitempty"`
	AskPromptArmed bool                `json:"askPromptArmed"`
	Entry          *domain.ChatMessage `json:"entry,omitempty"`
}

type submitRequest struct {
	Text string `json:"text"`
}

type askPromptResponse struct {
	Armed  bool               `json:"armed"`
	Markup *domain.MarkupInfo `json:"markupInfo,omitempty"`
}

type settingsResponse struct {
	domain.AppSettings
	TokenConfigured bool `json:"tokenConfigured"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "paperlens"})
}

func (h *handler) documentState() documentResponse {
	state := h.ports.Assistant.Document()
	resp := documentResponse{
		IsLoading: state.IsLoading,
		Error:     state.Error,
		Epoch:     state.Epoch,
	}
	if state.Document != nil {
		resp.Loaded = true
		resp.ID = state.Document.ID()
		resp.Name = state.Document.Name()
		resp.Size = state.Document.Metadata.Size
	}
	if layout := h.ports.Assistant.Layout(); layout != nil {
		resp.PageCount = layout.PageCount
		resp.BlockCount = len(layout.Blocks)
	}
	return resp
}

func (h *handler) getDocument(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.documentState())
}

// uploadDocument ingests a multipart "file" field and extracts its layout.
func (h *handler) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read upload")
		return
	}

	doc, err := h.ports.Ingestor.FromBytes(header.Filename, content, header.Header.Get("Content-Type"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.ports.Assistant.LoadDocument(r.Context(), doc); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.documentState())
}

func (h *handler) clearDocument(w http.ResponseWriter, _ *http.Request) {
	h.ports.Assistant.ClearDocument()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getLayout(w http.ResponseWriter, _ *http.Request) {
	layout := h.ports.Assistant.Layout()
	if layout == nil {
		writeDomainError(w, domain.ErrNoLayout)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

// getOverlays lists the interactive blocks of a 1-based page.
func (h *handler) getOverlays(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil || page < 1 {
		writeError(w, http.StatusBadRequest, "Page numbers start at 1")
		return
	}
	layout := h.ports.Assistant.Layout()
	if layout == nil {
		writeDomainError(w, domain.ErrNoLayout)
		return
	}
	if page > layout.PageCount {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Page %d of %d does not exist", page, layout.PageCount))
		return
	}

	blocks := h.ports.Assistant.Overlays(page - 1)
	out := make([]overlayResponse, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, overlayResponse{Block: b, Label: b.Type.Label(), Actions: domain.ActionsFor(b.Type)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) lookupBlock(w http.ResponseWriter, r *http.Request) (domain.LayoutBlock, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Block id must be a number")
		return domain.LayoutBlock{}, false
	}
	layout := h.ports.Assistant.Layout()
	if layout == nil {
		writeDomainError(w, domain.ErrNoLayout)
		return domain.LayoutBlock{}, false
	}
	block, ok := layout.Block(id)
	if !ok {
		writeDomainError(w, fmt.Errorf("block %d: %w", id, domain.ErrNotFound))
		return domain.LayoutBlock{}, false
	}
	return block, true
}

func (h *handler) getBlockActions(w http.ResponseWriter, r *http.Request) {
	block, ok := h.lookupBlock(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, domain.ActionsFor(block.Type))
}

// dispatchAction runs a block action. An empty action picks the block's
// first non-ask action.
func (h *handler) dispatchAction(w http.ResponseWriter, r *http.Request) {
	block, ok := h.lookupBlock(w, r)
	if !ok {
		return
	}

	var req actionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	action := domain.Action(req.Action)
	if req.Action == "" {
		resolved, err := domain.ResolveAction(block.Type, "")
		if err != nil {
			writeDomainError(w, err)
			return
		}
		action = resolved
	}

	res, err := h.ports.Assistant.Dispatch(r.Context(), action, block.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := actionResponse{
		Action:         action,
		MessageID:      res.MessageID,
		SavedPath:      res.SavedPath,
		AskPromptArmed: res.AskPromptArmed,
	}
	if res.Image != nil {
		resp.Image = res.Image.DataURL()
		resp.ImageWidth = res.Image.Width
		resp.ImageHeight = res.Image.Height
	}
	for _, m := range h.ports.Assistant.Transcript() {
		if m.ID == res.MessageID {
			entry := m
			resp.Entry = &entry
			break
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) getTranscript(w http.ResponseWriter, _ *http.Request) {
	msgs := h.ports.Assistant.Transcript()
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"messages":     msgs,
		"inputEnabled": h.ports.Assistant.InputEnabled(),
	})
}

func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	msg, err := h.ports.Assistant.Submit(r.Context(), req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *handler) copyEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.ports.Assistant.CopyEntry(mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getAskPrompt(w http.ResponseWriter, _ *http.Request) {
	markup, armed := h.ports.Assistant.AskPrompt()
	resp := askPromptResponse{Armed: armed}
	if armed {
		resp.Markup = &markup
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) cancelAskPrompt(w http.ResponseWriter, _ *http.Request) {
	h.ports.Assistant.CancelAskPrompt()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getNotifications(w http.ResponseWriter, _ *http.Request) {
	out := []domain.Notification{}
	if h.ports.Notifications != nil {
		out = append(out, h.ports.Notifications.Active(time.Now())...)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) dismissNotification(w http.ResponseWriter, r *http.Request) {
	if h.ports.Notifications != nil {
		h.ports.Notifications.Dismiss(mux.Vars(r)["id"])
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) writeSettings(w http.ResponseWriter) {
	settings, err := h.ports.Settings.Get()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{
		AppSettings:     *settings,
		TokenConfigured: settings.BackendToken != "",
	})
}

func (h *handler) getSettings(w http.ResponseWriter, _ *http.Request) {
	if h.ports.Settings == nil {
		writeError(w, http.StatusNotImplemented, "Settings are not available")
		return
	}
	h.writeSettings(w)
}

// updateSettings applies a JSON object of setting keys to string values.
func (h *handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	if h.ports.Settings == nil {
		writeError(w, http.StatusNotImplemented, "Settings are not available")
		return
	}
	var values map[string]string
	if err := decodeBody(r, &values); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := h.ports.Settings.Set(k, values[k]); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	h.writeSettings(w)
}

func (h *handler) resetSettings(w http.ResponseWriter, _ *http.Request) {
	if h.ports.Settings == nil {
		writeError(w, http.StatusNotImplemented, "Settings are not available")
		return
	}
	if err := h.ports.Settings.Reset(); err != nil {
		writeDomainError(w, err)
		return
	}
	h.writeSettings(w)
}

// decodeBody decodes a JSON body. An empty body leaves v unchanged.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("invalid JSON body: %w", err)
}
