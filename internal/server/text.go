package server

import (
	"context"
	"net/http"

	"github.com/quillvault/quill/internal/errors"
	"github.com/quillvault/quill/internal/textproc"
)

// SelectionModifier rewrites a selected passage per an instruction, given
// its surrounding context.
type SelectionModifier interface {
	IsConfigured() bool
	ModifySelection(ctx context.Context, instruction, selected, before, after string) (string, error)
}

func (h *Handlers) HandleProcessText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Operation string           `json:"operation"`
		Text      *string          `json:"text"`
		Options   textproc.Options `json:"options"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Operation == "" {
		writeError(w, errors.NewInvalidRequest("operation is required"))
		return
	}
	if req.Text == nil {
		writeError(w, errors.NewInvalidRequest("text is required"))
		return
	}

	result, err := h.text.Process(r.Context(), textproc.Operation(req.Operation), *req.Text, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	h.tracer.Write("text.process", map[string]any{
		"operation": req.Operation,
		"input":     *req.Text,
		"output":    result.ProcessedText,
		"options":   req.Options,
	})

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) HandleModifySelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Instruction   string  `json:"instruction"`
		SelectedText  *string `json:"selected_text"`
		ContextBefore string  `json:"context_before"`
		ContextAfter  string  `json:"context_after"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Instruction == "" {
		writeError(w, errors.NewInvalidRequest("instruction is required"))
		return
	}
	if req.SelectedText == nil {
		writeError(w, errors.NewInvalidRequest("selected_text is required"))
		return
	}
	if h.modifier == nil || !h.modifier.IsConfigured() {
		writeError(w, errors.NewUnavailable("LLM modification is not configured"))
		return
	}

	out, err := h.modifier.ModifySelection(r.Context(), req.Instruction, *req.SelectedText, req.ContextBefore, req.ContextAfter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"modified_text": out,
	})
}

func (h *Handlers) HandleListOperations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"operations": h.text.Operations(),
	})
}

func (h *Handlers) HandleOperationInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"operations": h.text.OperationInfo(),
	})
}
