// Package textproc applies transformations to note text: rule-based cleanup
// of transcriptions, list reordering, and LLM-backed operations.
package textproc

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/quillvault/quill/internal/errors"
)

// Operation identifies a text transformation.
type Operation string

const (
	OpCleanTranscription Operation = "clean-transcription"
	OpReorderList        Operation = "reorder-list"
	OpSummarize          Operation = "summarize"
	OpCustomPrompt       Operation = "custom-prompt"
)

// allOperations fixes the order reported by Operations and OperationInfo.
var allOperations = []Operation{
	OpCleanTranscription,
	OpReorderList,
	OpSummarize,
	OpCustomPrompt,
}

// Transformer executes an instruction against text, typically via an LLM.
type Transformer interface {
	Transform(ctx context.Context, instruction, text string) (string, error)
}

// Options carries operation-specific parameters.
type Options struct {
	// Order controls reorder-list: "asc" (default), "desc", or "reverse".
	Order string `json:"order,omitempty"`
	// Prompt is the instruction for custom-prompt.
	Prompt string `json:"prompt,omitempty"`
}

// Result is the outcome of a processing operation.
type Result struct {
	ProcessedText  string    `json:"processed_text"`
	Operation      Operation `json:"operation"`
	OriginalLength int       `json:"original_length"`
	ResultLength   int       `json:"result_length"`
}

// Info describes one operation for discovery endpoints.
type Info struct {
	ID          Operation `json:"id"`
	RequiresLLM bool      `json:"requires_llm"`
	Available   bool      `json:"available"`
}

// Service dispatches text operations. llm may be nil, which leaves the
// rule-based operations working and the LLM-backed ones unavailable.
type Service struct {
	llm Transformer
}

func NewService(llm Transformer) *Service {
	return &Service{llm: llm}
}

// Process runs op against text and reports the result with length metadata.
func (s *Service) Process(ctx context.Context, op Operation, text string, opts Options) (*Result, error) {
	var (
		out string
		err error
	)
	switch op {
	case OpCleanTranscription:
		out = cleanTranscription(text)
	case OpReorderList:
		out = reorderList(text, opts.Order)
	case OpSummarize:
		out, err = s.summarize(ctx, text)
	case OpCustomPrompt:
		out, err = s.customPrompt(ctx, text, opts.Prompt)
	default:
		return nil, errors.NewInvalidRequest("unknown operation: " + string(op))
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		ProcessedText:  out,
		Operation:      op,
		OriginalLength: len(text),
		ResultLength:   len(out),
	}, nil
}

// Operations returns the operation IDs in a stable order.
func (s *Service) Operations() []Operation {
	ops := make([]Operation, len(allOperations))
	copy(ops, allOperations)
	return ops
}

// OperationInfo reports each operation's LLM requirement and availability.
func (s *Service) OperationInfo() []Info {
	infos := make([]Info, 0, len(allOperations))
	for _, op := range allOperations {
		requiresLLM := op == OpSummarize || op == OpCustomPrompt
		infos = append(infos, Info{
			ID:          op,
			RequiresLLM: requiresLLM,
			Available:   !requiresLLM || s.llm != nil,
		})
	}
	return infos
}

func (s *Service) summarize(ctx context.Context, text string) (string, error) {
	if s.llm == nil {
		return "", errors.NewUnavailable("summarization requires an LLM backend")
	}
	return s.llm.Transform(ctx, "Summarize the following text concisely. Return only the summary.", text)
}

func (s *Service) customPrompt(ctx context.Context, text, prompt string) (string, error) {
	if s.llm == nil {
		return "", errors.NewUnavailable("custom prompts require an LLM backend")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", errors.NewInvalidRequest("custom-prompt requires a prompt option")
	}
	return s.llm.Transform(ctx, prompt, text)
}

var (
	fillerWords = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:um+|uh+)\b`),
		regexp.MustCompile(`(?i)\b(?:you know,?\s*)+`),
		regexp.MustCompile(`(?i)\b(?:i mean,?\s*)+`),
		regexp.MustCompile(`(?i)\b(?:basically,?\s*)+`),
		regexp.MustCompile(`(?i)\b(?:actually,?\s*)+`),
		regexp.MustCompile(`(?i)\b(?:literally,?\s*)+`),
		regexp.MustCompile(`(?i)\blike,\s*`),
	}
	// "so"/"well" count as filler only before a capitalized sentence.
	sentenceFiller = regexp.MustCompile(`\b(?:(?i:so|well),?\s+)+([A-Z])`)

	runsOfSpace    = regexp.MustCompile(`[ \t]+`)
	runsOfNewlines = regexp.MustCompile(`\n\s*\n\s*\n+`)

	spaceBeforePunct = regexp.MustCompile(`[ \t]+([.,!?;:])`)
	missingSpace     = regexp.MustCompile(`([.,!?;:])([A-Za-z])`)
	duplicatePunct   = []*regexp.Regexp{
		regexp.MustCompile(`\.(?:\s*\.)+`),
		regexp.MustCompile(`!(?:\s*!)+`),
		regexp.MustCompile(`\?(?:\s*\?)+`),
	}

	sentenceStart = regexp.MustCompile(`[.!?]\s+[a-z]`)
)

// cleanTranscription strips filler words, normalizes whitespace, repairs
// punctuation spacing, and capitalizes sentence starts.
func cleanTranscription(text string) string {
	result := text

	for _, re := range fillerWords {
		result = re.ReplaceAllString(result, "")
	}
	result = sentenceFiller.ReplaceAllString(result, "$1")

	result = runsOfSpace.ReplaceAllString(result, " ")
	result = runsOfNewlines.ReplaceAllString(result, "\n\n")

	result = spaceBeforePunct.ReplaceAllString(result, "$1")
	result = missingSpace.ReplaceAllString(result, "$1 $2")
	for i, re := range duplicatePunct {
		result = re.ReplaceAllString(result, string(".!?"[i]))
	}

	result = sentenceStart.ReplaceAllStringFunc(result, func(m string) string {
		return m[:len(m)-1] + strings.ToUpper(m[len(m)-1:])
	})

	// Trim before capitalizing so leading whitespace does not shadow
	// the first letter.
	result = strings.TrimSpace(result)

	runes := []rune(result)
	if len(runes) > 0 && unicode.IsLower(runes[0]) {
		runes[0] = unicode.ToUpper(runes[0])
		result = string(runes)
	}

	return result
}

var listPrefix = regexp.MustCompile(`^(\s*(?:[-*•]\s*|\d+[.)]\s*))(.*)`)

// reorderList sorts list lines by their content, keeping each line's own
// bullet or number prefix in place.
func reorderList(text, order string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	type item struct {
		prefix  string
		content string
	}
	items := make([]item, 0, len(lines))
	for _, line := range lines {
		if m := listPrefix.FindStringSubmatch(line); m != nil {
			items = append(items, item{prefix: m[1], content: m[2]})
		} else {
			items = append(items, item{content: line})
		}
	}

	switch order {
	case "desc":
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].content) > strings.ToLower(items[j].content)
		})
	case "reverse":
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	default: // asc
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].content) < strings.ToLower(items[j].content)
		})
	}

	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(it.prefix)
		b.WriteString(it.content)
	}
	return b.String()
}
