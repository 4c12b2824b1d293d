// Package cli handles cmd line input for debugging searches in real time.
//
// A plain line is searched. Lines starting with a command run it instead:
//
//	:s mandasi     spelling suggestions
//	:c ma          prefix completion
//	:x rice        every pass match before dedup
//	:stats         index statistics
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/foodserve/internal/logger"
	"github.com/bastiangx/foodserve/internal/utils"
	"github.com/bastiangx/foodserve/pkg/search"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	kindStyle = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#797593", Dark: "#908caa"})
)

// InputHandler reads queries line by line and prints what the engine
// returns for them.
type InputHandler struct {
	searcher     search.ISearcher
	limit        int
	showScores   bool
	requestCount int
	in           io.Reader
	out          *log.Logger
}

// NewInputHandler creates a handler reading stdin and printing to stderr.
func NewInputHandler(searcher search.ISearcher, limit int, showScores bool) *InputHandler {
	return NewInputHandlerWithIO(searcher, limit, showScores, os.Stdin, os.Stderr)
}

// NewInputHandlerWithIO creates a handler over the given reader and writer.
func NewInputHandlerWithIO(searcher search.ISearcher, limit int, showScores bool, in io.Reader, out io.Writer) *InputHandler {
	if limit <= 0 {
		limit = search.DefaultMaxResults
	}
	return &InputHandler{
		searcher:   searcher,
		limit:      limit,
		showScores: showScores,
		in:         in,
		out:        logger.NewWithConfig(out, "", log.DebugLevel, false, false, log.TextFormatter),
	}
}

// Start begins the interface loop. It returns nil when the input ends.
func (h *InputHandler) Start() error {
	h.out.Print("foodserve CLI")
	h.out.Print("type a food and press Enter (:s suggest, :c complete, :x explain, :stats; Ctrl+C to exit):")

	scanner := bufio.NewScanner(h.in)
	for {
		h.out.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput runs one line.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	start := time.Now()

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":s":
		h.printSuggestions(arg, h.searcher.Suggest(arg, h.limit))
	case ":c":
		h.printCompletions(arg, h.searcher.Complete(arg, h.limit))
	case ":x":
		explainer, ok := h.searcher.(interface{ Explain(string) []search.Match })
		if !ok {
			log.Warn("Explain is not supported by this engine")
			return
		}
		h.printMatches(arg, explainer.Explain(arg))
	case ":stats":
		stats := h.searcher.Stats()
		h.out.Printf("terms: %d  postings: %d  entities: %d", stats["terms"], stats["postings"], stats["entities"])
	default:
		if utils.IsRepetitive(line) {
			log.Debugf("Repetitive query: '%s'", line)
		}
		h.printMatches(line, h.searcher.Search(line, search.WithLimit(h.limit)))
	}

	log.Debugf("Took [ %v ] for '%s'", time.Since(start), line)
}

func (h *InputHandler) printMatches(query string, matches []search.Match) {
	if len(matches) == 0 {
		h.out.Printf("No results found for '%s'", query)
		return
	}
	h.out.Printf("Found %d results for '%s':", len(matches), query)
	for i, m := range matches {
		line := fmt.Sprintf("%2d. %-32s %s", i+1, nameStyle.Render(m.Entity), kindStyle.Render(m.Kind))
		if h.showScores {
			line += fmt.Sprintf("  (score: %.3f, %s, term: %q)", m.Score, search.Relevance(m.Score), m.Term)
		}
		h.out.Print(line)
	}
}

func (h *InputHandler) printSuggestions(query string, suggestions []search.Suggestion) {
	if len(suggestions) == 0 {
		h.out.Printf("No suggestions for '%s'", query)
		return
	}
	h.out.Printf("Did you mean:")
	for i, s := range suggestions {
		line := fmt.Sprintf("%2d. %-32s %s", i+1, nameStyle.Render(s.Text), kindStyle.Render(s.Kind))
		if h.showScores {
			line += fmt.Sprintf("  (similarity: %.3f)", s.Similarity)
		}
		h.out.Print(line)
	}
}

func (h *InputHandler) printCompletions(prefix string, completions []search.Completion) {
	if len(completions) == 0 {
		h.out.Printf("No completions for '%s'", prefix)
		return
	}
	for i, c := range completions {
		line := fmt.Sprintf("%2d. %s", i+1, nameStyle.Render(c.Term))
		if h.showScores {
			line += fmt.Sprintf("  (weight: %.1f, foods: %d)", c.Score, c.Entities)
		}
		h.out.Print(line)
	}
}
