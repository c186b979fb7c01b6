package cmd

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"bcdis/internal/bcdis/log"
	"bcdis/internal/bytecode"
	"bcdis/internal/disasm"
	"bcdis/internal/ui/colorize"
)

// JSONOutput represents the JSON output structure for regression testing
type JSONOutput struct {
	Digest       string      `json:"digest"`
	Size         int         `json:"size"`
	Instructions []TraceLine `json:"instructions"`
	Error        string      `json:"error,omitempty"`
}

// TraceLine represents one decoded instruction in JSON output
type TraceLine struct {
	Offset string `json:"offset"`
	Text   string `json:"text"`
}

// capture holds one loaded bytecode capture: the raw file bytes' digest
// and the transport-decoded bytecode stream.
type capture struct {
	path   string
	digest string
	data   []byte
}

// loadCapture reads a capture file and decodes its base64 payload. The
// digest covers the file bytes as stored, not the decoded stream.
func loadCapture(path string) (*capture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}
	data, err := bytecode.Decode(string(raw))
	if err != nil {
		return nil, err
	}
	return &capture{
		path:   path,
		digest: fmt.Sprintf("%x", sha256.Sum256(raw)),
		data:   data,
	}, nil
}

func runJSON(path string) error {
	cap, err := loadCapture(path)
	if err != nil {
		return err
	}

	output := JSONOutput{
		Digest:       cap.digest,
		Size:         len(cap.data),
		Instructions: []TraceLine{},
	}

	d := disasm.New(cap.data)
	d.OnEmit(func(in disasm.Inst) {
		output.Instructions = append(output.Instructions, TraceLine{
			Offset: fmt.Sprintf("0x%x", in.Offset),
			Text:   in.Text,
		})
	})
	// A decode failure is part of the regression surface: keep the
	// instructions produced before the abort and record the error.
	if err := d.Run(); err != nil {
		output.Error = err.Error()
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %v", err)
	}

	fmt.Println(string(jsonData))
	return nil
}

func runNoTUI(path string) error {
	cap, err := loadCapture(path)
	if err != nil {
		return err
	}

	// Build summary header
	fmt.Printf("; %s\n", path)
	fmt.Printf("; %s\n", cap.digest)
	fmt.Printf("; %d bytecode bytes\n\n", len(cap.data))

	d := disasm.New(cap.data)
	d.OnEmit(func(in disasm.Inst) {
		fmt.Println(colorize.TraceLine(in.String()))
	})
	if err := d.Run(); err != nil {
		return fmt.Errorf("disassembly aborted: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("no-tui", "n", false, "Print the trace without TUI")
	rootCmd.Flags().BoolP("json", "j", false, "Output results as JSON for regression testing")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")
}

var rootCmd = &cobra.Command{
	Use:   "bcdis [file]",
	Short: "Terminal-based bytecode disassembler",
	Long: `Bcdis is a terminal-based disassembler for captured virtual machine
bytecode. It decodes base64 captures into a readable instruction trace and
provides an interactive TUI for exploring the result.`,
	Example: `
# Disassemble a capture interactively
bcdis /path/to/capture.txt

# Print the trace to stdout
bcdis -n /path/to/capture.txt
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		log.Setup(debug)

		// Setup CPU profiling if requested
		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %v", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %v", err)
			}
			defer pprof.StopCPUProfile()
		}

		// Setup memory profiling if requested
		memprofile, _ := cmd.Flags().GetString("memprofile")
		if memprofile != "" {
			defer func() {
				f, err := os.Create(memprofile)
				if err != nil {
					fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
					return
				}
				defer f.Close()
				if err := pprof.WriteHeapProfile(f); err != nil {
					fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
				}
			}()
		}

		file := args[0]

		// Get absolute path
		absPath, err := pathpkg.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path: %v", err)
		}

		// Check if file exists
		if _, err := os.Stat(absPath); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", file)
			}
			return fmt.Errorf("cannot access file: %v", err)
		}

		// Check for flags
		noTUI, _ := cmd.Flags().GetBool("no-tui")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		// Also use no-tui mode when output is being piped
		if !term.IsTerminal(os.Stdout.Fd()) {
			noTUI = true
			os.Setenv("BCDIS_NO_COLOR", "1")
		}

		// Disable coloring when using --no-tui to avoid garbled output
		if noTUI {
			os.Setenv("BCDIS_NO_COLOR", "1")
		}

		if jsonOutput {
			// JSON output mode
			return runJSON(absPath)
		}

		if noTUI {
			// Non-interactive mode
			return runNoTUI(absPath)
		}

		// Set up the TUI.
		program := tea.NewProgram(
			NewModel(absPath),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
			// Mouse tracking disabled to allow native text selection
		)

		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

func Execute() {
	// Check if --no-tui or --json is present, or if output is being piped,
	// to bypass fang's automatic markdown rendering
	noTUI := false
	for _, arg := range os.Args[1:] {
		if arg == "--no-tui" || arg == "-n" || arg == "--json" || arg == "-j" {
			noTUI = true
			break
		}
	}

	// Also bypass fang when output is being piped
	if !noTUI && !term.IsTerminal(os.Stdout.Fd()) {
		noTUI = true
	}

	if noTUI {
		// Use cobra directly to avoid fang's automatic markdown rendering
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
	} else {
		// Use fang for enhanced CLI experience with markdown rendering
		if err := fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		); err != nil {
			os.Exit(1)
		}
	}
}
