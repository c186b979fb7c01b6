package cmd

import (
	"fmt"
	"strings"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"bcdis/internal/bcdis/log"
	"bcdis/internal/bytecode"
	"bcdis/internal/disasm"
	"bcdis/internal/logging"
	"bcdis/internal/ui/colorize"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Follow a capture log and disassemble new blobs",
	Long: `Watch follows a growing capture log, one base64 bytecode blob per
line, and prints the instruction trace for every new blob as it arrives.
A blob that fails to decode is logged and skipped; watching continues.`,
	Example: `
# Follow a live capture log
bcdis watch /path/to/captures.log
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		log.Setup(debug)

		logger := logging.NewLogger()
		defer logger.Close()

		t, err := tail.TailFile(args[0], tail.Config{
			Follow:    true,
			ReOpen:    true,
			MustExist: true,
			Logger:    tail.DiscardingLogger,
		})
		if err != nil {
			return fmt.Errorf("failed to follow capture log: %w", err)
		}
		defer t.Cleanup()

		blobNum := 0
		for line := range t.Lines {
			if line.Err != nil {
				logger.Error("Tail error", "error", line.Err)
				continue
			}
			text := strings.TrimSpace(line.Text)
			if text == "" {
				continue
			}
			blobNum++

			data, err := bytecode.Decode(text)
			if err != nil {
				logger.Error("Skipping blob", "blob", blobNum, "error", err)
				continue
			}

			logger.Info("Disassembling blob", "blob", blobNum, "size", len(data))
			fmt.Printf("; blob %d (%d bytes)\n", blobNum, len(data))

			d := disasm.New(data)
			d.OnEmit(func(in disasm.Inst) {
				fmt.Println(colorize.TraceLine(in.String()))
			})
			if err := d.Run(); err != nil {
				// Keep the partial trace that was already printed
				logger.Error("Disassembly aborted", "blob", blobNum, "error", err)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
