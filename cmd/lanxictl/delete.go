// ABOUTME: The delete command
// ABOUTME: Removes one recording, or every recording with explicit confirmation
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lanxi-tools/lanxi-go/pkg/lanxi"
)

var deleteAll bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>... | --all",
	Short: "Delete recordings from the device storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		if deleteAll == (len(args) > 0) {
			return fmt.Errorf("give recording ids or --all, not both")
		}

		inst, err := dialInstrument(context.Background())
		if err != nil {
			return err
		}

		if deleteAll {
			fmt.Printf("This deletes every recording on the device. Type %q to continue: ", lanxi.DeleteAllConfirm)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			confirm := strings.TrimSpace(line)
			if err := inst.DeleteAll(context.Background(), confirm); err != nil {
				return err
			}
			fmt.Println("all recordings deleted")
			return nil
		}

		for _, id := range args {
			if err := inst.DeleteRecording(context.Background(), id); err != nil {
				return fmt.Errorf("delete %s: %w", id, err)
			}
			fmt.Printf("deleted %s\n", id)
		}
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "delete every recording on the device")
}
