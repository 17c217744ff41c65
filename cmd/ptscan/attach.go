package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func attachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <pid>",
		Short: "Attach to a process and report its readable virtual memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid pid %q: %w", args[0], err)
			}

			s := newSession()
			ctx := context.Background()
			if err := s.attach(ctx, pid); err != nil {
				return err
			}
			defer s.reader.Detach(s.proc)

			var total uint64
			for _, r := range s.snap.Regions {
				total += r.Region.Size
			}
			fmt.Printf("attached to pid %d: %d readable regions, %d bytes\n", pid, len(s.snap.Regions), total)
			return nil
		},
	}
}
