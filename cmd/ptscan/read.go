package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <pid> <address> <length>",
		Short: "Read raw bytes from a process's memory",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid pid %q: %w", args[0], err)
			}
			address, err := strconv.ParseUint(args[1], 0, 64)
			if err != nil {
				return fmt.Errorf("invalid address %q: %w", args[1], err)
			}
			length, err := strconv.Atoi(args[2])
			if err != nil || length <= 0 {
				return fmt.Errorf("invalid length %q", args[2])
			}

			s := newSession()
			ctx := context.Background()
			if err := s.attach(ctx, pid); err != nil {
				return err
			}
			defer s.reader.Detach(s.proc)

			buf := make([]byte, length)
			if !s.reader.ReadBytes(ctx, s.proc, address, buf) {
				return fmt.Errorf("read failed at 0x%x", address)
			}
			fmt.Println(hex.EncodeToString(buf))
			return nil
		},
	}
}
