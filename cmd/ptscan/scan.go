package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/snapshot"
)

func scanCmd() *cobra.Command {
	var alignment int
	var length int
	var tolerance float64

	cmd := &cobra.Command{
		Use:   "scan <pid> <type> <predicate> [value]",
		Short: "Attach, take a snapshot, and apply the first scan predicate",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid pid %q: %w", args[0], err)
			}
			predicate, err := datatype.ParseScanCompareType(args[2])
			if err != nil {
				return err
			}
			var value string
			if len(args) == 4 {
				value = args[3]
			}

			s := newSession()
			ctx := context.Background()
			if err := s.attach(ctx, pid); err != nil {
				return err
			}
			defer s.reader.Detach(s.proc)

			s.refresh(ctx)

			meta := datatype.DataTypeMetaData{Length: length}
			immediate, delta, err := resolveValue(s.reg, args[1], meta, predicate, value)
			if err != nil {
				return err
			}

			align := snapshot.Alignment(alignment)
			if !align.Valid() {
				return fmt.Errorf("invalid alignment %d", alignment)
			}

			tol := datatype.FloatingPointTolerance(tolerance)
			if err := s.dispatcher.ScanSnapshot(ctx, s.snap, args[1], meta, align, predicate, immediate, delta, tol); err != nil {
				return err
			}

			printFilters(s.snap, args[1])
			return nil
		},
	}

	cmd.Flags().IntVar(&alignment, "alignment", 1, "candidate address stride (1, 2, 4, or 8)")
	cmd.Flags().IntVar(&length, "length", 0, "element length for string_utf8/byte_array types")
	cmd.Flags().Float64Var(&tolerance, "tolerance", float64(datatype.DefaultFloatTolerance), "floating point equality tolerance")
	return cmd
}

// resolveValue decodes a CLI value string into the immediate or delta
// DataValue a predicate needs, or returns both nil for a relative
// predicate that needs neither.
func resolveValue(reg *datatype.Registry, typeID string, meta datatype.DataTypeMetaData, predicate datatype.ScanCompareType, value string) (immediate, delta *datatype.DataValue, err error) {
	if !predicate.NeedsValue() {
		return nil, nil, nil
	}
	if value == "" {
		return nil, nil, fmt.Errorf("predicate %s requires a value", predicate)
	}

	ref := datatype.DataTypeRef{ID: typeID, Metadata: meta}
	dt, err := ref.Resolve(reg)
	if err != nil {
		return nil, nil, err
	}

	dv, err := dt.Deanonymize(meta, parseAnonymousValue(value))
	if err != nil {
		return nil, nil, err
	}

	if predicate.IsDelta() {
		return nil, &dv, nil
	}
	return &dv, nil, nil
}

func parseAnonymousValue(s string) datatype.AnonymousValue {
	switch {
	case len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X"):
		return datatype.AnonymousValue{Kind: datatype.Hex, Text: s[2:]}
	case len(s) > 2 && (s[:2] == "0b" || s[:2] == "0B"):
		return datatype.AnonymousValue{Kind: datatype.Binary, Text: s[2:]}
	default:
		return datatype.AnonymousValue{Kind: datatype.Decimal, Text: s}
	}
}

func printFilters(snap *snapshot.Snapshot, typeID string) {
	total := snap.TotalFilterCount(typeID)
	fmt.Printf("%d candidate filters remain\n", total)
	for _, region := range snap.Regions {
		coll, ok := region.ScanResults.ForType(typeID)
		if !ok {
			continue
		}
		for _, f := range coll.All() {
			fmt.Printf("  0x%x (%d bytes)\n", f.Base, f.Size)
		}
	}
}
