package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/EPronovost/eincheck/pkg/shape"
	"github.com/EPronovost/eincheck/pkg/spec"
)

// Get an expected flag, or panic if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected string-array flag, or panic if an error arises.
func getStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Parse a comma-separated shape such as "3,4,5", where "_" marks a
// dimension of unknown size.
func parseShape(s string) (shape.Shape, error) {
	if strings.TrimSpace(s) == "" {
		return shape.Shape{}, nil
	}
	//
	pieces := strings.Split(s, ",")
	out := make(shape.Shape, len(pieces))

	for i, piece := range pieces {
		piece = strings.TrimSpace(piece)

		if piece == "_" {
			out[i] = shape.UnknownDim()
			continue
		}

		size, err := strconv.Atoi(piece)
		if err != nil || size < 0 {
			return nil, fmt.Errorf("invalid dimension %q in shape %q", piece, s)
		}

		out[i] = shape.KnownDim(size)
	}
	//
	return out, nil
}

// Parse a seed binding such as "i=3" or "batch=2,3".
func parseBinding(s string) (string, spec.Value, error) {
	name, valueStr, ok := strings.Cut(s, "=")
	if !ok {
		return "", spec.Value{}, fmt.Errorf("invalid binding %q, expected name=value", s)
	}
	//
	if !strings.Contains(valueStr, ",") {
		if x, err := strconv.Atoi(valueStr); err == nil {
			return name, spec.IntValue(x), nil
		}
	}
	//
	pieces := strings.Split(valueStr, ",")
	dims := make([]int, len(pieces))

	for i, piece := range pieces {
		x, err := strconv.Atoi(strings.TrimSpace(piece))
		if err != nil {
			return "", spec.Value{}, fmt.Errorf("invalid binding value %q", valueStr)
		}

		dims[i] = x
	}
	//
	return name, spec.TupleValue(dims...), nil
}
