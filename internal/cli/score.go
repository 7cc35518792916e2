package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysguard/seqscore/internal/domain/valueobject"
)

func (a *app) newScoreCommand() *cobra.Command {
	var (
		fromStdin bool
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "score [SEQUENCE]",
		Short: "Print the malicious-class probability of a sequence",
		Example: `  seqscore score 59,2,3,0
  cat trace.csv | seqscore score --stdin --threshold 0.6`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sequence, err := a.readSequence(args, fromStdin)
			if err != nil {
				return err
			}

			scorer, err := a.scorer(a.logger())
			if err != nil {
				return err
			}

			p, err := scorer.Score(cmd.Context(), sequence)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("threshold") {
				if threshold < 0 || threshold > 1 {
					return fmt.Errorf("threshold must be between 0 and 1, got %v", threshold)
				}
				_, err = fmt.Fprintf(a.stdout, "%v %s\n", p, valueobject.VerdictFromProbability(p, threshold))
				return err
			}
			_, err = fmt.Fprintln(a.stdout, p)
			return err
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the sequence from standard input")
	cmd.Flags().Float64Var(&threshold, "threshold", valueobject.DefaultMaliciousThreshold, "also print the verdict for this threshold")
	return cmd
}

func (a *app) readSequence(args []string, fromStdin bool) (string, error) {
	switch {
	case fromStdin && len(args) > 0:
		return "", errors.New("pass a sequence argument or --stdin, not both")
	case fromStdin:
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimRight(string(b), "\r\n"), nil
	case len(args) == 1:
		return args[0], nil
	default:
		return "", errors.New("a sequence argument or --stdin is required")
	}
}
