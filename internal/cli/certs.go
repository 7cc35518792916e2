package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sysguard/seqscore/pkg/tlsutil"
)

func (a *app) newDevCertsCommand() *cobra.Command {
	var (
		outDir string
		hosts  []string
	)

	cmd := &cobra.Command{
		Use:   "dev-certs",
		Short: "Write a throwaway CA and server certificate for local TLS",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := tlsutil.GenerateDevCerts(hosts, outDir); err != nil {
				return err
			}
			_, err := fmt.Fprintf(a.stdout, "TLS_CERT_FILE=%s\nTLS_KEY_FILE=%s\nCA=%s\n",
				filepath.Join(outDir, "server.pem"),
				filepath.Join(outDir, "server-key.pem"),
				filepath.Join(outDir, "ca.pem"))
			return err
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "certs", "directory to write the PEM files into")
	cmd.Flags().StringSliceVar(&hosts, "host", []string{"localhost", "127.0.0.1"}, "DNS names or IPs for the server certificate")
	return cmd
}
