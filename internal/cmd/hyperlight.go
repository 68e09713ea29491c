package cmd

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sandboxbench/internal/hostserver"
)

var (
	hyperlightListen    string
	hyperlightGuestPath string
	hyperlightInitSize  int
)

func addHyperlightCommand(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "hyperlight-host",
		Short: "Run the Hyperlight host-server that bridges HTTP requests to pooled in-process sandboxes",
		Args:  cobra.NoArgs,
		RunE:  runHyperlightHost,
	}

	flags := cmd.Flags()
	flags.StringVar(&hyperlightListen, "listen", "127.0.0.1:8080", "address to listen on")
	flags.StringVar(&hyperlightGuestPath, "guest", "", "path to the guest binary/image (logged only; every sandbox runs the built-in echo guest)")
	flags.IntVar(&hyperlightInitSize, "init-sandbox-size", 0, "sandboxes to pre-create before serving")

	parent.AddCommand(cmd)
}

func runHyperlightHost(cmd *cobra.Command, args []string) error {
	fn := hostserver.EchoGuestFunction
	if hyperlightGuestPath != "" {
		log.WithField("guest", hyperlightGuestPath).Info("hyperlight-host: guest binary configured")
	}

	srv := hostserver.New(fn, hyperlightInitSize)

	log.WithField("addr", hyperlightListen).Info("hyperlight-host: listening")
	if err := http.ListenAndServe(hyperlightListen, srv); err != nil {
		return fmt.Errorf("hyperlight-host: %w", err)
	}
	return nil
}
