package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"weatherstack/internal/api"
	"weatherstack/internal/launcher"
	"weatherstack/internal/logger"
	"weatherstack/internal/ui"
)

var (
	servePort   int
	serveListen string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the control API server",
	Long: `Run the HTTP control API: stack status, per-service start and stop,
launch history, and WebSocket log streaming.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveListen, "listen", "127.0.0.1", "Address to bind to")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	// Warn about security implications of non-localhost binding
	if serveListen != "127.0.0.1" && serveListen != "localhost" {
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "╔════════════════════════════════════════════════════════════════╗")
		fmt.Fprintln(os.Stderr, "║                        ⚠️  WARNING ⚠️                            ║")
		fmt.Fprintln(os.Stderr, "╠════════════════════════════════════════════════════════════════╣")
		fmt.Fprintln(os.Stderr, "║  You are binding to a non-localhost address!                  ║")
		fmt.Fprintln(os.Stderr, "║                                                               ║")
		fmt.Fprintln(os.Stderr, "║  This exposes service control capabilities to the network.    ║")
		fmt.Fprintln(os.Stderr, "║  Anyone who can reach this address can:                       ║")
		fmt.Fprintln(os.Stderr, "║    - View the state of every stack service                    ║")
		fmt.Fprintln(os.Stderr, "║    - Start and stop services                                  ║")
		fmt.Fprintln(os.Stderr, "║    - View service logs and launch history                     ║")
		fmt.Fprintln(os.Stderr, "║                                                               ║")
		fmt.Fprintln(os.Stderr, "║  There is NO authentication. Use at your own risk.           ║")
		fmt.Fprintln(os.Stderr, "╚════════════════════════════════════════════════════════════════╝")
		fmt.Fprintln(os.Stderr, "")
	}

	stack, err := loadStack()
	if err != nil {
		return err
	}

	console := ui.Stdout()
	manager := detectManager(stack, console)

	var opts []launcher.Option
	var history api.HistorySource
	if s := openHistory(stack); s != nil {
		defer s.Close()
		opts = append(opts, launcher.WithHistory(s))
		history = s
	}

	l := launcher.New(console, manager, opts...)
	router := api.NewRouter(stack.Specs(), l, manager, history)

	addr := fmt.Sprintf("%s:%d", serveListen, servePort)
	logger.Info("starting control API", "addr", addr)

	if err := http.ListenAndServe(addr, router); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
