package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jgivc/frqarchive/internal/app"
	"github.com/spf13/cobra"
)

func main() {
	var cfgFileName string

	root := &cobra.Command{
		Use:           "frqarchive",
		Short:         "AP free-response question archive",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgFileName, "config", "c", "config.yml", "Path to config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the archive over HTTP",
			Args:  cobra.NoArgs,
			Run: func(_ *cobra.Command, _ []string) {
				serve(app.New(cfgFileName))
			},
		},
		&cobra.Command{
			Use:   "build",
			Short: "Scan the course and question folders and write data/",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a := app.New(cfgFileName)
				defer a.Stop()

				return a.Index(cmd.OutOrStdout())
			},
		},
		browseCommand(&cfgFileName),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func browseCommand(cfgFileName *string) *cobra.Command {
	var fragment bool

	cmd := &cobra.Command{
		Use:   "browse [start-href]",
		Short: "Browse the archive in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := "/"
			if len(args) > 0 {
				start = args[0]
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := app.New(*cfgFileName)
			defer a.Stop()

			return a.Browse(ctx, start, fragment, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&fragment, "fragment", false, "Keep addresses in the fragment (/#/course/...)")

	return cmd
}

func serve(a *app.App) {
	a.Start()

	c := make(chan os.Signal, 1)
	defer close(c)
	done := make(chan struct{})

	signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)
	go func() {
		defer close(done)

		for sig := range c {
			switch sig {
			case syscall.SIGUSR1:
				go a.Index(os.Stdout)
			case syscall.SIGTERM, syscall.SIGINT:
				fmt.Println("Received termination signal. Shutting down...")

				return
			}
		}
	}()

	<-done
	signal.Stop(c)
	a.Stop()
	fmt.Println("done")
}
