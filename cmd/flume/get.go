package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flumeio/flume"
	"github.com/flumeio/flume/httpware"
	"github.com/flumeio/flume/jsontree"
)

func newGetCmd() *cobra.Command {
	var (
		configPath  string
		timeout     time.Duration
		retries     int
		maxInFlight int64
		headers     []string
		pretty      bool
	)

	cmd := &cobra.Command{
		Use:   "get <url>",
		Short: "Perform a GET request through the pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &clientConfig{}
			if configPath != "" {
				loaded, err := loadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			if timeout == 0 {
				configured, err := cfg.timeout()
				if err != nil {
					return err
				}
				timeout = configured
			}
			if retries == 0 {
				retries = cfg.Retries
			}
			if maxInFlight == 0 {
				maxInFlight = cfg.MaxInFlight
			}

			defaults := httpware.DefaultHeaders{}
			for key, value := range cfg.Headers {
				defaults[key] = value
			}
			for _, h := range headers {
				key, value, ok := strings.Cut(h, ":")
				if !ok {
					return fmt.Errorf("malformed header %q, want Name: value", h)
				}
				defaults[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}

			pipe := httpware.NewTransport(&http.Client{}).Pipe()
			if retries > 1 {
				pipe = flume.NewRetry("cli.retry", pipe, retries).Pipe()
			}
			if timeout > 0 {
				pipe = flume.NewTimeout("cli.timeout", pipe, timeout).Pipe()
			}
			if maxInFlight > 0 {
				pipe = flume.NewLimit("cli.limit", pipe, maxInFlight).Pipe()
			}

			p := flume.NewPipeline[*httpware.Call]("cli.get")
			defer p.Close() //nolint:errcheck
			p.Inject(defaults)
			p.Use(pipe)
			p.Inject(httpware.JSONBody{})

			call := httpware.NewCall(http.MethodGet, args[0])
			if err := p.Run(cmd.Context(), call); err != nil {
				return err
			}

			fmt.Fprintln(cmd.ErrOrStderr(), call.Response.StatusCode, http.StatusText(call.Response.StatusCode))
			switch {
			case call.Response.JSON != nil && pretty:
				fmt.Fprintln(cmd.OutOrStdout(), jsontree.EncodeIndent(call.Response.JSON, "  "))
			case call.Response.JSON != nil:
				fmt.Fprintln(cmd.OutOrStdout(), jsontree.Encode(call.Response.JSON))
			default:
				fmt.Fprintln(cmd.OutOrStdout(), string(call.Response.Body))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML client profile")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "overall request timeout")
	cmd.Flags().IntVar(&retries, "retries", 0, "retry attempts on transport failure")
	cmd.Flags().Int64Var(&maxInFlight, "max-inflight", 0, "cap on concurrent transport calls")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "request header, Name: value")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")

	return cmd
}
