// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ProbeError is returned when a probed host answers with a failure status.
type ProbeError struct {
	URL    string
	Status int
}

// Error implements the [builtin.error] interface.
func (e ProbeError) Error() string {
	return fmt.Sprintf("probe of %s failed with status %d", e.URL, e.Status)
}

type probeOptions struct {
	retries int
	waitMin time.Duration
	waitMax time.Duration
	timeout time.Duration
}

func probeCommand() *cobra.Command {
	var opts probeOptions

	cmd := &cobra.Command{
		Use:   "probe URL",
		Short: "Check that a host answers with a success status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer log.Sync()

			status, err := probe(cmd.Context(), log, args[0], opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), status)
			return err
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.retries, "retries", 3, "number of retries")
	flags.DurationVar(&opts.waitMin, "wait-min", 100*time.Millisecond, "minimum wait between retries")
	flags.DurationVar(&opts.waitMax, "wait-max", 2*time.Second, "maximum wait between retries")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Second, "timeout of a single attempt")

	return cmd
}

func probe(ctx context.Context, log *zap.Logger, url string, opts probeOptions) (string, error) {
	rc := retryablehttp.Client{
		HTTPClient: &http.Client{
			Timeout: opts.timeout,
		},
		Logger:       leveledLogger{log: log.Sugar()},
		RetryWaitMin: opts.waitMin,
		RetryWaitMax: opts.waitMax,
		RetryMax:     opts.retries,
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := rc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return "", ProbeError{URL: url, Status: resp.StatusCode}
	}
	return resp.Status, nil
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger.
type leveledLogger struct {
	log *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Infow(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warnw(msg, keysAndValues...)
}
