// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/tochemey/sphactor/actor"
	"github.com/tochemey/sphactor/log"
	"github.com/tochemey/sphactor/stage"
	"github.com/tochemey/sphactor/stock"
)

const shutdownTimeout = 10 * time.Second

// flags holds the command line of the program
type flags struct {
	stage    string
	save     string
	logFile  string
	logLevel string
	verbose  bool
}

func parseFlags(args []string, output io.Writer) (*flags, error) {
	f := new(flags)
	set := pflag.NewFlagSet("sphactor", pflag.ContinueOnError)
	set.SetOutput(output)
	set.StringVarP(&f.stage, "stage", "s", "", "stage file to load")
	set.StringVar(&f.save, "save", "", "file the stage is saved to on exit")
	set.StringVar(&f.logFile, "log-file", "", "rotating log file written alongside stdout")
	set.StringVar(&f.logLevel, "log-level", "info", "minimum level logged: debug, info, warn, error")
	set.BoolVarP(&f.verbose, "verbose", "v", false, "log at debug level and trace actor commands")

	if err := set.Parse(args); err != nil {
		return nil, err
	}
	if f.stage == "" {
		return nil, fmt.Errorf("--stage is required")
	}
	return f, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads the stage, waits for ctx to be done and tears the stage down
func run(ctx context.Context, args []string, stdout io.Writer) (err error) {
	f, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}

	level, err := log.ParseLevel(f.logLevel)
	if err != nil {
		return err
	}
	if f.verbose {
		level = log.DebugLevel
	}

	writers := []io.Writer{stdout}
	if f.logFile != "" {
		file := log.NewRotatingFile(f.logFile, 50, 3, 28)
		defer func() { err = multierr.Append(err, file.Close()) }()
		writers = append(writers, file)
	}
	logger := log.NewZap(level, writers...)
	defer func() { err = multierr.Append(err, logger.Flush()) }()

	registry := actor.NewRegistry(actor.WithRegistryLogger(logger))
	defer registry.Dispose()
	if err := stock.RegisterAll(registry); err != nil {
		return err
	}

	sphStage := stage.New(f.stage, registry,
		stage.WithLogger(logger),
		stage.WithActorOptions(actor.WithLogger(logger), actor.WithVerbose(f.verbose)))

	count, loadErr := sphStage.Load(ctx, f.stage)
	if loadErr == nil {
		logger.Infof("running %d actors from %s", count, f.stage)
		<-ctx.Done()
		logger.Info("shutting down")
	}

	if loadErr == nil && f.save != "" {
		loadErr = sphStage.SaveAs(f.save)
	}

	cctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return multierr.Append(loadErr, sphStage.Clear(cctx))
}
