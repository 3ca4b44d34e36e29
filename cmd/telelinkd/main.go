package main

import (
	"context"
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/telelink/pkg/app"
	"github.com/robotalks/telelink/pkg/cli/sh"
	"github.com/robotalks/telelink/pkg/config"
	fx "github.com/robotalks/telelink/pkg/framework"
)

func init() {
	config.SetupFlags()
}

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	defer glog.Flush()

	flags := config.DefaultFlags()
	conf, err := flags.NewConfig()
	if err != nil {
		glog.Errorf("config: %v", err)
		return 2
	}
	glog.Infof("device %s", conf.DeviceID)

	dev, err := newDevice(conf)
	if err != nil {
		glog.Errorf("device: %v", err)
		return 1
	}
	defer dev.Close()

	a, err := app.New(conf.Options(), dev.Board)
	if err != nil {
		glog.Errorf("app: %v", err)
		return 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := fx.NewRunnerWith(ctx).HandleSignals()
	runner.Go(append(dev.Tasks, a.Tasks()...)...)

	if flags.Shell {
		shell := sh.New(a)
		shell.Pins, shell.Peer, shell.Vectors = dev.Pins, dev.Peer, dev.Vectors
		go func() {
			shell.Run()
			cancel()
		}()
		defer shell.Close()
	}

	if err := runner.Wait(); err != nil {
		glog.Errorf("stopped: %v", err)
		return 1
	}
	st := a.Stats()
	glog.Infof("stopped: %d batches, %d ack timeouts, %d underruns", st.Batches, st.AckTimeouts, st.Underruns)
	return 0
}
