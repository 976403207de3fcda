package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/virtops/vcenter-inventory/internal/collector"
	"github.com/virtops/vcenter-inventory/internal/config"
	"github.com/virtops/vcenter-inventory/internal/metricsserver"
	"github.com/virtops/vcenter-inventory/internal/vsphere"
	"github.com/virtops/vcenter-inventory/pkg/log"
)

type CollectOptions struct {
	configFile  string
	host        string
	port        int
	url         string
	username    string
	password    string
	insecure    bool
	output      string
	metricsAddr string

	cfg *config.Config
}

func NewCollectOptions() *CollectOptions {
	return &CollectOptions{
		port: config.DefaultPort,
	}
}

func NewCmdCollect() *cobra.Command {
	o := NewCollectOptions()
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Gather vCenter virtual machine inventory",
		Example: "vcenter-inventory collect " +
			"--host vcenter.example.com " +
			"-u administrator@vsphere.local -p secret " +
			"--output inventory.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), cmd.Flags(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *CollectOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.configFile, "config", "", "path to a YAML config file")
	fs.StringVar(&o.host, "host", "", "vCenter host name")
	fs.IntVar(&o.port, "port", config.DefaultPort, "vCenter SDK port")
	fs.StringVar(&o.url, "url", "", "full vCenter SDK URL, overrides host and port")
	fs.StringVarP(&o.username, "username", "u", "", "vCenter username")
	fs.StringVarP(&o.password, "password", "p", "", "vCenter password")
	fs.BoolVar(&o.insecure, "insecure", false, "skip TLS certificate verification")
	fs.StringVarP(&o.output, "output", "o", "", "file the snapshot is written to, stdout when empty")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "address a Prometheus /metrics endpoint binds to for the run, disabled when empty")
}

// resolveConfig layers the configuration: environment first, then the config
// file, then any flag set on the command line.
func (o *CollectOptions) resolveConfig(fs *pflag.FlagSet) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("reading configuration from environment: %w", err)
	}

	if o.configFile != "" {
		if err := cfg.ParseConfigFile(o.configFile); err != nil {
			return err
		}
	}

	if fs.Changed("host") {
		cfg.VCenter.Host = o.host
	}
	if fs.Changed("port") {
		cfg.VCenter.Port = o.port
	}
	if fs.Changed("url") {
		cfg.VCenter.URL = o.url
	}
	if fs.Changed("username") {
		cfg.VCenter.Username = o.username
	}
	if fs.Changed("password") {
		cfg.VCenter.Password = o.password
	}
	if fs.Changed("insecure") {
		cfg.VCenter.Insecure = o.insecure
	}
	if fs.Changed("output") {
		cfg.Output = o.output
	}
	if fs.Changed("metrics-addr") {
		cfg.MetricsAddr = o.metricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	o.cfg = cfg
	return nil
}

func (o *CollectOptions) Run(ctx context.Context, fs *pflag.FlagSet, args []string) error {
	if err := o.resolveConfig(fs); err != nil {
		return err
	}

	logLvl, err := zap.ParseAtomicLevel(o.cfg.LogLevel)
	if err != nil {
		logLvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger := log.InitLog(logLvl)
	defer func() {
		_ = logger.Sync()
	}()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	zap.S().Named("cli").Debugw("resolved configuration", "config", o.cfg.String())

	if o.cfg.MetricsAddr != "" {
		listener, err := net.Listen("tcp", o.cfg.MetricsAddr)
		if err != nil {
			return fmt.Errorf("binding metrics listener on %s: %w", o.cfg.MetricsAddr, err)
		}
		srvCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := metricsserver.NewMetricServer(o.cfg.MetricsAddr, listener).Run(srvCtx); err != nil {
				zap.S().Named("metrics_server").Errorw("metrics server failed", "error", err)
			}
		}()
	}

	snapshot, err := collector.New().Collect(ctx, vsphere.Config{
		URL:      o.cfg.VCenter.URL,
		Host:     o.cfg.VCenter.Host,
		Port:     o.cfg.VCenter.Port,
		Username: o.cfg.VCenter.Username,
		Password: o.cfg.VCenter.Password,
		Insecure: o.cfg.VCenter.Insecure,
	})
	if err != nil {
		if errors.Is(err, collector.ErrEmptyInventory) {
			return fmt.Errorf("no inventory: %w", err)
		}
		return err
	}

	return writeSnapshot(snapshot, o.cfg.Output)
}

func writeSnapshot(snapshot *collector.Snapshot, output string) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot to %s: %w", output, err)
	}
	zap.S().Named("cli").Infow("snapshot written", "path", output)
	return nil
}
