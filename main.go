package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/afero"

	"github.com/moyoez/http-file-store/api"
	"github.com/moyoez/http-file-store/api/notifyhub"
	"github.com/moyoez/http-file-store/monitor"
	"github.com/moyoez/http-file-store/store"
	"github.com/moyoez/http-file-store/tool"
	"github.com/moyoez/http-file-store/watch"
)

func main() {
	flags := tool.SetFlags()
	tool.InitLogger()

	env, err := tool.LoadEnv()
	if err != nil {
		tool.DefaultLogger.Fatalf("invalid environment: %v", err)
	}
	configPath := flags.UseConfigPath
	if configPath == "" {
		configPath = env.Config
	}
	appCfg, err := tool.LoadConfig(configPath, flags)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	tool.ApplyEnv(&appCfg, env)
	tool.SetLogMode(appCfg.Log, flags.Verbose)

	cwd, err := os.Getwd()
	if err != nil {
		tool.DefaultLogger.Fatalf("failed to read working directory: %v", err)
	}
	aliases, err := tool.PrepareAliases(appCfg.Aliases, cwd)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	appCfg.Aliases = aliases

	var persister store.Persister
	if tool.ConfigPath != "" {
		persister = tool.NewConfigStore(tool.ConfigPath)
	} else if appCfg.ConfigurableAlias {
		tool.DefaultLogger.Warnf("[Alias] no config file given, alias changes will not be saved")
	}

	fsys := afero.NewOsFs()
	registry := store.NewRegistry(fsys, persister)
	for name, root := range aliases {
		if err := registry.Register(name, root); err != nil {
			tool.DefaultLogger.Fatalf("[Alias] %v", err)
		}
	}
	st := store.New(fsys, registry, tool.DefaultLogger)

	tool.DefaultLogger.Infof("[Server] http-file-store url_base %s", appCfg.URLBase)
	tool.DefaultLogger.Infof("[Server] http-file-store alias %v", registry.List())
	tool.DefaultLogger.Infof("[Server] http-file-store allow_overwrite %t", appCfg.AllowOverwrite)

	var opts api.Options
	if appCfg.Events || appCfg.Watch {
		opts.Hub = notifyhub.New()
	}
	if appCfg.Metrics {
		var clients func() int
		if opts.Hub != nil {
			clients = opts.Hub.Len
		}
		opts.Metrics = monitor.NewMetrics(clients)
		opts.Metrics.SetAliases(len(aliases))
	}
	if appCfg.Watch {
		w, err := watch.New(aliases, opts.Hub, tool.DefaultLogger)
		if err != nil {
			tool.DefaultLogger.Fatalf("[Watch] %v", err)
		}
		w.Start()
		defer w.Stop()
		opts.Watcher = w
	}

	server := api.NewServer(appCfg, st, opts)
	if flags.ShowQR {
		printQRCode(server.ServiceURL())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.Start(ctx); err != nil {
		tool.DefaultLogger.Errorf("[Server] %v", err)
		os.Exit(1)
	}
	tool.DefaultLogger.Info("[Server] stopped")
}

func printQRCode(url string) {
	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		tool.DefaultLogger.Warnf("[Server] failed to render QR code: %v", err)
		return
	}
	fmt.Println(qr.ToSmallString(false))
	fmt.Println(url)
}
